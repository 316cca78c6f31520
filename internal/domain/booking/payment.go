package booking

import (
	"time"

	"tour-booking/internal/pkg/ptr"
)

type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentCash         PaymentMethod = "cash"
	PaymentVNPay        PaymentMethod = "vnpay"
	PaymentMoMo         PaymentMethod = "momo"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentBankTransfer, PaymentCreditCard, PaymentCash, PaymentVNPay, PaymentMoMo:
		return true
	default:
		return false
	}
}

func (m PaymentMethod) String() string {
	return string(m)
}

// NewPaymentMethod falls back to fallback when s is empty.
func NewPaymentMethod(s string, fallback PaymentMethod) (PaymentMethod, error) {
	if s == "" {
		return fallback, nil
	}
	m := PaymentMethod(s)
	if !m.IsValid() {
		return "", ErrInvalidPaymentMethod
	}
	return m, nil
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusCompleted PaymentStatus = "completed"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

type Transaction struct {
	TransactionID string            `json:"transactionId"`
	Amount        int64             `json:"amount"`
	Method        PaymentMethod     `json:"method"`
	Status        TransactionStatus `json:"status"`
	PaidAt        time.Time         `json:"paidAt"`
	Note          string            `json:"note,omitempty"`
}

// Payment is the per-booking ledger. RemainingAmount is always
// Total minus PaidAmount, and DepositPaid never reverts once set.
type Payment struct {
	Method          PaymentMethod `json:"method"`
	Status          PaymentStatus `json:"status"`
	PaidAmount      int64         `json:"paidAmount"`
	RemainingAmount int64         `json:"remainingAmount"`
	Transactions    []Transaction `json:"transactions"`
	DepositRequired int64         `json:"depositRequired"`
	DepositPaid     bool          `json:"depositPaid"`
	DepositPaidAt   *time.Time    `json:"depositPaidAt,omitempty"`
}

func newPayment(method PaymentMethod, total, deposit int64) Payment {
	return Payment{
		Method:          method,
		Status:          PaymentStatusPending,
		RemainingAmount: total,
		Transactions:    []Transaction{},
		DepositRequired: deposit,
	}
}

// apply records txn against a ledger whose booking total is total and
// reports whether this transaction flipped the deposit latch.
func (p *Payment) apply(txn Transaction, total int64) (depositLatched bool) {
	p.Transactions = append(p.Transactions, txn)
	p.PaidAmount += txn.Amount
	p.RemainingAmount = total - p.PaidAmount

	if !p.DepositPaid && p.PaidAmount >= p.DepositRequired {
		p.DepositPaid = true
		paidAt := txn.PaidAt
		p.DepositPaidAt = &paidAt
		depositLatched = true
	}

	switch {
	case p.RemainingAmount <= 0:
		p.Status = PaymentStatusCompleted
	case p.PaidAmount > 0:
		p.Status = PaymentStatusPartial
	}
	return depositLatched
}

func (p Payment) clone() Payment {
	c := p
	c.Transactions = append([]Transaction(nil), p.Transactions...)
	if c.Transactions == nil {
		c.Transactions = []Transaction{}
	}
	c.DepositPaidAt = ptr.Clone(p.DepositPaidAt)
	return c
}
