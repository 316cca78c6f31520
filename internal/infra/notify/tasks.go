package notify

import (
	"encoding/json"
	"time"

	"tour-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeBookingConfirmation = "email:booking_confirmation"
	TypePaymentConfirmation = "email:payment_confirmation"
	TypeBookingCancellation = "email:booking_cancellation"

	QueueEmails = "emails"
	maxRetry    = 5
)

// EmailPayload is the JSON body of every email task.
type EmailPayload struct {
	BookingID         uuid.UUID `json:"bookingId"`
	BookingCode       string    `json:"bookingCode"`
	CustomerName      string    `json:"customerName"`
	CustomerEmail     string    `json:"customerEmail"`
	TourName          string    `json:"tourName"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	TotalParticipants int       `json:"totalParticipants"`
	Total             int64     `json:"total"`
	PaidAmount        int64     `json:"paidAmount"`
	RemainingAmount   int64     `json:"remainingAmount"`
	DepositRequired   int64     `json:"depositRequired"`
	PaymentMethod     string    `json:"paymentMethod"`
	TransactionID     string    `json:"transactionId,omitempty"`
	TransactionAmount int64     `json:"transactionAmount,omitempty"`
	RefundAmount      int64     `json:"refundAmount,omitempty"`
	RefundPolicy      string    `json:"refundPolicy,omitempty"`
	Reason            string    `json:"reason,omitempty"`
}

func payloadFromNotification(n commands.BookingNotification) EmailPayload {
	p := EmailPayload{
		BookingID:         n.BookingID,
		BookingCode:       n.BookingCode,
		CustomerName:      n.CustomerName,
		CustomerEmail:     n.CustomerEmail,
		TourName:          n.TourName,
		StartDate:         n.StartDate,
		EndDate:           n.EndDate,
		TotalParticipants: n.TotalParticipants,
		Total:             n.Total,
		PaidAmount:        n.PaidAmount,
		RemainingAmount:   n.RemainingAmount,
		DepositRequired:   n.DepositRequired,
		PaymentMethod:     n.PaymentMethod,
		RefundAmount:      n.RefundAmount,
		RefundPolicy:      n.RefundPolicy,
		Reason:            n.Reason,
	}
	if n.Transaction != nil {
		p.TransactionID = n.Transaction.TransactionID
		p.TransactionAmount = n.Transaction.Amount
	}
	return p
}

func NewEmailTask(taskType string, payload EmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(taskType, b)
	opts := []asynq.Option{asynq.Queue(QueueEmails), asynq.MaxRetry(maxRetry)}

	return task, opts, nil
}
