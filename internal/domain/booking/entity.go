package booking

import (
	"time"

	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/patch"
	"tour-booking/internal/pkg/ptr"

	"github.com/google/uuid"
)

const (
	NoteCreated       = "Booking created"
	NoteAutoConfirmed = "Auto-confirmed after deposit payment"
)

type Services struct {
	Clock   clock.Clock
	Pricing PricingCalculator
}

type NewBookingParams struct {
	TourID           uuid.UUID
	UserID           uuid.UUID
	SelectedDate     SelectedDate
	Adults           int
	Children         int
	Infants          int
	AdultPrice       int64
	ChildPrice       int64
	InfantPrice      int64
	Discount         int64
	Tax              int64
	PaymentMethod    PaymentMethod
	CustomerInfo     CustomerInfo
	Participants     []Participant
	SpecialRequests  string
	EmergencyContact *EmergencyContact
	AddOns           []AddOn
}

// State is the persisted shape of a booking.
type State struct {
	ID                uuid.UUID
	BookingCode       string
	TourID            uuid.UUID
	UserID            uuid.UUID
	SelectedDate      SelectedDate
	NumberOfAdults    int
	NumberOfChildren  int
	NumberOfInfants   int
	TotalParticipants int
	CustomerInfo      CustomerInfo
	Participants      []Participant
	Pricing           Pricing
	Payment           Payment
	Status            Status
	StatusHistory     []StatusChange
	Cancellation      *Cancellation
	SpecialRequests   string
	AddOns            []AddOn
	EmergencyContact  *EmergencyContact
	InternalNotes     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ConfirmedAt       *time.Time
	CancelledAt       *time.Time
	CreatedBy         uuid.UUID
	UpdatedBy         uuid.UUID
}

type Booking struct {
	s State
}

func NewBooking(services *Services, p NewBookingParams) (*Booking, error) {
	if p.Adults < 0 || p.Children < 0 || p.Infants < 0 {
		return nil, ErrNegativeCount
	}
	total := p.Adults + p.Children + p.Infants
	if total == 0 {
		return nil, ErrNoParticipants
	}
	if p.SelectedDate.StartDate.IsZero() {
		return nil, ErrInvalidSelectedDate
	}
	method := p.PaymentMethod
	if method == "" {
		method = PaymentBankTransfer
	}
	if !method.IsValid() {
		return nil, ErrInvalidPaymentMethod
	}

	quote := services.Pricing.Calculate(PricingInput{
		Adults:      p.Adults,
		Children:    p.Children,
		Infants:     p.Infants,
		AdultPrice:  p.AdultPrice,
		ChildPrice:  p.ChildPrice,
		InfantPrice: p.InfantPrice,
		Discount:    p.Discount,
		Tax:         p.Tax,
	})

	now := services.Clock.Now()
	participants := p.Participants
	if participants == nil {
		participants = []Participant{}
	}
	addOns := p.AddOns
	if addOns == nil {
		addOns = []AddOn{}
	}

	return &Booking{s: State{
		ID:                uuid.New(),
		BookingCode:       GenerateCode(now),
		TourID:            p.TourID,
		UserID:            p.UserID,
		SelectedDate:      p.SelectedDate,
		NumberOfAdults:    p.Adults,
		NumberOfChildren:  p.Children,
		NumberOfInfants:   p.Infants,
		TotalParticipants: total,
		CustomerInfo:      p.CustomerInfo.normalized(),
		Participants:      participants,
		Pricing:           quote.Pricing,
		Payment:           newPayment(method, quote.Pricing.Total, quote.DepositRequired),
		Status:            StatusPending,
		StatusHistory: []StatusChange{{
			Status:    StatusPending,
			ChangedAt: now,
			ChangedBy: p.UserID,
			Note:      NoteCreated,
		}},
		SpecialRequests:  p.SpecialRequests,
		AddOns:           addOns,
		EmergencyContact: p.EmergencyContact,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        p.UserID,
		UpdatedBy:        p.UserID,
	}}, nil
}

func Reconstruct(s State) *Booking {
	return &Booking{s: cloneState(s)}
}

// State returns a deep copy; mutating it does not affect the booking.
func (b *Booking) State() State {
	return cloneState(b.s)
}

func (b *Booking) ID() uuid.UUID               { return b.s.ID }
func (b *Booking) Code() string                { return b.s.BookingCode }
func (b *Booking) TourID() uuid.UUID           { return b.s.TourID }
func (b *Booking) UserID() uuid.UUID           { return b.s.UserID }
func (b *Booking) SelectedDate() SelectedDate  { return b.s.SelectedDate }
func (b *Booking) TotalParticipants() int      { return b.s.TotalParticipants }
func (b *Booking) Pricing() Pricing            { return b.s.Pricing }
func (b *Booking) Payment() Payment            { return b.s.Payment.clone() }
func (b *Booking) Status() Status              { return b.s.Status }
func (b *Booking) CustomerInfo() CustomerInfo  { return b.s.CustomerInfo }
func (b *Booking) Cancellation() *Cancellation { return cloneCancellation(b.s.Cancellation) }
func (b *Booking) CreatedAt() time.Time        { return b.s.CreatedAt }
func (b *Booking) UpdatedAt() time.Time        { return b.s.UpdatedAt }
func (b *Booking) StatusHistory() []StatusChange {
	return append([]StatusChange(nil), b.s.StatusHistory...)
}

// ResolveEndDate records the end of the departure the inventory matched
// when only the start date was requested.
func (b *Booking) ResolveEndDate(end time.Time) {
	if b.s.SelectedDate.EndDate.IsZero() {
		b.s.SelectedDate.EndDate = DateOnly(end)
	}
}

func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.s.UserID == userID
}

// checkTransition is the single guard for every status change, whether
// requested by a caller or triggered by a payment.
func (b *Booking) checkTransition(to Status, now time.Time) error {
	if !to.IsValid() {
		return ErrInvalidStatus
	}
	switch b.s.Status {
	case StatusCancelled:
		if to == StatusCancelled {
			return ErrAlreadyCancelled
		}
		return ErrIllegalTransition
	case StatusCompleted:
		if to == StatusCancelled {
			return ErrAlreadyCompleted
		}
		return ErrIllegalTransition
	}
	if !CanTransition(b.s.Status, to) {
		return ErrIllegalTransition
	}

	switch to {
	case StatusConfirmed:
		if !b.s.Payment.DepositPaid {
			return ErrDepositRequired
		}
	case StatusCompleted:
		if b.s.Payment.RemainingAmount > 0 {
			return ErrOutstandingBalance
		}
		if b.s.SelectedDate.StartDate.After(now) {
			return ErrTourNotStarted
		}
	}
	return nil
}

// TransitionTo moves the booking to confirmed or completed. Cancellation
// must go through Cancel so that the refund is recorded.
func (b *Booking) TransitionTo(to Status, by uuid.UUID, note string, now time.Time) error {
	if to == StatusCancelled {
		if err := b.checkTransition(to, now); err != nil {
			return err
		}
		return ErrIllegalTransition
	}
	if err := b.checkTransition(to, now); err != nil {
		return err
	}
	b.appendStatus(to, by, note, now)
	if to == StatusConfirmed {
		t := now
		b.s.ConfirmedAt = &t
	}
	return nil
}

// AutoConfirm confirms a pending booking whose deposit has been paid.
// It reports whether a transition happened.
func (b *Booking) AutoConfirm(by uuid.UUID, now time.Time) (bool, error) {
	if b.s.Status != StatusPending || !b.s.Payment.DepositPaid {
		return false, nil
	}
	if err := b.TransitionTo(StatusConfirmed, by, NoteAutoConfirmed, now); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Booking) AddPayment(txn Transaction, by uuid.UUID, now time.Time) (depositLatched bool, err error) {
	if b.s.Status.IsTerminal() {
		return false, ErrPaymentOnClosedBooking
	}
	if txn.Amount <= 0 {
		return false, ErrInvalidPaymentAmount
	}
	if txn.Amount > b.s.Payment.RemainingAmount {
		return false, ErrPaymentExceedsRemaining
	}
	if txn.Method == "" {
		txn.Method = b.s.Payment.Method
	}
	if !txn.Method.IsValid() {
		return false, ErrInvalidPaymentMethod
	}
	if txn.Status == "" {
		txn.Status = TransactionCompleted
	}
	if txn.PaidAt.IsZero() {
		txn.PaidAt = now
	}
	if txn.TransactionID == "" {
		txn.TransactionID = NewTransactionID(now)
	}

	latched := b.s.Payment.apply(txn, b.s.Pricing.Total)
	b.touch(by, now)
	return latched, nil
}

func (b *Booking) Cancel(by uuid.UUID, reason string, now time.Time) (Refund, error) {
	if err := b.checkTransition(StatusCancelled, now); err != nil {
		return Refund{}, err
	}

	refund := CalculateRefund(b.s.Payment.PaidAmount, b.s.SelectedDate.StartDate, now)
	refundStatus := RefundNone
	if refund.Amount > 0 {
		refundStatus = RefundPending
	}
	b.s.Cancellation = &Cancellation{
		IsCancelled:  true,
		CancelledAt:  now,
		CancelledBy:  by,
		Reason:       reason,
		RefundAmount: refund.Amount,
		RefundStatus: refundStatus,
	}
	note := reason
	if note == "" {
		note = "Booking cancelled"
	}
	b.appendStatus(StatusCancelled, by, note, now)
	t := now
	b.s.CancelledAt = &t
	return refund, nil
}

// UpdateDetails applies an owner edit. Identity, status and financial
// fields are never reachable from a patch.
func (b *Booking) UpdateDetails(p DetailsPatch, by uuid.UUID, now time.Time) {
	if p.CustomerInfo != nil {
		b.s.CustomerInfo = p.CustomerInfo.normalized()
	}
	if p.Participants != nil {
		b.s.Participants = append([]Participant{}, (*p.Participants)...)
	}
	b.s.SpecialRequests = patch.Coalesce(p.SpecialRequests, b.s.SpecialRequests)
	if p.EmergencyContact != nil {
		b.s.EmergencyContact = ptr.Clone(p.EmergencyContact)
	}
	patch.Set(&b.s.InternalNotes, p.InternalNotes)
	b.touch(by, now)
}

func (b *Booking) CheckDeletable() error {
	if b.s.Status != StatusPending {
		return ErrNotDeletable
	}
	return nil
}

func (b *Booking) appendStatus(to Status, by uuid.UUID, note string, now time.Time) {
	b.s.Status = to
	b.s.StatusHistory = append(b.s.StatusHistory, StatusChange{
		Status:    to,
		ChangedAt: now,
		ChangedBy: by,
		Note:      note,
	})
	b.touch(by, now)
}

func (b *Booking) touch(by uuid.UUID, now time.Time) {
	b.s.UpdatedAt = now
	b.s.UpdatedBy = by
}

func cloneState(s State) State {
	c := s
	c.Participants = append([]Participant{}, s.Participants...)
	c.AddOns = append([]AddOn{}, s.AddOns...)
	c.StatusHistory = append([]StatusChange{}, s.StatusHistory...)
	c.Payment = s.Payment.clone()
	c.Cancellation = cloneCancellation(s.Cancellation)
	c.EmergencyContact = ptr.Clone(s.EmergencyContact)
	c.ConfirmedAt = ptr.Clone(s.ConfirmedAt)
	c.CancelledAt = ptr.Clone(s.CancelledAt)
	return c
}

func cloneCancellation(c *Cancellation) *Cancellation {
	if c == nil {
		return nil
	}
	cp := *c
	cp.RefundedAt = ptr.Clone(c.RefundedAt)
	return &cp
}
