package commands

import (
	"context"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

// Notifier is the outbound email channel. Calls are best-effort: an error
// is logged by the caller and never fails the booking operation.
type Notifier interface {
	BookingCreated(ctx context.Context, n BookingNotification) error
	PaymentReceived(ctx context.Context, n BookingNotification) error
	BookingCancelled(ctx context.Context, n BookingNotification) error
}

type BookingNotification struct {
	BookingID         uuid.UUID
	BookingCode       string
	CustomerName      string
	CustomerEmail     string
	TourName          string
	StartDate         time.Time
	EndDate           time.Time
	TotalParticipants int
	Total             int64
	PaidAmount        int64
	RemainingAmount   int64
	DepositRequired   int64
	PaymentMethod     string
	Transaction       *booking.Transaction
	RefundAmount      int64
	RefundPolicy      string
	Reason            string
}

func NotificationFromView(v *queries.BookingView) BookingNotification {
	n := BookingNotification{
		BookingID:         v.ID,
		BookingCode:       v.BookingCode,
		CustomerName:      v.CustomerInfo.FullName,
		CustomerEmail:     v.CustomerInfo.Email,
		StartDate:         v.SelectedDate.StartDate,
		EndDate:           v.SelectedDate.EndDate,
		TotalParticipants: v.TotalParticipants,
		Total:             v.Pricing.Total,
		PaidAmount:        v.Payment.PaidAmount,
		RemainingAmount:   v.Payment.RemainingAmount,
		DepositRequired:   v.Payment.DepositRequired,
		PaymentMethod:     v.Payment.Method.String(),
	}
	if v.Tour != nil {
		n.TourName = v.Tour.Name
	}
	if txns := v.Payment.Transactions; len(txns) > 0 {
		last := txns[len(txns)-1]
		n.Transaction = &last
	}
	if v.Cancellation != nil {
		n.RefundAmount = v.Cancellation.RefundAmount
		n.Reason = v.Cancellation.Reason
	}
	return n
}

type EventType string

const (
	EventBookingCreated       EventType = "booking.created"
	EventBookingUpdated       EventType = "booking.updated"
	EventBookingDeleted       EventType = "booking.deleted"
	EventBookingStatusChanged EventType = "booking.status_changed"
	EventBookingPaymentAdded  EventType = "booking.payment_added"
	EventBookingCancelled     EventType = "booking.cancelled"
)

type BookingEvent struct {
	Type        EventType      `json:"type"`
	BookingID   uuid.UUID      `json:"bookingId"`
	BookingCode string         `json:"bookingCode"`
	TourID      uuid.UUID      `json:"tourId"`
	UserID      uuid.UUID      `json:"userId"`
	Status      booking.Status `json:"status"`
	ActorID     uuid.UUID      `json:"actorId"`
	Amount      int64          `json:"amount,omitempty"`
	OccurredAt  time.Time      `json:"occurredAt"`
}

// EventPublisher emits lifecycle events after commit, best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, e BookingEvent) error
}
