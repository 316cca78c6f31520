package commands

import (
	"context"
	"log/slog"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/infra"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/queries"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errs.NewKind("user not found", errs.ErrNotFound)
	ErrAdminOnly    = errs.NewKind("only administrators can change booking status", errs.ErrForbidden)
)

type CreateBookingInput struct {
	TourID           uuid.UUID
	SelectedDate     booking.SelectedDate
	Adults           int
	Children         int
	Infants          int
	PaymentMethod    string
	CustomerInfo     booking.CustomerInfo
	Participants     []booking.Participant
	SpecialRequests  string
	EmergencyContact *booking.EmergencyContact
	AddOns           []booking.AddOn
}

type AddPaymentInput struct {
	Amount        int64
	Method        string
	TransactionID string
	Note          string
}

type UpdateStatusInput struct {
	Status string
	Note   string
}

type CancelResult struct {
	Booking      *queries.BookingView
	RefundAmount int64
	RefundPolicy string
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, actor shared.Actor, in CreateBookingInput) (*queries.BookingView, error)
	UpdateBooking(ctx context.Context, actor shared.Actor, id uuid.UUID, patch booking.DetailsPatch) (*queries.BookingView, error)
	DeleteBooking(ctx context.Context, actor shared.Actor, id uuid.UUID) error
	UpdateStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, in UpdateStatusInput) (*queries.BookingView, error)
	AddPayment(ctx context.Context, actor shared.Actor, id uuid.UUID, in AddPaymentInput) (*queries.BookingView, error)
	CancelBooking(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) (*CancelResult, error)
}

const DefaultSideEffectTimeout = 5 * time.Second

type bookingUseCaseImpl struct {
	uow       shared.UnitOfWork
	queries   queries.BookingQueries
	notifier  Notifier
	publisher EventPublisher
	services  *booking.Services
	clock     clock.Clock

	sideEffectTimeout time.Duration
}

type Option func(*bookingUseCaseImpl)

// WithSideEffectTimeout bounds each notification, event and slot release
// that runs after a booking change has committed.
func WithSideEffectTimeout(d time.Duration) Option {
	return func(uc *bookingUseCaseImpl) {
		if d > 0 {
			uc.sideEffectTimeout = d
		}
	}
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	notifier Notifier,
	publisher EventPublisher,
	pricing booking.PricingCalculator,
	clk clock.Clock,
	opts ...Option,
) BookingCommands {
	uc := &bookingUseCaseImpl{
		uow:               uow,
		queries:           bookingQueries,
		notifier:          notifier,
		publisher:         publisher,
		services:          &booking.Services{Clock: clk, Pricing: pricing},
		clock:             clk,
		sideEffectTimeout: DefaultSideEffectTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *bookingUseCaseImpl) CreateBooking(ctx context.Context, actor shared.Actor, in CreateBookingInput) (*queries.BookingView, error) {
	if _, err := uc.uow.CommandReads().UserByID(ctx, actor.UserID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var created *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		t, err := tx.Tours().GetTourByID(ctx, tx.DB(), in.TourID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return tour.ErrTourNotFound
			}
			return err
		}
		if !t.IsBookable() {
			return tour.ErrTourInactive
		}

		b, err := booking.NewBooking(uc.services, booking.NewBookingParams{
			TourID:           t.ID,
			UserID:           actor.UserID,
			SelectedDate:     in.SelectedDate,
			Adults:           in.Adults,
			Children:         in.Children,
			Infants:          in.Infants,
			AdultPrice:       t.Prices.Adult,
			ChildPrice:       t.Prices.Child,
			InfantPrice:      t.Prices.Infant,
			PaymentMethod:    booking.PaymentMethod(in.PaymentMethod),
			CustomerInfo:     in.CustomerInfo,
			Participants:     in.Participants,
			SpecialRequests:  in.SpecialRequests,
			EmergencyContact: in.EmergencyContact,
			AddOns:           in.AddOns,
		})
		if err != nil {
			return err
		}

		// The departure row stays locked until commit, so the check below
		// and the increment that follows cannot interleave with another
		// booking for the same date. Both go to the locked row's own dates.
		sd := b.SelectedDate()
		slot, err := tx.Tours().LockDeparture(ctx, tx.DB(), t.ID, sd.StartDate, sd.EndDate)
		if err != nil {
			return err
		}
		if slot == nil {
			return tour.ErrDateNotAvailable
		}
		b.ResolveEndDate(slot.EndDate)
		if err := t.CheckCapacity(b.TotalParticipants(), slot.Available()); err != nil {
			return err
		}

		if err := tx.Bookings().Create(ctx, tx.DB(), b); err != nil {
			return err
		}
		if err := tx.Tours().IncrementBookedSlots(ctx, tx.DB(), t.ID, slot.StartDate, slot.EndDate, b.TotalParticipants()); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	view, err := uc.queries.GetByIDSystem(ctx, created.ID())
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, view, uc.notifier.BookingCreated)
	uc.publish(ctx, EventBookingCreated, view, actor.UserID, 0)
	return view, nil
}

func (uc *bookingUseCaseImpl) UpdateBooking(ctx context.Context, actor shared.Actor, id uuid.UUID, patch booking.DetailsPatch) (*queries.BookingView, error) {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := uc.loadForMutation(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		b.UpdateDetails(patch, actor.UserID, uc.clock.Now())
		return tx.Bookings().Save(ctx, tx.DB(), b)
	})
	if err != nil {
		return nil, err
	}

	view, err := uc.queries.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, EventBookingUpdated, view, actor.UserID, 0)
	return view, nil
}

// DeleteBooking removes a pending booking and gives its seats back. The
// release runs after the delete commits and is best-effort, as for
// cancellations.
func (uc *bookingUseCaseImpl) DeleteBooking(ctx context.Context, actor shared.Actor, id uuid.UUID) error {
	var deleted *booking.Booking
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := uc.loadForMutation(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if err := b.CheckDeletable(); err != nil {
			return err
		}
		if err := tx.Bookings().Delete(ctx, tx.DB(), id); err != nil {
			return err
		}
		deleted = b
		return nil
	})
	if err != nil {
		return err
	}

	uc.releaseSlots(ctx, deleted)
	uc.publishEvent(ctx, BookingEvent{
		Type:        EventBookingDeleted,
		BookingID:   deleted.ID(),
		BookingCode: deleted.Code(),
		TourID:      deleted.TourID(),
		UserID:      deleted.UserID(),
		Status:      deleted.Status(),
		ActorID:     actor.UserID,
		OccurredAt:  uc.clock.Now(),
	})
	return nil
}

func (uc *bookingUseCaseImpl) UpdateStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, in UpdateStatusInput) (*queries.BookingView, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	status, err := booking.NewStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if status == booking.StatusCancelled {
		res, err := uc.CancelBooking(ctx, actor, id, in.Note)
		if err != nil {
			return nil, err
		}
		return res.Booking, nil
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := uc.loadForMutation(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if err := b.TransitionTo(status, actor.UserID, in.Note, uc.clock.Now()); err != nil {
			return err
		}
		return tx.Bookings().Save(ctx, tx.DB(), b)
	})
	if err != nil {
		return nil, err
	}

	view, err := uc.queries.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, EventBookingStatusChanged, view, actor.UserID, 0)
	return view, nil
}

func (uc *bookingUseCaseImpl) AddPayment(ctx context.Context, actor shared.Actor, id uuid.UUID, in AddPaymentInput) (*queries.BookingView, error) {
	var autoConfirmed bool
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		autoConfirmed = false
		b, err := uc.loadForMutation(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		method, err := booking.NewPaymentMethod(in.Method, b.Payment().Method)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		txn := booking.Transaction{
			TransactionID: in.TransactionID,
			Amount:        in.Amount,
			Method:        method,
			Note:          in.Note,
		}
		if _, err := b.AddPayment(txn, actor.UserID, now); err != nil {
			return err
		}
		if autoConfirmed, err = b.AutoConfirm(actor.UserID, now); err != nil {
			return err
		}
		return tx.Bookings().Save(ctx, tx.DB(), b)
	})
	if err != nil {
		return nil, err
	}

	view, err := uc.queries.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, view, uc.notifier.PaymentReceived)
	uc.publish(ctx, EventBookingPaymentAdded, view, actor.UserID, in.Amount)
	if autoConfirmed {
		uc.publish(ctx, EventBookingStatusChanged, view, actor.UserID, 0)
	}
	return view, nil
}

func (uc *bookingUseCaseImpl) CancelBooking(ctx context.Context, actor shared.Actor, id uuid.UUID, reason string) (*CancelResult, error) {
	var (
		cancelled *booking.Booking
		refund    booking.Refund
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := uc.loadForMutation(ctx, tx, actor, id)
		if err != nil {
			return err
		}
		if refund, err = b.Cancel(actor.UserID, reason, uc.clock.Now()); err != nil {
			return err
		}
		if err := tx.Bookings().Save(ctx, tx.DB(), b); err != nil {
			return err
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.releaseSlots(ctx, cancelled)

	view, err := uc.queries.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, view, func(ctx context.Context, n BookingNotification) error {
		n.RefundPolicy = refund.Policy
		return uc.notifier.BookingCancelled(ctx, n)
	})
	uc.publish(ctx, EventBookingCancelled, view, actor.UserID, refund.Amount)

	return &CancelResult{
		Booking:      view,
		RefundAmount: refund.Amount,
		RefundPolicy: refund.Policy,
	}, nil
}

func (uc *bookingUseCaseImpl) loadForMutation(ctx context.Context, tx shared.Tx, actor shared.Actor, id uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Bookings().FindByIDForUpdate(ctx, tx.DB(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, queries.ErrBookingNotFound
		}
		return nil, err
	}
	if !actor.CanMutate(b.UserID()) {
		return nil, queries.ErrBookingAccess
	}
	return b, nil
}

// releaseSlots gives a booking's seats back in its own transaction. The
// booking change has already committed, so a failure here is only logged
// and the ledger is reconciled out of band.
func (uc *bookingUseCaseImpl) releaseSlots(ctx context.Context, b *booking.Booking) {
	ctx, cancel := uc.detach(ctx)
	defer cancel()

	sd := b.SelectedDate()
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Tours().DecrementBookedSlots(ctx, tx.DB(), b.TourID(), sd.StartDate, sd.EndDate, b.TotalParticipants())
	})
	if err != nil {
		slog.Error("failed to release tour slots",
			"booking_id", b.ID().String(),
			"tour_id", b.TourID().String(),
			"slots", b.TotalParticipants(),
			"error", err.Error())
	}
}

func (uc *bookingUseCaseImpl) notify(ctx context.Context, view *queries.BookingView, send func(context.Context, BookingNotification) error) {
	ctx, cancel := uc.detach(ctx)
	defer cancel()

	if err := send(ctx, NotificationFromView(view)); err != nil {
		slog.Warn("failed to send booking notification",
			"booking_id", view.ID.String(),
			"booking_code", view.BookingCode,
			"error", err.Error())
	}
}

func (uc *bookingUseCaseImpl) publish(ctx context.Context, typ EventType, view *queries.BookingView, actorID uuid.UUID, amount int64) {
	uc.publishEvent(ctx, BookingEvent{
		Type:        typ,
		BookingID:   view.ID,
		BookingCode: view.BookingCode,
		TourID:      view.TourID,
		UserID:      view.UserID,
		Status:      view.Status,
		ActorID:     actorID,
		Amount:      amount,
		OccurredAt:  uc.clock.Now(),
	})
}

func (uc *bookingUseCaseImpl) publishEvent(ctx context.Context, e BookingEvent) {
	ctx, cancel := uc.detach(ctx)
	defer cancel()

	if err := uc.publisher.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish booking event",
			"type", string(e.Type),
			"booking_id", e.BookingID.String(),
			"error", err.Error())
	}
}

// detach drops the request's cancellation and bounds the work by
// sideEffectTimeout.
func (uc *bookingUseCaseImpl) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), uc.sideEffectTimeout)
}
