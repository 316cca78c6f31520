package queries

import (
	"context"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/infra"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.NewKind("booking not found", errs.ErrNotFound)
	ErrBookingAccess   = errs.NewKind("you do not have permission to access this booking", errs.ErrForbidden)
	ErrAdminOnly       = errs.NewKind("insufficient permissions", errs.ErrForbidden)
)

type TourSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
}

// BookingView is the read model of a booking. Tour and User are joined at
// read time and are nil when the referenced row is gone.
type BookingView struct {
	ID                uuid.UUID                 `json:"id"`
	BookingCode       string                    `json:"bookingCode"`
	TourID            uuid.UUID                 `json:"tourId"`
	UserID            uuid.UUID                 `json:"userId"`
	Tour              *TourSummary              `json:"tour,omitempty"`
	User              *UserSummary              `json:"user,omitempty"`
	SelectedDate      booking.SelectedDate      `json:"selectedDate"`
	NumberOfAdults    int                       `json:"numberOfAdults"`
	NumberOfChildren  int                       `json:"numberOfChildren"`
	NumberOfInfants   int                       `json:"numberOfInfants"`
	TotalParticipants int                       `json:"totalParticipants"`
	CustomerInfo      booking.CustomerInfo      `json:"customerInfo"`
	Participants      []booking.Participant     `json:"participants"`
	Pricing           booking.Pricing           `json:"pricing"`
	Payment           booking.Payment           `json:"payment"`
	Status            booking.Status            `json:"status"`
	StatusHistory     []booking.StatusChange    `json:"statusHistory"`
	Cancellation      *booking.Cancellation     `json:"cancellation,omitempty"`
	SpecialRequests   string                    `json:"specialRequests"`
	AddOns            []booking.AddOn           `json:"addOns"`
	EmergencyContact  *booking.EmergencyContact `json:"emergencyContact,omitempty"`
	InternalNotes     string                    `json:"internalNotes,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
	ConfirmedAt       *time.Time                `json:"confirmedAt,omitempty"`
	CancelledAt       *time.Time                `json:"cancelledAt,omitempty"`
	CreatedBy         uuid.UUID                 `json:"createdBy"`
	UpdatedBy         uuid.UUID                 `json:"updatedBy"`
}

// BookingFilter is conjunctive. StartFrom and StartTo are inclusive bounds
// on the departure start date.
type BookingFilter struct {
	Status    *booking.Status
	UserID    *uuid.UUID
	TourID    *uuid.UUID
	StartFrom *time.Time
	StartTo   *time.Time
}

type BookingPage struct {
	Items      []*BookingView
	Pagination Pagination
}

type BookingStatistics struct {
	Total        int   `json:"total"`
	Pending      int   `json:"pending"`
	Confirmed    int   `json:"confirmed"`
	Completed    int   `json:"completed"`
	Cancelled    int   `json:"cancelled"`
	TotalRevenue int64 `json:"totalRevenue"`
	TotalPaid    int64 `json:"totalPaid"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByCode(ctx context.Context, code string) (*BookingView, error)
	FindAll(ctx context.Context, filter BookingFilter, page PageRequest) ([]*BookingView, int, error)
	Statistics(ctx context.Context) (*BookingStatistics, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem skips access checks; for read-after-write in commands.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	GetByCode(ctx context.Context, actor shared.Actor, code string) (*BookingView, error)
	ListMine(ctx context.Context, actor shared.Actor, filter BookingFilter, page PageRequest) (*BookingPage, error)
	ListAll(ctx context.Context, actor shared.Actor, filter BookingFilter, page PageRequest) (*BookingPage, error)
	ListByTour(ctx context.Context, actor shared.Actor, tourID uuid.UUID, filter BookingFilter, page PageRequest) (*BookingPage, error)
	Statistics(ctx context.Context, actor shared.Actor) (*BookingStatistics, error)
}

type PageLimits struct {
	Default int
	Max     int
}

type bookingQueriesImpl struct {
	store  BookingReadStore
	limits PageLimits
}

func NewBookingQueries(store BookingReadStore, limits PageLimits) BookingQueries {
	return &bookingQueriesImpl{store: store, limits: limits}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error) {
	v, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanView(v.UserID) {
		return nil, ErrBookingAccess
	}
	return v, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	v, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return v, nil
}

func (q *bookingQueriesImpl) GetByCode(ctx context.Context, actor shared.Actor, code string) (*BookingView, error) {
	v, err := q.store.FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if !actor.CanView(v.UserID) {
		return nil, ErrBookingAccess
	}
	return v, nil
}

func (q *bookingQueriesImpl) ListMine(ctx context.Context, actor shared.Actor, filter BookingFilter, page PageRequest) (*BookingPage, error) {
	filter.UserID = &actor.UserID
	return q.list(ctx, filter, page)
}

func (q *bookingQueriesImpl) ListAll(ctx context.Context, actor shared.Actor, filter BookingFilter, page PageRequest) (*BookingPage, error) {
	if !actor.IsStaff() {
		return nil, ErrAdminOnly
	}
	return q.list(ctx, filter, page)
}

func (q *bookingQueriesImpl) ListByTour(ctx context.Context, actor shared.Actor, tourID uuid.UUID, filter BookingFilter, page PageRequest) (*BookingPage, error) {
	if !actor.IsStaff() {
		return nil, ErrAdminOnly
	}
	filter.TourID = &tourID
	return q.list(ctx, filter, page)
}

func (q *bookingQueriesImpl) Statistics(ctx context.Context, actor shared.Actor) (*BookingStatistics, error) {
	if !actor.IsStaff() {
		return nil, ErrAdminOnly
	}
	return q.store.Statistics(ctx)
}

func (q *bookingQueriesImpl) list(ctx context.Context, filter BookingFilter, page PageRequest) (*BookingPage, error) {
	page, err := page.Normalize(q.limits.Default, q.limits.Max)
	if err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, booking.ErrInvalidStatus
	}

	items, total, err := q.store.FindAll(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*BookingView{}
	}
	return &BookingPage{
		Items:      items,
		Pagination: NewPagination(page, total),
	}, nil
}
