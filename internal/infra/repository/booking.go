package repository

import (
	"context"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/infra"
	"tour-booking/internal/infra/converter"
	"tour-booking/internal/infra/pgquery"

	"github.com/google/uuid"
)

type BookingQueries interface {
	CreateBooking(ctx context.Context, db pgquery.DBTX, arg pgquery.Bookings) error
	GetBookingForUpdate(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Bookings, error)
	UpdateBooking(ctx context.Context, db pgquery.DBTX, arg pgquery.Bookings) (int64, error)
	DeleteBooking(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (int64, error)
}

type BookingRepository struct {
	queries BookingQueries
}

func NewBookingRepository(queries BookingQueries) *BookingRepository {
	return &BookingRepository{
		queries: queries,
	}
}

func (r *BookingRepository) Create(ctx context.Context, tx pgquery.DBTX, b *booking.Booking) error {
	row, err := converter.BookingToInfra(b)
	if err != nil {
		return err
	}

	if err := r.queries.CreateBooking(ctx, tx, row); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, tx pgquery.DBTX, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.GetBookingForUpdate(ctx, tx, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock booking", err)
	}
	return converter.BookingFromInfra(row)
}

func (r *BookingRepository) Save(ctx context.Context, tx pgquery.DBTX, b *booking.Booking) error {
	row, err := converter.BookingToInfra(b)
	if err != nil {
		return err
	}

	affected, err := r.queries.UpdateBooking(ctx, tx, row)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, tx pgquery.DBTX, id uuid.UUID) error {
	affected, err := r.queries.DeleteBooking(ctx, tx, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if affected == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}
