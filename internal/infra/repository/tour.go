package repository

import (
	"context"
	"log/slog"
	"time"

	"tour-booking/internal/domain/tour"
	"tour-booking/internal/infra"
	"tour-booking/internal/infra/converter"
	"tour-booking/internal/infra/pgquery"
	"tour-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type TourQueries interface {
	GetTourByID(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Tours, error)
	LockTourDate(ctx context.Context, db pgquery.DBTX, key pgquery.TourDateKey) (pgquery.TourDates, error)
	SetTourDateBooked(ctx context.Context, db pgquery.DBTX, key pgquery.TourDateKey, booked int32) (int64, error)
}

// TourRepository is the inventory ledger over tour_dates.
type TourRepository struct {
	queries TourQueries
}

func NewTourRepository(queries TourQueries) *TourRepository {
	return &TourRepository{
		queries: queries,
	}
}

func (r *TourRepository) GetTourByID(ctx context.Context, tx pgquery.DBTX, id uuid.UUID) (*tour.Tour, error) {
	row, err := r.queries.GetTourByID(ctx, tx, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find tour", err)
	}
	return converter.TourFromInfra(row), nil
}

func (r *TourRepository) LockDeparture(ctx context.Context, tx pgquery.DBTX, tourID uuid.UUID, start, end time.Time) (*tour.DateSlot, error) {
	row, err := r.queries.LockTourDate(ctx, tx, dateKey(tourID, start, end))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to read tour date", err)
	}
	slot := converter.DateSlotFromInfra(row)
	return &slot, nil
}

func (r *TourRepository) GetAvailableSlots(ctx context.Context, tx pgquery.DBTX, tourID uuid.UUID, start, end time.Time) (int, bool, error) {
	slot, err := r.LockDeparture(ctx, tx, tourID, start, end)
	if err != nil || slot == nil {
		return 0, false, err
	}
	return slot.Available(), true, nil
}

func (r *TourRepository) IncrementBookedSlots(ctx context.Context, tx pgquery.DBTX, tourID uuid.UUID, start, end time.Time, n int) error {
	return r.adjustBooked(ctx, tx, tourID, start, end, n, (*tour.DateSlot).Increment)
}

func (r *TourRepository) DecrementBookedSlots(ctx context.Context, tx pgquery.DBTX, tourID uuid.UUID, start, end time.Time, n int) error {
	return r.adjustBooked(ctx, tx, tourID, start, end, n, (*tour.DateSlot).Decrement)
}

// adjustBooked locks exactly one departure, applies the ledger rule and
// writes the result back.
func (r *TourRepository) adjustBooked(ctx context.Context, tx pgquery.DBTX, tourID uuid.UUID, start, end time.Time, n int, apply func(*tour.DateSlot, int)) error {
	if n <= 0 {
		return nil
	}
	if end.IsZero() {
		slog.Warn("departure end date missing, booked slots unchanged", "tour_id", tourID, "start_date", start.Format(time.DateOnly))
		return nil
	}
	slot, err := r.LockDeparture(ctx, tx, tourID, start, end)
	if err != nil {
		return err
	}
	if slot == nil {
		slog.Warn("tour date not found, booked slots unchanged",
			"tour_id", tourID,
			"start_date", start.Format(time.DateOnly),
			"end_date", end.Format(time.DateOnly))
		return nil
	}

	apply(slot, n)
	if _, err := r.queries.SetTourDateBooked(ctx, tx, dateKey(tourID, slot.StartDate, slot.EndDate), int32(slot.BookedSlots)); err != nil {
		return infra.WrapRepoErr("failed to update booked slots", err)
	}
	return nil
}

func dateKey(tourID uuid.UUID, start, end time.Time) pgquery.TourDateKey {
	return pgquery.TourDateKey{
		TourID:    tourID,
		StartDate: pgconv.DateToPgtype(start),
		EndDate:   pgconv.DateToPgtype(end),
	}
}
