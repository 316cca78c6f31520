package pgquery

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getTourByID = `
SELECT id, name, slug, status, min_group_size, max_group_size,
	price_adult, price_child, price_infant, created_at, updated_at
FROM tours
WHERE id = $1`

func (q *Queries) GetTourByID(ctx context.Context, db DBTX, id uuid.UUID) (Tours, error) {
	var t Tours
	err := db.QueryRow(ctx, getTourByID, id).Scan(
		&t.ID, &t.Name, &t.Slug, &t.Status, &t.MinGroupSize, &t.MaxGroupSize,
		&t.PriceAdult, &t.PriceChild, &t.PriceInfant, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

type TourDateKey struct {
	TourID    uuid.UUID
	StartDate pgtype.Date
	EndDate   pgtype.Date
}

// A null max_slots falls back to the tour's max group size. A null end
// date in the key resolves to the earliest departure starting on StartDate,
// so exactly one row is locked.
const lockTourDate = `
SELECT td.tour_id, td.start_date, td.end_date,
	COALESCE(td.max_slots, t.max_group_size)::int, td.booked_slots
FROM tour_dates td
JOIN tours t ON t.id = td.tour_id
WHERE td.tour_id = $1
  AND td.start_date = $2
  AND ($3::date IS NULL OR td.end_date = $3)
ORDER BY td.end_date
LIMIT 1
FOR UPDATE OF td`

func (q *Queries) LockTourDate(ctx context.Context, db DBTX, key TourDateKey) (TourDates, error) {
	var d TourDates
	err := db.QueryRow(ctx, lockTourDate, key.TourID, key.StartDate, key.EndDate).Scan(
		&d.TourID, &d.StartDate, &d.EndDate, &d.MaxSlots, &d.BookedSlots,
	)
	return d, err
}

// setTourDateBooked addresses one departure exactly; a null end date
// matches nothing.
const setTourDateBooked = `
UPDATE tour_dates
SET booked_slots = $4
WHERE tour_id = $1 AND start_date = $2 AND end_date = $3`

func (q *Queries) SetTourDateBooked(ctx context.Context, db DBTX, key TourDateKey, booked int32) (int64, error) {
	tag, err := db.Exec(ctx, setTourDateBooked, key.TourID, key.StartDate, key.EndDate, booked)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
