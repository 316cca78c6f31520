package pgquery

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `b.id, b.booking_code, b.tour_id, b.user_id, b.start_date, b.end_date,
	b.number_of_adults, b.number_of_children, b.number_of_infants, b.total_participants,
	b.customer_info, b.participants, b.pricing, b.payment, b.status, b.status_history,
	b.cancellation, b.special_requests, b.add_ons, b.emergency_contact, b.internal_notes,
	b.created_at, b.updated_at, b.confirmed_at, b.cancelled_at, b.created_by, b.updated_by`

const createBooking = `
INSERT INTO bookings (
	id, booking_code, tour_id, user_id, start_date, end_date,
	number_of_adults, number_of_children, number_of_infants, total_participants,
	customer_info, participants, pricing, payment, status, status_history,
	cancellation, special_requests, add_ons, emergency_contact, internal_notes,
	created_at, updated_at, confirmed_at, cancelled_at, created_by, updated_by
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
	$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
)`

func (q *Queries) CreateBooking(ctx context.Context, db DBTX, arg Bookings) error {
	_, err := db.Exec(ctx, createBooking,
		arg.ID, arg.BookingCode, arg.TourID, arg.UserID, arg.StartDate, arg.EndDate,
		arg.NumberOfAdults, arg.NumberOfChildren, arg.NumberOfInfants, arg.TotalParticipants,
		arg.CustomerInfo, arg.Participants, arg.Pricing, arg.Payment, arg.Status, arg.StatusHistory,
		arg.Cancellation, arg.SpecialRequests, arg.AddOns, arg.EmergencyContact, arg.InternalNotes,
		arg.CreatedAt, arg.UpdatedAt, arg.ConfirmedAt, arg.CancelledAt, arg.CreatedBy, arg.UpdatedBy,
	)
	return err
}

const getBookingForUpdate = `SELECT ` + bookingColumns + `
FROM bookings b
WHERE b.id = $1
FOR UPDATE`

func (q *Queries) GetBookingForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Bookings, error) {
	row := db.QueryRow(ctx, getBookingForUpdate, id)
	return scanBooking(row)
}

// Identity, party size and pricing are immutable after creation and are
// deliberately absent from the SET list.
const updateBooking = `
UPDATE bookings SET
	customer_info = $2,
	participants = $3,
	payment = $4,
	status = $5,
	status_history = $6,
	cancellation = $7,
	special_requests = $8,
	add_ons = $9,
	emergency_contact = $10,
	internal_notes = $11,
	updated_at = $12,
	confirmed_at = $13,
	cancelled_at = $14,
	updated_by = $15
WHERE id = $1`

func (q *Queries) UpdateBooking(ctx context.Context, db DBTX, arg Bookings) (int64, error) {
	tag, err := db.Exec(ctx, updateBooking,
		arg.ID, arg.CustomerInfo, arg.Participants, arg.Payment, arg.Status, arg.StatusHistory,
		arg.Cancellation, arg.SpecialRequests, arg.AddOns, arg.EmergencyContact, arg.InternalNotes,
		arg.UpdatedAt, arg.ConfirmedAt, arg.CancelledAt, arg.UpdatedBy,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteBooking = `DELETE FROM bookings WHERE id = $1`

func (q *Queries) DeleteBooking(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, deleteBooking, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const bookingViewSelect = `SELECT ` + bookingColumns + `,
	t.name, t.slug, u.full_name, u.email
FROM bookings b
LEFT JOIN tours t ON t.id = b.tour_id
LEFT JOIN users u ON u.id = b.user_id`

func (q *Queries) GetBookingViewByID(ctx context.Context, db DBTX, id uuid.UUID) (BookingViewRow, error) {
	row := db.QueryRow(ctx, bookingViewSelect+` WHERE b.id = $1`, id)
	return scanBookingView(row)
}

// Codes are not unique; the oldest match wins.
func (q *Queries) GetBookingViewByCode(ctx context.Context, db DBTX, code string) (BookingViewRow, error) {
	row := db.QueryRow(ctx, bookingViewSelect+` WHERE b.booking_code = $1 ORDER BY b.created_at ASC LIMIT 1`, code)
	return scanBookingView(row)
}

type ListBookingsParams struct {
	Status    pgtype.Text
	UserID    pgtype.UUID
	TourID    pgtype.UUID
	StartFrom pgtype.Date
	StartTo   pgtype.Date
	OrderBy   string
	Desc      bool
	Limit     int32
	Offset    int32
}

const bookingFilter = `
WHERE ($1::text IS NULL OR b.status = $1)
  AND ($2::uuid IS NULL OR b.user_id = $2)
  AND ($3::uuid IS NULL OR b.tour_id = $3)
  AND ($4::date IS NULL OR b.start_date >= $4)
  AND ($5::date IS NULL OR b.start_date <= $5)`

var bookingOrderColumns = map[string]string{
	"createdAt": "b.created_at",
	"updatedAt": "b.updated_at",
	"startDate": "b.start_date",
	"total":     "(b.pricing->>'total')::bigint",
}

func (q *Queries) ListBookingViews(ctx context.Context, db DBTX, arg ListBookingsParams) ([]BookingViewRow, error) {
	col, ok := bookingOrderColumns[arg.OrderBy]
	if !ok {
		col = bookingOrderColumns["createdAt"]
	}
	dir := "ASC"
	if arg.Desc {
		dir = "DESC"
	}
	sql := fmt.Sprintf("%s %s ORDER BY %s %s, b.id %s LIMIT $6 OFFSET $7", bookingViewSelect, bookingFilter, col, dir, dir)

	rows, err := db.Query(ctx, sql,
		arg.Status, arg.UserID, arg.TourID, arg.StartFrom, arg.StartTo, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BookingViewRow
	for rows.Next() {
		item, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (q *Queries) CountBookings(ctx context.Context, db DBTX, arg ListBookingsParams) (int64, error) {
	var total int64
	err := db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings b `+bookingFilter,
		arg.Status, arg.UserID, arg.TourID, arg.StartFrom, arg.StartTo).Scan(&total)
	return total, err
}

const getBookingStatistics = `
SELECT
	COUNT(*),
	COUNT(*) FILTER (WHERE status = 'pending'),
	COUNT(*) FILTER (WHERE status = 'confirmed'),
	COUNT(*) FILTER (WHERE status = 'completed'),
	COUNT(*) FILTER (WHERE status = 'cancelled'),
	COALESCE(SUM((pricing->>'total')::bigint) FILTER (WHERE status <> 'cancelled'), 0)::bigint,
	COALESCE(SUM((payment->>'paidAmount')::bigint), 0)::bigint
FROM bookings`

func (q *Queries) GetBookingStatistics(ctx context.Context, db DBTX) (BookingStatistics, error) {
	var s BookingStatistics
	err := db.QueryRow(ctx, getBookingStatistics).Scan(
		&s.Total, &s.Pending, &s.Confirmed, &s.Completed, &s.Cancelled, &s.TotalRevenue, &s.TotalPaid,
	)
	return s, err
}

func bookingScanTargets(b *Bookings) []any {
	return []any{
		&b.ID, &b.BookingCode, &b.TourID, &b.UserID, &b.StartDate, &b.EndDate,
		&b.NumberOfAdults, &b.NumberOfChildren, &b.NumberOfInfants, &b.TotalParticipants,
		&b.CustomerInfo, &b.Participants, &b.Pricing, &b.Payment, &b.Status, &b.StatusHistory,
		&b.Cancellation, &b.SpecialRequests, &b.AddOns, &b.EmergencyContact, &b.InternalNotes,
		&b.CreatedAt, &b.UpdatedAt, &b.ConfirmedAt, &b.CancelledAt, &b.CreatedBy, &b.UpdatedBy,
	}
}

func scanBooking(row pgx.Row) (Bookings, error) {
	var b Bookings
	err := row.Scan(bookingScanTargets(&b)...)
	return b, err
}

func scanBookingView(row pgx.Row) (BookingViewRow, error) {
	var v BookingViewRow
	targets := append(bookingScanTargets(&v.Bookings), &v.TourName, &v.TourSlug, &v.UserFullName, &v.UserEmail)
	err := row.Scan(targets...)
	return v, err
}
