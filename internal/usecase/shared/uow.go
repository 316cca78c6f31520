package shared

import (
	"context"
	"time"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/infra/pgquery"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Tours() TourCatalog
	Reads() CommandReads
	DB() pgquery.DBTX
}

type CommandReads interface {
	UserByID(ctx context.Context, id uuid.UUID) (*UserSnapshot, error)
	TourByID(ctx context.Context, id uuid.UUID) (*tour.Tour, error)
}

// Minimal snapshot for command read operations
type UserSnapshot struct {
	ID       uuid.UUID
	Email    string
	FullName string
	Role     string
}

type BookingRepository interface {
	Create(ctx context.Context, tx pgquery.DBTX, b *booking.Booking) error
	// FindByIDForUpdate locks the row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, tx pgquery.DBTX, id uuid.UUID) (*booking.Booking, error)
	Save(ctx context.Context, tx pgquery.DBTX, b *booking.Booking) error
	Delete(ctx context.Context, tx pgquery.DBTX, id uuid.UUID) error
}

// TourCatalog is the only channel through which the booking engine reads
// or changes tour capacity. A departure is keyed by tour, start date and
// end date.
type TourCatalog interface {
	GetTourByID(ctx context.Context, tx pgquery.DBTX, id uuid.UUID) (*tour.Tour, error)
	// LockDeparture locks one departure for the rest of the transaction. A
	// zero end resolves to the earliest departure on start. A missing
	// departure returns nil and no error.
	LockDeparture(ctx context.Context, tx pgquery.DBTX, tourID uuid.UUID, start, end time.Time) (*tour.DateSlot, error)
	// GetAvailableSlots is LockDeparture reduced to its free seats. A
	// missing departure reports found=false and zero slots.
	GetAvailableSlots(ctx context.Context, tx pgquery.DBTX, tourID uuid.UUID, start, end time.Time) (available int, found bool, err error)
	// Increment and Decrement touch only the departure matching both dates.
	// A zero end date or a missing row leaves the ledger unchanged.
	IncrementBookedSlots(ctx context.Context, tx pgquery.DBTX, tourID uuid.UUID, start, end time.Time, n int) error
	DecrementBookedSlots(ctx context.Context, tx pgquery.DBTX, tourID uuid.UUID, start, end time.Time, n int) error
}
