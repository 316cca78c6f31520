package pgquery

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Bookings mirrors the bookings table. JSON columns are carried as raw
// bytes and decoded by the converters.
type Bookings struct {
	ID                uuid.UUID
	BookingCode       string
	TourID            uuid.UUID
	UserID            uuid.UUID
	StartDate         pgtype.Date
	EndDate           pgtype.Date
	NumberOfAdults    int32
	NumberOfChildren  int32
	NumberOfInfants   int32
	TotalParticipants int32
	CustomerInfo      []byte
	Participants      []byte
	Pricing           []byte
	Payment           []byte
	Status            string
	StatusHistory     []byte
	Cancellation      []byte
	SpecialRequests   string
	AddOns            []byte
	EmergencyContact  []byte
	InternalNotes     string
	CreatedAt         pgtype.Timestamptz
	UpdatedAt         pgtype.Timestamptz
	ConfirmedAt       pgtype.Timestamptz
	CancelledAt       pgtype.Timestamptz
	CreatedBy         pgtype.UUID
	UpdatedBy         pgtype.UUID
}

// BookingViewRow is a booking joined with its tour and user at read time.
type BookingViewRow struct {
	Bookings
	TourName     pgtype.Text
	TourSlug     pgtype.Text
	UserFullName pgtype.Text
	UserEmail    pgtype.Text
}

type Tours struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	Status       string
	MinGroupSize int32
	MaxGroupSize int32
	PriceAdult   int64
	PriceChild   int64
	PriceInfant  int64
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type TourDates struct {
	TourID      uuid.UUID
	StartDate   pgtype.Date
	EndDate     pgtype.Date
	MaxSlots    int32
	BookedSlots int32
}

type Users struct {
	ID          uuid.UUID
	Email       string
	FullName    string
	Role        string
	FirebaseUID pgtype.Text
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type BookingStatistics struct {
	Total        int64
	Pending      int64
	Confirmed    int64
	Completed    int64
	Cancelled    int64
	TotalRevenue int64
	TotalPaid    int64
}
