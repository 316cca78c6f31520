package tour

import (
	"time"

	"tour-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrTourNotFound      = errs.NewKind("tour not found", errs.ErrNotFound)
	ErrTourInactive      = errs.NewKind("tour is not available for booking", errs.ErrConflict)
	ErrDateNotAvailable  = errs.NewKind("selected date is not available for this tour", errs.ErrInvalidInput)
	ErrInsufficientSlots = errs.NewKind("not enough available slots for the selected date", errs.ErrConflict)
	ErrGroupTooSmall     = errs.NewKind("number of participants is below the minimum group size", errs.ErrConflict)
	ErrGroupTooLarge     = errs.NewKind("number of participants exceeds the maximum group size", errs.ErrConflict)
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Prices struct {
	Adult  int64
	Child  int64
	Infant int64
}

// Tour is the read-only slice of the catalog the booking engine needs.
type Tour struct {
	ID           uuid.UUID
	Name         string
	Slug         string
	Status       Status
	MinGroupSize int
	MaxGroupSize int
	Prices       Prices
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t *Tour) IsBookable() bool {
	return t.Status != StatusInactive
}

// CheckCapacity validates a party of n against the available slots and
// the tour's group size bounds, in that order.
func (t *Tour) CheckCapacity(n, available int) error {
	if available < n {
		return ErrInsufficientSlots
	}
	if t.MinGroupSize > 0 && n < t.MinGroupSize {
		return ErrGroupTooSmall
	}
	if t.MaxGroupSize > 0 && n > t.MaxGroupSize {
		return ErrGroupTooLarge
	}
	return nil
}
