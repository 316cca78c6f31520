package tour

import (
	"time"

	"github.com/google/uuid"
)

// DateSlot is the inventory ledger row for one departure.
// BookedSlots never goes below zero.
type DateSlot struct {
	TourID      uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	MaxSlots    int
	BookedSlots int
}

func (s DateSlot) Available() int {
	if s.BookedSlots >= s.MaxSlots {
		return 0
	}
	return s.MaxSlots - s.BookedSlots
}

func (s *DateSlot) Increment(n int) {
	if n <= 0 {
		return
	}
	s.BookedSlots += n
}

func (s *DateSlot) Decrement(n int) {
	if n <= 0 {
		return
	}
	s.BookedSlots -= n
	if s.BookedSlots < 0 {
		s.BookedSlots = 0
	}
}
