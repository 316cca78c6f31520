//go:build unit

package tour_test

import (
	"testing"

	"tour-booking/internal/domain/tour"
	"tour-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestDateSlot(t *testing.T) {
	t.Run("available never negative", func(t *testing.T) {
		s := tour.DateSlot{MaxSlots: 10, BookedSlots: 12}
		assert.Equal(t, 0, s.Available())

		s = tour.DateSlot{MaxSlots: 10, BookedSlots: 4}
		assert.Equal(t, 6, s.Available())
	})

	t.Run("increment then decrement restores", func(t *testing.T) {
		s := tour.DateSlot{MaxSlots: 10, BookedSlots: 3}
		s.Increment(4)
		assert.Equal(t, 7, s.BookedSlots)
		s.Decrement(4)
		assert.Equal(t, 3, s.BookedSlots)
	})

	t.Run("decrement floors at zero", func(t *testing.T) {
		s := tour.DateSlot{MaxSlots: 10, BookedSlots: 2}
		s.Decrement(5)
		assert.Equal(t, 0, s.BookedSlots)
	})

	t.Run("non positive counts are ignored", func(t *testing.T) {
		s := tour.DateSlot{MaxSlots: 10, BookedSlots: 2}
		s.Increment(0)
		s.Decrement(-3)
		assert.Equal(t, 2, s.BookedSlots)
	})

}

func TestTourCheckCapacity(t *testing.T) {
	tr := &tour.Tour{MinGroupSize: 2, MaxGroupSize: 8}

	tests := []struct {
		name      string
		n         int
		available int
		errIs     error
	}{
		{name: "fits", n: 4, available: 10},
		{name: "not enough slots wins over group size", n: 1, available: 0, errIs: tour.ErrInsufficientSlots},
		{name: "below minimum", n: 1, available: 10, errIs: tour.ErrGroupTooSmall},
		{name: "above maximum", n: 9, available: 10, errIs: tour.ErrGroupTooLarge},
		{name: "exactly available", n: 8, available: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tr.CheckCapacity(tt.n, tt.available)
			if tt.errIs == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.errIs)
			assert.Equal(t, errs.KindConflict, errs.KindOf(err))
		})
	}
}
