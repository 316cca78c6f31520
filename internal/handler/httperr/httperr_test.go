//go:build unit

package httperr_test

import (
	"net/http"
	"testing"

	"tour-booking/internal/domain/booking"
	"tour-booking/internal/domain/tour"
	"tour-booking/internal/handler/httperr"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", queries.ErrBookingNotFound, http.StatusNotFound},
		{"forbidden", queries.ErrBookingAccess, http.StatusForbidden},
		{"invalid input", booking.ErrInvalidPaymentMethod, http.StatusBadRequest},
		{"conflict", tour.ErrInsufficientSlots, http.StatusBadRequest},
		{"precondition failed", booking.ErrDepositRequired, http.StatusBadRequest},
		{"wrapped kind survives", errs.Wrap(booking.ErrOutstandingBalance, "complete booking"), http.StatusBadRequest},
		{"unclassified", errs.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, httperr.StatusFor(errs.KindOf(tt.err)))
		})
	}
}
