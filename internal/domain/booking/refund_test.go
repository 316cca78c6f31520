//go:build unit

package booking_test

import (
	"testing"
	"time"

	"tour-booking/internal/domain/booking"

	"github.com/stretchr/testify/assert"
)

func TestRefundPercent(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{days: 45, want: 90},
		{days: 31, want: 90},
		{days: 30, want: 50},
		{days: 15, want: 50},
		{days: 14, want: 25},
		{days: 7, want: 25},
		{days: 6, want: 0},
		{days: 0, want: 0},
		{days: -3, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, booking.RefundPercent(tt.days), "days=%d", tt.days)
	}
}

func TestDaysUntil(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, booking.DaysUntil(start, start.Add(-29*time.Hour)))
	assert.Equal(t, 1, booking.DaysUntil(start, start.Add(-24*time.Hour)))
	assert.Equal(t, 0, booking.DaysUntil(start, start))
	assert.Equal(t, 0, booking.DaysUntil(start, start.Add(5*time.Hour)))
}

func TestCalculateRefund(t *testing.T) {
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	now := start.AddDate(0, 0, -20)

	r := booking.CalculateRefund(1000, start, now)

	assert.Equal(t, int64(500), r.Amount)
	assert.Equal(t, 50, r.Percent)
	assert.Equal(t, 20, r.Days)
	assert.Equal(t, "20 days until tour", r.Policy)
}
