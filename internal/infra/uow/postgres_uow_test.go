//go:build unit

package uow

import (
	"errors"
	"testing"
	"time"

	"tour-booking/internal/infra"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock timeout on departure row", &pgconn.PgError{Code: "55P03"}, true},
		{"wrapped by repository", infra.WrapRepoErr("lock tour date", &pgconn.PgError{Code: "55P03"}), true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestShouldRetryStopsAtLimit(t *testing.T) {
	err := &pgconn.PgError{Code: "40001"}

	assert.True(t, shouldRetry(err, 0, 3))
	assert.False(t, shouldRetry(err, 3, 3))
}

func TestCalculateBackoff(t *testing.T) {
	base := 10 * time.Millisecond

	for attempt := 0; attempt < 4; attempt++ {
		got := calculateBackoff(attempt, base)
		floor := time.Duration(1<<attempt) * base
		assert.GreaterOrEqual(t, got, floor)
		assert.Less(t, got, floor+floor/5+time.Nanosecond)
	}
}
