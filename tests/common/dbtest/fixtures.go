//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email, fullName, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, full_name, role) VALUES ($1, $2, $3, $4) ON CONFLICT (email) DO NOTHING",
		userID, email, fullName, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

type TourFixture struct {
	Name         string
	MinGroupSize int
	MaxGroupSize int
	PriceAdult   int64
	PriceChild   int64
	PriceInfant  int64
	Status       string
}

func DefaultTour() TourFixture {
	return TourFixture{
		Name:         "Ha Long Bay Cruise",
		MinGroupSize: 1,
		MaxGroupSize: 20,
		PriceAdult:   1_000_000,
		PriceChild:   500_000,
		PriceInfant:  0,
		Status:       "active",
	}
}

func CreateTestTour(t *testing.T, db DBLike, f TourFixture) uuid.UUID {
	t.Helper()

	tourID := uuid.New()
	slug := strings.ToLower(strings.ReplaceAll(f.Name, " ", "-")) + "-" + tourID.String()[:8]
	_, err := db.Exec(context.Background(), `
		INSERT INTO tours (id, name, slug, status, min_group_size, max_group_size, price_adult, price_child, price_infant)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		tourID, f.Name, slug, f.Status, f.MinGroupSize, f.MaxGroupSize, f.PriceAdult, f.PriceChild, f.PriceInfant)
	require.NoError(t, err)

	return tourID
}

// CreateTourDate inserts a departure. A nil maxSlots leaves the tour's
// max group size as capacity.
func CreateTourDate(t *testing.T, db DBLike, tourID uuid.UUID, start, end time.Time, maxSlots *int, booked int) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO tour_dates (tour_id, start_date, end_date, max_slots, booked_slots)
		VALUES ($1, $2, $3, $4, $5)`,
		tourID, start, end, maxSlots, booked)
	require.NoError(t, err)
}

func BookedSlots(t *testing.T, db DBLike, tourID uuid.UUID, start time.Time) int {
	t.Helper()

	var booked int
	err := db.QueryRow(context.Background(),
		"SELECT booked_slots FROM tour_dates WHERE tour_id = $1 AND start_date = $2", tourID, start).Scan(&booked)
	require.NoError(t, err)
	return booked
}

// DepartureBookedSlots reads one departure when several share a start date.
func DepartureBookedSlots(t *testing.T, db DBLike, tourID uuid.UUID, start, end time.Time) int {
	t.Helper()

	var booked int
	err := db.QueryRow(context.Background(),
		"SELECT booked_slots FROM tour_dates WHERE tour_id = $1 AND start_date = $2 AND end_date = $3",
		tourID, start, end).Scan(&booked)
	require.NoError(t, err)
	return booked
}

func CountBookings(t *testing.T, db DBLike, tourID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM bookings WHERE tour_id = $1", tourID).Scan(&n)
	require.NoError(t, err)
	return n
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations', 'atlas_schema_revisions')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
