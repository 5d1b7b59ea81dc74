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

// Fixture rates are chosen so quote assertions stay round numbers:
// 3 hourly units = 4500, 7 daily units with the weekly tier = 63000.
const (
	FixtureHourlyRateCents  = 1500
	FixtureDailyRateCents   = 10000
	FixtureMonthlyRateCents = 150000
)

func CreateTestProperty(t *testing.T, db DBLike, ownerID uuid.UUID, name string) uuid.UUID {
	t.Helper()
	return CreateTestPropertyWithStatus(t, db, ownerID, name, "available")
}

func CreateTestPropertyWithStatus(t *testing.T, db DBLike, ownerID uuid.UUID, name, status string) uuid.UUID {
	t.Helper()

	propertyID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO properties (id, owner_id, name, status,
		    hourly_rate_cents, daily_rate_cents, monthly_rate_cents,
		    weekly_discount_percent, monthly_discount_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 10, 20)`,
		propertyID, ownerID, name, status,
		FixtureHourlyRateCents, FixtureDailyRateCents, FixtureMonthlyRateCents)
	require.NoError(t, err)

	return propertyID
}

func CreateTestBooking(t *testing.T, db DBLike, propertyID, renterID uuid.UUID, kind string, startsAt, endsAt time.Time, status string) uuid.UUID {
	t.Helper()

	bookingID := uuid.New()
	ctx := context.Background()

	var completedAt *time.Time
	var confirmedAt *time.Time
	switch status {
	case "confirmed":
		at := startsAt.Add(-time.Hour)
		confirmedAt = &at
	case "completed":
		at := startsAt.Add(-time.Hour)
		confirmedAt = &at
		done := endsAt.Add(time.Minute)
		completedAt = &done
	}

	_, err := db.Exec(ctx, `
		INSERT INTO bookings (id, property_id, renter_id, booking_type, status,
		    starts_at, ends_at, total_amount_cents, confirmed_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		bookingID, propertyID, renterID, kind, status, startsAt, endsAt,
		int64(FixtureHourlyRateCents*3), confirmedAt, completedAt)
	require.NoError(t, err)

	return bookingID
}

func CreateTestBlock(t *testing.T, db DBLike, propertyID uuid.UUID, startsAt, endsAt time.Time, reason string) uuid.UUID {
	t.Helper()

	blockID := uuid.New()
	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO property_blocks (id, property_id, starts_at, ends_at, reason)
		VALUES ($1, $2, $3, $4, $5)`,
		blockID, propertyID, startsAt, endsAt, reason)
	require.NoError(t, err)

	return blockID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between subtests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var tbl string
			if err := rows.Scan(&tbl); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, tbl)
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
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
