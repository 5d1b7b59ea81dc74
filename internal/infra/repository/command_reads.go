package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"deskhive/internal/domain/booking"
	"deskhive/internal/domain/property"
	"deskhive/internal/infra"
	"deskhive/internal/infra/db"
	"deskhive/internal/pkg/pgconv"
	"deskhive/internal/usecase/shared"

	"github.com/google/uuid"
)

// CommandReads serves the write side's snapshot lookups. It runs on
// whatever DBTX it is given, so the same code works inside and outside
// transactions.
type CommandReads struct {
	db db.DBTX
}

func NewCommandReads(db db.DBTX) *CommandReads {
	return &CommandReads{db: db}
}

const propertyByIDQuery = `
SELECT id, owner_id, status,
       hourly_rate_cents, daily_rate_cents, monthly_rate_cents,
       weekly_discount_percent, monthly_discount_percent,
       operating_hours
FROM properties
WHERE id = $1`

const propertyBlocksQuery = `
SELECT starts_at, ends_at, reason
FROM property_blocks
WHERE property_id = $1
ORDER BY starts_at`

func (r *CommandReads) PropertyByID(ctx context.Context, id uuid.UUID) (*shared.PropertySnapshot, error) {
	var (
		snap      shared.PropertySnapshot
		status    string
		hoursJSON []byte
	)
	err := r.db.QueryRow(ctx, propertyByIDQuery, id).Scan(
		&snap.ID,
		&snap.OwnerID,
		&status,
		&snap.Rates.HourlyCents,
		&snap.Rates.DailyCents,
		&snap.Rates.MonthlyCents,
		&snap.Discounts.WeeklyPercent,
		&snap.Discounts.MonthlyPercent,
		&hoursJSON,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("property not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find property", err)
	}
	snap.Status = property.Status(status)

	snap.Hours, err = decodeOperatingHours(hoursJSON)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to decode operating hours", err)
	}

	rows, err := r.db.Query(ctx, propertyBlocksQuery, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load property blocks", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			start, end time.Time
			reason     string
		)
		if err := rows.Scan(&start, &end, &reason); err != nil {
			return nil, infra.WrapRepoErr("failed to scan property block", err)
		}
		snap.Blocked = append(snap.Blocked, property.BlockedSpan{
			Interval: booking.ReconstructInterval(start, end),
			Reason:   reason,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate property blocks", err)
	}

	return &snap, nil
}

const bookingByIDQuery = `
SELECT id, property_id, renter_id, booking_type, status,
       starts_at, ends_at, total_amount_cents, reject_reason,
       created_at, updated_at,
       confirmed_at, rejected_at, cancelled_at, completed_at
FROM bookings
WHERE id = $1`

func (r *CommandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	return r.scanBooking(ctx, bookingByIDQuery, id)
}

func (r *CommandReads) BookingForUpdate(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	return r.scanBooking(ctx, bookingByIDQuery+" FOR UPDATE", id)
}

func (r *CommandReads) scanBooking(ctx context.Context, query string, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		snap  shared.BookingSnapshot
		kind  string
		state string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&snap.ID,
		&snap.PropertyID,
		&snap.RenterID,
		&kind,
		&state,
		&snap.StartTime,
		&snap.EndTime,
		&snap.AmountCents,
		&snap.RejectReason,
		&snap.CreatedAt,
		&snap.UpdatedAt,
		&snap.ConfirmedAt,
		&snap.RejectedAt,
		&snap.CancelledAt,
		&snap.CompletedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	snap.Kind = booking.Type(kind)
	snap.Status = booking.Status(state)
	return &snap, nil
}

const activeIntervalsQuery = `
SELECT starts_at, ends_at
FROM bookings
WHERE property_id = $1
  AND status IN ('pending', 'confirmed')
  AND ($2::uuid IS NULL OR id <> $2)`

func (r *CommandReads) ActiveIntervals(ctx context.Context, propertyID uuid.UUID, exclude *uuid.UUID) ([]booking.Interval, error) {
	rows, err := r.db.Query(ctx, activeIntervalsQuery, propertyID, exclude)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load active intervals", err)
	}
	defer rows.Close()

	var intervals []booking.Interval
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan active interval", err)
		}
		intervals = append(intervals, booking.ReconstructInterval(start, end))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate active intervals", err)
	}
	return intervals, nil
}

const reviewByIDQuery = `
SELECT id, booking_id, property_id, reviewer_id, rating, status,
       owner_response IS NOT NULL
FROM reviews
WHERE id = $1`

const reviewVotersQuery = `
SELECT user_id FROM review_helpful_votes WHERE review_id = $1`

const reviewReportersQuery = `
SELECT reporter_id FROM review_reports WHERE review_id = $1`

func (r *CommandReads) ReviewByID(ctx context.Context, id uuid.UUID) (*shared.ReviewSnapshot, error) {
	var snap shared.ReviewSnapshot
	err := r.db.QueryRow(ctx, reviewByIDQuery, id).Scan(
		&snap.ID,
		&snap.BookingID,
		&snap.PropertyID,
		&snap.ReviewerID,
		&snap.Rating,
		&snap.Status,
		&snap.HasResponse,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("review not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find review", err)
	}

	if snap.Voters, err = r.collectIDs(ctx, reviewVotersQuery, id); err != nil {
		return nil, infra.WrapRepoErr("failed to load helpful votes", err)
	}
	if snap.Reporters, err = r.collectIDs(ctx, reviewReportersQuery, id); err != nil {
		return nil, infra.WrapRepoErr("failed to load review reports", err)
	}
	return &snap, nil
}

const reviewExistsQuery = `
SELECT EXISTS (SELECT 1 FROM reviews WHERE booking_id = $1)`

func (r *CommandReads) ReviewExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, reviewExistsQuery, bookingID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check review existence", err)
	}
	return exists, nil
}

func (r *CommandReads) collectIDs(ctx context.Context, query string, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var v uuid.UUID
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		ids = append(ids, v)
	}
	return ids, rows.Err()
}

// Operating hours are stored as jsonb keyed by weekday number
// (0=Sunday) with open/close minutes. NULL means always open.
func decodeOperatingHours(raw []byte) (property.OperatingHours, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var m map[string]struct {
		Open  int `json:"open"`
		Close int `json:"close"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	hours := make(property.OperatingHours, len(m))
	for k, v := range m {
		day, err := strconv.Atoi(k)
		if err != nil || day < 0 || day > 6 {
			continue
		}
		hours[time.Weekday(day)] = property.DayHours{OpenMinute: v.Open, CloseMinute: v.Close}
	}
	return hours, nil
}
