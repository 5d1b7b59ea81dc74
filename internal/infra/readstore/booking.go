package readstore

import (
	"context"
	"time"

	"deskhive/internal/domain/booking"
	"deskhive/internal/infra"
	"deskhive/internal/infra/db"
	"deskhive/internal/pkg/pgconv"
	"deskhive/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

const bookingViewQuery = `
SELECT b.id, b.property_id, p.name, b.renter_id, p.owner_id,
       b.starts_at, b.ends_at, b.booking_type, b.status,
       b.total_amount_cents, b.reject_reason,
       b.created_at, b.updated_at,
       b.confirmed_at, b.rejected_at, b.cancelled_at, b.completed_at
FROM bookings b
JOIN properties p ON p.id = b.property_id
WHERE b.id = $1`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var v queries.BookingView
	err := r.db.QueryRow(ctx, bookingViewQuery, id).Scan(
		&v.ID,
		&v.PropertyID,
		&v.PropertyName,
		&v.RenterID,
		&v.OwnerID,
		&v.StartTime,
		&v.EndTime,
		&v.BookingType,
		&v.Status,
		&v.AmountCents,
		&v.RejectReason,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.ConfirmedAt,
		&v.RejectedAt,
		&v.CancelledAt,
		&v.CompletedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking view by id", err)
	}
	return &v, nil
}

const bookingListByRenterQuery = `
SELECT b.id, b.property_id, p.name, b.starts_at, b.ends_at,
       b.booking_type, b.status, b.total_amount_cents, b.created_at
FROM bookings b
JOIN properties p ON p.id = b.property_id
WHERE b.renter_id = $1
ORDER BY b.created_at DESC`

func (r *BookingReadStore) FindByRenter(ctx context.Context, renterID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, bookingListByRenterQuery, renterID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by renter", err)
	}
	return scanBookingList(rows)
}

const bookingListByPropertyQuery = `
SELECT b.id, b.property_id, p.name, b.starts_at, b.ends_at,
       b.booking_type, b.status, b.total_amount_cents, b.created_at
FROM bookings b
JOIN properties p ON p.id = b.property_id
WHERE b.property_id = $1
ORDER BY b.starts_at`

func (r *BookingReadStore) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, bookingListByPropertyQuery, propertyID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by property", err)
	}
	return scanBookingList(rows)
}

func scanBookingList(rows pgx.Rows) ([]*queries.BookingListItem, error) {
	defer rows.Close()

	var items []*queries.BookingListItem
	for rows.Next() {
		var it queries.BookingListItem
		err := rows.Scan(
			&it.ID,
			&it.PropertyID,
			&it.PropertyName,
			&it.StartTime,
			&it.EndTime,
			&it.BookingType,
			&it.Status,
			&it.AmountCents,
			&it.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking list item", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking list", err)
	}
	return items, nil
}

const activeIntervalsQuery = `
SELECT starts_at, ends_at
FROM bookings
WHERE property_id = $1 AND status IN ('pending', 'confirmed')`

func (r *BookingReadStore) ActiveIntervals(ctx context.Context, propertyID uuid.UUID) ([]booking.Interval, error) {
	rows, err := r.db.Query(ctx, activeIntervalsQuery, propertyID)
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
