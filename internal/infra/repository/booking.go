package repository

import (
	"context"
	"time"

	"deskhive/internal/domain/booking"
	"deskhive/internal/infra"
	"deskhive/internal/infra/db"

	"github.com/google/uuid"
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

const createBookingQuery = `
INSERT INTO bookings (
    id, property_id, renter_id, booking_type, status,
    starts_at, ends_at, total_amount_cents, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
RETURNING id`

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, createBookingQuery,
		b.ID(),
		b.PropertyID(),
		b.RenterID(),
		b.Kind().String(),
		b.Status().String(),
		b.Interval().Start(),
		b.Interval().End(),
		b.TotalAmount().Cents(),
		b.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}
	return id, nil
}

const updateBookingStatusQuery = `
UPDATE bookings SET
    status = $2,
    reject_reason = $3,
    updated_at = $4,
    confirmed_at = $5,
    rejected_at = $6,
    cancelled_at = $7,
    completed_at = $8
WHERE id = $1`

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, updateBookingStatusQuery,
		b.ID(),
		b.Status().String(),
		b.RejectReason(),
		b.UpdatedAt(),
		b.ConfirmedAt(),
		b.RejectedAt(),
		b.CancelledAt(),
		b.CompletedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

const completeElapsedQuery = `
UPDATE bookings SET
    status = 'completed',
    completed_at = $1,
    updated_at = $1
WHERE status = 'confirmed' AND ends_at <= $1`

// CompleteElapsed is the sweep step: one statement flips every elapsed
// confirmed booking, so re-running it is harmless.
func (r *BookingRepository) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, completeElapsedQuery, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to complete elapsed bookings", err)
	}
	return tag.RowsAffected(), nil
}
