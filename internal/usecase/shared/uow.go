package shared

import (
	"context"
	"time"

	"deskhive/internal/domain/booking"
	"deskhive/internal/domain/review"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinProperty: transaction holding a property-scoped advisory
	// lock for check-then-write sequences (admission, confirm-time
	// re-validation, aggregate recompute). Locks on different
	// properties do not contend.
	WithinProperty(ctx context.Context, propertyID uuid.UUID, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: direct access to command reads outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Reviews() ReviewRepository
	RatingStats() RatingStatsRepository
	Reads() CommandReads
}

// CommandReads are the write-side snapshot lookups. Snapshots keep the
// command layer off the read-model view types.
type CommandReads interface {
	PropertyByID(ctx context.Context, id uuid.UUID) (*PropertySnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	// BookingForUpdate locks the booking row; only meaningful inside a
	// transaction.
	BookingForUpdate(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	// ActiveIntervals returns the slots of pending/confirmed bookings
	// on the property, optionally excluding one booking (confirm-time
	// re-validation must not conflict with itself).
	ActiveIntervals(ctx context.Context, propertyID uuid.UUID, exclude *uuid.UUID) ([]booking.Interval, error)
	ReviewByID(ctx context.Context, id uuid.UUID) (*ReviewSnapshot, error)
	ReviewExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error)
	// UpdateStatus persists a transition (status + transition timestamps
	// + optional reject reason).
	UpdateStatus(ctx context.Context, b *booking.Booking) error
	// CompleteElapsed flips every confirmed booking whose slot has
	// elapsed to completed and returns how many rows changed.
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, rev *review.Review) (uuid.UUID, error)
	SetHelpfulVote(ctx context.Context, reviewID, userID uuid.UUID, voted bool, now time.Time) error
	AddReport(ctx context.Context, reviewID uuid.UUID, rep review.Report) error
	SetOwnerResponse(ctx context.Context, reviewID uuid.UUID, resp review.OwnerResponse) error
	SoftDelete(ctx context.Context, reviewID uuid.UUID, now time.Time) error
}

type RatingStatsRepository interface {
	// Recalc rewrites the property's aggregate row as a pure fold over
	// its active reviews, inside the caller's transaction.
	Recalc(ctx context.Context, propertyID uuid.UUID) error
}
