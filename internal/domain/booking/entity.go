package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInterval    = errors.New("invalid interval")
	ErrInvalidBookingType = errors.New("invalid booking type")
	ErrWrongState         = errors.New("booking is not in a valid state for this transition")
	ErrCancellationWindow = errors.New("cancellation window has passed")
	ErrNotYetElapsed      = errors.New("booking interval has not elapsed")
)

// Booking owns the lifecycle state machine:
//
//	pending   -> confirmed | rejected
//	confirmed -> cancelled | completed
//
// All other states are terminal, and no transition is reversible.
type Booking struct {
	id           uuid.UUID
	propertyID   uuid.UUID
	renterID     uuid.UUID
	interval     Interval
	kind         Type
	status       Status
	totalAmount  Money
	rejectReason *string
	createdAt    time.Time
	updatedAt    time.Time
	confirmedAt  *time.Time
	rejectedAt   *time.Time
	cancelledAt  *time.Time
	completedAt  *time.Time
}

// NewBooking admits a new pending booking. The total amount is quoted
// exactly once here; re-pricing requires a new booking.
func NewBooking(
	propertyID, renterID uuid.UUID,
	interval Interval,
	kind Type,
	rates RateTable,
	discounts DiscountSchedule,
	now time.Time,
) (*Booking, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidBookingType
	}
	if interval.IsZero() {
		return nil, ErrInvalidInterval
	}

	amount, err := Quote(rates, discounts, interval, kind)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:          uuid.New(),
		propertyID:  propertyID,
		renterID:    renterID,
		interval:    interval,
		kind:        kind,
		status:      StatusPending,
		totalAmount: amount,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructBooking(
	id, propertyID, renterID uuid.UUID,
	interval Interval,
	kind Type,
	status Status,
	totalAmount Money,
	rejectReason *string,
	createdAt, updatedAt time.Time,
	confirmedAt, rejectedAt, cancelledAt, completedAt *time.Time,
) *Booking {
	return &Booking{
		id:           id,
		propertyID:   propertyID,
		renterID:     renterID,
		interval:     interval,
		kind:         kind,
		status:       status,
		totalAmount:  totalAmount,
		rejectReason: rejectReason,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		confirmedAt:  confirmedAt,
		rejectedAt:   rejectedAt,
		cancelledAt:  cancelledAt,
		completedAt:  completedAt,
	}
}

func (b *Booking) Confirm(now time.Time) error {
	if b.status != StatusPending {
		return ErrWrongState
	}
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

func (b *Booking) Reject(reason string, now time.Time) error {
	if b.status != StatusPending {
		return ErrWrongState
	}
	b.status = StatusRejected
	b.rejectReason = &reason
	b.rejectedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel is renter-initiated and only allowed while the start of the
// interval is still more than window away.
func (b *Booking) Cancel(now time.Time, window time.Duration) error {
	if b.status != StatusConfirmed {
		return ErrWrongState
	}
	if !now.Before(b.interval.Start().Add(-window)) {
		return ErrCancellationWindow
	}
	b.status = StatusCancelled
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// Complete is idempotent so it can be driven by a periodic sweep:
// completing an already-completed booking is a no-op, not an error.
func (b *Booking) Complete(now time.Time) error {
	if b.status == StatusCompleted {
		return nil
	}
	if b.status != StatusConfirmed {
		return ErrWrongState
	}
	if now.Before(b.interval.End()) {
		return ErrNotYetElapsed
	}
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

func (b *Booking) IsActive() bool {
	return b.status.Blocks()
}

func (b *Booking) ID() uuid.UUID          { return b.id }
func (b *Booking) PropertyID() uuid.UUID  { return b.propertyID }
func (b *Booking) RenterID() uuid.UUID    { return b.renterID }
func (b *Booking) Interval() Interval     { return b.interval }
func (b *Booking) Kind() Type             { return b.kind }
func (b *Booking) Status() Status         { return b.status }
func (b *Booking) TotalAmount() Money     { return b.totalAmount }
func (b *Booking) RejectReason() *string  { return b.rejectReason }
func (b *Booking) CreatedAt() time.Time   { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time   { return b.updatedAt }
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }
func (b *Booking) RejectedAt() *time.Time  { return b.rejectedAt }
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }
