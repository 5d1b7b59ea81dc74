package commands

import (
	"context"
	"time"

	"deskhive/internal/domain/booking"
	"deskhive/internal/domain/property"
	"deskhive/internal/infra"
	"deskhive/internal/pkg/clock"
	"deskhive/internal/pkg/errs"
	"deskhive/internal/usecase/queries"
	"deskhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPropertyNotFound         = errs.New("property not found")
	ErrPropertyNotBookable      = errs.New("property is not bookable")
	ErrInvalidInterval          = errs.New("invalid interval")
	ErrInvalidBookingType       = errs.New("invalid booking type")
	ErrBookingNotFound          = errs.New("booking not found")
	ErrBookingConflict          = errs.New("booking conflict")
	ErrNotOwner                 = errs.New("actor is not the property owner")
	ErrNotRenter                = errs.New("actor is not the booking renter")
	ErrWrongState               = errs.New("wrong booking state")
	ErrCancellationWindowPassed = errs.New("cancellation window passed")
	ErrNotYetElapsed            = errs.New("booking interval has not elapsed")
	ErrDatabaseOperationFailed  = errs.New("database operation failed")
)

type CreateBookingCommand struct {
	PropertyID  uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	BookingType string
}

type BookingCommands interface {
	Create(ctx context.Context, cmd CreateBookingCommand, renterID uuid.UUID) (*queries.BookingView, error)
	Confirm(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error)
	Reject(ctx context.Context, bookingID, actorID uuid.UUID, reason string) (*queries.BookingView, error)
	Cancel(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error)
	Complete(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error)
}

type bookingCommandsImpl struct {
	uow                shared.UnitOfWork
	reads              queries.BookingReadStore
	clock              clock.Clock
	cancellationWindow time.Duration
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	reads queries.BookingReadStore,
	clk clock.Clock,
	cancellationWindow time.Duration,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:                uow,
		reads:              reads,
		clock:              clk,
		cancellationWindow: cancellationWindow,
	}
}

// Create runs the admission protocol: the availability check and the
// insert happen inside one transaction holding the property's advisory
// lock, and the slot exclusion constraint backstops the check. Under
// concurrent attempts for overlapping intervals at most one admission
// succeeds.
func (c *bookingCommandsImpl) Create(ctx context.Context, cmd CreateBookingCommand, renterID uuid.UUID) (*queries.BookingView, error) {
	interval, err := booking.NewInterval(cmd.StartTime, cmd.EndTime)
	if err != nil {
		return nil, ErrInvalidInterval
	}
	kind := booking.Type(cmd.BookingType)
	if !kind.IsValid() {
		return nil, ErrInvalidBookingType
	}

	var bookingID uuid.UUID
	err = c.uow.WithinProperty(ctx, cmd.PropertyID, func(ctx context.Context, tx shared.Tx) error {
		propSnap, derr := tx.Reads().PropertyByID(ctx, cmd.PropertyID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrPropertyNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		prop := propertyFromSnapshot(propSnap)
		if !prop.IsBookable() {
			return ErrPropertyNotBookable
		}

		active, derr := tx.Reads().ActiveIntervals(ctx, cmd.PropertyID, nil)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if !property.IsAvailable(prop, active, interval, kind) {
			return ErrBookingConflict
		}

		entity, derr := booking.NewBooking(cmd.PropertyID, renterID, interval, kind, propSnap.Rates, propSnap.Discounts, c.clock.Now())
		if derr != nil {
			return ErrInvalidBookingType
		}

		bookingID, derr = tx.Bookings().Create(ctx, entity)
		if derr != nil {
			if infra.IsKind(derr, infra.KindConflict) {
				return ErrBookingConflict
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.readView(ctx, bookingID)
}

// Confirm re-validates availability before flipping to confirmed: the
// owner may have two overlapping pending requests, and only the first
// confirmation may win.
func (c *bookingCommandsImpl) Confirm(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error) {
	snap, err := c.uow.CommandReads().BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	err = c.uow.WithinProperty(ctx, snap.PropertyID, func(ctx context.Context, tx shared.Tx) error {
		locked, derr := tx.Reads().BookingForUpdate(ctx, bookingID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		propSnap, derr := tx.Reads().PropertyByID(ctx, locked.PropertyID)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if propSnap.OwnerID != actorID {
			return ErrNotOwner
		}
		if locked.Status != booking.StatusPending {
			return ErrWrongState
		}

		candidate := booking.ReconstructInterval(locked.StartTime, locked.EndTime)
		active, derr := tx.Reads().ActiveIntervals(ctx, locked.PropertyID, &bookingID)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if booking.ConflictsWith(active, candidate) || property.ConflictsWithBlocked(propSnap.Blocked, candidate) {
			return ErrBookingConflict
		}

		entity := bookingFromSnapshot(locked)
		if derr = entity.Confirm(c.clock.Now()); derr != nil {
			return ErrWrongState
		}
		if derr = tx.Bookings().UpdateStatus(ctx, entity); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.readView(ctx, bookingID)
}

func (c *bookingCommandsImpl) Reject(ctx context.Context, bookingID, actorID uuid.UUID, reason string) (*queries.BookingView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		locked, derr := tx.Reads().BookingForUpdate(ctx, bookingID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}

		propSnap, derr := tx.Reads().PropertyByID(ctx, locked.PropertyID)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if propSnap.OwnerID != actorID {
			return ErrNotOwner
		}

		entity := bookingFromSnapshot(locked)
		if derr = entity.Reject(reason, c.clock.Now()); derr != nil {
			return ErrWrongState
		}
		if derr = tx.Bookings().UpdateStatus(ctx, entity); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.readView(ctx, bookingID)
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, bookingID, actorID uuid.UUID) (*queries.BookingView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		locked, derr := tx.Reads().BookingForUpdate(ctx, bookingID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if locked.RenterID != actorID {
			return ErrNotRenter
		}

		entity := bookingFromSnapshot(locked)
		if derr = entity.Cancel(c.clock.Now(), c.cancellationWindow); derr != nil {
			switch {
			case errs.Is(derr, booking.ErrCancellationWindow):
				return ErrCancellationWindowPassed
			default:
				return ErrWrongState
			}
		}
		if derr = tx.Bookings().UpdateStatus(ctx, entity); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.readView(ctx, bookingID)
}

// Complete is idempotent: completing an already-completed booking is a
// success so the periodic sweep can overlap with manual completion.
func (c *bookingCommandsImpl) Complete(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		locked, derr := tx.Reads().BookingForUpdate(ctx, bookingID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if locked.Status == booking.StatusCompleted {
			return nil
		}

		entity := bookingFromSnapshot(locked)
		if derr = entity.Complete(c.clock.Now()); derr != nil {
			switch {
			case errs.Is(derr, booking.ErrNotYetElapsed):
				return ErrNotYetElapsed
			default:
				return ErrWrongState
			}
		}
		if derr = tx.Bookings().UpdateStatus(ctx, entity); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.readView(ctx, bookingID)
}

func (c *bookingCommandsImpl) readView(ctx context.Context, bookingID uuid.UUID) (*queries.BookingView, error) {
	view, err := c.reads.FindByID(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func propertyFromSnapshot(snap *shared.PropertySnapshot) *property.Property {
	return property.ReconstructProperty(
		snap.ID,
		snap.OwnerID,
		snap.Rates,
		snap.Discounts,
		snap.Blocked,
		snap.Hours,
		snap.Status,
	)
}

func bookingFromSnapshot(snap *shared.BookingSnapshot) *booking.Booking {
	amount, _ := booking.NewMoney(snap.AmountCents)
	return booking.ReconstructBooking(
		snap.ID,
		snap.PropertyID,
		snap.RenterID,
		booking.ReconstructInterval(snap.StartTime, snap.EndTime),
		snap.Kind,
		snap.Status,
		amount,
		snap.RejectReason,
		snap.CreatedAt, snap.UpdatedAt,
		snap.ConfirmedAt, snap.RejectedAt, snap.CancelledAt, snap.CompletedAt,
	)
}
