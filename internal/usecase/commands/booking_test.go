//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"deskhive/internal/domain/booking"
	"deskhive/internal/infra"
	"deskhive/internal/pkg/clock"
	"deskhive/internal/pkg/errs"
	"deskhive/internal/usecase/commands"
	"deskhive/internal/usecase/shared"
	"deskhive/tests/common/builder"
	queriesmock "deskhive/tests/mock/queries"
	sharedmock "deskhive/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var errDBConnectionLost = errors.New("database connection lost")

type bookingMocks struct {
	uow   *sharedmock.MockUnitOfWork
	tx    *sharedmock.MockTx
	reads *sharedmock.MockCommandReads
	repo  *sharedmock.MockBookingRepository
	views *queriesmock.MockBookingReadStore
	clock *clock.MockClock
}

// newBookingMocks wires the unit of work so callbacks run against the
// mocked transaction, mirroring how the pgx implementation dispatches.
func newBookingMocks(t *testing.T) (*bookingMocks, commands.BookingCommands) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &bookingMocks{
		uow:   sharedmock.NewMockUnitOfWork(ctrl),
		tx:    sharedmock.NewMockTx(ctrl),
		reads: sharedmock.NewMockCommandReads(ctrl),
		repo:  sharedmock.NewMockBookingRepository(ctrl),
		views: queriesmock.NewMockBookingReadStore(ctrl),
		clock: clock.NewMockClock(time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)),
	}

	m.tx.EXPECT().Reads().Return(m.reads).AnyTimes()
	m.tx.EXPECT().Bookings().Return(m.repo).AnyTimes()
	m.uow.EXPECT().CommandReads().Return(m.reads).AnyTimes()
	m.uow.EXPECT().WithinProperty(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ uuid.UUID, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, m.tx)
		}).AnyTimes()
	m.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, m.tx)
		}).AnyTimes()

	return m, commands.NewBookingCommands(m.uow, m.views, m.clock, 48*time.Hour)
}

func notFoundErr() error {
	return infra.WrapRepoErr("no rows", pgx.ErrNoRows)
}

func exclusionErr() error {
	return infra.WrapRepoErr("slot taken", &pgconn.PgError{Code: "23P01"})
}

// =============================================================================
// Create Tests
// =============================================================================

func TestBookingCommands_Create(t *testing.T) {
	ctx := context.Background()

	b := builder.NewBookingBuilder()
	prop := builder.NewPropertyBuilder()
	prop.ID = b.PropertyID
	renterID := b.RenterID
	cmd := commands.CreateBookingCommand{
		PropertyID:  b.PropertyID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		BookingType: booking.TypeHourly.String(),
	}

	testCases := []struct {
		name      string
		cmd       commands.CreateBookingCommand
		setupMock func(*bookingMocks)
		errIs     error
	}{
		{
			name: "success: slot admitted",
			cmd:  cmd,
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(prop.BuildSnapshot(), nil)
				m.reads.EXPECT().ActiveIntervals(ctx, b.PropertyID, nil).Return(nil, nil)
				m.repo.EXPECT().Create(ctx, gomock.Any()).Return(b.ID, nil)
				m.views.EXPECT().FindByID(ctx, b.ID).Return(b.BuildView(), nil)
			},
		},
		{
			name: "error: property not found",
			cmd:  cmd,
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(nil, notFoundErr())
			},
			errIs: commands.ErrPropertyNotFound,
		},
		{
			name: "error: property not bookable",
			cmd:  cmd,
			setupMock: func(m *bookingMocks) {
				unavailable := builder.NewPropertyBuilder().AsUnavailable()
				unavailable.ID = b.PropertyID
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(unavailable.BuildSnapshot(), nil)
			},
			errIs: commands.ErrPropertyNotBookable,
		},
		{
			name: "error: slot overlaps an active booking",
			cmd:  cmd,
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(prop.BuildSnapshot(), nil)
				taken := booking.ReconstructInterval(b.StartTime.Add(-time.Hour), b.StartTime.Add(time.Hour))
				m.reads.EXPECT().ActiveIntervals(ctx, b.PropertyID, nil).Return([]booking.Interval{taken}, nil)
			},
			errIs: commands.ErrBookingConflict,
		},
		{
			name: "error: exclusion constraint fires on insert",
			cmd:  cmd,
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(prop.BuildSnapshot(), nil)
				m.reads.EXPECT().ActiveIntervals(ctx, b.PropertyID, nil).Return(nil, nil)
				m.repo.EXPECT().Create(ctx, gomock.Any()).Return(uuid.Nil, exclusionErr())
			},
			errIs: commands.ErrBookingConflict,
		},
		{
			name: "error: inverted interval",
			cmd: commands.CreateBookingCommand{
				PropertyID:  b.PropertyID,
				StartTime:   b.EndTime,
				EndTime:     b.StartTime,
				BookingType: booking.TypeHourly.String(),
			},
			setupMock: func(m *bookingMocks) {},
			errIs:     commands.ErrInvalidInterval,
		},
		{
			name: "error: unknown booking type",
			cmd: commands.CreateBookingCommand{
				PropertyID:  b.PropertyID,
				StartTime:   b.StartTime,
				EndTime:     b.EndTime,
				BookingType: "yearly",
			},
			setupMock: func(m *bookingMocks) {},
			errIs:     commands.ErrInvalidBookingType,
		},
		{
			name: "error: database failure reading property",
			cmd:  cmd,
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(nil, errDBConnectionLost)
			},
			errIs: commands.ErrDatabaseOperationFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, svc := newBookingMocks(t)
			tc.setupMock(m)

			view, err := svc.Create(ctx, tc.cmd, renterID)

			if tc.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, view)
				assert.Equal(t, b.ID, view.ID)
			} else {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs))
				assert.Nil(t, view)
			}
		})
	}
}

// =============================================================================
// Confirm Tests
// =============================================================================

func TestBookingCommands_Confirm(t *testing.T) {
	ctx := context.Background()

	b := builder.NewBookingBuilder()
	prop := builder.NewPropertyBuilder().WithOwnerID(b.OwnerID)
	prop.ID = b.PropertyID

	testCases := []struct {
		name      string
		actorID   uuid.UUID
		setupMock func(*bookingMocks)
		errIs     error
	}{
		{
			name:    "success: pending booking confirmed by owner",
			actorID: b.OwnerID,
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingByID(ctx, b.ID).Return(b.BuildSnapshot(), nil)
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(prop.BuildSnapshot(), nil)
				m.reads.EXPECT().ActiveIntervals(ctx, b.PropertyID, &b.ID).Return(nil, nil)
				m.repo.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil)
				confirmed := builder.NewBookingBuilder().WithID(b.ID).AsConfirmed()
				m.views.EXPECT().FindByID(ctx, b.ID).Return(confirmed.BuildView(), nil)
			},
		},
		{
			name:    "error: booking not found",
			actorID: b.OwnerID,
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingByID(ctx, b.ID).Return(nil, notFoundErr())
			},
			errIs: commands.ErrBookingNotFound,
		},
		{
			name:    "error: actor is not the owner",
			actorID: uuid.New(),
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingByID(ctx, b.ID).Return(b.BuildSnapshot(), nil)
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(prop.BuildSnapshot(), nil)
			},
			errIs: commands.ErrNotOwner,
		},
		{
			name:    "error: booking already confirmed",
			actorID: b.OwnerID,
			setupMock: func(m *bookingMocks) {
				confirmed := builder.NewBookingBuilder().WithID(b.ID).WithPropertyID(b.PropertyID).AsConfirmed()
				m.reads.EXPECT().BookingByID(ctx, b.ID).Return(confirmed.BuildSnapshot(), nil)
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(confirmed.BuildSnapshot(), nil)
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(prop.BuildSnapshot(), nil)
			},
			errIs: commands.ErrWrongState,
		},
		{
			name:    "error: slot taken by a confirmed booking since the request",
			actorID: b.OwnerID,
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingByID(ctx, b.ID).Return(b.BuildSnapshot(), nil)
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(prop.BuildSnapshot(), nil)
				taken := booking.ReconstructInterval(b.StartTime, b.EndTime)
				m.reads.EXPECT().ActiveIntervals(ctx, b.PropertyID, &b.ID).Return([]booking.Interval{taken}, nil)
			},
			errIs: commands.ErrBookingConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, svc := newBookingMocks(t)
			tc.setupMock(m)

			view, err := svc.Confirm(ctx, b.ID, tc.actorID)

			if tc.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, view)
				assert.Equal(t, "confirmed", view.Status)
			} else {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs))
			}
		})
	}
}

// =============================================================================
// Reject Tests
// =============================================================================

func TestBookingCommands_Reject(t *testing.T) {
	ctx := context.Background()

	b := builder.NewBookingBuilder()
	prop := builder.NewPropertyBuilder().WithOwnerID(b.OwnerID)
	prop.ID = b.PropertyID

	testCases := []struct {
		name      string
		actorID   uuid.UUID
		setupMock func(*bookingMocks)
		errIs     error
	}{
		{
			name:    "success: pending booking rejected by owner",
			actorID: b.OwnerID,
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(prop.BuildSnapshot(), nil)
				m.repo.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil)
				rejected := builder.NewBookingBuilder().WithID(b.ID).WithStatus(booking.StatusRejected)
				m.views.EXPECT().FindByID(ctx, b.ID).Return(rejected.BuildView(), nil)
			},
		},
		{
			name:    "error: actor is not the owner",
			actorID: uuid.New(),
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(prop.BuildSnapshot(), nil)
			},
			errIs: commands.ErrNotOwner,
		},
		{
			name:    "error: booking already cancelled",
			actorID: b.OwnerID,
			setupMock: func(m *bookingMocks) {
				cancelled := builder.NewBookingBuilder().WithID(b.ID).WithPropertyID(b.PropertyID).WithStatus(booking.StatusCancelled)
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(cancelled.BuildSnapshot(), nil)
				m.reads.EXPECT().PropertyByID(ctx, b.PropertyID).Return(prop.BuildSnapshot(), nil)
			},
			errIs: commands.ErrWrongState,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, svc := newBookingMocks(t)
			tc.setupMock(m)

			_, err := svc.Reject(ctx, b.ID, tc.actorID, "space under renovation")

			if tc.errIs == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs))
			}
		})
	}
}

// =============================================================================
// Cancel Tests
// =============================================================================

func TestBookingCommands_Cancel(t *testing.T) {
	ctx := context.Background()

	b := builder.NewBookingBuilder().AsConfirmed()

	testCases := []struct {
		name      string
		actorID   uuid.UUID
		now       time.Time
		setupMock func(*bookingMocks)
		errIs     error
	}{
		{
			name:    "success: cancelled well before the window closes",
			actorID: b.RenterID,
			now:     b.StartTime.Add(-72 * time.Hour),
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
				m.repo.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil)
				cancelled := builder.NewBookingBuilder().WithID(b.ID).WithStatus(booking.StatusCancelled)
				m.views.EXPECT().FindByID(ctx, b.ID).Return(cancelled.BuildView(), nil)
			},
		},
		{
			name:    "error: actor is not the renter",
			actorID: uuid.New(),
			now:     b.StartTime.Add(-72 * time.Hour),
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
			},
			errIs: commands.ErrNotRenter,
		},
		{
			name:    "error: cancellation window has passed",
			actorID: b.RenterID,
			now:     b.StartTime.Add(-10 * time.Hour),
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
			},
			errIs: commands.ErrCancellationWindowPassed,
		},
		{
			name:    "error: pending booking cannot be cancelled",
			actorID: b.RenterID,
			now:     b.StartTime.Add(-72 * time.Hour),
			setupMock: func(m *bookingMocks) {
				pending := builder.NewBookingBuilder().WithID(b.ID).WithRenterID(b.RenterID)
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(pending.BuildSnapshot(), nil)
			},
			errIs: commands.ErrWrongState,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, svc := newBookingMocks(t)
			m.clock.Set(tc.now)
			tc.setupMock(m)

			_, err := svc.Cancel(ctx, b.ID, tc.actorID)

			if tc.errIs == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs))
			}
		})
	}
}

// =============================================================================
// Complete Tests
// =============================================================================

func TestBookingCommands_Complete(t *testing.T) {
	ctx := context.Background()

	b := builder.NewBookingBuilder().AsConfirmed()

	testCases := []struct {
		name      string
		now       time.Time
		setupMock func(*bookingMocks)
		errIs     error
	}{
		{
			name: "success: confirmed booking past its end is completed",
			now:  b.EndTime.Add(time.Hour),
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
				m.repo.EXPECT().UpdateStatus(ctx, gomock.Any()).Return(nil)
				completed := builder.NewBookingBuilder().WithID(b.ID).AsCompleted()
				m.views.EXPECT().FindByID(ctx, b.ID).Return(completed.BuildView(), nil)
			},
		},
		{
			name: "success: completing twice is a no-op",
			now:  b.EndTime.Add(time.Hour),
			setupMock: func(m *bookingMocks) {
				completed := builder.NewBookingBuilder().WithID(b.ID).AsCompleted()
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(completed.BuildSnapshot(), nil)
				m.views.EXPECT().FindByID(ctx, b.ID).Return(completed.BuildView(), nil)
			},
		},
		{
			name: "error: interval has not elapsed",
			now:  b.EndTime.Add(-time.Minute),
			setupMock: func(m *bookingMocks) {
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
			},
			errIs: commands.ErrNotYetElapsed,
		},
		{
			name: "error: pending booking cannot be completed",
			now:  b.EndTime.Add(time.Hour),
			setupMock: func(m *bookingMocks) {
				pending := builder.NewBookingBuilder().WithID(b.ID).WithSlot(b.StartTime, b.EndTime)
				m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(pending.BuildSnapshot(), nil)
			},
			errIs: commands.ErrWrongState,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, svc := newBookingMocks(t)
			m.clock.Set(tc.now)
			tc.setupMock(m)

			view, err := svc.Complete(ctx, b.ID)

			if tc.errIs == nil {
				require.NoError(t, err)
				require.NotNil(t, view)
				assert.Equal(t, "completed", view.Status)
			} else {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs))
			}
		})
	}
}

// =============================================================================
// Transition Timestamp Tests
// =============================================================================

// Later transitions update a single column but the repository writes
// all four back, so the snapshot round-trip must keep earlier
// timestamps intact.
func TestBookingCommands_TransitionTimestampsPreserved(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling keeps the confirmation timestamp", func(t *testing.T) {
		b := builder.NewBookingBuilder().AsConfirmed()
		m, svc := newBookingMocks(t)
		m.clock.Set(b.StartTime.Add(-72 * time.Hour))

		m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
		var persisted *booking.Booking
		m.repo.EXPECT().UpdateStatus(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, bk *booking.Booking) error {
				persisted = bk
				return nil
			})
		cancelled := builder.NewBookingBuilder().WithID(b.ID).WithStatus(booking.StatusCancelled)
		m.views.EXPECT().FindByID(ctx, b.ID).Return(cancelled.BuildView(), nil)

		_, err := svc.Cancel(ctx, b.ID, b.RenterID)
		require.NoError(t, err)

		require.NotNil(t, persisted)
		assert.Equal(t, booking.StatusCancelled, persisted.Status())
		require.NotNil(t, persisted.ConfirmedAt())
		assert.Equal(t, *b.ConfirmedAt, *persisted.ConfirmedAt())
		require.NotNil(t, persisted.CancelledAt())
	})

	t.Run("manual completion keeps the confirmation timestamp", func(t *testing.T) {
		b := builder.NewBookingBuilder().AsConfirmed()
		m, svc := newBookingMocks(t)
		m.clock.Set(b.EndTime.Add(time.Hour))

		m.reads.EXPECT().BookingForUpdate(ctx, b.ID).Return(b.BuildSnapshot(), nil)
		var persisted *booking.Booking
		m.repo.EXPECT().UpdateStatus(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, bk *booking.Booking) error {
				persisted = bk
				return nil
			})
		completed := builder.NewBookingBuilder().WithID(b.ID).AsCompleted()
		m.views.EXPECT().FindByID(ctx, b.ID).Return(completed.BuildView(), nil)

		_, err := svc.Complete(ctx, b.ID)
		require.NoError(t, err)

		require.NotNil(t, persisted)
		assert.Equal(t, booking.StatusCompleted, persisted.Status())
		require.NotNil(t, persisted.ConfirmedAt())
		assert.Equal(t, *b.ConfirmedAt, *persisted.ConfirmedAt())
		require.NotNil(t, persisted.CompletedAt())
	})
}

// The classifying helpers above also pin down the error mapping the
// commands rely on.
func TestErrorKindMapping(t *testing.T) {
	require.True(t, infra.IsKind(notFoundErr(), infra.KindNotFound))
	require.True(t, infra.IsKind(exclusionErr(), infra.KindConflict))
	require.False(t, infra.IsKind(errDBConnectionLost, infra.KindNotFound))
	require.True(t, errs.Is(errs.Mark(errDBConnectionLost, commands.ErrDatabaseOperationFailed), commands.ErrDatabaseOperationFailed))
}
