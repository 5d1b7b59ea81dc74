//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"deskhive/internal/domain/booking"
	"deskhive/internal/infra"
	"deskhive/internal/pkg/errs"
	"deskhive/internal/usecase/queries"
	"deskhive/tests/common/builder"
	queriesmock "deskhive/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type bookingQueryMocks struct {
	bookings   *queriesmock.MockBookingReadStore
	properties *queriesmock.MockPropertyReadStore
}

func newBookingQueries(t *testing.T) (*bookingQueryMocks, queries.BookingQueries) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &bookingQueryMocks{
		bookings:   queriesmock.NewMockBookingReadStore(ctrl),
		properties: queriesmock.NewMockPropertyReadStore(ctrl),
	}
	return m, queries.NewBookingQueries(m.bookings, m.properties)
}

func TestBookingQueries_GetByID(t *testing.T) {
	ctx := context.Background()
	b := builder.NewBookingBuilder()

	testCases := []struct {
		name      string
		actorID   uuid.UUID
		actorRole string
		errIs     error
	}{
		{name: "renter sees own booking", actorID: b.RenterID, actorRole: queries.RoleRenter},
		{name: "owner sees booking on their property", actorID: b.OwnerID, actorRole: queries.RoleOwner},
		{name: "admin sees any booking", actorID: uuid.New(), actorRole: queries.RoleAdmin},
		{name: "unrelated user is denied", actorID: uuid.New(), actorRole: queries.RoleRenter, errIs: queries.ErrBookingAccess},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, q := newBookingQueries(t)
			m.bookings.EXPECT().FindByID(ctx, b.ID).Return(b.BuildView(), nil)

			view, err := q.GetByID(ctx, b.ID, tc.actorID, tc.actorRole)

			if tc.errIs == nil {
				require.NoError(t, err)
				assert.Equal(t, b.ID, view.ID)
			} else {
				assert.True(t, errs.Is(err, tc.errIs))
			}
		})
	}

	t.Run("not found", func(t *testing.T) {
		m, q := newBookingQueries(t)
		m.bookings.EXPECT().FindByID(ctx, b.ID).Return(nil, infra.WrapRepoErr("no rows", pgx.ErrNoRows))

		_, err := q.GetByID(ctx, b.ID, b.RenterID, queries.RoleRenter)

		assert.True(t, errs.Is(err, queries.ErrBookingNotFound))
	})
}

func TestBookingQueries_ListByProperty(t *testing.T) {
	ctx := context.Background()
	prop := builder.NewPropertyBuilder()

	t.Run("owner lists bookings", func(t *testing.T) {
		m, q := newBookingQueries(t)
		m.properties.EXPECT().FindByID(ctx, prop.ID).Return(prop.BuildDomain(), nil)
		item := builder.NewBookingBuilder().WithPropertyID(prop.ID).BuildListItem()
		m.bookings.EXPECT().FindByProperty(ctx, prop.ID).Return([]*queries.BookingListItem{item}, nil)

		items, err := q.ListByProperty(ctx, prop.ID, prop.OwnerID, queries.RoleOwner)

		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		m, q := newBookingQueries(t)
		m.properties.EXPECT().FindByID(ctx, prop.ID).Return(prop.BuildDomain(), nil)

		_, err := q.ListByProperty(ctx, prop.ID, uuid.New(), queries.RoleOwner)

		assert.True(t, errs.Is(err, queries.ErrBookingAccess))
	})

	t.Run("property not found", func(t *testing.T) {
		m, q := newBookingQueries(t)
		m.properties.EXPECT().FindByID(ctx, prop.ID).Return(nil, infra.WrapRepoErr("no rows", pgx.ErrNoRows))

		_, err := q.ListByProperty(ctx, prop.ID, prop.OwnerID, queries.RoleOwner)

		assert.True(t, errs.Is(err, queries.ErrPropertyNotFound))
	})
}

func TestBookingQueries_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	prop := builder.NewPropertyBuilder()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	t.Run("open slot is available", func(t *testing.T) {
		m, q := newBookingQueries(t)
		m.properties.EXPECT().FindByID(ctx, prop.ID).Return(prop.BuildDomain(), nil)
		m.bookings.EXPECT().ActiveIntervals(ctx, prop.ID).Return(nil, nil)

		result, err := q.CheckAvailability(ctx, prop.ID, start, end, "hourly")

		require.NoError(t, err)
		assert.True(t, result.Available)
	})

	t.Run("overlapping booking makes the slot unavailable", func(t *testing.T) {
		m, q := newBookingQueries(t)
		m.properties.EXPECT().FindByID(ctx, prop.ID).Return(prop.BuildDomain(), nil)
		taken := booking.ReconstructInterval(start.Add(-time.Hour), start.Add(time.Hour))
		m.bookings.EXPECT().ActiveIntervals(ctx, prop.ID).Return([]booking.Interval{taken}, nil)

		result, err := q.CheckAvailability(ctx, prop.ID, start, end, "hourly")

		require.NoError(t, err)
		assert.False(t, result.Available)
	})

	t.Run("inverted interval is rejected", func(t *testing.T) {
		_, q := newBookingQueries(t)

		_, err := q.CheckAvailability(ctx, prop.ID, end, start, "hourly")

		assert.True(t, errs.Is(err, queries.ErrInvalidInterval))
	})

	t.Run("unknown booking type is rejected", func(t *testing.T) {
		_, q := newBookingQueries(t)

		_, err := q.CheckAvailability(ctx, prop.ID, start, end, "yearly")

		assert.True(t, errs.Is(err, queries.ErrInvalidType))
	})
}

func TestBookingQueries_Quote(t *testing.T) {
	ctx := context.Background()
	prop := builder.NewPropertyBuilder()
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("hourly quote rounds partial units up", func(t *testing.T) {
		m, q := newBookingQueries(t)
		m.properties.EXPECT().FindByID(ctx, prop.ID).Return(prop.BuildDomain(), nil)

		result, err := q.Quote(ctx, prop.ID, start, start.Add(2*time.Hour+30*time.Minute), "hourly")

		require.NoError(t, err)
		assert.Equal(t, int64(3), result.Units)
		assert.Equal(t, int64(4500), result.AmountCents)
	})

	t.Run("seven day quote gets the weekly discount", func(t *testing.T) {
		m, q := newBookingQueries(t)
		m.properties.EXPECT().FindByID(ctx, prop.ID).Return(prop.BuildDomain(), nil)

		result, err := q.Quote(ctx, prop.ID, start, start.AddDate(0, 0, 7), "daily")

		require.NoError(t, err)
		assert.Equal(t, int64(7), result.Units)
		assert.Equal(t, int64(63000), result.AmountCents)
	})

	t.Run("property not found", func(t *testing.T) {
		m, q := newBookingQueries(t)
		m.properties.EXPECT().FindByID(ctx, prop.ID).Return(nil, infra.WrapRepoErr("no rows", pgx.ErrNoRows))

		_, err := q.Quote(ctx, prop.ID, start, start.Add(time.Hour), "hourly")

		assert.True(t, errs.Is(err, queries.ErrPropertyNotFound))
	})
}
