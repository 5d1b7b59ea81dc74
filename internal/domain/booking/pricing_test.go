//go:build unit

package booking_test

import (
	"testing"
	"time"

	"deskhive/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testRates = booking.RateTable{
		HourlyCents:  1500,
		DailyCents:   10000,
		MonthlyCents: 200000,
	}
	testDiscounts = booking.DiscountSchedule{
		WeeklyPercent:  10,
		MonthlyPercent: 20,
	}
)

func TestUnits(t *testing.T) {
	cases := []struct {
		name     string
		length   time.Duration
		kind     booking.Type
		expected int64
	}{
		{name: "exact hours", length: 3 * time.Hour, kind: booking.TypeHourly, expected: 3},
		{name: "partial hour rounds up", length: 90 * time.Minute, kind: booking.TypeHourly, expected: 2},
		{name: "sub-hour rounds up to one", length: 30 * time.Minute, kind: booking.TypeHourly, expected: 1},
		{name: "exact days", length: 48 * time.Hour, kind: booking.TypeDaily, expected: 2},
		{name: "partial day rounds up", length: 25 * time.Hour, kind: booking.TypeDaily, expected: 2},
		{name: "one month is 30 days", length: 30 * 24 * time.Hour, kind: booking.TypeMonthly, expected: 1},
		{name: "partial month rounds up", length: 45 * 24 * time.Hour, kind: booking.TypeMonthly, expected: 2},
		{name: "unknown type yields zero", length: time.Hour, kind: booking.Type("weekly"), expected: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			interval := iv(t, 0, tc.length)
			assert.Equal(t, tc.expected, booking.Units(interval, tc.kind))
		})
	}
}

func TestQuote(t *testing.T) {
	cases := []struct {
		name     string
		length   time.Duration
		kind     booking.Type
		expected int64
	}{
		{name: "hourly base rate", length: 3 * time.Hour, kind: booking.TypeHourly, expected: 4500},
		{name: "partial hour billed as full unit", length: 30 * time.Minute, kind: booking.TypeHourly, expected: 1500},
		{name: "daily without discount", length: 3 * 24 * time.Hour, kind: booking.TypeDaily, expected: 30000},
		{name: "seven daily units earn weekly discount", length: 7 * 24 * time.Hour, kind: booking.TypeDaily, expected: 63000},
		{name: "discount tier keys on rounded units", length: 6*24*time.Hour + 12*time.Hour, kind: booking.TypeDaily, expected: 63000},
		{name: "thirty daily units earn monthly discount", length: 30 * 24 * time.Hour, kind: booking.TypeDaily, expected: 240000},
		{name: "single monthly unit gets no tier", length: 30 * 24 * time.Hour, kind: booking.TypeMonthly, expected: 200000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			interval := iv(t, 0, tc.length)
			price, err := booking.Quote(testRates, testDiscounts, interval, tc.kind)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, price.Cents())
		})
	}

	t.Run("invalid booking type", func(t *testing.T) {
		_, err := booking.Quote(testRates, testDiscounts, iv(t, 0, time.Hour), booking.Type("weekly"))
		assert.ErrorIs(t, err, booking.ErrInvalidBookingType)
	})

	t.Run("no discount configured leaves price unchanged", func(t *testing.T) {
		price, err := booking.Quote(testRates, booking.DiscountSchedule{}, iv(t, 0, 7*24*time.Hour), booking.TypeDaily)
		require.NoError(t, err)
		assert.Equal(t, int64(70000), price.Cents())
	})
}
