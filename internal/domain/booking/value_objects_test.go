//go:build unit

package booking_test

import (
	"math/rand"
	"testing"
	"time"

	"deskhive/internal/domain/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func iv(t *testing.T, startOffset, endOffset time.Duration) booking.Interval {
	t.Helper()
	interval, err := booking.NewInterval(base.Add(startOffset), base.Add(endOffset))
	require.NoError(t, err)
	return interval
}

func TestNewInterval(t *testing.T) {
	t.Run("valid interval", func(t *testing.T) {
		interval, err := booking.NewInterval(base, base.Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, base, interval.Start())
		assert.Equal(t, base.Add(time.Hour), interval.End())
	})

	t.Run("zero-length interval is invalid", func(t *testing.T) {
		_, err := booking.NewInterval(base, base)
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})

	t.Run("inverted interval is invalid", func(t *testing.T) {
		_, err := booking.NewInterval(base.Add(time.Hour), base)
		assert.ErrorIs(t, err, booking.ErrInvalidInterval)
	})
}

func TestIntervalOverlaps(t *testing.T) {
	cases := []struct {
		name    string
		a, b    booking.Interval
		overlap bool
	}{
		{
			name:    "partial overlap",
			a:       iv(t, 0, 2*time.Hour),
			b:       iv(t, time.Hour, 3*time.Hour),
			overlap: true,
		},
		{
			name:    "identical intervals",
			a:       iv(t, 0, 2*time.Hour),
			b:       iv(t, 0, 2*time.Hour),
			overlap: true,
		},
		{
			name:    "containment",
			a:       iv(t, 0, 4*time.Hour),
			b:       iv(t, time.Hour, 2*time.Hour),
			overlap: true,
		},
		{
			name:    "touching boundaries do not overlap",
			a:       iv(t, 0, 2*time.Hour),
			b:       iv(t, 2*time.Hour, 4*time.Hour),
			overlap: false,
		},
		{
			name:    "disjoint",
			a:       iv(t, 0, time.Hour),
			b:       iv(t, 3*time.Hour, 4*time.Hour),
			overlap: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlap, tc.a.Overlaps(tc.b))
			// overlap is symmetric
			assert.Equal(t, tc.overlap, tc.b.Overlaps(tc.a))
		})
	}

	t.Run("randomized pairs match the half-open predicate", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		for range 1000 {
			// Bounds in [0,24) hours force frequent shared endpoints,
			// so touching boundaries come up constantly.
			a := rng.Intn(24)
			b := a + 1 + rng.Intn(24-a)
			c := rng.Intn(24)
			d := c + 1 + rng.Intn(24-c)

			x := iv(t, time.Duration(a)*time.Hour, time.Duration(b)*time.Hour)
			y := iv(t, time.Duration(c)*time.Hour, time.Duration(d)*time.Hour)

			want := a < d && c < b
			assert.Equal(t, want, x.Overlaps(y), "[%d,%d) vs [%d,%d)", a, b, c, d)
			assert.Equal(t, want, y.Overlaps(x), "[%d,%d) vs [%d,%d)", c, d, a, b)
		}
	})
}

func TestConflictsWith(t *testing.T) {
	existing := []booking.Interval{
		iv(t, 0, 2*time.Hour),
		iv(t, 5*time.Hour, 6*time.Hour),
	}

	assert.True(t, booking.ConflictsWith(existing, iv(t, time.Hour, 3*time.Hour)))
	assert.False(t, booking.ConflictsWith(existing, iv(t, 2*time.Hour, 5*time.Hour)))
	assert.False(t, booking.ConflictsWith(nil, iv(t, 0, time.Hour)))
}

func TestMoney(t *testing.T) {
	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := booking.NewMoney(-1)
		assert.Error(t, err)
	})

	t.Run("percent off truncates toward zero", func(t *testing.T) {
		m, err := booking.NewMoney(999)
		require.NoError(t, err)
		assert.Equal(t, int64(899), m.ApplyPercentOff(10).Cents())
	})

	t.Run("zero and out-of-range percentages", func(t *testing.T) {
		m, err := booking.NewMoney(1000)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), m.ApplyPercentOff(0).Cents())
		assert.Equal(t, int64(1000), m.ApplyPercentOff(-5).Cents())
		assert.Equal(t, int64(0), m.ApplyPercentOff(100).Cents())
	})
}
