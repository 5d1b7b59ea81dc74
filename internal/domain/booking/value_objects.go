package booking

import (
	"errors"
	"fmt"
	"time"
)

// Interval is a half-open time range [start, end). The open upper bound
// lets adjacent bookings share an instant without conflicting.
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

// ReconstructInterval rebuilds an interval from storage without
// re-validating; persisted slots already passed NewInterval.
func ReconstructInterval(start, end time.Time) Interval {
	return Interval{start: start, end: end}
}

func (iv Interval) Start() time.Time {
	return iv.start
}

func (iv Interval) End() time.Time {
	return iv.end
}

func (iv Interval) Duration() time.Duration {
	return iv.end.Sub(iv.start)
}

func (iv Interval) IsZero() bool {
	return iv.start.IsZero() && iv.end.IsZero()
}

// Overlaps implements the half-open interval predicate:
// [a,b) and [c,d) overlap iff a < d && c < b.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.start.Before(other.end) && other.start.Before(iv.end)
}

func (iv Interval) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", iv.start.Format(time.RFC3339), iv.end.Format(time.RFC3339))
}

// ConflictsWith reports whether candidate overlaps any of existing.
func ConflictsWith(existing []Interval, candidate Interval) bool {
	for _, iv := range existing {
		if iv.Overlaps(candidate) {
			return true
		}
	}
	return false
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Mul(n int64) Money {
	return Money{cents: m.cents * n}
}

// ApplyPercentOff reduces the amount by a whole-number percentage,
// truncating toward zero.
func (m Money) ApplyPercentOff(percent int) Money {
	if percent <= 0 {
		return m
	}
	if percent >= 100 {
		return Money{}
	}
	return Money{cents: m.cents * int64(100-percent) / 100}
}
