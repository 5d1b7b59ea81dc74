package property

import (
	"time"

	"deskhive/internal/domain/booking"
)

// Availability is a pure read-side check. Owner blocks and other
// renters' active bookings are both just interval sets here: one
// overlap predicate covers every source of exclusion. The result is
// advisory; admission must re-verify under the storage transaction.

// IsAvailable reports whether candidate can be booked on p given the
// intervals of currently blocking (pending/confirmed) bookings.
func IsAvailable(p *Property, activeBookings []booking.Interval, candidate booking.Interval, kind booking.Type) bool {
	if !p.IsBookable() {
		return false
	}
	if ConflictsWithBlocked(p.BlockedSpans(), candidate) {
		return false
	}
	if booking.ConflictsWith(activeBookings, candidate) {
		return false
	}
	if kind == booking.TypeHourly && !WithinOperatingHours(p.Hours(), candidate) {
		return false
	}
	return true
}

func ConflictsWithBlocked(blocked []BlockedSpan, candidate booking.Interval) bool {
	for _, span := range blocked {
		if span.Interval.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// WithinOperatingHours checks that an hourly interval falls inside the
// property's open hours on its start day. Nil hours mean always open.
// Intervals crossing midnight are rejected for hourly bookings since
// no single day's hours can contain them.
func WithinOperatingHours(hours OperatingHours, iv booking.Interval) bool {
	if hours == nil {
		return true
	}

	day := hours[iv.Start().Weekday()]
	if day.IsZero() {
		return false
	}

	// Half-open interval: the last covered instant decides which day the
	// booking ends on, so an end at next midnight still counts as today.
	lastCovered := iv.End().Add(-time.Nanosecond)
	if iv.Start().Year() != lastCovered.Year() || iv.Start().YearDay() != lastCovered.YearDay() {
		return false
	}

	startMin := minuteOfDay(iv.Start())
	endMin := minuteOfDay(iv.End())
	if endMin == 0 {
		endMin = 24 * 60
	}

	return startMin >= day.OpenMinute && endMin <= day.CloseMinute
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
