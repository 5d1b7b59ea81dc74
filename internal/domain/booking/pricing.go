package booking

import "time"

const (
	hoursPerDay  = 24
	daysPerMonth = 30

	// Discount tiers are keyed on computed units, not wall-clock length:
	// 7 daily units qualify for the weekly tier even if the interval is
	// a few hours short of a full week.
	weeklyDiscountMinUnits  = 7
	monthlyDiscountMinUnits = 30
)

// RateTable is the property's base rates in minor currency units.
type RateTable struct {
	HourlyCents  int64
	DailyCents   int64
	MonthlyCents int64
}

func (rt RateTable) Rate(kind Type) (int64, error) {
	switch kind {
	case TypeHourly:
		return rt.HourlyCents, nil
	case TypeDaily:
		return rt.DailyCents, nil
	case TypeMonthly:
		return rt.MonthlyCents, nil
	default:
		return 0, ErrInvalidBookingType
	}
}

// DiscountSchedule holds whole-number percentage reductions applied
// once the computed unit count reaches the tier threshold.
type DiscountSchedule struct {
	WeeklyPercent  int
	MonthlyPercent int
}

// Quote prices an interval against a rate table. Pure function: the
// caller validates the interval before quoting.
//
// units is the ceiling of the interval length in the booking type's
// granularity, and the result is floored at one full unit so a partial
// unit is never billed below the base rate.
func Quote(rates RateTable, discounts DiscountSchedule, interval Interval, kind Type) (Money, error) {
	rate, err := rates.Rate(kind)
	if err != nil {
		return Money{}, err
	}

	units := Units(interval, kind)
	amount := rate * units
	if amount < rate {
		amount = rate
	}

	price, err := NewMoney(amount)
	if err != nil {
		return Money{}, err
	}

	switch {
	case units >= monthlyDiscountMinUnits && discounts.MonthlyPercent > 0:
		price = price.ApplyPercentOff(discounts.MonthlyPercent)
	case units >= weeklyDiscountMinUnits && discounts.WeeklyPercent > 0:
		price = price.ApplyPercentOff(discounts.WeeklyPercent)
	}

	return price, nil
}

// Units returns the ceiling unit count for the interval under the
// booking type's granularity (hours, days, or 30-day months).
func Units(interval Interval, kind Type) int64 {
	d := interval.Duration()

	var unit time.Duration
	switch kind {
	case TypeHourly:
		unit = time.Hour
	case TypeDaily:
		unit = hoursPerDay * time.Hour
	case TypeMonthly:
		unit = daysPerMonth * hoursPerDay * time.Hour
	default:
		return 0
	}

	units := int64(d / unit)
	if d%unit != 0 {
		units++
	}
	return units
}
