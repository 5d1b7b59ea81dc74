//go:build unit || e2e

package builder

import (
	"time"

	"deskhive/internal/domain/booking"
	"deskhive/internal/domain/property"
	"deskhive/internal/usecase/shared"

	"github.com/google/uuid"
)

type PropertyBuilder struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Status    property.Status
	Rates     booking.RateTable
	Discounts booking.DiscountSchedule
	Blocked   []property.BlockedSpan
	Hours     property.OperatingHours
}

func NewPropertyBuilder() *PropertyBuilder {
	return &PropertyBuilder{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Name:    "Downtown Desk",
		Status:  property.StatusAvailable,
		Rates: booking.RateTable{
			HourlyCents:  1500,
			DailyCents:   10000,
			MonthlyCents: 200000,
		},
		Discounts: booking.DiscountSchedule{
			WeeklyPercent:  10,
			MonthlyPercent: 20,
		},
	}
}

func (b *PropertyBuilder) With(mutate func(*PropertyBuilder)) *PropertyBuilder {
	mutate(b)
	return b
}

func (b *PropertyBuilder) BuildDomain() *property.Property {
	return property.ReconstructProperty(b.ID, b.OwnerID, b.Rates, b.Discounts, b.Blocked, b.Hours, b.Status)
}

func (b *PropertyBuilder) BuildSnapshot() *shared.PropertySnapshot {
	return &shared.PropertySnapshot{
		ID:        b.ID,
		OwnerID:   b.OwnerID,
		Status:    b.Status,
		Rates:     b.Rates,
		Discounts: b.Discounts,
		Blocked:   b.Blocked,
		Hours:     b.Hours,
	}
}

// Fluent builder methods
func (b *PropertyBuilder) WithOwnerID(ownerID uuid.UUID) *PropertyBuilder {
	b.OwnerID = ownerID
	return b
}

func (b *PropertyBuilder) WithStatus(status property.Status) *PropertyBuilder {
	b.Status = status
	return b
}

func (b *PropertyBuilder) WithRates(hourly, daily, monthly int64) *PropertyBuilder {
	b.Rates = booking.RateTable{HourlyCents: hourly, DailyCents: daily, MonthlyCents: monthly}
	return b
}

func (b *PropertyBuilder) WithDiscounts(weekly, monthly int) *PropertyBuilder {
	b.Discounts = booking.DiscountSchedule{WeeklyPercent: weekly, MonthlyPercent: monthly}
	return b
}

func (b *PropertyBuilder) WithBlockedSpan(start, end time.Time, reason string) *PropertyBuilder {
	span, err := property.NewBlockedSpan(start, end, reason)
	if err != nil {
		panic(err)
	}
	b.Blocked = append(b.Blocked, span)
	return b
}

func (b *PropertyBuilder) WithHours(hours property.OperatingHours) *PropertyBuilder {
	b.Hours = hours
	return b
}

func (b *PropertyBuilder) AsUnavailable() *PropertyBuilder {
	b.Status = property.StatusUnavailable
	return b
}
