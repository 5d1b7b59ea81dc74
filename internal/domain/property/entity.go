package property

import (
	"errors"
	"time"

	"deskhive/internal/domain/booking"

	"github.com/google/uuid"
)

var ErrInvalidBlockedSpan = errors.New("invalid blocked span")

type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusArchived    Status = "archived"
)

func (s Status) String() string {
	return string(s)
}

// BlockedSpan is an owner-imposed half-open exclusion interval,
// independent of bookings. Spans may overlap; they are treated as a
// union.
type BlockedSpan struct {
	Interval booking.Interval
	Reason   string
}

func NewBlockedSpan(start, end time.Time, reason string) (BlockedSpan, error) {
	iv, err := booking.NewInterval(start, end)
	if err != nil {
		return BlockedSpan{}, ErrInvalidBlockedSpan
	}
	return BlockedSpan{Interval: iv, Reason: reason}, nil
}

// DayHours is an open/close pair in minutes from midnight, local to the
// property. Zero value means closed; Open == 0 && Close == 1440 means
// open all day.
type DayHours struct {
	OpenMinute  int
	CloseMinute int
}

func (h DayHours) IsZero() bool {
	return h.OpenMinute == 0 && h.CloseMinute == 0
}

// OperatingHours maps weekday to opening hours. A nil map means always
// open. Used only as an availability filter for hourly bookings; it is
// not enforced transactionally.
type OperatingHours map[time.Weekday]DayHours

type Property struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	rates     booking.RateTable
	discounts booking.DiscountSchedule
	blocked   []BlockedSpan
	hours     OperatingHours
	status    Status
}

func ReconstructProperty(
	id, ownerID uuid.UUID,
	rates booking.RateTable,
	discounts booking.DiscountSchedule,
	blocked []BlockedSpan,
	hours OperatingHours,
	status Status,
) *Property {
	return &Property{
		id:        id,
		ownerID:   ownerID,
		rates:     rates,
		discounts: discounts,
		blocked:   blocked,
		hours:     hours,
		status:    status,
	}
}

func (p *Property) ID() uuid.UUID                        { return p.id }
func (p *Property) OwnerID() uuid.UUID                   { return p.ownerID }
func (p *Property) Rates() booking.RateTable             { return p.rates }
func (p *Property) Discounts() booking.DiscountSchedule  { return p.discounts }
func (p *Property) BlockedSpans() []BlockedSpan          { return p.blocked }
func (p *Property) Hours() OperatingHours                { return p.hours }
func (p *Property) Status() Status                       { return p.status }

func (p *Property) IsBookable() bool {
	return p.status == StatusAvailable
}
