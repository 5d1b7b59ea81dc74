package shared

import (
	"time"

	"deskhive/internal/domain/booking"
	"deskhive/internal/domain/property"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on read-side query types
type PropertySnapshot struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Status    property.Status
	Rates     booking.RateTable
	Discounts booking.DiscountSchedule
	Blocked   []property.BlockedSpan
	Hours     property.OperatingHours
}

type BookingSnapshot struct {
	ID           uuid.UUID
	PropertyID   uuid.UUID
	RenterID     uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	Kind         booking.Type
	Status       booking.Status
	AmountCents  int64
	RejectReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	// Transition timestamps must round-trip through the snapshot:
	// UpdateStatus writes all four columns back, so a missing value
	// here would null out a recorded transition.
	ConfirmedAt *time.Time
	RejectedAt  *time.Time
	CancelledAt *time.Time
	CompletedAt *time.Time
}

type ReviewSnapshot struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	PropertyID  uuid.UUID
	ReviewerID  uuid.UUID
	Rating      int
	Status      string
	Reporters   []uuid.UUID
	Voters      []uuid.UUID
	HasResponse bool
}
