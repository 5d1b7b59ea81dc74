package queries

import (
	"context"
	"time"

	"deskhive/internal/domain/booking"
	"deskhive/internal/domain/property"
	"deskhive/internal/infra"
	"deskhive/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound  = errs.New("booking not found")
	ErrPropertyNotFound = errs.New("property not found")
	ErrBookingAccess    = errs.New("booking access denied")
	ErrInvalidInterval  = errs.New("invalid interval")
	ErrInvalidType      = errs.New("invalid booking type")
)

const (
	RoleRenter = "renter"
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
)

type BookingView struct {
	ID           uuid.UUID       `json:"id"`
	PropertyID   uuid.UUID       `json:"property_id"`
	PropertyName string          `json:"property_name"`
	RenterID     uuid.UUID       `json:"renter_id"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	StartTime    time.Time       `json:"start_time"`
	EndTime      time.Time       `json:"end_time"`
	BookingType  string          `json:"booking_type"`
	Status       string          `json:"status"`
	AmountCents  int64           `json:"amount_cents"`
	RejectReason *string         `json:"reject_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	ConfirmedAt  *time.Time      `json:"confirmed_at,omitempty"`
	RejectedAt   *time.Time      `json:"rejected_at,omitempty"`
	CancelledAt  *time.Time      `json:"cancelled_at,omitempty"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

type BookingListItem struct {
	ID           uuid.UUID `json:"id"`
	PropertyID   uuid.UUID `json:"property_id"`
	PropertyName string    `json:"property_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	BookingType  string    `json:"booking_type"`
	Status       string    `json:"status"`
	AmountCents  int64     `json:"amount_cents"`
	CreatedAt    time.Time `json:"created_at"`
}

type AvailabilityResult struct {
	PropertyID uuid.UUID `json:"property_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Available  bool      `json:"available"`
}

type QuoteResult struct {
	PropertyID  uuid.UUID `json:"property_id"`
	BookingType string    `json:"booking_type"`
	Units       int64     `json:"units"`
	AmountCents int64     `json:"amount_cents"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByRenter(ctx context.Context, renterID uuid.UUID) ([]*BookingListItem, error)
	FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]*BookingListItem, error)
	ActiveIntervals(ctx context.Context, propertyID uuid.UUID) ([]booking.Interval, error)
}

type PropertyReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*BookingView, error)
	ListByRenter(ctx context.Context, renterID uuid.UUID) ([]*BookingListItem, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID, actorID uuid.UUID, actorRole string) ([]*BookingListItem, error)
	// CheckAvailability is the advisory read-side check; admission
	// re-verifies under the storage transaction.
	CheckAvailability(ctx context.Context, propertyID uuid.UUID, start, end time.Time, kind string) (*AvailabilityResult, error)
	// Quote prices an interval without creating anything.
	Quote(ctx context.Context, propertyID uuid.UUID, start, end time.Time, kind string) (*QuoteResult, error)
}

type bookingQueriesImpl struct {
	bookings   BookingReadStore
	properties PropertyReadStore
}

func NewBookingQueries(bookings BookingReadStore, properties PropertyReadStore) BookingQueries {
	return &bookingQueriesImpl{bookings: bookings, properties: properties}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, actorID uuid.UUID, actorRole string) (*BookingView, error) {
	view, err := q.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	switch actorRole {
	case RoleAdmin:
	default:
		if view.RenterID != actorID && view.OwnerID != actorID {
			return nil, ErrBookingAccess
		}
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByRenter(ctx context.Context, renterID uuid.UUID) ([]*BookingListItem, error) {
	return q.bookings.FindByRenter(ctx, renterID)
}

func (q *bookingQueriesImpl) ListByProperty(ctx context.Context, propertyID uuid.UUID, actorID uuid.UUID, actorRole string) ([]*BookingListItem, error) {
	prop, err := q.properties.FindByID(ctx, propertyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if actorRole != RoleAdmin && prop.OwnerID() != actorID {
		return nil, ErrBookingAccess
	}
	return q.bookings.FindByProperty(ctx, propertyID)
}

func (q *bookingQueriesImpl) CheckAvailability(ctx context.Context, propertyID uuid.UUID, start, end time.Time, kind string) (*AvailabilityResult, error) {
	interval, err := booking.NewInterval(start, end)
	if err != nil {
		return nil, ErrInvalidInterval
	}
	bookingType := booking.Type(kind)
	if !bookingType.IsValid() {
		return nil, ErrInvalidType
	}

	prop, err := q.properties.FindByID(ctx, propertyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	active, err := q.bookings.ActiveIntervals(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResult{
		PropertyID: propertyID,
		StartTime:  start,
		EndTime:    end,
		Available:  property.IsAvailable(prop, active, interval, bookingType),
	}, nil
}

func (q *bookingQueriesImpl) Quote(ctx context.Context, propertyID uuid.UUID, start, end time.Time, kind string) (*QuoteResult, error) {
	interval, err := booking.NewInterval(start, end)
	if err != nil {
		return nil, ErrInvalidInterval
	}
	bookingType := booking.Type(kind)
	if !bookingType.IsValid() {
		return nil, ErrInvalidType
	}

	prop, err := q.properties.FindByID(ctx, propertyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}

	amount, err := booking.Quote(prop.Rates(), prop.Discounts(), interval, bookingType)
	if err != nil {
		return nil, ErrInvalidType
	}

	return &QuoteResult{
		PropertyID:  propertyID,
		BookingType: kind,
		Units:       booking.Units(interval, bookingType),
		AmountCents: amount.Cents(),
	}, nil
}
