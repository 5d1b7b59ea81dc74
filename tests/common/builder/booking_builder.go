//go:build unit || e2e

package builder

import (
	"time"

	"deskhive/internal/domain/booking"
	reqdto "deskhive/internal/handler/dto/request"
	"deskhive/internal/usecase/queries"
	"deskhive/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID           uuid.UUID
	PropertyID   uuid.UUID
	PropertyName string
	OwnerID      uuid.UUID
	RenterID     uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	Kind         booking.Type
	Status       booking.Status
	AmountCents  int64
	CreatedAt    time.Time
	ConfirmedAt  *time.Time
	RejectedAt   *time.Time
	CancelledAt  *time.Time
	CompletedAt  *time.Time
}

func NewBookingBuilder() *BookingBuilder {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:           uuid.New(),
		PropertyID:   uuid.New(),
		PropertyName: "Downtown Desk",
		OwnerID:      uuid.New(),
		RenterID:     uuid.New(),
		StartTime:    start,
		EndTime:      start.Add(3 * time.Hour),
		Kind:         booking.TypeHourly,
		Status:       booking.StatusPending,
		AmountCents:  4500,
		CreatedAt:    start.Add(-72 * time.Hour),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDomain() *booking.Booking {
	amount, _ := booking.NewMoney(b.AmountCents)
	return booking.ReconstructBooking(
		b.ID, b.PropertyID, b.RenterID,
		booking.ReconstructInterval(b.StartTime, b.EndTime),
		b.Kind, b.Status, amount, nil,
		b.CreatedAt, b.CreatedAt,
		b.ConfirmedAt, b.RejectedAt, b.CancelledAt, b.CompletedAt,
	)
}

func (b *BookingBuilder) BuildSnapshot() *shared.BookingSnapshot {
	return &shared.BookingSnapshot{
		ID:          b.ID,
		PropertyID:  b.PropertyID,
		RenterID:    b.RenterID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Kind:        b.Kind,
		Status:      b.Status,
		AmountCents: b.AmountCents,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.CreatedAt,
		ConfirmedAt: b.ConfirmedAt,
		RejectedAt:  b.RejectedAt,
		CancelledAt: b.CancelledAt,
		CompletedAt: b.CompletedAt,
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		PropertyID:  b.PropertyID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		BookingType: b.Kind.String(),
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:           b.ID,
		PropertyID:   b.PropertyID,
		PropertyName: b.PropertyName,
		RenterID:     b.RenterID,
		OwnerID:      b.OwnerID,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		BookingType:  b.Kind.String(),
		Status:       b.Status.String(),
		AmountCents:  b.AmountCents,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.CreatedAt,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:           b.ID,
		PropertyID:   b.PropertyID,
		PropertyName: b.PropertyName,
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		BookingType:  b.Kind.String(),
		Status:       b.Status.String(),
		AmountCents:  b.AmountCents,
		CreatedAt:    b.CreatedAt,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithPropertyID(propertyID uuid.UUID) *BookingBuilder {
	b.PropertyID = propertyID
	return b
}

func (b *BookingBuilder) WithOwnerID(ownerID uuid.UUID) *BookingBuilder {
	b.OwnerID = ownerID
	return b
}

func (b *BookingBuilder) WithRenterID(renterID uuid.UUID) *BookingBuilder {
	b.RenterID = renterID
	return b
}

func (b *BookingBuilder) WithSlot(start, end time.Time) *BookingBuilder {
	b.StartTime = start
	b.EndTime = end
	return b
}

func (b *BookingBuilder) WithKind(kind booking.Type) *BookingBuilder {
	b.Kind = kind
	return b
}

func (b *BookingBuilder) WithStatus(status booking.Status) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) AsConfirmed() *BookingBuilder {
	b.Status = booking.StatusConfirmed
	confirmedAt := b.CreatedAt.Add(time.Hour)
	b.ConfirmedAt = &confirmedAt
	return b
}

func (b *BookingBuilder) AsCompleted() *BookingBuilder {
	b.Status = booking.StatusCompleted
	confirmedAt := b.CreatedAt.Add(time.Hour)
	completedAt := b.EndTime.Add(time.Minute)
	b.ConfirmedAt = &confirmedAt
	b.CompletedAt = &completedAt
	return b
}
