package response

import (
	"time"

	"deskhive/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID           uuid.UUID  `json:"id"`
	PropertyID   uuid.UUID  `json:"property_id"`
	PropertyName string     `json:"property_name"`
	RenterID     uuid.UUID  `json:"renter_id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	BookingType  string     `json:"booking_type"`
	Status       string     `json:"status"`
	AmountCents  int64      `json:"amount_cents"`
	RejectReason *string    `json:"reject_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	RejectedAt   *time.Time `json:"rejected_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	var resp BookingResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

type BookingListItemResponse struct {
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

func FromBookingList(items []*queries.BookingListItem) []*BookingListItemResponse {
	res := make([]*BookingListItemResponse, len(items))
	for i, it := range items {
		var r BookingListItemResponse
		_ = copier.Copy(&r, it)
		res[i] = &r
	}
	return res
}

type AvailabilityResponse struct {
	PropertyID uuid.UUID `json:"property_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Available  bool      `json:"available"`
}

func FromAvailabilityResult(r *queries.AvailabilityResult) *AvailabilityResponse {
	return &AvailabilityResponse{
		PropertyID: r.PropertyID,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Available:  r.Available,
	}
}

type QuoteResponse struct {
	PropertyID  uuid.UUID `json:"property_id"`
	BookingType string    `json:"booking_type"`
	Units       int64     `json:"units"`
	AmountCents int64     `json:"amount_cents"`
}

func FromQuoteResult(r *queries.QuoteResult) *QuoteResponse {
	return &QuoteResponse{
		PropertyID:  r.PropertyID,
		BookingType: r.BookingType,
		Units:       r.Units,
		AmountCents: r.AmountCents,
	}
}
