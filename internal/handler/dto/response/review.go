package response

import (
	"time"

	"deskhive/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReviewResponse struct {
	ID            uuid.UUID  `json:"id"`
	BookingID     uuid.UUID  `json:"booking_id"`
	PropertyID    uuid.UUID  `json:"property_id"`
	PropertyName  string     `json:"property_name"`
	ReviewerID    uuid.UUID  `json:"reviewer_id"`
	Rating        int        `json:"rating"`
	Cleanliness   int        `json:"cleanliness"`
	Location      int        `json:"location"`
	Amenities     int        `json:"amenities"`
	Communication int        `json:"communication"`
	Comment       string     `json:"comment"`
	HelpfulCount  int        `json:"helpful_count"`
	ReportCount   int        `json:"report_count"`
	OwnerResponse *string    `json:"owner_response,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func FromReviewView(v *queries.ReviewView) *ReviewResponse {
	var resp ReviewResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

type ReviewListItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ReviewerID    uuid.UUID `json:"reviewer_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	HelpfulCount  int       `json:"helpful_count"`
	OwnerResponse *string   `json:"owner_response,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Items      []*ReviewListItemResponse `json:"items"`
	NextCursor *string                   `json:"next_cursor,omitempty"`
}

func FromReviewList(items []*queries.ReviewListItem, next *queries.Cursor) *ReviewListResponse {
	res := make([]*ReviewListItemResponse, len(items))
	for i, it := range items {
		var r ReviewListItemResponse
		_ = copier.Copy(&r, it)
		res[i] = &r
	}
	resp := &ReviewListResponse{Items: res}
	if next != nil {
		resp.NextCursor = &next.After
	}
	return resp
}

type HelpfulVoteResponse struct {
	ReviewID uuid.UUID `json:"review_id"`
	Voted    bool      `json:"voted"`
}

type ReportResponse struct {
	ReviewID        uuid.UUID `json:"review_id"`
	AlreadyReported bool      `json:"already_reported"`
}

type PropertyRatingStatsResponse struct {
	PropertyID    uuid.UUID `json:"property_id"`
	TotalReviews  int32     `json:"total_reviews"`
	AverageRating float64   `json:"average_rating"`
	Rating1Count  int32     `json:"rating_1_count"`
	Rating2Count  int32     `json:"rating_2_count"`
	Rating3Count  int32     `json:"rating_3_count"`
	Rating4Count  int32     `json:"rating_4_count"`
	Rating5Count  int32     `json:"rating_5_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromPropertyRatingStats(s *queries.PropertyRatingStats) *PropertyRatingStatsResponse {
	var resp PropertyRatingStatsResponse
	_ = copier.Copy(&resp, s)
	return &resp
}
