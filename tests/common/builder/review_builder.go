//go:build unit || e2e

package builder

import (
	"time"

	domreview "deskhive/internal/domain/review"
	reqdto "deskhive/internal/handler/dto/request"
	"deskhive/internal/usecase/queries"
	"deskhive/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReviewBuilder struct {
	ID            uuid.UUID
	BookingID     uuid.UUID
	PropertyID    uuid.UUID
	PropertyName  string
	ReviewerID    uuid.UUID
	Rating        int
	Cleanliness   int
	Location      int
	Amenities     int
	Communication int
	Comment       string
	Status        domreview.Status
	CreatedAt     time.Time
}

func NewReviewBuilder() *ReviewBuilder {
	return &ReviewBuilder{
		ID:            uuid.New(),
		BookingID:     uuid.New(),
		PropertyID:    uuid.New(),
		PropertyName:  "Downtown Desk",
		ReviewerID:    uuid.New(),
		Rating:        5,
		Cleanliness:   5,
		Location:      4,
		Amenities:     5,
		Communication: 4,
		Comment:       "Great workspace, would book again!",
		Status:        domreview.StatusActive,
		CreatedAt:     time.Now(),
	}
}

func (r *ReviewBuilder) With(mutate func(*ReviewBuilder)) *ReviewBuilder {
	mutate(r)
	return r
}

// Build methods
func (r *ReviewBuilder) BuildDomain() (*domreview.Review, error) {
	aspects, err := domreview.NewAspectRatings(r.Cleanliness, r.Location, r.Amenities, r.Communication)
	if err != nil {
		return nil, err
	}
	return domreview.NewReview(r.BookingID, r.PropertyID, r.ReviewerID, r.Rating, aspects, r.Comment, r.CreatedAt)
}

func (r *ReviewBuilder) BuildSnapshot() *shared.ReviewSnapshot {
	return &shared.ReviewSnapshot{
		ID:         r.ID,
		BookingID:  r.BookingID,
		PropertyID: r.PropertyID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Status:     r.Status.String(),
	}
}

func (r *ReviewBuilder) BuildCreateRequestDTO() reqdto.CreateReviewRequest {
	return reqdto.CreateReviewRequest{
		BookingID:     r.BookingID,
		Rating:        r.Rating,
		Cleanliness:   r.Cleanliness,
		Location:      r.Location,
		Amenities:     r.Amenities,
		Communication: r.Communication,
		Comment:       r.Comment,
	}
}

func (r *ReviewBuilder) BuildViewQuery() *queries.ReviewView {
	return &queries.ReviewView{
		ID:            r.ID,
		BookingID:     r.BookingID,
		PropertyID:    r.PropertyID,
		PropertyName:  r.PropertyName,
		ReviewerID:    r.ReviewerID,
		Rating:        r.Rating,
		Cleanliness:   r.Cleanliness,
		Location:      r.Location,
		Amenities:     r.Amenities,
		Communication: r.Communication,
		Comment:       r.Comment,
		Status:        r.Status.String(),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.CreatedAt,
	}
}

func (r *ReviewBuilder) BuildListItem() *queries.ReviewListItem {
	return &queries.ReviewListItem{
		ID:         r.ID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func (r *ReviewBuilder) BuildPropertyRatingStats() *queries.PropertyRatingStats {
	return &queries.PropertyRatingStats{
		PropertyID:    r.PropertyID,
		TotalReviews:  10,
		AverageRating: 4.2,
		Rating1Count:  1,
		Rating2Count:  1,
		Rating3Count:  2,
		Rating4Count:  3,
		Rating5Count:  3,
		UpdatedAt:     r.CreatedAt,
	}
}

// Fluent builder methods
func (r *ReviewBuilder) WithID(id uuid.UUID) *ReviewBuilder {
	r.ID = id
	return r
}

func (r *ReviewBuilder) WithBookingID(bookingID uuid.UUID) *ReviewBuilder {
	r.BookingID = bookingID
	return r
}

func (r *ReviewBuilder) WithPropertyID(propertyID uuid.UUID) *ReviewBuilder {
	r.PropertyID = propertyID
	return r
}

func (r *ReviewBuilder) WithReviewerID(reviewerID uuid.UUID) *ReviewBuilder {
	r.ReviewerID = reviewerID
	return r
}

func (r *ReviewBuilder) WithRating(rating int) *ReviewBuilder {
	r.Rating = rating
	return r
}

func (r *ReviewBuilder) WithComment(comment string) *ReviewBuilder {
	r.Comment = comment
	return r
}

func (r *ReviewBuilder) WithCreatedAt(createdAt time.Time) *ReviewBuilder {
	r.CreatedAt = createdAt
	return r
}

func (r *ReviewBuilder) AsDeleted() *ReviewBuilder {
	r.Status = domreview.StatusDeleted
	return r
}
