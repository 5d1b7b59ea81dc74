package request

import (
	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	BookingID     uuid.UUID `json:"booking_id" binding:"required"`
	Rating        int       `json:"rating" binding:"required,min=1,max=5"`
	Cleanliness   int       `json:"cleanliness" binding:"required,min=1,max=5"`
	Location      int       `json:"location" binding:"required,min=1,max=5"`
	Amenities     int       `json:"amenities" binding:"required,min=1,max=5"`
	Communication int       `json:"communication" binding:"required,min=1,max=5"`
	Comment       string    `json:"comment" binding:"required,max=1000"`
}

type ReportReviewRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type RespondReviewRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}
