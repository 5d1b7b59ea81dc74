package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	PropertyID  uuid.UUID `json:"property_id" binding:"required"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	BookingType string    `json:"booking_type" binding:"required,oneof=hourly daily monthly"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}
