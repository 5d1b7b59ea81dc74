package review

import "errors"

var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrEmptyComment   = errors.New("comment cannot be empty")
	ErrCommentTooLong = errors.New("comment exceeds maximum length")

	ErrNotEligible      = errors.New("booking is not eligible for review")
	ErrAlreadyReviewed  = errors.New("review already exists for this booking")
	ErrAlreadyReported  = errors.New("review already reported by this user")
	ErrAlreadyResponded = errors.New("owner response already set")
	ErrReviewDeleted    = errors.New("review is deleted")
)

type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

func (s Status) String() string {
	return string(s)
}

type ReportStatus string

const (
	ReportOpen      ReportStatus = "open"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)
