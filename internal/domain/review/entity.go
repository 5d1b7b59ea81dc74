package review

import (
	"time"

	"github.com/google/uuid"
)

type Report struct {
	Reporter   uuid.UUID
	Reason     string
	Status     ReportStatus
	ReportedAt time.Time
}

type OwnerResponse struct {
	Text        string
	RespondedAt time.Time
}

// Review references exactly one completed booking. Helpful votes are a
// set of user IDs (toggle semantics), reports are append-only with at
// most one per reporter, and the owner response is settable once.
type Review struct {
	id            uuid.UUID
	bookingID     uuid.UUID
	propertyID    uuid.UUID
	reviewerID    uuid.UUID
	rating        Rating
	aspects       AspectRatings
	comment       Comment
	helpfulVotes  map[uuid.UUID]struct{}
	reports       []Report
	ownerResponse *OwnerResponse
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
}

func NewReview(
	bookingID, propertyID, reviewerID uuid.UUID,
	ratingValue int,
	aspects AspectRatings,
	commentText string,
	now time.Time,
) (*Review, error) {
	rating, err := NewRating(ratingValue)
	if err != nil {
		return nil, err
	}
	comment, err := NewComment(commentText)
	if err != nil {
		return nil, err
	}

	return &Review{
		id:           uuid.New(),
		bookingID:    bookingID,
		propertyID:   propertyID,
		reviewerID:   reviewerID,
		rating:       rating,
		aspects:      aspects,
		comment:      comment,
		helpfulVotes: make(map[uuid.UUID]struct{}),
		status:       StatusActive,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructReview(
	id, bookingID, propertyID, reviewerID uuid.UUID,
	rating Rating,
	aspects AspectRatings,
	comment Comment,
	helpfulVotes []uuid.UUID,
	reports []Report,
	ownerResponse *OwnerResponse,
	status Status,
	createdAt, updatedAt time.Time,
) *Review {
	votes := make(map[uuid.UUID]struct{}, len(helpfulVotes))
	for _, v := range helpfulVotes {
		votes[v] = struct{}{}
	}
	return &Review{
		id:            id,
		bookingID:     bookingID,
		propertyID:    propertyID,
		reviewerID:    reviewerID,
		rating:        rating,
		aspects:       aspects,
		comment:       comment,
		helpfulVotes:  votes,
		reports:       reports,
		ownerResponse: ownerResponse,
		status:        status,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// ToggleHelpful flips the user's vote and reports the new state. Never
// errors: toggling is idempotent by construction.
func (r *Review) ToggleHelpful(userID uuid.UUID, now time.Time) (voted bool) {
	if _, ok := r.helpfulVotes[userID]; ok {
		delete(r.helpfulVotes, userID)
		r.updatedAt = now
		return false
	}
	r.helpfulVotes[userID] = struct{}{}
	r.updatedAt = now
	return true
}

// Report appends a report unless the user already filed one; the
// second attempt is a no-op signalled by ErrAlreadyReported so callers
// can treat it as a routine outcome.
func (r *Review) Report(reporter uuid.UUID, reason string, now time.Time) error {
	for _, rep := range r.reports {
		if rep.Reporter == reporter {
			return ErrAlreadyReported
		}
	}
	r.reports = append(r.reports, Report{
		Reporter:   reporter,
		Reason:     reason,
		Status:     ReportOpen,
		ReportedAt: now,
	})
	r.updatedAt = now
	return nil
}

func (r *Review) Respond(text string, now time.Time) error {
	if r.ownerResponse != nil {
		return ErrAlreadyResponded
	}
	r.ownerResponse = &OwnerResponse{Text: text, RespondedAt: now}
	r.updatedAt = now
	return nil
}

// Delete soft-deletes; the review drops out of the aggregate fold but
// the row survives for moderation history.
func (r *Review) Delete(now time.Time) error {
	if r.status == StatusDeleted {
		return ErrReviewDeleted
	}
	r.status = StatusDeleted
	r.updatedAt = now
	return nil
}

func (r *Review) IsActive() bool {
	return r.status == StatusActive
}

func (r *Review) HelpfulVotes() []uuid.UUID {
	votes := make([]uuid.UUID, 0, len(r.helpfulVotes))
	for v := range r.helpfulVotes {
		votes = append(votes, v)
	}
	return votes
}

func (r *Review) HelpfulCount() int {
	return len(r.helpfulVotes)
}

func (r *Review) ID() uuid.UUID                { return r.id }
func (r *Review) BookingID() uuid.UUID         { return r.bookingID }
func (r *Review) PropertyID() uuid.UUID        { return r.propertyID }
func (r *Review) ReviewerID() uuid.UUID        { return r.reviewerID }
func (r *Review) Rating() Rating               { return r.rating }
func (r *Review) Aspects() AspectRatings       { return r.aspects }
func (r *Review) Comment() Comment             { return r.comment }
func (r *Review) Reports() []Report            { return r.reports }
func (r *Review) OwnerResponse() *OwnerResponse { return r.ownerResponse }
func (r *Review) Status() Status               { return r.status }
func (r *Review) CreatedAt() time.Time         { return r.createdAt }
func (r *Review) UpdatedAt() time.Time         { return r.updatedAt }
