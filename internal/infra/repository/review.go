package repository

import (
	"context"
	"time"

	"deskhive/internal/domain/review"
	"deskhive/internal/infra"
	"deskhive/internal/infra/db"

	"github.com/google/uuid"
)

type ReviewRepository struct {
	db db.DBTX
}

func NewReviewRepository(db db.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const createReviewQuery = `
INSERT INTO reviews (
    id, booking_id, property_id, reviewer_id,
    rating, cleanliness, location, amenities, communication,
    comment, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
RETURNING id`

func (r *ReviewRepository) Create(ctx context.Context, rev *review.Review) (uuid.UUID, error) {
	aspects := rev.Aspects()
	var id uuid.UUID
	err := r.db.QueryRow(ctx, createReviewQuery,
		rev.ID(),
		rev.BookingID(),
		rev.PropertyID(),
		rev.ReviewerID(),
		rev.Rating().Value(),
		aspects.Cleanliness.Value(),
		aspects.Location.Value(),
		aspects.Amenities.Value(),
		aspects.Communication.Value(),
		rev.Comment().String(),
		rev.Status().String(),
		rev.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create review", err)
	}
	return id, nil
}

const addHelpfulVoteQuery = `
INSERT INTO review_helpful_votes (review_id, user_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (review_id, user_id) DO NOTHING`

const removeHelpfulVoteQuery = `
DELETE FROM review_helpful_votes WHERE review_id = $1 AND user_id = $2`

func (r *ReviewRepository) SetHelpfulVote(ctx context.Context, reviewID, userID uuid.UUID, voted bool, now time.Time) error {
	var err error
	if voted {
		_, err = r.db.Exec(ctx, addHelpfulVoteQuery, reviewID, userID, now)
	} else {
		_, err = r.db.Exec(ctx, removeHelpfulVoteQuery, reviewID, userID)
	}
	if err != nil {
		return infra.WrapRepoErr("failed to set helpful vote", err)
	}
	return nil
}

const addReportQuery = `
INSERT INTO review_reports (id, review_id, reporter_id, reason, status, reported_at)
VALUES ($1, $2, $3, $4, $5, $6)`

func (r *ReviewRepository) AddReport(ctx context.Context, reviewID uuid.UUID, rep review.Report) error {
	_, err := r.db.Exec(ctx, addReportQuery,
		uuid.New(),
		reviewID,
		rep.Reporter,
		rep.Reason,
		string(rep.Status),
		rep.ReportedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to add review report", err)
	}
	return nil
}

const setOwnerResponseQuery = `
UPDATE reviews SET
    owner_response = $2,
    owner_responded_at = $3,
    updated_at = $3
WHERE id = $1 AND owner_response IS NULL`

func (r *ReviewRepository) SetOwnerResponse(ctx context.Context, reviewID uuid.UUID, resp review.OwnerResponse) error {
	tag, err := r.db.Exec(ctx, setOwnerResponseQuery, reviewID, resp.Text, resp.RespondedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to set owner response", err)
	}
	// The guard in the WHERE clause backstops the duplicate check under
	// concurrent responses.
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("owner response already set", nil, infra.KindConflict)
	}
	return nil
}

const softDeleteReviewQuery = `
UPDATE reviews SET status = 'deleted', updated_at = $2
WHERE id = $1 AND status = 'active'`

func (r *ReviewRepository) SoftDelete(ctx context.Context, reviewID uuid.UUID, now time.Time) error {
	tag, err := r.db.Exec(ctx, softDeleteReviewQuery, reviewID, now)
	if err != nil {
		return infra.WrapRepoErr("failed to soft delete review", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("review not found", nil, infra.KindNotFound)
	}
	return nil
}
