package readstore

import (
	"context"
	"time"

	"deskhive/internal/infra"
	"deskhive/internal/infra/db"
	"deskhive/internal/pkg/pgconv"
	"deskhive/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReviewReadStore struct {
	db db.DBTX
}

func NewReviewReadStore(db db.DBTX) *ReviewReadStore {
	return &ReviewReadStore{db: db}
}

const reviewViewQuery = `
SELECT r.id, r.booking_id, r.property_id, p.name, r.reviewer_id,
       r.rating, r.cleanliness, r.location, r.amenities, r.communication,
       r.comment,
       (SELECT COUNT(*) FROM review_helpful_votes v WHERE v.review_id = r.id),
       (SELECT COUNT(*) FROM review_reports rp WHERE rp.review_id = r.id),
       r.owner_response, r.owner_responded_at,
       r.status, r.created_at, r.updated_at
FROM reviews r
JOIN properties p ON p.id = r.property_id
WHERE r.id = $1`

func (r *ReviewReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReviewView, error) {
	var v queries.ReviewView
	err := r.db.QueryRow(ctx, reviewViewQuery, id).Scan(
		&v.ID,
		&v.BookingID,
		&v.PropertyID,
		&v.PropertyName,
		&v.ReviewerID,
		&v.Rating,
		&v.Cleanliness,
		&v.Location,
		&v.Amenities,
		&v.Communication,
		&v.Comment,
		&v.HelpfulCount,
		&v.ReportCount,
		&v.OwnerResponse,
		&v.RespondedAt,
		&v.Status,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("review not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get review view by id", err)
	}
	return &v, nil
}

// Keyset pagination on (created_at, id) DESC keeps page boundaries
// stable while new reviews arrive.
const reviewsFirstPageQuery = `
SELECT r.id, r.reviewer_id, r.rating, r.comment,
       (SELECT COUNT(*) FROM review_helpful_votes v WHERE v.review_id = r.id),
       r.owner_response, r.created_at
FROM reviews r
WHERE r.property_id = $1
  AND r.status = 'active'
  AND ($2::int IS NULL OR r.rating >= $2)
  AND ($3::int IS NULL OR r.rating <= $3)
ORDER BY r.created_at DESC, r.id DESC
LIMIT $4`

func (r *ReviewReadStore) FindByPropertyFirstPage(ctx context.Context, propertyID uuid.UUID, limit int32, filters queries.ReviewFilters) ([]*queries.ReviewListItem, error) {
	rows, err := r.db.Query(ctx, reviewsFirstPageQuery, propertyID, filters.MinRating, filters.MaxRating, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get reviews first page", err)
	}
	return scanReviewList(rows)
}

const reviewsKeysetQuery = `
SELECT r.id, r.reviewer_id, r.rating, r.comment,
       (SELECT COUNT(*) FROM review_helpful_votes v WHERE v.review_id = r.id),
       r.owner_response, r.created_at
FROM reviews r
WHERE r.property_id = $1
  AND r.status = 'active'
  AND ($2::int IS NULL OR r.rating >= $2)
  AND ($3::int IS NULL OR r.rating <= $3)
  AND (r.created_at, r.id) < ($4, $5)
ORDER BY r.created_at DESC, r.id DESC
LIMIT $6`

func (r *ReviewReadStore) FindByPropertyKeyset(ctx context.Context, propertyID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32, filters queries.ReviewFilters) ([]*queries.ReviewListItem, error) {
	rows, err := r.db.Query(ctx, reviewsKeysetQuery, propertyID, filters.MinRating, filters.MaxRating, lastCreatedAt, lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get reviews keyset page", err)
	}
	return scanReviewList(rows)
}

func scanReviewList(rows pgx.Rows) ([]*queries.ReviewListItem, error) {
	defer rows.Close()

	var items []*queries.ReviewListItem
	for rows.Next() {
		var it queries.ReviewListItem
		err := rows.Scan(
			&it.ID,
			&it.ReviewerID,
			&it.Rating,
			&it.Comment,
			&it.HelpfulCount,
			&it.OwnerResponse,
			&it.CreatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan review list item", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate review list", err)
	}
	return items, nil
}

const ratingStatsQuery = `
SELECT property_id, total_reviews, average_rating,
       rating_1_count, rating_2_count, rating_3_count, rating_4_count, rating_5_count,
       updated_at
FROM rating_stats
WHERE property_id = $1`

// GetPropertyRatingStats returns zeroed stats for a property that has
// never been reviewed; the aggregate row only exists after the first
// recalc.
func (r *ReviewReadStore) GetPropertyRatingStats(ctx context.Context, propertyID uuid.UUID) (*queries.PropertyRatingStats, error) {
	var s queries.PropertyRatingStats
	err := r.db.QueryRow(ctx, ratingStatsQuery, propertyID).Scan(
		&s.PropertyID,
		&s.TotalReviews,
		&s.AverageRating,
		&s.Rating1Count,
		&s.Rating2Count,
		&s.Rating3Count,
		&s.Rating4Count,
		&s.Rating5Count,
		&s.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return &queries.PropertyRatingStats{PropertyID: propertyID}, nil
		}
		return nil, infra.WrapRepoErr("failed to get rating stats", err)
	}
	return &s, nil
}
