package repository

import (
	"context"

	"deskhive/internal/infra"
	"deskhive/internal/infra/db"

	"github.com/google/uuid"
)

type RatingStatsRepository struct {
	db db.DBTX
}

func NewRatingStatsRepository(db db.DBTX) *RatingStatsRepository {
	return &RatingStatsRepository{db: db}
}

// The aggregate row is always rewritten from a full fold over the
// property's active reviews. Incremental updates would be cheaper but
// can drift; the fold cannot.
const recalcRatingStatsQuery = `
INSERT INTO rating_stats (
    property_id, total_reviews, average_rating,
    rating_1_count, rating_2_count, rating_3_count, rating_4_count, rating_5_count,
    updated_at
)
SELECT
    $1,
    COUNT(*),
    COALESCE(AVG(rating), 0),
    COUNT(*) FILTER (WHERE rating = 1),
    COUNT(*) FILTER (WHERE rating = 2),
    COUNT(*) FILTER (WHERE rating = 3),
    COUNT(*) FILTER (WHERE rating = 4),
    COUNT(*) FILTER (WHERE rating = 5),
    now()
FROM reviews
WHERE property_id = $1 AND status = 'active'
ON CONFLICT (property_id) DO UPDATE SET
    total_reviews  = EXCLUDED.total_reviews,
    average_rating = EXCLUDED.average_rating,
    rating_1_count = EXCLUDED.rating_1_count,
    rating_2_count = EXCLUDED.rating_2_count,
    rating_3_count = EXCLUDED.rating_3_count,
    rating_4_count = EXCLUDED.rating_4_count,
    rating_5_count = EXCLUDED.rating_5_count,
    updated_at     = EXCLUDED.updated_at`

func (r *RatingStatsRepository) Recalc(ctx context.Context, propertyID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, recalcRatingStatsQuery, propertyID); err != nil {
		return infra.WrapRepoErr("failed to recalc rating stats", err)
	}
	return nil
}
