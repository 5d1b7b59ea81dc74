//go:build unit

package review_test

import (
	"testing"
	"time"

	"deskhive/internal/domain/review"
	"deskhive/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildReview(t *testing.T, rating int) *review.Review {
	t.Helper()
	r, err := builder.NewReviewBuilder().WithRating(rating).BuildDomain()
	require.NoError(t, err)
	return r
}

func TestFold(t *testing.T) {
	t.Run("empty input yields zero stats", func(t *testing.T) {
		stats := review.Fold(nil)

		assert.Zero(t, stats.TotalReviews)
		assert.Zero(t, stats.AverageRating)
		assert.Equal(t, [5]int{}, stats.Distribution)
	})

	t.Run("averages and distributes active reviews", func(t *testing.T) {
		reviews := []*review.Review{
			buildReview(t, 5),
			buildReview(t, 5),
			buildReview(t, 4),
			buildReview(t, 2),
		}

		stats := review.Fold(reviews)

		assert.Equal(t, 4, stats.TotalReviews)
		assert.InDelta(t, 4.0, stats.AverageRating, 1e-9)
		assert.Equal(t, 2, stats.Count(5))
		assert.Equal(t, 1, stats.Count(4))
		assert.Equal(t, 0, stats.Count(3))
		assert.Equal(t, 1, stats.Count(2))
		assert.Equal(t, 0, stats.Count(1))
	})

	t.Run("deleted reviews are excluded", func(t *testing.T) {
		kept := buildReview(t, 4)
		deleted := buildReview(t, 1)
		require.NoError(t, deleted.Delete(time.Now()))

		stats := review.Fold([]*review.Review{kept, deleted})

		assert.Equal(t, 1, stats.TotalReviews)
		assert.InDelta(t, 4.0, stats.AverageRating, 1e-9)
		assert.Equal(t, 0, stats.Count(1))
	})

	t.Run("all reviews deleted folds to zero", func(t *testing.T) {
		r := buildReview(t, 5)
		require.NoError(t, r.Delete(time.Now()))

		stats := review.Fold([]*review.Review{r})

		assert.Zero(t, stats.TotalReviews)
		assert.Zero(t, stats.AverageRating)
	})
}

func TestRatingStatsCount(t *testing.T) {
	stats := review.RatingStats{Distribution: [5]int{1, 2, 3, 4, 5}}

	assert.Equal(t, 1, stats.Count(1))
	assert.Equal(t, 5, stats.Count(5))
	assert.Equal(t, 0, stats.Count(0))
	assert.Equal(t, 0, stats.Count(6))
}
