package review

// RatingStats is the per-property aggregate. It must always equal
// Fold() over the property's active reviews. Persistence may cache it
// but never lets the cache drift from the fold.
type RatingStats struct {
	TotalReviews  int
	AverageRating float64
	Distribution  [5]int // Distribution[i] counts rating i+1
}

// Fold recomputes the aggregate from scratch. Deleted reviews are
// excluded; reviews for other properties are the caller's problem.
func Fold(reviews []*Review) RatingStats {
	var stats RatingStats
	sum := 0
	for _, r := range reviews {
		if !r.IsActive() {
			continue
		}
		v := r.Rating().Value()
		stats.TotalReviews++
		stats.Distribution[v-1]++
		sum += v
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats
}

func (s RatingStats) Count(rating int) int {
	if rating < 1 || rating > 5 {
		return 0
	}
	return s.Distribution[rating-1]
}
