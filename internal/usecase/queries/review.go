package queries

import (
	"context"
	"time"

	"deskhive/internal/infra"
	"deskhive/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound = errs.New("review not found")
	ErrInvalidCursor  = errs.New("invalid cursor")
)

type ReviewView struct {
	ID            uuid.UUID  `json:"id"`
	BookingID     uuid.UUID  `json:"booking_id"`
	PropertyID    uuid.UUID  `json:"property_id"`
	PropertyName  string     `json:"property_name"`
	ReviewerID    uuid.UUID  `json:"reviewer_id"`
	Rating        int        `json:"rating"`
	Cleanliness   int        `json:"cleanliness"`
	Location      int        `json:"location"`
	Amenities     int        `json:"amenities"`
	Communication int        `json:"communication"`
	Comment       string     `json:"comment"`
	HelpfulCount  int        `json:"helpful_count"`
	ReportCount   int        `json:"report_count"`
	OwnerResponse *string    `json:"owner_response,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type ReviewListItem struct {
	ID            uuid.UUID `json:"id"`
	ReviewerID    uuid.UUID `json:"reviewer_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	HelpfulCount  int       `json:"helpful_count"`
	OwnerResponse *string   `json:"owner_response,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type PropertyRatingStats struct {
	PropertyID    uuid.UUID `json:"property_id"`
	TotalReviews  int32     `json:"total_reviews"`
	AverageRating float64   `json:"average_rating"`
	Rating1Count  int32     `json:"rating_1_count"`
	Rating2Count  int32     `json:"rating_2_count"`
	Rating3Count  int32     `json:"rating_3_count"`
	Rating4Count  int32     `json:"rating_4_count"`
	Rating5Count  int32     `json:"rating_5_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReviewFilters struct {
	MinRating *int
	MaxRating *int
}

type ReviewReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ReviewView, error)
	FindByPropertyFirstPage(ctx context.Context, propertyID uuid.UUID, limit int32, filters ReviewFilters) ([]*ReviewListItem, error)
	FindByPropertyKeyset(ctx context.Context, propertyID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32, filters ReviewFilters) ([]*ReviewListItem, error)
	GetPropertyRatingStats(ctx context.Context, propertyID uuid.UUID) (*PropertyRatingStats, error)
}

type ReviewQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ReviewView, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID, filters ReviewFilters, cursor *Cursor, limit int) ([]*ReviewListItem, *Cursor, error)
	GetPropertyRatingStats(ctx context.Context, propertyID uuid.UUID) (*PropertyRatingStats, error)
}

type reviewQueriesImpl struct {
	repo ReviewReadStore
}

func NewReviewQueries(repo ReviewReadStore) ReviewQueries {
	return &reviewQueriesImpl{repo: repo}
}

func (q *reviewQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ReviewView, error) {
	rv, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return rv, nil
}

func (q *reviewQueriesImpl) ListByProperty(ctx context.Context, propertyID uuid.UUID, filters ReviewFilters, cursor *Cursor, limit int) ([]*ReviewListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*ReviewListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindByPropertyFirstPage(ctx, propertyID, int32(limit+1), filters)
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.repo.FindByPropertyKeyset(ctx, propertyID, lastCreatedAt, lastID, int32(limit+1), filters)
	}
	if err != nil {
		return nil, nil, err
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (q *reviewQueriesImpl) GetPropertyRatingStats(ctx context.Context, propertyID uuid.UUID) (*PropertyRatingStats, error) {
	return q.repo.GetPropertyRatingStats(ctx, propertyID)
}
