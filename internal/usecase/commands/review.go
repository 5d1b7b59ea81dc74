package commands

import (
	"context"

	"deskhive/internal/domain/booking"
	"deskhive/internal/domain/review"
	"deskhive/internal/infra"
	"deskhive/internal/pkg/clock"
	"deskhive/internal/pkg/errs"
	"deskhive/internal/usecase/queries"
	"deskhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrReviewNotFound    = errs.New("review not found")
	ErrNotEligible       = errs.New("booking is not eligible for a review")
	ErrAlreadyReviewed   = errs.New("booking already has a review")
	ErrInvalidReview     = errs.New("invalid review content")
	ErrNotAuthor         = errs.New("actor is not the review author")
	ErrNotPropertyOwner  = errs.New("actor is not the property owner")
	ErrAlreadyResponded  = errs.New("review already has an owner response")
	ErrEmptyReportReason = errs.New("report reason is required")
	ErrEmptyResponse     = errs.New("response text is required")
)

type CreateReviewCommand struct {
	BookingID uuid.UUID
	Rating    int
	Aspects   review.AspectRatings
	Comment   string
}

// ReportOutcome distinguishes a fresh report from a repeat by the same
// user; a repeat is a routine outcome rather than a failure.
type ReportOutcome struct {
	AlreadyReported bool
}

type ReviewCommands interface {
	Create(ctx context.Context, cmd CreateReviewCommand, reviewerID uuid.UUID) (*queries.ReviewView, error)
	ToggleHelpful(ctx context.Context, reviewID, userID uuid.UUID) (voted bool, err error)
	Report(ctx context.Context, reviewID, reporterID uuid.UUID, reason string) (*ReportOutcome, error)
	Respond(ctx context.Context, reviewID, actorID uuid.UUID, text string) (*queries.ReviewView, error)
	Delete(ctx context.Context, reviewID, actorID uuid.UUID) error
}

type reviewCommandsImpl struct {
	uow   shared.UnitOfWork
	reads queries.ReviewReadStore
	clock clock.Clock
}

func NewReviewCommands(uow shared.UnitOfWork, reads queries.ReviewReadStore, clk clock.Clock) ReviewCommands {
	return &reviewCommandsImpl{uow: uow, reads: reads, clock: clk}
}

// Create admits one review per completed booking, authored by the
// booking's renter. The property aggregate is recomputed in the same
// transaction so readers never observe a review without its effect on
// the stats.
func (c *reviewCommandsImpl) Create(ctx context.Context, cmd CreateReviewCommand, reviewerID uuid.UUID) (*queries.ReviewView, error) {
	bookingSnap, err := c.uow.CommandReads().BookingByID(ctx, cmd.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if bookingSnap.RenterID != reviewerID {
		return nil, ErrNotEligible
	}
	if bookingSnap.Status != booking.StatusCompleted {
		return nil, ErrNotEligible
	}

	var reviewID uuid.UUID
	err = c.uow.WithinProperty(ctx, bookingSnap.PropertyID, func(ctx context.Context, tx shared.Tx) error {
		exists, derr := tx.Reads().ReviewExistsForBooking(ctx, cmd.BookingID)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if exists {
			return ErrAlreadyReviewed
		}

		entity, derr := review.NewReview(cmd.BookingID, bookingSnap.PropertyID, reviewerID, cmd.Rating, cmd.Aspects, cmd.Comment, c.clock.Now())
		if derr != nil {
			return errs.Mark(derr, ErrInvalidReview)
		}

		reviewID, derr = tx.Reviews().Create(ctx, entity)
		if derr != nil {
			// The unique constraint on booking_id backstops the
			// existence check under concurrent submissions.
			if infra.IsKind(derr, infra.KindConflict) || infra.IsKind(derr, infra.KindDuplicateKey) {
				return ErrAlreadyReviewed
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return tx.RatingStats().Recalc(ctx, bookingSnap.PropertyID)
	})
	if err != nil {
		return nil, err
	}

	return c.readView(ctx, reviewID)
}

// ToggleHelpful flips the caller's vote. Votes do not feed the rating
// aggregate, so no recompute happens here.
func (c *reviewCommandsImpl) ToggleHelpful(ctx context.Context, reviewID, userID uuid.UUID) (bool, error) {
	var voted bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().ReviewByID(ctx, reviewID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrReviewNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if snap.Status != review.StatusActive.String() {
			return ErrReviewNotFound
		}

		voted = !containsID(snap.Voters, userID)
		if derr = tx.Reviews().SetHelpfulVote(ctx, reviewID, userID, voted, c.clock.Now()); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return voted, nil
}

func (c *reviewCommandsImpl) Report(ctx context.Context, reviewID, reporterID uuid.UUID, reason string) (*ReportOutcome, error) {
	if reason == "" {
		return nil, ErrEmptyReportReason
	}

	outcome := &ReportOutcome{}
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().ReviewByID(ctx, reviewID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrReviewNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if snap.Status != review.StatusActive.String() {
			return ErrReviewNotFound
		}
		if containsID(snap.Reporters, reporterID) {
			outcome.AlreadyReported = true
			return nil
		}

		rep := review.Report{
			Reporter:   reporterID,
			Reason:     reason,
			Status:     review.ReportOpen,
			ReportedAt: c.clock.Now(),
		}
		if derr = tx.Reviews().AddReport(ctx, reviewID, rep); derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				outcome.AlreadyReported = true
				return nil
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (c *reviewCommandsImpl) Respond(ctx context.Context, reviewID, actorID uuid.UUID, text string) (*queries.ReviewView, error) {
	if text == "" {
		return nil, ErrEmptyResponse
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().ReviewByID(ctx, reviewID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrReviewNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if snap.Status != review.StatusActive.String() {
			return ErrReviewNotFound
		}

		propSnap, derr := tx.Reads().PropertyByID(ctx, snap.PropertyID)
		if derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if propSnap.OwnerID != actorID {
			return ErrNotPropertyOwner
		}
		if snap.HasResponse {
			return ErrAlreadyResponded
		}

		resp := review.OwnerResponse{Text: text, RespondedAt: c.clock.Now()}
		if derr = tx.Reviews().SetOwnerResponse(ctx, reviewID, resp); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return c.readView(ctx, reviewID)
}

// Delete soft-deletes the caller's own review and folds it out of the
// property aggregate in the same transaction.
func (c *reviewCommandsImpl) Delete(ctx context.Context, reviewID, actorID uuid.UUID) error {
	snap, err := c.uow.CommandReads().ReviewByID(ctx, reviewID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrReviewNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return c.uow.WithinProperty(ctx, snap.PropertyID, func(ctx context.Context, tx shared.Tx) error {
		locked, derr := tx.Reads().ReviewByID(ctx, reviewID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrReviewNotFound
			}
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		if locked.ReviewerID != actorID {
			return ErrNotAuthor
		}
		if locked.Status != review.StatusActive.String() {
			return ErrReviewNotFound
		}

		if derr = tx.Reviews().SoftDelete(ctx, reviewID, c.clock.Now()); derr != nil {
			return errs.Mark(derr, ErrDatabaseOperationFailed)
		}
		return tx.RatingStats().Recalc(ctx, locked.PropertyID)
	})
}

func (c *reviewCommandsImpl) readView(ctx context.Context, reviewID uuid.UUID) (*queries.ReviewView, error) {
	view, err := c.reads.FindByID(ctx, reviewID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
