package api

import (
	"errors"
	"net/http"
	"strconv"

	"deskhive/internal/domain/review"
	reqdto "deskhive/internal/handler/dto/request"
	resdto "deskhive/internal/handler/dto/response"
	"deskhive/internal/handler/httperr"
	"deskhive/internal/handler/middleware"
	"deskhive/internal/usecase/commands"
	"deskhive/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	cmds commands.ReviewCommands
	q    queries.ReviewQueries
}

func NewReviewHandler(cmds commands.ReviewCommands, q queries.ReviewQueries) *ReviewHandler {
	return &ReviewHandler{cmds: cmds, q: q}
}

// @Summary Create review
// @Description Create a review for one of the caller's completed bookings
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReviewRequest true "Create review request"
// @Success 201 {object} resdto.ReviewResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	reviewerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	var req reqdto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	aspects, err := review.NewAspectRatings(req.Cleanliness, req.Location, req.Amenities, req.Communication)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid aspect ratings", nil)
		return
	}

	view, err := h.cmds.Create(c.Request.Context(), commands.CreateReviewCommand{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Aspects:   aspects,
		Comment:   req.Comment,
	}, reviewerID)
	if err != nil {
		h.abortWithCommandError(c, err, "Create review failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromReviewView(view))
}

// @Summary Get review
// @Description Get a review by ID
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID"
// @Success 200 {object} resdto.ReviewResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrReviewNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Review not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReviewView(view))
}

// @Summary List property reviews
// @Description List active reviews for a property with cursor pagination and rating filters
// @Tags reviews
// @Produce json
// @Param id path string true "Property ID"
// @Param after query string false "Pagination cursor"
// @Param limit query int false "Page size (default 20, max 200)"
// @Param min_rating query int false "Minimum rating filter"
// @Param max_rating query int false "Maximum rating filter"
// @Success 200 {object} resdto.ReviewListResponse
// @Failure 400 {object} map[string]string
// @Router /properties/{id}/reviews [get]
func (h *ReviewHandler) ListByProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	var filters queries.ReviewFilters
	if v := c.Query("min_rating"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, convErr, "Invalid min_rating", nil)
			return
		}
		filters.MinRating = &n
	}
	if v := c.Query("max_rating"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, convErr, "Invalid max_rating", nil)
			return
		}
		filters.MaxRating = &n
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.ListByProperty(c.Request.Context(), propertyID, filters, cursor, limit)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidCursor) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReviewList(items, next))
}

// @Summary Get property rating stats
// @Description Per-property rating aggregate folded over active reviews
// @Tags reviews
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} resdto.PropertyRatingStatsResponse
// @Failure 400 {object} map[string]string
// @Router /properties/{id}/rating-stats [get]
func (h *ReviewHandler) GetRatingStats(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	stats, err := h.q.GetPropertyRatingStats(c.Request.Context(), propertyID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPropertyRatingStats(stats))
}

// @Summary Toggle helpful vote
// @Description Toggle the caller's helpful vote on a review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} resdto.HelpfulVoteResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reviews/{id}/helpful [post]
func (h *ReviewHandler) ToggleHelpful(c *gin.Context) {
	id, userID, ok := h.pathIDAndActor(c)
	if !ok {
		return
	}

	voted, err := h.cmds.ToggleHelpful(c.Request.Context(), id, userID)
	if err != nil {
		h.abortWithCommandError(c, err, "Toggle helpful vote failed")
		return
	}
	c.JSON(http.StatusOK, resdto.HelpfulVoteResponse{ReviewID: id, Voted: voted})
}

// @Summary Report review
// @Description Report a review; a repeat report by the same user is a no-op
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body reqdto.ReportReviewRequest true "Report reason"
// @Success 200 {object} resdto.ReportResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reviews/{id}/report [post]
func (h *ReviewHandler) Report(c *gin.Context) {
	id, userID, ok := h.pathIDAndActor(c)
	if !ok {
		return
	}

	var req reqdto.ReportReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	outcome, err := h.cmds.Report(c.Request.Context(), id, userID, req.Reason)
	if err != nil {
		h.abortWithCommandError(c, err, "Report review failed")
		return
	}
	c.JSON(http.StatusOK, resdto.ReportResponse{ReviewID: id, AlreadyReported: outcome.AlreadyReported})
}

// @Summary Respond to review
// @Description Property owner posts the single response to a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body reqdto.RespondReviewRequest true "Response text"
// @Success 200 {object} resdto.ReviewResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /reviews/{id}/response [post]
func (h *ReviewHandler) Respond(c *gin.Context) {
	id, userID, ok := h.pathIDAndActor(c)
	if !ok {
		return
	}

	var req reqdto.RespondReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.cmds.Respond(c.Request.Context(), id, userID, req.Text)
	if err != nil {
		h.abortWithCommandError(c, err, "Respond to review failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromReviewView(view))
}

// @Summary Delete review
// @Description Soft-delete the caller's own review
// @Tags reviews
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, userID, ok := h.pathIDAndActor(c)
	if !ok {
		return
	}

	if err := h.cmds.Delete(c.Request.Context(), id, userID); err != nil {
		h.abortWithCommandError(c, err, "Delete review failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) pathIDAndActor(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, uuid.Nil, false
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return uuid.Nil, uuid.Nil, false
	}
	return id, userID, true
}

func (h *ReviewHandler) abortWithCommandError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, commands.ErrInvalidReview), errors.Is(err, commands.ErrEmptyReportReason), errors.Is(err, commands.ErrEmptyResponse):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	case errors.Is(err, commands.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, commands.ErrReviewNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Review not found", nil)
	case errors.Is(err, commands.ErrNotEligible):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booking is not eligible for a review", nil)
	case errors.Is(err, commands.ErrAlreadyReviewed):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking already has a review", nil)
	case errors.Is(err, commands.ErrNotAuthor), errors.Is(err, commands.ErrNotPropertyOwner):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
	case errors.Is(err, commands.ErrAlreadyResponded):
		httperr.AbortWithError(c, http.StatusConflict, err, "Review already has a response", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msg, nil)
	}
}
