package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "deskhive/internal/handler/dto/request"
	resdto "deskhive/internal/handler/dto/response"
	"deskhive/internal/handler/httperr"
	"deskhive/internal/handler/middleware"
	"deskhive/internal/usecase/commands"
	"deskhive/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Create booking
// @Description Request a booking for a property slot; admission is atomic per property
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.cmds.Create(c.Request.Context(), commands.CreateBookingCommand{
		PropertyID:  req.PropertyID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		BookingType: req.BookingType,
	}, renterID)
	if err != nil {
		h.abortWithCommandError(c, err, "Create booking failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBookingView(view))
}

// @Summary Get booking
// @Description Get a booking by ID; visible to its renter, the property owner, and admins
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, actorID, role, ok := h.pathIDAndActor(c)
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), id, actorID, role)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		case errors.Is(err, queries.ErrBookingAccess):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List own bookings
// @Description List the caller's bookings, newest first
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BookingListItemResponse
// @Failure 401 {object} map[string]string
// @Router /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	items, err := h.q.ListByRenter(c.Request.Context(), renterID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingList(items))
}

// @Summary List property bookings
// @Description List bookings on a property; restricted to its owner and admins
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Property ID"
// @Success 200 {array} resdto.BookingListItemResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /properties/{id}/bookings [get]
func (h *BookingHandler) ListByProperty(c *gin.Context) {
	propertyID, actorID, role, ok := h.pathIDAndActor(c)
	if !ok {
		return
	}

	items, err := h.q.ListByProperty(c.Request.Context(), propertyID, actorID, role)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrPropertyNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
		case errors.Is(err, queries.ErrBookingAccess):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingList(items))
}

// @Summary Confirm booking
// @Description Owner confirms a pending booking; availability is re-verified
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	id, actorID, _, ok := h.pathIDAndActor(c)
	if !ok {
		return
	}

	view, err := h.cmds.Confirm(c.Request.Context(), id, actorID)
	if err != nil {
		h.abortWithCommandError(c, err, "Confirm booking failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Reject booking
// @Description Owner rejects a pending booking with a reason
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.RejectBookingRequest true "Rejection reason"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/reject [post]
func (h *BookingHandler) Reject(c *gin.Context) {
	id, actorID, _, ok := h.pathIDAndActor(c)
	if !ok {
		return
	}

	var req reqdto.RejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.cmds.Reject(c.Request.Context(), id, actorID, req.Reason)
	if err != nil {
		h.abortWithCommandError(c, err, "Reject booking failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Description Renter cancels a confirmed booking before the cancellation window closes
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, actorID, _, ok := h.pathIDAndActor(c)
	if !ok {
		return
	}

	view, err := h.cmds.Cancel(c.Request.Context(), id, actorID)
	if err != nil {
		h.abortWithCommandError(c, err, "Cancel booking failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Complete booking
// @Description Mark an elapsed confirmed booking as completed; idempotent
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	view, err := h.cmds.Complete(c.Request.Context(), id)
	if err != nil {
		h.abortWithCommandError(c, err, "Complete booking failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Check availability
// @Description Advisory availability check for a property slot
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Param start query string true "Slot start (RFC3339)"
// @Param end query string true "Slot end (RFC3339)"
// @Param type query string true "Booking type" Enums(hourly, daily, monthly)
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /properties/{id}/availability [get]
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	propertyID, start, end, kind, ok := h.slotQueryParams(c)
	if !ok {
		return
	}

	result, err := h.q.CheckAvailability(c.Request.Context(), propertyID, start, end, kind)
	if err != nil {
		h.abortWithQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityResult(result))
}

// @Summary Quote booking price
// @Description Price a slot without creating a booking
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Param start query string true "Slot start (RFC3339)"
// @Param end query string true "Slot end (RFC3339)"
// @Param type query string true "Booking type" Enums(hourly, daily, monthly)
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /properties/{id}/quote [get]
func (h *BookingHandler) Quote(c *gin.Context) {
	propertyID, start, end, kind, ok := h.slotQueryParams(c)
	if !ok {
		return
	}

	result, err := h.q.Quote(c.Request.Context(), propertyID, start, end, kind)
	if err != nil {
		h.abortWithQueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuoteResult(result))
}

func (h *BookingHandler) pathIDAndActor(c *gin.Context) (uuid.UUID, uuid.UUID, string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, uuid.Nil, "", false
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return uuid.Nil, uuid.Nil, "", false
	}
	role, _ := middleware.GetUserRole(c)
	return id, actorID, role.String(), true
}

func (h *BookingHandler) slotQueryParams(c *gin.Context) (uuid.UUID, time.Time, time.Time, string, bool) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return uuid.Nil, time.Time{}, time.Time{}, "", false
	}
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid start time", nil)
		return uuid.Nil, time.Time{}, time.Time{}, "", false
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid end time", nil)
		return uuid.Nil, time.Time{}, time.Time{}, "", false
	}
	return propertyID, start, end, c.Query("type"), true
}

func (h *BookingHandler) abortWithQueryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queries.ErrPropertyNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
	case errors.Is(err, queries.ErrInvalidInterval), errors.Is(err, queries.ErrInvalidType):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot parameters", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func (h *BookingHandler) abortWithCommandError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, commands.ErrInvalidInterval), errors.Is(err, commands.ErrInvalidBookingType):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot parameters", nil)
	case errors.Is(err, commands.ErrPropertyNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Property not found", nil)
	case errors.Is(err, commands.ErrBookingNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, commands.ErrNotOwner), errors.Is(err, commands.ErrNotRenter):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
	case errors.Is(err, commands.ErrBookingConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Slot is not available", nil)
	case errors.Is(err, commands.ErrPropertyNotBookable):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Property is not bookable", nil)
	case errors.Is(err, commands.ErrWrongState):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booking is not in a valid state", nil)
	case errors.Is(err, commands.ErrCancellationWindowPassed):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Cancellation window has passed", nil)
	case errors.Is(err, commands.ErrNotYetElapsed):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Booking has not ended yet", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msg, nil)
	}
}
