package api

import (
	"net/http"

	reqdto "tour-booking/internal/handler/dto/request"
	resdto "tour-booking/internal/handler/dto/response"
	"tour-booking/internal/handler/httperr"
	"tour-booking/internal/handler/middleware"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"
	"tour-booking/internal/usecase/shared"

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
// @Description Book a tour departure. Prices come from the tour; the booking starts pending.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Create booking request"
// @Success 201 {object} resdto.Envelope{data=resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}

	view, err := h.cmds.CreateBooking(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respondBooking(c, http.StatusCreated, "Booking created successfully", view, actor)
}

// @Summary Get booking
// @Description Get one of the caller's bookings. Staff may read any booking.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.Envelope{data=resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := bookingIDOrAbort(c)
	if !ok {
		return
	}

	view, err := h.q.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respondBooking(c, http.StatusOK, "", view, actor)
}

// @Summary Get booking by code
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param code path string true "Booking code"
// @Success 200 {object} resdto.Envelope{data=resdto.BookingResponse}
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/code/{code} [get]
func (h *BookingHandler) GetByCode(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	view, err := h.q.GetByCode(c.Request.Context(), actor, c.Param("code"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respondBooking(c, http.StatusOK, "", view, actor)
}

// @Summary List my bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param status query string false "Status filter"
// @Param sortBy query string false "createdAt, updatedAt, startDate or total"
// @Param sortOrder query string false "asc or desc"
// @Param startDate query string false "Departure on or after (YYYY-MM-DD)"
// @Param endDate query string false "Departure on or before (YYYY-MM-DD)"
// @Success 200 {object} resdto.PagedEnvelope{data=[]resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Router /bookings/my-bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var query reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortInvalidRequest(c, err)
		return
	}

	page, err := h.q.ListMine(c.Request.Context(), actor, query.ToFilter(), query.ToPage())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respondPage(c, page, actor)
}

// @Summary Update booking
// @Description Edit non-financial fields of the caller's booking.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingRequest true "Fields to change"
// @Success 200 {object} resdto.Envelope{data=resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [put]
func (h *BookingHandler) Update(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := bookingIDOrAbort(c)
	if !ok {
		return
	}
	var req reqdto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}

	view, err := h.cmds.UpdateBooking(c.Request.Context(), actor, id, req.ToPatch())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respondBooking(c, http.StatusOK, "Booking updated successfully", view, actor)
}

// @Summary Delete booking
// @Description Only pending bookings can be deleted; held slots are released.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.Envelope
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [delete]
func (h *BookingHandler) Delete(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := bookingIDOrAbort(c)
	if !ok {
		return
	}

	if err := h.cmds.DeleteBooking(c.Request.Context(), actor, id); err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OK("Booking deleted successfully", nil))
}

// @Summary Add payment
// @Description Record a payment. The booking confirms itself once the deposit is covered.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.AddPaymentRequest true "Payment"
// @Success 200 {object} resdto.Envelope{data=resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id}/payment [post]
// @Router /bookings/admin/{id}/payment [post]
func (h *BookingHandler) AddPayment(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := bookingIDOrAbort(c)
	if !ok {
		return
	}
	var req reqdto.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}

	view, err := h.cmds.AddPayment(c.Request.Context(), actor, id, req.ToInput())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respondBooking(c, http.StatusOK, "Payment added successfully", view, actor)
}

// @Summary Cancel booking
// @Description Cancel and compute the refund from days left before departure.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} resdto.Envelope{data=resdto.CancelBookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := bookingIDOrAbort(c)
	if !ok {
		return
	}
	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortInvalidRequest(c, err)
			return
		}
	}

	result, err := h.cmds.CancelBooking(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	res, err := resdto.FromCancelResult(result, actor.IsStaff())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OK("Booking cancelled successfully", res))
}

// @Summary List all bookings
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param status query string false "Status filter"
// @Param userId query string false "Owner filter"
// @Param tourId query string false "Tour filter"
// @Param sortBy query string false "createdAt, updatedAt, startDate or total"
// @Param sortOrder query string false "asc or desc"
// @Param startDate query string false "Departure on or after (YYYY-MM-DD)"
// @Param endDate query string false "Departure on or before (YYYY-MM-DD)"
// @Success 200 {object} resdto.PagedEnvelope{data=[]resdto.BookingResponse}
// @Failure 403 {object} httperr.Response
// @Router /bookings/admin/all [get]
func (h *BookingHandler) ListAll(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var query reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortInvalidRequest(c, err)
		return
	}

	page, err := h.q.ListAll(c.Request.Context(), actor, query.ToFilter(), query.ToPage())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respondPage(c, page, actor)
}

// @Summary List bookings of a tour
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param tourId path string true "Tour ID"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param status query string false "Status filter"
// @Success 200 {object} resdto.PagedEnvelope{data=[]resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /bookings/admin/tour/{tourId} [get]
func (h *BookingHandler) ListByTour(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	tourID, err := uuid.Parse(c.Param("tourId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid tour ID", nil)
		return
	}
	var query reqdto.ListBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		abortInvalidRequest(c, err)
		return
	}

	page, err := h.q.ListByTour(c.Request.Context(), actor, tourID, query.ToFilter(), query.ToPage())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respondPage(c, page, actor)
}

// @Summary Booking statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.Envelope{data=resdto.BookingStatisticsResponse}
// @Failure 403 {object} httperr.Response
// @Router /bookings/admin/statistics [get]
func (h *BookingHandler) Statistics(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	stats, err := h.q.Statistics(c.Request.Context(), actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OK("", resdto.FromStatistics(stats)))
}

// @Summary Update booking status
// @Description Manual transition through the booking state machine. Cancelling computes a refund.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateStatusRequest true "Target status"
// @Success 200 {object} resdto.Envelope{data=resdto.BookingResponse}
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/admin/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := bookingIDOrAbort(c)
	if !ok {
		return
	}
	var req reqdto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortInvalidRequest(c, err)
		return
	}

	view, err := h.cmds.UpdateStatus(c.Request.Context(), actor, id, req.ToInput())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	respondBooking(c, http.StatusOK, "Booking status updated successfully", view, actor)
}

func actorOrAbort(c *gin.Context) (shared.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return shared.Actor{}, false
	}
	return actor, true
}

func bookingIDOrAbort(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func abortInvalidRequest(c *gin.Context, err error) {
	var detail any
	if fields := reqdto.FieldErrors(err); len(fields) > 0 {
		detail = fields
	}
	httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", detail)
}

func respondBooking(c *gin.Context, status int, message string, view *queries.BookingView, actor shared.Actor) {
	res, err := resdto.FromBookingView(view, actor.IsStaff())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(status, resdto.OK(message, res))
}

func respondPage(c *gin.Context, page *queries.BookingPage, actor shared.Actor) {
	items, err := resdto.FromBookingViews(page.Items, actor.IsStaff())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.Paged(items, page.Pagination))
}
