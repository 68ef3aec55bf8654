package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bondigoo/models"
	"bondigoo/services/booking"
)

// BookingHandler exposes the lifecycle engine over HTTP.
type BookingHandler struct {
	Engine booking.LifecycleEngine
}

func NewBookingHandler(engine booking.LifecycleEngine) *BookingHandler {
	return &BookingHandler{Engine: engine}
}

// actorRequest is the minimal body for operations that only need to know
// who is acting.
type actorRequest struct {
	Actor models.Actor `json:"actor" binding:"required"`
}

// CreateAvailabilityHandler publishes an open window on a coach's calendar.
func (h *BookingHandler) CreateAvailabilityHandler(c *gin.Context) {
	var req models.CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Engine.CreateAvailability(c.Request.Context(), req)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// RestructureAvailabilityHandler replaces an untouched availability window
// with a new definition.
func (h *BookingHandler) RestructureAvailabilityHandler(c *gin.Context) {
	availabilityID := c.Param("id")
	var req models.CreateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Engine.RestructureAvailability(c.Request.Context(), availabilityID, req)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateBookingHandler places a booking inside published availability.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Engine.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AcceptBookingHandler moves a requested booking toward confirmation.
func (h *BookingHandler) AcceptBookingHandler(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Engine.AcceptBooking(c.Request.Context(), c.Param("id"), req.Actor)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeclineBookingHandler rejects a requested booking and restores the
// carved availability.
func (h *BookingHandler) DeclineBookingHandler(c *gin.Context) {
	resp, err := h.Engine.DeclineBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SuggestAlternativeHandler lets a coach answer a request with different
// time slots instead of a plain decline.
func (h *BookingHandler) SuggestAlternativeHandler(c *gin.Context) {
	var req struct {
		Slots   []models.Interval `json:"slots" binding:"required,min=1"`
		Message string            `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Engine.SuggestAlternative(c.Request.Context(), c.Param("id"), req.Slots, req.Message)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmPaymentHandler records a captured payment intent and confirms
// the booking.
func (h *BookingHandler) ConfirmPaymentHandler(c *gin.Context) {
	var req struct {
		IntentID string `json:"intentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Engine.ConfirmPayment(c.Request.Context(), c.Param("id"), req.IntentID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelBookingHandler cancels on behalf of the given actor, applying
// the booking's refund policy.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	var req actorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Engine.Cancel(c.Request.Context(), c.Param("id"), req.Actor)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StartSessionHandler marks a confirmed booking as underway.
func (h *BookingHandler) StartSessionHandler(c *gin.Context) {
	resp, err := h.Engine.StartSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteSessionHandler closes out a delivered session.
func (h *BookingHandler) CompleteSessionHandler(c *gin.Context) {
	resp, err := h.Engine.CompleteSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkNoShowHandler records that the client never turned up.
func (h *BookingHandler) MarkNoShowHandler(c *gin.Context) {
	resp, err := h.Engine.MarkNoShow(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetBookingHandler returns a single booking with its reschedule view
// and session projection.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	resp, err := h.Engine.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
