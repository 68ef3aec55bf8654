package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bondigoo/models"
)

// CheckRescheduleEligibilityHandler reports whether, and under which
// policy terms, a booking can still be moved.
func (h *BookingHandler) CheckRescheduleEligibilityHandler(c *gin.Context) {
	eligibility, err := h.Engine.CheckRescheduleEligibility(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, eligibility)
}

// ProposeRescheduleHandler opens a reschedule negotiation with one or
// more candidate slots.
func (h *BookingHandler) ProposeRescheduleHandler(c *gin.Context) {
	var req models.ProposeRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Engine.ProposeReschedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RespondRescheduleHandler answers the pending request with approve,
// decline or a counter-proposal.
func (h *BookingHandler) RespondRescheduleHandler(c *gin.Context) {
	var req models.RespondRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := h.Engine.RespondToReschedule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
