package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ListCalendarHandler returns every record touching the requested range
// for one coach. Range bounds come as RFC3339 query params.
func (h *BookingHandler) ListCalendarHandler(c *gin.Context) {
	coachID := c.Param("coachId")

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' parameter", "details": "expected RFC3339 timestamp"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' parameter", "details": "expected RFC3339 timestamp"})
		return
	}
	if !from.Before(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid range", "details": "'from' must precede 'to'"})
		return
	}

	records, err := h.Engine.ListCalendar(c.Request.Context(), coachID, from, to)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coachId": coachID, "records": records})
}
