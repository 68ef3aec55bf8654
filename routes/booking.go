package routes

import (
	"github.com/gin-gonic/gin"

	"bondigoo/handlers"
)

// RegisterCalendarRoutes registers availability publishing and calendar
// read endpoints.
func RegisterCalendarRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	calendar := r.Group("/api/calendar")
	{
		calendar.POST("/availability", bh.CreateAvailabilityHandler)
		calendar.PUT("/availability/:id", bh.RestructureAvailabilityHandler)
		calendar.GET("/coach/:coachId", bh.ListCalendarHandler)
	}
}

// RegisterBookingRoutes registers all endpoints for the booking lifecycle.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	booking := r.Group("/api/bookings")
	{
		booking.POST("", bh.CreateBookingHandler)
		booking.GET("/:id", bh.GetBookingHandler)

		// Coach responses to a pending request.
		booking.POST("/:id/accept", bh.AcceptBookingHandler)
		booking.POST("/:id/decline", bh.DeclineBookingHandler)
		booking.POST("/:id/suggest-time", bh.SuggestAlternativeHandler)

		booking.POST("/:id/confirm-payment", bh.ConfirmPaymentHandler)
		booking.POST("/:id/cancel", bh.CancelBookingHandler)

		// Session delivery.
		booking.POST("/:id/start", bh.StartSessionHandler)
		booking.POST("/:id/complete", bh.CompleteSessionHandler)
		booking.POST("/:id/no-show", bh.MarkNoShowHandler)

		// Reschedule negotiation. Both route pairs drive the same
		// two-party protocol; they exist separately so clients and
		// coaches keep distinct entry points.
		booking.GET("/:id/reschedule-eligibility", bh.CheckRescheduleEligibilityHandler)
		booking.POST("/:id/request-reschedule", bh.ProposeRescheduleHandler)
		booking.POST("/:id/respond-to-reschedule", bh.RespondRescheduleHandler)
		booking.POST("/:id/propose-reschedule", bh.ProposeRescheduleHandler)
		booking.POST("/:id/respond-to-proposal", bh.RespondRescheduleHandler)
	}
}
