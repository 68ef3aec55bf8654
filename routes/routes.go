package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bondigoo/handlers"
	"bondigoo/middleware"
	"bondigoo/utils"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.CheckedAt.IsZero() && !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": "ok", "message": "Hi, I'm Bondigoo", "services": status})
	})
}

// RegisterDeviceRoutes registers push token endpoints.
func RegisterDeviceRoutes(r *gin.Engine, dh *handlers.DeviceHandler) {
	api := r.Group("/api/devices")
	{
		api.POST("/token", dh.RegisterTokenHandler)
	}
}

// RegisterNotificationRoutes registers the in-app inbox endpoints.
func RegisterNotificationRoutes(r *gin.Engine, nh *handlers.NotificationHandler) {
	api := r.Group("/api/notifications")
	{
		api.GET("/principal/:principalId", nh.ListNotificationsHandler)
		api.POST("/:id/read", nh.MarkNotificationReadHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, bh *handlers.BookingHandler, dh *handlers.DeviceHandler, nh *handlers.NotificationHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterCalendarRoutes(r, bh)
	RegisterBookingRoutes(r, bh)
	RegisterDeviceRoutes(r, dh)
	RegisterNotificationRoutes(r, nh)
}
