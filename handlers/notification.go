package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	notificationRepo "bondigoo/database/repository/notification"
)

// NotificationHandler serves the in-app notification inbox.
type NotificationHandler struct {
	Inbox notificationRepo.NotificationRepository
}

func NewNotificationHandler(inbox notificationRepo.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{Inbox: inbox}
}

// ListNotificationsHandler returns a principal's inbox, newest first.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	principalID := c.Param("principalId")
	role := c.Query("role")
	if role != "client" && role != "coach" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be client or coach"})
		return
	}
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	notifications, err := h.Inbox.ListByPrincipal(c.Request.Context(), principalID, role, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationReadHandler flags a single inbox entry as read.
func (h *NotificationHandler) MarkNotificationReadHandler(c *gin.Context) {
	if err := h.Inbox.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked read"})
}
