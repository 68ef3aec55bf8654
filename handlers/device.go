package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	deviceRepo "bondigoo/database/repository/device"
	"bondigoo/models"
)

// DeviceHandler manages push notification token registration.
type DeviceHandler struct {
	Devices deviceRepo.DeviceRepository
}

func NewDeviceHandler(devices deviceRepo.DeviceRepository) *DeviceHandler {
	return &DeviceHandler{Devices: devices}
}

// RegisterTokenHandler stores or refreshes the FCM token for a principal.
func (h *DeviceHandler) RegisterTokenHandler(c *gin.Context) {
	var req struct {
		PrincipalID string `json:"principalId" binding:"required"`
		Role        string `json:"role" binding:"required,oneof=client coach"`
		FCMToken    string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	token := models.DeviceToken{
		PrincipalID: req.PrincipalID,
		Role:        req.Role,
		FCMToken:    req.FCMToken,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := h.Devices.SaveToken(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save device token", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device token registered"})
}
