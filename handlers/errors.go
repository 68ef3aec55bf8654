package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	calendarRepo "bondigoo/database/repository/calendar"
	"bondigoo/services/booking"
	"bondigoo/utils"
)

// respondLifecycleError maps the engine's typed errors onto HTTP statuses.
func respondLifecycleError(c *gin.Context, err error) {
	var (
		valErr       *booking.ValidationError
		transErr     *booking.InvalidTransitionError
		conflictErr  *booking.SlotConflictError
		policyErr    *booking.PolicyViolationError
		transientErr *booking.TransientConflictError
		gatewayErr   *booking.GatewayError
	)

	switch {
	case errors.As(err, &valErr):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", valErr.Error())
	case errors.As(err, &transErr):
		utils.JSONError(c, http.StatusConflict, "operation not allowed in current state", transErr.Error())
	case errors.As(err, &conflictErr):
		utils.JSONError(c, http.StatusConflict, "slot no longer available", conflictErr.Error())
	case errors.As(err, &policyErr):
		utils.JSONError(c, http.StatusUnprocessableEntity, "policy violation", policyErr.Error())
	case errors.As(err, &transientErr):
		utils.JSONError(c, http.StatusServiceUnavailable, "calendar busy, please retry", transientErr.Error())
	case errors.As(err, &gatewayErr):
		utils.JSONError(c, http.StatusBadGateway, "payment gateway failure", gatewayErr.Error())
	case errors.Is(err, calendarRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "booking not found", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
