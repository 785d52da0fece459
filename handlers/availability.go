package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"podstudio/middleware"
	"podstudio/models"
	"podstudio/services/availability"
	"podstudio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves the public calendar and the admin business-hours record.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// GetAvailabilityHandler handles GET /api/availability?date=YYYY-MM-DD&durationHours=N.
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "date is required", "expected YYYY-MM-DD")
		return
	}
	durationHours, err := strconv.Atoi(c.DefaultQuery("durationHours", "1"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "durationHours must be an integer", err.Error())
		return
	}

	result, err := h.Service.GetSlots(c.Request.Context(), date, durationHours)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetConfigHandler returns the current business-hours record.
func (h *AvailabilityHandler) GetConfigHandler(c *gin.Context) {
	cfg, err := h.Service.GetConfig(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// ReplaceConfigHandler swaps the whole business-hours record.
func (h *AvailabilityHandler) ReplaceConfigHandler(c *gin.Context) {
	var cfg models.AvailabilityConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid availability config", err.Error())
		return
	}

	saved, err := h.Service.ReplaceConfig(c.Request.Context(), cfg)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("availability config updated", zap.String("adminID", middleware.AdminID(c)))
	c.JSON(http.StatusOK, saved)
}
