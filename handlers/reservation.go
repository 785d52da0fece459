package handlers

import (
	"net/http"

	"podstudio/models"
	"podstudio/services/booking"
	"podstudio/utils"

	"github.com/gin-gonic/gin"
)

// ReservationHandler exposes the client side of the reservation lifecycle.
type ReservationHandler struct {
	Manager booking.LifecycleManager
}

func NewReservationHandler(m booking.LifecycleManager) *ReservationHandler {
	return &ReservationHandler{Manager: m}
}

// CreateReservationHandler handles POST /api/reservations.
func (h *ReservationHandler) CreateReservationHandler(c *gin.Context) {
	var input models.ReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid reservation request", err.Error())
		return
	}

	r, err := h.Manager.Create(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// GetReservationHandler handles GET /api/reservations/:id.
func (h *ReservationHandler) GetReservationHandler(c *gin.Context) {
	r, err := h.Manager.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
