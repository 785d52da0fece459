package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"podstudio/middleware"
	"podstudio/models"
	"podstudio/services/booking"
	"podstudio/services/sequence"
	"podstudio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates the studio staff's reservation operations.
type AdminHandler struct {
	Manager booking.LifecycleManager
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(m booking.LifecycleManager) *AdminHandler {
	return &AdminHandler{Manager: m}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type assignRequest struct {
	AdminID string `json:"adminId"`
}

// ListReservationsHandler handles GET /api/admin/reservations?status=&from=&to=&limit=.
func (ah *AdminHandler) ListReservationsHandler(c *gin.Context) {
	var filter models.ReservationFilter

	if s := c.Query("status"); s != "" {
		st, err := models.ParseReservationStatus(s)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		filter.Status = &st
	}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, p.name+" must be an RFC3339 timestamp", err.Error())
			return
		}
		*p.dst = &t
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			utils.JSONError(c, http.StatusBadRequest, "limit must be a non-negative integer", raw)
			return
		}
		filter.Limit = n
	}

	list, err := ah.Manager.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": list, "count": len(list)})
}

// GetByConfirmationHandler handles GET /api/admin/reservations/confirmation/:code.
func (ah *AdminHandler) GetByConfirmationHandler(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if _, _, err := sequence.ParseConfirmationCode(code); err != nil {
		utils.RespondError(c, err)
		return
	}
	r, err := ah.Manager.GetByConfirmationID(c.Request.Context(), code)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ConfirmReservationHandler confirms a pending request. An optional body
// {startAt, durationHours} moves it before confirming.
func (ah *AdminHandler) ConfirmReservationHandler(c *gin.Context) {
	var adjusted *models.ScheduleAdjustment
	var body models.ScheduleAdjustment
	sent, ok := bindOptionalJSON(c, &body, "invalid schedule adjustment")
	if !ok {
		return
	}
	if sent {
		adjusted = &body
	}

	adminID := middleware.AdminID(c)
	r, err := ah.Manager.Confirm(c.Request.Context(), c.Param("id"), adjusted, adminID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("reservation confirmed via admin API",
		zap.String("reservationID", r.ID), zap.String("adminID", adminID))
	c.JSON(http.StatusOK, r)
}

// RejectReservationHandler declines a pending request.
func (ah *AdminHandler) RejectReservationHandler(c *gin.Context) {
	body, ok := bindReason(c)
	if !ok {
		return
	}
	r, err := ah.Manager.Reject(c.Request.Context(), c.Param("id"), middleware.AdminID(c), body.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// CancelReservationHandler cancels a pending or confirmed reservation.
func (ah *AdminHandler) CancelReservationHandler(c *gin.Context) {
	body, ok := bindReason(c)
	if !ok {
		return
	}
	r, err := ah.Manager.Cancel(c.Request.Context(), c.Param("id"), body.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// CompleteReservationHandler marks a confirmed session as held.
func (ah *AdminHandler) CompleteReservationHandler(c *gin.Context) {
	r, err := ah.Manager.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// AssignReservationHandler assigns a reservation to the given admin, or to the caller.
func (ah *AdminHandler) AssignReservationHandler(c *gin.Context) {
	var body assignRequest
	if _, ok := bindOptionalJSON(c, &body, "invalid assign request"); !ok {
		return
	}
	adminID := strings.TrimSpace(body.AdminID)
	if adminID == "" {
		adminID = middleware.AdminID(c)
	}
	r, err := ah.Manager.Assign(c.Request.Context(), c.Param("id"), adminID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func bindReason(c *gin.Context) (reasonRequest, bool) {
	var body reasonRequest
	_, ok := bindOptionalJSON(c, &body, "invalid request body")
	return body, ok
}

// bindOptionalJSON decodes a body into dst when the client sent one, including
// chunked bodies of unknown length. ok is false once a 400 has been written.
func bindOptionalJSON(c *gin.Context, dst any, message string) (sent, ok bool) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody || c.Request.ContentLength == 0 {
		return false, true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return false, true
		}
		utils.JSONError(c, http.StatusBadRequest, message, err.Error())
		return false, false
	}
	return true, true
}
