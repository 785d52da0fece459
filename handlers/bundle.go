package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Public calendar and reservation endpoints
	GetAvailabilityHandler   gin.HandlerFunc
	CreateReservationHandler gin.HandlerFunc
	GetReservationHandler    gin.HandlerFunc

	// Admin endpoints
	ListReservationsHandler    gin.HandlerFunc
	GetByConfirmationHandler   gin.HandlerFunc
	ConfirmReservationHandler  gin.HandlerFunc
	RejectReservationHandler   gin.HandlerFunc
	CancelReservationHandler   gin.HandlerFunc
	CompleteReservationHandler gin.HandlerFunc
	AssignReservationHandler   gin.HandlerFunc
	GetConfigHandler           gin.HandlerFunc
	ReplaceConfigHandler       gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handler methods into a bundle.
func NewHandlerBundle(avail *AvailabilityHandler, res *ReservationHandler, admin *AdminHandler, health gin.HandlerFunc) *HandlerBundle {
	return &HandlerBundle{
		GetAvailabilityHandler:   avail.GetAvailabilityHandler,
		CreateReservationHandler: res.CreateReservationHandler,
		GetReservationHandler:    res.GetReservationHandler,

		ListReservationsHandler:    admin.ListReservationsHandler,
		GetByConfirmationHandler:   admin.GetByConfirmationHandler,
		ConfirmReservationHandler:  admin.ConfirmReservationHandler,
		RejectReservationHandler:   admin.RejectReservationHandler,
		CancelReservationHandler:   admin.CancelReservationHandler,
		CompleteReservationHandler: admin.CompleteReservationHandler,
		AssignReservationHandler:   admin.AssignReservationHandler,
		GetConfigHandler:           avail.GetConfigHandler,
		ReplaceConfigHandler:       avail.ReplaceConfigHandler,

		HealthHandler: health,
	}
}
