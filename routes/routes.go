package routes

import (
	"time"

	"podstudio/handlers"
	"podstudio/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers the client-facing calendar and booking endpoints.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/availability", hb.GetAvailabilityHandler)
		api.POST("/reservations", hb.CreateReservationHandler)
		api.GET("/reservations/:id", hb.GetReservationHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/reservations", hb.ListReservationsHandler)
		adminGroup.GET("/reservations/confirmation/:code", hb.GetByConfirmationHandler)
		adminGroup.POST("/reservations/:id/confirm", hb.ConfirmReservationHandler)
		adminGroup.POST("/reservations/:id/reject", hb.RejectReservationHandler)
		adminGroup.POST("/reservations/:id/cancel", hb.CancelReservationHandler)
		adminGroup.POST("/reservations/:id/complete", hb.CompleteReservationHandler)
		adminGroup.POST("/reservations/:id/assign", hb.AssignReservationHandler)
		adminGroup.GET("/availability-config", hb.GetConfigHandler)
		adminGroup.PUT("/availability-config", hb.ReplaceConfigHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPublicRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
