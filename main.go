package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"podstudio/config"
	"podstudio/database"
	catalogRepo "podstudio/database/repository/catalog"
	reservationRepo "podstudio/database/repository/reservation"
	sequenceRepo "podstudio/database/repository/sequence"
	settingsRepo "podstudio/database/repository/settings"
	"podstudio/handlers"
	"podstudio/middleware"
	"podstudio/models"
	"podstudio/routes"
	"podstudio/services/availability"
	"podstudio/services/booking"
	"podstudio/services/sequence"
	"podstudio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if config.AppConfig.JWTSecret == "" {
			logger.Fatal("main: JWT_SECRET must be set in production")
		}
	}

	loc, err := config.StudioLocation()
	if err != nil {
		logger.Fatal("main: invalid STUDIO_TIMEZONE", zap.String("timezone", config.AppConfig.StudioTimezone), zap.Error(err))
	}

	database.InitDB()
	cacheClient := utils.GetCacheClient()

	rootCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(rootCtx, cacheClient, database.MongoClient)

	// repositories.
	resRepo := reservationRepo.NewMongoReservationRepo(config.AppConfig.StudioRoomID, loc)
	if err := resRepo.EnsureIndexes(); err != nil {
		logger.Fatal("main: failed to ensure reservation indexes", zap.Error(err))
	}
	settings := settingsRepo.NewMongoSettingsRepo()
	catalog := catalogRepo.NewMongoCatalogRepo()
	counter := sequenceRepo.NewMongoCounter()

	// services.
	availabilitySvc := &availability.DefaultAvailabilityService{
		Config:   settings,
		Bookings: resRepo,
		Cache:    utils.NewRedisCache(cacheClient, "podstudio:"),
		CacheTTL: config.AppConfig.AvailabilityCacheTTL,
		Location: loc,
		Logger:   logger.Named("availability"),
	}
	seedCtx, seedCancel := context.WithTimeout(rootCtx, 10*time.Second)
	if err := availabilitySvc.EnsureConfig(seedCtx, defaultAvailabilityConfig()); err != nil {
		logger.Fatal("main: failed to seed availability config", zap.Error(err))
	}
	seedCancel()

	lifecycle := &booking.DefaultLifecycleManager{
		Repo:     resRepo,
		Catalog:  catalog,
		Issuer:   sequence.NewIssuer(counter, logger.Named("sequence")),
		Calendar: availabilitySvc,
		Location: loc,
		Logger:   logger.Named("booking"),
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewAvailabilityHandler(availabilitySvc),
		handlers.NewReservationHandler(lifecycle),
		handlers.NewAdminHandler(lifecycle),
		handlers.HealthHandler,
	)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}
	if err := cacheClient.Close(); err != nil {
		logger.Warn("main: redis close failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// defaultAvailabilityConfig opens every day with the configured default hours.
func defaultAvailabilityConfig() models.AvailabilityConfig {
	hours := models.DayHours{Start: config.AppConfig.DefaultOpen, End: config.AppConfig.DefaultClose}
	cfg := models.AvailabilityConfig{
		SlotDurationMin: config.AppConfig.DefaultSlotDurationMin,
		OpeningHours:    make(map[string]models.DayHours, len(models.WeekdayNames)),
	}
	for _, day := range models.WeekdayNames {
		cfg.OpeningHours[day] = hours
	}
	return cfg
}
