// File: driveline/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"driveline/config"
	appcron "driveline/cron"
	"driveline/database"
	bookingRepo "driveline/database/repository/booking"
	directoryRepo "driveline/database/repository/directory"
	notificationRepo "driveline/database/repository/notification"
	"driveline/handlers"
	"driveline/routes"
	"driveline/services/booking"
	"driveline/services/notification"
	"driveline/services/orchestrator"
	"driveline/services/payout"
	"driveline/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitQueueClient()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// repositories.
	notifRepo := notificationRepo.NewMongoNotificationRepo()
	bookRepo := bookingRepo.NewMongoBookingRepo()

	directoryTTL := time.Duration(config.AppConfig.DirectoryCacheTTLHours) * time.Hour
	userDir := directoryRepo.NewCachedUserDirectory(
		directoryRepo.NewMongoUserDirectory(), utils.GetCacheClient(), directoryTTL,
	)
	fleetDir := directoryRepo.NewCachedFleetDirectory(
		directoryRepo.NewMongoFleetDirectory(), utils.GetCacheClient(), directoryTTL,
	)

	// services.
	notifier, err := notification.NewDefaultNotificationService(
		notifRepo,
		notification.NewHTTPEmailSender(),
		notification.NewHTTPSMSSender(),
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	payoutService := payout.NewStripePayoutService()
	payoutService.Events = &orchestrator.DefaultPayoutOrchestrator{
		Users:    userDir,
		Notifier: notifier,
		Currency: config.AppConfig.PayoutCurrency,
	}

	bookingOrchestrator := &orchestrator.DefaultBookingOrchestrator{
		Bookings: bookRepo,
		Users:    userDir,
		Fleet:    fleetDir,
		Notifier: notifier,
		Payouts:  payoutService,
	}

	accountOrchestrator := &orchestrator.DefaultAccountOrchestrator{
		Users:    userDir,
		Notifier: notifier,
	}

	legScanService := &booking.DefaultLegScanService{
		Repo:     bookRepo,
		Users:    userDir,
		Fleet:    fleetDir,
		Notifier: notifier,
		Window:   time.Duration(config.AppConfig.ReminderWindowMinutes) * time.Minute,
	}

	lifecycleService := &booking.DefaultLifecycleService{
		Repo:   bookRepo,
		Events: bookingOrchestrator,
	}

	// background machinery.
	worker := appcron.NewWorker(legScanService, lifecycleService, notifier, payoutService)
	if err := worker.Start(); err != nil {
		logger.Sugar().Fatalf("main: failed to start worker: %v", err)
	}

	scheduler := appcron.NewScheduler()
	if err := scheduler.Start(); err != nil {
		logger.Sugar().Fatalf("main: failed to start scheduler: %v", err)
	}

	// Register routes.
	opsHandler := handlers.NewOpsHandler(scheduler, appcron.NewStatsReader())
	eventsHandler := handlers.NewEventsHandler(bookingOrchestrator, accountOrchestrator)
	routes.RegisterRoutes(router, opsHandler, eventsHandler)

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

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	worker.Shutdown()

	logger.Sugar().Info("main: server stopped gracefully")
}
