// File: slotbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"slotbook/config"
	"slotbook/database"
	catalogRepoPkg "slotbook/database/repository/catalog"
	guestRepoPkg "slotbook/database/repository/guest"
	reservationRepoPkg "slotbook/database/repository/reservation"
	userRepoPkg "slotbook/database/repository/user"
	"slotbook/handlers"
	"slotbook/middleware"
	"slotbook/routes"
	catalogSvc "slotbook/services/catalog"
	reservationSvc "slotbook/services/reservation"
	userSvc "slotbook/services/user"
	"slotbook/services/wizard"
	"slotbook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo()
	reservationRepo := reservationRepoPkg.NewMongoReservationRepo()
	guestRepo := guestRepoPkg.NewMongoGuestRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	for name, ensure := range map[string]func() error{
		"catalog":     catalogRepo.EnsureIndexes,
		"reservation": reservationRepo.EnsureIndexes,
		"guest":       guestRepo.EnsureIndexes,
		"user":        userRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// services.
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	sessionStore := wizard.NewRedisSessionStore(utils.GetSessionCacheClient(), sessionTTL)

	wizardService := &wizard.DefaultWizardService{
		Sessions:     sessionStore,
		Catalog:      catalogRepo,
		Reservations: reservationRepo,
		Guests:       guestRepo,
		Availability: &wizard.AvailabilityResolver{
			Catalog:      catalogRepo,
			Reservations: reservationRepo,
		},
		Committer:   &wizard.Committer{Reservations: reservationRepo},
		HorizonDays: config.AppConfig.BookingHorizonDays,
	}

	catalogService := catalogSvc.NewCatalogService(catalogRepo, reservationRepo)

	reservationService := &reservationSvc.DefaultReservationService{
		Reservations: reservationRepo,
		Catalog:      catalogRepo,
		Users:        userRepo,
		Guests:       guestRepo,
	}

	userService := userSvc.NewUserService(userRepo)

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(wizardService, catalogService, reservationService, userService)
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(utils.GetSessionCacheClient(), database.MongoClient)

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

	logger.Sugar().Info("main: server stopped gracefully")
}
