// File: app/app.go
package app

import (
	"context"
	"go-shop-api/config"
	"go-shop-api/db"
	"go-shop-api/handler"
	"go-shop-api/logger"
	"go-shop-api/repository"
	"go-shop-api/router"
	"go-shop-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReaperInterval = 10 * time.Minute
	defaultReaperGrace    = 10 * time.Minute
)

func reaperSettings() (interval, grace time.Duration) {
	interval, grace = defaultReaperInterval, defaultReaperGrace
	if m := config.AppConfig.Reaper.IntervalMinutes; m > 0 {
		interval = time.Duration(m) * time.Minute
	}
	if m := config.AppConfig.Reaper.GraceMinutes; m > 0 {
		grace = time.Duration(m) * time.Minute
	}
	return interval, grace
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---

	userRepo := repository.NewUserRepository(database)
	authService := service.NewAuthService(userRepo)
	mailer := service.NewSMTPMailer()
	googleVerifier := service.NewGoogleVerifier()
	userService := service.NewUserService(userRepo, authService, mailer, googleVerifier)
	userHandler := handler.NewUserHandler(userService, authService)

	itemRepo := repository.NewItemRepository(database)
	itemService := service.NewItemService(itemRepo, redisClient)
	itemHandler := handler.NewItemHandler(itemService)

	session := handler.NewSessionMiddleware(userRepo, authService)

	r := router.NewRouter(userHandler, itemHandler, session)

	// --- Background Account Reaper ---
	reaperCtx, stopReaper := context.WithCancel(context.Background())
	interval, grace := reaperSettings()
	reaper := service.NewReaper(userRepo, interval, grace)
	go reaper.Run(reaperCtx)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")
	stopReaper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
