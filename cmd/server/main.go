package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/config"
	"github.com/maoucrm/crm/internal/database"
	"github.com/maoucrm/crm/internal/handlers"
	"github.com/maoucrm/crm/internal/logging"
	"github.com/maoucrm/crm/internal/middleware"
	"github.com/maoucrm/crm/internal/repository"
	"github.com/maoucrm/crm/internal/routes"
	"github.com/maoucrm/crm/internal/scheduler"
	"github.com/maoucrm/crm/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		fatal("Failed to connect to database", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		fatal("Failed to run migrations", err)
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, contactRepo, userRepo)
	reminderService := services.NewReminderService(taskRepo, logger)

	// Setup session middleware
	secret, err := middleware.SessionSecret(cfg)
	if err != nil {
		fatal("Failed to prepare session secret", err)
	}
	store, err := middleware.NewSessionStore(cfg, secret)
	if err != nil {
		fatal("Failed to create session store", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger), middleware.Sessions(store))

	routes.Register(r, authService, routes.Handlers{
		Health:    handlers.NewHealthHandler(db),
		Auth:      handlers.NewAuthHandler(authService),
		Contacts:  handlers.NewContactHandler(services.NewContactService(contactRepo, userRepo)),
		Tasks:     handlers.NewTaskHandler(taskService, reminderService),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(contactRepo, taskRepo)),
		Chat: handlers.NewChatHandler(
			services.NewSettingsService(repository.NewChatSettingsRepository(db)),
			services.NewChatService(nil),
			cfg.ChatTimeout,
		),
	})

	// Reminder sweep
	jobs := scheduler.New(time.UTC, logger)
	if cfg.ReminderInterval > 0 {
		if _, err := jobs.ScheduleInterval(cfg.ReminderInterval, func() {
			if _, err := reminderService.Sweep(); err != nil {
				logger.Error("reminder sweep failed", "error", err)
			}
		}); err != nil {
			fatal("Failed to schedule reminder sweep", err)
		}
	}
	jobs.Start()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	jobs.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
