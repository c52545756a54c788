package main

import (
	"log/slog"
	"os"

	"github.com/maoucrm/crm/internal/config"
	"github.com/maoucrm/crm/internal/database"
	"github.com/maoucrm/crm/internal/logging"
	"github.com/maoucrm/crm/internal/repository"
	"github.com/maoucrm/crm/internal/services"
)

// initdb creates the schema and the default admin account. Running it
// again leaves existing data alone.
func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := database.Connect(cfg); err != nil {
		fatal("Failed to connect to database", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		fatal("Failed to run migrations", err)
	}

	auth := services.NewAuthService(repository.NewUserRepository(database.GetDB()))
	created, err := auth.EnsureAdmin(services.EnsureAdminInput{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		fatal("Failed to create admin account", err)
	}

	if created {
		logger.Info("Admin account created", "username", cfg.AdminUsername)
	} else {
		logger.Info("Admin account already exists", "username", cfg.AdminUsername)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
