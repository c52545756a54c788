package services

import (
	"testing"
	"time"

	"github.com/maoucrm/crm/internal/config"
	"github.com/maoucrm/crm/internal/database"
	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.Config{DBDriver: database.DriverSQLite, DBPath: ":memory:", DBLogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// createTestUser inserts a user directly, skipping the password hash cost.
func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         "user",
		IsActive:     true,
	}
	require.NoError(t, repository.NewUserRepository(db).Create(user))
	return user
}

// fixedClock returns a clock that reads whatever *now holds.
func fixedClock(now *time.Time) func() time.Time {
	return func() time.Time { return *now }
}
