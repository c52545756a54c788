package repository

import (
	"github.com/maoucrm/crm/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormChatSettingsRepository is a GORM implementation of ChatSettingsRepository
type GormChatSettingsRepository struct {
	db *gorm.DB
}

func NewChatSettingsRepository(db *gorm.DB) ChatSettingsRepository {
	return &GormChatSettingsRepository{db: db}
}

func (r *GormChatSettingsRepository) Find(userID uint64) (*models.ChatSettings, error) {
	var settings models.ChatSettings
	if err := r.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes the whole settings document for a user
func (r *GormChatSettingsRepository) Upsert(settings *models.ChatSettings) error {
	return r.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(settings).Error
}
