package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChatSettings is a per-user flat key-value document (provider, model,
// api_key) for the chat assistant.
type ChatSettings struct {
	UserID    uint64            `gorm:"primarykey;autoIncrement:false" json:"user_id"`
	Document  datatypes.JSONMap `gorm:"not null" json:"document"`
	UpdatedAt time.Time         `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
