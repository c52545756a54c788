package models

import "time"

// Contact is a person record owned by exactly one user.
type Contact struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	FirstName string    `gorm:"type:varchar(50);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(50);not null" json:"last_name"`
	Email     string    `gorm:"type:varchar(120)" json:"email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Company   string    `gorm:"type:varchar(100)" json:"company"`
	Position  string    `gorm:"type:varchar(100)" json:"position"`
	Address   string    `gorm:"type:text" json:"address"`
	Notes     string    `gorm:"type:text" json:"notes"`
	OwnerID   uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Owner exists only so migrations emit contacts.owner_id -> users.id.
	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" json:"-"`
}

// FullName is derived on every call and never stored.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}
