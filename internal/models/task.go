package models

import "time"

type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(100);not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	Priority     TaskPriority `gorm:"type:varchar(10);not null" json:"priority"`
	DueDate      *time.Time   `gorm:"index" json:"due_date"`
	ReminderAt   *time.Time   `gorm:"index" json:"reminder_at"`
	CompletedAt  *time.Time   `json:"completed_at"`
	AssignedToID uint64       `gorm:"not null;index" json:"assigned_to_id"`
	ContactID    *uint64      `gorm:"index" json:"contact_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations are looked up by id on demand; nothing points back at Task.
	AssignedTo *User    `gorm:"foreignKey:AssignedToID;constraint:OnDelete:RESTRICT" json:"-"`
	Contact    *Contact `gorm:"foreignKey:ContactID;constraint:OnDelete:SET NULL" json:"-"`
}

// IsOverdue reports whether the task is past due at now and not completed.
// A task due exactly at now is not overdue.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TaskStatusCompleted
}
