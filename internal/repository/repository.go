package repository

import (
	"time"

	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by exact username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by exact email
	FindByEmail(email string) (*models.User, error)

	// List returns every user ordered by ID
	List() ([]models.User, error)

	// Update saves all user fields
	Update(user *models.User) error

	// UpdateLastLogin stamps the last-login time without touching other fields
	UpdateLastLogin(id uint64, at time.Time) error
}

// ContactRepository defines the interface for contact data access.
// Every lookup is scoped to the owning user.
type ContactRepository interface {
	Create(contact *models.Contact) error
	FindByID(ownerID, id uint64) (*models.Contact, error)
	List(filter ContactFilter) ([]models.Contact, int64, error)
	Update(contact *models.Contact) error

	// Delete removes the contact and clears the contact reference of any
	// task pointing at it, in one transaction.
	Delete(ownerID, id uint64) error

	CountByOwner(ownerID uint64) (int64, error)
}

// ContactFilter holds options for listing contacts
type ContactFilter struct {
	OwnerID    uint64
	Pagination *utils.PaginationParams
}

// TaskRepository defines the interface for task data access.
// Every lookup is scoped to the assigned user.
type TaskRepository interface {
	Create(task *models.Task) error
	FindByID(assigneeID, id uint64, preload ...string) (*models.Task, error)
	List(filter TaskFilter) ([]models.Task, int64, error)
	Update(task *models.Task) error
	Delete(assigneeID, id uint64) error

	// CountByAssignee counts every task assigned to the user
	CountByAssignee(assigneeID uint64) (int64, error)

	// CountActive counts tasks whose status is not Completed
	CountActive(assigneeID uint64) (int64, error)

	// CountOverdue counts tasks due strictly before now whose status is not Completed
	CountOverdue(assigneeID uint64, now time.Time) (int64, error)

	// ListRecentlyUpdated returns the most recently updated tasks
	ListRecentlyUpdated(assigneeID uint64, limit int) ([]models.Task, error)

	// ListDueReminders returns open tasks whose reminder is at or before now
	ListDueReminders(assigneeID uint64, now time.Time) ([]models.Task, error)

	// ListRemindersBetween returns open tasks of every user whose reminder
	// falls in (from, to]
	ListRemindersBetween(from, to time.Time) ([]models.Task, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	AssigneeID uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	ContactID  *uint64
	OverdueAt  *time.Time
	Preload    []string
	Pagination *utils.PaginationParams
}

// ChatSettingsRepository defines the interface for per-user chat settings
type ChatSettingsRepository interface {
	Find(userID uint64) (*models.ChatSettings, error)
	Upsert(settings *models.ChatSettings) error
}
