package repository

import (
	"time"

	"github.com/maoucrm/crm/internal/database"
	"github.com/maoucrm/crm/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task assigned to assigneeID with optional preloading
func (r *GormTaskRepository) FindByID(assigneeID, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Scopes(database.OwnedBy("assigned_to_id", assigneeID))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves the assignee's tasks in insertion order
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Scopes(database.OwnedBy("assigned_to_id", filter.AssigneeID))

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.ContactID != nil {
		query = query.Where("contact_id = ?", *filter.ContactID)
	}
	if filter.OverdueAt != nil {
		query = query.Scopes(overdueAt(*filter.OverdueAt))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("id ASC")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}
	for _, p := range filter.Preload {
		listQuery = listQuery.Preload(p)
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update saves a task. The assignee and creation time are never rewritten.
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit("assigned_to_id", "created_at", clause.Associations).Save(task).Error
}

// Delete removes a task assigned to assigneeID
func (r *GormTaskRepository) Delete(assigneeID, id uint64) error {
	result := r.db.Scopes(database.OwnedBy("assigned_to_id", assigneeID)).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormTaskRepository) CountByAssignee(assigneeID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Scopes(database.OwnedBy("assigned_to_id", assigneeID)).
		Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) CountActive(assigneeID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Scopes(database.OwnedBy("assigned_to_id", assigneeID)).
		Where("status <> ?", models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) CountOverdue(assigneeID uint64, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Scopes(database.OwnedBy("assigned_to_id", assigneeID), overdueAt(now)).
		Count(&count).Error
	return count, err
}

func (r *GormTaskRepository) ListRecentlyUpdated(assigneeID uint64, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Scopes(database.OwnedBy("assigned_to_id", assigneeID)).
		Preload("Contact").
		Order("updated_at DESC, id DESC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *GormTaskRepository) ListDueReminders(assigneeID uint64, now time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Scopes(database.OwnedBy("assigned_to_id", assigneeID), openTasks).
		Where("reminder_at IS NOT NULL AND reminder_at <= ?", now).
		Order("reminder_at ASC, id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *GormTaskRepository) ListRemindersBetween(from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Scopes(openTasks).
		Where("reminder_at > ? AND reminder_at <= ?", from, to).
		Order("reminder_at ASC, id ASC").
		Find(&tasks).Error
	return tasks, err
}

// overdueAt matches tasks due strictly before now that are not completed.
func overdueAt(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("due_date IS NOT NULL AND due_date < ?", now).
			Where("status <> ?", models.TaskStatusCompleted)
	}
}

func openTasks(db *gorm.DB) *gorm.DB {
	return db.Where("status <> ? AND status <> ?", models.TaskStatusCompleted, models.TaskStatusCancelled)
}
