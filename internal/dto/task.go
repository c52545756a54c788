package dto

import (
	"time"

	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/utils"
)

// TaskDTO represents a task in API responses. Status and priority render
// as their display strings.
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Status       models.TaskStatus   `json:"status"`
	Priority     models.TaskPriority `json:"priority"`
	DueDate      *time.Time          `json:"due_date"`
	ReminderAt   *time.Time          `json:"reminder_at"`
	CompletedAt  *time.Time          `json:"completed_at"`
	Overdue      bool                `json:"overdue"`
	AssignedToID uint64              `json:"assigned_to_id"`
	ContactID    *uint64             `json:"contact_id"`
	ContactName  string              `json:"contact_name,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TaskListResponse represents a list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                 `json:"tasks"`
	Total      int64                     `json:"total"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO, evaluating overdue at now
func ToTaskDTO(task models.Task, now time.Time) TaskDTO {
	dto := TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		ReminderAt:   task.ReminderAt,
		CompletedAt:  task.CompletedAt,
		Overdue:      task.IsOverdue(now),
		AssignedToID: task.AssignedToID,
		ContactID:    task.ContactID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}

	// Include contact name if preloaded
	if task.Contact != nil {
		dto.ContactName = task.Contact.FullName()
	}

	return dto
}

func ToTaskDTOs(tasks []models.Task, now time.Time) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, now)
	}
	return items
}

func ToTaskListResponse(tasks []models.Task, total int64, pagination *utils.PaginationParams, now time.Time) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks, now),
		Total:      total,
		Pagination: paginationResponse(pagination, total),
	}
}
