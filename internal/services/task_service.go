package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/repository"
	"github.com/maoucrm/crm/internal/utils"
	"gorm.io/gorm"
)

const maxTitleLength = 100

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	contactRepo repository.ContactRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, contactRepo repository.ContactRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		contactRepo: contactRepo,
		userRepo:    userRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	AssigneeID  uint64
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	ContactID   *uint64
	OverdueOnly bool
	Pagination  *utils.PaginationParams
}

// CreateTaskInput represents input for creating a task.
// Zero Status and Priority mean To-do and Medium.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	ReminderAt  *time.Time
	ContactID   *uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	ReminderAt    *time.Time
	ClearReminder bool
	ContactID     *uint64
	ClearContact  bool
}

// ListTasks returns the assignee's tasks in insertion order, each with its
// linked contact loaded.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, invalid("status", models.ErrUnknownTaskStatus.Error())
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, 0, invalid("priority", models.ErrUnknownTaskPriority.Error())
	}

	filter := repository.TaskFilter{
		AssigneeID: input.AssigneeID,
		Status:     input.Status,
		Priority:   input.Priority,
		ContactID:  input.ContactID,
		Preload:    []string{"Contact"},
		Pagination: input.Pagination,
	}
	if input.OverdueOnly {
		now := s.now()
		filter.OverdueAt = &now
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, storeError("list tasks", err)
	}

	return tasks, total, nil
}

// GetTask returns one of the assignee's tasks with its linked contact
func (s *TaskService) GetTask(assigneeID, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(assigneeID, id, "Contact")
	if err != nil {
		return nil, lookupError("find task", err, ErrTaskNotFound)
	}
	return task, nil
}

// CreateTask validates and stores a new task assigned to assigneeID
func (s *TaskService) CreateTask(assigneeID uint64, input CreateTaskInput) (*models.Task, error) {
	if input.Status == 0 {
		input.Status = models.TaskStatusTodo
	}
	if input.Priority == 0 {
		input.Priority = models.TaskPriorityMedium
	}

	task := &models.Task{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Status:       input.Status,
		Priority:     input.Priority,
		DueDate:      utcPtr(input.DueDate),
		ReminderAt:   utcPtr(input.ReminderAt),
		AssignedToID: assigneeID,
		ContactID:    input.ContactID,
	}

	if err := validateTask(task); err != nil {
		return nil, err
	}
	if err := s.ensureAssignee(assigneeID); err != nil {
		return nil, err
	}
	if err := s.ensureContact(assigneeID, task.ContactID); err != nil {
		return nil, err
	}

	if task.Status == models.TaskStatusCompleted {
		now := s.now()
		task.CompletedAt = &now
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, storeError("create task", err)
	}

	return s.GetTask(assigneeID, task.ID)
}

// UpdateTask applies a partial update. Moving into Completed stamps the
// completion time and moving out of it clears the stamp.
func (s *TaskService) UpdateTask(assigneeID, id uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(assigneeID, id)
	if err != nil {
		return nil, lookupError("find task", err, ErrTaskNotFound)
	}

	previous := task.Status

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = utcPtr(input.DueDate)
	}
	if input.ClearReminder {
		task.ReminderAt = nil
	} else if input.ReminderAt != nil {
		task.ReminderAt = utcPtr(input.ReminderAt)
	}

	contactChanged := false
	if input.ClearContact {
		task.ContactID = nil
	} else if input.ContactID != nil {
		task.ContactID = input.ContactID
		contactChanged = true
	}

	if err := validateTask(task); err != nil {
		return nil, err
	}
	if contactChanged {
		if err := s.ensureContact(assigneeID, task.ContactID); err != nil {
			return nil, err
		}
	}

	switch {
	case task.Status == models.TaskStatusCompleted && previous != models.TaskStatusCompleted:
		now := s.now()
		task.CompletedAt = &now
	case task.Status != models.TaskStatusCompleted:
		task.CompletedAt = nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, storeError("update task", err)
	}

	return s.GetTask(assigneeID, task.ID)
}

// DeleteTask deletes one of the assignee's tasks
func (s *TaskService) DeleteTask(assigneeID, id uint64) error {
	if err := s.taskRepo.Delete(assigneeID, id); err != nil {
		return lookupError("delete task", err, ErrTaskNotFound)
	}
	return nil
}

func (s *TaskService) ensureAssignee(assigneeID uint64) error {
	if _, err := s.userRepo.FindByID(assigneeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("assigned_to_id", "does not reference an existing user")
		}
		return storeError("find assignee", err)
	}
	return nil
}

// ensureContact checks that a linked contact exists and belongs to the
// same user.
func (s *TaskService) ensureContact(ownerID uint64, contactID *uint64) error {
	if contactID == nil {
		return nil
	}
	if _, err := s.contactRepo.FindByID(ownerID, *contactID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invalid("contact_id", "does not reference an existing contact")
		}
		return storeError("find contact", err)
	}
	return nil
}

func validateTask(t *models.Task) error {
	switch {
	case t.Title == "":
		return invalid("title", "is required")
	case len(t.Title) > maxTitleLength:
		return invalid("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	case !t.Status.Valid():
		return invalid("status", models.ErrUnknownTaskStatus.Error())
	case !t.Priority.Valid():
		return invalid("priority", models.ErrUnknownTaskPriority.Error())
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
