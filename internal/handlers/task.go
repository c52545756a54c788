package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/dto"
	apierrors "github.com/maoucrm/crm/internal/errors"
	"github.com/maoucrm/crm/internal/middleware"
	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/services"
	"github.com/maoucrm/crm/internal/utils"
)

type TaskHandler struct {
	taskService     *services.TaskService
	reminderService *services.ReminderService
	now             func() time.Time
}

func NewTaskHandler(taskService *services.TaskService, reminderService *services.ReminderService) *TaskHandler {
	return &TaskHandler{
		taskService:     taskService,
		reminderService: reminderService,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// ListTasks returns the current user's tasks.
// Filters: status, priority, contact_id, overdue=true. Sorting by
// sort=due_date or sort=priority is applied to the returned rows.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{
		AssigneeID:  userID,
		OverdueOnly: c.Query("overdue") == "true",
	}

	if raw := c.Query("status"); raw != "" {
		status, err := parseStatus("status", raw)
		if err != nil {
			respondFieldError(c, err)
			return
		}
		input.Status = status
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := parsePriority("priority", raw)
		if err != nil {
			respondFieldError(c, err)
			return
		}
		input.Priority = priority
	}
	contactID, err := parseIDQuery(c, "contact_id")
	if err != nil {
		respondFieldError(c, err)
		return
	}
	input.ContactID = contactID

	sortBy := c.Query("sort")
	switch sortBy {
	case "", "due_date", "priority":
	default:
		apierrors.BadRequestWithDetails(c, "sort must be due_date or priority", gin.H{"field": "sort"})
		return
	}

	if params, ok := utils.GetPaginationParams(c); ok {
		input.Pagination = &params
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	sortTasks(tasks, sortBy)

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, total, input.Pagination, h.now()))
}

// ListDueReminders returns open tasks whose reminder time has passed
func (h *TaskHandler) ListDueReminders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.reminderService.DueReminders(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks, h.now())})
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, id, ok := ownerAndRecord(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.now()))
}

// CreateTask creates a task assigned to the current user.
// Status and priority default to To-do and Medium.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
		ReminderAt  *time.Time `json:"reminder_at"`
		ContactID   *uint64    `json:"contact_id"`
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		ReminderAt:  req.ReminderAt,
		ContactID:   req.ContactID,
	}
	if req.Status != "" {
		status, err := parseStatus("status", req.Status)
		if err != nil {
			respondFieldError(c, err)
			return
		}
		input.Status = *status
	}
	if req.Priority != "" {
		priority, err := parsePriority("priority", req.Priority)
		if err != nil {
			respondFieldError(c, err)
			return
		}
		input.Priority = *priority
	}

	task, err := h.taskService.CreateTask(userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, h.now()))
}

// UpdateTask applies the fields present in the body. An explicit null
// clears due_date, reminder_at or contact_id.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, id, ok := ownerAndRecord(c)
	if !ok {
		return
	}

	body, err := bindPatch(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := taskUpdateFromPatch(body)
	if err != nil {
		respondFieldError(c, err)
		return
	}

	task, err := h.taskService.UpdateTask(userID, id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, h.now()))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, id, ok := ownerAndRecord(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func taskUpdateFromPatch(body patchBody) (services.UpdateTaskInput, error) {
	var (
		input services.UpdateTaskInput
		err   error
	)

	if input.Title, err = body.String("title"); err != nil {
		return input, err
	}
	if input.Description, err = body.String("description"); err != nil {
		return input, err
	}
	if input.Status, err = body.Status("status"); err != nil {
		return input, err
	}
	if input.Priority, err = body.Priority("priority"); err != nil {
		return input, err
	}
	if input.DueDate, input.ClearDueDate, err = body.Time("due_date"); err != nil {
		return input, err
	}
	if input.ReminderAt, input.ClearReminder, err = body.Time("reminder_at"); err != nil {
		return input, err
	}
	if input.ContactID, input.ClearContact, err = body.ID("contact_id"); err != nil {
		return input, err
	}

	return input, nil
}

// sortTasks orders rows for display. Tasks without a due date sort last;
// priority sorts High first. Ties keep store order.
func sortTasks(tasks []models.Task, by string) {
	switch by {
	case "due_date":
		slices.SortStableFunc(tasks, func(a, b models.Task) int {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
				return 0
			case a.DueDate == nil:
				return 1
			case b.DueDate == nil:
				return -1
			}
			return a.DueDate.Compare(*b.DueDate)
		})
	case "priority":
		slices.SortStableFunc(tasks, func(a, b models.Task) int {
			return int(b.Priority) - int(a.Priority)
		})
	}
}
