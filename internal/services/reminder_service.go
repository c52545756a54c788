package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/repository"
)

// ReminderService finds tasks whose reminder time has come
type ReminderService struct {
	taskRepo repository.TaskRepository
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

// NewReminderService creates a new ReminderService. The first sweep covers
// reminders falling after the moment of construction.
func NewReminderService(taskRepo repository.TaskRepository, logger *slog.Logger) *ReminderService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &ReminderService{
		taskRepo: taskRepo,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	s.lastRun = s.now()
	return s
}

// DueReminders lists the user's open tasks whose reminder is at or before now
func (s *ReminderService) DueReminders(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListDueReminders(userID, s.now())
	if err != nil {
		return nil, storeError("list due reminders", err)
	}
	return tasks, nil
}

// Sweep logs every open task whose reminder fell in (lastRun, now] and
// advances lastRun. A failed sweep leaves lastRun untouched so the window
// is covered by the next one.
func (s *ReminderService) Sweep() ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	tasks, err := s.taskRepo.ListRemindersBetween(s.lastRun, now)
	if err != nil {
		return nil, storeError("sweep reminders", err)
	}

	for _, task := range tasks {
		s.logger.Info("task reminder due",
			slog.Uint64("task_id", task.ID),
			slog.Uint64("user_id", task.AssignedToID),
			slog.String("title", task.Title),
			slog.Time("reminder_at", *task.ReminderAt),
		)
	}

	s.lastRun = now
	return tasks, nil
}
