package services

import (
	"time"

	"github.com/maoucrm/crm/internal/constants"
	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/repository"
)

// DashboardService computes per-user statistics. Every count is queried at
// call time.
type DashboardService struct {
	contactRepo repository.ContactRepository
	taskRepo    repository.TaskRepository
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(contactRepo repository.ContactRepository, taskRepo repository.TaskRepository) *DashboardService {
	return &DashboardService{
		contactRepo: contactRepo,
		taskRepo:    taskRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// DashboardSummary is the dashboard view data
type DashboardSummary struct {
	ContactCount     int64
	ActiveTaskCount  int64
	OverdueTaskCount int64
	RecentTasks      []models.Task
	GeneratedAt      time.Time
}

// ContactCount counts the contacts owned by userID
func (s *DashboardService) ContactCount(userID uint64) (int64, error) {
	count, err := s.contactRepo.CountByOwner(userID)
	if err != nil {
		return 0, storeError("count contacts", err)
	}
	return count, nil
}

// ActiveTaskCount counts the user's tasks that are not Completed
func (s *DashboardService) ActiveTaskCount(userID uint64) (int64, error) {
	count, err := s.taskRepo.CountActive(userID)
	if err != nil {
		return 0, storeError("count active tasks", err)
	}
	return count, nil
}

// OverdueTaskCount counts the user's tasks due strictly before now that are
// not Completed
func (s *DashboardService) OverdueTaskCount(userID uint64) (int64, error) {
	count, err := s.taskRepo.CountOverdue(userID, s.now())
	if err != nil {
		return 0, storeError("count overdue tasks", err)
	}
	return count, nil
}

// Summary gathers the three counts and the most recently updated tasks
func (s *DashboardService) Summary(userID uint64) (*DashboardSummary, error) {
	contacts, err := s.ContactCount(userID)
	if err != nil {
		return nil, err
	}
	active, err := s.ActiveTaskCount(userID)
	if err != nil {
		return nil, err
	}
	overdue, err := s.OverdueTaskCount(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.taskRepo.ListRecentlyUpdated(userID, constants.RecentActivityLimit)
	if err != nil {
		return nil, storeError("list recent tasks", err)
	}

	return &DashboardSummary{
		ContactCount:     contacts,
		ActiveTaskCount:  active,
		OverdueTaskCount: overdue,
		RecentTasks:      recent,
		GeneratedAt:      s.now(),
	}, nil
}
