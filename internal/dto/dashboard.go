package dto

import (
	"time"

	"github.com/maoucrm/crm/internal/services"
)

// DashboardDTO represents the dashboard counts and recent activity
type DashboardDTO struct {
	ContactCount     int64     `json:"contact_count"`
	ActiveTaskCount  int64     `json:"active_task_count"`
	OverdueTaskCount int64     `json:"overdue_task_count"`
	RecentTasks      []TaskDTO `json:"recent_tasks"`
	GeneratedAt      time.Time `json:"generated_at"`
}

func ToDashboardDTO(summary services.DashboardSummary) DashboardDTO {
	return DashboardDTO{
		ContactCount:     summary.ContactCount,
		ActiveTaskCount:  summary.ActiveTaskCount,
		OverdueTaskCount: summary.OverdueTaskCount,
		RecentTasks:      ToTaskDTOs(summary.RecentTasks, summary.GeneratedAt),
		GeneratedAt:      summary.GeneratedAt,
	}
}
