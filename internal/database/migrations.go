package database

import (
	"fmt"
	"log/slog"

	"github.com/maoucrm/crm/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes behind owner-scoped listing and the
// dashboard counts. Existing indexes are left alone.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		{&models.Contact{}, "contacts", "idx_contacts_owner_name", "owner_id, last_name, first_name"},
		{&models.Task{}, "tasks", "idx_tasks_assignee_status", "assigned_to_id, status"},
		{&models.Task{}, "tasks", "idx_tasks_assignee_due", "assigned_to_id, due_date"},
		{&models.Task{}, "tasks", "idx_tasks_reminder_status", "reminder_at, status"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			slog.Debug("index already exists, skipping", "index", idx.name)
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Debug("created index", "index", idx.name, "table", idx.table, "columns", idx.columns)
	}

	return nil
}
