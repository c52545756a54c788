package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/maoucrm/crm/internal/dto"
	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler_GetDashboard(t *testing.T) {
	env := setupHandlerTestEnv(t)
	admin := env.createUser(t, "admin")
	other := env.createUser(t, "other")

	for _, name := range [][2]string{{"Ann", "Lee"}, {"Bo", "Kim"}} {
		_, err := env.contacts.CreateContact(admin.ID, services.ContactInput{FirstName: name[0], LastName: name[1]})
		require.NoError(t, err)
	}
	_, err := env.contacts.CreateContact(other.ID, services.ContactInput{FirstName: "Cy", LastName: "Diaz"})
	require.NoError(t, err)

	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	_, err = env.tasks.CreateTask(admin.ID, services.CreateTaskInput{Title: "Follow up", DueDate: &yesterday})
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(admin.ID, services.CreateTaskInput{Title: "Done", Status: models.TaskStatusCompleted})
	require.NoError(t, err)

	r := asUser(admin.ID)
	r.GET("/api/dashboard", NewDashboardHandler(env.dashboard).GetDashboard)

	w := doJSON(r, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.DashboardDTO
	decode(t, w, &response)
	assert.Equal(t, int64(2), response.ContactCount)
	assert.Equal(t, int64(1), response.ActiveTaskCount)
	assert.Equal(t, int64(1), response.OverdueTaskCount)
	assert.Len(t, response.RecentTasks, 2)
}

func TestHealthHandler(t *testing.T) {
	env := setupHandlerTestEnv(t)
	handler := NewHealthHandler(env.db)

	r := asUser(0)
	r.GET("/health", handler.Health)

	w := doJSON(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
