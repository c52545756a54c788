package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/config"
	"github.com/maoucrm/crm/internal/constants"
	"github.com/maoucrm/crm/internal/database"
	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/repository"
	"github.com/maoucrm/crm/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type handlerTestEnv struct {
	db        *gorm.DB
	auth      *services.AuthService
	contacts  *services.ContactService
	tasks     *services.TaskService
	reminders *services.ReminderService
	dashboard *services.DashboardService
	settings  *services.SettingsService
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(&config.Config{DBDriver: database.DriverSQLite, DBPath: ":memory:", DBLogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	return handlerTestEnv{
		db:        db,
		auth:      services.NewAuthService(userRepo),
		contacts:  services.NewContactService(contactRepo, userRepo),
		tasks:     services.NewTaskService(taskRepo, contactRepo, userRepo),
		reminders: services.NewReminderService(taskRepo, nil),
		dashboard: services.NewDashboardService(contactRepo, taskRepo),
		settings:  services.NewSettingsService(repository.NewChatSettingsRepository(db)),
	}
}

func (env handlerTestEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := env.auth.CreateUser(services.CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	return user
}

// asUser returns a router whose requests run as userID, standing in for
// RequireAuth.
func asUser(userID uint64) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	})
	return r
}

// sessionRouter returns a router with the cookie session middleware.
func sessionRouter() *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	return r
}

func doJSON(r http.Handler, method, url string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		var payload []byte
		switch b := body.(type) {
		case []byte:
			payload = b
		case string:
			payload = []byte(b)
		default:
			payload, _ = json.Marshal(b)
		}
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
