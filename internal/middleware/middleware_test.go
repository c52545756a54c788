package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/config"
	"github.com/maoucrm/crm/internal/constants"
	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUsers map[uint64]*models.User

func (u stubUsers) GetUser(id uint64) (*models.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, services.ErrUserNotFound
}

type brokenUsers struct{}

func (brokenUsers) GetUser(uint64) (*models.User, error) {
	return nil, errors.New("database is locked")
}

// newSessionRouter returns a router with a /login route that stores the
// given user in the session.
func newSessionRouter(userID uint64, role string) *gin.Engine {
	r := gin.New()
	r.Use(Sessions(cookie.NewStore([]byte("secret"))))
	r.POST("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, userID)
		session.Set(constants.ContextKeyUserRole, role)
		if err := session.Save(); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func login(t *testing.T, r *gin.Engine) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

func TestRequireAuth(t *testing.T) {
	users := stubUsers{42: {ID: 42, Role: constants.RoleUser, IsActive: true}}
	r := newSessionRouter(42, constants.RoleAdmin)
	r.GET("/me", RequireAuth(users), func(c *gin.Context) {
		id, ok := GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": GetUserRole(c)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookies := login(t, r)
	w = get(r, "/me", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	// The stored role wins over the one captured at login.
	assert.JSONEq(t, `{"id":42,"role":"user"}`, w.Body.String())
}

func TestRequireAuth_RejectsUnusableAccounts(t *testing.T) {
	tests := []struct {
		name   string
		users  UserLookup
		status int
	}{
		{"inactive", stubUsers{7: {ID: 7, Role: constants.RoleUser, IsActive: false}}, http.StatusUnauthorized},
		{"removed", stubUsers{}, http.StatusUnauthorized},
		{"lookup failure", brokenUsers{}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newSessionRouter(7, constants.RoleUser)
			r.GET("/me", RequireAuth(tt.users), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := get(r, "/me", login(t, r))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func get(r *gin.Engine, url string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		role   string
		status int
	}{
		{constants.RoleAdmin, http.StatusOK},
		{constants.RoleUser, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			users := stubUsers{1: {ID: 1, Role: tt.role, IsActive: true}}
			r := newSessionRouter(1, tt.role)
			r.GET("/admin", RequireAuth(users), RequireRole(constants.RoleAdmin), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := get(r, "/admin", login(t, r))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  uint64
		ok    bool
	}{
		{"uint64", uint64(5), 5, true},
		{"uint", uint(6), 6, true},
		{"int", 7, 7, true},
		{"negative int", -1, 0, false},
		{"string", "8", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Set(constants.ContextKeyUserID, tt.value)

			got, ok := GetUserID(c)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireIDParam(t *testing.T) {
	r := gin.New()
	r.GET("/records/:id", RequireIDParam(), func(c *gin.Context) {
		id, ok := GetRecordID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for path, status := range map[string]int{
		"/records/12":  http.StatusOK,
		"/records/0":   http.StatusBadRequest,
		"/records/abc": http.StatusBadRequest,
		"/records/-3":  http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, status, w.Code, path)
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Contains(t, logs.String(), generated)
	assert.Contains(t, logs.String(), `"path":"/ping"`)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "caller-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "caller-id", w.Header().Get(RequestIDHeader))
}

func TestSessionStore(t *testing.T) {
	secret, err := SessionSecret(&config.Config{})
	require.NoError(t, err)
	assert.Len(t, secret, 64)

	secret, err = SessionSecret(&config.Config{SessionSecret: "fixed"})
	require.NoError(t, err)
	assert.Equal(t, []byte("fixed"), secret)

	store, err := NewSessionStore(&config.Config{}, secret)
	require.NoError(t, err)
	assert.NotNil(t, store)
}
