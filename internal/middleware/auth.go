package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/constants"
	apierrors "github.com/maoucrm/crm/internal/errors"
	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/services"
)

// UserLookup resolves the session's user on every request.
type UserLookup interface {
	GetUser(id uint64) (*models.User, error)
}

// RequireAuth checks if the user is authenticated via session. The account
// is re-read on each request, so a deactivated or removed user loses access
// immediately and the role always reflects the stored one.
func RequireAuth(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(constants.ContextKeyUserID).(uint64)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		user, err := users.GetUser(userID)
		if err != nil && !errors.Is(err, services.ErrNotFound) {
			_ = c.Error(err)
			apierrors.InternalError(c, "")
			return
		}
		if err != nil || !user.IsActive {
			session.Clear()
			session.Options(sessions.Options{Path: "/", MaxAge: -1})
			_ = session.Save()
			apierrors.Unauthorized(c, "")
			return
		}

		// Store user ID and role in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserRole, user.Role)
		c.Next()
	}
}

// RequireRole allows the request through only for the given role. It must
// run after RequireAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != role {
			apierrors.Forbidden(c, "")
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserRole retrieves the current user's role from context
func GetUserRole(c *gin.Context) string {
	return c.GetString(constants.ContextKeyUserRole)
}
