package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/config"
	"github.com/maoucrm/crm/internal/constants"
	"github.com/maoucrm/crm/internal/utils"
)

const sessionMaxAge = 86400 * 7 // 7 days

// SessionSecret returns the configured secret, or a random one when none is
// set. A random secret invalidates every session on restart.
func SessionSecret(cfg *config.Config) ([]byte, error) {
	if cfg.SessionSecret != "" {
		return []byte(cfg.SessionSecret), nil
	}

	secret, err := utils.GenerateSecret(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	slog.Warn("SESSION_SECRET is not set, using a random secret")
	return []byte(secret), nil
}

// NewSessionStore keeps sessions in Redis when REDIS_HOST is set and in a
// signed cookie otherwise.
func NewSessionStore(cfg *config.Config, secret []byte) (sessions.Store, error) {
	var store sessions.Store

	if cfg.UsesRedisSessions() {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			redisAddr,
			"", // username (empty for default user)
			cfg.RedisPassword,
			secret,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	} else {
		store = cookie.NewStore(secret)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	})

	return store, nil
}

// Sessions installs the session middleware under the CRM cookie name
func Sessions(store sessions.Store) gin.HandlerFunc {
	return sessions.Sessions(constants.SessionCookieName, store)
}
