package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/constants"
	"github.com/maoucrm/crm/internal/handlers"
	"github.com/maoucrm/crm/internal/middleware"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Contacts  *handlers.ContactHandler
	Tasks     *handlers.TaskHandler
	Dashboard *handlers.DashboardHandler
	Chat      *handlers.ChatHandler
}

// Register mounts the API on r. Global middleware (request id, logging,
// sessions) is expected to be installed by the caller. users backs the
// per-request account check of protected routes.
func Register(r *gin.Engine, users middleware.UserLookup, h Handlers) {
	requireAuth := middleware.RequireAuth(users)

	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", requireAuth, h.Auth.GetCurrentUser)
			auth.PUT("/password", requireAuth, h.Auth.ChangePassword)
		}

		admin := api.Group("/admin")
		admin.Use(requireAuth, middleware.RequireRole(constants.RoleAdmin))
		{
			admin.GET("/users", h.Auth.ListUsers)
			admin.POST("/users", h.Auth.CreateUser)
			admin.PATCH("/users/:id", middleware.RequireIDParam(), h.Auth.SetUserActive)
		}

		contacts := api.Group("/contacts")
		contacts.Use(requireAuth)
		{
			contacts.GET("", h.Contacts.ListContacts)
			contacts.POST("", h.Contacts.CreateContact)
			contacts.GET("/:id", middleware.RequireIDParam(), h.Contacts.GetContact)
			contacts.PATCH("/:id", middleware.RequireIDParam(), h.Contacts.UpdateContact)
			contacts.DELETE("/:id", middleware.RequireIDParam(), h.Contacts.DeleteContact)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", h.Tasks.ListTasks)
			tasks.POST("", h.Tasks.CreateTask)
			tasks.GET("/reminders", h.Tasks.ListDueReminders)
			tasks.GET("/:id", middleware.RequireIDParam(), h.Tasks.GetTask)
			tasks.PATCH("/:id", middleware.RequireIDParam(), h.Tasks.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireIDParam(), h.Tasks.DeleteTask)
		}

		api.GET("/dashboard", requireAuth, h.Dashboard.GetDashboard)

		chat := api.Group("/chat")
		chat.Use(requireAuth)
		{
			chat.POST("", h.Chat.Chat)
			chat.GET("/providers", h.Chat.ListProviders)
			chat.GET("/settings", h.Chat.GetSettings)
			chat.PUT("/settings", h.Chat.UpdateSettings)
		}
	}
}
