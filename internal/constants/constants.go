package constants

const (
	// Session and context keys
	SessionCookieName   = "crm_session"
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
	ContextKeyRecordID  = "record_id"

	// Roles
	RoleAdmin = "admin"
	RoleUser  = "user"

	// Password policy
	MinPasswordLength = 4

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Dashboard
	RecentActivityLimit = 5

	// Chat defaults
	DefaultChatProvider = "OpenAI"
	DefaultChatModel    = "gpt-3.5-turbo"
	DefaultOllamaURL    = "http://localhost:11434"
	MaxChatMessageBytes = 16 * 1024
)
