package constants

// Context keys set by the auth middleware
const (
	ContextKeyUserID      = "user_id"
	ContextKeyCurrentUser = "current_user"
	ContextKeyToken       = "auth_token"
	ContextKeyTask        = "task"
)

// Validation limits
const (
	MinPasswordLength      = 6
	VerificationCodeLength = 6
	MaxTitleLength         = 100
	MaxDescriptionLength   = 255
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
