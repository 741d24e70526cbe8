package types

const (
	ErrInvalidInput  = "Invalid input"
	ErrDatabaseError = "Database error"
	ErrUnauthorized  = "Unauthorized access"
	ErrForbidden     = "Insufficient permissions"
	ErrNotFound      = "Not found"
	ErrInternalError = "internal server error"
)
