package newspilot

import "errors"

// Errors surfaced to callers. Authentication and permission failures carry a
// specific reason so the presentation layer never has to show a generic
// "error" message.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountInactive    = errors.New("account is not active, contact administrator")
	ErrAccountExpired     = errors.New("account has expired, contact administrator")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrNothingSelected    = errors.New("no articles selected")
	ErrTenantExists       = errors.New("tenant already exists")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("not found")
)
