package session

import "errors"

var (
	ErrInvalidToken           = errors.New("Invalid or missing token")
	ErrAdminPrivilegeRequired = errors.New("Admin privilege required")
	ErrNoActiveSession        = errors.New("No active session")
)
