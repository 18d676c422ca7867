package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrSuperAdminRequired      = errors.New("super admin access required")
)
