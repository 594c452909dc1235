package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrPinAlreadyUsed         = errors.New("pin already assigned to another user")
	ErrSedeRequired           = errors.New("employees must be assigned to a sede")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrInsufficientPermission = errors.New("insufficient permissions")
	ErrCannotDeleteSelf       = errors.New("you cannot delete your own account")
)
