package user

import "errors"

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrUserDoesNotExist      = errors.New("user does not exist")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidSessionToken   = errors.New("invalid session token")
	ErrUserAlreadyVerified   = errors.New("user is already verified")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrCannotDeleteSelf      = errors.New("user cannot delete own account")
)
