package application

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailExists          = errors.New("email already exists")
	ErrOldPasswordIncorrect = errors.New("old password is incorrect")
	ErrSamePassword         = errors.New("new password must differ from the old password")
	ErrResetTokenInvalid    = errors.New("reset token is invalid or expired")

	ErrNotFound         = errors.New("record not found")
	ErrInvalidReference = errors.New("referenced record does not exist or is deleted")
)
