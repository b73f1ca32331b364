package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash, never the plain text.
// ResetPasswordToken and ResetPasswordExpires are both set or both nil;
// an expired token is treated as absent.
type User struct {
	ID                   string
	Email                string
	Password             string
	FullName             string
	ProfileImage         string // relative asset path, "" when unset
	ResetPasswordToken   *string
	ResetPasswordExpires *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
