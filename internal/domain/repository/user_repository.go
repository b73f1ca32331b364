package repository

import (
	"context"
	"time"

	"go-commerce-api/internal/domain/entity"
)

// UserUpdate is a partial update: nil fields retain their prior value.
type UserUpdate struct {
	FullName     *string
	Email        *string
	ProfileImage *string
}

// UserRepository defines the persistence contract for users. Users are never
// physically deleted.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id string, in UserUpdate) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetResetToken overwrites any pending reset token.
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	// GetByResetToken resolves a user whose stored token matches and whose
	// expiry is strictly after now.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error)
	ClearResetToken(ctx context.Context, id string) error
}
