package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-commerce-api/internal/domain/entity"
	"go-commerce-api/internal/domain/repository"
)

const userColumns = `id, email, password_hash, full_name, profile_image,
	reset_password_token, reset_password_expires, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &u.ProfileImage,
		&u.ResetPasswordToken, &u.ResetPasswordExpires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, profile_image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Email, u.Password, u.FullName, u.ProfileImage)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) Update(ctx context.Context, id string, in repository.UserUpdate) (*entity.User, error) {
	var set setClause
	if in.FullName != nil {
		set.add("full_name", *in.FullName)
	}
	if in.Email != nil {
		set.add("email", *in.Email)
	}
	if in.ProfileImage != nil {
		set.add("profile_image", *in.ProfileImage)
	}
	if set.empty() {
		return r.GetByID(ctx, id)
	}
	set.args = append(set.args, id)
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET `+strings.Join(set.cols, ", ")+`, updated_at = now()
		WHERE id = $`+itoa(len(set.args))+`
		RETURNING `+userColumns, set.args...))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_password_token = $1, reset_password_expires = $2, updated_at = now()
		WHERE id = $3
	`, token, expires, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE reset_password_token = $1 AND reset_password_expires > $2
	`, token, now))
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_password_token = NULL, reset_password_expires = NULL, updated_at = now()
		WHERE id = $1
	`, id)
	return mapError(err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
