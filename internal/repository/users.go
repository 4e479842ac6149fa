package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	args := []any{user.ID, user.Email, user.PasswordHash}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.CreatedAt); err != nil {
		return translateError(err)
	}

	return nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, password_hash, created_at FROM users WHERE email = $1
	`

	user := &domain.User{
		Email: email,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT email, password_hash, created_at FROM users WHERE id = $1
	`

	user := &domain.User{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&user.Email, &user.PasswordHash, &user.CreatedAt); err != nil {
		return nil, err
	}

	return user, nil
}
