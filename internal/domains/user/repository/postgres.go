package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"medlink-backend/internal/domains/user"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresUserRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresUserRepository{pool: pool}
}

func (r *postgresUserRepository) ExistsByEmailAndRole(ctx context.Context, email string, role user.Role) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND role = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email, role).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

func (r *postgresUserRepository) FindByEmailAndRole(ctx context.Context, email string, role user.Role) (*user.User, error) {
	query := `
		SELECT id, email, role, password, full_name, created_at, updated_at
		FROM users
		WHERE email = $1 AND role = $2
	`

	u := &user.User{}
	err := r.pool.QueryRow(ctx, query, email, role).Scan(
		&u.ID, &u.Email, &u.Role, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email and role: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `
		SELECT id, email, role, password, full_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	u := &user.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Role, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, role, password, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Email, u.Role, u.PasswordHash, u.FullName, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		// unique constraint on (email, role)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) SetPassword(ctx context.Context, email string, role user.Role, passwordHash string) error {
	query := `
		UPDATE users
		SET password = $3, updated_at = NOW()
		WHERE email = $1 AND role = $2
	`

	tag, err := r.pool.Exec(ctx, query, email, role, passwordHash)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
