package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/danutama/loan-tracker/internal/domain"
)

const pqUniqueViolation = "23505"

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) GetByEmailAndRole(ctx context.Context, email, role string) (*domain.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1 AND role = $2
	`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, email, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) UpsertAdmin(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var admin domain.User
	err = tx.GetContext(ctx, &admin, `
		SELECT id, name, email, password_hash, role, created_at
		FROM users
		WHERE role = $1
		LIMIT 1
	`, domain.RoleAdmin)

	switch {
	case err == nil:
		admin.Email = email
		admin.PasswordHash = passwordHash
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET email = $2, password_hash = $3 WHERE id = $1
		`, admin.ID, email, passwordHash)
		if err != nil {
			return nil, err
		}

	case errors.Is(err, sql.ErrNoRows):
		admin = domain.User{
			ID:           uuid.New(),
			Name:         name,
			Email:        email,
			PasswordHash: passwordHash,
			Role:         domain.RoleAdmin,
		}
		err = tx.GetContext(ctx, &admin.CreatedAt, `
			INSERT INTO users (id, name, email, password_hash, role)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`, admin.ID, admin.Name, admin.Email, admin.PasswordHash, admin.Role)
		if err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &admin, nil
}
