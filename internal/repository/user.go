package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"driftline/internal/model"
)

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. The case-insensitive unique index on nickname
// turns registration races into model.ErrNicknameExists.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (nickname, password_hashed, first_name, last_name, birthday, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		u.Nickname,
		u.PasswordHashed,
		u.FirstName,
		u.LastName,
		u.Birthday,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrNicknameExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, nickname, password_hashed, first_name, last_name, birthday, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByNickname retrieves a user by nickname, case-insensitively.
func (r *userRepository) GetByNickname(ctx context.Context, nickname string) (*model.User, error) {
	query := `
		SELECT id, nickname, password_hashed, first_name, last_name, birthday, created_at, updated_at
		FROM users
		WHERE LOWER(nickname) = LOWER($1)
	`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, nickname)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by nickname: %w", err)
	}

	return &u, nil
}

// ExistsByNickname checks if a nickname is already taken (case-insensitive).
func (r *userRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(nickname) = LOWER($1))`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, nickname)
	if err != nil {
		return false, fmt.Errorf("failed to check nickname existence: %w", err)
	}

	return exists, nil
}

// Update rewrites the editable profile fields of the user row.
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, birthday = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Birthday,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.ErrUserNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// Delete removes the user row. Owned posts, comments, likes and follow
// edges must already be gone; the account-deletion transaction handles
// those first so surviving counters stay exact.
func (r *userRepository) Delete(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
