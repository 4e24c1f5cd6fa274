// Package repository provides the PostgreSQL persistence for user accounts
// and synchronized collections.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/atinyakov/shipdash/internal/models"
)

var (
	// ErrNotFound is returned when no active row matches.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("conflict")
)

const uniqueViolation = "23505"

func mapConstraintErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrConflict
	}
	return err
}

// PostgresUserRepository stores user accounts in the users table.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetByUsername looks up an active user, comparing usernames case-insensitively.
// It returns ErrNotFound if there is no such user.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role FROM users
		WHERE lower(username) = lower($1) AND deleted_at IS NULL
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUsername: %w", err)
	}
	return &u, nil
}

// List returns all active users ordered by creation time. Password hashes
// are not loaded.
func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, username, role FROM users WHERE deleted_at IS NULL ORDER BY created_at, username
	`)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return users, nil
}

// Count returns the number of active users.
func (r *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

// Create inserts u. A username already taken by an active user yields ErrConflict.
func (r *PostgresUserRepository) Create(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role) VALUES ($1, $2, $3, $4)
	`, u.ID, u.Username, u.PasswordHash, string(u.Role))
	if err != nil {
		return fmt.Errorf("Create: %w", mapConstraintErr(err))
	}
	return nil
}

// Update changes the username and role of an active user. When
// u.PasswordHash is nil the stored hash is kept.
//
//	ctx: context for cancellation and deadlines
//	u:   the new account state, identified by u.ID
//
// Returns ErrNotFound if no active user has that ID and ErrConflict if the
// new username is taken.
func (r *PostgresUserRepository) Update(ctx context.Context, u models.User) error {
	var hash any
	if u.PasswordHash != nil {
		hash = u.PasswordHash
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET username = $2, role = $3, password_hash = COALESCE($4, password_hash)
		WHERE id = $1 AND deleted_at IS NULL
	`, u.ID, u.Username, string(u.Role), hash)
	if err != nil {
		return fmt.Errorf("Update: %w", mapConstraintErr(err))
	}
	return requireRow(res)
}

// SoftDelete marks a user as deleted. The row is purged later by the cleaner.
func (r *PostgresUserRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("SoftDelete: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
