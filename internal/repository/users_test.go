package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/atinyakov/shipdash/internal/models"
)

func setupUserRepo(t *testing.T) (*PostgresUserRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresUserRepository(db), mock, func() { db.Close() }
}

func TestGetByUsername(t *testing.T) {
	repo, mock, cleanup := setupUserRepo(t)
	defer cleanup()

	query := regexp.QuoteMeta(`SELECT id, username, password_hash, role FROM users`)

	mock.ExpectQuery(query).
		WithArgs("Alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role"}).
			AddRow("u1", "alice", []byte("hash"), "admin"))

	u, err := repo.GetByUsername(context.Background(), "Alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "u1" || u.Role != models.RoleAdmin || string(u.PasswordHash) != "hash" {
		t.Errorf("unexpected user: %+v", u)
	}

	mock.ExpectQuery(query).WithArgs("ghost").WillReturnError(sql.ErrNoRows)
	if _, err := repo.GetByUsername(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestList(t *testing.T) {
	repo, mock, cleanup := setupUserRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, role FROM users WHERE deleted_at IS NULL`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role"}).
			AddRow("1", "admin", "admin").
			AddRow("2", "bob", "user"))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[1].Username != "bob" || users[1].Role != models.RoleUser {
		t.Errorf("unexpected users: %+v", users)
	}
	if users[0].PasswordHash != nil {
		t.Error("password hash must not be loaded")
	}
}

func TestCount(t *testing.T) {
	repo, mock, cleanup := setupUserRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Count(context.Background())
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v; want 3", n, err)
	}
}

func TestCreate_Conflict(t *testing.T) {
	repo, mock, cleanup := setupUserRepo(t)
	defer cleanup()

	insert := regexp.QuoteMeta(`INSERT INTO users (id, username, password_hash, role) VALUES ($1, $2, $3, $4)`)
	u := models.User{ID: "u1", Username: "alice", PasswordHash: []byte("h"), Role: models.RoleUser}

	mock.ExpectExec(insert).
		WithArgs("u1", "alice", []byte("h"), "user").
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec(insert).
		WithArgs("u1", "alice", []byte("h"), "user").
		WillReturnError(&pq.Error{Code: "23505"})
	if err := repo.Create(context.Background(), u); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo, mock, cleanup := setupUserRepo(t)
	defer cleanup()

	update := regexp.QuoteMeta(`UPDATE users SET username = $2, role = $3, password_hash = COALESCE($4, password_hash)`)

	// без нового пароля хеш передаётся как NULL
	mock.ExpectExec(update).
		WithArgs("u1", "alice", "admin", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Update(context.Background(), models.User{ID: "u1", Username: "alice", Role: models.RoleAdmin}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec(update).
		WithArgs("missing", "x", "user", []byte("h")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Update(context.Background(), models.User{ID: "missing", Username: "x", Role: models.RoleUser, PasswordHash: []byte("h")})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSoftDelete(t *testing.T) {
	repo, mock, cleanup := setupUserRepo(t)
	defer cleanup()

	del := regexp.QuoteMeta(`UPDATE users SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`)
	mock.ExpectExec(del).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(del).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(del).WithArgs("u2").WillReturnError(errors.New("db down"))

	if err := repo.SoftDelete(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.SoftDelete(context.Background(), "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.SoftDelete(context.Background(), "u2"); err == nil {
		t.Error("expected error")
	}
}
