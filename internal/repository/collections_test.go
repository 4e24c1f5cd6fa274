package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

func setupCollectionRepo(t *testing.T) (*PostgresCollectionRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresCollectionRepository(db), mock, func() { db.Close() }
}

func TestGetAll(t *testing.T) {
	repo, mock, cleanup := setupCollectionRepo(t)
	defer cleanup()

	names := []string{"materialsBOM", "observations"}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name, data FROM collections WHERE name = ANY($1)`)).
		WithArgs(pq.Array(names)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "data"}).
			AddRow("materialsBOM", []byte(`[{"materialId":"M1"}]`)))

	got, err := repo.GetAll(context.Background(), names)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || string(got["materialsBOM"]) != `[{"materialId":"M1"}]` {
		t.Errorf("unexpected result: %s", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGetAll_QueryError(t *testing.T) {
	repo, mock, cleanup := setupCollectionRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name, data FROM collections`)).
		WillReturnError(errors.New("query fail"))

	if _, err := repo.GetAll(context.Background(), []string{"users"}); err == nil {
		t.Error("expected error")
	}
}

func TestUpsert(t *testing.T) {
	repo, mock, cleanup := setupCollectionRepo(t)
	defer cleanup()

	upsert := regexp.QuoteMeta(`INSERT INTO collections (name, data, updated_at) VALUES ($1, $2::jsonb, now())`)

	mock.ExpectBegin()
	mock.ExpectExec(upsert).WithArgs("finishedGoods", `["x"]`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).WithArgs("partNumbers", `[1]`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Upsert(context.Background(), map[string]json.RawMessage{
		"partNumbers":   json.RawMessage(`[1]`),
		"finishedGoods": json.RawMessage(`["x"]`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpsert_RollbackOnError(t *testing.T) {
	repo, mock, cleanup := setupCollectionRepo(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO collections`)).
		WithArgs("users", `[]`).
		WillReturnError(errors.New("exec fail"))
	mock.ExpectRollback()

	err := repo.Upsert(context.Background(), map[string]json.RawMessage{"users": json.RawMessage(`[]`)})
	if err == nil {
		t.Fatal("expected error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpsert_Empty(t *testing.T) {
	repo, mock, cleanup := setupCollectionRepo(t)
	defer cleanup()

	if err := repo.Upsert(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected sql calls: %v", err)
	}
}
