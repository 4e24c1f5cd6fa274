package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/atinyakov/shipdash/internal/models"
)

type mockUserRepo struct {
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	ListFunc          func(ctx context.Context) ([]models.User, error)
	CountFunc         func(ctx context.Context) (int, error)
	CreateFunc        func(ctx context.Context, u models.User) error
	UpdateFunc        func(ctx context.Context, u models.User) error
	SoftDeleteFunc    func(ctx context.Context, id string) error
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) { return m.ListFunc(ctx) }
func (m *mockUserRepo) Count(ctx context.Context) (int, error)          { return m.CountFunc(ctx) }
func (m *mockUserRepo) Create(ctx context.Context, u models.User) error { return m.CreateFunc(ctx, u) }
func (m *mockUserRepo) Update(ctx context.Context, u models.User) error { return m.UpdateFunc(ctx, u) }
func (m *mockUserRepo) SoftDelete(ctx context.Context, id string) error {
	return m.SoftDeleteFunc(ctx, id)
}

type mockIssuer struct {
	IssueFunc func(id models.Identity) (string, time.Time, error)
}

func (m *mockIssuer) Issue(id models.Identity) (string, time.Time, error) { return m.IssueFunc(id) }

type mockCollectionRepo struct {
	GetAllFunc func(ctx context.Context, names []string) (map[string]json.RawMessage, error)
	UpsertFunc func(ctx context.Context, data map[string]json.RawMessage) error
}

func (m *mockCollectionRepo) GetAll(ctx context.Context, names []string) (map[string]json.RawMessage, error) {
	return m.GetAllFunc(ctx, names)
}
func (m *mockCollectionRepo) Upsert(ctx context.Context, data map[string]json.RawMessage) error {
	return m.UpsertFunc(ctx, data)
}
