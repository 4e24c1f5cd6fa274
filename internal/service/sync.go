package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/atinyakov/shipdash/internal/models"
)

// CollectionRepository defines the persistence operations for named collections.
type CollectionRepository interface {
	// GetAll returns the stored documents for names; missing names are absent.
	GetAll(ctx context.Context, names []string) (map[string]json.RawMessage, error)
	// Upsert replaces the documents for every name in data.
	Upsert(ctx context.Context, data map[string]json.RawMessage) error
}

// UserLister lists active users.
type UserLister interface {
	List(ctx context.Context) ([]models.User, error)
}

// SyncService serves and stores the collections the dashboard synchronizes.
// The users collection is always derived from the accounts table.
type SyncService struct {
	repo  CollectionRepository
	users UserLister
}

// NewSyncService constructs a SyncService.
func NewSyncService(repo CollectionRepository, users UserLister) *SyncService {
	return &SyncService{repo: repo, users: users}
}

var emptyList = json.RawMessage(`[]`)

// Data returns every known collection. Collections never stored are
// returned as empty lists.
func (s *SyncService) Data(ctx context.Context) (map[string]json.RawMessage, error) {
	names := make([]string, 0, len(models.Collections))
	for _, n := range models.Collections {
		if n != models.CollectionUsers {
			names = append(names, n)
		}
	}
	stored, err := s.repo.GetAll(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}

	out := make(map[string]json.RawMessage, len(models.Collections))
	for _, n := range names {
		if raw, ok := stored[n]; ok && isArray(raw) {
			out[n] = raw
		} else {
			out[n] = emptyList
		}
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	b, err := json.Marshal(users)
	if err != nil {
		return nil, fmt.Errorf("encode users: %w", err)
	}
	out[models.CollectionUsers] = b
	return out, nil
}

// Upload stores the known collections in payload whose value is a JSON
// list. Unknown names, non-list values and users are ignored. It returns
// the sorted names that were stored.
func (s *SyncService) Upload(ctx context.Context, payload map[string]json.RawMessage) ([]string, error) {
	accepted := make(map[string]json.RawMessage, len(payload))
	var names []string
	for n, raw := range payload {
		if !models.IsCollection(n) || n == models.CollectionUsers || !isArray(raw) {
			continue
		}
		accepted[n] = raw
		names = append(names, n)
	}
	slices.Sort(names)
	if err := s.repo.Upsert(ctx, accepted); err != nil {
		return nil, fmt.Errorf("store collections: %w", err)
	}
	return names, nil
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '[' && json.Valid(raw)
}
