// Package dashboard implements the operator flows of the shipping
// dashboard: reference data management, Fedex line capture with stock
// deduction, USPS orders, reports and user administration.
//
// Every flow validates first, commits to the local store, then pushes to
// the backend on a best-effort basis. A failed push is logged and never
// fails the flow.
package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/shipdash/internal/authz"
	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/models"
)

// Pusher uploads local collections to the backend.
type Pusher interface {
	Push(ctx context.Context) error
}

// UserBackend is the remote user management API.
type UserBackend interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, req models.UserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id string, req models.UserRequest) error
	DeleteUser(ctx context.Context, id string) error
}

// Service runs the dashboard flows against a local store.
type Service struct {
	store  storage.Store
	pusher Pusher
	users  UserBackend
	log    *zap.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for capture timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New returns a Service. A nil logger discards output.
func New(store storage.Store, pusher Pusher, users UserBackend, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{store: store, pusher: pusher, users: users, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) authorize(user *models.Identity, res authz.Resource) error {
	if !authz.CanAccess(user, res) {
		return forbidden(res)
	}
	return nil
}

// push is fire-and-forget from the caller's point of view.
func (s *Service) push(ctx context.Context, what string) {
	if s.pusher == nil {
		return
	}
	if err := s.pusher.Push(ctx); err != nil {
		s.log.Warn("saved locally, sync failed", zap.String("change", what), zap.Error(err))
	}
}

// writeAll stores value under every key, so legacy aliases stay in step
// with the synced collection.
func (s *Service) writeAll(value any, keys ...string) error {
	for _, k := range keys {
		if err := storage.Set(s.store, k, value); err != nil {
			return err
		}
	}
	return nil
}

// readList returns the readable records of the first present key. Records
// that cannot be decoded are logged and left out.
func readList[T any](s *Service, keys ...string) []T {
	items, skipped, _ := storage.GetList[T](s.store, keys...)
	if skipped > 0 {
		s.log.Warn("unreadable records skipped", zap.String("key", keys[0]), zap.Int("count", skipped))
	}
	return items
}

// loadList returns the records a mutation will rewrite. It refuses with
// ErrValidation when any stored record cannot be decoded, since writing
// the collection back would drop it.
func loadList[T any](s *Service, keys ...string) ([]T, error) {
	items, skipped, _ := storage.GetList[T](s.store, keys...)
	if skipped > 0 {
		return nil, invalid("%d stored %s record(s) cannot be read, refusing to rewrite the collection", skipped, keys[0])
	}
	return items, nil
}
