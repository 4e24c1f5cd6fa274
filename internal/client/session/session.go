// Package session owns the client login lifecycle: the stored token and
// identity, the once-per-login initial pull, and the inactivity logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/models"
)

// ErrMissingCredentials is returned by Login when username or password is empty.
var ErrMissingCredentials = errors.New("username and password are required")

// Authenticator is the part of the backend the session needs for logging in.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
	Me(ctx context.Context) (*models.Identity, error)
}

// Puller performs the initial remote pull.
type Puller interface {
	Pull(ctx context.Context) error
}

// State is the sync state of the current login.
type State int

const (
	NotSynced State = iota
	Synced
)

func (s State) String() string {
	if s == Synced {
		return "synced"
	}
	return "not synced"
}

// Session tracks the logged-in user. The persisted parts live in the store
// under authToken, currentUser and syncDone.
type Session struct {
	store  storage.Store
	auth   Authenticator
	puller Puller
	log    *zap.Logger

	mu      sync.Mutex
	current *models.Identity
}

// New builds a Session over store. A nil logger discards output.
func New(store storage.Store, auth Authenticator, puller Puller, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{store: store, auth: auth, puller: puller, log: log}
}

// Login authenticates against the backend, persists the token and identity,
// then runs the initial pull if this login has not synced yet. A failed pull
// does not fail the login.
func (s *Session) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	resp, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	id := models.Identity{Username: resp.Username, Role: resp.Role}
	if id.Username == "" {
		id.Username = username
	}
	if err := storage.Set(s.store, storage.KeyAuthToken, resp.Token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}
	if err := storage.Set(s.store, storage.KeyCurrentUser, id); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	s.mu.Lock()
	s.current = &id
	s.mu.Unlock()

	s.log.Info("logged in", zap.String("username", id.Username), zap.String("role", string(id.Role)))
	_ = s.EnsureSynced(ctx)
	return &id, nil
}

// State reports whether the initial pull has happened for this login.
func (s *Session) State() State {
	if done, _ := storage.Get[bool](s.store, storage.KeySyncDone); done {
		return Synced
	}
	return NotSynced
}

// EnsureSynced runs Pull once per login. The marker is only set after a
// successful Pull, so a failure is retried on the next call.
func (s *Session) EnsureSynced(ctx context.Context) error {
	if s.State() == Synced {
		return nil
	}
	if err := s.puller.Pull(ctx); err != nil {
		s.log.Warn("initial sync failed, continuing with local data", zap.Error(err))
		return err
	}
	return storage.Set(s.store, storage.KeySyncDone, true)
}

// Logout clears the token and the sync marker. The persisted currentUser is
// kept so the login screen can offer the last user.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.store.Delete(storage.KeyAuthToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := s.store.Delete(storage.KeySyncDone); err != nil {
		return fmt.Errorf("clear sync marker: %w", err)
	}
	s.log.Info("logged out")
	return nil
}

// CurrentUser returns the in-memory user. After a process restart it is
// restored from the store as long as a token is still present.
func (s *Session) CurrentUser() *models.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil && s.HasToken() {
		if id, ok := s.SavedUser(); ok {
			s.current = &id
		}
	}
	if s.current == nil {
		return nil
	}
	id := *s.current
	return &id
}

// SavedUser returns the persisted identity, which survives logout.
func (s *Session) SavedUser() (models.Identity, bool) {
	return storage.Get[models.Identity](s.store, storage.KeyCurrentUser)
}

// HasToken reports whether a non-empty auth token is stored.
func (s *Session) HasToken() bool {
	tok, ok := storage.Get[string](s.store, storage.KeyAuthToken)
	return ok && tok != ""
}

// VerifyToken asks the backend who the stored token belongs to.
func (s *Session) VerifyToken(ctx context.Context) (*models.Identity, error) {
	id, err := s.auth.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	return id, nil
}
