package dashboard

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/shipdash/internal/authz"
	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/models"
)

// ListUsers asks the backend for the accounts. When the backend cannot be
// reached the local users mirror is returned instead.
func (s *Service) ListUsers(ctx context.Context, user *models.Identity) ([]models.User, error) {
	if err := s.authorize(user, authz.UserManagement); err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.log.Warn("list users failed, using local copy", zap.Error(err))
		return readList[models.User](s, storage.KeyUsers), nil
	}
	if err := storage.Set(s.store, storage.KeyUsers, users); err != nil {
		s.log.Warn("users mirror not saved", zap.Error(err))
	}
	return users, nil
}

// SaveUser creates an account when id is empty and updates it otherwise.
// A password is required on create; on update an empty password keeps the
// current one. Backend errors are returned as-is so their detail reaches
// the operator.
func (s *Service) SaveUser(ctx context.Context, user *models.Identity, id string, req models.UserRequest) (models.User, error) {
	if err := s.authorize(user, authz.UserManagement); err != nil {
		return models.User{}, err
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	switch {
	case req.Username == "":
		return models.User{}, invalid("username is required")
	case id == "" && req.Password == "":
		return models.User{}, invalid("password is required")
	case !req.Role.Valid():
		return models.User{}, invalid("role must be admin or user")
	}

	var saved models.User
	if id == "" {
		u, err := s.users.CreateUser(ctx, req)
		if err != nil {
			return models.User{}, err
		}
		saved = *u
		s.updateUsersMirror(func(local []models.User) []models.User {
			return append(local, saved)
		})
	} else {
		if err := s.users.UpdateUser(ctx, id, req); err != nil {
			return models.User{}, err
		}
		saved = models.User{ID: id, Username: req.Username, Role: req.Role}
		s.updateUsersMirror(func(local []models.User) []models.User {
			for i := range local {
				if local[i].ID == id {
					local[i].Username = req.Username
					local[i].Role = req.Role
				}
			}
			return local
		})
	}
	s.push(ctx, "save user")
	return saved, nil
}

// DeleteUser removes an account on the backend and from the local mirror.
func (s *Service) DeleteUser(ctx context.Context, user *models.Identity, id string) error {
	if err := s.authorize(user, authz.UserManagement); err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.updateUsersMirror(func(local []models.User) []models.User {
		kept := make([]models.User, 0, len(local))
		for _, u := range local {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		return kept
	})
	s.push(ctx, "delete user")
	return nil
}

// updateUsersMirror applies a change the backend already accepted to the
// local users copy. The copy is left alone when it holds records that
// cannot be read.
func (s *Service) updateUsersMirror(change func([]models.User) []models.User) {
	local, err := loadList[models.User](s, storage.KeyUsers)
	if err != nil {
		s.log.Warn("users mirror not updated", zap.Error(err))
		return
	}
	local = change(local)
	if local == nil {
		local = []models.User{}
	}
	if err := storage.Set(s.store, storage.KeyUsers, local); err != nil {
		s.log.Warn("users mirror not saved", zap.Error(err))
	}
}
