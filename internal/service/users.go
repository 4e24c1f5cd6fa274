package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/shipdash/internal/models"
	"github.com/atinyakov/shipdash/internal/repository"
)

// UserService manages user accounts.
type UserService struct {
	repo UserRepository
	cost int
}

// NewUserService constructs a UserService hashing passwords with bcrypt's
// default cost.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

// List returns all active users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo.List(ctx)
}

func normalize(req *models.UserRequest, create bool) error {
	req.Username = strings.TrimSpace(req.Username)
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	switch {
	case req.Username == "":
		return fmt.Errorf("%w: username is required", ErrInvalidUser)
	case create && req.Password == "":
		return fmt.Errorf("%w: password is required", ErrInvalidUser)
	case !req.Role.Valid():
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, req.Role)
	}
	return nil
}

func (s *UserService) hash(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// Create adds an account with a fresh ID.
func (s *UserService) Create(ctx context.Context, req models.UserRequest) (models.User, error) {
	if err := normalize(&req, true); err != nil {
		return models.User{}, err
	}
	h, err := s.hash(req.Password)
	if err != nil {
		return models.User{}, err
	}
	u := models.User{ID: uuid.NewString(), Username: req.Username, Role: req.Role, PasswordHash: h}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	u.PasswordHash = nil
	return u, nil
}

// Update changes username, role and, when given, the password of user id.
func (s *UserService) Update(ctx context.Context, id string, req models.UserRequest) (models.User, error) {
	if err := normalize(&req, false); err != nil {
		return models.User{}, err
	}
	u := models.User{ID: id, Username: req.Username, Role: req.Role}
	if req.Password != "" {
		h, err := s.hash(req.Password)
		if err != nil {
			return models.User{}, err
		}
		u.PasswordHash = h
	}
	if err := s.repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return models.User{}, ErrUserNotFound
		case errors.Is(err, repository.ErrConflict):
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	u.PasswordHash = nil
	return u, nil
}

// Delete soft-deletes user id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// SeedAdmin creates an admin account when there are no users at all.
// It reports whether an account was created.
func (s *UserService) SeedAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, models.UserRequest{Username: username, Password: password, Role: models.RoleAdmin}); err != nil {
		return false, fmt.Errorf("seed admin: %w", err)
	}
	return true, nil
}
