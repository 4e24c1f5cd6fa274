package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/shipdash/internal/models"
	"github.com/atinyakov/shipdash/internal/repository"
)

// UserRepository defines the persistence operations for user accounts.
type UserRepository interface {
	// GetByUsername returns the active user with that username, compared
	// case-insensitively, or repository.ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// List returns all active users without password hashes.
	List(ctx context.Context) ([]models.User, error)
	// Count returns the number of active users.
	Count(ctx context.Context) (int, error)
	// Create inserts a user or returns repository.ErrConflict.
	Create(ctx context.Context, u models.User) error
	// Update changes a user; a nil PasswordHash keeps the stored one.
	Update(ctx context.Context, u models.User) error
	// SoftDelete marks a user as deleted.
	SoftDelete(ctx context.Context, id string) error
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(id models.Identity) (string, time.Time, error)
}

// AuthService checks credentials and hands out tokens.
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies username and password and returns a signed token.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	id := models.Identity{Username: u.Username, Role: u.Role}
	tok, exp, err := s.tokens.Issue(id)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &models.LoginResponse{
		Token:    tok,
		Username: u.Username,
		Role:     u.Role,
		Expiry:   exp.Unix(),
	}, nil
}

// Me re-reads the account behind a verified token, so a deleted user or a
// changed role takes effect before the token expires.
func (s *AuthService) Me(ctx context.Context, id models.Identity) (*models.Identity, error) {
	u, err := s.users.GetByUsername(ctx, id.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	return &models.Identity{Username: u.Username, Role: u.Role}, nil
}
