// Package service provides the backend business logic for authentication,
// user management and collection synchronization, delegating persistence
// to repository interfaces.
package service

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists is returned when the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no active user has the given ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidUser is returned when a user request fails validation.
	ErrInvalidUser = errors.New("invalid user")
)
