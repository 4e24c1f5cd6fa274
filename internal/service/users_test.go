package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/shipdash/internal/models"
	"github.com/atinyakov/shipdash/internal/repository"
)

func newTestUserService(repo UserRepository) *UserService {
	s := NewUserService(repo)
	s.cost = bcrypt.MinCost
	return s
}

func TestCreateUser(t *testing.T) {
	var created models.User
	repo := &mockUserRepo{CreateFunc: func(_ context.Context, u models.User) error {
		if u.Username == "taken" {
			return repository.ErrConflict
		}
		created = u
		return nil
	}}
	svc := newTestUserService(repo)

	u, err := svc.Create(context.Background(), models.UserRequest{Username: " carol ", Password: "pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "carol", u.Username)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Nil(t, u.PasswordHash, "hash must not leave the service")
	assert.NoError(t, bcrypt.CompareHashAndPassword(created.PasswordHash, []byte("pw")))

	_, err = svc.Create(context.Background(), models.UserRequest{Username: "taken", Password: "pw"})
	assert.ErrorIs(t, err, ErrUserExists)

	for _, req := range []models.UserRequest{
		{Password: "pw"},
		{Username: "x"},
		{Username: "x", Password: "pw", Role: "root"},
	} {
		_, err := svc.Create(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidUser)
	}
}

func TestUpdateUser(t *testing.T) {
	var got models.User
	repo := &mockUserRepo{UpdateFunc: func(_ context.Context, u models.User) error {
		if u.ID == "missing" {
			return repository.ErrNotFound
		}
		got = u
		return nil
	}}
	svc := newTestUserService(repo)

	_, err := svc.Update(context.Background(), "u1", models.UserRequest{Username: "dave", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Nil(t, got.PasswordHash, "empty password keeps the stored hash")

	_, err = svc.Update(context.Background(), "u1", models.UserRequest{Username: "dave", Password: "new"})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword(got.PasswordHash, []byte("new")))

	_, err = svc.Update(context.Background(), "missing", models.UserRequest{Username: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	wantErr := errors.New("db error")
	repo := &mockUserRepo{SoftDeleteFunc: func(_ context.Context, id string) error {
		switch id {
		case "missing":
			return repository.ErrNotFound
		case "broken":
			return wantErr
		}
		return nil
	}}
	svc := newTestUserService(repo)

	assert.NoError(t, svc.Delete(context.Background(), "u1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "broken"), wantErr)
}

func TestSeedAdmin(t *testing.T) {
	count := 0
	var created []models.User
	repo := &mockUserRepo{
		CountFunc: func(context.Context) (int, error) { return count, nil },
		CreateFunc: func(_ context.Context, u models.User) error {
			created = append(created, u)
			return nil
		},
	}
	svc := newTestUserService(repo)

	ok, err := svc.SeedAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, created, 1)
	assert.Equal(t, models.RoleAdmin, created[0].Role)

	count = 1
	ok, err = svc.SeedAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.SeedAdmin(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, created, 1)
}
