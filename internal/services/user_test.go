package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brainvault/brainvault/internal/model"
)

func TestUserService_CreateGeneratesID(t *testing.T) {
	svc := NewUserService(newFakeStore())

	created, err := svc.CreateUser(context.Background(), &model.User{Username: "ada"})
	require.NoError(t, err)
	require.NotEmpty(t, created.UserID)
	require.Equal(t, "ada", created.Username)

	got, err := svc.GetUser(context.Background(), created.UserID)
	require.NoError(t, err)
	require.Equal(t, created.UserID, got.UserID)

	byName, err := svc.GetUserByUsername(context.Background(), "ada")
	require.NoError(t, err)
	require.Equal(t, created.UserID, byName.UserID)
}

func TestUserService_DuplicateUsername(t *testing.T) {
	svc := NewUserService(newFakeStore())

	_, err := svc.CreateUser(context.Background(), &model.User{Username: "ada"})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), &model.User{Username: "ada"})
	require.True(t, errors.Is(err, model.ErrConflict))
}

func TestUserService_GetMissing(t *testing.T) {
	svc := NewUserService(newFakeStore())

	_, err := svc.GetUser(context.Background(), "nope")
	require.True(t, errors.Is(err, model.ErrNotFound))

	_, err = svc.GetUserByUsername(context.Background(), "nope")
	require.True(t, errors.Is(err, model.ErrNotFound))
}
