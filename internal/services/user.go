package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/store"
)

// UserService handles account records. Credentials live with the external
// identity collaborator; this only manages the id/username pair.
type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService { return &UserService{store: s} }

func (s *UserService) CreateUser(ctx context.Context, u *model.User) (*model.User, error) {
	if u.UserID == "" {
		u.UserID = uuid.New().String()
	}
	return s.store.Users().Create(ctx, u)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.store.Users().Get(ctx, userID)
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.store.Users().GetByUsername(ctx, username)
}
