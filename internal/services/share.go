package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/store"
)

// SharedBrain is the public view behind a share link: the owner's username
// and their full content list.
type SharedBrain struct {
	Username string               `json:"username"`
	Content  []*model.ContentItem `json:"content"`
}

// ShareService manages read-only share links, at most one per user.
type ShareService struct {
	store store.Store
}

func NewShareService(s store.Store) *ShareService {
	return &ShareService{store: s}
}

// Enable turns sharing on and returns the link hash. Re-enabling returns the
// existing hash unchanged.
func (s *ShareService) Enable(ctx context.Context, userID string) (string, error) {
	link, err := s.store.ShareLinks().Upsert(ctx, &model.ShareLink{
		UserID: userID,
		Hash:   uuid.New().String(),
	})
	if err != nil {
		return "", err
	}
	return link.Hash, nil
}

// Disable removes the user's share link. Disabling when nothing is shared is
// a no-op.
func (s *ShareService) Disable(ctx context.Context, userID string) error {
	return s.store.ShareLinks().DeleteByUser(ctx, userID)
}

// Resolve maps a hash to the shared brain. An unknown or revoked hash yields
// model.ErrNotFound.
func (s *ShareService) Resolve(ctx context.Context, hash string) (*SharedBrain, error) {
	link, err := s.store.ShareLinks().GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	owner, err := s.store.Users().Get(ctx, link.UserID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Content().List(ctx, owner.UserID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.ContentItem{}
	}
	return &SharedBrain{Username: owner.Username, Content: items}, nil
}
