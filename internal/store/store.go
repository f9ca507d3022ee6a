// Package store defines the persistence contract for the primary record
// store. Implementations live under store/<driver>/.
package store

import (
	"context"

	"github.com/brainvault/brainvault/internal/model"
)

// Store exposes persistence operations required by services. It is the
// source of truth for ownership; the vector index is a derived view.
type Store interface {
	Users() Users
	Content() Content
	ShareLinks() ShareLinks
}

type Users interface {
	// Create persists a new user; a duplicate username yields
	// model.ErrConflict.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type Content interface {
	Create(ctx context.Context, item *model.ContentItem) (*model.ContentItem, error)
	// GetByID is scoped to the owner; other users' items act as missing.
	GetByID(ctx context.Context, userID, id string) (*model.ContentItem, error)
	// GetByIDs hydrates a batch of ids, silently dropping ids that do not
	// exist or belong to another user.
	GetByIDs(ctx context.Context, userID string, ids []string) ([]*model.ContentItem, error)
	List(ctx context.Context, userID string) ([]*model.ContentItem, error)
	// Delete removes an owned item; missing and not-owned are both
	// model.ErrNotFound.
	Delete(ctx context.Context, userID, id string) error
}

type ShareLinks interface {
	// Upsert returns the user's existing link when present, otherwise
	// persists the provided one. Enabling sharing is idempotent.
	Upsert(ctx context.Context, link *model.ShareLink) (*model.ShareLink, error)
	GetByHash(ctx context.Context, hash string) (*model.ShareLink, error)
	DeleteByUser(ctx context.Context, userID string) error
}
