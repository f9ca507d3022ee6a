// Package storetest holds a driver-agnostic compliance suite for
// store.Store implementations.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := "u-" + uuid.New().String()
	username := "user_" + uuid.New().String()[:8]

	// Users
	u := &model.User{UserID: userID, Username: username}
	if _, err := s.Users().Create(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if got, err := s.Users().Get(ctx, userID); err != nil || got == nil || got.Username != username {
		t.Fatalf("GetUser: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByUsername(ctx, username); err != nil || got == nil || got.UserID != userID {
		t.Fatalf("GetUserByUsername: got=%v err=%v", got, err)
	}
	if _, err := s.Users().Create(ctx, &model.User{UserID: "u-" + uuid.New().String(), Username: username}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CreateUser duplicate username: want ErrConflict, got %v", err)
	}
	if _, err := s.Users().Get(ctx, "u-missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUser missing: want ErrNotFound, got %v", err)
	}

	// Content
	link := "https://example.com/a"
	c1, err := s.Content().Create(ctx, &model.ContentItem{
		ID:      uuid.New().String(),
		UserID:  userID,
		Type:    model.ContentTypeURL,
		Title:   "First",
		Link:    &link,
		Content: "first body",
		Tags:    []string{"go", "notes"},
	})
	if err != nil {
		t.Fatalf("CreateContent c1: %v", err)
	}
	c2, err := s.Content().Create(ctx, &model.ContentItem{
		ID:      uuid.New().String(),
		UserID:  userID,
		Type:    model.ContentTypeNote,
		Title:   "Second",
		Content: "second body",
	})
	if err != nil {
		t.Fatalf("CreateContent c2: %v", err)
	}
	if c1.CreationTime.IsZero() || c2.CreationTime.IsZero() {
		t.Fatalf("CreateContent: creation_time not populated")
	}

	got, err := s.Content().GetByID(ctx, userID, c1.ID)
	if err != nil {
		t.Fatalf("GetContent: %v", err)
	}
	if got.Title != "First" || got.Link == nil || *got.Link != link || len(got.Tags) != 2 {
		t.Fatalf("GetContent: round-trip mismatch: %+v", got)
	}

	// Ownership scoping: another user cannot see the item.
	if _, err := s.Content().GetByID(ctx, "u-other", c1.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetContent cross-user: want ErrNotFound, got %v", err)
	}

	// Batch hydrate drops unknown ids silently.
	batch, err := s.Content().GetByIDs(ctx, userID, []string{c1.ID, uuid.New().String(), c2.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("GetByIDs: want 2 items, got %d", len(batch))
	}

	lst, err := s.Content().List(ctx, userID)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListContent: n=%d err=%v", len(lst), err)
	}
	if lst, _ := s.Content().List(ctx, "u-other"); len(lst) != 0 {
		t.Fatalf("ListContent cross-user: want empty, got %d", len(lst))
	}

	// Delete is owner-scoped.
	if err := s.Content().Delete(ctx, "u-other", c2.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteContent cross-user: want ErrNotFound, got %v", err)
	}
	if err := s.Content().Delete(ctx, userID, c2.ID); err != nil {
		t.Fatalf("DeleteContent: %v", err)
	}
	if err := s.Content().Delete(ctx, userID, c2.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteContent repeat: want ErrNotFound, got %v", err)
	}

	// Share links
	hash := uuid.New().String()
	sl, err := s.ShareLinks().Upsert(ctx, &model.ShareLink{UserID: userID, Hash: hash})
	if err != nil {
		t.Fatalf("UpsertShareLink: %v", err)
	}
	if sl.Hash != hash {
		t.Fatalf("UpsertShareLink: hash mismatch: %s", sl.Hash)
	}
	// Second enable keeps the original hash.
	again, err := s.ShareLinks().Upsert(ctx, &model.ShareLink{UserID: userID, Hash: uuid.New().String()})
	if err != nil {
		t.Fatalf("UpsertShareLink repeat: %v", err)
	}
	if again.Hash != hash {
		t.Fatalf("UpsertShareLink repeat: want %s, got %s", hash, again.Hash)
	}
	if got, err := s.ShareLinks().GetByHash(ctx, hash); err != nil || got.UserID != userID {
		t.Fatalf("GetByHash: got=%v err=%v", got, err)
	}
	if _, err := s.ShareLinks().GetByHash(ctx, "nope"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByHash missing: want ErrNotFound, got %v", err)
	}
	if err := s.ShareLinks().DeleteByUser(ctx, userID); err != nil {
		t.Fatalf("DeleteShareLink: %v", err)
	}
	if _, err := s.ShareLinks().GetByHash(ctx, hash); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByHash after delete: want ErrNotFound, got %v", err)
	}
	// Disable when nothing is shared is a no-op.
	if err := s.ShareLinks().DeleteByUser(ctx, userID); err != nil {
		t.Fatalf("DeleteShareLink repeat: %v", err)
	}
}
