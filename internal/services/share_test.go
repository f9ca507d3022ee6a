package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/scraper"
)

func TestShareService_EnableIdempotent(t *testing.T) {
	svc := NewShareService(newFakeStore())
	ctx := context.Background()

	first, err := svc.Enable(ctx, "u1")
	if err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if first == "" {
		t.Fatalf("Enable: empty hash")
	}
	second, err := svc.Enable(ctx, "u1")
	if err != nil {
		t.Fatalf("Enable again: %v", err)
	}
	if second != first {
		t.Fatalf("Enable again: want %s, got %s", first, second)
	}
}

func TestShareService_ResolveAndDisable(t *testing.T) {
	st := newFakeStore()
	ctx := context.Background()
	if _, err := st.Users().Create(ctx, &model.User{UserID: "u1", Username: "alice"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	contentSvc := NewContentService(st, newFakeIndex(), &fakeEmbedder{}, &fakeGenerator{}, scraper.New(time.Second), 8000)
	if _, err := contentSvc.Add(ctx, AddContentRequest{UserID: "u1", Type: model.ContentTypeNote, Title: "T", Content: "C"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	svc := NewShareService(st)
	hash, err := svc.Enable(ctx, "u1")
	if err != nil {
		t.Fatalf("Enable: %v", err)
	}

	brain, err := svc.Resolve(ctx, hash)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if brain.Username != "alice" {
		t.Fatalf("Resolve: want username alice, got %q", brain.Username)
	}
	if len(brain.Content) != 1 || brain.Content[0].Title != "T" {
		t.Fatalf("Resolve: want the owner's content, got %+v", brain.Content)
	}

	if err := svc.Disable(ctx, "u1"); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if _, err := svc.Resolve(ctx, hash); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Resolve after disable: want ErrNotFound, got %v", err)
	}
	// Disabling again stays a no-op.
	if err := svc.Disable(ctx, "u1"); err != nil {
		t.Fatalf("Disable again: %v", err)
	}
}

func TestShareService_ResolveUnknownHash(t *testing.T) {
	svc := NewShareService(newFakeStore())
	if _, err := svc.Resolve(context.Background(), "nope"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Resolve: want ErrNotFound, got %v", err)
	}
}
