package searchindex

import (
	"strings"
	"testing"
	"time"

	"github.com/brainvault/brainvault/internal/model"
)

func TestPayload_Snippet100Chars(t *testing.T) {
	item := &model.ContentItem{
		ID:           "c1",
		UserID:       "u1",
		Type:         model.ContentTypeURL,
		Title:        "Long article",
		Content:      strings.Repeat("x", 500),
		CreationTime: time.Date(2024, 3, 1, 15, 4, 0, 0, time.UTC),
	}
	p := Payload(item)

	snippet, _ := p["snippet"].(string)
	if len(snippet) != 100 {
		t.Fatalf("snippet length = %d, want 100", len(snippet))
	}
	if p["imageUrl"] != "" {
		t.Fatalf("imageUrl sentinel = %v, want empty string", p["imageUrl"])
	}
	if p["timestamp"] != "Mar 1, 2024 3:04 PM" {
		t.Fatalf("timestamp = %v", p["timestamp"])
	}
}

func TestPayload_ShortContentAndImage(t *testing.T) {
	img := "https://example.com/cover.png"
	item := &model.ContentItem{
		ID:       "c2",
		UserID:   "u1",
		Type:     model.ContentTypeNote,
		Title:    "note",
		Content:  "short",
		ImageURL: &img,
	}
	p := Payload(item)

	if p["snippet"] != "short" {
		t.Fatalf("snippet = %v", p["snippet"])
	}
	if p["imageUrl"] != img {
		t.Fatalf("imageUrl = %v", p["imageUrl"])
	}
	if p["userId"] != "u1" || p["type"] != model.ContentTypeNote {
		t.Fatalf("payload metadata wrong: %v", p)
	}
}
