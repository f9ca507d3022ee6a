// Package services holds the orchestration layer between HTTP handlers and
// the store, vector index, scraper, and model providers.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/brainvault/brainvault/internal/answer"
	"github.com/brainvault/brainvault/internal/embeddings"
	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/scraper"
	"github.com/brainvault/brainvault/internal/searchindex"
	"github.com/brainvault/brainvault/internal/store"
)

// Seeded into an empty account so the first GET /content has something to
// show and the client list view never renders blank.
const (
	placeholderTitle   = "Welcome to your second brain"
	placeholderContent = "Save notes and links here, then ask questions about them with search. This note will sit alongside your own content; feel free to delete it."
)

// AddContentRequest carries caller-supplied fields for one new item.
type AddContentRequest struct {
	UserID  string
	Type    string
	Title   string
	Link    *string
	Content string
}

// ContentService runs the ingestion saga: scrape, persist, embed, index.
// The store write commits first so a later failure never loses the user's
// raw input; an embed or index failure after that leaves a dangling primary
// record, which is logged and surfaced as an upstream error rather than
// rolled back.
type ContentService struct {
	store              store.Store
	idx                searchindex.Index
	embedder           embeddings.EmbeddingProvider
	gen                answer.Generator
	scraper            *scraper.Scraper
	summarizeThreshold int
}

// NewContentService wires the ingestion pipeline. gen may be nil, in which
// case long documents are embedded unsummarized.
func NewContentService(s store.Store, idx searchindex.Index, emb embeddings.EmbeddingProvider, gen answer.Generator, scr *scraper.Scraper, summarizeThreshold int) *ContentService {
	return &ContentService{
		store:              s,
		idx:                idx,
		embedder:           emb,
		gen:                gen,
		scraper:            scr,
		summarizeThreshold: summarizeThreshold,
	}
}

// Add ingests one item for the owner. URL-type items with a link are scraped
// first; a caller-supplied title wins over the scraped one, and scraped
// content fills an empty caller content.
func (s *ContentService) Add(ctx context.Context, req AddContentRequest) (*model.ContentItem, error) {
	item := &model.ContentItem{
		ID:      uuid.New().String(),
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Link:    req.Link,
		Content: req.Content,
		Tags:    []string{},
	}

	if req.Type == model.ContentTypeURL && req.Link != nil && *req.Link != "" {
		res := s.scraper.Scrape(ctx, *req.Link)
		if res.Degraded {
			log.Warn().
				Str("link", *req.Link).
				Str("reason", res.Reason).
				Msg("scrape degraded; ingesting placeholder page data")
		}
		if item.Title == "" {
			item.Title = res.Page.Title
		}
		if item.Content == "" {
			item.Content = res.Page.Content
		}
		item.ImageURL = res.Page.ImageURL
	}

	created, err := s.store.Content().Create(ctx, item)
	if err != nil {
		return nil, err
	}

	vec, err := s.embedder.Embed(ctx, s.embeddingInput(ctx, created))
	if err != nil {
		log.Error().Err(err).
			Str("contentId", created.ID).
			Str("userId", created.UserID).
			Msg("embed failed after store commit; primary record is dangling")
		return nil, model.Upstream("content.embed", err)
	}

	if err := s.idx.Upsert(ctx, created.ID, vec, searchindex.Payload(created)); err != nil {
		log.Error().Err(err).
			Str("contentId", created.ID).
			Str("userId", created.UserID).
			Msg("index upsert failed after store commit; primary record is dangling")
		return nil, model.Upstream("content.index", err)
	}

	return created, nil
}

// embeddingInput combines title, creation timestamp, and body into the text
// handed to the embedder. Long bodies are compacted through the chunked
// summarizer first; a summarizer failure falls back to the raw body since
// ingesting an unsummarized document beats failing the request.
func (s *ContentService) embeddingInput(ctx context.Context, item *model.ContentItem) string {
	body := item.Content
	if s.gen != nil && s.summarizeThreshold > 0 && len(body) > s.summarizeThreshold {
		summary, err := s.gen.SummarizeChunks(ctx, body)
		if err != nil {
			log.Warn().Err(err).
				Str("contentId", item.ID).
				Msg("summarize failed; embedding raw content")
		} else if summary != "" {
			body = summary
		}
	}
	return fmt.Sprintf("%s | %s\n%s", item.Title, item.CreationTime.Format(searchindex.TimestampFormat), body)
}

// List returns the owner's items, newest first. An empty account is seeded
// with a placeholder note so the list is never blank; the placeholder is a
// real record the user can delete, but it skips the vector index since it
// holds no user knowledge worth searching.
func (s *ContentService) List(ctx context.Context, userID string) ([]*model.ContentItem, error) {
	items, err := s.store.Content().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return items, nil
	}

	seed := &model.ContentItem{
		ID:           uuid.New().String(),
		UserID:       userID,
		Type:         model.ContentTypeNote,
		Title:        placeholderTitle,
		Content:      placeholderContent,
		Tags:         []string{},
		CreationTime: time.Now().UTC(),
	}
	created, err := s.store.Content().Create(ctx, seed)
	if err != nil {
		return nil, err
	}
	return []*model.ContentItem{created}, nil
}

// Delete removes an owned item from the primary store, then best-effort from
// the vector index. The store delete is authoritative; an index failure is
// logged and the success response stands.
func (s *ContentService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.Content().Delete(ctx, userID, id); err != nil {
		return err
	}
	if err := s.idx.DeleteByID(ctx, id); err != nil {
		log.Warn().Err(err).
			Str("contentId", id).
			Str("userId", userID).
			Msg("index delete failed; vector record may be orphaned")
	}
	return nil
}
