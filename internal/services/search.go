package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/brainvault/brainvault/internal/answer"
	"github.com/brainvault/brainvault/internal/embeddings"
	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/searchindex"
	"github.com/brainvault/brainvault/internal/store"
)

// maxAnswerContext caps how many hydrated items feed the answer prompt.
// The vector query already ranks by similarity; this second cut keeps the
// prompt short and the answer focused.
const maxAnswerContext = 2

const (
	noRelevantContentAnswer = "No relevant content was found for your query."
	fallbackAnswer          = "I was unable to generate an answer for this query."
)

// SearchResult is the retrieval output: a generated answer plus the ranked
// items it drew on.
type SearchResult struct {
	Answer          string                `json:"answer"`
	RelevantContent []model.ScoredContent `json:"relevantContent"`
}

// SearchService runs the retrieval pipeline: embed the query, probe the
// vector index, hydrate and re-rank against the primary store, then ask the
// generative model for an answer grounded on the kept items.
type SearchService struct {
	store    store.Store
	idx      searchindex.Index
	embedder embeddings.EmbeddingProvider
	gen      answer.Generator
	topK     int
}

func NewSearchService(s store.Store, idx searchindex.Index, emb embeddings.EmbeddingProvider, gen answer.Generator, topK int) *SearchService {
	return &SearchService{store: s, idx: idx, embedder: emb, gen: gen, topK: topK}
}

// Search answers a natural-language query over the owner's content.
func (s *SearchService) Search(ctx context.Context, userID, query string) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", model.ErrValidation)
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, model.Upstream("search.embed", err)
	}

	hits, err := s.idx.Query(ctx, userID, vec, s.topK)
	if err != nil {
		return nil, model.Upstream("search.index", err)
	}

	scores := make(map[string]float64, len(hits))
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ContentID)
		scores[h.ContentID] = h.Score
	}

	// Hydrate against the primary store re-scoped to the owner; an index
	// record that slipped past the filter is dropped here.
	items, err := s.store.Content().GetByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	ranked := make([]model.ScoredContent, 0, len(items))
	for _, item := range items {
		ranked = append(ranked, model.ScoredContent{
			ContentItem:     *item,
			SimilarityScore: scores[item.ID],
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SimilarityScore > ranked[j].SimilarityScore
	})
	if len(ranked) > maxAnswerContext {
		ranked = ranked[:maxAnswerContext]
	}

	if len(ranked) == 0 {
		return &SearchResult{Answer: noRelevantContentAnswer, RelevantContent: []model.ScoredContent{}}, nil
	}

	if s.gen == nil {
		return &SearchResult{Answer: fallbackAnswer, RelevantContent: ranked}, nil
	}

	text, err := s.gen.Answer(ctx, buildPrompt(query, ranked))
	if err != nil {
		return nil, model.Upstream("search.generate", err)
	}
	if strings.TrimSpace(text) == "" {
		text = fallbackAnswer
	}
	return &SearchResult{Answer: text, RelevantContent: ranked}, nil
}

// buildPrompt renders the kept items as a context block followed by the
// literal user query.
func buildPrompt(query string, items []model.ScoredContent) string {
	var b strings.Builder
	b.WriteString("You are answering a question using the user's saved content. Use only the context below.\n\nContext:\n")
	for i, item := range items {
		link := ""
		if item.Link != nil {
			link = *item.Link
		}
		fmt.Fprintf(&b, "[%d] Title: %s\nType: %s\nLink: %s\nContent: %s\n\n", i+1, item.Title, item.Type, link, item.Content)
	}
	b.WriteString("Question: ")
	b.WriteString(query)
	return b.String()
}
