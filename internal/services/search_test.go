package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/scraper"
)

func seedContent(t *testing.T, st *fakeStore, idx *fakeIndex, userID, title, body string) *model.ContentItem {
	t.Helper()
	svc := NewContentService(st, idx, &fakeEmbedder{}, &fakeGenerator{}, scraper.New(time.Second), 8000)
	created, err := svc.Add(context.Background(), AddContentRequest{
		UserID: userID, Type: model.ContentTypeNote, Title: title, Content: body,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", title, err)
	}
	return created
}

func TestSearchService_EmptyQueryValidation(t *testing.T) {
	emb := &fakeEmbedder{}
	idx := newFakeIndex()
	svc := NewSearchService(newFakeStore(), idx, emb, &fakeGenerator{answerText: "a"}, 5)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), "u1", q)
		if !errors.Is(err, model.ErrValidation) {
			t.Fatalf("Search(%q): want ErrValidation, got %v", q, err)
		}
	}
	if emb.callCount() != 0 {
		t.Fatalf("Search: embedder must not be called on invalid query")
	}
}

func TestSearchService_NoMatchesShortCircuits(t *testing.T) {
	gen := &fakeGenerator{answerText: "should not run"}
	svc := NewSearchService(newFakeStore(), newFakeIndex(), &fakeEmbedder{}, gen, 5)

	res, err := svc.Search(context.Background(), "u1", "anything")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Answer != noRelevantContentAnswer {
		t.Fatalf("Search: want no-content answer, got %q", res.Answer)
	}
	if len(res.RelevantContent) != 0 {
		t.Fatalf("Search: want empty result list, got %d", len(res.RelevantContent))
	}
	if gen.promptCount() != 0 {
		t.Fatalf("Search: generative model must not be called")
	}
}

func TestSearchService_RanksAndTruncatesToTwo(t *testing.T) {
	st := newFakeStore()
	idx := newFakeIndex()
	a := seedContent(t, st, idx, "u1", "low", "low body")
	b := seedContent(t, st, idx, "u1", "high", "high body")
	c := seedContent(t, st, idx, "u1", "mid", "mid body")
	idx.scores[a.ID] = 0.5
	idx.scores[b.ID] = 0.9
	idx.scores[c.ID] = 0.7

	gen := &fakeGenerator{answerText: "answer"}
	svc := NewSearchService(st, idx, &fakeEmbedder{}, gen, 5)

	res, err := svc.Search(context.Background(), "u1", "query")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.RelevantContent) != 2 {
		t.Fatalf("Search: want 2 kept items, got %d", len(res.RelevantContent))
	}
	if res.RelevantContent[0].Title != "high" || res.RelevantContent[1].Title != "mid" {
		t.Fatalf("Search: wrong ranking: %q, %q", res.RelevantContent[0].Title, res.RelevantContent[1].Title)
	}
	if res.RelevantContent[0].SimilarityScore != 0.9 {
		t.Fatalf("Search: score not attached: %v", res.RelevantContent[0].SimilarityScore)
	}
	if gen.promptCount() != 1 {
		t.Fatalf("Search: want 1 generative call, got %d", gen.promptCount())
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "high body") || !strings.Contains(prompt, "mid body") {
		t.Fatalf("Search: kept items missing from prompt")
	}
	if strings.Contains(prompt, "low body") {
		t.Fatalf("Search: truncated item leaked into prompt")
	}
	if !strings.Contains(prompt, "query") {
		t.Fatalf("Search: literal query missing from prompt")
	}
}

func TestSearchService_HydrationDropsForeignRecords(t *testing.T) {
	st := newFakeStore()
	idx := newFakeIndex()
	// An index record claiming u1 ownership with no backing store row for
	// u1 must be dropped at hydration.
	foreign := seedContent(t, st, idx, "u2", "theirs", "their body")
	idx.records[foreign.ID] = indexRecord{
		vec:     idx.records[foreign.ID].vec,
		payload: map[string]interface{}{"userId": "u1", "title": "theirs"},
	}

	gen := &fakeGenerator{answerText: "answer"}
	svc := NewSearchService(st, idx, &fakeEmbedder{}, gen, 5)

	res, err := svc.Search(context.Background(), "u1", "query")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.RelevantContent) != 0 {
		t.Fatalf("Search: foreign record must not hydrate, got %d", len(res.RelevantContent))
	}
	if gen.promptCount() != 0 {
		t.Fatalf("Search: generative model must not run on empty hydration")
	}
}

func TestSearchService_EmptyModelTextFallsBack(t *testing.T) {
	st := newFakeStore()
	idx := newFakeIndex()
	seedContent(t, st, idx, "u1", "T", "C")

	svc := NewSearchService(st, idx, &fakeEmbedder{}, &fakeGenerator{answerText: "   "}, 5)
	res, err := svc.Search(context.Background(), "u1", "query")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Answer != fallbackAnswer {
		t.Fatalf("Search: want fallback answer, got %q", res.Answer)
	}
}

func TestSearchService_UpstreamErrors(t *testing.T) {
	st := newFakeStore()
	idx := newFakeIndex()
	seedContent(t, st, idx, "u1", "T", "C")

	svc := NewSearchService(st, idx, &fakeEmbedder{fail: true}, &fakeGenerator{answerText: "a"}, 5)
	if _, err := svc.Search(context.Background(), "u1", "q"); !model.IsUpstream(err) {
		t.Fatalf("Search embed failure: want upstream, got %v", err)
	}

	idx.failQuery = true
	svc = NewSearchService(st, idx, &fakeEmbedder{}, &fakeGenerator{answerText: "a"}, 5)
	if _, err := svc.Search(context.Background(), "u1", "q"); !model.IsUpstream(err) {
		t.Fatalf("Search index failure: want upstream, got %v", err)
	}
}

func TestAddThenSearch_EndToEnd(t *testing.T) {
	st := newFakeStore()
	idx := newFakeIndex()
	contentSvc := NewContentService(st, idx, &fakeEmbedder{}, &fakeGenerator{}, scraper.New(time.Second), 8000)
	ctx := context.Background()

	created, err := contentSvc.Add(ctx, AddContentRequest{
		UserID: "U", Type: model.ContentTypeNote, Title: "T", Content: "C",
	})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	items, err := contentSvc.List(ctx, "U")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("List: want exactly the added item, got %+v", items)
	}
	if items[0].Link != nil || items[0].ImageURL != nil {
		t.Fatalf("List: note must have nil link and imageUrl")
	}

	searchSvc := NewSearchService(st, idx, &fakeEmbedder{}, &fakeGenerator{answerText: "grounded answer"}, 5)
	res, err := searchSvc.Search(ctx, "U", "C")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.RelevantContent) != 1 || res.RelevantContent[0].ID != created.ID {
		t.Fatalf("Search: want the added item as only hit, got %+v", res.RelevantContent)
	}
	if res.RelevantContent[0].SimilarityScore == 0 {
		t.Fatalf("Search: want non-zero similarity score")
	}
	if res.Answer != "grounded answer" {
		t.Fatalf("Search: want generated answer, got %q", res.Answer)
	}
}
