package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brainvault/brainvault/internal/model"
	"github.com/brainvault/brainvault/internal/store"
)

// --- In-memory store fake ---

type fakeStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	content []*model.ContentItem
	shares  map[string]*model.ShareLink

	failContentCreate bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[string]*model.User{},
		shares: map[string]*model.ShareLink{},
	}
}

func (f *fakeStore) Users() store.Users           { return &fakeUsers{f} }
func (f *fakeStore) Content() store.Content       { return &fakeContent{f} }
func (f *fakeStore) ShareLinks() store.ShareLinks { return &fakeShareLinks{f} }

type fakeUsers struct{ p *fakeStore }

func (u *fakeUsers) Create(_ context.Context, m *model.User) (*model.User, error) {
	u.p.mu.Lock()
	defer u.p.mu.Unlock()
	for _, existing := range u.p.users {
		if existing.Username == m.Username {
			return nil, model.ErrConflict
		}
	}
	out := *m
	out.CreationTime = time.Now().UTC()
	u.p.users[out.UserID] = &out
	return &out, nil
}

func (u *fakeUsers) Get(_ context.Context, userID string) (*model.User, error) {
	u.p.mu.Lock()
	defer u.p.mu.Unlock()
	if got, ok := u.p.users[userID]; ok {
		out := *got
		return &out, nil
	}
	return nil, model.ErrNotFound
}

func (u *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u.p.mu.Lock()
	defer u.p.mu.Unlock()
	for _, got := range u.p.users {
		if got.Username == username {
			out := *got
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

type fakeContent struct{ p *fakeStore }

func (c *fakeContent) Create(_ context.Context, item *model.ContentItem) (*model.ContentItem, error) {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	if c.p.failContentCreate {
		return nil, errors.New("store unavailable")
	}
	out := *item
	if out.CreationTime.IsZero() {
		out.CreationTime = time.Now().UTC()
	}
	c.p.content = append(c.p.content, &out)
	copied := out
	return &copied, nil
}

func (c *fakeContent) GetByID(_ context.Context, userID, id string) (*model.ContentItem, error) {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	for _, item := range c.p.content {
		if item.UserID == userID && item.ID == id {
			out := *item
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

func (c *fakeContent) GetByIDs(_ context.Context, userID string, ids []string) ([]*model.ContentItem, error) {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var res []*model.ContentItem
	for _, item := range c.p.content {
		if item.UserID == userID && want[item.ID] {
			out := *item
			res = append(res, &out)
		}
	}
	return res, nil
}

func (c *fakeContent) List(_ context.Context, userID string) ([]*model.ContentItem, error) {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	var res []*model.ContentItem
	for _, item := range c.p.content {
		if item.UserID == userID {
			out := *item
			res = append(res, &out)
		}
	}
	return res, nil
}

func (c *fakeContent) Delete(_ context.Context, userID, id string) error {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	for i, item := range c.p.content {
		if item.UserID == userID && item.ID == id {
			c.p.content = append(c.p.content[:i], c.p.content[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

type fakeShareLinks struct{ p *fakeStore }

func (s *fakeShareLinks) Upsert(_ context.Context, link *model.ShareLink) (*model.ShareLink, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	if existing, ok := s.p.shares[link.UserID]; ok {
		out := *existing
		return &out, nil
	}
	out := *link
	out.CreationTime = time.Now().UTC()
	s.p.shares[link.UserID] = &out
	copied := out
	return &copied, nil
}

func (s *fakeShareLinks) GetByHash(_ context.Context, hash string) (*model.ShareLink, error) {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	for _, link := range s.p.shares {
		if link.Hash == hash {
			out := *link
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *fakeShareLinks) DeleteByUser(_ context.Context, userID string) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	delete(s.p.shares, userID)
	return nil
}

// --- Vector index fake ---

type indexRecord struct {
	vec     []float32
	payload map[string]interface{}
}

type fakeIndex struct {
	mu      sync.Mutex
	records map[string]indexRecord
	deleted []string

	failUpsert bool
	failQuery  bool
	failDelete bool
	// scores overrides the default per-record score keyed by content id.
	scores map[string]float64
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{records: map[string]indexRecord{}, scores: map[string]float64{}}
}

func (f *fakeIndex) Upsert(_ context.Context, id string, vec []float32, payload map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpsert {
		return errors.New("index unavailable")
	}
	f.records[id] = indexRecord{vec: vec, payload: payload}
	return nil
}

func (f *fakeIndex) Query(_ context.Context, userID string, _ []float32, topK int) ([]model.SearchHit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failQuery {
		return nil, errors.New("index unavailable")
	}
	var hits []model.SearchHit
	for id, rec := range f.records {
		if owner, _ := rec.payload["userId"].(string); owner != userID {
			continue
		}
		score, ok := f.scores[id]
		if !ok {
			score = 0.9
		}
		hits = append(hits, model.SearchHit{
			ContentID: id,
			UserID:    userID,
			Title:     fmt.Sprint(rec.payload["title"]),
			Score:     score,
		})
		if len(hits) == topK {
			break
		}
	}
	return hits, nil
}

func (f *fakeIndex) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errors.New("index unavailable")
	}
	delete(f.records, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// --- Embedder fake ---

type fakeEmbedder struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail {
		return nil, errors.New("embedding provider unavailable")
	}
	return []float32{0.1, 0.2, float32(len(text))}, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// --- Generator fake ---

type fakeGenerator struct {
	mu         sync.Mutex
	answerText string
	answerErr  error
	prompts    []string

	summaries int
}

func (f *fakeGenerator) Answer(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.answerErr != nil {
		return "", f.answerErr
	}
	return f.answerText, nil
}

func (f *fakeGenerator) SummarizeChunks(_ context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaries++
	if len(text) > 10 {
		text = text[:10]
	}
	return "summary of " + text, nil
}

func (f *fakeGenerator) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
