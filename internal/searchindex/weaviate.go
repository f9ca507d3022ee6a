package searchindex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	weaviate "github.com/weaviate/weaviate-go-client/v5/weaviate"
	filters "github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	gql "github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/brainvault/brainvault/internal/model"
)

// className is the single Weaviate class holding content vectors.
const className = "ContentVector"

// weavIndex implements Index using the Weaviate Go client.
type weavIndex struct {
	client  *weaviate.Client
	baseURL string // host:port without scheme
}

// NewWeaviateIndex constructs an Index backed by Weaviate at baseURL
// (host:port, no scheme).
func NewWeaviateIndex(baseURL string) (Index, error) {
	cfg := weaviate.Config{Scheme: "http", Host: baseURL}
	cl, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &weavIndex{client: cl, baseURL: baseURL}, nil
}

// Upsert is insert-or-replace: an existing object with the same id is
// removed first. The delete leg is best-effort since a missing object is the
// common case.
func (w *weavIndex) Upsert(ctx context.Context, id string, vec []float32, payload map[string]interface{}) error {
	if w == nil || w.client == nil {
		return fmt.Errorf("weaviate client not initialised")
	}
	_ = w.client.Data().Deleter().WithClassName(className).WithID(id).Do(ctx)

	_, err := w.client.Data().Creator().
		WithClassName(className).
		WithID(id).
		WithProperties(payload).
		WithVector(vec).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("weaviate upsert %s: %w", id, err)
	}
	return nil
}

// Query runs a nearVector search scoped to the owner via an exact-match
// metadata filter.
func (w *weavIndex) Query(ctx context.Context, userID string, vec []float32, topK int) ([]model.SearchHit, error) {
	if w == nil || w.client == nil {
		return nil, fmt.Errorf("weaviate client not initialised")
	}

	near := w.client.GraphQL().NearVectorArgBuilder().WithVector(vec)
	where := filters.Where().WithPath([]string{"userId"}).WithOperator(filters.Equal).WithValueText(userID)

	resp, err := w.client.GraphQL().Get().
		WithClassName(className).
		WithWhere(where).
		WithNearVector(near).
		WithLimit(topK).
		WithFields(
			gql.Field{Name: "userId"},
			gql.Field{Name: "title"},
			gql.Field{Name: "snippet"},
			gql.Field{Name: "_additional", Fields: []gql.Field{{Name: "id"}, {Name: "certainty"}}},
		).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("weaviate query: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("weaviate graphql: %s", formatGraphQLErrors(resp.Errors))
	}

	getData, ok := resp.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	val := getData[className]
	if val == nil {
		return []model.SearchHit{}, nil
	}
	raw, ok := val.([]interface{})
	if !ok {
		return nil, nil
	}

	out := make([]model.SearchHit, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		hit := model.SearchHit{
			UserID:  safeString(m["userId"]),
			Title:   safeString(m["title"]),
			Snippet: safeString(m["snippet"]),
		}
		if add, ok := m["_additional"].(map[string]interface{}); ok {
			hit.ContentID = safeString(add["id"])
			hit.Score = parseScore(add["certainty"])
		}
		out = append(out, hit)
	}
	return out, nil
}

// DeleteByID removes one record, tolerating ids that are already gone.
func (w *weavIndex) DeleteByID(ctx context.Context, id string) error {
	if w == nil || w.client == nil || id == "" {
		return nil
	}
	if err := w.client.Data().Deleter().WithClassName(className).WithID(id).Do(ctx); err != nil {
		// 404 means the record never made it into the index (a dangling
		// primary record); that is not a delete failure.
		log.Debug().Err(err).Str("contentId", id).Msg("weaviate delete returned error")
	}
	return nil
}

// HealthPing checks the index's readiness endpoint.
func (w *weavIndex) HealthPing(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("http://%s/v1/.well-known/ready", w.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weaviate ready status %d", resp.StatusCode)
	}
	return nil
}

func safeString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func parseScore(v interface{}) float64 {
	switch s := v.(type) {
	case float64:
		return s
	case json.Number:
		f, _ := s.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(s, 64)
		return f
	default:
		return 0
	}
}

// formatGraphQLErrors returns a compact string for logging.
func formatGraphQLErrors(errs interface{}) string {
	if b, err := json.Marshal(errs); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", errs)
}

// TimestampFormat renders creation times in the human-readable form stored
// on index records and embedded into vector inputs.
const TimestampFormat = "Jan 2, 2006 3:04 PM"

// Payload builds the metadata stored alongside a content vector. Snippet is
// the first 100 characters of content; imageURL uses an empty-string
// sentinel when absent.
func Payload(item *model.ContentItem) map[string]interface{} {
	snippet := item.Content
	if runes := []rune(snippet); len(runes) > 100 {
		snippet = string(runes[:100])
	}
	imageURL := ""
	if item.ImageURL != nil {
		imageURL = *item.ImageURL
	}
	return map[string]interface{}{
		"userId":    item.UserID,
		"title":     item.Title,
		"type":      item.Type,
		"timestamp": item.CreationTime.Format(TimestampFormat),
		"snippet":   snippet,
		"imageUrl":  imageURL,
	}
}
