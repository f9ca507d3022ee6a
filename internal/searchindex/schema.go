package searchindex

import (
	"context"
	"fmt"
	"time"

	weaviate "github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
)

// Bootstrap ensures the ContentVector class exists. Vectors are supplied by
// the embedding provider, so the class has no vectorizer.
func Bootstrap(ctx context.Context, baseURL string) error {
	cfg := weaviate.Config{Scheme: "http", Host: baseURL}
	cl, err := weaviate.NewClient(cfg)
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	class := &models.Class{
		Class:      className,
		Vectorizer: "none",
		Properties: []*models.Property{
			{Name: "userId", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "type", DataType: []string{"text"}},
			{Name: "timestamp", DataType: []string{"text"}},
			{Name: "snippet", DataType: []string{"text"}},
			{Name: "imageUrl", DataType: []string{"text"}},
		},
	}

	ex, err := cl.Schema().ClassGetter().WithClassName(className).Do(cctx)
	if err == nil && ex != nil {
		return nil
	}
	if err := cl.Schema().ClassCreator().WithClass(class).Do(cctx); err != nil {
		return fmt.Errorf("create class %s: %w", className, err)
	}
	return nil
}
