package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Distributed Sagas</title>
  <meta property="og:image" content="/images/cover.png">
  <link rel="icon" href="/favicon.ico">
</head>
<body>
  <h1>Distributed   Sagas</h1>
  <p>A saga is a sequence of local transactions.</p>
  <h2>Compensation</h2>
  <p>Each step has a compensating action.</p>
  <div><span>ignored text</span></div>
</body>
</html>`

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestScrape_ExtractsFields(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	})

	res := New(10 * time.Second).Scrape(context.Background(), srv.URL)
	if res.Degraded {
		t.Fatalf("unexpected degraded result: %s", res.Reason)
	}
	if res.Page.Title != "Distributed Sagas" {
		t.Fatalf("title = %q", res.Page.Title)
	}
	// Headings first, in document order, then paragraphs.
	wantOrder := []string{"Distributed Sagas", "Compensation", "A saga is a sequence", "compensating action"}
	last := -1
	for _, frag := range wantOrder {
		i := strings.Index(res.Page.Content, frag)
		if i < 0 {
			t.Fatalf("content missing %q: %q", frag, res.Page.Content)
		}
		if i < last {
			t.Fatalf("fragment %q out of order in %q", frag, res.Page.Content)
		}
		last = i
	}
	if res.Page.ImageURL == nil {
		t.Fatal("expected cover image")
	}
	if got, want := *res.Page.ImageURL, srv.URL+"/images/cover.png"; got != want {
		t.Fatalf("image = %q, want %q", got, want)
	}
}

func TestScrape_TitleFallback(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>text only</p></body></html>`))
	})

	res := New(10 * time.Second).Scrape(context.Background(), srv.URL)
	if res.Degraded {
		t.Fatalf("unexpected degraded result: %s", res.Reason)
	}
	if res.Page.Title != defaultTitle {
		t.Fatalf("title = %q, want %q", res.Page.Title, defaultTitle)
	}
}

func TestScrape_EmptyBodyFallback(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>t</title></head><body><div>no paragraphs</div></body></html>`))
	})

	res := New(10 * time.Second).Scrape(context.Background(), srv.URL)
	if res.Page.Content != defaultContent {
		t.Fatalf("content = %q, want default", res.Page.Content)
	}
}

func TestScrape_Timeout(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	})

	res := New(100 * time.Millisecond).Scrape(context.Background(), srv.URL)
	if !res.Degraded {
		t.Fatal("expected degraded result")
	}
	if res.Reason != ReasonTimeout {
		t.Fatalf("reason = %q, want %q", res.Reason, ReasonTimeout)
	}
	if res.Page.Title != "Navigation Failed" {
		t.Fatalf("title = %q", res.Page.Title)
	}
	if res.Page.ImageURL != nil {
		t.Fatal("degraded result must have nil image")
	}
}

func TestScrape_HTTPError(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	res := New(10 * time.Second).Scrape(context.Background(), srv.URL)
	if !res.Degraded {
		t.Fatal("expected degraded result for 403")
	}
}

func TestScrape_InvalidURL(t *testing.T) {
	res := New(time.Second).Scrape(context.Background(), "blob:abc123")
	if !res.Degraded || res.Reason != ReasonNavigation {
		t.Fatalf("expected navigation sentinel, got %+v", res)
	}
}

func TestResolveImageURL(t *testing.T) {
	base, _ := url.Parse("https://example.com/articles/1")

	if got := ResolveImageURL(base, "/img/a.png"); got == nil || *got != "https://example.com/img/a.png" {
		t.Fatalf("relative resolution failed: %v", got)
	}
	if got := ResolveImageURL(base, "https://cdn.example.com/a.png"); got == nil || *got != "https://cdn.example.com/a.png" {
		t.Fatalf("absolute passthrough failed: %v", got)
	}
	for _, bad := range []string{"blob:https://example.com/uuid", "data:image/png;base64,AAAA", "://broken", "javascript:void(0)"} {
		if got := ResolveImageURL(base, bad); got != nil {
			t.Fatalf("expected %q to be rejected, got %q", bad, *got)
		}
	}
}
