// Package scraper turns a URL into best-effort structured page data. It
// never fails: every error path degrades into a placeholder page so callers
// always receive something to store and embed.
package scraper

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog/log"
)

// Page is the structured result of scraping one URL.
type Page struct {
	Title    string
	Content  string
	ImageURL *string
}

// Result wraps a Page with its degradation state. Degraded pages carry
// placeholder text instead of real content; Reason names the failure class
// so callers can distinguish a real page from a sentinel.
type Result struct {
	Page     Page
	Degraded bool
	Reason   string
}

// Degradation reasons.
const (
	ReasonTimeout    = "timeout"
	ReasonPageClosed = "page-closed"
	ReasonNavigation = "navigation"
)

const (
	defaultTitle   = "No title available"
	defaultContent = "No readable content could be extracted from this page."

	// Some sites refuse requests carrying an obvious bot agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// imageSelectors are probed in order; the first present value wins.
var imageSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:image"]`, "content"},
	{`meta[name="twitter:image"]`, "content"},
	{`meta[property="og:image:secure_url"]`, "content"},
	{`[itemprop="image"]`, "content"},
	{`link[rel="image_src"]`, "href"},
	{`link[rel="icon"]`, "href"},
	{`link[rel="shortcut icon"]`, "href"},
}

// Scraper fetches and extracts pages. Each Scrape call owns a disposable
// collector; a Scraper is safe for concurrent use.
type Scraper struct {
	timeout time.Duration
}

// New creates a Scraper with the given per-fetch budget. Zero or negative
// timeouts fall back to 90 seconds.
func New(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Scraper{timeout: timeout}
}

// Scrape fetches the URL and extracts title, body text, and a cover image.
// It never returns an error: failures produce a degraded Result with a
// descriptive placeholder page and a nil image.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) Result {
	base, err := url.Parse(pageURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return degraded(ReasonNavigation, "Navigation Failed",
			"The provided link is not a valid http(s) URL and could not be fetched.")
	}

	body, fetchErr := s.fetch(ctx, pageURL)
	if fetchErr != nil {
		return classifyFetchError(pageURL, fetchErr)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("scrape: document parse failed")
		return degraded(ReasonNavigation, "Navigation Failed",
			"The page was fetched but its document could not be parsed.")
	}

	// Field extraction is isolated per field: a failure in one never aborts
	// the others.
	return Result{Page: Page{
		Title:    extractTitle(doc),
		Content:  extractBody(doc),
		ImageURL: extractImage(doc, base),
	}}
}

// fetch runs one disposable collector against the URL and returns the raw
// response body. The collector is never shared across invocations.
func (s *Scraper) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.IgnoreRobotsTxt(),
	)
	c.SetRequestTimeout(s.timeout)

	var body []byte
	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := c.Visit(pageURL); err != nil && fetchErr == nil {
			fetchErr = err
		}
		c.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return body, fetchErr
}

// classifyFetchError maps a navigation failure onto the matching sentinel by
// message substring.
func classifyFetchError(pageURL string, err error) Result {
	msg := strings.ToLower(err.Error())
	log.Warn().Err(err).Str("url", pageURL).Msg("scrape: navigation failed")

	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		return degraded(ReasonTimeout, "Navigation Failed",
			"The page took too long to load and the request timed out.")
	case strings.Contains(msg, "detached") || strings.Contains(msg, "reset") || strings.Contains(msg, "closed"):
		return degraded(ReasonPageClosed, "Page Closed Unexpectedly",
			"The connection was closed before the page finished loading; the site may be blocking automated access.")
	default:
		return degraded(ReasonNavigation, "Navigation Failed",
			"The page could not be loaded: "+err.Error())
	}
}

func degraded(reason, title, content string) Result {
	return Result{
		Page:     Page{Title: title, Content: content, ImageURL: nil},
		Degraded: true,
		Reason:   reason,
	}
}

func extractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return defaultTitle
	}
	return title
}

// extractBody concatenates heading (h1-h3) and paragraph text, headings
// first, each node trimmed and whitespace-joined in document order.
func extractBody(doc *goquery.Document) string {
	var parts []string
	collect := func(_ int, sel *goquery.Selection) {
		if text := normalizeSpace(sel.Text()); text != "" {
			parts = append(parts, text)
		}
	}
	doc.Find("h1, h2, h3").Each(collect)
	doc.Find("p").Each(collect)

	if len(parts) == 0 {
		return defaultContent
	}
	return strings.Join(parts, " ")
}

// extractImage probes the metadata selectors in order, resolves the first
// present value against the page URL, and discards anything that is not a
// valid absolute http(s) URL.
func extractImage(doc *goquery.Document, base *url.URL) *string {
	for _, probe := range imageSelectors {
		raw, ok := doc.Find(probe.selector).First().Attr(probe.attr)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if resolved := ResolveImageURL(base, strings.TrimSpace(raw)); resolved != nil {
			return resolved
		}
	}
	return nil
}

// ResolveImageURL resolves raw against the page URL and returns it only when
// it is a syntactically valid absolute http(s) URL. Transient local
// references (blob:, data:) are never accepted.
func ResolveImageURL(base *url.URL, raw string) *string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "blob:") || strings.HasPrefix(lower, "data:") {
		return nil
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	abs := base.ResolveReference(ref)
	if (abs.Scheme != "http" && abs.Scheme != "https") || abs.Host == "" {
		return nil
	}
	out := abs.String()
	return &out
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
