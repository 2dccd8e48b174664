package search

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// SourceNotFound is the sentinel attributed to an excerpt whose source
// could not be resolved.
const SourceNotFound = "source not found"

// Resolver attributes a source URL to an excerpt via a top-1 web
// search. Resolution never fails: every error path degrades to the
// SourceNotFound sentinel.
type Resolver struct {
	client     *Client
	httpClient Doer
	logger     *log.Logger
}

// NewResolver creates a new source resolver
func NewResolver(client *Client, logger *log.Logger) *Resolver {
	return &Resolver{
		client: client,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// SetHTTPClient replaces the HTTP client used for page fetches.
func (r *Resolver) SetHTTPClient(doer Doer) {
	r.httpClient = doer
}

// Resolve queries the search API with the excerpt verbatim and returns
// the first organic result's link, or SourceNotFound when the search
// fails or returns nothing.
func (r *Resolver) Resolve(ctx context.Context, excerpt string) string {
	results, err := r.client.Search(ctx, excerpt, 1)
	if err != nil {
		r.logger.Printf("Source lookup failed: %v", err)
		return SourceNotFound
	}
	if len(results) == 0 || results[0].Link == "" {
		return SourceNotFound
	}
	return results[0].Link
}

// Confirm fetches the resolved page and reports whether the excerpt
// actually occurs in its text. Any failure degrades to false.
func (r *Resolver) Confirm(ctx context.Context, link, excerpt string) bool {
	if link == "" || link == SourceNotFound || excerpt == "" {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return false
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Printf("Source fetch failed for %s: %v", link, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return false
	}

	var pageText strings.Builder
	collectText(doc, &pageText)

	// Whitespace runs differ between the page markup and the excerpt;
	// compare on collapsed whitespace.
	page := strings.Join(strings.Fields(pageText.String()), " ")
	needle := strings.Join(strings.Fields(excerpt), " ")

	return needle != "" && strings.Contains(page, needle)
}

// collectText walks the parsed HTML tree gathering text nodes.
func collectText(n *html.Node, out *strings.Builder) {
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			out.WriteString(text + " ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}
