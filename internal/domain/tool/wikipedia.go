package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	wikipediaEndpoint = "https://en.wikipedia.org/w/api.php"
	wikipediaMaxPages = 3
)

// Wikipedia looks up encyclopedic summaries via the MediaWiki API.
// A single generator=search request returns both the matching page titles and
// their plain-text intro extracts.
type Wikipedia struct {
	endpoint string
	client   *http.Client
}

// NewWikipedia creates a Wikipedia tool with a modest timeout.
func NewWikipedia() *Wikipedia {
	return &Wikipedia{
		endpoint: wikipediaEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWikipediaWithEndpoint overrides the endpoint and client; used in tests.
func NewWikipediaWithEndpoint(endpoint string, client *http.Client) *Wikipedia {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Wikipedia{endpoint: endpoint, client: client}
}

func (w *Wikipedia) Name() string { return NameWikipedia }

func (w *Wikipedia) Description() string {
	return "Searches for detailed and encyclopedic information. Ideal for " +
		"concepts, biographies, historical events, and in-depth explanations."
}

type wikipediaResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Index   int    `json:"index"`
		} `json:"pages"`
	} `json:"query"`
}

// Invoke returns the intro extracts of the top matching pages as plain text.
func (w *Wikipedia) Invoke(ctx context.Context, argument string) (string, error) {
	query := strings.TrimSpace(argument)
	if query == "" {
		return "", fmt.Errorf("wikipedia: query is empty")
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("generator", "search")
	params.Set("gsrsearch", query)
	params.Set("gsrlimit", fmt.Sprintf("%d", wikipediaMaxPages))
	params.Set("prop", "extracts")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("wikipedia: build request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia: http %d", resp.StatusCode)
	}

	var decoded wikipediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("wikipedia: decode response: %w", err)
	}

	if len(decoded.Query.Pages) == 0 {
		return "No Wikipedia results found for: " + query, nil
	}
	return formatWikipediaPages(decoded), nil
}

func formatWikipediaPages(decoded wikipediaResponse) string {
	type page struct {
		title   string
		extract string
		index   int
	}

	pages := make([]page, 0, len(decoded.Query.Pages))
	for _, p := range decoded.Query.Pages {
		pages = append(pages, page{title: p.Title, extract: p.Extract, index: p.Index})
	}
	// relevance order from the search generator, not map order.
	sort.Slice(pages, func(i, j int) bool { return pages[i].index < pages[j].index })

	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Page: %s", p.title)
		if p.extract != "" {
			fmt.Fprintf(&b, "\nSummary: %s", p.extract)
		}
	}
	return b.String()
}
