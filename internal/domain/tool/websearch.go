package tool

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	webSearchEndpoint  = "https://lite.duckduckgo.com/lite/"
	webSearchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	webSearchMaxHits   = 5
)

// WebSearch looks up current information via DuckDuckGo's lite HTML
// interface, which is stable enough to scrape without a browser.
type WebSearch struct {
	endpoint string
	client   *http.Client
}

// NewWebSearch creates a WebSearch tool with a modest timeout.
func NewWebSearch() *WebSearch {
	return &WebSearch{
		endpoint: webSearchEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWebSearchWithEndpoint overrides the endpoint and client; used in tests.
func NewWebSearchWithEndpoint(endpoint string, client *http.Client) *WebSearch {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &WebSearch{endpoint: endpoint, client: client}
}

func (w *WebSearch) Name() string { return NameWebSearch }

func (w *WebSearch) Description() string {
	return "Searches for up-to-date information on the internet. " +
		"Use for news, recent events, and general information."
}

// Invoke scrapes the lite results page and returns a plain-text digest of the
// top hits.
func (w *WebSearch) Invoke(ctx context.Context, argument string) (string, error) {
	query := strings.TrimSpace(argument)
	if query == "" {
		return "", fmt.Errorf("web search: query is empty")
	}

	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("web search: build request: %w", err)
	}
	req.Header.Set("User-Agent", webSearchUserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("web search: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("web search: http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("web search: read response: %w", err)
	}

	results := parseLiteResults(string(body))
	if len(results) == 0 {
		return "No web results found for: " + query, nil
	}
	return formatWebResults(results), nil
}

type webResult struct {
	title   string
	url     string
	snippet string
}

var (
	// <a rel="nofollow" href="URL" class='result-link'>TITLE</a>
	// Attribute order varies between the two patterns.
	liteLinkRe    = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	liteLinkAltRe = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>([^<]+)</a>`)
	liteSnippetRe = regexp.MustCompile(`<td[^>]*class=['"]result-snippet['"][^>]*>([^<]+)</td>`)
)

// parseLiteResults extracts results from the DuckDuckGo lite HTML, which
// pairs result-link anchors with result-snippet cells.
func parseLiteResults(page string) []webResult {
	matches := liteLinkRe.FindAllStringSubmatch(page, -1)
	if len(matches) == 0 {
		matches = liteLinkAltRe.FindAllStringSubmatch(page, -1)
	}
	snippets := liteSnippetRe.FindAllStringSubmatch(page, -1)

	var results []webResult
	for i, m := range matches {
		r := webResult{
			url:   strings.TrimSpace(m[1]),
			title: html.UnescapeString(strings.TrimSpace(m[2])),
		}
		if r.url == "" || r.title == "" {
			continue
		}
		if i < len(snippets) {
			r.snippet = html.UnescapeString(strings.TrimSpace(snippets[i][1]))
		}
		results = append(results, r)
		if len(results) >= webSearchMaxHits {
			break
		}
	}
	return results
}

func formatWebResults(results []webResult) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s\n%s", r.title, r.url)
		if r.snippet != "" {
			b.WriteString("\n")
			b.WriteString(r.snippet)
		}
	}
	return b.String()
}
