package tool

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	arxivEndpoint   = "https://export.arxiv.org/api/query"
	arxivMaxResults = 3
)

// Arxiv retrieves scientific articles via the arXiv Atom API.
type Arxiv struct {
	endpoint string
	client   *http.Client
}

// NewArxiv creates an Arxiv tool with a modest timeout.
func NewArxiv() *Arxiv {
	return &Arxiv{
		endpoint: arxivEndpoint,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NewArxivWithEndpoint overrides the endpoint and client; used in tests.
func NewArxivWithEndpoint(endpoint string, client *http.Client) *Arxiv {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Arxiv{endpoint: endpoint, client: client}
}

func (a *Arxiv) Name() string { return NameArxiv }

func (a *Arxiv) Description() string {
	return "Searches and retrieves scientific articles. Use to find academic " +
		"papers, recent research, and scientific literature."
}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
}

// Invoke queries the Atom API and formats the top entries as plain text.
func (a *Arxiv) Invoke(ctx context.Context, argument string) (string, error) {
	query := strings.TrimSpace(argument)
	if query == "" {
		return "", fmt.Errorf("arxiv: query is empty")
	}

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", arxivMaxResults))
	params.Set("sortBy", "relevance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("arxiv: build request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("arxiv: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("arxiv: http %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return "", fmt.Errorf("arxiv: decode feed: %w", err)
	}

	if len(feed.Entries) == 0 {
		return "No arXiv results found for: " + query, nil
	}
	return formatArxivEntries(feed.Entries), nil
}

func formatArxivEntries(entries []arxivEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}

		names := make([]string, 0, len(e.Authors))
		for _, au := range e.Authors {
			names = append(names, strings.TrimSpace(au.Name))
		}

		fmt.Fprintf(&b, "Published: %s\n", strings.TrimSpace(e.Published))
		fmt.Fprintf(&b, "Title: %s\n", collapseWhitespace(e.Title))
		fmt.Fprintf(&b, "Authors: %s\n", strings.Join(names, ", "))
		fmt.Fprintf(&b, "Link: %s\n", strings.TrimSpace(e.ID))
		fmt.Fprintf(&b, "Summary: %s", collapseWhitespace(e.Summary))
	}
	return b.String()
}

// collapseWhitespace flattens the newline-wrapped text arXiv returns inside
// title and summary elements.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
