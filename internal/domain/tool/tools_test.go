package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCalculator_Invoke(t *testing.T) {
	t.Parallel()

	c := NewCalculator()
	got, err := c.Invoke(context.Background(), "sqrt(16) + 4")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if got != "8.0" {
		t.Errorf("result = %q, want 8.0", got)
	}
}

func TestCalculator_SoftErrorStaysInText(t *testing.T) {
	t.Parallel()

	c := NewCalculator()
	got, err := c.Invoke(context.Background(), "1/0")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if !strings.HasPrefix(got, "Calculation error:") {
		t.Errorf("result = %q, want Calculation error prefix", got)
	}
}

const liteResultsPage = `<html><body><table>
<tr><td><a rel="nofollow" class='result-link' href="https://example.org/fusion">Fusion breakthrough announced</a></td></tr>
<tr><td class='result-snippet'>Scientists report net energy gain in latest experiment.</td></tr>
<tr><td><a rel="nofollow" class='result-link' href="https://example.org/iter">ITER project update</a></td></tr>
<tr><td class='result-snippet'>Construction milestones for the tokamak.</td></tr>
</table></body></html>`

func TestWebSearch_Invoke(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if q := r.PostForm.Get("q"); q != "fusion news" {
			t.Errorf("query = %q, want fusion news", q)
		}
		_, _ = w.Write([]byte(liteResultsPage))
	}))
	defer srv.Close()

	ws := NewWebSearchWithEndpoint(srv.URL, srv.Client())
	got, err := ws.Invoke(context.Background(), "fusion news")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	for _, want := range []string{
		"Fusion breakthrough announced",
		"https://example.org/fusion",
		"net energy gain",
		"ITER project update",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("result missing %q:\n%s", want, got)
		}
	}
}

func TestWebSearch_HTTPErrorPropagates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ws := NewWebSearchWithEndpoint(srv.URL, srv.Client())
	if _, err := ws.Invoke(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for http 503")
	}
}

func TestWebSearch_EmptyQuery(t *testing.T) {
	t.Parallel()

	ws := NewWebSearch()
	if _, err := ws.Invoke(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

const wikipediaBody = `{"query":{"pages":{
"100":{"title":"Entropy","extract":"Entropy is a scientific concept associated with disorder.","index":1},
"200":{"title":"Entropy (information theory)","extract":"A measure of uncertainty.","index":2}
}}}`

func TestWikipedia_Invoke(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("generator") != "search" || q.Get("gsrsearch") != "what is entropy" {
			t.Errorf("unexpected query params: %v", q)
		}
		_, _ = w.Write([]byte(wikipediaBody))
	}))
	defer srv.Close()

	wp := NewWikipediaWithEndpoint(srv.URL, srv.Client())
	got, err := wp.Invoke(context.Background(), "what is entropy")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if !strings.Contains(got, "Page: Entropy") || !strings.Contains(got, "disorder") {
		t.Errorf("unexpected result:\n%s", got)
	}
	// relevance order, not map order.
	if strings.Index(got, "Page: Entropy") > strings.Index(got, "information theory") {
		t.Errorf("pages not in relevance order:\n%s", got)
	}
}

func TestWikipedia_NoResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"pages":{}}}`))
	}))
	defer srv.Close()

	wp := NewWikipediaWithEndpoint(srv.URL, srv.Client())
	got, err := wp.Invoke(context.Background(), "zxqv")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if !strings.Contains(got, "No Wikipedia results") {
		t.Errorf("result = %q, want no-results message", got)
	}
}

const arxivFeedBody = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <published>2017-06-12T17:57:34Z</published>
    <title>Attention Is All
 You Need</title>
    <summary>The dominant sequence transduction models are based on complex
 recurrent or convolutional neural networks.</summary>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`

func TestArxiv_Invoke(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("search_query"); q != "all:attention transformers" {
			t.Errorf("search_query = %q", q)
		}
		_, _ = w.Write([]byte(arxivFeedBody))
	}))
	defer srv.Close()

	a := NewArxivWithEndpoint(srv.URL, srv.Client())
	got, err := a.Invoke(context.Background(), "attention transformers")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	for _, want := range []string{
		"Title: Attention Is All You Need",
		"Authors: Ashish Vaswani, Noam Shazeer",
		"Link: http://arxiv.org/abs/1706.03762v7",
		"Published: 2017-06-12T17:57:34Z",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("result missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\n recurrent") {
		t.Errorf("summary whitespace not collapsed:\n%s", got)
	}
}

func TestArxiv_NoResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`))
	}))
	defer srv.Close()

	a := NewArxivWithEndpoint(srv.URL, srv.Client())
	got, err := a.Invoke(context.Background(), "zxqv")
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if !strings.Contains(got, "No arXiv results") {
		t.Errorf("result = %q, want no-results message", got)
	}
}
