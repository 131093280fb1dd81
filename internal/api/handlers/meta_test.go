package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nvillagra/sage/internal/domain/tool"
)

func TestMetaHandler_Health(t *testing.T) {
	t.Parallel()

	h := NewMetaHandler(tool.DefaultRegistry())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" || !resp.AgentInitialized {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.AvailableTools) != 4 {
		t.Errorf("available_tools = %v; want 4 entries", resp.AvailableTools)
	}
	joined := strings.Join(resp.AvailableTools, "|")
	for _, label := range []string{"Web Search (DuckDuckGo)", "Wikipedia", "ArXiv", "Scientific Calculator"} {
		if !strings.Contains(joined, label) {
			t.Errorf("missing tool label %q in %v", label, resp.AvailableTools)
		}
	}
}

func TestMetaHandler_Tools(t *testing.T) {
	t.Parallel()

	h := NewMetaHandler(tool.DefaultRegistry())

	rec := httptest.NewRecorder()
	h.Tools(rec, httptest.NewRequest(http.MethodGet, "/api/tools", nil))

	var resp struct {
		Tools []toolDescriptor `json:"tools"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Tools) != 4 {
		t.Fatalf("tools = %d; want 4", len(resp.Tools))
	}
	if resp.Tools[0].Name != "Web Search" || resp.Tools[0].Provider != "DuckDuckGo" {
		t.Errorf("first tool = %+v", resp.Tools[0])
	}
}

func TestMetaHandler_Root(t *testing.T) {
	t.Parallel()

	h := NewMetaHandler(tool.DefaultRegistry())

	rec := httptest.NewRecorder()
	h.Root(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp struct {
		Name      string            `json:"name"`
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Name == "" {
		t.Error("name missing from root descriptor")
	}
	for _, path := range []string{"/health", "/api/query", "/api/chat", "/api/tools"} {
		found := false
		for _, v := range resp.Endpoints {
			if v == path {
				found = true
			}
		}
		if !found {
			t.Errorf("endpoint map missing %s", path)
		}
	}
}

func TestWidget_ServesHTML(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Widget(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "/api/chat") {
		t.Error("widget page does not post to /api/chat")
	}
}
