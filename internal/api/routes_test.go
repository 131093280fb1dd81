package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/nvillagra/sage/internal/domain/agent"
	"github.com/nvillagra/sage/internal/domain/history"
	"github.com/nvillagra/sage/internal/domain/tool"
	"github.com/nvillagra/sage/internal/infra/sqlite"
)

type fixedRunner struct{ answer string }

func (f *fixedRunner) RunTurn(_ context.Context, conversation []agent.Message) ([]agent.Message, []agent.ToolInvocation) {
	return append(conversation, agent.Message{Role: agent.RoleAssistant, Content: f.answer}), nil
}

func newTestRouter(t *testing.T, jwtSecret string) http.Handler {
	t.Helper()

	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "routes_test.sqlite"))
	if err != nil {
		t.Fatalf("NewDB error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp error = %v", err)
	}

	return NewRouter(Deps{
		Runner:    &fixedRunner{answer: "hello"},
		Tools:     tool.DefaultRegistry(),
		Store:     history.NewStore(db),
		JWTSecret: jwtSecret,
	})
}

func TestRouter_PublicEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, "")

	for _, target := range []string{"/", "/health", "/chat", "/api/tools"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: status = %d; want 200", target, rec.Code)
		}
	}
}

func TestRouter_QueryEndToEnd(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, "")

	body, _ := json.Marshal(map[string]string{"question": "what is entropy"})
	req := httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "hello" {
		t.Errorf("answer = %q", resp.Answer)
	}
}

func TestRouter_HistoryOpenWithoutSecret(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d; want 200", rec.Code)
	}
}

func TestRouter_HistoryGatedWithSecret(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, "test-secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d; want 401", rec.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", rec.Code)
	}
}
