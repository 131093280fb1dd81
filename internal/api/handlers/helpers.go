// Package handlers contains the HTTP handlers for the sage API.
package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/nvillagra/sage/internal/domain/agent"
)

const (
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"

	errFailedToEncode = "failed to encode response"
)

// paginationParams holds parsed limit and offset values.
type paginationParams struct {
	Limit  int
	Offset int
}

const (
	defaultPaginationLimit = 20
	maxPaginationLimit     = 100
)

// parsePaginationParams extracts and validates limit/offset from URL query params.
func parsePaginationParams(r *http.Request) paginationParams {
	limit := defaultPaginationLimit
	offset := 0

	if lim, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && lim > 0 {
		if lim > maxPaginationLimit {
			lim = maxPaginationLimit
		}
		limit = lim
	}

	if off, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && off >= 0 {
		offset = off
	}

	return paginationParams{Limit: limit, Offset: offset}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		writeError(w, http.StatusInternalServerError, errFailedToEncode)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}

// processingSeconds converts an elapsed duration to seconds rounded to two
// decimals, the unit the API reports.
func processingSeconds(elapsed time.Duration) float64 {
	return math.Round(elapsed.Seconds()*100) / 100
}

// toolsUsed collects the distinct tool names from a turn's invocations.
// Returns nil when no tool fired so the field is omitted from JSON.
func toolsUsed(invocations []agent.ToolInvocation) []string {
	if len(invocations) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(invocations))
	names := make([]string, 0, len(invocations))
	for _, inv := range invocations {
		if _, dup := seen[inv.Tool]; dup {
			continue
		}
		seen[inv.Tool] = struct{}{}
		names = append(names, inv.Tool)
	}
	return names
}

// lastAssistantMessage returns the content of the newest assistant message,
// or empty when the conversation has none.
func lastAssistantMessage(conversation []agent.Message) string {
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Role == agent.RoleAssistant {
			return conversation[i].Content
		}
	}
	return ""
}
