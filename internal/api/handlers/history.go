package handlers

import (
	"net/http"

	"github.com/nvillagra/sage/internal/domain/history"
)

// HistoryHandler serves recorded research turns.
type HistoryHandler struct {
	store *history.Store
}

func NewHistoryHandler(store *history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

type historyMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type historyResponse struct {
	Data []history.Turn `json:"data"`
	Meta historyMeta    `json:"meta"`
}

// List handles GET /api/history with limit/offset pagination, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	turns, total, err := h.store.List(r.Context(), params.Limit, params.Offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Data: turns,
		Meta: historyMeta{Total: total, Limit: params.Limit, Offset: params.Offset},
	})
}
