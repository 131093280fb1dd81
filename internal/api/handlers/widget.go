package handlers

import (
	_ "embed"
	"net/http"
)

//go:embed chat.html
var chatPage []byte

// Widget handles GET /chat with the embedded single-page chat client.
// The page keeps the conversation in the browser and posts the full message
// history to /api/chat on every turn.
func Widget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(headerContentType, "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(chatPage)
}
