package handlers

import (
	"net/http"

	"github.com/nvillagra/sage/internal/domain/tool"
	"github.com/nvillagra/sage/internal/version"
)

// MetaHandler serves the informational endpoints: root descriptor, health,
// and the static tool catalog.
type MetaHandler struct {
	tools *tool.Registry
}

func NewMetaHandler(tools *tool.Registry) *MetaHandler {
	return &MetaHandler{tools: tools}
}

type healthResponse struct {
	Status           string   `json:"status"`
	AgentInitialized bool     `json:"agent_initialized"`
	AvailableTools   []string `json:"available_tools"`
}

type toolDescriptor struct {
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Description string `json:"description"`
}

// displayNames maps registry names to the human-facing labels the health
// endpoint reports.
var displayNames = map[string]string{
	tool.NameWebSearch:  "Web Search (DuckDuckGo)",
	tool.NameWikipedia:  "Wikipedia",
	tool.NameArxiv:      "ArXiv",
	tool.NameCalculator: "Scientific Calculator",
}

// Root handles GET /: API name, version, and endpoint map.
func (h *MetaHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "Scientific Research Agent API",
		"version":     version.Version,
		"description": "An autonomous AI agent specialized in scientific research",
		"endpoints": map[string]string{
			"health":  "/health",
			"query":   "/api/query",
			"chat":    "/api/chat",
			"tools":   "/api/tools",
			"history": "/api/history",
			"widget":  "/chat",
		},
	})
}

// Health handles GET /health.
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	available := make([]string, 0, 4)
	for _, name := range h.tools.Names() {
		if label, ok := displayNames[name]; ok {
			available = append(available, label)
		} else {
			available = append(available, name)
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		AgentInitialized: true,
		AvailableTools:   available,
	})
}

// Tools handles GET /api/tools with the static four-tool catalog.
func (h *MetaHandler) Tools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tools": []toolDescriptor{
			{
				Name:        "Web Search",
				Provider:    "DuckDuckGo",
				Description: "Searches for up-to-date information on the internet. Use for news, recent events, and general information.",
			},
			{
				Name:        "Wikipedia",
				Provider:    "Wikipedia API",
				Description: "Searches for detailed and encyclopedic information. Ideal for concepts, biographies, historical events, and in-depth explanations.",
			},
			{
				Name:        "ArXiv",
				Provider:    "ArXiv API",
				Description: "Searches and retrieves scientific articles. Use to find academic papers, recent research, and scientific literature.",
			},
			{
				Name:        "Scientific Calculator",
				Provider:    "Custom",
				Description: "Performs complex mathematical calculations including trigonometric, logarithmic, and exponential functions.",
			},
		},
	})
}
