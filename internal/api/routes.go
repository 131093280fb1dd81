// Package api wires the chi router for the sage HTTP surface.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nvillagra/sage/internal/api/handlers"
	apmiddleware "github.com/nvillagra/sage/internal/api/middleware"
	"github.com/nvillagra/sage/internal/domain/history"
	"github.com/nvillagra/sage/internal/domain/tool"
	"github.com/nvillagra/sage/internal/infra/eventbus"
)

// Deps carries the constructed collaborators into the router. Store and Bus
// are optional: without a store the history endpoint is absent, without a
// bus turns are simply not recorded.
type Deps struct {
	Runner handlers.TurnRunner
	Tools  *tool.Registry
	Store  *history.Store
	Bus    eventbus.EventBus

	// JWTSecret gates /api/history when non-empty.
	JWTSecret string
}

// NewRouter creates and configures the chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	meta := handlers.NewMetaHandler(deps.Tools)
	agentHandler := handlers.NewAgentHandler(deps.Runner, deps.Bus)

	r.Get("/", meta.Root)
	r.Get("/health", meta.Health)
	r.Get("/chat", handlers.Widget)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tools", meta.Tools)
		r.Post("/query", agentHandler.Query)
		r.Post("/chat", agentHandler.Chat)

		if deps.Store != nil {
			historyHandler := handlers.NewHistoryHandler(deps.Store)
			r.With(apmiddleware.HistoryAuth(deps.JWTSecret)).Get("/history", historyHandler.List)
		}
	})

	return r
}
