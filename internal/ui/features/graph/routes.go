package graph

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/blockgraph/internal/ui/notifier"
	"github.com/leapstack-labs/blockgraph/internal/ui/workspace"
)

// SetupRoutes registers the graph feature routes.
func SetupRoutes(
	router chi.Router,
	ws *workspace.Workspace,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	defaultTheme string,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(ws, sessionStore, notify, defaultTheme, logger)

	router.Route("/api", func(r chi.Router) {
		r.Get("/graph", handlers.Graph)
		// SSE route (initial graph, then live updates)
		r.Get("/graph/updates", handlers.GraphUpdates)
		r.Get("/status", handlers.Status)
		r.Put("/status", handlers.PutStatus)
		r.Put("/theme", handlers.PutTheme)
	})

	return nil
}
