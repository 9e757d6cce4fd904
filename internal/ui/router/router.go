// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	graphFeature "github.com/leapstack-labs/blockgraph/internal/ui/features/graph"
	"github.com/leapstack-labs/blockgraph/internal/ui/notifier"
	"github.com/leapstack-labs/blockgraph/internal/ui/workspace"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	ws *workspace.Workspace,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	defaultTheme string,
	logger *slog.Logger,
) error {
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Feature routes
	if err := graphFeature.SetupRoutes(router, ws, sessionStore, notify, defaultTheme, logger); err != nil {
		return err
	}

	return nil
}
