// Package graph serves the assembled pipeline graph over JSON and SSE.
package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/blockgraph/internal/loader"
	"github.com/leapstack-labs/blockgraph/internal/theme"
	"github.com/leapstack-labs/blockgraph/internal/ui/notifier"
	"github.com/leapstack-labs/blockgraph/internal/ui/workspace"
)

// maxBodyBytes bounds PUT request bodies.
const maxBodyBytes = 1 << 20

// Handlers provides HTTP handlers for the graph feature.
type Handlers struct {
	workspace    *workspace.Workspace
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	defaultTheme string
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(ws *workspace.Workspace, sessionStore sessions.Store, notify *notifier.Notifier, defaultTheme string, logger *slog.Logger) *Handlers {
	if !theme.Valid(defaultTheme) {
		defaultTheme = theme.Default
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		workspace:    ws,
		sessionStore: sessionStore,
		notifier:     notify,
		defaultTheme: defaultTheme,
		logger:       logger,
	}
}

// viewSignals are the datastar signals a client sends with the updates stream.
type viewSignals struct {
	Selected []string `json:"selected"`
	Active   []string `json:"active"`
	Theme    string   `json:"theme"`
}

// query builds the workspace query from the session, datastar signals and
// query parameters, later sources winning.
func (h *Handlers) query(r *http.Request, signals viewSignals) workspace.Query {
	q := workspace.Query{
		Theme:    sessionTheme(h.sessionStore, r, h.defaultTheme),
		Selected: signals.Selected,
		Active:   signals.Active,
	}
	if theme.Valid(signals.Theme) {
		q.Theme = signals.Theme
	}
	if ids := splitParam(r, "selected"); len(ids) > 0 {
		q.Selected = ids
	}
	if ids := splitParam(r, "active"); len(ids) > 0 {
		q.Active = ids
	}
	return q
}

// Graph returns the assembled graph as JSON.
func (h *Handlers) Graph(w http.ResponseWriter, r *http.Request) {
	snap, err := h.workspace.Snapshot(h.query(r, viewSignals{}))
	if err != nil {
		h.snapshotError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GraphUpdates is the long-lived SSE endpoint. It patches the "graph" signal
// on connect and again whenever the workspace changes.
func (h *Handlers) GraphUpdates(w http.ResponseWriter, r *http.Request) {
	var signals viewSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, fmt.Sprintf("invalid signals: %v", err), http.StatusBadRequest)
		return
	}
	q := h.query(r, signals)

	sse := datastar.NewSSE(w, r)

	// Subscribe before the first send so no change is missed in between
	updates := h.notifier.Subscribe()
	defer h.notifier.Unsubscribe(updates)

	if err := h.sendGraph(sse, q); err != nil {
		_ = sse.ConsoleError(err)
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-updates:
			if !ok {
				return
			}
			if err := h.sendGraph(sse, q); err != nil {
				_ = sse.ConsoleError(err)
				// Keep the stream open; the next change may load cleanly
			}
		}
	}
}

func (h *Handlers) sendGraph(sse *datastar.ServerSentEventGenerator, q workspace.Query) error {
	snap, err := h.workspace.Snapshot(q)
	if err != nil {
		return err
	}
	return sse.MarshalAndPatchSignals(map[string]any{
		"graph":   snap.Graph,
		"version": snap.Version,
		"theme":   snap.Theme,
	})
}

// Status returns the current run status overlay.
func (h *Handlers) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.workspace.Status())
}

// PutStatus replaces the run status overlay and notifies every client.
func (h *Handlers) PutStatus(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read body: %v", err), http.StatusBadRequest)
		return
	}

	status, err := loader.ParseStatusJSON(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.workspace.SetStatus(status)
	h.logger.Debug("status replaced", "blocks", len(status), "listeners", h.notifier.Len())
	h.notifier.Broadcast()
	w.WriteHeader(http.StatusNoContent)
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// PutTheme stores the browser's theme in its session.
func (h *Handlers) PutTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return
	}
	if !theme.Valid(req.Theme) {
		http.Error(w, fmt.Sprintf("unknown theme %q", req.Theme), http.StatusBadRequest)
		return
	}

	// A session that fails to decode (e.g. rotated secret) is replaced
	sess, _ := h.sessionStore.Get(r, SessionName)
	sess.Values[themeKey] = req.Theme
	if err := sess.Save(r, w); err != nil {
		h.logger.Error("failed to save session", "error", err)
		http.Error(w, "failed to save session", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) snapshotError(w http.ResponseWriter, err error) {
	if errors.Is(err, workspace.ErrNotLoaded) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	h.logger.Error("failed to assemble graph", "error", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
