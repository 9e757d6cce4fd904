// Package workspace holds the pipeline served by the UI and memoizes the
// graphs assembled from it.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/leapstack-labs/blockgraph/internal/layout"
	"github.com/leapstack-labs/blockgraph/internal/loader"
	"github.com/leapstack-labs/blockgraph/pkg/core"
)

// ErrNotLoaded is returned when no pipeline has been loaded successfully yet.
var ErrNotLoaded = errors.New("pipeline not loaded")

// maxMemo bounds the number of memoized graphs per pipeline version.
const maxMemo = 64

// Query selects the view of the pipeline a client renders.
type Query struct {
	Theme    string
	Selected []string
	Active   []string
}

func (q Query) key(version uint64) string {
	return strings.Join([]string{
		strconv.FormatUint(version, 10),
		q.Theme,
		joinSorted(q.Selected),
		joinSorted(q.Active),
	}, "|")
}

func joinSorted(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Snapshot is one assembled view with the version it was built from.
type Snapshot struct {
	Version  uint64        `json:"version"`
	Pipeline string        `json:"pipeline"`
	Theme    string        `json:"theme"`
	Graph    *layout.Graph `json:"graph"`
}

// Workspace is safe for concurrent use.
type Workspace struct {
	path   string
	engine *layout.Engine
	logger *slog.Logger

	mu       sync.RWMutex
	pipeline *core.Pipeline
	status   loader.Status
	version  uint64
	memo     map[string]*layout.Graph
}

// New creates a Workspace for the pipeline file at path. Call Reload to load it.
func New(path string, engine *layout.Engine, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Workspace{
		path:   path,
		engine: engine,
		logger: logger,
		memo:   make(map[string]*layout.Graph),
	}
}

// Path returns the pipeline file path.
func (w *Workspace) Path() string { return w.path }

// Reload re-reads the pipeline file. On failure the previously loaded
// pipeline stays in place.
func (w *Workspace) Reload() error {
	p, err := loader.LoadPipeline(w.path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", w.path, err)
	}
	w.SetPipeline(p)
	return nil
}

// SetPipeline replaces the pipeline and invalidates memoized graphs.
func (w *Workspace) SetPipeline(p *core.Pipeline) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pipeline = p
	w.bumpLocked()
	w.logger.Debug("pipeline loaded", "uuid", p.UUID, "blocks", len(p.Blocks), "version", w.version)
}

// SetStatus replaces the run status and invalidates memoized graphs.
func (w *Workspace) SetStatus(status loader.Status) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
	w.bumpLocked()
	w.logger.Debug("status updated", "blocks", len(status), "version", w.version)
}

func (w *Workspace) bumpLocked() {
	w.version++
	w.memo = make(map[string]*layout.Graph)
}

// Status returns a copy of the current run status.
func (w *Workspace) Status() loader.Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(loader.Status, len(w.status))
	for id, s := range w.status {
		out[id] = s
	}
	return out
}

// Version increases on every pipeline or status change.
func (w *Workspace) Version() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.version
}

// Pipeline returns the current pipeline, or nil before the first load.
func (w *Workspace) Pipeline() *core.Pipeline {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pipeline
}

// Snapshot assembles, or returns the memoized, graph for q.
// The returned graph is shared and must not be modified.
func (w *Workspace) Snapshot(q Query) (Snapshot, error) {
	w.mu.RLock()
	p, status, version := w.pipeline, w.status, w.version
	cached, ok := w.memo[q.key(version)]
	w.mu.RUnlock()

	if p == nil {
		return Snapshot{}, ErrNotLoaded
	}
	snap := Snapshot{Version: version, Pipeline: p.UUID, Theme: q.Theme, Graph: cached}
	if ok {
		return snap, nil
	}

	in := layout.Input{
		Pipeline: p,
		Active:   layout.NewSet(q.Active...),
		Selected: layout.NewSet(q.Selected...),
		Queued:   layout.NewSet(status.Queued()...),
		Theme:    q.Theme,
	}
	if len(status) > 0 {
		in.Status = status
	}
	snap.Graph = w.engine.Assemble(in)

	w.mu.Lock()
	// Only memoize if nothing changed while assembling
	if w.version == version {
		if len(w.memo) >= maxMemo {
			w.memo = make(map[string]*layout.Graph)
		}
		w.memo[q.key(version)] = snap.Graph
	}
	w.mu.Unlock()

	return snap, nil
}
