package ui

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/blockgraph/internal/layout"
	"github.com/leapstack-labs/blockgraph/internal/testutil"
	"github.com/leapstack-labs/blockgraph/internal/theme"
	"github.com/leapstack-labs/blockgraph/internal/ui/workspace"
)

const pipelineYAML = `uuid: etl
blocks:
  - uuid: load
    type: data_loader
  - uuid: clean
    type: transformer
    upstream_blocks: [load]
`

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pipelineYAML), 0o600))

	logger := testutil.NewTestLogger(t)
	ws := workspace.New(path, layout.New(layout.DefaultOptions(), theme.Lookup{}), logger)
	require.NoError(t, ws.Reload())

	return NewServer(Config{
		Workspace:     ws,
		Port:          0,
		Watch:         true,
		SessionSecret: "test-secret",
		Theme:         theme.Light,
		Logger:        logger,
	}), path
}

func TestServer_Handler(t *testing.T) {
	s, _ := newTestServer(t)
	handler, err := s.Handler()
	require.NoError(t, err)

	ts := httptest.NewServer(handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, err = http.Get(ts.URL + "/api/graph")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"theme":"light"`)

	resp, err = http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWatchDirs(t *testing.T) {
	dirs := watchDirs(filepath.Join("pipelines", "etl", "metadata.yaml"))
	assert.Equal(t, []string{
		filepath.Join("pipelines", "etl"),
		filepath.Join("pipelines", "etl", "data_loaders"),
		filepath.Join("pipelines", "etl", "transformers"),
		filepath.Join("pipelines", "etl", "data_exporters"),
	}, dirs)
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"yaml write", fsnotify.Event{Name: "metadata.yaml", Op: fsnotify.Write}, true},
		{"yml create", fsnotify.Event{Name: "load.yml", Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: "metadata.yaml", Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: "metadata.yaml", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "metadata.yaml", Op: fsnotify.Remove}, false},
		{"python file", fsnotify.Event{Name: "load.py", Op: fsnotify.Write}, false},
		{"editor swap", fsnotify.Event{Name: ".metadata.yaml.swp", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.event))
		})
	}
}

func TestServer_WatchReloadsOnChange(t *testing.T) {
	s, path := newTestServer(t)
	updates := s.Notifier().Subscribe()
	defer s.Notifier().Unsubscribe(updates)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.watchFiles(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Give the watcher time to register the directory
	time.Sleep(50 * time.Millisecond)
	version := s.workspace.Version()

	changed := pipelineYAML + `  - uuid: export
    type: data_exporter
    upstream_blocks: [clean]
`
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o600))

	select {
	case <-updates:
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast after pipeline change")
	}

	assert.Greater(t, s.workspace.Version(), version)
	assert.Len(t, s.workspace.Pipeline().Blocks, 3)
}

func TestServer_ReloadKeepsLastGoodPipeline(t *testing.T) {
	s, path := newTestServer(t)
	logger, logs := testutil.NewCaptureLogger()
	s.logger = logger
	updates := s.Notifier().Subscribe()
	defer s.Notifier().Unsubscribe(updates)

	require.NoError(t, os.WriteFile(path, []byte("blocks: ["), 0o600))
	s.reload()

	select {
	case <-updates:
		t.Error("broken pipeline must not be broadcast")
	default:
	}
	assert.Len(t, s.workspace.Pipeline().Blocks, 2)
	assert.Contains(t, logs.String(), "reload failed")
}
