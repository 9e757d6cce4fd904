package workspace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/blockgraph/internal/layout"
	"github.com/leapstack-labs/blockgraph/internal/loader"
	"github.com/leapstack-labs/blockgraph/internal/testutil"
	"github.com/leapstack-labs/blockgraph/pkg/core"
)

const pipelineYAML = `uuid: etl
blocks:
  - uuid: load
    type: data_loader
  - uuid: a
    type: transformer
    upstream_blocks: [load]
  - uuid: b
    type: transformer
    upstream_blocks: [load]
`

func newWorkspace(t *testing.T, content string) (*Workspace, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	w := New(path, layout.New(layout.DefaultOptions(), nil), testutil.NewTestLogger(t))
	return w, path
}

func TestWorkspace_NotLoaded(t *testing.T) {
	w, _ := newWorkspace(t, pipelineYAML)
	_, err := w.Snapshot(Query{})
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Nil(t, w.Pipeline())
}

func TestWorkspace_SnapshotIsMemoized(t *testing.T) {
	w, _ := newWorkspace(t, pipelineYAML)
	require.NoError(t, w.Reload())

	first, err := w.Snapshot(Query{Theme: "dark", Selected: []string{"b", "a"}})
	require.NoError(t, err)
	second, err := w.Snapshot(Query{Theme: "dark", Selected: []string{"a", "b"}})
	require.NoError(t, err)

	assert.Same(t, first.Graph, second.Graph)
	assert.Equal(t, "etl", first.Pipeline)
	assert.Equal(t, uint64(1), first.Version)

	other, err := w.Snapshot(Query{Theme: "light"})
	require.NoError(t, err)
	assert.NotSame(t, first.Graph, other.Graph)
}

func TestWorkspace_StatusInvalidatesMemo(t *testing.T) {
	w, _ := newWorkspace(t, pipelineYAML)
	require.NoError(t, w.Reload())

	before, err := w.Snapshot(Query{})
	require.NoError(t, err)

	w.SetStatus(loader.Status{
		"a": {Status: core.RunStatusRunning},
		"b": {Status: core.RunStatusInitial},
	})
	after, err := w.Snapshot(Query{})
	require.NoError(t, err)

	assert.Greater(t, after.Version, before.Version)
	assert.NotSame(t, before.Graph, after.Graph)

	// a and b are grouped; their statuses still reach the member nodes
	a, ok := after.Graph.Node("a")
	require.True(t, ok)
	assert.Equal(t, core.RunStatusRunning, a.Status)
	assert.Equal(t, layout.BorderDashed, a.Border.Style)
}

func TestWorkspace_ReloadKeepsPreviousOnError(t *testing.T) {
	w, path := newWorkspace(t, pipelineYAML)
	require.NoError(t, w.Reload())
	version := w.Version()

	require.NoError(t, os.WriteFile(path, []byte("blocks: [unclosed"), 0o600))
	err := w.Reload()
	require.Error(t, err)

	assert.Equal(t, version, w.Version())
	require.NotNil(t, w.Pipeline())
	assert.Equal(t, "etl", w.Pipeline().UUID)
}

func TestWorkspace_ConcurrentSnapshots(t *testing.T) {
	w, _ := newWorkspace(t, pipelineYAML)
	require.NoError(t, w.Reload())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				w.SetStatus(loader.Status{"a": {Status: core.RunStatusCompleted}})
			}
			snap, err := w.Snapshot(Query{Active: []string{"a"}})
			assert.NoError(t, err)
			assert.NotNil(t, snap.Graph)
		}(i)
	}
	wg.Wait()
}
