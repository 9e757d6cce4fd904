// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/blockgraph/internal/cli/output"
)

// PipelineYAML is a small pipeline with a sibling group under load, a merge
// into report and a callback on clean_orders.
const PipelineYAML = `uuid: etl
name: ETL
type: python
blocks:
  - uuid: load
    type: data_loader
    color: blue
    tags: [daily]
  - uuid: clean_orders
    type: transformer
    upstream_blocks: [load]
  - uuid: clean_users
    type: transformer
    upstream_blocks: [load]
  - uuid: report
    type: data_exporter
    upstream_blocks: [clean_orders, clean_users]
  - uuid: audit
    type: custom
    upstream_blocks: [report]
  - uuid: archive
    type: custom
    upstream_blocks: [report]
callbacks:
  - uuid: notify
    type: callback
    upstream_blocks: [clean_orders]
`

// StatusJSON marks clean_orders running and report queued.
const StatusJSON = `{
  "load": {"status": "completed", "runtime": 0.4},
  "clean_orders": {"status": "running"},
  "report": {"status": "initial"}
}`

// SetupTestPipeline writes PipelineYAML and StatusJSON into a temporary
// directory and returns their paths.
func SetupTestPipeline(t *testing.T) (pipelinePath, statusPath string) {
	t.Helper()

	dir := t.TempDir()
	pipelinePath = filepath.Join(dir, "metadata.yaml")
	statusPath = filepath.Join(dir, "status.json")

	if err := os.WriteFile(pipelinePath, []byte(PipelineYAML), 0o600); err != nil {
		t.Fatalf("failed to write pipeline: %v", err)
	}
	if err := os.WriteFile(statusPath, []byte(StatusJSON), 0o600); err != nil {
		t.Fatalf("failed to write status: %v", err)
	}
	return pipelinePath, statusPath
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
