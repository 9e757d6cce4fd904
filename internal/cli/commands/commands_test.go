// Package commands_test provides tests for CLI command creation.
package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLayoutCommand(t *testing.T) {
	cmd := NewLayoutCommand()

	assert.Equal(t, "layout <pipeline.yaml>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Long, "Long should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist (output is a global flag on root, not local)
	flags := []string{"status", "active", "selected", "queued", "theme", "no-group"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewUICommand(t *testing.T) {
	cmd := NewUICommand()

	assert.Equal(t, "ui <pipeline.yaml>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"port", "no-browser", "watch", "theme", "status"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}

	watch := cmd.Flags().Lookup("watch")
	assert.Equal(t, "true", watch.DefValue)
}

func TestSplitIDs(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{name: "nil", values: nil, want: nil},
		{name: "repeated flags", values: []string{"a", "b"}, want: []string{"a", "b"}},
		{name: "comma separated", values: []string{"a, b", "c"}, want: []string{"a", "b", "c"}},
		{name: "blanks dropped", values: []string{"", " , a,"}, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitIDs(tt.values))
		})
	}
}

func TestGetConfig_Fallback(t *testing.T) {
	t.Setenv("BLOCKGRAPH_OUTPUT", "json")
	t.Setenv("BLOCKGRAPH_THEME", "light")

	cfg := getConfig()

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "light", cfg.Theme)
	assert.True(t, cfg.Layout.GroupSiblings)
	assert.Equal(t, 8765, cfg.UI.Port)
}
