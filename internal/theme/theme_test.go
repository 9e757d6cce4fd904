package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/blockgraph/internal/layout"
	"github.com/leapstack-labs/blockgraph/pkg/core"
)

func TestLookup_Colors(t *testing.T) {
	var l Lookup

	tests := []struct {
		name       string
		blockType  core.BlockType
		opts       layout.ColorOptions
		wantAccent string
	}{
		{"type color", core.BlockTypeDataLoader, layout.ColorOptions{Theme: Dark}, "#4877ff"},
		{"block color wins", core.BlockTypeDataLoader, layout.ColorOptions{Theme: Dark, BlockColor: core.BlockColorPink}, "#e8286d"},
		{"light theme", core.BlockTypeTransformer, layout.ColorOptions{Theme: Light}, "#5b2fd1"},
		{"unknown theme falls back to dark", core.BlockTypeTransformer, layout.ColorOptions{Theme: "solarized"}, "#7d55ec"},
		{"unknown type", core.BlockType("mystery"), layout.ColorOptions{Theme: Dark}, "#b4b8c0"},
		{"unknown block color uses type", core.BlockTypeDBT, layout.ColorOptions{Theme: Dark, BlockColor: "orange"}, "#fd7a4b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Colors(tt.blockType, tt.opts)
			assert.Equal(t, tt.wantAccent, got.Accent)
			assert.NotEmpty(t, got.AccentLight)
			assert.NotEqual(t, got.Accent, got.AccentLight)
		})
	}
}

func TestLookup_Muted(t *testing.T) {
	var l Lookup
	assert.Equal(t, "#5c5f66", l.Muted(Dark))
	assert.Equal(t, "#c3c6cc", l.Muted(Light))
	assert.Equal(t, l.Muted(Dark), l.Muted(""))
}

func TestBlend(t *testing.T) {
	assert.Equal(t, "#4877ff", Blend("#4877ff", "#ffffff", 0))
	assert.Equal(t, "#ffffff", Blend("#4877ff", "#ffffff", 1))
	assert.Equal(t, "not-a-color", Blend("not-a-color", "#ffffff", 0.5))
}

func TestValid(t *testing.T) {
	for _, name := range Names() {
		assert.True(t, Valid(name), name)
	}
	assert.False(t, Valid("neon"))
}

func TestLookup_WithEngine(t *testing.T) {
	p := &core.Pipeline{Blocks: []core.Block{{UUID: "a", Type: core.BlockTypeDataLoader}}}
	g := layout.New(layout.DefaultOptions(), Lookup{}).Assemble(layout.Input{
		Pipeline: p,
		Selected: layout.NewSet("a"),
		Theme:    Light,
	})

	node, ok := g.Node("a")
	assert.True(t, ok)
	assert.Equal(t, "#0055ff", node.Border.Colors[0])
}
