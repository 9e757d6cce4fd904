// Package theme resolves block accent colors for the dark and light themes.
package theme

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/leapstack-labs/blockgraph/internal/layout"
	"github.com/leapstack-labs/blockgraph/pkg/core"
)

// Theme names.
const (
	Dark  = "dark"
	Light = "light"
)

// Default is used when no theme, or an unknown one, is requested.
const Default = Dark

// Names lists the supported themes.
func Names() []string {
	return []string{Dark, Light}
}

// Valid reports whether name is a supported theme.
func Valid(name string) bool {
	_, ok := palettes[name]
	return ok
}

// palette is the set of base colors of one theme.
type palette struct {
	background string
	muted      string
	// lighten is how far AccentLight moves from the accent toward the background
	lighten float64
	byColor map[core.BlockColor]string
	byType  map[core.BlockType]string
	// fallback is used for types without an entry
	fallback string
}

var palettes = map[string]palette{
	Dark: {
		background: "#1b1c20",
		muted:      "#5c5f66",
		lighten:    0.35,
		byColor: map[core.BlockColor]string{
			core.BlockColorBlue:   "#4877ff",
			core.BlockColorGrey:   "#b4b8c0",
			core.BlockColorPink:   "#e8286d",
			core.BlockColorPurple: "#7d55ec",
			core.BlockColorTeal:   "#1ba5b2",
			core.BlockColorYellow: "#ffcc19",
		},
		byType: map[core.BlockType]string{
			core.BlockTypeDataLoader:        "#4877ff",
			core.BlockTypeTransformer:       "#7d55ec",
			core.BlockTypeDataExporter:      "#ffcc19",
			core.BlockTypeSensor:            "#e8286d",
			core.BlockTypeChart:             "#1ba5b2",
			core.BlockTypeCallback:          "#9b9ea6",
			core.BlockTypeConditional:       "#9b9ea6",
			core.BlockTypeExtension:         "#1ba5b2",
			core.BlockTypeDBT:               "#fd7a4b",
			core.BlockTypeCustom:            "#b4b8c0",
			core.BlockTypeScratchpad:        "#b4b8c0",
			core.BlockTypeMarkdown:          "#b4b8c0",
			core.BlockTypeGlobalDataProduct: "#00c27e",
		},
		fallback: "#b4b8c0",
	},
	Light: {
		background: "#ffffff",
		muted:      "#c3c6cc",
		lighten:    0.45,
		byColor: map[core.BlockColor]string{
			core.BlockColorBlue:   "#0055ff",
			core.BlockColorGrey:   "#6b6f76",
			core.BlockColorPink:   "#c7004c",
			core.BlockColorPurple: "#5b2fd1",
			core.BlockColorTeal:   "#007d88",
			core.BlockColorYellow: "#d99a00",
		},
		byType: map[core.BlockType]string{
			core.BlockTypeDataLoader:        "#0055ff",
			core.BlockTypeTransformer:       "#5b2fd1",
			core.BlockTypeDataExporter:      "#d99a00",
			core.BlockTypeSensor:            "#c7004c",
			core.BlockTypeChart:             "#007d88",
			core.BlockTypeCallback:          "#80848c",
			core.BlockTypeConditional:       "#80848c",
			core.BlockTypeExtension:         "#007d88",
			core.BlockTypeDBT:               "#e0541f",
			core.BlockTypeCustom:            "#6b6f76",
			core.BlockTypeScratchpad:        "#6b6f76",
			core.BlockTypeMarkdown:          "#6b6f76",
			core.BlockTypeGlobalDataProduct: "#00995f",
		},
		fallback: "#6b6f76",
	},
}

// Lookup implements layout.ColorLookup over the built-in palettes.
type Lookup struct{}

var _ layout.ColorLookup = Lookup{}

// Colors resolves the accent pair of a block. An explicit block color wins
// over the type color.
func (Lookup) Colors(blockType core.BlockType, opts layout.ColorOptions) layout.Colors {
	p := paletteFor(opts.Theme)

	base, ok := p.byColor[opts.BlockColor]
	if !ok {
		base, ok = p.byType[blockType]
	}
	if !ok {
		base = p.fallback
	}

	return layout.Colors{
		Accent:      base,
		AccentLight: Blend(base, p.background, p.lighten),
	}
}

// Muted returns the color of queued blocks.
func (Lookup) Muted(theme string) string {
	return paletteFor(theme).muted
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[Default]
}

// Blend mixes two hex colors in Lab space; t=0 yields from, t=1 yields to.
// Unparsable input returns from unchanged.
func Blend(from, to string, t float64) string {
	a, err := colorful.Hex(from)
	if err != nil {
		return from
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return from
	}
	return a.BlendLab(b, t).Clamped().Hex()
}
