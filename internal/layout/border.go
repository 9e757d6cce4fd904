package layout

import "github.com/leapstack-labs/blockgraph/pkg/core"

// Colors are the two variants of a block accent color.
type Colors struct {
	// Accent is used for selected blocks
	Accent string
	// AccentLight is used for unselected blocks
	AccentLight string
}

// ColorOptions carries what color resolution may depend on besides block type.
type ColorOptions struct {
	BlockColor core.BlockColor
	Theme      string
}

// ColorLookup resolves theme-aware block colors. It replaces any ambient theme
// state: the engine only sees colors through this interface.
type ColorLookup interface {
	Colors(blockType core.BlockType, opts ColorOptions) Colors
	// Muted is the color of queued blocks.
	Muted(theme string) string
}

// plainColors is used when no ColorLookup is supplied.
type plainColors struct{}

func (plainColors) Colors(core.BlockType, ColorOptions) Colors {
	return Colors{Accent: "#6b6b6b", AccentLight: "#b0b0b0"}
}

func (plainColors) Muted(string) string { return "#8c8c8c" }

// PadColors fills the four border slots from colors, restarting at the first
// color when fewer than four are given. Colors past the fourth are dropped.
func PadColors(colors []string) [4]string {
	var slots [4]string
	if len(colors) == 0 {
		return slots
	}
	for i := range slots {
		slots[i] = colors[i%len(colors)]
	}
	return slots
}

// uniform fills all four slots with one color.
func uniform(color string) [4]string {
	return [4]string{color, color, color, color}
}

// colorizer resolves node borders for one assembly.
type colorizer struct {
	lookup   ColorLookup
	theme    string
	queued   Set
	selected Set
}

func (c *colorizer) colorsOf(b *core.Block) Colors {
	return c.lookup.Colors(b.Type, ColorOptions{BlockColor: b.Color, Theme: c.theme})
}

// blockBorder computes the border of b. mergeSiblings are the blocks whose
// downstream set equals b's non-empty downstream set, b included; it is empty
// when b has no downstream blocks.
func (c *colorizer) blockBorder(b *core.Block, mergeSiblings []*core.Block, status core.RunStatus) Border {
	border := Border{Style: BorderSolid}
	if status == core.RunStatusRunning {
		border.Style = BorderDashed
		border.Animated = true
	}

	switch {
	case c.queued.Has(b.UUID):
		border.Colors = uniform(c.lookup.Muted(c.theme))
	case len(mergeSiblings) >= 2:
		border.Colors = PadColors(c.siblingColors(mergeSiblings))
	default:
		colors := c.colorsOf(b)
		if c.selected.Has(b.UUID) {
			border.Colors = uniform(colors.Accent)
		} else {
			border.Colors = uniform(colors.AccentLight)
		}
	}

	return border
}

// groupBorder colors a group node by its members, like a merge point.
func (c *colorizer) groupBorder(members []*core.Block) Border {
	return Border{
		Colors: PadColors(c.siblingColors(members)),
		Style:  BorderSolid,
	}
}

// siblingColors returns up to four distinct accent colors of blocks, in block
// order. The selected variant is used when any of them is selected.
func (c *colorizer) siblingColors(blocks []*core.Block) []string {
	anySelected := false
	for _, b := range blocks {
		if c.selected.Has(b.UUID) {
			anySelected = true
			break
		}
	}

	seen := make(map[string]bool)
	var colors []string
	for _, b := range blocks {
		resolved := c.colorsOf(b)
		color := resolved.AccentLight
		if anySelected {
			color = resolved.Accent
		}
		if seen[color] {
			continue
		}
		seen[color] = true
		colors = append(colors, color)
		if len(colors) == 4 {
			break
		}
	}
	return colors
}
