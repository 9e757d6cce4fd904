// Package config holds configuration defaults and config file discovery
// shared by the CLI and the UI server.
package config

import "github.com/leapstack-labs/blockgraph/internal/layout"

// Default configuration values.
const (
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultTheme    = "dark"
	DefaultUIPort   = 8765
	DefaultUIWatch  = true
	DefaultAutoOpen = true
	// DefaultSessionSecret signs the theme cookie of a local dev server.
	DefaultSessionSecret = "blockgraph-dev-secret-change-me" //nolint:gosec
)

// Defaults returns the flattened default configuration, keyed the way the
// config file spells them.
func Defaults() map[string]any {
	opts := layout.DefaultOptions()
	return map[string]any{
		"output":  DefaultOutput,
		"verbose": false,
		"theme":   DefaultTheme,

		"layout.header_char_width":  opts.HeaderCharWidth,
		"layout.small_char_width":   opts.SmallCharWidth,
		"layout.max_width":          opts.MaxWidth,
		"layout.horizontal_chrome":  opts.HorizontalChrome,
		"layout.fixed_header_block": opts.FixedHeaderBlock,
		"layout.tag_line_height":    opts.TagLineHeight,
		"layout.badge_height":       opts.BadgeHeight,
		"layout.row_spacing":        opts.RowSpacing,
		"layout.group_padding":      opts.GroupPadding,
		"layout.active_port_size":   opts.ActivePortSize,
		"layout.group_siblings":     opts.GroupSiblings,

		"ui.port":           DefaultUIPort,
		"ui.watch":          DefaultUIWatch,
		"ui.auto_open":      DefaultAutoOpen,
		"ui.session_secret": DefaultSessionSecret,
	}
}
