package layout

import "fmt"

// Options are the sizing tunables of the engine. Widths are pixels per
// character cell; heights are pixels.
type Options struct {
	HeaderCharWidth  float64 `koanf:"header_char_width" json:"header_char_width"`
	SmallCharWidth   float64 `koanf:"small_char_width" json:"small_char_width"`
	MaxWidth         float64 `koanf:"max_width" json:"max_width"`
	HorizontalChrome float64 `koanf:"horizontal_chrome" json:"horizontal_chrome"`
	FixedHeaderBlock float64 `koanf:"fixed_header_block" json:"fixed_header_block"`
	TagLineHeight    float64 `koanf:"tag_line_height" json:"tag_line_height"`
	BadgeHeight      float64 `koanf:"badge_height" json:"badge_height"`
	RowSpacing       float64 `koanf:"row_spacing" json:"row_spacing"`
	GroupPadding     float64 `koanf:"group_padding" json:"group_padding"`
	ActivePortSize   float64 `koanf:"active_port_size" json:"active_port_size"`
	// GroupSiblings enables collapsing sibling leaves into group nodes.
	GroupSiblings bool `koanf:"group_siblings" json:"group_siblings"`
}

// Default sizing values.
const (
	DefaultHeaderCharWidth  = 8.62
	DefaultSmallCharWidth   = 7.04
	DefaultMaxWidth         = 300
	DefaultHorizontalChrome = 74
	DefaultFixedHeaderBlock = 58
	DefaultTagLineHeight    = 18
	DefaultBadgeHeight      = 26
	DefaultRowSpacing       = 8
	DefaultGroupPadding     = 12
	DefaultActivePortSize   = 10
)

// DefaultOptions returns the stock tunables with grouping enabled.
func DefaultOptions() Options {
	return Options{
		HeaderCharWidth:  DefaultHeaderCharWidth,
		SmallCharWidth:   DefaultSmallCharWidth,
		MaxWidth:         DefaultMaxWidth,
		HorizontalChrome: DefaultHorizontalChrome,
		FixedHeaderBlock: DefaultFixedHeaderBlock,
		TagLineHeight:    DefaultTagLineHeight,
		BadgeHeight:      DefaultBadgeHeight,
		RowSpacing:       DefaultRowSpacing,
		GroupPadding:     DefaultGroupPadding,
		ActivePortSize:   DefaultActivePortSize,
		GroupSiblings:    true,
	}
}

// Validate rejects values the sizing arithmetic cannot work with.
func (o Options) Validate() error {
	if o.HeaderCharWidth <= 0 {
		return fmt.Errorf("header_char_width must be positive, got %v", o.HeaderCharWidth)
	}
	if o.SmallCharWidth <= 0 {
		return fmt.Errorf("small_char_width must be positive, got %v", o.SmallCharWidth)
	}
	if o.MaxWidth <= 0 {
		return fmt.Errorf("max_width must be positive, got %v", o.MaxWidth)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"horizontal_chrome", o.HorizontalChrome},
		{"fixed_header_block", o.FixedHeaderBlock},
		{"tag_line_height", o.TagLineHeight},
		{"badge_height", o.BadgeHeight},
		{"row_spacing", o.RowSpacing},
		{"group_padding", o.GroupPadding},
		{"active_port_size", o.ActivePortSize},
	} {
		if f.value < 0 {
			return fmt.Errorf("%s must not be negative, got %v", f.name, f.value)
		}
	}
	return nil
}
