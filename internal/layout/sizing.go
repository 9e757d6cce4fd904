package layout

import (
	"math"
	"strings"
)

// Sizer computes node dimensions from header text, tags and badges.
type Sizer struct {
	opts Options
}

// NewSizer creates a Sizer.
func NewSizer(opts Options) *Sizer {
	return &Sizer{opts: opts}
}

// TagsText joins tags the way they are rendered under the header.
func TagsText(tags []string) string {
	return strings.Join(tags, ", ")
}

// TagLines returns how many lines the joined tags wrap onto.
func (s *Sizer) TagLines(tags []string) int {
	if len(tags) == 0 {
		return 0
	}
	width := TextWidth(TagsText(tags), s.opts.SmallCharWidth)
	if width <= s.opts.MaxWidth {
		return 1
	}
	return int(math.Ceil(width / s.opts.MaxWidth))
}

// Width returns the node width for a label and tags.
func (s *Sizer) Width(label Label, tags []string) float64 {
	header := TextWidth(label.DisplayText, s.opts.HeaderCharWidth)
	subtitle := TextWidth(label.Subtitle, s.opts.SmallCharWidth)
	tagsWidth := math.Min(s.opts.MaxWidth, TextWidth(TagsText(tags), s.opts.SmallCharWidth))

	return s.opts.HorizontalChrome + math.Max(header, math.Max(subtitle, tagsWidth))
}

// Height returns the node height. Each tag line and badge row is one extra
// row below the header; rows are separated by RowSpacing.
func (s *Sizer) Height(tags []string, badges Badges) float64 {
	tagLines := s.TagLines(tags)
	badgeRows := badges.Rows()

	extraRows := badgeRows
	if tagLines > 0 {
		extraRows++
	}

	return s.opts.FixedHeaderBlock +
		float64(tagLines)*s.opts.TagLineHeight +
		float64(badgeRows)*s.opts.BadgeHeight +
		float64(extraRows)*s.opts.RowSpacing
}

// Size returns width and height together.
func (s *Sizer) Size(label Label, tags []string, badges Badges) (float64, float64) {
	return s.Width(label, tags), s.Height(tags, badges)
}

// GroupSize wraps member nodes stacked vertically.
func (s *Sizer) GroupSize(members []*Node) (float64, float64) {
	var width, height float64
	for i, m := range members {
		width = math.Max(width, m.Width)
		height += m.Height
		if i > 0 {
			height += s.opts.RowSpacing
		}
	}
	pad := 2 * s.opts.GroupPadding
	return width + pad, height + pad
}
