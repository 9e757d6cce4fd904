package layout

import "github.com/mattn/go-runewidth"

// TextWidth estimates the rendered pixel width of text. Each terminal cell
// (wide runes count as two) is charWidth pixels.
func TextWidth(text string, charWidth float64) float64 {
	return float64(runewidth.StringWidth(text)) * charWidth
}
