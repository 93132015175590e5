// Package charts renders the dashboard charts as SVG.
package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Placeholder notices.
const (
	NoTrendData = "No data for trend analysis."
	NoPeerData  = "No data for peer comparison."
	NoRadarData = "Insufficient data for Radar Chart."
	NoMapData   = "No data available for map."
)

// Size is the rendered chart size.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// DefaultSize is 6x4 inches.
func DefaultSize() Size {
	return Size{Width: 6 * vg.Inch, Height: 4 * vg.Inch}
}

// SizeInches builds a Size from configured inches, falling back to the default.
func SizeInches(w, h float64) Size {
	s := DefaultSize()
	if w > 0 {
		s.Width = vg.Length(w) * vg.Inch
	}
	if h > 0 {
		s.Height = vg.Length(h) * vg.Inch
	}
	return s
}

// pixels converts to CSS pixels for hand-written SVG.
func (s Size) pixels() (w, h float64) {
	return s.Width.Points() * 96 / 72, s.Height.Points() * 96 / 72
}

func render(p *plot.Plot, s Size) ([]byte, error) {
	wt, err := p.WriterTo(s.Width, s.Height, "svg")
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	return buf.Bytes(), nil
}

// Placeholder renders a grey box with a centred notice.
func Placeholder(msg string, s Size) []byte {
	w, h := s.pixels()
	return []byte(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif">`+
		`<rect width="%.0f" height="%.0f" fill="#f5f5f5"/>`+
		`<text x="%.0f" y="%.0f" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		w, h, w, h, w, h, w/2, h/2, escapeXML(msg)))
}

// hexColor parses #RRGGBB. Malformed input yields black.
func hexColor(s string) color.RGBA {
	c := color.RGBA{A: 255}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return color.RGBA{A: 255}
	}
	return c
}

func withAlpha(c color.RGBA, a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a * 255)}
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func cssColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
