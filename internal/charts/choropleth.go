package charts

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/KaramelBytes/sdgdash/internal/pipeline"
)

// tile is a country's cell on the approximate geographic grid.
type tile struct{ col, row int }

var tiles = map[string]tile{
	"Pakistan":    {0, 1},
	"Nepal":       {2, 1},
	"Bhutan":      {3, 1},
	"India":       {1, 2},
	"Bangladesh":  {3, 2},
	"Myanmar":     {4, 2},
	"Thailand":    {5, 3},
	"Viet Nam":    {6, 3},
	"Philippines": {7, 3},
	"Sri Lanka":   {1, 4},
	"Malaysia":    {5, 4},
	"Singapore":   {5, 5},
	"Indonesia":   {6, 5},
}

const (
	tileCols = 8
	tileRows = 7
)

// Choropleth draws a tile map of the values at year, coloured on a
// sequential colour map spanning the year's min and max.
func Choropleth(rows *pipeline.Table, year int, s Size) ([]byte, error) {
	if rows.Empty() {
		return Placeholder(NoMapData, s), nil
	}
	at := rows.Filter(func(r pipeline.Record) bool { return r.Year == year })
	if at.Empty() {
		return Placeholder(fmt.Sprintf("No data available for map in year %d.", year), s), nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	at.Each(func(r pipeline.Record) {
		lo = math.Min(lo, r.Value)
		hi = math.Max(hi, r.Value)
	})
	cm := moreland.ExtendedKindlmann()
	colorOf, err := scale(cm, lo, hi)
	if err != nil {
		return nil, err
	}

	w, h := s.pixels()
	mapW := w - 90
	cell := math.Min(mapW/tileCols, (h-40)/tileRows)
	gap := cell * 0.06
	top := 32.0

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif">`, w, h, w, h))
	sb.WriteString(fmt.Sprintf(`<rect width="%.0f" height="%.0f" fill="#ffffff"/>`, w, h))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="18" font-size="13" font-weight="bold" fill="#333" text-anchor="middle">Regional Intensity Map (%d)</text>`, w/2, year))

	extra := 0
	var outErr error
	at.Each(func(r pipeline.Record) {
		if outErr != nil {
			return
		}
		t, ok := tiles[r.Country]
		if !ok {
			t = tile{col: extra % tileCols, row: tileRows - 1}
			extra++
		}
		c, err := colorOf(r.Value)
		if err != nil {
			outErr = fmt.Errorf("colour %s: %w", r.Country, err)
			return
		}
		x := float64(t.col)*cell + gap
		y := top + float64(t.row)*cell + gap
		sb.WriteString(fmt.Sprintf(`<g><title>%s: %.2f</title><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s" stroke="#555"/>`,
			escapeXML(r.Country), r.Value, x, y, cell-2*gap, cell-2*gap, cssColor(c)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%.0f" text-anchor="middle" fill="#fff" stroke="#000" stroke-width="0.3">%s</text></g>`,
			x+(cell-2*gap)/2, y+(cell-2*gap)/2+4, math.Max(8, cell/6), escapeXML(abbrev(r.Country))))
	})
	if outErr != nil {
		return nil, outErr
	}

	// colour bar
	const steps = 10
	bx, by := w-70, top
	bh := (h - top - 30) / steps
	for i := 0; i < steps; i++ {
		v := hi - (hi-lo)*float64(i)/float64(steps-1)
		c, err := colorOf(v)
		if err != nil {
			return nil, fmt.Errorf("colour bar: %w", err)
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="18" height="%.1f" fill="%s"/>`, bx, by+float64(i)*bh, bh+0.5, cssColor(c)))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="10" fill="#333">%.4g</text>`, bx+22, by+8, hi))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="10" fill="#333">%.4g</text>`, bx+22, by+steps*bh, lo))
	sb.WriteString(`</svg>`)
	return []byte(sb.String()), nil
}

// scale returns a value -> colour function over [lo, hi]. Without spread
// every value gets the midpoint colour.
func scale(cm palette.ColorMap, lo, hi float64) (func(float64) (color.Color, error), error) {
	if lo == hi {
		cm.SetMin(0)
		cm.SetMax(1)
		mid, err := cm.At(0.5)
		if err != nil {
			return nil, fmt.Errorf("colour map: %w", err)
		}
		return func(float64) (color.Color, error) { return mid, nil }, nil
	}
	cm.SetMin(lo)
	cm.SetMax(hi)
	return func(v float64) (color.Color, error) {
		return cm.At(math.Max(lo, math.Min(hi, v)))
	}, nil
}

// abbrev shortens a country name for a tile label.
func abbrev(name string) string {
	fields := strings.Fields(name)
	if len(fields) > 1 {
		var b strings.Builder
		for _, f := range fields {
			b.WriteString(strings.ToUpper(f[:1]))
		}
		return b.String()
	}
	if len(name) > 3 {
		return strings.ToUpper(name[:3])
	}
	return strings.ToUpper(name)
}
