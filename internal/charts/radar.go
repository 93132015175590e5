package charts

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/radar"
)

// RadarTitle is the heading of the cross-goal chart.
const RadarTitle = "Cross-Goal Performance Analysis (SDG 2, 3, 6)"

const (
	radarMax      = 1.05
	legendWidth   = 150.0
	labelWidth    = 26
	southAsiaLine = "#FFA500"
	seAsiaLine    = "#008080"
)

var peerPalette = []string{"#636EFA", "#EF553B", "#AB63FA", "#FFA15A", "#19D3F3", "#FF6692", "#B6E880", "#FF97FF"}

// Radar draws the normalized series on a polar grid, clockwise from the top.
func Radar(res *radar.Result, theme catalog.Theme, s Size) []byte {
	if res.Empty() {
		return Placeholder(NoRadarData, s)
	}
	w, h := s.pixels()
	plotW := w - legendWidth
	cx, cy := plotW/2, h/2+12
	r := math.Min(plotW, h-40)/2 - 60
	if r < 20 {
		r = 20
	}
	n := len(res.Categories)
	point := func(i int, v float64) (float64, float64) {
		a := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		d := r * v / radarMax
		return cx + d*math.Cos(a), cy + d*math.Sin(a)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif">`, w, h, w, h))
	sb.WriteString(fmt.Sprintf(`<rect width="%.0f" height="%.0f" fill="#ffffff"/>`, w, h))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="18" font-size="13" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		w/2, theme.Main, escapeXML(RadarTitle)))

	for _, ring := range []float64{0.25, 0.5, 0.75, 1.0} {
		sb.WriteString(fmt.Sprintf(`<polygon points="%s" fill="none" stroke="#e0e0e0"/>`, polygon(n, ring, point)))
		x, y := point(0, ring)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="9" fill="#999">%.2g</text>`, x+3, y, ring))
	}
	for i, cat := range res.Categories {
		x, y := point(i, radarMax)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e0e0e0"/>`, cx, cy, x, y))
		anchor := "middle"
		switch {
		case x > cx+1:
			anchor = "start"
		case x < cx-1:
			anchor = "end"
		}
		lx, ly := point(i, radarMax+0.08)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="10" fill="#333" text-anchor="%s"><title>%s</title>%s</text>`,
			lx, ly+3, anchor, escapeXML(cat), escapeXML(runewidth.Truncate(cat, labelWidth, "…"))))
	}

	peer := 0
	for k, series := range res.Series {
		stroke, style := seriesStyle(series, theme, &peer)
		pts := make([]string, n)
		for i, v := range series.Values {
			x, y := point(i, v)
			pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
		}
		sb.WriteString(fmt.Sprintf(`<polygon points="%s" stroke="%s" %s><title>%s</title></polygon>`,
			strings.Join(pts, " "), stroke, style, escapeXML(series.Name)))

		ly := 50 + float64(k)*20
		lx := plotW + 10
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" %s/>`,
			lx, ly, lx+22, ly, stroke, legendStyle(series.Kind)))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="11" fill="#333">%s</text>`,
			lx+28, ly+4, escapeXML(runewidth.Truncate(series.Name, 18, "…"))))
	}
	sb.WriteString(`</svg>`)
	return []byte(sb.String())
}

func polygon(n int, v float64, point func(int, float64) (float64, float64)) string {
	pts := make([]string, n)
	for i := range pts {
		x, y := point(i, v)
		pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	return strings.Join(pts, " ")
}

func seriesStyle(s radar.Series, theme catalog.Theme, peer *int) (stroke, attrs string) {
	switch s.Kind {
	case radar.KindRegion:
		stroke = seAsiaLine
		if s.Name == radar.SouthAsiaAvg {
			stroke = southAsiaLine
		}
		return stroke, fmt.Sprintf(`fill="%s" fill-opacity="0.3" stroke-opacity="0.6" stroke-dasharray="6,4" stroke-width="2"`, stroke)
	case radar.KindFocus:
		return theme.Main, fmt.Sprintf(`fill="%s" fill-opacity="0.45" stroke-opacity="0.9" stroke-width="3"`, theme.Main)
	default:
		stroke = peerPalette[*peer%len(peerPalette)]
		*peer++
		return stroke, `fill="none" stroke-width="1.5"`
	}
}

func legendStyle(k radar.Kind) string {
	switch k {
	case radar.KindRegion:
		return `stroke-dasharray="6,4" stroke-width="2"`
	case radar.KindFocus:
		return `stroke-width="3"`
	default:
		return `stroke-width="1.5"`
	}
}
