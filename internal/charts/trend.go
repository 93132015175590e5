package charts

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/pipeline"
)

// Trend draws one line per country over the years. The focus country is
// drawn thicker in the theme colour.
func Trend(rows *pipeline.Table, indicator string, theme catalog.Theme, s Size) ([]byte, error) {
	if rows.Empty() {
		return Placeholder(NoTrendData, s), nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: Trend over Time", indicator)
	p.Title.TextStyle.Font.Size = vg.Points(11)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Value"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	points := map[string]plotter.XYs{}
	rows.Each(func(r pipeline.Record) {
		points[r.Country] = append(points[r.Country], plotter.XY{X: float64(r.Year), Y: r.Value})
	})

	focus := hexColor(theme.Main)
	peer := 0
	for _, country := range rows.Countries() {
		line, err := plotter.NewLine(points[country])
		if err != nil {
			return nil, fmt.Errorf("trend line %s: %w", country, err)
		}
		if country == catalog.Focus {
			line.Color = focus
			line.Width = vg.Points(4)
		} else {
			line.Color = withAlpha(toRGBA(plotutil.Color(peer)), 0.7)
			line.Width = vg.Points(3)
			peer++
		}
		p.Add(line)
		p.Legend.Add(country, line)
	}
	return render(p, s)
}
