package charts

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/pipeline"
)

// Peer draws one bar per country for a single year, in the given order.
// The focus country uses the theme's main colour, peers the light one.
func Peer(rows []pipeline.Record, year int, theme catalog.Theme, s Size) ([]byte, error) {
	if len(rows) == 0 {
		return Placeholder(NoPeerData, s), nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Standing in %d", year)
	p.Title.TextStyle.Font.Size = vg.Points(11)
	p.Y.Label.Text = "Value"
	p.X.Tick.Label.XAlign = draw.XCenter
	p.Add(plotter.NewGrid())

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Country
		bar, err := plotter.NewBarChart(plotter.Values{r.Value}, vg.Points(20))
		if err != nil {
			return nil, fmt.Errorf("peer bar %s: %w", r.Country, err)
		}
		bar.XMin = float64(i)
		bar.LineStyle.Width = vg.Length(0)
		bar.Color = hexColor(theme.Light)
		if r.Country == catalog.Focus {
			bar.Color = hexColor(theme.Main)
		}
		p.Add(bar)
	}
	p.NominalX(names...)
	return render(p, s)
}
