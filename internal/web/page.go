package web

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/view"
)

// Tabs of the page, selected with ?tab=.
const (
	TabAnalytics = "analytics"
	TabMap       = "map"
	TabReference = "reference"
)

var tabLabels = []struct{ ID, Label string }{
	{TabAnalytics, "Comparative Analytics"},
	{TabMap, "Geospatial View"},
	{TabReference, "Reference & Explanation"},
}

//go:embed templates/index.html
var indexHTML string

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type tabLink struct {
	Label  string
	URL    template.URL
	Active bool
}

type pageData struct {
	Title      string
	GoalTitle  string
	Theme      catalog.Theme
	Sel        view.Selection
	Goals      []string
	Indicators []string
	Regions    []string
	Options    []string
	Selected   map[string]bool
	MinYear    int
	MaxYear    int
	Tab        string
	Tabs       []tabLink
	Notice     string
	Charts     map[string]template.URL
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	res, v := s.load(r)
	sel := v.Selection

	tab := r.URL.Query().Get("tab")
	switch tab {
	case TabAnalytics, TabMap, TabReference:
	default:
		tab = TabAnalytics
	}

	q := sel.Values()
	lo, hi := view.YearBounds(res.Table)
	data := pageData{
		Title:      "India vs. Asia: " + sel.Goal + " Analysis",
		GoalTitle:  catalog.GoalTitles[sel.Goal],
		Theme:      v.Theme,
		Sel:        sel,
		Goals:      catalog.Goals(),
		Indicators: catalog.GoalIndicators(sel.Goal),
		Regions:    []string{catalog.RegionAll, catalog.RegionSouthAsia, catalog.RegionSEAsia},
		Options:    sel.Options,
		Selected:   map[string]bool{},
		MinYear:    lo,
		MaxYear:    hi,
		Tab:        tab,
		Notice:     notice(res),
		Charts:     map[string]template.URL{},
	}
	for _, c := range sel.Countries {
		data.Selected[c] = true
	}
	for _, t := range tabLabels {
		tq := cloneValues(q)
		tq.Set("tab", t.ID)
		data.Tabs = append(data.Tabs, tabLink{Label: t.Label, URL: template.URL("/?" + tq.Encode()), Active: t.ID == tab})
	}
	for _, kind := range []string{"trend", "peer", "radar", "map"} {
		data.Charts[kind] = template.URL("/charts/" + kind + ".svg?" + q.Encode())
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		s.log.Error("render page", "request_id", GetRequestID(r.Context()), "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
