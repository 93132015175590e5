package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/charts"
	"github.com/KaramelBytes/sdgdash/internal/pipeline"
	"github.com/KaramelBytes/sdgdash/internal/radar"
	"github.com/KaramelBytes/sdgdash/internal/view"
)

// NotFoundNotice is shown when no data source exists.
const NotFoundNotice = "Data file 'SDG_final.csv' not found."

// notice describes a failed load for the page and the API.
func notice(res pipeline.Result) string {
	switch {
	case res.Err == nil:
		return ""
	case res.NotFound():
		return NotFoundNotice
	default:
		return fmt.Sprintf("Failed to load data: %v", res.Err)
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	_, v := s.load(r)
	sel := v.Selection

	var (
		b   []byte
		err error
	)
	switch kind {
	case "trend":
		b, err = charts.Trend(v.Chart, sel.Indicator, v.Theme, s.size)
	case "peer":
		b, err = charts.Peer(v.Peer, sel.To, v.Theme, s.size)
	case "radar":
		b = charts.Radar(v.Radar, v.Theme, s.size)
	case "map":
		b, err = charts.Choropleth(v.Map, sel.To, s.size)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.log.Error("render chart", "request_id", GetRequestID(r.Context()), "chart", kind, "error", err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	s.metrics.IncrementChartRenders(kind)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	res, v := s.load(r)
	if res.Err != nil {
		writeError(w, http.StatusServiceUnavailable, notice(res))
		return
	}
	recs := v.Chart.Records()
	if recs == nil {
		recs = []pipeline.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

type radarResponse struct {
	*radar.Result
	Error string `json:"error,omitempty"`
}

func (s *Server) handleRadar(w http.ResponseWriter, r *http.Request) {
	res, v := s.load(r)
	if res.Err != nil {
		writeError(w, http.StatusServiceUnavailable, notice(res))
		return
	}
	out := radarResponse{Result: v.Radar}
	if v.RadarErr != nil {
		out.Error = v.RadarErr.Error()
	}
	writeJSON(w, http.StatusOK, out)
}

type yearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type optionsResponse struct {
	Goals      []string  `json:"goals"`
	Indicators []string  `json:"indicators"`
	Regions    []string  `json:"regions"`
	Countries  []string  `json:"countries"`
	Defaults   []string  `json:"default_countries"`
	Years      yearRange `json:"years"`
	Notice     string    `json:"notice,omitempty"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	res, v := s.load(r)
	sel := v.Selection
	lo, hi := view.YearBounds(res.Table)
	countries := sel.Options
	if countries == nil {
		countries = []string{}
	}
	writeJSON(w, http.StatusOK, optionsResponse{
		Goals:      catalog.Goals(),
		Indicators: catalog.GoalIndicators(sel.Goal),
		Regions:    []string{catalog.RegionAll, catalog.RegionSouthAsia, catalog.RegionSEAsia},
		Countries:  countries,
		Defaults:   view.DefaultCountries(sel.Region, countries),
		Years:      yearRange{Min: lo, Max: hi},
		Notice:     notice(res),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
