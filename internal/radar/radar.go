// Package radar scales a year's indicator values into [0, 1] against a
// context-dependent cohort of countries, for the cross-goal radar chart.
package radar

import (
	"errors"
	"math"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/pipeline"
)

// ErrNoData is returned when no record matches the year and indicators.
var ErrNoData = errors.New("insufficient data for radar chart")

// Series names of the region averages.
const (
	SouthAsiaAvg = "South Asia Avg"
	SEAsiaAvg    = "SE Asia Avg"
)

// Kind tells the renderer how to draw a series.
type Kind string

const (
	KindRegion Kind = "region"
	KindFocus  Kind = "focus"
	KindPeer   Kind = "peer"
)

// Query selects what to scale.
type Query struct {
	Year       int
	Indicators []string
	Region     string
	Countries  []string
}

// Series is one polygon of the chart. Values align with Result.Categories.
type Series struct {
	Name   string    `json:"name"`
	Kind   Kind      `json:"kind"`
	Values []float64 `json:"values"`
}

// Result is the normalized chart data.
type Result struct {
	Year           int      `json:"year"`
	Categories     []string `json:"categories"`
	Series         []Series `json:"series"`
	Cohort         []string `json:"cohort"`
	CohortFallback bool     `json:"cohort_fallback"`
}

// Map returns series name -> values.
func (r *Result) Map() map[string][]float64 {
	if r == nil {
		return nil
	}
	m := make(map[string][]float64, len(r.Series))
	for _, s := range r.Series {
		m[s.Name] = s.Values
	}
	return m
}

// Empty reports whether there is nothing to draw.
func (r *Result) Empty() bool {
	return r == nil || len(r.Categories) == 0 || len(r.Series) == 0
}

// row is one country's (or region's) mean value per indicator at the year.
type row map[string]float64

type mean struct {
	sum float64
	n   int
}

// accum collects values per indicator; mean() reduces them.
type accum map[string]*mean

func (a accum) add(ind string, v float64) {
	e := a[ind]
	if e == nil {
		e = &mean{}
		a[ind] = e
	}
	e.sum += v
	e.n++
}

func (a accum) mean() row {
	out := make(row, len(a))
	for k, e := range a {
		out[k] = e.sum / float64(e.n)
	}
	return out
}

// Build computes the radar series for q over t.
func Build(t *pipeline.Table, q Query) (*Result, error) {
	res := &Result{Year: q.Year}
	wanted := make(map[string]bool, len(q.Indicators))
	for _, ind := range q.Indicators {
		wanted[ind] = true
	}

	// base: every record at the year for a wanted indicator
	byCountry := map[string]accum{}
	byRegion := map[string]accum{}
	var countries []string
	regionOf := map[string]string{}
	present := map[string]bool{}
	t.Each(func(r pipeline.Record) {
		if r.Year != q.Year || !wanted[r.Indicator] {
			return
		}
		a := byCountry[r.Country]
		if a == nil {
			a = accum{}
			byCountry[r.Country] = a
			countries = append(countries, r.Country)
			regionOf[r.Country] = r.Region
		}
		a.add(r.Indicator, r.Value)
		ra := byRegion[r.Region]
		if ra == nil {
			ra = accum{}
			byRegion[r.Region] = ra
		}
		ra.add(r.Indicator, r.Value)
		present[r.Indicator] = true
	})
	if len(countries) == 0 {
		return res, ErrNoData
	}
	for _, ind := range q.Indicators {
		if present[ind] {
			res.Categories = append(res.Categories, ind)
			present[ind] = false
		}
	}

	pivot := make(map[string]row, len(byCountry))
	for c, a := range byCountry {
		pivot[c] = a.mean()
	}

	inCohort := map[string]bool{catalog.Focus: true}
	for _, c := range q.Countries {
		inCohort[c] = true
	}
	for _, c := range countries {
		if inCohort[c] || peerRegion(q.Region, regionOf[c]) {
			res.Cohort = append(res.Cohort, c)
		}
	}
	if len(res.Cohort) == 0 {
		res.Cohort = append([]string(nil), countries...)
		res.CohortFallback = true
	}

	lo, div := bounds(res.Categories, res.Cohort, pivot)
	scale := func(r row) []float64 {
		out := make([]float64, len(res.Categories))
		for i, ind := range res.Categories {
			v, ok := r[ind]
			if !ok || math.IsNaN(lo[i]) {
				continue
			}
			out[i] = (v - lo[i]) / div[i]
		}
		return out
	}

	if catalog.InScope(q.Region, catalog.RegionSouthAsia) {
		if a := byRegion[catalog.RegionSouthAsia]; len(a) > 0 {
			res.Series = append(res.Series, Series{Name: SouthAsiaAvg, Kind: KindRegion, Values: scale(a.mean())})
		}
	}
	if catalog.InScope(q.Region, catalog.RegionSEAsia) {
		if a := byRegion[catalog.RegionSEAsia]; len(a) > 0 {
			res.Series = append(res.Series, Series{Name: SEAsiaAvg, Kind: KindRegion, Values: scale(a.mean())})
		}
	}
	if r, ok := pivot[catalog.Focus]; ok {
		res.Series = append(res.Series, Series{Name: catalog.Focus, Kind: KindFocus, Values: scale(r)})
	}
	done := map[string]bool{catalog.Focus: true}
	for _, c := range q.Countries {
		if done[c] {
			continue
		}
		done[c] = true
		if r, ok := pivot[c]; ok {
			res.Series = append(res.Series, Series{Name: c, Kind: KindPeer, Values: scale(r)})
		}
	}
	return res, nil
}

// peerRegion reports whether a record region is one of the peer regions
// covered by the filter.
func peerRegion(filter, region string) bool {
	if region != catalog.RegionSouthAsia && region != catalog.RegionSEAsia {
		return false
	}
	return catalog.InScope(filter, region)
}

// bounds returns the per-category cohort minimum and divisor. A category the
// cohort has no value for gets a NaN minimum. Zero spread divides by 1.
func bounds(categories, cohort []string, pivot map[string]row) (lo, div []float64) {
	lo = make([]float64, len(categories))
	div = make([]float64, len(categories))
	for i, ind := range categories {
		mn, mx := math.NaN(), math.NaN()
		for _, c := range cohort {
			v, ok := pivot[c][ind]
			if !ok {
				continue
			}
			if math.IsNaN(mn) || v < mn {
				mn = v
			}
			if math.IsNaN(mx) || v > mx {
				mx = v
			}
		}
		lo[i] = mn
		div[i] = mx - mn
		if div[i] == 0 || math.IsNaN(div[i]) {
			div[i] = 1
		}
	}
	return lo, div
}
