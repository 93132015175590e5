// Package view turns sidebar parameters into a validated selection and the
// filtered rows every chart of the dashboard consumes.
package view

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/pipeline"
	"github.com/KaramelBytes/sdgdash/internal/radar"
)

// Query parameter names.
const (
	ParamGoal      = "goal"
	ParamIndicator = "indicator"
	ParamRegion    = "region"
	ParamCountry   = "country"
	ParamFrom      = "from"
	ParamTo        = "to"
)

// Year bounds used when the table is empty.
const (
	MinYear      = 2015
	EmptyMaxYear = 2024
)

// Defaults are the configured fallbacks of the sidebar.
type Defaults struct {
	Goal   string
	Region string
}

// Selection is the per-request sidebar state.
type Selection struct {
	Goal      string
	Indicator string
	Region    string
	Countries []string
	From, To  int
	// Options are the selectable countries: region options present in the data.
	Options []string
}

// ParseSelection validates query values against the catalog and the table.
// Invalid or missing values fall back to defaults; it never fails.
func ParseSelection(values url.Values, t *pipeline.Table, d Defaults) Selection {
	var s Selection

	s.Goal = values.Get(ParamGoal)
	if !catalog.IsGoal(s.Goal) {
		s.Goal = d.Goal
		if !catalog.IsGoal(s.Goal) {
			s.Goal = "SDG 3"
		}
	}

	inds := catalog.GoalIndicators(s.Goal)
	s.Indicator = inds[0]
	if want := catalog.Presentation(values.Get(ParamIndicator)); contains(inds, want) {
		s.Indicator = want
	}

	s.Region = values.Get(ParamRegion)
	if !catalog.IsRegionFilter(s.Region) {
		s.Region = d.Region
		if !catalog.IsRegionFilter(s.Region) {
			s.Region = catalog.RegionAll
		}
	}

	s.Options = ValidOptions(RegionOptions(s.Region), t)
	if picked, ok := values[ParamCountry]; ok {
		seen := map[string]bool{}
		for _, c := range picked {
			for _, part := range strings.Split(c, ",") {
				part = strings.TrimSpace(part)
				if part == "" || seen[part] || !contains(s.Options, part) {
					continue
				}
				seen[part] = true
				s.Countries = append(s.Countries, part)
			}
		}
	} else {
		for _, c := range DefaultCountries(s.Region, RegionOptions(s.Region)) {
			if contains(s.Options, c) {
				s.Countries = append(s.Countries, c)
			}
		}
	}

	lo, hi := YearBounds(t)
	s.From, s.To = lo, hi
	if v, err := strconv.Atoi(values.Get(ParamFrom)); err == nil {
		s.From = v
	}
	if v, err := strconv.Atoi(values.Get(ParamTo)); err == nil {
		s.To = v
	}
	if s.From > s.To {
		s.From, s.To = s.To, s.From
	}
	s.From = clamp(s.From, lo, hi)
	s.To = clamp(s.To, lo, hi)
	return s
}

// Values encodes the selection back to query parameters.
func (s Selection) Values() url.Values {
	v := url.Values{}
	v.Set(ParamGoal, s.Goal)
	v.Set(ParamIndicator, s.Indicator)
	v.Set(ParamRegion, s.Region)
	for _, c := range s.Countries {
		v.Add(ParamCountry, c)
	}
	if len(s.Countries) == 0 {
		v.Set(ParamCountry, "")
	}
	v.Set(ParamFrom, strconv.Itoa(s.From))
	v.Set(ParamTo, strconv.Itoa(s.To))
	return v
}

// RegionOptions returns the region's countries with India first.
func RegionOptions(region string) []string {
	opts := catalog.Countries(region)
	if opts == nil {
		opts = catalog.Countries(catalog.RegionAll)
	}
	out := []string{catalog.Focus}
	for _, c := range opts {
		if c != catalog.Focus {
			out = append(out, c)
		}
	}
	return out
}

// ValidOptions keeps the options present in the table, or all of them when
// the table is empty.
func ValidOptions(options []string, t *pipeline.Table) []string {
	if t.Empty() {
		return append([]string(nil), options...)
	}
	var out []string
	for _, c := range options {
		if t.HasCountry(c) {
			out = append(out, c)
		}
	}
	return out
}

// DefaultCountries is India, Pakistan when offered and Indonesia when offered
// under a region that includes South East Asia.
func DefaultCountries(region string, options []string) []string {
	out := []string{catalog.Focus}
	if contains(options, "Pakistan") {
		out = append(out, "Pakistan")
	}
	if (region == catalog.RegionAll || region == catalog.RegionSEAsia) && contains(options, "Indonesia") {
		out = append(out, "Indonesia")
	}
	return out
}

// YearBounds returns the selectable year range: the table's year span, or
// the fixed empty-table range.
func YearBounds(t *pipeline.Table) (lo, hi int) {
	lo, hi, ok := t.YearSpan()
	if !ok {
		return MinYear, EmptyMaxYear
	}
	return lo, hi
}

// View holds every row set the page renders.
type View struct {
	Selection Selection
	Theme     catalog.Theme
	Base      *pipeline.Table
	Chart     *pipeline.Table
	Map       *pipeline.Table
	Peer      []pipeline.Record
	Radar     *radar.Result
	RadarErr  error
}

// Build filters the table for the selection.
func Build(t *pipeline.Table, s Selection) *View {
	v := &View{Selection: s, Theme: catalog.ThemeFor(s.Goal)}
	v.Base = t.Filter(func(r pipeline.Record) bool {
		return r.Indicator == s.Indicator && r.Year >= s.From && r.Year <= s.To
	})
	selected := set(s.Countries)
	v.Chart = v.Base.Filter(func(r pipeline.Record) bool { return selected[r.Country] })
	options := set(s.Options)
	v.Map = v.Base.Filter(func(r pipeline.Record) bool { return options[r.Country] })
	v.Peer = PeerRows(v.Chart, s.To)
	v.Radar, v.RadarErr = radar.Build(t, radar.Query{
		Year:       s.To,
		Indicators: catalog.AllIndicators(),
		Region:     s.Region,
		Countries:  s.Countries,
	})
	return v
}

// PeerRows returns the rows at year sorted ascending by value.
func PeerRows(t *pipeline.Table, year int) []pipeline.Record {
	rows := t.Filter(func(r pipeline.Record) bool { return r.Year == year }).Records()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value < rows[j].Value })
	return rows
}

func set(xs []string) map[string]bool {
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func contains(xs []string, x string) bool {
	for _, y := range xs {
		if y == x {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
