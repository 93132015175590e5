// Package pipeline turns the raw SDG table into the clean long-form table:
// aggregate-row filtering, indicator mapping, deduplication, per-country gap
// filling and region assignment.
package pipeline

import (
	"math"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/source"
)

// Total is the value a missing or empty dimension tag is read as.
const Total = "Total"

var (
	allowedSex      = map[string]bool{"BOTHSEX": true, Total: true, "FEMALE": true}
	allowedLocation = map[string]bool{"ALLAREA": true, Total: true}
	allowedAge      = map[string]bool{"ALLAGE": true, "<5Y": true, Total: true}
)

// Options controls the normalization.
type Options struct {
	// StartYear is the first year of the gap-filling grid.
	StartYear int
	// Catalog maps raw indicator codes to display names. Unknown codes are dropped.
	Catalog map[string]string
	// Regions defines the country filter and the region lookup.
	Regions []catalog.RegionList
	// Workers bounds concurrent per-country interpolation; 0 means GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the catalog, regions and 2015 start year.
func DefaultOptions() Options {
	return Options{
		StartYear: 2015,
		Catalog:   catalog.CodeToName(),
		Regions:   catalog.Regions(),
	}
}

// Normalize runs the full pipeline and returns the clean table.
func Normalize(raw *source.RawTable, opt Options) *Table {
	t, _ := NormalizeWithStats(raw, opt)
	return t
}

type key struct {
	country   string
	year      int
	indicator string
}

type meanAcc struct {
	sum float64
	n   int
}

// NormalizeWithStats runs the pipeline and reports per-step counts.
func NormalizeWithStats(raw *source.RawTable, opt Options) (*Table, Stats) {
	st := Stats{StartYear: opt.StartYear}
	if raw == nil {
		return &Table{}, st
	}
	st.Source = raw.Name
	st.RawRows = raw.Len()

	regionOf := map[string]string{}
	for _, r := range opt.Regions {
		for _, c := range r.Countries {
			if _, ok := regionOf[c]; !ok {
				regionOf[c] = r.Name
			}
		}
	}

	latest, haveYear := 0, false
	groups := map[key]*meanAcc{}
	for _, rec := range raw.Records {
		year, yok := parseYear(rec.Year)
		if yok && (!haveYear || year > latest) {
			latest, haveYear = year, true
		}

		if !dimensionOK(raw.HasSex, rec.Sex, allowedSex) ||
			!dimensionOK(raw.HasLocation, rec.Location, allowedLocation) ||
			!dimensionOK(raw.HasAge, rec.Age, allowedAge) {
			continue
		}
		st.AfterDimensions++

		name, ok := opt.Catalog[strings.TrimSpace(rec.Indicator)]
		if !ok {
			continue
		}
		st.AfterIndicators++

		value, vok := parseValue(rec.Value)
		if !vok {
			st.UnparsedValues++
		}

		country := strings.TrimSpace(rec.Country)
		if _, ok := regionOf[country]; !ok {
			continue
		}
		if !yok {
			st.BadYears++
			continue
		}
		st.AfterCountries++

		k := key{country: country, year: year, indicator: name}
		acc := groups[k]
		if acc == nil {
			acc = &meanAcc{}
			groups[k] = acc
		}
		if vok {
			acc.sum += value
			acc.n++
		}
	}
	st.DedupKeys = len(groups)
	st.LatestYear = latest
	if !haveYear {
		return &Table{}, st
	}

	parts := partition(groups)
	years := yearRange(opt.StartYear, latest)
	st.GridCells = len(parts.countries) * len(years) * len(parts.indicators)

	results := make([][]Record, len(parts.countries))
	counts := make([]fillCounts, len(parts.countries))
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, country := range parts.countries {
		g.Go(func() error {
			results[i], counts[i] = fillCountry(country, years, parts.indicators, parts.byCountry[country], opt.Regions)
			return nil
		})
	}
	_ = g.Wait() // fillCountry is infallible

	var out []Record
	for i := range results {
		out = append(out, results[i]...)
		st.Interpolated += counts[i].interpolated
		st.Extrapolated += counts[i].extrapolated
	}
	st.Records = len(out)
	st.Countries = len(parts.countries)
	st.Indicators = len(parts.indicators)
	sortRecords(out)
	return &Table{records: out}, st
}

type partitions struct {
	countries  []string
	indicators []string
	// country -> indicator -> year -> mean (NaN when all raw values were missing)
	byCountry map[string]map[string]map[int]float64
}

func partition(groups map[key]*meanAcc) partitions {
	p := partitions{byCountry: map[string]map[string]map[int]float64{}}
	seenInd := map[string]struct{}{}
	for k, acc := range groups {
		byInd := p.byCountry[k.country]
		if byInd == nil {
			byInd = map[string]map[int]float64{}
			p.byCountry[k.country] = byInd
			p.countries = append(p.countries, k.country)
		}
		if byInd[k.indicator] == nil {
			byInd[k.indicator] = map[int]float64{}
		}
		v := math.NaN()
		if acc.n > 0 {
			v = acc.sum / float64(acc.n)
		}
		byInd[k.indicator][k.year] = v
		if _, ok := seenInd[k.indicator]; !ok {
			seenInd[k.indicator] = struct{}{}
			p.indicators = append(p.indicators, k.indicator)
		}
	}
	sort.Strings(p.countries)
	sort.Strings(p.indicators)
	return p
}

func yearRange(from, to int) []int {
	if to < from {
		return nil
	}
	out := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		out = append(out, y)
	}
	return out
}

// fillCountry builds one country's slice of the grid, fills each indicator
// column and melts it back to records.
func fillCountry(country string, years []int, indicators []string, known map[string]map[int]float64, regions []catalog.RegionList) ([]Record, fillCounts) {
	var out []Record
	var total fillCounts
	region := AssignRegion(country, regions)
	col := make([]float64, len(years))
	for _, ind := range indicators {
		byYear := known[ind]
		for i, y := range years {
			col[i] = math.NaN()
			if v, ok := byYear[y]; ok {
				col[i] = v
			}
		}
		c := fillLinear(col)
		total.interpolated += c.interpolated
		total.extrapolated += c.extrapolated
		for i, v := range col {
			if math.IsNaN(v) {
				continue
			}
			out = append(out, Record{Country: country, Year: years[i], Indicator: ind, Value: v, Region: region})
		}
	}
	return out, total
}

// AssignRegion returns the region of country under regions, or "Other".
func AssignRegion(country string, regions []catalog.RegionList) string {
	for _, r := range regions {
		for _, c := range r.Countries {
			if c == country {
				return r.Name
			}
		}
	}
	return catalog.RegionOther
}

func dimensionOK(present bool, v string, allowed map[string]bool) bool {
	if !present {
		return true
	}
	v = strings.TrimSpace(v)
	if v == "" {
		v = Total
	}
	return allowed[v]
}

// parseValue coerces a raw value. Anything that is not a finite number is missing.
func parseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseYear accepts integers and integral floats such as "2018.0".
func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}
