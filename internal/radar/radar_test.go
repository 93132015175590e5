package radar

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/pipeline"
)

func rec(country, ind string, year int, v float64) pipeline.Record {
	return pipeline.Record{Country: country, Year: year, Indicator: ind, Value: v, Region: pipeline.AssignRegion(country, catalog.Regions())}
}

func TestBuild_ZeroSpreadIsZero(t *testing.T) {
	tab := pipeline.NewTable([]pipeline.Record{
		rec("India", "X", 2020, 50),
		rec("Pakistan", "X", 2020, 50),
	})
	res, err := Build(tab, Query{Year: 2020, Indicators: []string{"X"}, Region: catalog.RegionSouthAsia, Countries: []string{"India", "Pakistan"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, s := range res.Series {
		if s.Values[0] != 0 {
			t.Fatalf("%s: expected 0, got %v", s.Name, s.Values[0])
		}
	}
}

func TestBuild_SeriesOrderAndBounds(t *testing.T) {
	tab := pipeline.NewTable([]pipeline.Record{
		rec("India", "A", 2020, 10), rec("India", "B", 2020, 5),
		rec("Pakistan", "A", 2020, 20), rec("Pakistan", "B", 2020, 1),
		rec("Nepal", "A", 2020, 30),
		rec("Indonesia", "A", 2020, 40), rec("Indonesia", "B", 2020, 9),
		rec("Thailand", "A", 2020, 0),
		rec("India", "A", 2019, 999),
	})
	res, err := Build(tab, Query{
		Year:       2020,
		Indicators: []string{"B", "missing", "A"},
		Region:     catalog.RegionAll,
		Countries:  []string{"Indonesia", "India", "Pakistan", "Indonesia"},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !reflect.DeepEqual(res.Categories, []string{"B", "A"}) {
		t.Fatalf("unexpected categories %v", res.Categories)
	}
	var names []string
	for _, s := range res.Series {
		names = append(names, s.Name)
		for i, v := range s.Values {
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("%s[%d] out of bounds: %v", s.Name, i, v)
			}
		}
	}
	want := []string{SouthAsiaAvg, SEAsiaAvg, "India", "Indonesia", "Pakistan"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("series order %v, want %v", names, want)
	}
	m := res.Map()
	// A spans 0..40 over the whole cohort
	if got := m["India"][1]; math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("India A: want 0.25, got %v", got)
	}
	// Nepal has no B; South Asia B average is mean(5, 1) = 3 over 1..9
	if got := m[SouthAsiaAvg][0]; math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("South Asia B: want 0.25, got %v", got)
	}
	if res.CohortFallback {
		t.Fatalf("cohort should not fall back")
	}
}

func TestBuild_RegionScope(t *testing.T) {
	tab := pipeline.NewTable([]pipeline.Record{
		rec("India", "A", 2020, 10),
		rec("Indonesia", "A", 2020, 40),
		rec("Thailand", "A", 2020, 0),
	})
	res, err := Build(tab, Query{Year: 2020, Indicators: []string{"A"}, Region: catalog.RegionSouthAsia, Countries: []string{"India"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(res.Series) != 2 || res.Series[0].Name != SouthAsiaAvg || res.Series[1].Name != "India" {
		t.Fatalf("unexpected series %+v", res.Series)
	}
	if !reflect.DeepEqual(res.Cohort, []string{"India"}) {
		t.Fatalf("unexpected cohort %v", res.Cohort)
	}
}

func TestBuild_CohortFallback(t *testing.T) {
	tab := pipeline.NewTable([]pipeline.Record{
		{Country: "Japan", Year: 2020, Indicator: "A", Value: 4, Region: catalog.RegionOther},
		{Country: "Korea", Year: 2020, Indicator: "A", Value: 8, Region: catalog.RegionOther},
	})
	res, err := Build(tab, Query{Year: 2020, Indicators: []string{"A"}, Region: catalog.RegionSouthAsia, Countries: []string{"Korea"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if res.CohortFallback {
		t.Fatalf("explicit country in data should form the cohort")
	}

	res, err = Build(tab, Query{Year: 2020, Indicators: []string{"A"}, Region: catalog.RegionSouthAsia})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !res.CohortFallback || len(res.Cohort) != 2 {
		t.Fatalf("expected fallback to every country, got %+v", res)
	}
}

func TestBuild_NoData(t *testing.T) {
	tab := pipeline.NewTable([]pipeline.Record{rec("India", "A", 2019, 1)})
	res, err := Build(tab, Query{Year: 2020, Indicators: []string{"A"}, Region: catalog.RegionAll})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if !res.Empty() {
		t.Fatalf("expected empty result")
	}
	if _, err := Build(&pipeline.Table{}, Query{Year: 2020}); !errors.Is(err, ErrNoData) {
		t.Fatalf("empty table: expected ErrNoData, got %v", err)
	}
}

func TestBuild_MissingValueScalesToZero(t *testing.T) {
	tab := pipeline.NewTable([]pipeline.Record{
		rec("India", "A", 2020, 10),
		rec("Pakistan", "A", 2020, 20), rec("Pakistan", "B", 2020, 3),
		rec("Nepal", "B", 2020, 7),
	})
	res, err := Build(tab, Query{Year: 2020, Indicators: []string{"A", "B"}, Region: catalog.RegionSouthAsia, Countries: []string{"India"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := res.Map()["India"]; got[1] != 0 {
		t.Fatalf("missing value must scale to 0, got %v", got)
	}
}

func TestBuild_CohortFollowsRecordRegion(t *testing.T) {
	tab := pipeline.NewTable([]pipeline.Record{
		{Country: "India", Year: 2020, Indicator: "X", Value: 10, Region: catalog.RegionSouthAsia},
		{Country: "Japan", Year: 2020, Indicator: "X", Value: 30, Region: catalog.RegionSouthAsia},
		{Country: "Nepal", Year: 2020, Indicator: "X", Value: 90, Region: catalog.RegionOther},
	})
	res, err := Build(tab, Query{Year: 2020, Indicators: []string{"X"}, Region: catalog.RegionSouthAsia})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !reflect.DeepEqual(res.Cohort, []string{"India", "Japan"}) {
		t.Fatalf("unexpected cohort %v", res.Cohort)
	}
	// South Asia average (10+30)/2 = 20 over cohort span 10..30
	if got := res.Map()[SouthAsiaAvg]; len(got) != 1 || math.Abs(got[0]-0.5) > 1e-9 {
		t.Fatalf("unexpected region average %v", got)
	}
}

func TestResult_MapNil(t *testing.T) {
	var r *Result
	if r.Map() != nil {
		t.Fatalf("nil result should map to nil")
	}
}
