package pipeline

import (
	"math"
	"reflect"
	"testing"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/source"
)

func name(t *testing.T, code string) string {
	t.Helper()
	n, ok := catalog.DisplayName(code)
	if !ok {
		t.Fatalf("unknown code %s", code)
	}
	return n
}

func raw(recs ...source.RawRecord) *source.RawTable {
	return &source.RawTable{Name: "test.csv", Records: recs, HasSex: true, HasLocation: true, HasAge: true}
}

func rr(code, country, year, value, sex string) source.RawRecord {
	return source.RawRecord{Indicator: code, Country: country, Year: year, Value: value, Sex: sex}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// lookup returns the value for a country, year and indicator.
func lookup(tab *Table, country string, year int, indicator string) (float64, bool) {
	var v float64
	found := false
	tab.Each(func(r Record) {
		if r.Country == country && r.Year == year && r.Indicator == indicator {
			v, found = r.Value, true
		}
	})
	return v, found
}

func TestNormalize_MidpointInterpolation(t *testing.T) {
	in := raw(
		rr("3.1.1", "India", "2018", "130", "FEMALE"),
		rr("3.1.1", "India", "2020", "110", "FEMALE"),
	)
	tab := Normalize(in, DefaultOptions())
	v, ok := lookup(tab, "India", 2019, name(t, "3.1.1"))
	if !ok || !approx(v, 120) {
		t.Fatalf("expected interpolated 120, got %v (ok=%v)", v, ok)
	}
	// edges take the nearest known value
	if v, _ := lookup(tab, "India", 2015, name(t, "3.1.1")); !approx(v, 130) {
		t.Fatalf("expected leading fill 130, got %v", v)
	}
	if tab.MaxYear() != 2020 {
		t.Fatalf("grid should end at latest raw year, got %d", tab.MaxYear())
	}
	if tab.Len() != 6 {
		t.Fatalf("expected 2015..2020 = 6 records, got %d", tab.Len())
	}
}

func TestNormalize_DedupAveragesMissingSexAsTotal(t *testing.T) {
	in := raw(
		rr("2.1.1", "India", "2020", "10", "BOTHSEX"),
		rr("2.1.1", "India", "2020", "12", ""),
	)
	tab := Normalize(in, DefaultOptions())
	n := 0
	tab.Each(func(r Record) {
		if r.Year == 2020 {
			n++
			if !approx(r.Value, 11) {
				t.Fatalf("expected mean 11, got %v", r.Value)
			}
		}
	})
	if n != 1 {
		t.Fatalf("expected exactly one 2020 row, got %d", n)
	}
}

func TestNormalize_AggregateFilter(t *testing.T) {
	in := raw(
		source.RawRecord{Indicator: "3.2.1", Country: "Nepal", Year: "2016", Value: "30", Sex: "MALE"},
		source.RawRecord{Indicator: "3.2.1", Country: "Nepal", Year: "2016", Value: "40", Location: "URBAN"},
		source.RawRecord{Indicator: "3.2.1", Country: "Nepal", Year: "2016", Value: "50", Age: "15-24"},
		source.RawRecord{Indicator: "3.2.1", Country: "Nepal", Year: "2016", Value: "20", Sex: "BOTHSEX", Location: "ALLAREA", Age: "<5Y"},
	)
	tab := Normalize(in, DefaultOptions())
	v, ok := lookup(tab, "Nepal", 2016, name(t, "3.2.1"))
	if !ok || !approx(v, 20) {
		t.Fatalf("only the aggregate row should survive, got %v", v)
	}
}

func TestNormalize_AbsentDimensionColumnsPass(t *testing.T) {
	in := &source.RawTable{Records: []source.RawRecord{
		{Indicator: "6.2.1", Country: "Bhutan", Year: "2015", Value: "40", Sex: "MALE"},
	}}
	tab := Normalize(in, DefaultOptions())
	if v, ok := lookup(tab, "Bhutan", 2015, name(t, "6.2.1")); !ok || !approx(v, 40) {
		t.Fatalf("absent sex column must not filter, got %v ok=%v", v, ok)
	}
}

func TestNormalize_DropsUnknownCodesCountriesAndTrims(t *testing.T) {
	in := raw(
		rr(" 2.1.1 ", "  India ", "2015", "15", ""),
		rr("9.9.9", "India", "2015", "1", ""),
		rr("2.1.1", "France", "2015", "3", ""),
	)
	tab, st := NormalizeWithStats(in, DefaultOptions())
	if got := tab.Countries(); !reflect.DeepEqual(got, []string{"India"}) {
		t.Fatalf("unexpected countries %v", got)
	}
	if got := tab.Indicators(); !reflect.DeepEqual(got, []string{name(t, "2.1.1")}) {
		t.Fatalf("unexpected indicators %v", got)
	}
	if st.AfterIndicators != 2 || st.AfterCountries != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestNormalize_UnparseableValuesAreGapFilled(t *testing.T) {
	in := raw(
		rr("6.1.1", "Thailand", "2015", "20", ""),
		rr("6.1.1", "Thailand", "2016", "n/a", ""),
		rr("6.1.1", "Thailand", "2017", "40", ""),
		rr("6.1.1", "Malaysia", "2016", "..", ""),
	)
	tab, st := NormalizeWithStats(in, DefaultOptions())
	if v, _ := lookup(tab, "Thailand", 2016, name(t, "6.1.1")); !approx(v, 30) {
		t.Fatalf("expected 30, got %v", v)
	}
	if tab.HasCountry("Malaysia") {
		t.Fatalf("a country with no known value must be dropped")
	}
	if st.UnparsedValues != 2 {
		t.Fatalf("expected 2 unparsed values, got %d", st.UnparsedValues)
	}
}

func TestNormalize_RowsBeforeStartYearDiscarded(t *testing.T) {
	in := raw(
		rr("3.2.1", "Pakistan", "2010", "90", ""),
		rr("3.2.1", "Pakistan", "2017.0", "70", ""),
		rr("3.2.1", "Pakistan", "year", "70", ""),
	)
	tab, st := NormalizeWithStats(in, DefaultOptions())
	lo, hi, ok := tab.YearSpan()
	if !ok || lo != 2015 || hi != 2017 {
		t.Fatalf("unexpected span %d..%d", lo, hi)
	}
	tab.Each(func(r Record) {
		if !approx(r.Value, 70) {
			t.Fatalf("pre-grid rows must not influence fill, got %v in %d", r.Value, r.Year)
		}
	})
	if st.BadYears != 1 {
		t.Fatalf("expected 1 malformed year, got %d", st.BadYears)
	}
}

func TestNormalize_LatestYearFromWholeRawInput(t *testing.T) {
	in := raw(
		rr("2.2.1", "Nepal", "2016", "35", ""),
		rr("9.9.9", "France", "2022", "1", ""),
	)
	tab := Normalize(in, DefaultOptions())
	if tab.MaxYear() != 2022 {
		t.Fatalf("grid should extend to latest raw year 2022, got %d", tab.MaxYear())
	}
}

func TestNormalize_CompletenessAndUniqueness(t *testing.T) {
	in := raw(
		rr("2.1.1", "India", "2016", "16", "BOTHSEX"),
		rr("2.1.1", "India", "2016", "18", "FEMALE"),
		rr("2.1.1", "India", "2021", "14", ""),
		rr("3.2.1", "Indonesia", "2019", "24", ""),
		rr("6.1.1", "Viet Nam", "2023", "55", ""),
	)
	tab := Normalize(in, DefaultOptions())
	seen := map[key]int{}
	tab.Each(func(r Record) {
		seen[key{r.Country, r.Year, r.Indicator}]++
		if r.Region == "" || r.Region == catalog.RegionOther {
			t.Fatalf("unexpected region %q for %s", r.Region, r.Country)
		}
	})
	for k, n := range seen {
		if n != 1 {
			t.Fatalf("duplicate key %+v", k)
		}
	}
	pairs := map[[2]string]bool{}
	tab.Each(func(r Record) { pairs[[2]string{r.Country, r.Indicator}] = true })
	for p := range pairs {
		for y := 2015; y <= 2023; y++ {
			if _, ok := lookup(tab, p[0], y, p[1]); !ok {
				t.Fatalf("missing %v in %d", p, y)
			}
		}
	}
	if v, _ := lookup(tab, "India", 2016, name(t, "2.1.1")); !approx(v, 17) {
		t.Fatalf("FEMALE rows are kept and averaged, got %v", v)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	in := raw(
		rr("3.1.1", "Sri Lanka", "2015", "30", "FEMALE"),
		rr("3.1.1", "Sri Lanka", "2019", "26", "FEMALE"),
		rr("6.2.1", "Singapore", "2018", "100", ""),
	)
	opt := DefaultOptions()
	opt.Workers = 1
	a := Normalize(in, opt)
	opt.Workers = 8
	b := Normalize(in, opt)
	if !reflect.DeepEqual(a.Records(), b.Records()) {
		t.Fatalf("pipeline not deterministic")
	}
}

func TestNormalize_EmptyAndNil(t *testing.T) {
	if !Normalize(nil, DefaultOptions()).Empty() {
		t.Fatalf("nil input should produce empty table")
	}
	if !Normalize(&source.RawTable{}, DefaultOptions()).Empty() {
		t.Fatalf("empty input should produce empty table")
	}
}

func TestAssignRegion(t *testing.T) {
	for country, want := range map[string]string{
		"Nepal":    catalog.RegionSouthAsia,
		"Viet Nam": catalog.RegionSEAsia,
		"Japan":    catalog.RegionOther,
	} {
		if got := AssignRegion(country, catalog.Regions()); got != want {
			t.Fatalf("%s: want %q got %q", country, want, got)
		}
	}
}

func TestFillLinear(t *testing.T) {
	nan := math.NaN()
	ys := []float64{nan, 2, nan, nan, 8, nan}
	c := fillLinear(ys)
	want := []float64{2, 2, 4, 6, 8, 8}
	for i := range want {
		if !approx(ys[i], want[i]) {
			t.Fatalf("index %d: want %v got %v", i, want[i], ys[i])
		}
	}
	if c.interpolated != 2 || c.extrapolated != 2 {
		t.Fatalf("unexpected counts %+v", c)
	}
	empty := []float64{nan, nan}
	fillLinear(empty)
	if !math.IsNaN(empty[0]) {
		t.Fatalf("all-missing column must stay missing")
	}
}
