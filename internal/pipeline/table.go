package pipeline

import (
	"sort"
)

// Record is one cleaned observation. For a given (Country, Year, Indicator)
// a Table holds at most one Record.
type Record struct {
	Country   string  `json:"country"`
	Year      int     `json:"year"`
	Indicator string  `json:"indicator"`
	Value     float64 `json:"value"`
	Region    string  `json:"region"`
}

// Table is the clean long-form table. It is never mutated after construction;
// every transforming method returns a new Table.
type Table struct {
	records []Record
}

// NewTable copies recs into a table sorted by country, indicator and year.
func NewTable(recs []Record) *Table {
	out := make([]Record, len(recs))
	copy(out, recs)
	sortRecords(out)
	return &Table{records: out}
}

func sortRecords(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Indicator != b.Indicator {
			return a.Indicator < b.Indicator
		}
		return a.Year < b.Year
	})
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Empty reports whether the table has no records.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Records returns a copy of the records.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Each calls fn for every record in table order.
func (t *Table) Each(fn func(Record)) {
	if t == nil {
		return
	}
	for _, r := range t.records {
		fn(r)
	}
}

// Filter returns the records matching keep.
func (t *Table) Filter(keep func(Record) bool) *Table {
	if t == nil {
		return &Table{}
	}
	var out []Record
	for _, r := range t.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return &Table{records: out}
}

// Rename replaces indicator names found in m. Names absent from m are kept.
func (t *Table) Rename(m map[string]string) *Table {
	if t == nil {
		return &Table{}
	}
	out := make([]Record, len(t.records))
	for i, r := range t.records {
		if n, ok := m[r.Indicator]; ok {
			r.Indicator = n
		}
		out[i] = r
	}
	sortRecords(out)
	return &Table{records: out}
}

// Countries returns the distinct countries, sorted.
func (t *Table) Countries() []string {
	return t.distinct(func(r Record) string { return r.Country })
}

// Indicators returns the distinct indicator names, sorted.
func (t *Table) Indicators() []string {
	return t.distinct(func(r Record) string { return r.Indicator })
}

func (t *Table) distinct(key func(Record) string) []string {
	seen := map[string]struct{}{}
	var out []string
	t.Each(func(r Record) {
		k := key(r)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	})
	sort.Strings(out)
	return out
}

// HasCountry reports whether any record belongs to country.
func (t *Table) HasCountry(country string) bool {
	if t == nil {
		return false
	}
	for _, r := range t.records {
		if r.Country == country {
			return true
		}
	}
	return false
}

// YearSpan returns the smallest and largest year. ok is false for an empty table.
func (t *Table) YearSpan() (lo, hi int, ok bool) {
	if t.Empty() {
		return 0, 0, false
	}
	lo, hi = t.records[0].Year, t.records[0].Year
	for _, r := range t.records[1:] {
		if r.Year < lo {
			lo = r.Year
		}
		if r.Year > hi {
			hi = r.Year
		}
	}
	return lo, hi, true
}

// MaxYear returns the largest year, or 0 for an empty table.
func (t *Table) MaxYear() int {
	_, hi, _ := t.YearSpan()
	return hi
}
