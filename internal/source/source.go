// Package source locates and reads the raw SDG indicator table.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound indicates none of the candidate paths exists.
var ErrNotFound = errors.New("data source not found")

// ErrMissingColumn indicates a required column is absent from the header.
var ErrMissingColumn = errors.New("required column missing")

// RawRecord is one raw row. Year and Value stay textual; the pipeline decides
// how to coerce them. Empty dimension fields mean the tag was missing.
type RawRecord struct {
	Indicator string
	Country   string
	Year      string
	Value     string
	Sex       string
	Location  string
	Age       string
}

// RawTable is the parsed source. The Has* flags record whether the optional
// dimension columns exist at all.
type RawTable struct {
	Name        string
	Records     []RawRecord
	HasSex      bool
	HasLocation bool
	HasAge      bool
}

// Len returns the number of raw rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Reader reads one file format into a RawTable.
type Reader interface {
	CanRead(filename string) bool
	Read(path string) (*RawTable, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
}

// Read selects a reader based on filename. Unknown extensions are read as CSV.
func Read(path string) (*RawTable, error) {
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path)
		}
	}
	return csvReader{}.Read(path)
}

// ReadSheet is Read with an explicit sheet for .xlsx sources.
func ReadSheet(path, sheet string) (*RawTable, error) {
	if sheet != "" && (xlsxReader{}).CanRead(path) {
		return ReadXLSX(path, sheet)
	}
	return Read(path)
}

// DefaultCandidates are tried in order when no explicit path is configured.
func DefaultCandidates() []string {
	c := []string{
		filepath.Join("appSDG", "SDG_final.csv"),
		"SDG_final.csv",
	}
	if exe, err := os.Executable(); err == nil {
		c = append(c, filepath.Join(filepath.Dir(exe), "SDG_final.csv"))
	}
	return c
}

// Locate returns the first candidate that exists as a regular file.
func Locate(candidates []string) (string, error) {
	for _, p := range candidates {
		if strings.TrimSpace(p) == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		return p, nil
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNotFound, strings.Join(candidates, ", "))
}

// field positions of a header row; -1 when absent
type columns struct {
	indicator, country, year, value int
	sex, location, age                int
}

var headerAliases = map[string][]string{
	"indicator": {"indicator", "seriescode", "indicatorcode"},
	"country":   {"geoareaname", "country", "countryname"},
	"year":      {"timeperiod", "year"},
	"value":     {"value"},
	"sex":       {"sex"},
	"location":  {"location"},
	"age":       {"age"},
}

func mapHeader(header []string) (columns, error) {
	idx := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	find := func(field string) int {
		for _, alias := range headerAliases[field] {
			if i, ok := idx[alias]; ok {
				return i
			}
		}
		return -1
	}
	c := columns{
		indicator: find("indicator"),
		country:   find("country"),
		year:      find("year"),
		value:     find("value"),
		sex:       find("sex"),
		location:  find("location"),
		age:       find("age"),
	}
	var missing []string
	if c.indicator < 0 {
		missing = append(missing, "Indicator")
	}
	if c.country < 0 {
		missing = append(missing, "GeoAreaName")
	}
	if c.year < 0 {
		missing = append(missing, "TimePeriod")
	}
	if c.value < 0 {
		missing = append(missing, "Value")
	}
	if len(missing) > 0 {
		return c, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return c, nil
}

func (c columns) record(row []string) RawRecord {
	at := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}
	return RawRecord{
		Indicator: at(c.indicator),
		Country:   at(c.country),
		Year:      at(c.year),
		Value:     at(c.value),
		Sex:       at(c.sex),
		Location:  at(c.location),
		Age:       at(c.age),
	}
}

func (c columns) table(name string) *RawTable {
	return &RawTable{
		Name:        name,
		HasSex:      c.sex >= 0,
		HasLocation: c.location >= 0,
		HasAge:      c.age >= 0,
	}
}
