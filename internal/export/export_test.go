package export

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/sdgdash/internal/pipeline"
)

func sample() *pipeline.Table {
	return pipeline.NewTable([]pipeline.Record{
		{Country: "India", Year: 2019, Indicator: "3.1.1 Maternal Mortality Ratio (per 100k births)", Value: 120, Region: "South Asia"},
		{Country: "India", Year: 2020, Indicator: "3.1.1 Maternal Mortality Ratio (per 100k births)", Value: 110.5, Region: "South Asia"},
		{Country: "Viet Nam", Year: 2020, Indicator: "6.1.1 Drinking water, \"safe\"", Value: 55, Region: "South East Asia"},
	})
}

func TestWriteCSV(t *testing.T) {
	p := filepath.Join(t.TempDir(), "clean.csv")
	if err := Write(sample(), "CSV", p); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 4 || lines[0] != "Country,Year,Indicator,Value,Region" {
		t.Fatalf("unexpected csv:\n%s", b)
	}
	if lines[2] != "India,2020,3.1.1 Maternal Mortality Ratio (per 100k births),110.5,South Asia" {
		t.Fatalf("unexpected row %q", lines[2])
	}
	if !strings.Contains(lines[3], `"6.1.1 Drinking water, ""safe"""`) {
		t.Fatalf("quoting broken: %q", lines[3])
	}
}

func TestWriteXLSX(t *testing.T) {
	p := filepath.Join(t.TempDir(), "clean.xlsx")
	if err := Write(sample(), FormatXLSX, p); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenFile(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 || rows[0][0] != "Country" || rows[1][1] != "2019" || rows[2][3] != "110.5" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestWriteSQLiteReplacesTable(t *testing.T) {
	p := filepath.Join(t.TempDir(), "clean.db")
	for i := 0; i < 2; i++ {
		if err := Write(sample(), FormatSQLite, p); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	db, err := sql.Open("sqlite", p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM clean_records`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows after re-export, got %d", n)
	}
	var v float64
	if err := db.QueryRow(`SELECT value FROM clean_records WHERE country = ? AND year = ?`, "India", 2020).Scan(&v); err != nil || v != 110.5 {
		t.Fatalf("unexpected value %v (%v)", v, err)
	}
}

func TestUnknownFormat(t *testing.T) {
	err := Write(sample(), "parquet", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if _, err := FormatFor("out.json"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
	if f, _ := FormatFor("OUT.XLSX"); f != FormatXLSX {
		t.Fatalf("unexpected format %q", f)
	}
}
