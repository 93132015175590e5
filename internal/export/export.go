// Package export writes the clean table to CSV, XLSX or SQLite.
package export

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/sdgdash/internal/pipeline"
	"github.com/KaramelBytes/sdgdash/internal/utils"
)

// ErrUnknownFormat is returned for a format other than csv, xlsx or sqlite.
var ErrUnknownFormat = errors.New("unknown export format")

// Supported formats.
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
)

// SheetName is the worksheet written by the XLSX export.
const SheetName = "clean"

// TableName is the SQLite table written by the SQLite export.
const TableName = "clean_records"

// Header is the column order of every export.
var Header = []string{"Country", "Year", "Indicator", "Value", "Region"}

// Formats lists the supported formats.
func Formats() []string { return []string{FormatCSV, FormatXLSX, FormatSQLite} }

// FormatFor guesses the format from a file extension.
func FormatFor(path string) (string, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(lower, ".xlsx"):
		return FormatXLSX, nil
	case strings.HasSuffix(lower, ".sqlite"), strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite3"):
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: cannot infer from %q", ErrUnknownFormat, path)
}

// Write exports t to path in format.
func Write(t *pipeline.Table, format, path string) error {
	switch strings.ToLower(format) {
	case FormatCSV:
		b, err := CSV(t)
		if err != nil {
			return err
		}
		return utils.SafeWriteFile(path, b)
	case FormatXLSX:
		b, err := XLSX(t)
		if err != nil {
			return err
		}
		return utils.SafeWriteFile(path, b)
	case FormatSQLite:
		return SQLite(t, path)
	default:
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// CSV encodes the table with a header row.
func CSV(t *pipeline.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	var werr error
	t.Each(func(r pipeline.Record) {
		if werr != nil {
			return
		}
		werr = w.Write([]string{
			r.Country,
			strconv.Itoa(r.Year),
			r.Indicator,
			strconv.FormatFloat(r.Value, 'f', -1, 64),
			r.Region,
		})
	})
	if werr != nil {
		return nil, fmt.Errorf("write csv row: %w", werr)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX builds a workbook with one sheet of typed cells and a frozen header.
func XLSX(t *pipeline.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	head := make([]interface{}, len(Header))
	for i, h := range Header {
		head[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &head); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	row := 2
	var werr error
	t.Each(func(r pipeline.Record) {
		if werr != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			werr = err
			return
		}
		vals := []interface{}{r.Country, r.Year, r.Indicator, r.Value, r.Region}
		werr = f.SetSheetRow(SheetName, cell, &vals)
		row++
	})
	if werr != nil {
		return nil, fmt.Errorf("write row %d: %w", row, werr)
	}
	if err := f.SetColWidth(SheetName, "C", "C", 60); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// SQLite replaces the clean_records table in the database at path.
func SQLite(t *pipeline.Table, path string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`DROP TABLE IF EXISTS "` + TableName + `"`,
		`CREATE TABLE "` + TableName + `" (
			country   TEXT    NOT NULL,
			year      INTEGER NOT NULL,
			indicator TEXT    NOT NULL,
			value     REAL    NOT NULL,
			region    TEXT    NOT NULL,
			PRIMARY KEY (country, year, indicator)
		)`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	ins, err := tx.Prepare(`INSERT INTO "` + TableName + `" (country, year, indicator, value, region) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	var werr error
	t.Each(func(r pipeline.Record) {
		if werr != nil {
			return
		}
		_, werr = ins.Exec(r.Country, r.Year, r.Indicator, r.Value, r.Region)
	})
	if werr != nil {
		return fmt.Errorf("insert: %w", werr)
	}
	if _, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_clean_records_indicator ON "` + TableName + `"(indicator, year)`); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
