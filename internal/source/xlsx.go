package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxReader struct {
	sheet string
}

func (xlsxReader) CanRead(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Read parses the first sheet of the workbook.
func (x xlsxReader) Read(path string) (*RawTable, error) {
	return ReadXLSX(path, x.sheet)
}

// ReadXLSX parses a sheet of an .xlsx workbook. An empty sheetName selects the
// first sheet.
func ReadXLSX(path, sheetName string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("open xlsx: workbook %s has no sheets", filepath.Base(path))
	}
	target := sheets[0]
	if sheetName != "" {
		target = ""
		for _, s := range sheets {
			if strings.EqualFold(s, sheetName) {
				target = s
				break
			}
		}
		if target == "" {
			return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				sheetName, filepath.Base(path), strings.Join(sheets, ", "))
		}
	}

	rows, err := f.GetRows(target)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", target, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read header: %w", ErrMissingColumn)
	}
	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}
	t := cols.table(filepath.Base(path))
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		t.Records = append(t.Records, cols.record(row))
	}
	return t, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
