package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// TextTable renders rows as space-aligned columns. Widths are measured in
// terminal cells, so wide glyphs and the ellipsis line up. Cells wider than
// maxWidth (when positive) are truncated.
func TextTable(header []string, rows [][]string, maxWidth int) string {
	cols := len(header)
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	cell := func(r []string, i int) string {
		if i >= len(r) {
			return ""
		}
		s := r[i]
		if maxWidth > 0 && runewidth.StringWidth(s) > maxWidth {
			s = runewidth.Truncate(s, maxWidth, "…")
		}
		return s
	}
	widths := make([]int, cols)
	measure := func(r []string) {
		for i := 0; i < cols; i++ {
			if w := runewidth.StringWidth(cell(r, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(header)
	for _, r := range rows {
		measure(r)
	}

	var b strings.Builder
	line := func(r []string) {
		for i := 0; i < cols; i++ {
			s := cell(r, i)
			if i == cols-1 {
				b.WriteString(s)
				break
			}
			b.WriteString(runewidth.FillRight(s, widths[i]))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	line(header)
	sep := make([]string, cols)
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	line(sep)
	for _, r := range rows {
		line(r)
	}
	return b.String()
}
