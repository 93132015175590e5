package pipeline

import (
	"fmt"
	"strings"
)

// Stats records what each pipeline step kept or produced.
type Stats struct {
	Source          string
	RawRows         int
	AfterDimensions int
	AfterIndicators int
	UnparsedValues  int
	BadYears        int
	AfterCountries  int
	DedupKeys       int
	StartYear       int
	LatestYear      int
	GridCells       int
	Interpolated    int
	Extrapolated    int
	Records         int
	Countries       int
	Indicators      int
}

// Markdown renders a compact report of a pipeline run.
func (s Stats) Markdown() string {
	var b strings.Builder
	b.WriteString("[PIPELINE SUMMARY]\n")
	if s.Source != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Source))
	}
	b.WriteString(fmt.Sprintf("Raw rows: %d\n", s.RawRows))
	b.WriteString(fmt.Sprintf("Clean records: %d\n\n", s.Records))

	b.WriteString("[STEPS]\n")
	b.WriteString(fmt.Sprintf("- aggregate filter: %d kept (%s)\n", s.AfterDimensions, pct(s.AfterDimensions, s.RawRows)))
	b.WriteString(fmt.Sprintf("- indicator mapping: %d kept\n", s.AfterIndicators))
	b.WriteString(fmt.Sprintf("- value coercion: %d unparseable values treated as missing\n", s.UnparsedValues))
	b.WriteString(fmt.Sprintf("- country filter: %d kept", s.AfterCountries))
	if s.BadYears > 0 {
		b.WriteString(fmt.Sprintf(" (%d rows with malformed year dropped)", s.BadYears))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("- deduplication: %d distinct country/year/indicator keys\n", s.DedupKeys))
	b.WriteString(fmt.Sprintf("- gap filling: %d grid cells, %d interpolated, %d edge-filled\n", s.GridCells, s.Interpolated, s.Extrapolated))

	b.WriteString("\n[COVERAGE]\n")
	if s.LatestYear >= s.StartYear && s.Records > 0 {
		b.WriteString(fmt.Sprintf("Years: %d-%d\n", s.StartYear, s.LatestYear))
	} else {
		b.WriteString("Years: none\n")
	}
	b.WriteString(fmt.Sprintf("Countries: %d\n", s.Countries))
	b.WriteString(fmt.Sprintf("Indicators: %d\n", s.Indicators))
	if s.Records == 0 {
		b.WriteString("\n[NOTES]\n- no data survived the pipeline\n")
	}
	return b.String()
}

func pct(n, of int) string {
	if of == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(of))
}
