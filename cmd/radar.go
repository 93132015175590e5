package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/radar"
	"github.com/KaramelBytes/sdgdash/internal/utils"
	"github.com/KaramelBytes/sdgdash/internal/view"
)

var (
	radarYear       int
	radarRegion     string
	radarCountries  []string
	radarIndicators []string
	radarJSON       bool
)

var radarCmd = &cobra.Command{
	Use:   "radar",
	Short: "Print the cohort-normalized cross-goal radar values",
	Long: `Scale every indicator to [0, 1] over the selected cohort at one year and
print the region averages, India and the peers. Indicators may be given as
codes (3.1.1) or display names.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(current())
		if err != nil {
			return err
		}
		region := a.cfg.DefaultRegion
		if cmd.Flags().Changed("region") {
			region = radarRegion
		}
		if !catalog.IsRegionFilter(region) {
			return fmt.Errorf("invalid --region %q (use All, South Asia or South East Asia)", region)
		}
		inds, err := resolveIndicators(radarIndicators)
		if err != nil {
			return err
		}
		res, err := a.mustLoad(cmd.Context())
		if err != nil {
			return err
		}
		t := res.Table

		year := radarYear
		if year == 0 {
			_, year = view.YearBounds(t)
		}
		countries := radarCountries
		if len(countries) == 0 {
			options := view.ValidOptions(view.RegionOptions(region), t)
			countries = view.DefaultCountries(region, options)
		}

		out, err := radar.Build(t, radar.Query{Year: year, Indicators: inds, Region: region, Countries: countries})
		if errors.Is(err, radar.ErrNoData) {
			return fmt.Errorf("%w for %d", err, year)
		}
		if err != nil {
			return err
		}

		if radarJSON {
			b, err := utils.PrettyJSON(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		header := append([]string{"Series"}, out.Categories...)
		rows := make([][]string, 0, len(out.Series))
		for _, s := range out.Series {
			row := []string{s.Name}
			for _, v := range s.Values {
				row = append(row, strconv.FormatFloat(v, 'f', 3, 64))
			}
			rows = append(rows, row)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Year: %d  Region: %s\n", out.Year, region)
		if out.CohortFallback {
			fmt.Fprintln(w, "Cohort: no selected country has data, scaled over all countries")
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, utils.TextTable(header, rows, 24))
		return nil
	},
}

// resolveIndicators maps codes to display names; empty means all.
func resolveIndicators(in []string) ([]string, error) {
	if len(in) == 0 {
		return catalog.AllIndicators(), nil
	}
	known := map[string]bool{}
	for _, name := range catalog.AllIndicators() {
		known[name] = true
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if name, ok := catalog.DisplayName(s); ok {
			out = append(out, name)
			continue
		}
		if p := catalog.Presentation(s); known[p] {
			out = append(out, p)
			continue
		}
		return nil, fmt.Errorf("unknown indicator %q", s)
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(radarCmd)
	radarCmd.Flags().IntVar(&radarYear, "year", 0, "year to compare (default: latest)")
	radarCmd.Flags().StringVar(&radarRegion, "region", "", "All | South Asia | South East Asia (default: config default_region)")
	radarCmd.Flags().StringSliceVar(&radarCountries, "countries", nil, "comma-separated countries (default: India, Pakistan, Indonesia as available)")
	radarCmd.Flags().StringSliceVar(&radarIndicators, "indicators", nil, "comma-separated indicator codes or names (default: all six)")
	radarCmd.Flags().BoolVar(&radarJSON, "json", false, "print the result as JSON")
}
