package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sdgdash/internal/export"
	"github.com/KaramelBytes/sdgdash/internal/pipeline"
	"github.com/KaramelBytes/sdgdash/internal/utils"
)

var (
	cleanOutput  string
	cleanLimit   int
	cleanCountry string
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run the cleaning pipeline and print or save the clean table",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(current())
		if err != nil {
			return err
		}
		res, err := a.mustLoad(cmd.Context())
		if err != nil {
			return err
		}
		t := res.Table
		if cleanCountry != "" {
			t = t.Filter(func(r pipeline.Record) bool { return r.Country == cleanCountry })
		}

		if cleanOutput != "" {
			if err := export.Write(t, export.FormatCSV, cleanOutput); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d records to %s\n", t.Len(), cleanOutput)
			return nil
		}

		var rows [][]string
		t.Each(func(r pipeline.Record) {
			if cleanLimit > 0 && len(rows) >= cleanLimit {
				return
			}
			rows = append(rows, []string{
				r.Country,
				strconv.Itoa(r.Year),
				r.Indicator,
				strconv.FormatFloat(r.Value, 'f', 2, 64),
				r.Region,
			})
		})
		fmt.Fprint(cmd.OutOrStdout(), utils.TextTable(export.Header, rows, 48))
		if cleanLimit > 0 && t.Len() > cleanLimit {
			fmt.Fprintf(cmd.OutOrStdout(), "... %d more records\n", t.Len()-cleanLimit)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "write the clean table as CSV to this path")
	cleanCmd.Flags().IntVar(&cleanLimit, "limit", 0, "print at most this many records (0 = all)")
	cleanCmd.Flags().StringVar(&cleanCountry, "country", "", "only this country")
}
