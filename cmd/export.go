package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sdgdash/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the clean table to CSV, XLSX or SQLite",
	Long: `Export the clean table. The format is taken from --format or inferred
from the output extension (.csv, .xlsx, .db/.sqlite).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOutput == "" {
			return fmt.Errorf("--output is required")
		}
		format := exportFormat
		if format == "" {
			f, err := export.FormatFor(exportOutput)
			if err != nil {
				return fmt.Errorf("%w (use --format %s)", err, strings.Join(export.Formats(), "|"))
			}
			format = f
		}
		a, err := newApp(current())
		if err != nil {
			return err
		}
		res, err := a.mustLoad(cmd.Context())
		if err != nil {
			return err
		}
		if err := export.Write(res.Table, format, exportOutput); err != nil {
			return err
		}
		a.log.Debug("export done", "format", format, "path", exportOutput, "records", res.Table.Len())
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d records as %s to %s\n", res.Table.Len(), strings.ToLower(format), exportOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "csv|xlsx|sqlite (default: from the output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path")
}
