package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sdgdash/internal/utils"
)

var inspectOutput string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Summarize what each cleaning step kept or produced",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(current())
		if err != nil {
			return err
		}
		res, err := a.mustLoad(cmd.Context())
		if err != nil {
			return err
		}
		md := res.Stats.Markdown()

		// Decide where to write: --output path or stdout
		if inspectOutput != "" {
			if err := utils.SafeWriteFile(inspectOutput, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote pipeline summary to %s\n", inspectOutput)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "", "optional path to write the summary (Markdown)")
}
