package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/sdgdash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set sdgdash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "addr: %s\n", cfg.Addr)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "start_year: %d\n", cfg.StartYear)
		fmt.Fprintf(out, "default_goal: %s\n", cfg.DefaultGoal)
		fmt.Fprintf(out, "default_region: %s\n", cfg.DefaultRegion)
		fmt.Fprintf(out, "data_paths: %s\n", strings.Join(cfg.DataPaths, ","))
		if cfg.SheetName != "" {
			fmt.Fprintf(out, "sheet_name: %s\n", cfg.SheetName)
		}
		fmt.Fprintf(out, "workers: %d\n", cfg.Workers)
		fmt.Fprintf(out, "chart_width_in: %.2f\n", cfg.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %.2f\n", cfg.ChartHeightIn)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// start from the file and defaults, not from flag overrides
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "addr":
			c.Addr = val
		case "log_level":
			c.LogLevel = strings.ToLower(val)
		case "start_year":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for start_year: %w", err)
			}
			c.StartYear = i
		case "default_goal":
			c.DefaultGoal = strings.ToUpper(val)
		case "default_region":
			c.DefaultRegion = val
		case "data_paths":
			var paths []string
			for _, p := range strings.Split(val, ",") {
				if p = strings.TrimSpace(p); p != "" {
					paths = append(paths, p)
				}
			}
			c.DataPaths = paths
		case "sheet_name":
			c.SheetName = val
		case "workers":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for workers: %w", err)
			}
			c.Workers = i
		case "chart_width_in", "chart_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for %s: %w", key, err)
			}
			if key == "chart_width_in" {
				c.ChartWidthIn = f
			} else {
				c.ChartHeightIn = f
			}
		default:
			return fmt.Errorf("%w: %s", cfgpkg.ErrUnknownKey, key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
