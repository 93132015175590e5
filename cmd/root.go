package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/sdgdash/internal/config"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	dataPath string
	logLevel string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "sdgdash",
	Short: "SDG dashboard: India vs. South and South East Asia",
	Long: `sdgdash cleans UN SDG indicator data for India and its South Asian and
South East Asian peers, serves an interactive dashboard and exports the
clean table.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sdgdash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "raw data file (CSV or XLSX); overrides data_paths")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && dataPath != "" {
		cfg.DataPaths = []string{dataPath}
	}
	if f.Changed("log-level") && logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if debug {
		cfg.LogLevel = "debug"
	}
}

// current returns the loaded configuration, or defaults when none loaded.
func current() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}
