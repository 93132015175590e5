package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sdgdash/internal/catalog"
	"github.com/KaramelBytes/sdgdash/internal/source"
)

// Validation errors.
var (
	ErrInvalidGoal      = errors.New("invalid default_goal")
	ErrInvalidRegion    = errors.New("invalid default_region")
	ErrInvalidLogLevel  = errors.New("invalid log_level")
	ErrInvalidStartYear = errors.New("invalid start_year")
	ErrInvalidSize      = errors.New("invalid chart size")
	ErrInvalidWorkers   = errors.New("invalid workers")
	ErrUnknownKey       = errors.New("unknown config key")
)

// DirName is the per-user configuration directory under $HOME.
const DirName = ".sdgdash"

// Global configuration structure.
type Global struct {
	Addr          string   `mapstructure:"addr" yaml:"addr"`
	LogLevel      string   `mapstructure:"log_level" yaml:"log_level"`
	StartYear     int      `mapstructure:"start_year" yaml:"start_year"`
	DefaultGoal   string   `mapstructure:"default_goal" yaml:"default_goal"`
	DefaultRegion string   `mapstructure:"default_region" yaml:"default_region"`
	DataPaths     []string `mapstructure:"data_paths" yaml:"data_paths"`
	SheetName     string   `mapstructure:"sheet_name" yaml:"sheet_name"`
	// Workers bounds parallel gap filling; 0 means one per CPU.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// Chart size in inches
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		Addr:          "127.0.0.1:8501",
		LogLevel:      "info",
		StartYear:     2015,
		DefaultGoal:   "SDG 3",
		DefaultRegion: catalog.RegionAll,
		DataPaths:     source.DefaultCandidates(),
		ChartWidthIn:  6,
		ChartHeightIn: 4,
	}
}

// Dir returns ~/.sdgdash.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sdgdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SDGDASH")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("addr", d.Addr)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("start_year", d.StartYear)
	v.SetDefault("default_goal", d.DefaultGoal)
	v.SetDefault("default_region", d.DefaultRegion)
	v.SetDefault("data_paths", d.DataPaths)
	v.SetDefault("sheet_name", "")
	v.SetDefault("workers", 0)
	v.SetDefault("chart_width_in", d.ChartWidthIn)
	v.SetDefault("chart_height_in", d.ChartHeightIn)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(cfgFile != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// SDGDASH_DATA_PATHS arrives as one string
	if len(c.DataPaths) == 1 && strings.Contains(c.DataPaths[0], string(os.PathListSeparator)) {
		c.DataPaths = filepath.SplitList(c.DataPaths[0])
	}
	return &c, nil
}

// Validate checks every field and returns the first problem found.
func (c *Global) Validate() error {
	if !catalog.IsGoal(c.DefaultGoal) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidGoal, c.DefaultGoal, strings.Join(catalog.Goals(), ", "))
	}
	if !catalog.IsRegionFilter(c.DefaultRegion) {
		return fmt.Errorf("%w: %q", ErrInvalidRegion, c.DefaultRegion)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if c.StartYear < 1900 || c.StartYear > 2100 {
		return fmt.Errorf("%w: %d", ErrInvalidStartYear, c.StartYear)
	}
	if c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0 {
		return fmt.Errorf("%w: %gx%g in", ErrInvalidSize, c.ChartWidthIn, c.ChartHeightIn)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	return nil
}
