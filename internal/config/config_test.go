package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr != "127.0.0.1:8501" || c.StartYear != 2015 || c.DefaultGoal != "SDG 3" || c.DefaultRegion != "All" {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if len(c.DataPaths) == 0 {
		t.Fatalf("expected default data paths")
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c := Defaults()
	c.DefaultGoal = "SDG 6"
	c.Workers = 3
	c.DataPaths = []string{"/data/sdg.csv"}
	if err := Save(c, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	dir, _ := Dir()
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	got, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.DefaultGoal != "SDG 6" || got.Workers != 3 || len(got.DataPaths) != 1 || got.DataPaths[0] != "/data/sdg.csv" {
		t.Fatalf("unexpected reload %+v", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(p, []byte("addr: 0.0.0.0:9000\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SDGDASH_ADDR", "127.0.0.1:7000")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Addr != "127.0.0.1:7000" || c.LogLevel != "debug" {
		t.Fatalf("unexpected %+v", c)
	}
}

func TestMalformedFileIsAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("addr: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Global)
		want   error
	}{
		{"goal", func(c *Global) { c.DefaultGoal = "SDG 9" }, ErrInvalidGoal},
		{"region", func(c *Global) { c.DefaultRegion = "Europe" }, ErrInvalidRegion},
		{"level", func(c *Global) { c.LogLevel = "loud" }, ErrInvalidLogLevel},
		{"year", func(c *Global) { c.StartYear = 15 }, ErrInvalidStartYear},
		{"size", func(c *Global) { c.ChartHeightIn = 0 }, ErrInvalidSize},
		{"workers", func(c *Global) { c.Workers = -1 }, ErrInvalidWorkers},
	}
	for _, tc := range cases {
		c := Defaults()
		tc.mutate(c)
		if err := c.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
