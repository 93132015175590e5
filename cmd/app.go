package cmd

import (
	"context"
	"fmt"

	"github.com/KaramelBytes/sdgdash/internal/charts"
	cfgpkg "github.com/KaramelBytes/sdgdash/internal/config"
	"github.com/KaramelBytes/sdgdash/internal/logger"
	"github.com/KaramelBytes/sdgdash/internal/metrics"
	"github.com/KaramelBytes/sdgdash/internal/pipeline"
	"github.com/KaramelBytes/sdgdash/internal/source"
	"github.com/KaramelBytes/sdgdash/internal/view"
)

// app bundles what every command builds from the configuration.
type app struct {
	cfg     *cfgpkg.Global
	log     *logger.Logger
	metrics *metrics.Metrics
	loader  *pipeline.Loader
}

func newApp(c *cfgpkg.Global) (*app, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	log := logger.NewLogger(c.LogLevel)
	m := metrics.New()

	opt := pipeline.DefaultOptions()
	opt.StartYear = c.StartYear
	opt.Workers = c.Workers
	var read pipeline.ReadFunc
	if c.SheetName != "" {
		sheet := c.SheetName
		read = func(path string) (*source.RawTable, error) { return source.ReadSheet(path, sheet) }
	}
	return &app{
		cfg:     c,
		log:     log,
		metrics: m,
		loader: &pipeline.Loader{
			Candidates: c.DataPaths,
			Cache:      pipeline.NewCache(opt, read, m),
			Logger:     log.With("component", "pipeline"),
		},
	}, nil
}

// mustLoad loads the clean table and fails when no data is available.
func (a *app) mustLoad(ctx context.Context) (pipeline.Result, error) {
	res := a.loader.Load(ctx)
	if res.Err != nil {
		return res, fmt.Errorf("load data: %w", res.Err)
	}
	return res, nil
}

func (a *app) defaults() view.Defaults {
	return view.Defaults{Goal: a.cfg.DefaultGoal, Region: a.cfg.DefaultRegion}
}

func (a *app) chartSize() charts.Size {
	return charts.SizeInches(a.cfg.ChartWidthIn, a.cfg.ChartHeightIn)
}
