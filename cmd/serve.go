package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sdgdash/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := current()
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			c.Addr = serveAddr
		}
		a, err := newApp(c)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// warm the cache; a missing source is reported on the page
		if res := a.loader.Load(ctx); res.Err == nil {
			a.log.Info("data loaded", "path", res.Path, "records", res.Table.Len(), "countries", res.Stats.Countries)
		} else {
			a.log.Warn("serving without data", "error", res.Err)
		}

		srv := web.New(web.Options{
			Loader:   a.loader,
			Logger:   a.log.With("component", "web"),
			Metrics:  a.metrics,
			Defaults: a.defaults(),
			Size:     a.chartSize(),
		})
		return srv.Run(ctx, c.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config addr)")
}
