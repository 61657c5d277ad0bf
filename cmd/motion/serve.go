package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/motion/pkg/server"
	"github.com/vango-dev/motion/pkg/telemetry"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		loop     bool
		origins  []string
		noPacing bool
	)

	cmd := &cobra.Command{
		Use:   "serve <scenario.json>",
		Short: "Stream a scenario to devtools clients",
		Long: `Start the devtools server.

Every WebSocket client connecting to /ws gets its own playback of the
scenario, streamed as binary style patch frames. Prometheus metrics are
served at server.metricsPath when telemetry is enabled.

Examples:
  motion serve card.json
  motion serve card.json --addr :8080 --loop`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			sc, err := readScenarioFile(args[0])
			if err != nil {
				return err
			}

			scfg := server.DefaultConfig()
			scfg.Address = cfg.Server.Addr
			scfg.MetricsPath = cfg.Server.MetricsPath
			scfg.AllowedOrigins = cfg.Server.AllowedOrigins
			if addr != "" {
				scfg.Address = addr
			}
			if len(origins) > 0 {
				scfg.AllowedOrigins = origins
			}
			scfg.Loop = loop
			scfg.Realtime = !noPacing

			opts := []server.Option{
				server.WithLogger(logger.With("component", "server")),
				server.WithTracer(telemetry.Tracer(cfg.Telemetry.TracerName)),
				server.WithDocumentOptions(documentOptions(cfg, logger)...),
			}
			if cfg.Telemetry.Enabled {
				reg := prometheus.NewRegistry()
				reg.MustRegister(
					collectors.NewGoCollector(),
					collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
				)
				metrics := telemetry.NewMetrics(
					telemetry.WithNamespace(cfg.Telemetry.Namespace),
					telemetry.WithRegistry(reg),
				)
				opts = append(opts, server.WithMetrics(metrics, reg))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success("Serving %q on %s", sc.Name, scfg.Address)
			return server.New(sc, scfg, opts...).Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from motion.json)")
	cmd.Flags().BoolVar(&loop, "loop", false, "Restart playback when the scenario finishes")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "Allowed WebSocket origin (repeatable)")
	cmd.Flags().BoolVar(&noPacing, "no-pacing", false, "Send frames as fast as the client reads them")

	return cmd
}
