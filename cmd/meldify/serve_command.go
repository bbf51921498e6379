package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"meldify/internal/heartbeat"
	"meldify/internal/logging"
	"meldify/internal/monitor"
	"meldify/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP control surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			addr := cfg.ListenAddr
			if addrFlag != "" {
				addr = addrFlag
			}
			logger := ctx.log("server")

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, orch, err := newOrchestrator(runCtx, cfg, logger)
			if err != nil {
				return err
			}

			srvCfg := server.Config{
				Addr:          addr,
				Ingester:      newIngestPipeline(cfg, logger, nil),
				Exporter:      orch,
				DefaultFormat: cfg.Format(),
				OutputDir:     cfg.OutputDir,
				Logger:        logger,
			}
			if reporter := newReportClient(cfg, logger); reporter != nil {
				srvCfg.Reporter = reporter
				heartbeat.New(reporter, monitor.NewSystemMonitor(500*time.Millisecond), orch, cfg.HeartbeatSec,
					logging.WithComponent(logger, "heartbeat")).Start(runCtx)
			}
			srv := server.NewJobServer(srvCfg)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-runCtx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (default from config)")
	return cmd
}
