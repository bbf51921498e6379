package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"meldify/internal/heartbeat"
	"meldify/internal/logging"
	"meldify/internal/monitor"
	"meldify/internal/transcoder"
	"meldify/pkg/models"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outFlag string

	cmd := &cobra.Command{
		Use:   "export <path>...",
		Short: "Classify footage and export every clip with ffmpeg",
		Long: "Export scans the given folders, groups the clips by camera and launches one\n" +
			"encoder per clip. Ctrl-C kills every running encoder.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			format := cfg.Format()
			if formatFlag != "" {
				f, ok := models.ParseFormat(formatFlag)
				if !ok {
					return fmt.Errorf("unsupported format %q (want mp4 or prores)", formatFlag)
				}
				format = f
			}
			outDir := cfg.OutputDir
			if outFlag != "" {
				outDir = outFlag
			}

			logger := ctx.log("cli")
			runCtx := cmd.Context()

			res, err := newIngestPipeline(cfg, logger, progressWriter(cmd.ErrOrStderr())).Run(runCtx, args...)
			if err != nil {
				return err
			}
			if len(res.Duplicates) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: duplicate file names will overwrite each other: %v\n", res.Duplicates)
			}

			jobs := transcoder.JobsFromGroups(res.Groups, format, outDir)
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to export.")
				return nil
			}

			engine, orch, err := newOrchestrator(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			logger.Info("starting export", "jobs", len(jobs), "format", format, "codec", engine.GetCodec(), "output_dir", outDir)

			hbCtx, stopHeartbeat := context.WithCancel(runCtx)
			defer stopHeartbeat()
			reporter := newReportClient(cfg, logger)
			if reporter != nil {
				heartbeat.New(reporter, monitor.NewSystemMonitor(500*time.Millisecond), orch, cfg.HeartbeatSec,
					logging.WithComponent(logger, "heartbeat")).Start(hbCtx)
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigs)
			go func() {
				for {
					select {
					case <-sigs:
						n := orch.CancelAll()
						logger.Warn("interrupt received, cancelled exports", "count", n)
					case <-hbCtx.Done():
						return
					}
				}
			}()

			var failed int
			for ev := range orch.Export(runCtx, jobs) {
				printEvent(cmd.OutOrStdout(), ev)
				if ev.Status != models.StatusSuccess {
					failed++
				}
				if reporter != nil {
					if err := reporter.ReportCompletion(context.WithoutCancel(runCtx), ev); err != nil {
						logger.Warn("report export event", "job_id", ev.JobID, "error", err)
					}
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d exports succeeded\n", len(jobs)-failed, len(jobs))
			if failed > 0 {
				return fmt.Errorf("%d exports failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Export format: mp4 or prores (default from config)")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output directory (default from config)")
	return cmd
}

func printEvent(w io.Writer, ev models.ExportEvent) {
	switch ev.State {
	case models.JobCompleted:
		fmt.Fprintf(w, "ok     %s -> %s (%s)\n", ev.OriginalInputPath, ev.OutputPath, ev.Duration.Round(time.Second))
	case models.JobKilled:
		fmt.Fprintf(w, "killed %s\n", ev.OriginalInputPath)
	default:
		fmt.Fprintf(w, "failed %s: %s\n", ev.OriginalInputPath, ev.Message)
	}
}
