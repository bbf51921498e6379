package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"meldify/internal/classifier"
	"meldify/internal/client"
	"meldify/internal/config"
	"meldify/internal/ingest"
	"meldify/internal/logging"
	"meldify/internal/lutdb"
	"meldify/internal/metadata"
	"meldify/internal/transcoder"
)

// newIngestPipeline wires probe, classifier and grouping. When progress is
// non-nil a bar tracks probed files on it.
func newIngestPipeline(cfg *config.Config, logger *slog.Logger, progress io.Writer) *ingest.Pipeline {
	proc := metadata.NewProcessor(
		metadata.NewRouter(cfg.FFprobePath),
		classifier.New(lutdb.Default()),
		logging.WithComponent(logger, "metadata"),
	)
	if progress != nil {
		var bar *progressbar.ProgressBar
		proc.OnProgress(func(processed, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(progress),
					progressbar.OptionSetDescription("Probing"),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetRenderBlankState(true),
					progressbar.OptionOnCompletion(func() { io.WriteString(progress, "\n") }),
				)
			}
			_ = bar.Set(processed)
		})
	}
	return ingest.New(proc, cfg.BatchSize, logging.WithComponent(logger, "ingest"))
}

func newOrchestrator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*transcoder.Engine, *transcoder.Orchestrator, error) {
	engine, err := transcoder.NewEngine(ctx, transcoder.EngineConfig{
		FFmpegPath: cfg.FFmpegPath,
		AllowHW:    cfg.EnableHWAccel,
	})
	if err != nil {
		return nil, nil, err
	}
	return engine, transcoder.NewOrchestrator(engine, logging.WithComponent(logger, "transcoder")), nil
}

// newReportClient returns nil when no collector is configured.
func newReportClient(cfg *config.Config, logger *slog.Logger) *client.ReportClient {
	if cfg.ReportURL == "" {
		return nil
	}
	return client.NewReportClient(cfg.ReportURL, client.Options{
		HostID: cfg.HostID,
		Logger: logging.WithComponent(logger, "client"),
	})
}

// progressWriter returns w when it is an interactive terminal, nil otherwise.
func progressWriter(w io.Writer) io.Writer {
	file, ok := w.(*os.File)
	if !ok {
		return nil
	}
	fd := file.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return w
	}
	return nil
}
