// Package server exposes ingest and export over a local HTTP control
// surface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"meldify/internal/ingest"
	"meldify/internal/logging"
	"meldify/internal/transcoder"
	"meldify/pkg/models"
)

// Ingester runs the scan, probe, classify and group pipeline.
type Ingester interface {
	Run(ctx context.Context, paths ...string) (*ingest.Result, error)
}

// Exporter launches and cancels encoder jobs.
type Exporter interface {
	Export(ctx context.Context, jobs []models.ExportJob) <-chan models.ExportEvent
	CancelAll() int
	Active() int
	Running() []models.ExportJob
}

// Reporter forwards completion events. Optional.
type Reporter interface {
	ReportCompletion(ctx context.Context, ev models.ExportEvent) error
}

// Config wires the server's collaborators.
type Config struct {
	Addr          string
	Ingester      Ingester
	Exporter      Exporter
	Reporter      Reporter
	DefaultFormat models.Format
	OutputDir     string
	Logger        *slog.Logger
}

// JobServer owns the HTTP listener and the goroutines draining export
// events.
type JobServer struct {
	cfg        Config
	httpServer *http.Server
	logger     *slog.Logger

	// base outlives individual requests; exports keep running after the
	// POST that started them returns.
	base   context.Context
	stop   context.CancelFunc
	drains sync.WaitGroup
}

// NewJobServer builds the server and its router.
func NewJobServer(cfg Config) *JobServer {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = models.FormatMP4
	}
	base, stop := context.WithCancel(context.Background())
	s := &JobServer{cfg: cfg, logger: cfg.Logger, base: base, stop: stop}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Routes returns the chi router.
func (s *JobServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/scan", s.handleScan)
		r.Post("/exports", s.handleExport)
		r.Post("/exports/cancel", s.handleCancel)
		r.Get("/exports/active", s.handleActive)
	})
	return r
}

// Start listens until Shutdown is called.
func (s *JobServer) Start() error {
	s.logger.Info("listening for requests", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the listener, kills live encoders and waits for their
// events to drain.
func (s *JobServer) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if n := s.cfg.Exporter.CancelAll(); n > 0 {
		s.logger.Info("cancelled running exports", "count", n)
	}
	s.stop()

	done := make(chan struct{})
	go func() {
		s.drains.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

func (s *JobServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *JobServer) handleScan(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Root == "" {
		writeError(w, http.StatusBadRequest, "root is required")
		return
	}

	res, err := s.cfg.Ingester.Run(r.Context(), req.Root)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.ScanResponse{
		Files:      len(res.Files),
		Groups:     res.Groups.Groups(),
		Duplicates: res.Duplicates,
	})
}

func (s *JobServer) handleExport(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	format := s.cfg.DefaultFormat
	if req.Format != "" {
		f, ok := models.ParseFormat(req.Format)
		if !ok {
			writeError(w, http.StatusBadRequest, "unsupported format: "+req.Format)
			return
		}
		format = f
	}
	outDir := req.OutputDir
	if outDir == "" {
		outDir = s.cfg.OutputDir
	}

	var jobs []models.ExportJob
	switch {
	case len(req.Paths) > 0:
		for _, p := range req.Paths {
			jobs = append(jobs, models.ExportJob{InputPath: p, Format: format, OutputDir: outDir})
		}
	case req.Root != "":
		res, err := s.cfg.Ingester.Run(r.Context(), req.Root)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		jobs = transcoder.JobsFromGroups(res.Groups, format, outDir)
	default:
		writeError(w, http.StatusBadRequest, "paths or root is required")
		return
	}
	if len(jobs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no exportable files")
		return
	}
	for i := range jobs {
		if jobs[i].ID == "" {
			jobs[i].ID = newJobID()
		}
	}

	events := s.cfg.Exporter.Export(s.base, jobs)
	s.drains.Add(1)
	go s.drain(events)

	s.logger.Info("export queued", "jobs", len(jobs), "format", format, "output_dir", outDir)
	writeJSON(w, http.StatusAccepted, models.ExportAccepted{Jobs: jobs})
}

// drain logs every event and forwards it to the reporter.
func (s *JobServer) drain(events <-chan models.ExportEvent) {
	defer s.drains.Done()
	for ev := range events {
		logger := logging.WithJobID(s.logger, ev.JobID)
		attrs := []any{"state", ev.State, "input", logging.SanitizePath(ev.OriginalInputPath)}
		if ev.Status == models.StatusSuccess {
			logger.Info("export finished", append(attrs, "output", logging.SanitizePath(ev.OutputPath))...)
		} else {
			logger.Warn("export failed", append(attrs, "message", ev.Message)...)
		}
		if s.cfg.Reporter == nil {
			continue
		}
		if err := s.cfg.Reporter.ReportCompletion(context.WithoutCancel(s.base), ev); err != nil {
			logger.Warn("report export event", "error", err)
		}
	}
}

func (s *JobServer) handleCancel(w http.ResponseWriter, r *http.Request) {
	n := s.cfg.Exporter.CancelAll()
	s.logger.Info("cancel requested", "killed", n)
	w.WriteHeader(http.StatusAccepted)
}

func (s *JobServer) handleActive(w http.ResponseWriter, r *http.Request) {
	jobs := s.cfg.Exporter.Running()
	writeJSON(w, http.StatusOK, models.ActiveExports{Count: len(jobs), Jobs: jobs})
}
