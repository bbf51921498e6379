package transcoder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"meldify/internal/grouping"
	"meldify/internal/logging"
	"meldify/internal/scan"
	"meldify/pkg/models"
)

const maxStderrBytes = 8 * 1024

var (
	ErrInputMissing     = errors.New("input file does not exist")
	ErrUnsupportedInput = errors.New("input is not a supported media file")
	ErrCancelled        = errors.New("export cancelled")
)

// Orchestrator launches one encoder process per job and tracks every live
// process until it exits or is cancelled.
type Orchestrator struct {
	engine   *Engine
	registry *Registry
	logger   *slog.Logger

	// spawnMu orders spawns against CancelAll so a cancel never misses a
	// process that is halfway through registration. generation is bumped by
	// every CancelAll; an Export only spawns while its generation is current.
	spawnMu    sync.Mutex
	generation uint64
}

// NewOrchestrator builds an orchestrator around a probed engine.
func NewOrchestrator(engine *Engine, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		engine:   engine,
		registry: NewRegistry(),
		logger:   logger,
	}
}

// Export starts every job without waiting for earlier ones. Exactly one event
// per job is delivered on the returned channel, which is closed after the last
// one. Invalid inputs are reported before Export returns. Jobs not yet
// started when CancelAll runs are reported Killed without being spawned.
func (o *Orchestrator) Export(ctx context.Context, jobs []models.ExportJob) <-chan models.ExportEvent {
	events := make(chan models.ExportEvent, len(jobs))
	var wg sync.WaitGroup

	o.spawnMu.Lock()
	gen := o.generation
	o.spawnMu.Unlock()

	for _, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		sp, err := o.spawn(ctx, job, gen)
		if errors.Is(err, ErrCancelled) {
			logging.WithJobID(o.logger, job.ID).Info("export skipped after cancel")
			events <- failEvent(job, models.JobKilled, err.Error(), 0)
			continue
		}
		if err != nil {
			logging.WithJobID(o.logger, job.ID).Warn("export job rejected",
				"input", logging.SanitizePath(job.InputPath),
				"error", err,
			)
			events <- failEvent(job, models.JobFailed, err.Error(), 0)
			continue
		}

		wg.Add(1)
		go func(sp *spawned) {
			defer wg.Done()
			events <- o.wait(ctx, sp.handle, sp.stderr, sp.start)
		}(sp)
	}

	go func() {
		wg.Wait()
		close(events)
	}()
	return events
}

type spawned struct {
	handle *Handle
	stderr *bytes.Buffer
	start  time.Time
}

// spawn validates the job, builds the command and starts it. The returned
// handle is already registered. A CancelAll since gen was taken yields
// ErrCancelled.
func (o *Orchestrator) spawn(ctx context.Context, job models.ExportJob, gen uint64) (*spawned, error) {
	if err := validateInput(job.InputPath); err != nil {
		return nil, err
	}
	if job.OutputDir == "" {
		return nil, errors.New("output directory not set")
	}
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	args, err := BuildArgs(job.Format, o.engine.GetCodec(), job.InputPath, job.OutputPath())
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, o.engine.FFmpegPath, args...)
	var stderrBuf bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderrBuf, limit: maxStderrBytes}

	o.spawnMu.Lock()
	defer o.spawnMu.Unlock()
	if o.generation != gen {
		return nil, ErrCancelled
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start encoder: %w", err)
	}
	h := &Handle{Job: job, PID: cmd.Process.Pid, cmd: cmd}
	o.registry.Add(h)

	logging.WithJobID(o.logger, job.ID).Info("encoder started",
		"pid", h.PID,
		"format", job.Format,
		"output", logging.SanitizePath(job.OutputPath()),
	)
	return &spawned{handle: h, stderr: &stderrBuf, start: start}, nil
}

// wait blocks until the process exits and turns the outcome into the job's
// only event.
func (o *Orchestrator) wait(ctx context.Context, h *Handle, stderr *bytes.Buffer, start time.Time) models.ExportEvent {
	err := h.cmd.Wait()
	o.registry.Remove(h)
	elapsed := time.Since(start)
	logger := logging.WithJobID(o.logger, h.Job.ID)

	if err == nil {
		logger.Info("encoder finished", "pid", h.PID, "duration_ms", elapsed.Milliseconds())
		return models.ExportEvent{
			JobID:             h.Job.ID,
			Status:            models.StatusSuccess,
			State:             models.JobCompleted,
			OutputPath:        h.Job.OutputPath(),
			OriginalInputPath: h.Job.InputPath,
			Message:           "export completed",
			Duration:          elapsed,
		}
	}

	if h.Killed() || ctx.Err() != nil {
		logger.Info("encoder killed", "pid", h.PID)
		return failEvent(h.Job, models.JobKilled, ErrCancelled.Error(), elapsed)
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	tail := strings.TrimSpace(stderr.String())
	logger.Warn("encoder failed",
		"pid", h.PID,
		"exit_code", exitCode,
		"stderr_tail", truncate(tail, 512),
	)

	msg := fmt.Sprintf("encoder exited with code %d", exitCode)
	if tail != "" {
		msg += ": " + tail
	}
	return failEvent(h.Job, models.JobFailed, msg, elapsed)
}

// CancelAll force-kills every live encoder and stops in-flight Export calls
// from spawning the rest of their jobs. The registry is empty when it
// returns; each killed or skipped job still reports through its own event.
func (o *Orchestrator) CancelAll() int {
	o.spawnMu.Lock()
	o.generation++
	handles := o.registry.Drain()
	o.spawnMu.Unlock()

	for _, h := range handles {
		logger := logging.WithJobID(o.logger, h.Job.ID)
		if err := h.kill(); err != nil {
			logger.Warn("kill encoder", "pid", h.PID, "error", err)
			continue
		}
		logger.Info("encoder cancelled", "pid", h.PID)
	}
	return len(handles)
}

// Active returns the number of live encoder processes.
func (o *Orchestrator) Active() int {
	return o.registry.Len()
}

// Running returns the jobs whose encoders are live.
func (o *Orchestrator) Running() []models.ExportJob {
	return o.registry.Jobs()
}

// JobsFromGroups flattens a grouping into export jobs, groups in key order and
// files in arrival order. Files that cannot be exported are skipped.
func JobsFromGroups(g *grouping.Grouping, format models.Format, outDir string) []models.ExportJob {
	if g == nil {
		return nil
	}
	var jobs []models.ExportJob
	for _, f := range g.Files() {
		if !scan.IsExportable(f.AbsolutePath) {
			continue
		}
		jobs = append(jobs, models.ExportJob{
			ID:        uuid.NewString(),
			InputPath: f.AbsolutePath,
			Format:    format,
			OutputDir: outDir,
		})
	}
	return jobs
}

func validateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputMissing, path)
		}
		return fmt.Errorf("stat input: %w", err)
	}
	if !info.Mode().IsRegular() || !scan.IsExportable(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedInput, path)
	}
	return nil
}

func failEvent(job models.ExportJob, state models.JobState, msg string, elapsed time.Duration) models.ExportEvent {
	return models.ExportEvent{
		JobID:             job.ID,
		Status:            models.StatusFail,
		State:             state,
		OutputPath:        job.OutputPath(),
		OriginalInputPath: job.InputPath,
		Message:           msg,
		Duration:          elapsed,
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-maxLen:]
}

// limitedWriter keeps only the last limit bytes written to it.
type limitedWriter struct {
	w     *bytes.Buffer
	limit int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	lw.w.Write(p)
	if lw.w.Len() > lw.limit {
		b := lw.w.Bytes()
		tail := make([]byte, lw.limit)
		copy(tail, b[len(b)-lw.limit:])
		lw.w.Reset()
		lw.w.Write(tail)
	}
	return n, nil
}
