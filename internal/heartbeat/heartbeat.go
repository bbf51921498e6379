package heartbeat

import (
	"context"
	"log/slog"
	"time"

	"meldify/internal/monitor"
	"meldify/pkg/models"
)

// Sender delivers a heartbeat.
type Sender interface {
	SendHeartbeat(ctx context.Context, hb models.Heartbeat) error
}

// StatsSource samples host usage.
type StatsSource interface {
	GetStats(ctx context.Context) (models.SystemHealth, error)
}

// ActiveCounter reports how many encoders are running.
type ActiveCounter interface {
	Active() int
}

// Service handles the periodic pulse while exports run.
type Service struct {
	sender   Sender
	stats    StatsSource
	jobs     ActiveCounter
	interval time.Duration
	logger   *slog.Logger
}

// New creates a heartbeat service. intervalSec <= 0 falls back to 10s.
func New(sender Sender, stats StatsSource, jobs ActiveCounter, intervalSec int, logger *slog.Logger) *Service {
	if intervalSec <= 0 {
		intervalSec = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sender:   sender,
		stats:    stats,
		jobs:     jobs,
		interval: time.Duration(intervalSec) * time.Second,
		logger:   logger,
	}
}

// WithInterval overrides the tick period.
func (s *Service) WithInterval(d time.Duration) *Service {
	if d > 0 {
		s.interval = d
	}
	return s
}

// Start launches the heartbeat loop in the background. It stops when ctx is
// done; the returned channel is closed once the loop has exited.
func (s *Service) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(s.interval)

	go func() {
		defer close(done)
		defer ticker.Stop()
		s.logger.Debug("heartbeat started", "interval", s.interval)

		for {
			select {
			case <-ctx.Done():
				s.logger.Debug("heartbeat stopped")
				return
			case <-ticker.C:
				s.ping(ctx)
			}
		}
	}()
	return done
}

// ping sends one heartbeat. Failures are logged, never fatal.
func (s *Service) ping(ctx context.Context) {
	hb := s.Snapshot(ctx)
	if err := s.sender.SendHeartbeat(ctx, hb); err != nil && ctx.Err() == nil {
		s.logger.Warn("heartbeat failed", "error", err)
	}
}

// Snapshot builds the current heartbeat payload.
func (s *Service) Snapshot(ctx context.Context) models.Heartbeat {
	active := s.jobs.Active()
	hb := models.Heartbeat{ActiveJobs: active}
	if s.stats != nil {
		stats, err := s.stats.GetStats(ctx)
		if err != nil {
			s.logger.Debug("host stats unavailable", "error", err)
		} else {
			hb.Telemetry = stats
		}
	}
	hb.Status = monitor.HostStatus(hb.Telemetry, active)
	return hb
}
