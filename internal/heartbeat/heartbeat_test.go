package heartbeat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meldify/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingSender struct {
	mu   sync.Mutex
	sent []models.Heartbeat
	err  error
}

func (r *recordingSender) SendHeartbeat(_ context.Context, hb models.Heartbeat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, hb)
	return r.err
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type fixedStats struct {
	stats models.SystemHealth
	err   error
}

func (f fixedStats) GetStats(context.Context) (models.SystemHealth, error) { return f.stats, f.err }

type fixedActive int

func (f fixedActive) Active() int { return int(f) }

func TestSnapshot(t *testing.T) {
	s := New(&recordingSender{}, fixedStats{stats: models.SystemHealth{CPUUsage: 42}}, fixedActive(3), 0, testLogger())
	hb := s.Snapshot(context.Background())
	assert.Equal(t, 3, hb.ActiveJobs)
	assert.Equal(t, models.HostBusy, hb.Status)
	assert.Equal(t, 42.0, hb.Telemetry.CPUUsage)
}

func TestSnapshot_StatsError(t *testing.T) {
	s := New(&recordingSender{}, fixedStats{err: errors.New("no procfs")}, fixedActive(0), 0, testLogger())
	hb := s.Snapshot(context.Background())
	assert.Equal(t, models.HostIdle, hb.Status)
	assert.Zero(t, hb.Telemetry.CPUUsage)
}

func TestStart_TicksUntilCancelled(t *testing.T) {
	sender := &recordingSender{err: errors.New("collector down")}
	s := New(sender, nil, fixedActive(1), 0, testLogger()).WithInterval(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := s.Start(ctx)

	require.Eventually(t, func() bool { return sender.count() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("heartbeat loop did not stop")
	}
	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Equal(t, models.HostBusy, sender.sent[0].Status)
}
