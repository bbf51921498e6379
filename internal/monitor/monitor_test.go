package monitor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meldify/pkg/models"
)

func TestIsBusy(t *testing.T) {
	tests := []struct {
		cpu, ram float64
		want     bool
	}{
		{10, 20, false},
		{80, 90, false},
		{80.1, 10, true},
		{10, 90.5, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsBusy(tt.cpu, tt.ram), "cpu=%v ram=%v", tt.cpu, tt.ram)
	}
}

func TestHostStatus(t *testing.T) {
	assert.Equal(t, models.HostIdle, HostStatus(models.SystemHealth{}, 0))
	assert.Equal(t, models.HostBusy, HostStatus(models.SystemHealth{}, 2))
	assert.Equal(t, models.HostStressed, HostStatus(models.SystemHealth{IsBusy: true}, 0))
}

func TestGetStats(t *testing.T) {
	stats, err := NewSystemMonitor(0).GetStats(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.RAMUsage, 0.0)
	assert.LessOrEqual(t, stats.RAMUsage, 100.0)
	assert.Equal(t, IsBusy(stats.CPUUsage, stats.RAMUsage), stats.IsBusy)
}
