package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"meldify/pkg/models"
)

// Thresholds above which the host is reported busy.
const (
	BusyCPUPercent = 80.0
	BusyRAMPercent = 90.0
)

// HostInfo is the static description printed by the doctor command.
type HostInfo struct {
	Hostname     string
	OS           string
	Platform     string
	CPUModel     string
	LogicalCores int
	TotalRAM     uint64
}

// SystemMonitor samples CPU and RAM usage.
type SystemMonitor struct {
	sampleWindow time.Duration
}

// NewSystemMonitor returns a monitor that averages CPU over window. A zero
// window returns the instantaneous value.
func NewSystemMonitor(window time.Duration) *SystemMonitor {
	return &SystemMonitor{sampleWindow: window}
}

// GetStats gathers real-time CPU and RAM usage.
func (m *SystemMonitor) GetStats(ctx context.Context) (models.SystemHealth, error) {
	stats := models.SystemHealth{}

	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to get mem stats: %w", err)
	}
	stats.RAMUsage = v.UsedPercent
	stats.RAMFreeBytes = v.Available

	cpuPct, err := cpu.PercentWithContext(ctx, m.sampleWindow, false)
	if err != nil {
		return stats, fmt.Errorf("failed to get cpu stats: %w", err)
	}
	if len(cpuPct) > 0 {
		stats.CPUUsage = cpuPct[0]
	}

	stats.IsBusy = IsBusy(stats.CPUUsage, stats.RAMUsage)
	return stats, nil
}

// IsBusy applies the busy thresholds.
func IsBusy(cpuPercent, ramPercent float64) bool {
	return cpuPercent > BusyCPUPercent || ramPercent > BusyRAMPercent
}

// HostStatus maps a sample and the number of running encoders to a
// heartbeat status.
func HostStatus(stats models.SystemHealth, active int) string {
	switch {
	case stats.IsBusy:
		return models.HostStressed
	case active > 0:
		return models.HostBusy
	default:
		return models.HostIdle
	}
}

// GetHostInfo collects the static host description.
func (m *SystemMonitor) GetHostInfo(ctx context.Context) (HostInfo, error) {
	info := HostInfo{}

	h, err := host.InfoWithContext(ctx)
	if err != nil {
		return info, fmt.Errorf("failed to get host info: %w", err)
	}
	info.Hostname = h.Hostname
	info.OS = h.OS
	info.Platform = h.Platform

	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.LogicalCores = n
	}
	if v, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.TotalRAM = v.Total
	}
	return info, nil
}
