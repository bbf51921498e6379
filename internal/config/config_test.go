package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meldify/pkg/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "meldify.yml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, "./exports", cfg.OutputDir)
	assert.Equal(t, models.FormatMP4, cfg.Format())
	assert.False(t, cfg.EnableHWAccel)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.ReportURL)
	assert.Equal(t, 10, cfg.HeartbeatSec)
	assert.Equal(t, "127.0.0.1:8790", cfg.ListenAddr)
	assert.NotEmpty(t, cfg.HostID)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
batch_size: 8
export_format: mov
output_dir: /srv/exports
enable_hw_accel: true
log_format: json
`)
	t.Setenv("MELDIFY_BATCH_SIZE", "3")
	t.Setenv("MELDIFY_REPORT_URL", "http://collector:9000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.BatchSize, "env overrides file")
	assert.Equal(t, models.FormatProRes, cfg.Format())
	assert.Equal(t, "/srv/exports", cfg.OutputDir)
	assert.True(t, cfg.EnableHWAccel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "http://collector:9000", cfg.ReportURL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"zero batch", "batch_size: 0\n", ErrInvalidBatchSize},
		{"negative batch", "batch_size: -2\n", ErrInvalidBatchSize},
		{"unknown format", "export_format: webm\n", ErrInvalidFormat},
		{"zero heartbeat", "heartbeat_seconds: 0\n", ErrInvalidHeartbeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "batch_size: [unterminated\n"))
	assert.Error(t, err)
}
