package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"meldify/pkg/models"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "meldify.yml"

// Config holds all the settings for meldify.
type Config struct {
	FFmpegPath    string `mapstructure:"ffmpeg_path"`
	FFprobePath   string `mapstructure:"ffprobe_path"`
	BatchSize     int    `mapstructure:"batch_size"`
	OutputDir     string `mapstructure:"output_dir"`
	ExportFormat  string `mapstructure:"export_format"`
	EnableHWAccel bool   `mapstructure:"enable_hw_accel"`
	LogLevel      string `mapstructure:"log_level"`
	LogFormat     string `mapstructure:"log_format"`
	ReportURL     string `mapstructure:"report_url"`
	HostID        string `mapstructure:"host_id"`
	HeartbeatSec  int    `mapstructure:"heartbeat_seconds"`
	ListenAddr    string `mapstructure:"listen_addr"`
}

var (
	ErrInvalidBatchSize = errors.New("batch_size must be positive")
	ErrInvalidFormat    = errors.New("export_format must be mp4 or prores")
	ErrInvalidHeartbeat = errors.New("heartbeat_seconds must be positive")
)

// LoadConfig merges defaults, the YAML file at path and MELDIFY_* environment
// variables, in increasing precedence. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("ffmpeg_path", "")
	v.SetDefault("ffprobe_path", "")
	v.SetDefault("batch_size", 5)
	v.SetDefault("output_dir", "./exports")
	v.SetDefault("export_format", string(models.FormatMP4))
	v.SetDefault("enable_hw_accel", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("report_url", "")
	v.SetDefault("host_id", defaultHostID())
	v.SetDefault("heartbeat_seconds", 10)
	v.SetDefault("listen_addr", "127.0.0.1:8790")

	if path == "" {
		path = DefaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	v.SetEnvPrefix("MELDIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, c.BatchSize)
	}
	if _, ok := models.ParseFormat(c.ExportFormat); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.ExportFormat)
	}
	if c.HeartbeatSec <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidHeartbeat, c.HeartbeatSec)
	}
	return nil
}

// Format returns the parsed export format.
func (c *Config) Format() models.Format {
	f, _ := models.ParseFormat(c.ExportFormat)
	return f
}

func defaultHostID() string {
	name, err := os.Hostname()
	if err != nil {
		return "meldify"
	}
	return name
}
