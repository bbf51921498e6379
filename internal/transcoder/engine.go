package transcoder

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Encoder names used when building ffmpeg arguments.
const (
	CodecNVENC    = "h264_nvenc"
	CodecSoftware = "libx264"
	CodecProRes   = "prores_ks"
)

// EngineConfig selects the encoder binary and whether hardware H.264 may be
// used.
type EngineConfig struct {
	FFmpegPath string // empty = look up "ffmpeg" on PATH
	AllowHW    bool
}

// Engine describes the local encoder installation.
// Its state is populated by ProbeCapabilities.
type Engine struct {
	FFmpegPath string
	HasHWAccel bool
	HasProRes  bool
	bestCodec  string
}

// NewEngine finds the binary and then probes it when hardware encoding is
// allowed.
func NewEngine(ctx context.Context, cfg EngineConfig) (*Engine, error) {
	name := cfg.FFmpegPath
	if name == "" {
		name = "ffmpeg"
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg binary not found: %w", err)
	}

	engine := &Engine{
		FFmpegPath: path,
		HasProRes:  true,
		bestCodec:  CodecSoftware,
	}
	engine.ProbeCapabilities(ctx, cfg.AllowHW)
	return engine, nil
}

// ProbeCapabilities asks ffmpeg which encoders it was built with. A failed
// probe leaves the software defaults in place.
func (e *Engine) ProbeCapabilities(ctx context.Context, allowHW bool) {
	cmd := exec.CommandContext(ctx, e.FFmpegPath, "-hide_banner", "-encoders")
	output, err := cmd.Output()
	if err != nil {
		e.HasHWAccel = false
		e.bestCodec = CodecSoftware
		return
	}
	e.applyEncoderList(string(output), allowHW)
}

func (e *Engine) applyEncoderList(out string, allowHW bool) {
	caps := parseEncoders(out)
	e.HasProRes = caps[CodecProRes]
	e.HasHWAccel = caps[CodecNVENC]
	if allowHW && e.HasHWAccel {
		e.bestCodec = CodecNVENC
	} else {
		e.bestCodec = CodecSoftware
	}
}

// parseEncoders reads `ffmpeg -encoders` output. Encoder lines look like
// " V....D libx264              libx264 H.264 / AVC ...".
func parseEncoders(out string) map[string]bool {
	caps := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields[0]) != 6 {
			continue
		}
		caps[fields[1]] = true
	}
	return caps
}

// GetCodec returns the H.264 encoder for mp4 exports.
func (e *Engine) GetCodec() string {
	if e.bestCodec == "" {
		return CodecSoftware
	}
	return e.bestCodec
}
