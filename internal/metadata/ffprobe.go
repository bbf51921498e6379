// Package metadata extracts camera tags from media files through external
// inspectors and drives them over a file set in bounded batches.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"meldify/pkg/models"
)

// Prober extracts a metadata record from one file.
type Prober interface {
	Extract(ctx context.Context, path string) (*models.MetadataRecord, error)
}

// FFprobe runs ffprobe and parses its JSON output.
type FFprobe struct {
	binPath string
}

// NewFFprobe returns a prober using binPath, or "ffprobe" from PATH.
func NewFFprobe(binPath string) *FFprobe {
	if binPath == "" {
		binPath = "ffprobe"
	}
	return &FFprobe{binPath: binPath}
}

// Extract probes path for container and stream tags.
func (p *FFprobe) Extract(ctx context.Context, path string) (*models.MetadataRecord, error) {
	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}
	cmd := exec.CommandContext(ctx, p.binPath, args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbeOutput(output)
}

type probeResult struct {
	Format struct {
		FormatName string            `json:"format_name"`
		Tags       map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		CodecType  string            `json:"codec_type"`
		ColorSpace string            `json:"color_space"`
		Tags       map[string]string `json:"tags"`
	} `json:"streams"`
}

func parseProbeOutput(data []byte) (*models.MetadataRecord, error) {
	var res probeResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	var streamTags map[string]string
	if len(res.Streams) > 0 {
		streamTags = res.Streams[0].Tags
	}

	rec := &models.MetadataRecord{
		Model: firstTag(
			tagLookup{res.Format.Tags, "com.apple.quicktime.model"},
			tagLookup{streamTags, "model"},
			tagLookup{res.Format.Tags, "model"},
		),
		Make: firstTag(
			tagLookup{res.Format.Tags, "com.apple.quicktime.make"},
			tagLookup{streamTags, "make"},
			tagLookup{res.Format.Tags, "make"},
		),
		Format: res.Format.FormatName,
	}
	for _, s := range res.Streams {
		if s.CodecType == "video" {
			rec.ColorSpace = s.ColorSpace
			break
		}
	}
	return rec, nil
}

type tagLookup struct {
	tags map[string]string
	key  string
}

// firstTag returns the first non-empty value. Tag keys are matched without
// regard to case since muxers disagree on it.
func firstTag(lookups ...tagLookup) string {
	for _, l := range lookups {
		for k, v := range l.tags {
			if strings.EqualFold(k, l.key) && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}
