package transcoder

import (
	"fmt"

	"meldify/pkg/models"
)

// BuildArgs constructs the ffmpeg command for one export. The two shapes are
// fixed; only the paths and the H.264 encoder vary.
func BuildArgs(format models.Format, h264Codec, input, output string) ([]string, error) {
	args := []string{
		"-y", // overwrite output
		"-hide_banner",
		"-i", input,
	}

	switch format {
	case models.FormatMP4:
		if h264Codec == "" {
			h264Codec = CodecSoftware
		}
		args = append(args,
			"-c:v", h264Codec,
			"-preset", "fast",
			"-b:v", "10M", // constant 10 Mbps
			"-minrate", "10M",
			"-maxrate", "10M",
			"-bufsize", "20M",
			"-c:a", "aac",
			"-b:a", "192k",
			"-movflags", "+faststart",
		)
	case models.FormatProRes:
		args = append(args,
			"-c:v", CodecProRes,
			"-profile:v", "3", // 422 HQ
			"-vendor", "apl0",
			"-pix_fmt", "yuv422p10le",
			"-c:a", "pcm_s16le",
		)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}

	return append(args, output), nil
}
