package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meldify/internal/lutdb"
	"meldify/pkg/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sampleProbe = `{
  "streams": [
    {"codec_type": "video", "color_space": "bt709", "tags": {"Model": "ILME-FX9"}},
    {"codec_type": "audio"}
  ],
  "format": {
    "format_name": "mov,mp4,m4a,3gp,3g2,mj2",
    "tags": {"com.apple.quicktime.make": "Sony", "model": "ignored"}
  }
}`

func TestParseProbeOutput(t *testing.T) {
	rec, err := parseProbeOutput([]byte(sampleProbe))
	require.NoError(t, err)
	assert.Equal(t, "ILME-FX9", rec.Model, "stream model wins over format model")
	assert.Equal(t, "Sony", rec.Make)
	assert.Equal(t, "bt709", rec.ColorSpace)
	assert.Equal(t, "mov,mp4,m4a,3gp,3g2,mj2", rec.Format)
}

func TestParseProbeOutput_QuicktimeModelFirst(t *testing.T) {
	data := `{"streams":[{"codec_type":"audio","tags":{"model":"stream"}},{"codec_type":"video","color_space":"bt2020nc"}],
	"format":{"format_name":"mov","tags":{"com.apple.quicktime.model":"RED KOMODO"}}}`
	rec, err := parseProbeOutput([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "RED KOMODO", rec.Model)
	assert.Equal(t, "bt2020nc", rec.ColorSpace)
	assert.Empty(t, rec.Make)
}

func TestParseProbeOutput_NoTags(t *testing.T) {
	rec, err := parseProbeOutput([]byte(`{"format":{"format_name":"mxf"}}`))
	require.NoError(t, err)
	assert.Equal(t, &models.MetadataRecord{Format: "mxf"}, rec)
}

func TestParseProbeOutput_Garbage(t *testing.T) {
	_, err := parseProbeOutput([]byte("not json"))
	assert.Error(t, err)
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fakeprobe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestFFprobe_Extract(t *testing.T) {
	bin := writeScript(t, "cat <<'EOF'\n"+sampleProbe+"\nEOF\n")
	rec, err := NewFFprobe(bin).Extract(context.Background(), "/any/clip.mov")
	require.NoError(t, err)
	assert.Equal(t, "ILME-FX9", rec.Model)
}

func TestFFprobe_ExtractFailure(t *testing.T) {
	bin := writeScript(t, "echo 'Invalid data found' >&2\nexit 1\n")
	_, err := NewFFprobe(bin).Extract(context.Background(), "/any/clip.mov")
	assert.Error(t, err)
	assert.Nil(t, ExtractMetadata(context.Background(), NewFFprobe(bin), "/any/clip.mov"))
}

func TestFFprobe_MissingBinary(t *testing.T) {
	rec := ExtractMetadata(context.Background(), NewFFprobe("/nonexistent/ffprobe999"), "/x.mov")
	assert.Nil(t, rec)
}

func TestEXIF_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.dng")
	require.NoError(t, os.WriteFile(path, []byte("definitely not tiff"), 0o644))
	_, err := EXIF{}.Extract(context.Background(), path)
	assert.Error(t, err)
}

type fakeProber struct {
	fn func(path string) (*models.MetadataRecord, error)
}

func (f fakeProber) Extract(_ context.Context, path string) (*models.MetadataRecord, error) {
	return f.fn(path)
}

func TestRouter(t *testing.T) {
	var calls []string
	var mu sync.Mutex
	record := func(name string) Prober {
		return fakeProber{fn: func(path string) (*models.MetadataRecord, error) {
			mu.Lock()
			calls = append(calls, name+":"+filepath.Base(path))
			mu.Unlock()
			if name == "stills" && strings.Contains(path, "broken") {
				return nil, errors.New("bad exif")
			}
			return &models.MetadataRecord{Format: name}, nil
		}}
	}
	r := &Router{Stills: record("stills"), Video: record("video")}
	ctx := context.Background()

	rec, err := r.Extract(ctx, "/a/frame.DNG")
	require.NoError(t, err)
	assert.Equal(t, "stills", rec.Format)

	rec, err = r.Extract(ctx, "/a/clip.mov")
	require.NoError(t, err)
	assert.Equal(t, "video", rec.Format)

	rec, err = r.Extract(ctx, "/a/broken.dng")
	require.NoError(t, err)
	assert.Equal(t, "video", rec.Format)

	assert.Equal(t, []string{"stills:frame.DNG", "video:clip.mov", "stills:broken.dng", "video:broken.dng"}, calls)
}

func files(n int) []*models.FileEntry {
	out := make([]*models.FileEntry, n)
	for i := range out {
		out[i] = models.NewFileEntry(fmt.Sprintf("/cards/clip%02d.mov", i), int64(i))
	}
	return out
}

func TestProcessBatch_BatchesAndOrder(t *testing.T) {
	const batchSize = 5
	input := files(12)

	var inFlight, maxInFlight, completed atomic.Int32
	var barrierViolations atomic.Int32
	index := map[string]int{}
	for i, f := range input {
		index[f.AbsolutePath] = i
	}

	prober := fakeProber{fn: func(path string) (*models.MetadataRecord, error) {
		i := index[path]
		if int(completed.Load()) < (i/batchSize)*batchSize {
			barrierViolations.Add(1)
		}
		n := inFlight.Add(1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		// finish out of order inside a batch
		time.Sleep(time.Duration(batchSize-i%batchSize) * time.Millisecond)
		inFlight.Add(-1)
		completed.Add(1)
		return &models.MetadataRecord{Model: "Sony Venice"}, nil
	}}

	p := NewProcessor(prober, nil, testLogger())
	var progress []int
	p.OnProgress(func(processed, total int) {
		assert.Equal(t, 12, total)
		progress = append(progress, processed)
	})

	out := p.ProcessBatch(context.Background(), input, batchSize)

	assert.Equal(t, []int{5, 10, 12}, progress, "three batches: 5, 5, 2")
	assert.LessOrEqual(t, maxInFlight.Load(), int32(batchSize))
	assert.Zero(t, barrierViolations.Load(), "a batch started before the previous one finished")
	require.Len(t, out, len(input))
	for i := range input {
		assert.Same(t, input[i], out[i])
		require.NotNil(t, out[i].Classification)
		assert.Equal(t, "SONY VENICE", out[i].Classification.CameraType)
		assert.Equal(t, models.ConfidenceHigh, out[i].Classification.Confidence)
	}
}

func TestProcessBatch_ProbeFailureIsRecorded(t *testing.T) {
	input := files(3)
	prober := fakeProber{fn: func(path string) (*models.MetadataRecord, error) {
		if strings.HasSuffix(path, "clip01.mov") {
			return nil, errors.New("moov atom not found")
		}
		return &models.MetadataRecord{Model: "HERO11 Black", Make: "GoPro"}, nil
	}}

	out := NewProcessor(prober, nil, testLogger()).ProcessBatch(context.Background(), input, 0)

	require.Len(t, out, 3)
	assert.Nil(t, out[1].Metadata)
	assert.Equal(t, "moov atom not found", out[1].Error)
	require.NotNil(t, out[1].Classification, "classification proceeds without metadata")
	assert.Equal(t, lutdb.GenericMOV, out[1].Classification.CameraType)

	assert.Empty(t, out[0].Error)
	assert.Equal(t, "GOPRO", out[0].Classification.CameraType)
}

func TestProcessBatch_Empty(t *testing.T) {
	p := NewProcessor(fakeProber{fn: func(string) (*models.MetadataRecord, error) { return nil, nil }}, nil, testLogger())
	calls := 0
	p.OnProgress(func(int, int) { calls++ })
	out := p.ProcessBatch(context.Background(), nil, 5)
	assert.Empty(t, out)
	assert.Zero(t, calls)
}
