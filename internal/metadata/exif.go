package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"meldify/pkg/models"
)

// EXIF reads camera tags from CinemaDNG frames and other TIFF-based stills.
type EXIF struct{}

// Extract decodes the EXIF block of path.
func (EXIF) Extract(_ context.Context, path string) (*models.MetadataRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode exif %s: %w", path, err)
	}

	rec := &models.MetadataRecord{
		Model:  exifString(x, exif.Model),
		Make:   exifString(x, exif.Make),
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}
	if tag, err := x.Get(exif.ColorSpace); err == nil {
		if v, err := tag.Int(0); err == nil {
			rec.ColorSpace = exifColorSpace(v)
		}
	}
	return rec, nil
}

func exifString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

func exifColorSpace(v int) string {
	switch v {
	case 1:
		return "srgb"
	case 2:
		return "adobergb"
	case 0xffff:
		return "uncalibrated"
	}
	return ""
}

// Router sends stills to EXIF and everything else to ffprobe. A failed EXIF
// decode falls back to ffprobe.
type Router struct {
	Stills Prober
	Video  Prober
}

var stillExtensions = map[string]bool{".dng": true, ".tif": true, ".tiff": true}

// NewRouter builds the default routing prober.
func NewRouter(ffprobePath string) *Router {
	return &Router{Stills: EXIF{}, Video: NewFFprobe(ffprobePath)}
}

func (r *Router) Extract(ctx context.Context, path string) (*models.MetadataRecord, error) {
	if stillExtensions[strings.ToLower(filepath.Ext(path))] && r.Stills != nil {
		rec, err := r.Stills.Extract(ctx, path)
		if err == nil {
			return rec, nil
		}
	}
	return r.Video.Extract(ctx, path)
}

// ExtractMetadata is the never-failing form: any error becomes nil.
func ExtractMetadata(ctx context.Context, p Prober, path string) *models.MetadataRecord {
	rec, err := p.Extract(ctx, path)
	if err != nil {
		return nil
	}
	return rec
}
