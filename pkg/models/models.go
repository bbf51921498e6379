package models

import (
	"path/filepath"
	"strings"
	"time"
)

// Confidence is a coarse label for how strong the evidence behind a
// camera classification was.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
	ConfidenceNone   Confidence = "NONE"
)

// Source names the evidence tier that produced a classification.
type Source string

const (
	SourceMetadata          Source = "metadata"
	SourceMetadataExtension Source = "metadata+extension"
	SourceFilenamePattern   Source = "filename_pattern"
	SourceFileExtension     Source = "file_extension"
	SourceFolderName        Source = "folder_name"
	SourceFallback          Source = "fallback"
)

// NeutralLUT is used whenever a camera has no default transform.
const NeutralLUT = "Neutral"

// MetadataRecord is the normalized result of probing one file.
// Empty fields mean the tag was absent.
type MetadataRecord struct {
	Model      string `json:"model,omitempty"`
	Make       string `json:"make,omitempty"`
	ColorSpace string `json:"color_space,omitempty"`
	Format     string `json:"format,omitempty"`
}

// LutInfo is the color-transform recommendation for a camera type.
type LutInfo struct {
	DefaultLUTs   []string          `json:"default_luts"`
	ColorSpaceMap map[string]string `json:"color_spaces"` // target color space -> .cube file
	Icon          string            `json:"icon"`
	Color         string            `json:"color"`
}

// Clone returns a deep copy so callers can override fields without
// touching the knowledge base.
func (l LutInfo) Clone() LutInfo {
	out := LutInfo{Icon: l.Icon, Color: l.Color}
	if l.DefaultLUTs != nil {
		out.DefaultLUTs = append([]string(nil), l.DefaultLUTs...)
	}
	if l.ColorSpaceMap != nil {
		out.ColorSpaceMap = make(map[string]string, len(l.ColorSpaceMap))
		for k, v := range l.ColorSpaceMap {
			out.ColorSpaceMap[k] = v
		}
	}
	return out
}

// DefaultLUT returns the first recommended LUT, or Neutral.
func (l LutInfo) DefaultLUT() string {
	if len(l.DefaultLUTs) > 0 && l.DefaultLUTs[0] != "" {
		return l.DefaultLUTs[0]
	}
	return NeutralLUT
}

// ClassificationResult is the single camera identity assigned to a file.
type ClassificationResult struct {
	CameraType string     `json:"camera_type"`
	Confidence Confidence `json:"confidence"`
	Source     Source     `json:"source"`
	ReelName   string     `json:"reel_name,omitempty"`
	LutInfo    LutInfo    `json:"lut_info"`
}

// FileEntry is one accepted media file moving through the ingest pipeline.
type FileEntry struct {
	AbsolutePath   string                `json:"path"`
	DisplayName    string                `json:"name"`
	SizeBytes      int64                 `json:"size_bytes,omitempty"`
	Metadata       *MetadataRecord       `json:"metadata,omitempty"`
	Classification *ClassificationResult `json:"classification,omitempty"`
	Error          string                `json:"error,omitempty"` // probe failure, if any
}

// NewFileEntry builds an entry from a path, deriving the display name.
func NewFileEntry(path string, size int64) *FileEntry {
	return &FileEntry{
		AbsolutePath: path,
		DisplayName:  filepath.Base(path),
		SizeBytes:    size,
	}
}

// Extension returns the lower-cased extension including the dot.
func (f *FileEntry) Extension() string {
	return strings.ToLower(filepath.Ext(f.DisplayName))
}

// CameraGroup is a named collection of files sharing a grouping key.
type CameraGroup struct {
	Key             string       `json:"key"`
	Name            string       `json:"name"`
	ConfidenceLevel Confidence   `json:"confidence"`
	Source          Source       `json:"source"`
	LutInfo         LutInfo      `json:"lut_info"`
	SelectedLUT     string       `json:"selected_lut"`
	Files           []*FileEntry `json:"files"`
}

// SelectLUT overrides the group's transform. An empty name resets it to
// the default recommendation.
func (g *CameraGroup) SelectLUT(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = g.LutInfo.DefaultLUT()
	}
	g.SelectedLUT = name
}

// TotalBytes sums the sizes of the group's files.
func (g *CameraGroup) TotalBytes() int64 {
	var total int64
	for _, f := range g.Files {
		total += f.SizeBytes
	}
	return total
}

// Format is an export target.
type Format string

const (
	FormatMP4    Format = "mp4"
	FormatProRes Format = "prores"
)

// ParseFormat accepts "mp4", "prores" and "mov" (alias of prores).
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mp4":
		return FormatMP4, true
	case "prores", "mov":
		return FormatProRes, true
	}
	return "", false
}

// Extension returns the container extension for the format.
func (f Format) Extension() string {
	if f == FormatProRes {
		return ".mov"
	}
	return ".mp4"
}

// ExportJob is a single input to transcode. Immutable once built.
type ExportJob struct {
	ID        string `json:"id"`
	InputPath string `json:"input_path"`
	Format    Format `json:"format"`
	OutputDir string `json:"output_dir"`
}

// OutputPath replaces the input's extension with the format's one inside
// OutputDir.
func (j ExportJob) OutputPath() string {
	base := filepath.Base(j.InputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(j.OutputDir, stem+j.Format.Extension())
}

// JobState tracks a job through Pending -> Running -> terminal.
type JobState string

const (
	JobPending   JobState = "Pending"
	JobRunning   JobState = "Running"
	JobCompleted JobState = "Completed"
	JobFailed    JobState = "Failed"
	JobKilled    JobState = "Killed"
)

// Terminal reports whether no further transitions are possible.
func (s JobState) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobKilled
}

// Event statuses as seen by the caller.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// ExportEvent is the single completion report for a job.
type ExportEvent struct {
	JobID             string        `json:"job_id"`
	Status            string        `json:"status"` // "success", "fail"
	State             JobState      `json:"state"`
	OutputPath        string        `json:"output_path"`
	OriginalInputPath string        `json:"original_input_path"`
	Message           string        `json:"message"`
	Duration          time.Duration `json:"duration_ns,omitempty"`
}
