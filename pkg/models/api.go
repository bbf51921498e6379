package models

// --- Control surface ---

// ScanRequest asks the service to ingest a folder.
// Used in [POST] /v1/scan
type ScanRequest struct {
	Root string `json:"root"`
}

// ScanResponse is the grouped view of one ingested batch.
type ScanResponse struct {
	Files      int            `json:"files"`
	Groups     []*CameraGroup `json:"groups"`
	Duplicates []string       `json:"duplicates,omitempty"`
}

// ExportRequest starts exports for a set of files or a whole folder. When
// Paths is empty, Root is scanned and every exportable file is queued.
// Used in [POST] /v1/exports
type ExportRequest struct {
	Root      string   `json:"root,omitempty"`
	Paths     []string `json:"paths,omitempty"`
	Format    string   `json:"format"` // "mp4", "prores" ("mov" accepted)
	OutputDir string   `json:"output_dir,omitempty"`
}

// ExportAccepted acknowledges an export request.
type ExportAccepted struct {
	Jobs []ExportJob `json:"jobs"`
}

// ActiveExports lists the encoders currently running.
// Used in [GET] /v1/exports/active
type ActiveExports struct {
	Count int         `json:"count"`
	Jobs  []ExportJob `json:"jobs"`
}

// --- Heartbeat & Telemetry ---

// Heartbeat is the periodic pulse sent while exports are running.
// Used in [POST] /api/v1/exports/heartbeat
type Heartbeat struct {
	Status     string       `json:"status"` // IDLE, BUSY, STRESSED
	ActiveJobs int          `json:"active_jobs"`
	Telemetry  SystemHealth `json:"telemetry"`
}

// Heartbeat statuses.
const (
	HostIdle     = "IDLE"
	HostBusy     = "BUSY"
	HostStressed = "STRESSED"
)

// SystemHealth captures real-time hardware metrics gathered by gopsutil.
type SystemHealth struct {
	CPUUsage     float64 `json:"cpu_usage"` // Percentage
	RAMUsage     float64 `json:"ram_usage"` // Percentage
	RAMFreeBytes uint64  `json:"ram_free_bytes"`
	IsBusy       bool    `json:"is_busy"`
}
