// Package ingest runs the classification half of the pipeline: scan, probe,
// classify, group and check for duplicate names. Its Result is an explicit
// value handed to whoever exports or displays it.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"meldify/internal/grouping"
	"meldify/internal/metadata"
	"meldify/internal/scan"
	"meldify/pkg/models"
)

// Result is one ingested batch.
type Result struct {
	Files      []*models.FileEntry
	Groups     *grouping.Grouping
	Duplicates []string
}

// Pipeline ties the metadata processor to grouping.
type Pipeline struct {
	processor *metadata.Processor
	batchSize int
	logger    *slog.Logger
}

// New builds a pipeline. batchSize <= 0 uses the processor default.
func New(p *metadata.Processor, batchSize int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{processor: p, batchSize: batchSize, logger: logger}
}

// Run ingests every supported file under the given paths.
func (p *Pipeline) Run(ctx context.Context, paths ...string) (*Result, error) {
	files, err := scan.Paths(paths)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	p.logger.Info("scan complete", "paths", len(paths), "files", len(files))
	return p.Files(ctx, files)
}

// Files ingests an already accepted file list.
func (p *Pipeline) Files(ctx context.Context, files []*models.FileEntry) (*Result, error) {
	files = p.processor.ProcessBatch(ctx, files, p.batchSize)

	groups, err := grouping.Group(files)
	if err != nil {
		return nil, err
	}

	dups := grouping.FindDuplicates(files)
	if len(dups) > 0 {
		p.logger.Warn("duplicate file names found", "count", len(dups), "names", dups)
	}

	p.logger.Info("grouping complete", "files", len(files), "groups", groups.Len())
	return &Result{Files: files, Groups: groups, Duplicates: dups}, nil
}
