package metadata

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"meldify/internal/classifier"
	"meldify/pkg/models"
)

// DefaultBatchSize bounds how many probes run at once.
const DefaultBatchSize = 5

// ProgressFunc is called after each batch with processed and total counts.
type ProgressFunc func(processed, total int)

// Processor probes and classifies files batch by batch.
type Processor struct {
	prober     Prober
	classifier *classifier.Classifier
	logger     *slog.Logger
	onProgress ProgressFunc
}

// NewProcessor wires a prober to a classifier.
func NewProcessor(p Prober, c *classifier.Classifier, logger *slog.Logger) *Processor {
	if c == nil {
		c = classifier.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{prober: p, classifier: c, logger: logger}
}

// OnProgress registers a progress callback.
func (p *Processor) OnProgress(fn ProgressFunc) { p.onProgress = fn }

// ProcessBatch decorates every file with metadata and a classification and
// returns the same entries in input order. Files are probed batchSize at a
// time; a batch finishes completely before the next one starts. A failed
// probe leaves Metadata nil, sets Error and still classifies the file.
func (p *Processor) ProcessBatch(ctx context.Context, files []*models.FileEntry, batchSize int) []*models.FileEntry {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	total := len(files)
	out := make([]*models.FileEntry, total)

	p.logger.Info("processing metadata", "files", total, "batch_size", batchSize)

	for start := 0; start < total; start += batchSize {
		end := min(start+batchSize, total)

		// The group is only a barrier: processOne records failures on the
		// entry, so Wait never returns an error.
		var g errgroup.Group
		g.SetLimit(batchSize)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				out[i] = p.processOne(ctx, files[i])
				return nil
			})
		}
		_ = g.Wait()

		p.logger.Debug("metadata batch complete",
			"batch", start/batchSize+1,
			"files", end-start,
			"processed", end,
			"total", total,
		)
		if p.onProgress != nil {
			p.onProgress(end, total)
		}
	}

	p.logger.Info("metadata processing complete", "files", total)
	return out
}

func (p *Processor) processOne(ctx context.Context, f *models.FileEntry) *models.FileEntry {
	rec, err := p.prober.Extract(ctx, f.AbsolutePath)
	if err != nil {
		p.logger.Warn("metadata probe failed", "path", f.AbsolutePath, "error", err)
		f.Metadata = nil
		f.Error = err.Error()
	} else {
		f.Metadata = rec
		f.Error = ""
	}
	p.classifier.Apply(f)
	return f
}
