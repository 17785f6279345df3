package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vertextoedge/magpi-downloader/internal/domain"
	"github.com/vertextoedge/magpi-downloader/internal/domain/vo"
	"github.com/vertextoedge/magpi-downloader/internal/port"
	"go.uber.org/zap"
)

// Config holds batch downloader configuration
type Config struct {
	// SkipEmptySummary suppresses the final report when no bytes were
	// downloaded at all
	SkipEmptySummary bool
}

// Downloader runs the issue fetcher over a range of issues, one at a time
type Downloader struct {
	config   *Config
	fetcher  port.IssueFetcher
	journal  port.Journal
	recorder port.Recorder
	logger   *zap.Logger
	newRunID func() string
}

// New creates a new Downloader.
// journal and recorder are optional and may be nil.
func New(cfg *Config, fetcher port.IssueFetcher, journal port.Journal, recorder port.Recorder, logger *zap.Logger) *Downloader {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Downloader{
		config:   cfg,
		fetcher:  fetcher,
		journal:  journal,
		recorder: recorder,
		logger:   logger,
		newRunID: uuid.NewString,
	}
}

// Normalize clamps a 0-based, half-open range so that at least one issue
// is processed
func Normalize(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end <= start {
		end = start + 1
	}
	return start, end
}

// Run downloads issues start through end-1 (0-based) sequentially.
// Per-issue failures are recorded in the summary and never stop the loop;
// only ctx cancellation ends it early.
func (d *Downloader) Run(ctx context.Context, start, end int) *domain.BatchSummary {
	start, end = Normalize(start, end)
	summary := domain.NewBatchSummary(d.newRunID(), start, end)
	log := d.logger.With(zap.String("run_id", summary.RunID))

	log.Info("downloading issues",
		zap.Int("from", start+1),
		zap.Int("to", end))

	if d.journal != nil {
		if err := d.journal.BeginRun(summary); err != nil {
			log.Warn("failed to journal run start", zap.Error(err))
		}
	}

	for i := start; i < end; i++ {
		if ctx.Err() != nil {
			summary.Interrupted = true
			log.Warn("download interrupted",
				zap.Int("next_issue", i+1),
				zap.Int("remaining", end-i))
			break
		}

		outcome := d.fetcher.FetchIssue(ctx, i)
		summary.Record(outcome)
		d.logOutcome(log, outcome)
		d.recordOutcome(log, summary.RunID, outcome)
	}

	summary.FinishedAt = time.Now()

	if d.journal != nil {
		if err := d.journal.FinishRun(summary); err != nil {
			log.Warn("failed to journal run end", zap.Error(err))
		}
	}
	if d.recorder != nil {
		d.recorder.ObserveRun(summary)
	}

	return summary
}

func (d *Downloader) logOutcome(log *zap.Logger, outcome domain.DownloadOutcome) {
	if outcome.IsSuccess() {
		size, _ := vo.NewFileSize(outcome.BytesWritten)
		log.Info("issue downloaded",
			zap.String("issue", outcome.Issue.Number),
			zap.String("file", outcome.Issue.FileName),
			zap.String("path", outcome.Path),
			zap.Int64("bytes", outcome.BytesWritten),
			zap.Stringer("size", size),
			zap.Duration("duration", outcome.Duration))
		return
	}

	fields := []zap.Field{
		zap.String("issue", outcome.Issue.Number),
		zap.String("file", outcome.Issue.FileName),
		zap.String("stage", string(domain.StageOf(outcome.Err))),
		zap.String("reason", outcome.Reason),
	}
	if outcome.Path != "" {
		fields = append(fields, zap.String("partial_path", outcome.Path))
	}
	log.Warn("failed to download issue", fields...)
}

func (d *Downloader) recordOutcome(log *zap.Logger, runID string, outcome domain.DownloadOutcome) {
	if d.journal != nil {
		if err := d.journal.RecordOutcome(runID, outcome); err != nil {
			log.Warn("failed to journal outcome",
				zap.String("file", outcome.Issue.FileName),
				zap.Error(err))
		}
	}
	if d.recorder != nil {
		d.recorder.ObserveOutcome(outcome)
	}
}

// Report logs the final summary of a run
func (d *Downloader) Report(summary *domain.BatchSummary) {
	if d.config.SkipEmptySummary && summary.TotalBytes == 0 {
		return
	}

	total, _ := vo.NewFileSize(summary.TotalBytes)
	d.logger.Info("download summary",
		zap.String("run_id", summary.RunID),
		zap.Int("downloaded", len(summary.Successes)),
		zap.Int("failed", len(summary.Failures)),
		zap.Int64("total_bytes", summary.TotalBytes),
		zap.Stringer("total", total),
		zap.Bool("interrupted", summary.Interrupted))

	for _, name := range summary.Failures {
		d.logger.Warn("not downloaded", zap.String("file", name))
	}
}
