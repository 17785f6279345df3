package port

import (
	"context"

	"github.com/vertextoedge/magpi-downloader/internal/domain"
)

// IssueFetcher downloads a single issue by its 0-based index
type IssueFetcher interface {
	FetchIssue(ctx context.Context, index int) domain.DownloadOutcome
}

// Journal records runs and their outcomes for later inspection.
// Nothing read from the journal influences a later run.
type Journal interface {
	BeginRun(summary *domain.BatchSummary) error
	RecordOutcome(runID string, outcome domain.DownloadOutcome) error
	FinishRun(summary *domain.BatchSummary) error
}

// Recorder collects run metrics
type Recorder interface {
	ObserveOutcome(outcome domain.DownloadOutcome)
	ObserveRun(summary *domain.BatchSummary)
}
