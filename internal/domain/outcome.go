package domain

import "time"

// OutcomeStatus is the result of one issue download attempt
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailure OutcomeStatus = "failure"
)

// DownloadOutcome represents the result of a single issue download
type DownloadOutcome struct {
	Issue  IssueDescriptor
	Status OutcomeStatus

	// BytesWritten is the byte count reported for a successful download
	BytesWritten int64

	// Path is the local file path, set whenever the file was created,
	// including partial files left behind by a failure
	Path string

	// Reason is a short description of the failure
	Reason string
	Err    error

	Duration time.Duration
}

// Succeeded creates a success outcome
func Succeeded(issue IssueDescriptor, path string, bytesWritten int64) DownloadOutcome {
	return DownloadOutcome{
		Issue:        issue,
		Status:       OutcomeSuccess,
		BytesWritten: bytesWritten,
		Path:         path,
	}
}

// Failed creates a failure outcome from err
func Failed(issue IssueDescriptor, path string, err error) DownloadOutcome {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return DownloadOutcome{
		Issue:  issue,
		Status: OutcomeFailure,
		Path:   path,
		Reason: reason,
		Err:    err,
	}
}

// IsSuccess returns true if the download succeeded
func (o DownloadOutcome) IsSuccess() bool {
	return o.Status == OutcomeSuccess
}

// BatchSummary accumulates the outcomes of one batch run
type BatchSummary struct {
	RunID string

	// Start and End are the normalized 0-based, half-open index range
	Start int
	End   int

	TotalBytes int64
	Successes  []string
	Failures   []string
	Outcomes   []DownloadOutcome

	// Interrupted is set when the run was cancelled before End
	Interrupted bool

	StartedAt  time.Time
	FinishedAt time.Time
}

// NewBatchSummary creates an empty summary for the given range
func NewBatchSummary(runID string, start, end int) *BatchSummary {
	return &BatchSummary{
		RunID:     runID,
		Start:     start,
		End:       end,
		Successes: []string{},
		Failures:  []string{},
		StartedAt: time.Now(),
	}
}

// Record appends an outcome to the summary
func (s *BatchSummary) Record(o DownloadOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	if o.IsSuccess() {
		s.TotalBytes += o.BytesWritten
		s.Successes = append(s.Successes, o.Issue.FileName)
		return
	}
	s.Failures = append(s.Failures, o.Issue.FileName)
}

// Attempted returns the number of issues attempted
func (s *BatchSummary) Attempted() int {
	return len(s.Outcomes)
}
