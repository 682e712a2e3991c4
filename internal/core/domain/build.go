package domain

import "time"

// BuildStatus is the outcome of building a single document.
type BuildStatus string

// Document build outcomes.
const (
	// BuildPublished means the document is in the published index.
	BuildPublished BuildStatus = "published"

	// BuildFailed means a fatal error kept the document out of the index.
	BuildFailed BuildStatus = "failed"
)

// DocumentOutcome records what happened to one input document.
type DocumentOutcome struct {
	// ID is the resolved document id, empty if meta could not be parsed.
	ID string

	// URI is the input location.
	URI string

	// Status is the outcome.
	Status BuildStatus

	// Blocks counts spliced annotation blocks.
	Blocks int

	// Warnings holds recoverable block errors.
	Warnings []error

	// Err is the fatal error for failed documents.
	Err error
}

// BuildReport summarises one build run.
type BuildReport struct {
	// RunID identifies the run.
	RunID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the index was published.
	FinishedAt time.Time

	// Documents lists outcomes in document order.
	Documents []DocumentOutcome

	// Indexed is the number of records in the published index.
	Indexed int
}

// Failed returns the outcomes of documents that were not published.
func (r *BuildReport) Failed() []DocumentOutcome {
	var failed []DocumentOutcome
	for i := range r.Documents {
		if r.Documents[i].Status == BuildFailed {
			failed = append(failed, r.Documents[i])
		}
	}
	return failed
}

// WarningCount returns the total number of recoverable block errors.
func (r *BuildReport) WarningCount() int {
	n := 0
	for i := range r.Documents {
		n += len(r.Documents[i].Warnings)
	}
	return n
}

// BuildRun is the persisted summary of a build, kept in build history.
type BuildRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  int
	Indexed    int
	Failed     int
	Warnings   int
}

// Summary converts a report into its persisted form.
func (r *BuildReport) Summary() BuildRun {
	return BuildRun{
		ID:         r.RunID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Documents:  len(r.Documents),
		Indexed:    r.Indexed,
		Failed:     len(r.Failed()),
		Warnings:   r.WarningCount(),
	}
}
