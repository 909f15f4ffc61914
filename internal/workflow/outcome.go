package workflow

import "regbet/internal/discovery"

// Outcome classifies the result of running the pipeline for one case.
type Outcome int

const (
	// OutcomeSkipped means every artifact of both stages already existed
	// non-empty and overwrite was not requested.
	OutcomeSkipped Outcome = iota
	// OutcomeSucceeded means both stages ended in success, counting a stage
	// whose outputs were already complete on entry as satisfied.
	OutcomeSucceeded
	// OutcomeRegistrationFailed means stage one failed or timed out; stage
	// two was never attempted.
	OutcomeRegistrationFailed
	// OutcomeExtractionFailed means stage one succeeded (or was already
	// complete) but stage two failed or timed out.
	OutcomeExtractionFailed
)

// String returns the manifest spelling of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeRegistrationFailed:
		return "failed_registration"
	case OutcomeExtractionFailed:
		return "failed_extraction"
	default:
		return "unknown"
	}
}

// Accounted reports whether the case counts toward the batch's completed
// tally. Skipped cases are complete by definition.
func (o Outcome) Accounted() bool {
	return o == OutcomeSkipped || o == OutcomeSucceeded
}

// CaseResult is the per-case record accumulated by the batch runner.
type CaseResult struct {
	Item    discovery.Item
	Outcome Outcome
	// Detail carries the failure message for failed outcomes, empty
	// otherwise.
	Detail string
}

// BatchResult is the reduction of all case results for one run, in
// discovery order.
type BatchResult struct {
	RunID string
	Cases []CaseResult
}

// Total returns the number of discovered cases in the batch.
func (b *BatchResult) Total() int {
	return len(b.Cases)
}

// Completed returns the number of cases whose outcome is succeeded or
// skipped.
func (b *BatchResult) Completed() int {
	n := 0
	for _, c := range b.Cases {
		if c.Outcome.Accounted() {
			n++
		}
	}
	return n
}

// Failed reports whether at least one case failed.
func (b *BatchResult) Failed() bool {
	return b.Completed() != b.Total()
}
