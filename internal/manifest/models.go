package manifest

import "time"

// Run is one batch invocation.
type Run struct {
	ID         int64
	RunID      string
	StartedAt  time.Time
	FinishedAt *time.Time
	InputDir   string
	Atlas      string
	OutputDir  string
	Overwrite  bool
	Total      int
	Completed  int
}

// CaseRecord is one processed case within a run.
type CaseRecord struct {
	ID         int64
	RunID      string
	Name       string
	SourcePath string
	Outcome    string
	Detail     string
	CreatedAt  time.Time
}
