package domain

import "time"

// SyncRun records one make_db ingestion and what it stored.
type SyncRun struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Topics      int
	Fields      int
	Submissions int
	Values      int
	Nodes       int
}

// Finished reports whether the run reached its last phase.
func (r *SyncRun) Finished() bool {
	return r.FinishedAt != nil
}
