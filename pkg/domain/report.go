package domain

import "time"

// ActionFailure records one failed dispatch. The run continued past it.
type ActionFailure struct {
	NodeID   string   `json:"node_id"`
	NodeType NodeType `json:"node_type"`
	Error    string   `json:"error"`
}

// RunReport summarizes a completed run.
type RunReport struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	StartNodes []string        `json:"start_nodes"`
	Dispatched []string        `json:"dispatched"`
	Failures   []ActionFailure `json:"failures,omitempty"`
}

// Duration is the wall time between run start and finish.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Count returns how many times nodeID was dispatched during the run.
func (r *RunReport) Count(nodeID string) int {
	n := 0
	for _, id := range r.Dispatched {
		if id == nodeID {
			n++
		}
	}
	return n
}

// Succeeded reports whether no dispatch failed.
func (r *RunReport) Succeeded() bool {
	return len(r.Failures) == 0
}
