package model

import "time"

// RunStatus tracks a batch run's lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunSummary counts output records per confidence tier.
type RunSummary struct {
	Total  int `json:"total"`
	High   int `json:"high"`	// confidence 1.0
	Medium int `json:"medium"`	// confidence 0.5
	Zero   int `json:"zero"`	// confidence 0.0
}

// Add tallies one record into the summary.
func (s *RunSummary) Add(rec OutputRecord) {
	s.Total++
	switch rec.Confidence {
	case 1.0:
		s.High++
	case 0.5:
		s.Medium++
	default:
		s.Zero++
	}
}

// Run is one recorded batch invocation.
type Run struct {
	ID         string      `json:"id"`
	InputPath  string      `json:"input_path"`
	OutputPath string      `json:"output_path"`
	Status     RunStatus   `json:"status"`
	Summary    *RunSummary `json:"summary,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
