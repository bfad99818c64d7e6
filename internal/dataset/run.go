package dataset

import (
	"time"

	"github.com/izachstanford/smart-books-ai/internal/id"
)

// Run identifies one pipeline stage execution for logging and the
// per-run stats artifact.
type Run struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	StartedAt time.Time `json:"started_at"`
}

// NewRun stamps a stage execution with a fresh run ID.
func NewRun(stage string) Run {
	return Run{
		RunID:     id.MustGenerate("run"),
		Stage:     stage,
		StartedAt: time.Now().UTC(),
	}
}

// RunReport is the stats artifact a stage writes next to its outputs.
type RunReport struct {
	Run
	FinishedAt time.Time `json:"finished_at"`
	DurationMs int64     `json:"duration_ms"`
	Stats      any       `json:"stats,omitempty"`
}

// Finish closes the run with stage-specific stats.
func (r Run) Finish(stats any) RunReport {
	now := time.Now().UTC()
	return RunReport{
		Run:        r,
		FinishedAt: now,
		DurationMs: now.Sub(r.StartedAt).Milliseconds(),
		Stats:      stats,
	}
}

// SaveReport writes the run report artifact.
func SaveReport(path string, report RunReport) error {
	return writeJSON(path, report)
}
