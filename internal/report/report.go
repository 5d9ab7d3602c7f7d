// Package report aggregates per-record outcomes of a generate or capture run
// and writes run reports.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tkturners/thumbgen/internal/logging"
)

// Status is the outcome of one record.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Outcome is one record's result within a run.
type Outcome struct {
	ID     string `yaml:"id"`
	Status Status `yaml:"status"`
	Path   string `yaml:"path,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// Summary accumulates the outcomes of one run in record order.
type Summary struct {
	Operation string    `yaml:"operation"`
	RunID     string    `yaml:"run_id"`
	Started   time.Time `yaml:"started"`
	Finished  time.Time `yaml:"finished"`
	OutputDir string    `yaml:"output_dir"`
	Succeeded int       `yaml:"succeeded"`
	Failed    int       `yaml:"failed"`
	Skipped   int       `yaml:"skipped"`
	Outcomes  []Outcome `yaml:"outcomes"`
}

// New starts a summary. An empty runID gets a fresh one.
func New(operation, runID, outputDir string) *Summary {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Summary{
		Operation: operation,
		RunID:     runID,
		Started:   time.Now(),
		OutputDir: outputDir,
	}
}

// Add records an outcome and updates the counts.
func (s *Summary) Add(o Outcome) {
	switch o.Status {
	case StatusSucceeded:
		s.Succeeded++
	case StatusFailed:
		s.Failed++
	case StatusSkipped:
		s.Skipped++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Succeed records a success for id.
func (s *Summary) Succeed(id, path string) {
	s.Add(Outcome{ID: id, Status: StatusSucceeded, Path: path})
}

// Fail records a failure for id.
func (s *Summary) Fail(id string, err error) {
	s.Add(Outcome{ID: id, Status: StatusFailed, Error: err.Error()})
}

// Skip records a skipped record and why.
func (s *Summary) Skip(id, reason string) {
	s.Add(Outcome{ID: id, Status: StatusSkipped, Error: reason})
}

// Finish stamps the end time.
func (s *Summary) Finish() {
	s.Finished = time.Now()
}

// OK reports whether at least one record succeeded.
func (s *Summary) OK() bool {
	return s.Succeeded > 0
}

// Failures returns the failed outcomes in record order.
func (s *Summary) Failures() []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}

// Duration is the wall time of the run, or zero before Finish.
func (s *Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// Log emits the summary and each failure.
func (s *Summary) Log(logger *slog.Logger) {
	for _, f := range s.Failures() {
		logger.Error("record failed", logging.FieldRecordID, f.ID, "error", f.Error)
	}
	args := []any{
		"operation", s.Operation,
		"succeeded", s.Succeeded,
		"failed", s.Failed,
		"skipped", s.Skipped,
		"output", s.OutputDir,
	}
	if s.OK() {
		logging.Success(logger, "run finished", args...)
		return
	}
	logger.Warn("run finished without successes", args...)
}

// Print writes a human-readable summary to w.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "\n========================================")
	fmt.Fprintf(w, "%s summary\n", s.Operation)
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Succeeded:   %d\n", s.Succeeded)
	fmt.Fprintf(w, "Failed:      %d\n", s.Failed)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "Skipped:     %d\n", s.Skipped)
	}
	fmt.Fprintf(w, "Output:      %s\n", s.OutputDir)

	if failures := s.Failures(); len(failures) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, f := range failures {
			fmt.Fprintf(w, "  - %s: %s\n", f.ID, f.Error)
		}
	}
	fmt.Fprintln(w, "========================================")
}

// Guard runs one record's work and converts a panic into an error so a single
// record can never unwind the whole batch.
func Guard(fn func() (string, error)) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			path = ""
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
