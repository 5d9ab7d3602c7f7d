package validation

import (
	"fmt"
	"io"
	"log/slog"
)

// Print writes the human-readable validation report: errors first, then
// warnings, then a closing verdict when the run passed.
func (r Result) Print(w io.Writer) {
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Validation failed with errors:")
		for _, msg := range r.Errors {
			fmt.Fprintf(w, "  • %s\n", msg)
		}
		fmt.Fprintln(w)
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, msg := range r.Warnings {
			fmt.Fprintf(w, "  • %s\n", msg)
		}
		fmt.Fprintln(w)
	}
	switch {
	case len(r.Errors) == 0 && len(r.Warnings) == 0:
		fmt.Fprintln(w, "Validation passed with no issues!")
	case len(r.Errors) == 0:
		fmt.Fprintln(w, "Validation passed (with warnings)")
	}
}

// Log emits each finding at its level.
func (r Result) Log(logger *slog.Logger) {
	for _, msg := range r.Errors {
		logger.Error(msg)
	}
	for _, msg := range r.Warnings {
		logger.Warn(msg)
	}
	logger.Info("validation finished",
		"errors", len(r.Errors),
		"warnings", len(r.Warnings),
	)
}
