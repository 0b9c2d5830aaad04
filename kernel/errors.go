package kernel

import (
	"fmt"
	"strings"
)

// PrimitiveError reports that no candidate operation succeeded for a required
// primitive. It carries the operand summary and the recent diagnostic trace
// so a failure can be analyzed without re-running the kernel.
type PrimitiveError struct {
	// Primitive is the abstract primitive that could not be constructed
	// (e.g. "arc-edge", "face", "prism").
	Primitive string

	// Operands summarizes the inputs as coordinates.
	Operands string

	// Attempts lists the candidate operations that were tried, in order,
	// each with the error it produced.
	Attempts []string

	// Trace holds the diagnostic events retained at the time of failure.
	Trace []TraceEvent
}

func (e *PrimitiveError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "kernel: cannot construct %s", e.Primitive)
	if e.Operands != "" {
		fmt.Fprintf(&b, " (%s)", e.Operands)
	}
	if len(e.Attempts) > 0 {
		fmt.Fprintf(&b, ": tried %s", strings.Join(e.Attempts, "; "))
	}
	return b.String()
}

// ExportError reports that the exchange writer could not produce output
// bytes: either every write attempt failed, or the writer claimed success
// but nothing could be read back.
type ExportError struct {
	// Targets lists the output paths that were attempted.
	Targets []string

	// Err is the last underlying error, if any.
	Err error
}

func (e *ExportError) Error() string {
	msg := fmt.Sprintf("kernel: export produced no output (tried %s)", strings.Join(e.Targets, ", "))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExportError) Unwrap() error { return e.Err }
