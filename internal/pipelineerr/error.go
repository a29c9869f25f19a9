// Package pipelineerr defines the discriminated error type shared by every
// stage of the ingest-aggregate-publish pipeline.
package pipelineerr

import "fmt"

// Kind classifies a pipeline failure so callers can decide between aborting
// the invocation and skipping the failed unit of work.
type Kind string

const (
	// FetchError signals an upstream HTTP failure: transport error or
	// non-2xx response. Policy: abort the invocation; the next scheduled
	// tick retries.
	FetchError Kind = "FETCH_ERROR"

	// ParseError signals a payload that failed to decode. At the
	// whole-payload level (not a JSON array) this is fatal to the
	// invocation; at the line level (one malformed NDJSON record) the
	// caller logs and skips instead of raising it further.
	ParseError Kind = "PARSE_ERROR"

	// ReadError signals an object-store Get failure on one input among
	// many. Policy: log and exclude that input, keep going.
	ReadError Kind = "READ_ERROR"

	// StorageError signals an object-store Put (or List, see ListError)
	// failure. Policy: abort the invocation; nothing is published.
	StorageError Kind = "STORAGE_ERROR"

	// ListError signals an object-store List failure. Treated identically
	// to StorageError.
	ListError Kind = "LIST_ERROR"
)

// PipelineError wraps a cause with a Kind so it can be switched on without
// string matching or sentinel comparison.
type PipelineError struct {
	Kind Kind
	Op   string // short description of what was being attempted, e.g. "list raw/2025/12/27/20"
	Err  error
}

func New(kind Kind, op string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Op: op, Err: err}
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is reports whether err is a *PipelineError of the given Kind.
func Is(err error, kind Kind) bool {
	pe, ok := err.(*PipelineError)
	return ok && pe.Kind == kind
}
