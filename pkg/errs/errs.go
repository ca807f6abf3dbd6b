// Package errs defines the error taxonomy shared by every component of the
// citation engine: InvalidInput, NotFound, Transient, DataDefect, and Fatal.
// Callers distinguish categories with errors.Is against the sentinel values
// below; wrapped context is added with fmt.Errorf("...: %w", err).
package errs

import "errors"

// Sentinel category errors. Wrap with fmt.Errorf("%s: %w", detail, errs.ErrNotFound).
var (
	// ErrInvalidInput marks an out-of-range or malformed argument (e.g. depth > 5,
	// an unparseable numeral in a CLI flag). The caller should fail immediately.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a requested statute, article, or graph node that is absent.
	// Never retried.
	ErrNotFound = errors.New("not found")

	// ErrTransient marks a graph-store timeout or connection loss. Nothing in
	// this module retries it: graph.Builder abandons a failed edge batch on its
	// first failure and goes on with the next batch.
	ErrTransient = errors.New("transient failure")

	// ErrDataDefect marks unreadable article text or a malformed law-number
	// string. Logged and skipped; never aborts a larger run.
	ErrDataDefect = errors.New("data defect")

	// ErrFatal marks conditions that abort the process: an unwritable checkpoint
	// file, an unreadable dictionary source at startup.
	ErrFatal = errors.New("fatal error")
)

// Is reports whether err is in category (or wraps it), via errors.Is.
func Is(err, category error) bool {
	return errors.Is(err, category)
}
