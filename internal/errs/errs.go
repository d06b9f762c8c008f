// Package errs defines the error taxonomy shared across the pipeline
// (spec.md §7): sentinel kinds callers can match with errors.Is, each
// wrapped with the page and operation it occurred in when known.
package errs

import (
	"errors"
	"strconv"
)

// Sentinel kinds. UnknownOpcode is deliberately absent: per spec.md §7
// it is never surfaced as an error, only captured as Unknown tokens.
var (
	InputCorrupt  = errors.New("input corrupt")
	DecodeFailure = errors.New("character decode failure")
	SinkFailure   = errors.New("sink failure")
)

// PageError attaches page and operation context to an underlying error,
// so a driver can print "page N, during op: cause" and unwrap down to
// one of the sentinel kinds above.
type PageError struct {
	Page int
	Op   string
	Err  error
}

func (e *PageError) Error() string {
	if e.Page > 0 {
		return e.Op + " (page " + strconv.Itoa(e.Page) + "): " + e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *PageError) Unwrap() error { return e.Err }

// Wrap builds a plain error chaining kind and msg, suitable for
// components below the per-page driver boundary (e.g. the locator,
// which has no page context of its own yet).
func Wrap(kind error, msg string, cause error) error {
	return &wrapped{kind: kind, msg: msg, cause: cause}
}

type wrapped struct {
	kind  error
	msg   string
	cause error
}

func (w *wrapped) Error() string {
	if w.cause == nil {
		return w.msg
	}
	return w.msg + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() []error { return []error{w.kind, w.cause} }

// ForPage wraps err with page/op context, forming a PageError whose
// Unwrap chain still reaches the original sentinel kind.
func ForPage(page int, op string, err error) error {
	return &PageError{Page: page, Op: op, Err: err}
}
