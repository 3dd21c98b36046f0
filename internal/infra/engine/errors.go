package engine

import (
	"errors"
	"fmt"
)

// Fixed per-call failure messages. Callers show them to the user as is.
var (
	ErrCreateWebsite  = errors.New("failed to create website")
	ErrCreateScan     = errors.New("failed to create scan")
	ErrGetScan        = errors.New("failed to get scan status")
	ErrDownloadPDF    = errors.New("failed to download PDF report")
	ErrReportNotReady = errors.New("PDF report not found, it may still be generating")
)

// Error is returned by every Client call. Its message is the fixed message
// of the call; the transport error or HTTP status is kept for logging.
type Error struct {
	Kind       error
	StatusCode int
	Err        error
}

func (e *Error) Error() string { return e.Kind.Error() }

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Detail includes the underlying cause, for log lines.
func (e *Error) Detail() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s: status=%d: %v", e.Kind, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status=%d", e.Kind, e.StatusCode)
	default:
		return e.Kind.Error()
	}
}

// Detail returns the log form of err when it is an *Error.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Detail()
	}
	return err.Error()
}
