package downloader

import (
	"errors"
	"fmt"
	"net/http"
)

// Stage names the part of a download that failed.
type Stage string

const (
	StageProbe    Stage = "probe"
	StageChunk    Stage = "chunk"
	StageAssemble Stage = "assemble"
	StageStream   Stage = "stream"
)

var (
	// ErrRangeNotSupported means the server ignored or refused a Range request.
	ErrRangeNotSupported = errors.New("server does not honour range requests")
	// ErrShortRange means a range response carried the wrong number of bytes.
	ErrShortRange = errors.New("range response length mismatch")
	// ErrRetriesExhausted means a range failed more times than the retry policy allows.
	ErrRetriesExhausted = errors.New("range retries exhausted")
	// ErrIncomplete means the single-stream body ended before Content-Length bytes.
	ErrIncomplete = errors.New("incomplete download")
)

// Error is returned by Download. Stage and URL give enough context to render
// a message; Err is the underlying cause.
type Error struct {
	Stage Stage
	URL   string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("download %s failed at %s stage: %v", e.URL, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPError represents an HTTP error with status code
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, e.Status, e.Message)
}

// IsRetryableHTTPError reports whether err wraps a transient HTTP status.
func IsRetryableHTTPError(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	switch httpErr.StatusCode {
	case http.StatusServiceUnavailable,
		http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusGatewayTimeout,
		http.StatusRequestTimeout:
		return true
	}
	return false
}
