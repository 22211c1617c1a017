package contentunderstanding

import (
	"fmt"
	"time"
)

// SubmissionError means the remote rejected or was unreachable at submit
// time. StatusCode is zero on transport failures.
type SubmissionError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("submission rejected: status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// AnalysisFailedError means the remote job reached the failed terminal state.
type AnalysisFailedError struct {
	Code   string
	Detail string
}

func (e *AnalysisFailedError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("analysis failed: %s: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("analysis failed: %s", e.Detail)
}

// PollingTimeoutError means the local deadline elapsed while the remote job
// was still non-terminal. The remote job may still complete on its own.
type PollingTimeoutError struct {
	Timeout  time.Duration
	Attempts int
}

func (e *PollingTimeoutError) Error() string {
	return fmt.Sprintf("polling gave up after %s (%d status requests); remote job may still be running", e.Timeout, e.Attempts)
}
