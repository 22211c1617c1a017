package analyses

import "errors"

var ErrInvalidSource = errors.New("invalid document source")

const (
	ErrorCodeValidation     = "VALIDATION_ERROR"
	ErrorCodeSubmission     = "SUBMISSION_ERROR"
	ErrorCodeAnalysisFailed = "ANALYSIS_FAILED"
	ErrorCodePollingTimeout = "POLLING_TIMEOUT"
	ErrorCodeEmptyResult    = "EMPTY_RESULT"
	ErrorCodeInternal       = "INTERNAL_ERROR"
)
