package analyses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"cv-analyzer-backend/internal/contentunderstanding"
	"cv-analyzer-backend/internal/fields"
	"cv-analyzer-backend/internal/shared/metrics"
)

// Analyzer abstracts the submit+poll client.
type Analyzer interface {
	Submit(ctx context.Context, analyzerID, source string) (contentunderstanding.Job, error)
	PollResult(ctx context.Context, job contentunderstanding.Job, timeout, interval time.Duration) (*contentunderstanding.Result, error)
}

// Analysis is one completed user-triggered analysis. It lives only for the
// duration of the request; nothing is persisted.
type Analysis struct {
	ID          string
	DocumentURL string
	Fields      []fields.Field
	Elapsed     time.Duration
	CreatedAt   time.Time
}

// Service runs the submit-poll-extract cycle for one document at a time.
type Service struct {
	Client       Analyzer
	AnalyzerID   string
	PollTimeout  time.Duration
	PollInterval time.Duration

	now func() time.Time
}

// NewService constructs a Service with the configured polling knobs.
func NewService(client Analyzer, analyzerID string, pollTimeout, pollInterval time.Duration) *Service {
	return &Service{
		Client:       client,
		AnalyzerID:   analyzerID,
		PollTimeout:  pollTimeout,
		PollInterval: pollInterval,
		now:          time.Now,
	}
}

// Run submits the document URL, blocks until the job is terminal or the
// poll timeout elapses, and extracts the declared fields. Submission,
// remote failure, and timeout errors pass through untouched so the handler
// can map them to distinct responses.
func (s *Service) Run(ctx context.Context, documentURL string) (Analysis, error) {
	if !strings.HasPrefix(documentURL, "https://") && !strings.HasPrefix(documentURL, "http://") {
		return Analysis{}, ErrInvalidSource
	}

	start := s.clock()()
	metrics.IncAnalysisSubmitted()

	job, err := s.Client.Submit(ctx, s.AnalyzerID, documentURL)
	if err != nil {
		return Analysis{}, err
	}

	result, err := s.Client.PollResult(ctx, job, s.PollTimeout, s.PollInterval)
	elapsed := s.clock()().Sub(start)
	if err != nil {
		var failed *contentunderstanding.AnalysisFailedError
		var timeout *contentunderstanding.PollingTimeoutError
		switch {
		case errors.As(err, &failed):
			metrics.IncAnalysisFailed()
			metrics.ObservePollDurationMs(float64(elapsed.Milliseconds()))
		case errors.As(err, &timeout):
			metrics.IncAnalysisTimeout()
		}
		return Analysis{}, err
	}

	extracted, err := fields.Extract(result, fields.Declared...)
	if err != nil {
		return Analysis{}, err
	}

	metrics.IncAnalysisSucceeded()
	metrics.ObservePollDurationMs(float64(elapsed.Milliseconds()))

	return Analysis{
		ID:          uuid.NewString(),
		DocumentURL: documentURL,
		Fields:      extracted,
		Elapsed:     elapsed,
		CreatedAt:   start,
	}, nil
}

func (s *Service) clock() func() time.Time {
	if s.now != nil {
		return s.now
	}
	return time.Now
}
