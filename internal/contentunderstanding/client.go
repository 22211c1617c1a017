package contentunderstanding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cv-analyzer-backend/internal/shared/telemetry"
)

const defaultUserAgent = "cu-sample-code"

// Client talks to the content understanding REST API: one submission call
// per analysis, then fixed-cadence status polling against the operation
// location the service hands back.
type Client struct {
	endpoint   string
	apiVersion string
	cred       Credential
	userAgent  string
	httpClient *http.Client
	sleep      func(time.Duration)
	now        func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSleep overrides the blocking wait between polls. Tests inject a fake
// so polling runs without real delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) { c.sleep = sleep }
}

// WithClock overrides the time source used for the polling deadline.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New constructs a Client for the given service endpoint, wire contract
// revision, and credential.
func New(endpoint, apiVersion string, cred Credential, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if strings.TrimSpace(apiVersion) == "" {
		return nil, fmt.Errorf("api version is required")
	}
	if cred.IsZero() {
		return nil, fmt.Errorf("credential is required")
	}
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiVersion: apiVersion,
		cred:       cred,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sleep:      time.Sleep,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Job is the handle for a submitted analysis: the operation location URL to
// poll for status.
type Job struct {
	OperationLocation string
}

// Submit starts analysis of the given document against the given analyzer.
// The source is either an http(s) URL or a local file path; anything else is
// rejected before any network call. Remote rejection or transport failure
// surfaces as a SubmissionError carrying the upstream status and body.
func (c *Client) Submit(ctx context.Context, analyzerID, source string) (Job, error) {
	if strings.TrimSpace(analyzerID) == "" {
		return Job{}, fmt.Errorf("analyzer id is required")
	}

	var body []byte
	var contentType string
	switch {
	case fileExists(source):
		data, err := os.ReadFile(source)
		if err != nil {
			return Job{}, fmt.Errorf("read document %s: %w", source, err)
		}
		body = data
		contentType = "application/octet-stream"
	case strings.HasPrefix(source, "https://") || strings.HasPrefix(source, "http://"):
		data, err := json.Marshal(map[string]string{"url": source})
		if err != nil {
			return Job{}, err
		}
		body = data
		contentType = "application/json"
	default:
		return Job{}, fmt.Errorf("document source must be an existing file path or an http(s) URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.analyzeURL(analyzerID), bytes.NewReader(body))
	if err != nil {
		return Job{}, err
	}
	req.Header.Set("Content-Type", contentType)
	if err := c.setCommonHeaders(req.Header); err != nil {
		return Job{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Job{}, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Job{}, &SubmissionError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	opLocation := resp.Header.Get("Operation-Location")
	if opLocation == "" {
		return Job{}, &SubmissionError{Err: fmt.Errorf("operation-location header missing from response")}
	}

	telemetry.Info("analysis.submitted", map[string]any{
		"analyzer_id": analyzerID,
		"source":      source,
	})
	return Job{OperationLocation: opLocation}, nil
}

// PollResult queries the job status at a fixed cadence until it is terminal
// or the local timeout elapses. No backoff, no jitter: the service latency
// is bounded, so a fixed interval is enough. The timeout does not cancel
// the remote job.
func (c *Client) PollResult(ctx context.Context, job Job, timeout, interval time.Duration) (*Result, error) {
	if job.OperationLocation == "" {
		return nil, fmt.Errorf("job has no operation location")
	}

	start := c.now()
	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.now().Sub(start) > timeout {
			return nil, &PollingTimeoutError{Timeout: timeout, Attempts: attempts}
		}

		op, err := c.fetchOperation(ctx, job)
		attempts++
		if err != nil {
			return nil, err
		}

		switch strings.ToLower(op.Status) {
		case "succeeded":
			if op.Result == nil {
				return nil, fmt.Errorf("operation succeeded but carried no result payload")
			}
			telemetry.Info("analysis.succeeded", map[string]any{
				"elapsed_ms": c.now().Sub(start).Milliseconds(),
				"attempts":   attempts,
			})
			return op.Result, nil
		case "failed":
			failErr := &AnalysisFailedError{Detail: "analysis failed"}
			if op.Error != nil {
				failErr.Code = op.Error.Code
				failErr.Detail = op.Error.Message
			}
			return nil, failErr
		default:
			// notStarted or running; keep waiting.
			telemetry.Info("analysis.polling", map[string]any{
				"status":     op.Status,
				"elapsed_ms": c.now().Sub(start).Milliseconds(),
			})
		}

		c.sleep(interval)
	}
}

type operationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type operationResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Error  *operationError `json:"error,omitempty"`
	Result *Result         `json:"result,omitempty"`
}

func (c *Client) fetchOperation(ctx context.Context, job Job) (*operationResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.OperationLocation, nil)
	if err != nil {
		return nil, err
	}
	if err := c.setCommonHeaders(req.Header); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll operation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("poll operation: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var op operationResponse
	if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
		return nil, fmt.Errorf("poll operation: decode response: %w", err)
	}
	return &op, nil
}

func (c *Client) analyzeURL(analyzerID string) string {
	return fmt.Sprintf("%s/contentunderstanding/analyzers/%s:analyze?api-version=%s",
		c.endpoint, url.PathEscape(analyzerID), url.QueryEscape(c.apiVersion))
}

func (c *Client) setCommonHeaders(h http.Header) error {
	h.Set("x-ms-useragent", c.userAgent)
	return c.cred.apply(h)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
