package contentunderstanding_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	cu "cv-analyzer-backend/internal/contentunderstanding"
)

// fakeService scripts the remote analysis API: one analyze route handing
// back an operation location, and an operation route replaying statuses in
// order (the last one repeats).
type fakeService struct {
	mu            sync.Mutex
	submitCalls   int
	pollCalls     int
	statuses      []string
	submitStatus  int
	submitBody    string
	omitOperation bool
	lastSubmit    *http.Request
	lastSubmitRaw string
	srv           *httptest.Server
}

func newFakeService(t *testing.T, statuses ...string) *fakeService {
	t.Helper()
	f := &fakeService{statuses: statuses, submitStatus: http.StatusAccepted}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /contentunderstanding/analyzers/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.submitCalls++
		f.lastSubmit = r.Clone(context.Background())
		raw, _ := io.ReadAll(r.Body)
		f.lastSubmitRaw = string(raw)
		if !f.omitOperation {
			w.Header().Set("Operation-Location", f.srv.URL+"/operations/op-1")
		}
		if f.submitStatus >= 400 {
			http.Error(w, f.submitBody, f.submitStatus)
			return
		}
		w.WriteHeader(f.submitStatus)
	})
	mux.HandleFunc("GET /operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		idx := f.pollCalls
		if idx >= len(f.statuses) {
			idx = len(f.statuses) - 1
		}
		f.pollCalls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, f.statuses[idx])
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeService) polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pollCalls
}

const succeededPayload = `{
	"id": "op-1",
	"status": "succeeded",
	"result": {
		"contents": [{
			"fields": {
				"education": {"type": "string", "valueString": "MSc Computer Science", "confidence": 0.93},
				"language": {"type": "string", "valueString": "English, German", "confidence": 0.0},
				"work_skills": {"type": "string", "valueString": "Go, SQL", "confidence": 0.88}
			}
		}]
	}
}`

const runningPayload = `{"id": "op-1", "status": "running"}`

func newTestClient(t *testing.T, f *fakeService, opts ...cu.Option) *cu.Client {
	t.Helper()
	base := []cu.Option{cu.WithSleep(func(time.Duration) {})}
	client, err := cu.New(f.srv.URL, "2024-12-01-preview", cu.SubscriptionKey("key-123"), append(base, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestSubmitSendsURLPayload(t *testing.T) {
	f := newFakeService(t, succeededPayload)
	client := newTestClient(t, f)

	job, err := client.Submit(context.Background(), "cv-analyzer", "https://example.com/cv.pdf")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if job.OperationLocation == "" {
		t.Fatalf("expected operation location")
	}

	if got := f.lastSubmit.Header.Get("Ocp-Apim-Subscription-Key"); got != "key-123" {
		t.Fatalf("expected subscription key header, got %q", got)
	}
	if got := f.lastSubmit.Header.Get("x-ms-useragent"); got == "" {
		t.Fatalf("expected x-ms-useragent header")
	}
	if got := f.lastSubmit.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected JSON content type, got %q", got)
	}
	if !strings.Contains(f.lastSubmitRaw, `"url":"https://example.com/cv.pdf"`) {
		t.Fatalf("expected url payload, got %q", f.lastSubmitRaw)
	}
}

func TestSubmitSendsAADBearerToken(t *testing.T) {
	f := newFakeService(t, succeededPayload)
	client, err := cu.New(f.srv.URL, "2024-12-01-preview", cu.AADToken("token-456"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.Submit(context.Background(), "cv-analyzer", "https://example.com/cv.pdf"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := f.lastSubmit.Header.Get("Authorization"); got != "Bearer token-456" {
		t.Fatalf("expected bearer token header, got %q", got)
	}
}

func TestSubmitLocalFile(t *testing.T) {
	f := newFakeService(t, succeededPayload)
	client := newTestClient(t, f)

	path := filepath.Join(t.TempDir(), "cv.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := client.Submit(context.Background(), "cv-analyzer", path); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := f.lastSubmit.Header.Get("Content-Type"); got != "application/octet-stream" {
		t.Fatalf("expected octet-stream content type, got %q", got)
	}
	if f.lastSubmitRaw != "%PDF-1.4 fake" {
		t.Fatalf("expected file bytes, got %q", f.lastSubmitRaw)
	}
}

func TestSubmitRejectsBadSource(t *testing.T) {
	f := newFakeService(t, succeededPayload)
	client := newTestClient(t, f)

	_, err := client.Submit(context.Background(), "cv-analyzer", "ftp://example.com/cv.pdf")
	if err == nil {
		t.Fatalf("expected error for unsupported source")
	}
	if f.submitCalls != 0 {
		t.Fatalf("expected zero submit calls, got %d", f.submitCalls)
	}
}

func TestSubmitRejectedByRemote(t *testing.T) {
	f := newFakeService(t, succeededPayload)
	f.submitStatus = http.StatusForbidden
	f.submitBody = "invalid subscription key"
	client := newTestClient(t, f)

	_, err := client.Submit(context.Background(), "cv-analyzer", "https://example.com/cv.pdf")
	var subErr *cu.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %T: %v", err, err)
	}
	if subErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", subErr.StatusCode)
	}
	if !strings.Contains(subErr.Body, "invalid subscription key") {
		t.Fatalf("expected upstream body in error, got %q", subErr.Body)
	}
}

func TestSubmitTransportFailure(t *testing.T) {
	f := newFakeService(t, succeededPayload)
	client := newTestClient(t, f)
	f.srv.Close()

	_, err := client.Submit(context.Background(), "cv-analyzer", "https://example.com/cv.pdf")
	var subErr *cu.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %T: %v", err, err)
	}
	if subErr.StatusCode != 0 {
		t.Fatalf("expected no status code on transport failure, got %d", subErr.StatusCode)
	}
}

func TestSubmitMissingOperationLocation(t *testing.T) {
	f := newFakeService(t, succeededPayload)
	f.omitOperation = true
	client := newTestClient(t, f)

	_, err := client.Submit(context.Background(), "cv-analyzer", "https://example.com/cv.pdf")
	var subErr *cu.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "operation-location") {
		t.Fatalf("expected operation-location in message, got %q", err.Error())
	}
}

func TestPollResultImmediateSuccess(t *testing.T) {
	f := newFakeService(t, succeededPayload)
	client := newTestClient(t, f)

	job, err := client.Submit(context.Background(), "cv-analyzer", "https://example.com/cv.pdf")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	result, err := client.PollResult(context.Background(), job, 5*time.Second, time.Second)
	if err != nil {
		t.Fatalf("poll: %v", err)
	}

	payload := result.Contents[0].Fields
	if len(payload) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(payload))
	}
	if payload["education"].ValueString != "MSc Computer Science" {
		t.Fatalf("unexpected education value %q", payload["education"].ValueString)
	}
	// Confidence comes through untouched; a reported 0.0 is still a value.
	if payload["education"].Confidence == nil || *payload["education"].Confidence != 0.93 {
		t.Fatalf("unexpected education confidence %v", payload["education"].Confidence)
	}
	if payload["language"].Confidence == nil || *payload["language"].Confidence != 0.0 {
		t.Fatalf("expected zero confidence passthrough, got %v", payload["language"].Confidence)
	}
}

func TestPollResultRunsThenSucceeds(t *testing.T) {
	f := newFakeService(t, runningPayload, runningPayload, succeededPayload)
	var slept []time.Duration
	client := newTestClient(t, f, cu.WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	job, err := client.Submit(context.Background(), "cv-analyzer", "https://example.com/cv.pdf")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := client.PollResult(context.Background(), job, 30*time.Second, 2*time.Second); err != nil {
		t.Fatalf("poll: %v", err)
	}

	if f.polls() != 3 {
		t.Fatalf("expected 3 status requests, got %d", f.polls())
	}
	if len(slept) != 2 || slept[0] != 2*time.Second {
		t.Fatalf("expected two fixed-interval waits, got %v", slept)
	}
}

func TestPollResultFailed(t *testing.T) {
	f := newFakeService(t, `{"id":"op-1","status":"failed","error":{"code":"InvalidDocument","message":"document unreadable"}}`)
	client := newTestClient(t, f)

	job, err := client.Submit(context.Background(), "cv-analyzer", "https://example.com/cv.pdf")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err = client.PollResult(context.Background(), job, 5*time.Second, time.Second)
	var failErr *cu.AnalysisFailedError
	if !errors.As(err, &failErr) {
		t.Fatalf("expected AnalysisFailedError, got %T: %v", err, err)
	}
	if !strings.Contains(failErr.Detail, "document unreadable") {
		t.Fatalf("expected upstream detail, got %q", failErr.Detail)
	}
}

func TestPollResultTimeout(t *testing.T) {
	f := newFakeService(t, runningPayload)

	// Fake time: every interval sleep advances the clock, so the test runs
	// instantly while the deadline math sees real elapsed seconds.
	current := time.Unix(0, 0)
	client := newTestClient(t, f,
		cu.WithClock(func() time.Time { return current }),
		cu.WithSleep(func(d time.Duration) { current = current.Add(d) }),
	)

	job, err := client.Submit(context.Background(), "cv-analyzer", "https://example.com/cv.pdf")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err = client.PollResult(context.Background(), job, 5*time.Second, time.Second)
	var timeoutErr *cu.PollingTimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected PollingTimeoutError, got %T: %v", err, err)
	}
	if f.polls() > 6 {
		t.Fatalf("expected at most 6 status requests, got %d", f.polls())
	}
	if timeoutErr.Attempts != f.polls() {
		t.Fatalf("attempts %d does not match status requests %d", timeoutErr.Attempts, f.polls())
	}
	if timeoutErr.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout %s", timeoutErr.Timeout)
	}
}

func TestPollResultContextCanceled(t *testing.T) {
	f := newFakeService(t, runningPayload)
	client := newTestClient(t, f)

	job, err := client.Submit(context.Background(), "cv-analyzer", "https://example.com/cv.pdf")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := client.PollResult(ctx, job, 5*time.Second, time.Second); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
