package supadata

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(server *httptest.Server) *Client {
	return &Client{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		HTTPClient:   server.Client(),
		PollInterval: time.Millisecond,
	}
}

func TestTranscript_MissingCredential(t *testing.T) {
	c := &Client{}
	_, err := c.Transcript("vid-1", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindMissingCredential {
		t.Fatalf("expected KindMissingCredential, got %q", KindOf(err))
	}
}

func TestTranscript_ImmediateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		q := r.URL.Query()
		if q.Get("url") != "https://www.youtube.com/watch?v=vid-1" {
			t.Errorf("unexpected url param %q", q.Get("url"))
		}
		if q.Get("lang") != "zh" {
			t.Errorf("unexpected lang param %q", q.Get("lang"))
		}
		fmt.Fprint(w, "transcript 文本 body")
	}))
	defer server.Close()

	text, err := testClient(server).Transcript("vid-1", "zh")
	if err != nil {
		t.Fatalf("transcript failed: %v", err)
	}
	if text != "transcript 文本 body" {
		t.Fatalf("unexpected transcript %q", text)
	}
}

func TestTranscript_EmptyBodyIsEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "   \n\t ")
	}))
	defer server.Close()

	_, err := testClient(server).Transcript("vid-1", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindEmptyResponse {
		t.Fatalf("expected KindEmptyResponse, got %q", KindOf(err))
	}
}

func TestTranscript_QueuedWithoutJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"message":"queued"}`)
	}))
	defer server.Close()

	_, err := testClient(server).Transcript("vid-1", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindMalformedQueue {
		t.Fatalf("expected KindMalformedQueue, got %q", KindOf(err))
	}
}

func TestTranscript_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "invalid key")
	}))
	defer server.Close()

	_, err := testClient(server).Transcript("vid-1", "")
	if err == nil {
		t.Fatal("expected error")
	}
	var se *Error
	if KindOf(err) != KindUpstream {
		t.Fatalf("expected KindUpstream, got %q", KindOf(err))
	}
	if ok := errors.As(err, &se); !ok || se.Status != http.StatusForbidden {
		t.Fatalf("expected status 403 carried on error, got %#v", se)
	}
}

func TestTranscript_QueuedThenCompletedText(t *testing.T) {
	var polls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/transcript" {
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprint(w, `{"jobId":"job-7"}`)
			return
		}
		if r.URL.Path != "/transcript/job-7" {
			t.Errorf("unexpected poll path %q", r.URL.Path)
		}
		switch polls.Add(1) {
		case 1:
			fmt.Fprint(w, `{"status":"queued"}`)
		case 2:
			fmt.Fprint(w, `{"status":"active"}`)
		default:
			fmt.Fprint(w, `{"status":"completed","content":"Final transcript content from job."}`)
		}
	}))
	defer server.Close()

	text, err := testClient(server).Transcript("vid-1", "")
	if err != nil {
		t.Fatalf("transcript failed: %v", err)
	}
	if text != "Final transcript content from job." {
		t.Fatalf("unexpected transcript %q", text)
	}
}

func TestTranscript_CompletedSegmentsJoinOnePerLine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/transcript" {
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprint(w, `{"jobId":"job-1"}`)
			return
		}
		fmt.Fprint(w, `{"status":"completed","content":[{"text":"first"},{"text":"second"},{"text":"第三"}]}`)
	}))
	defer server.Close()

	text, err := testClient(server).Transcript("vid-1", "")
	if err != nil {
		t.Fatalf("transcript failed: %v", err)
	}
	if text != "first\nsecond\n第三\n" {
		t.Fatalf("unexpected joined segments %q", text)
	}
}

func TestTranscript_CompletedWithoutContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/transcript" {
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprint(w, `{"jobId":"job-1"}`)
			return
		}
		fmt.Fprint(w, `{"status":"completed"}`)
	}))
	defer server.Close()

	_, err := testClient(server).Transcript("vid-1", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindEmptyCompletedJob {
		t.Fatalf("expected KindEmptyCompletedJob, got %q", KindOf(err))
	}
}

func TestTranscript_JobFailedStopsPolling(t *testing.T) {
	var polls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/transcript" {
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprint(w, `{"jobId":"job-1"}`)
			return
		}
		polls.Add(1)
		fmt.Fprint(w, `{"status":"failed"}`)
	}))
	defer server.Close()

	_, err := testClient(server).Transcript("vid-1", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindJobFailed {
		t.Fatalf("expected KindJobFailed, got %q", KindOf(err))
	}
	if polls.Load() != 1 {
		t.Fatalf("expected polling to stop after failure, got %d polls", polls.Load())
	}
}

func TestTranscript_TimesOutAfterMaxAttempts(t *testing.T) {
	var polls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/transcript" {
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprint(w, `{"jobId":"job-1"}`)
			return
		}
		polls.Add(1)
		fmt.Fprint(w, `{"status":"queued"}`)
	}))
	defer server.Close()

	_, err := testClient(server).Transcript("vid-1", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindJobTimeout {
		t.Fatalf("expected KindJobTimeout, got %q", KindOf(err))
	}
	if polls.Load() != defaultMaxPollAttempts {
		t.Fatalf("expected exactly %d status checks, got %d", defaultMaxPollAttempts, polls.Load())
	}
}

func TestTranscript_Non200PollConsumesAttempt(t *testing.T) {
	var polls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/transcript" {
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprint(w, `{"jobId":"job-1"}`)
			return
		}
		switch polls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusBadGateway)
		default:
			fmt.Fprint(w, `{"status":"completed","content":"done"}`)
		}
	}))
	defer server.Close()

	c := testClient(server)
	c.MaxPollAttempts = 2
	text, err := c.Transcript("vid-1", "")
	if err != nil {
		t.Fatalf("transcript failed: %v", err)
	}
	if text != "done" {
		t.Fatalf("unexpected transcript %q", text)
	}
	if polls.Load() != 2 {
		t.Fatalf("expected 2 status checks, got %d", polls.Load())
	}
}

func TestDownload_WriteFailureIsDistinct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "transcript body")
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "missing-dir", "out.txt")
	err := testClient(server).Download("vid-1", "", path)
	if err == nil {
		t.Fatal("expected write failure")
	}
	if KindOf(err) != KindWrite {
		t.Fatalf("expected KindWrite, got %q", KindOf(err))
	}
}

func TestDownload_WritesTranscript(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "transcript body\n")
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := testClient(server).Download("vid-1", "", path); err != nil {
		t.Fatalf("download failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "transcript body\n" {
		t.Fatalf("unexpected artifact %q", string(data))
	}
}
