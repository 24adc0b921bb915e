// Package supadata fetches transcripts from the secondary transcript
// service. Requests either return the transcript immediately or queue an
// asynchronous job that is polled until a terminal state.
package supadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.supadata.ai/v1"

	defaultRequestTimeout  = 30 * time.Second
	defaultPollInterval    = 3 * time.Second
	defaultMaxPollAttempts = 30
)

type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindNetwork           Kind = "network_error"
	KindEmptyResponse     Kind = "empty_response"
	KindMalformedQueue    Kind = "malformed_queue_response"
	KindUpstream          Kind = "upstream_error"
	KindEmptyCompletedJob Kind = "empty_completed_job"
	KindJobFailed         Kind = "job_failed"
	KindJobTimeout        Kind = "job_timeout"
	// KindWrite means the transcript was fetched but the local file write
	// failed; reported distinctly from fetch errors.
	KindWrite Kind = "write_failure"
)

type Error struct {
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		msg = fmt.Sprintf("%s: %s", msg, truncate(body, 300))
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUpstream
}

// Client talks to the transcript API. Zero-value fields fall back to the
// production defaults, so tests can point BaseURL at a local server and
// shrink the poll interval.
type Client struct {
	APIKey          string
	BaseURL         string
	HTTPClient      *http.Client
	PollInterval    time.Duration
	MaxPollAttempts int
}

func New(apiKey string) *Client {
	return &Client{APIKey: apiKey}
}

// Transcript fetches the transcript text for a video, following the queued
// job path when the service responds with 202.
func (c *Client) Transcript(videoID, preferredLang string) (string, error) {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return "", &Error{Kind: KindMissingCredential, Err: errors.New("SUPADATA_API_KEY is not set")}
	}

	q := url.Values{}
	q.Set("url", "https://www.youtube.com/watch?v="+videoID)
	q.Set("text", "true")
	if lang := strings.TrimSpace(preferredLang); lang != "" {
		q.Set("lang", lang)
	}
	endpoint := c.baseURL() + "/transcript?" + q.Encode()

	status, body, err := c.get(endpoint, key)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Err: err}
	}

	switch status {
	case http.StatusOK:
		if strings.TrimSpace(body) == "" {
			return "", &Error{Kind: KindEmptyResponse, Err: fmt.Errorf("empty transcript for video %s", videoID)}
		}
		return body, nil
	case http.StatusAccepted:
		var queued struct {
			JobID string `json:"jobId"`
		}
		if err := json.Unmarshal([]byte(body), &queued); err != nil || strings.TrimSpace(queued.JobID) == "" {
			return "", &Error{Kind: KindMalformedQueue, Body: body, Err: errors.New("202 response without jobId")}
		}
		return c.pollJob(queued.JobID, key)
	default:
		return "", &Error{Kind: KindUpstream, Status: status, Body: body}
	}
}

// pollJob checks job status every PollInterval for up to MaxPollAttempts.
// Non-200 poll responses are transient but still consume an attempt slot.
func (c *Client) pollJob(jobID, key string) (string, error) {
	endpoint := c.baseURL() + "/transcript/" + url.PathEscape(jobID)
	attempts := c.maxPollAttempts()

	for attempt := 0; attempt < attempts; attempt++ {
		time.Sleep(c.pollInterval())

		status, body, err := c.get(endpoint, key)
		if err != nil {
			return "", &Error{Kind: KindNetwork, Err: fmt.Errorf("poll job %s: %w", jobID, err)}
		}
		if status != http.StatusOK {
			continue
		}

		var job struct {
			Status  string          `json:"status"`
			Content json.RawMessage `json:"content"`
		}
		if err := json.Unmarshal([]byte(body), &job); err != nil {
			return "", &Error{Kind: KindUpstream, Status: status, Body: body, Err: fmt.Errorf("decode job status: %w", err)}
		}

		switch job.Status {
		case "completed":
			return extractContent(jobID, job.Content)
		case "failed":
			return "", &Error{Kind: KindJobFailed, Err: fmt.Errorf("job %s failed", jobID)}
		}
		// "queued" and "active" keep polling.
	}
	return "", &Error{Kind: KindJobTimeout, Err: fmt.Errorf("job %s not terminal after %d attempts", jobID, attempts)}
}

// extractContent handles both delivery forms of a completed job: a plain
// text blob, or an ordered list of {text} segments joined one per line.
func extractContent(jobID string, raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", &Error{Kind: KindEmptyCompletedJob, Err: fmt.Errorf("job %s completed without content", jobID)}
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		if strings.TrimSpace(text) == "" {
			return "", &Error{Kind: KindEmptyCompletedJob, Err: fmt.Errorf("job %s completed with empty content", jobID)}
		}
		return text, nil
	}

	var segments []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &segments); err == nil {
		if len(segments) == 0 {
			return "", &Error{Kind: KindEmptyCompletedJob, Err: fmt.Errorf("job %s completed with no segments", jobID)}
		}
		var b strings.Builder
		for _, s := range segments {
			b.WriteString(s.Text)
			b.WriteByte('\n')
		}
		return b.String(), nil
	}

	return "", &Error{Kind: KindUpstream, Body: string(raw), Err: fmt.Errorf("job %s: unexpected content type", jobID)}
}

// Download fetches the transcript and writes it to outputPath.
func (c *Client) Download(videoID, preferredLang, outputPath string) error {
	text, err := c.Transcript(videoID, preferredLang)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, []byte(text), 0o644); err != nil {
		return &Error{Kind: KindWrite, Err: fmt.Errorf("write transcript %s: %w", outputPath, err)}
	}
	return nil
}

func (c *Client) get(endpoint, key string) (int, string, error) {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("x-api-key", key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", err
	}
	return resp.StatusCode, string(body), nil
}

func (c *Client) baseURL() string {
	if v := strings.TrimSpace(c.BaseURL); v != "" {
		return strings.TrimSuffix(v, "/")
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: defaultRequestTimeout}
}

func (c *Client) pollInterval() time.Duration {
	if c.PollInterval > 0 {
		return c.PollInterval
	}
	return defaultPollInterval
}

func (c *Client) maxPollAttempts() int {
	if c.MaxPollAttempts > 0 {
		return c.MaxPollAttempts
	}
	return defaultMaxPollAttempts
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
