// Package captions fetches timed caption tracks from the primary transcript
// source and writes them as timestamped text artifacts.
package captions

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript"
	"github.com/horiagug/youtube-transcript-api-go/pkg/yt_transcript_models"
)

type Kind string

const (
	// KindDisabled means the source reported that captions are turned off
	// for the video. The signal is textual: the upstream error message
	// carries a known substring rather than a structured code.
	KindDisabled Kind = "captions_disabled"
	// KindWrite means the fetch succeeded but the local file write failed.
	// Callers should still record that captions exist for the video.
	KindWrite Kind = "write_failure"
	KindOther Kind = "fetch_failure"
)

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindOther
}

// Line is one timed caption entry.
type Line struct {
	Text     string
	Start    float64
	Duration float64
}

type transcriptAPI interface {
	GetTranscripts(videoID string, languages []string) ([]yt_transcript_models.Transcript, error)
}

type Client struct {
	api transcriptAPI
}

func New() *Client {
	return &Client{api: yt_transcript.NewClient()}
}

// NewWithAPI wires a custom transcript backend; tests use it to fake the
// upstream service.
func NewWithAPI(api transcriptAPI) *Client {
	return &Client{api: api}
}

// defaultLanguages mirrors the source's own default track preference.
var defaultLanguages = []string{"en"}

// Fetch retrieves the caption track for a video. When preferredLang is set
// the matching track is tried first; any lookup failure there falls back
// silently to the default track, and only the default's failure is reported.
func (c *Client) Fetch(videoID, preferredLang string) ([]Line, error) {
	if lang := strings.TrimSpace(preferredLang); lang != "" {
		if lines, err := c.fetch(videoID, []string{lang}); err == nil {
			return lines, nil
		}
	}
	return c.fetch(videoID, defaultLanguages)
}

func (c *Client) fetch(videoID string, languages []string) ([]Line, error) {
	transcripts, err := c.api.GetTranscripts(videoID, languages)
	if err != nil {
		return nil, classify(err)
	}
	for _, tr := range transcripts {
		if len(tr.Lines) == 0 {
			continue
		}
		lines := make([]Line, 0, len(tr.Lines))
		for _, l := range tr.Lines {
			lines = append(lines, Line{Text: l.Text, Start: l.Start, Duration: l.Duration})
		}
		return lines, nil
	}
	return nil, &Error{Kind: KindOther, Err: fmt.Errorf("no transcript returned for video %s", videoID)}
}

// Download fetches the track and writes it one timestamped line per entry.
func (c *Client) Download(videoID, preferredLang, outputPath string) error {
	lines, err := c.Fetch(videoID, preferredLang)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(FormatLine(l))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return &Error{Kind: KindWrite, Err: fmt.Errorf("write transcript %s: %w", outputPath, err)}
	}
	return nil
}

func FormatLine(l Line) string {
	return fmt.Sprintf("[%.2fs - %.2fs] %s", l.Start, l.Start+l.Duration, l.Text)
}

var disabledHints = []string{
	"subtitles are disabled",
	"captions are disabled",
	"transcripts are disabled",
}

func classify(err error) error {
	text := strings.ToLower(err.Error())
	for _, h := range disabledHints {
		if strings.Contains(text, h) {
			return &Error{Kind: KindDisabled, Err: err}
		}
	}
	return &Error{Kind: KindOther, Err: err}
}
