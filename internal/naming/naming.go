// Package naming derives deterministic, filesystem-safe output filenames
// from a video's published date, creator name, and id.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidDate = fmt.Errorf("invalid date")

var datePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// FormatDate converts a MM-DD-YYYY date to MMDDYYYY. Calendar-invalid
// values (month 13, February 30th) are rejected, not normalized.
func FormatDate(published string) (string, error) {
	if !datePattern.MatchString(published) {
		return "", fmt.Errorf("%w: %q does not match MM-DD-YYYY", ErrInvalidDate, published)
	}
	parsed, err := time.Parse("01-02-2006", published)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a valid calendar date", ErrInvalidDate, published)
	}
	return parsed.Format("01022006"), nil
}

// SanitizeCreator makes a creator name safe to embed in a filename:
// leading/trailing spaces and periods are trimmed, interior spaces become
// underscores, characters illegal on common filesystems are stripped, and
// an empty result falls back to "Unknown". Non-ASCII text passes through
// untouched.
func SanitizeCreator(name string) string {
	name = strings.Trim(name, ". ")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return -1
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
	name = strings.Trim(name, "._")
	if name == "" {
		return "Unknown"
	}
	return name
}

// Filename yields {MMDDYYYY}_{creator}_{videoID}.txt.
func Filename(published, creator, videoID string) (string, error) {
	date, err := FormatDate(published)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s_%s.txt", date, SanitizeCreator(creator), videoID), nil
}
