// Package config holds the workspace settings file: defaults for the
// catalogue path, output directory, and secondary-source poll tuning.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"yt-transcript-fetcher/internal/catalog"
)

const (
	DefaultPath = "config/settings.json"

	DefaultOutputDir           = "transcripts"
	DefaultPollIntervalSeconds = 3
	DefaultMaxPollAttempts     = 30
)

type Settings struct {
	CataloguePath       string `json:"catalogue_path,omitempty"`
	OutputDir           string `json:"output_dir,omitempty"`
	DefaultLang         string `json:"default_lang,omitempty"`
	PollIntervalSeconds int    `json:"poll_interval_seconds,omitempty"`
	MaxPollAttempts     int    `json:"max_poll_attempts,omitempty"`
	UpdatedAt           string `json:"updated_at,omitempty"`
}

func defaultSettings() Settings {
	return Settings{
		CataloguePath:       catalog.DefaultPath,
		OutputDir:           DefaultOutputDir,
		PollIntervalSeconds: DefaultPollIntervalSeconds,
		MaxPollAttempts:     DefaultMaxPollAttempts,
	}
}

func normalize(raw Settings) Settings {
	norm := raw
	if strings.TrimSpace(norm.CataloguePath) == "" {
		norm.CataloguePath = catalog.DefaultPath
	}
	if strings.TrimSpace(norm.OutputDir) == "" {
		norm.OutputDir = DefaultOutputDir
	}
	if norm.PollIntervalSeconds <= 0 {
		norm.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if norm.MaxPollAttempts <= 0 {
		norm.MaxPollAttempts = DefaultMaxPollAttempts
	}
	return norm
}

// Read loads settings from path, falling back to defaults when the file
// does not exist.
func Read(path string) (Settings, error) {
	p := normalizePath(path)
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return defaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("read settings %s: %w", p, err)
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", p, err)
	}
	return normalize(s), nil
}

// Ensure reads the settings file, creating it with defaults when missing.
func Ensure(path string) (Settings, bool, error) {
	p := normalizePath(path)
	if _, err := os.Stat(p); err == nil {
		s, readErr := Read(p)
		return s, false, readErr
	} else if !os.IsNotExist(err) {
		return Settings{}, false, fmt.Errorf("stat settings %s: %w", p, err)
	}
	s := defaultSettings()
	if err := save(p, s); err != nil {
		return Settings{}, false, err
	}
	return s, true, nil
}

func Update(path string, s Settings) (Settings, error) {
	p := normalizePath(path)
	norm := normalize(s)
	norm.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := save(p, norm); err != nil {
		return Settings{}, err
	}
	return norm, nil
}

func save(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings for %s: %w", path, err)
	}
	return catalog.WriteBytes(path, append(data, '\n'))
}

func normalizePath(path string) string {
	if v := strings.TrimSpace(path); v != "" {
		return v
	}
	return DefaultPath
}
