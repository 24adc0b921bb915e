package cli

import (
	"os"
	"strings"
	"time"

	"yt-transcript-fetcher/internal/captions"
	"yt-transcript-fetcher/internal/config"
	"yt-transcript-fetcher/internal/supadata"
)

// baseURLEnvVar lets integration setups point the fallback client at a
// different endpoint; production uses the package default.
const baseURLEnvVar = "SUPADATA_BASE_URL"

func buildPrimary() *captions.Client {
	return captions.New()
}

func buildFallback(settings config.Settings) *supadata.Client {
	return &supadata.Client{
		APIKey:          strings.TrimSpace(os.Getenv(config.CredentialEnvVar)),
		BaseURL:         strings.TrimSpace(os.Getenv(baseURLEnvVar)),
		PollInterval:    time.Duration(settings.PollIntervalSeconds) * time.Second,
		MaxPollAttempts: settings.MaxPollAttempts,
	}
}
