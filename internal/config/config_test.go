package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRead_MissingFileYieldsDefaults(t *testing.T) {
	s, err := Read(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if s.OutputDir != DefaultOutputDir {
		t.Fatalf("expected default output dir, got %q", s.OutputDir)
	}
	if s.PollIntervalSeconds != DefaultPollIntervalSeconds || s.MaxPollAttempts != DefaultMaxPollAttempts {
		t.Fatalf("expected default poll tuning, got %+v", s)
	}
}

func TestEnsure_CreatesFileOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "settings.json")

	_, created, err := Ensure(path)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if !created {
		t.Fatal("expected settings file to be created")
	}

	_, created, err = Ensure(path)
	if err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}
	if created {
		t.Fatal("expected existing settings file to be reused")
	}
}

func TestUpdate_RoundTripsAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	updated, err := Update(path, Settings{
		OutputDir:           "out",
		DefaultLang:         "zh",
		PollIntervalSeconds: -5,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.PollIntervalSeconds != DefaultPollIntervalSeconds {
		t.Fatalf("expected negative poll interval to normalize, got %d", updated.PollIntervalSeconds)
	}
	if updated.UpdatedAt == "" {
		t.Fatal("expected updated_at to be stamped")
	}

	back, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.OutputDir != "out" || back.DefaultLang != "zh" {
		t.Fatalf("unexpected settings after round trip: %+v", back)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected settings file on disk: %v", err)
	}
}
