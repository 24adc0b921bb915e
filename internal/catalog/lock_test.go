package catalog

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAcquireLock_SecondAcquireFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content_resources.json")

	lock, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	_, err = AcquireLock(path)
	if err == nil {
		t.Fatal("expected second acquire to fail")
	}
	if !strings.Contains(err.Error(), "locked") {
		t.Fatalf("expected lock error, got %v", err)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	relock, err := AcquireLock(path)
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	_ = relock.Release()
}
