package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	lockDirSuffix = ".lock"
	lockOwnerFile = "owner.json"
)

// Lock guards a catalogue file against concurrent runs. The catalogue is
// mutated and persisted by exactly one process at a time; a second
// invocation fails fast instead of interleaving saves.
type Lock struct {
	lockDir string
}

type lockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

func AcquireLock(cataloguePath string) (Lock, error) {
	target := strings.TrimSpace(cataloguePath)
	if target == "" {
		return Lock{}, fmt.Errorf("catalogue path is required")
	}

	lockDir := target + lockDirSuffix
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if os.IsExist(err) {
			ownerPath := filepath.Join(lockDir, lockOwnerFile)
			var owner lockOwner
			if data, readErr := os.ReadFile(ownerPath); readErr == nil {
				if json.Unmarshal(data, &owner) == nil && owner.PID > 0 && owner.CreatedAt != "" {
					return Lock{}, fmt.Errorf(
						"catalogue is locked: %s (pid=%d created_at=%s host=%s)",
						target, owner.PID, owner.CreatedAt, owner.Hostname,
					)
				}
			}
			return Lock{}, fmt.Errorf("catalogue is locked: %s", target)
		}
		return Lock{}, fmt.Errorf("acquire catalogue lock for %s: %w", target, err)
	}

	owner := lockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	data, err := json.MarshalIndent(owner, "", "  ")
	if err != nil {
		_ = os.Remove(lockDir)
		return Lock{}, fmt.Errorf("marshal lock owner for %s: %w", target, err)
	}
	ownerPath := filepath.Join(lockDir, lockOwnerFile)
	if err := os.WriteFile(ownerPath, append(data, '\n'), 0o644); err != nil {
		_ = os.Remove(lockDir)
		return Lock{}, fmt.Errorf("write lock owner for %s: %w", target, err)
	}

	return Lock{lockDir: lockDir}, nil
}

func (l Lock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, lockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release catalogue lock %s: %w", l.lockDir, err)
	}
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
