// Package catalog persists the catalogue document: the single source of
// truth for per-video transcript status flags.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"yt-transcript-fetcher/internal/model"
)

const DefaultPath = "content_resources.json"

// ErrParse marks a catalogue file that exists but cannot be decoded.
// A missing file surfaces as os.ErrNotExist instead.
var ErrParse = errors.New("catalogue parse error")

func Load(path string) (model.Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.Catalogue{}, fmt.Errorf("catalogue %s: %w", path, os.ErrNotExist)
		}
		return model.Catalogue{}, fmt.Errorf("read catalogue %s: %w", path, err)
	}
	var cat model.Catalogue
	if err := json.Unmarshal(data, &cat); err != nil {
		return model.Catalogue{}, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	return cat, nil
}

// Save overwrites the catalogue through a temp file and rename so an
// interrupted write never corrupts the previous ledger. Non-ASCII text is
// written verbatim and the output keeps a stable 4-space indent so saves
// stay human-diffable.
func Save(cat model.Catalogue, path string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(cat); err != nil {
		return fmt.Errorf("marshal catalogue for %s: %w", path, err)
	}
	return WriteBytes(path, buf.Bytes())
}

func WriteBytes(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".ytf-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("atomic rename for %s: %w", path, err)
	}
	return nil
}

func Mkdir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}
