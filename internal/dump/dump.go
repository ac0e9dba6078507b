// Package dump is the durable queue of raw payloads whose writes
// failed. Each entry is one JSON file keyed by entity id; retry
// consumes and removes entries.
package dump

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/lmdiaz/escena/internal/spotify"
)

// Queue is the failure-dump store. The directory implementation is
// what production uses; tests swap in an in-memory one.
type Queue interface {
	Save(data *spotify.ArtistData) error
	List() ([]string, error)
	Load(artistID string) (*spotify.ArtistData, error)
	Remove(artistID string) error
}

const prefix = "push_error_dump_"

// Dir is a Queue backed by a directory of JSON files.
type Dir struct {
	path string
}

func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating dump dir: %w", err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) file(artistID string) string {
	return filepath.Join(d.path, prefix+artistID+".json")
}

func (d *Dir) Save(data *spotify.ArtistData) error {
	if data.ArtistID == "" {
		return fmt.Errorf("dump without artist id")
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dump for %q: %w", data.ArtistID, err)
	}
	if err := os.WriteFile(d.file(data.ArtistID), raw, 0o644); err != nil {
		return fmt.Errorf("writing dump for %q: %w", data.ArtistID, err)
	}
	return nil
}

// List returns the entity ids with a pending dump.
func (d *Dir) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(d.path, prefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("listing dumps: %w", err)
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		name := filepath.Base(m)
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json"))
	}
	return ids, nil
}

func (d *Dir) Load(artistID string) (*spotify.ArtistData, error) {
	raw, err := os.ReadFile(d.file(artistID))
	if err != nil {
		return nil, fmt.Errorf("reading dump for %q: %w", artistID, err)
	}
	var data spotify.ArtistData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding dump for %q: %w", artistID, err)
	}
	return &data, nil
}

func (d *Dir) Remove(artistID string) error {
	if err := os.Remove(d.file(artistID)); err != nil {
		return fmt.Errorf("removing dump for %q: %w", artistID, err)
	}
	return nil
}
