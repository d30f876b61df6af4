package client

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/afero"

	"roadmap-backend/internal/model"
)

// cachedState is the offline-first local copy of a sync session, persisted
// so a restarted session resumes from where the last one left off instead
// of the bundled default.
type cachedState struct {
	Data           model.Roadmap `json:"data"`
	LocalTimestamp string        `json:"localTimestamp"`
	LastSyncTime   string        `json:"lastSyncTime"`
}

// stateCache reads and writes the session cache file. Losing the file is
// harmless: the session reseeds from the default roadmap and the server
// remains authoritative.
type stateCache struct {
	fs   afero.Fs
	path string
}

func newStateCache(fs afero.Fs, path string) *stateCache {
	return &stateCache{fs: fs, path: path}
}

// load returns the cached state, or nil when no cache exists or it cannot
// be parsed.
func (c *stateCache) load() *cachedState {
	if c.path == "" {
		return nil
	}
	raw, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		return nil
	}
	var st cachedState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil
	}
	return &st
}

// save writes the cache file, best effort. A failed write only costs the
// offline copy; sync state still lives in memory.
func (c *stateCache) save(st *cachedState) error {
	if c.path == "" {
		return nil
	}
	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(c.fs, c.path, raw, 0o644)
}
