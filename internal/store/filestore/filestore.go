// Package filestore implements store.Store over one JSON document per user
// per namespace. It is deliberately minimal: read-if-exists and
// write-whole-file, no locks, no partial updates. Cross-request
// coordination is the caller's concern.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"roadmap-backend/internal/model"
	"roadmap-backend/internal/store"
)

const (
	progressDir = "progress"
	notesDir    = "notes"
	historyDir  = "history"
	statsDir    = "stats"
)

// Store is an afero-backed flat-file store rooted at a data directory.
type Store struct {
	fs   afero.Fs
	root string
}

var _ store.Store = (*Store)(nil)

// New creates a Store rooted at dir on the given filesystem. Pass
// afero.NewOsFs() in production and afero.NewMemMapFs() in tests.
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, root: dir}
}

func (s *Store) Progress() store.Progress { return progressStore{s} }
func (s *Store) Notes() store.Notes       { return notesStore{s} }
func (s *Store) History() store.History   { return historyStore{s} }
func (s *Store) Stats() store.Stats       { return statsStore{s} }

// Ping verifies the data root is usable, creating it when absent.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return model.NewStorageError("ping", err)
	}
	return nil
}

func (s *Store) readJSON(path string, v interface{}) error {
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return model.NewStorageError("stat", err)
	}
	if !exists {
		return model.ErrNotFound
	}
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return model.NewStorageError("read", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return model.NewStorageError("decode", err)
	}
	return nil
}

func (s *Store) writeJSON(path string, v interface{}) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return model.NewStorageError("mkdir", err)
	}
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.NewStorageError("encode", err)
	}
	if err := afero.WriteFile(s.fs, path, raw, 0o644); err != nil {
		return model.NewStorageError("write", err)
	}
	return nil
}

type progressStore struct{ *Store }

func (p progressStore) path(userID string) string {
	return filepath.Join(p.root, progressDir, userID+".json")
}

func (p progressStore) Get(ctx context.Context, userID string) (*model.ProgressDocument, error) {
	var doc model.ProgressDocument
	if err := p.readJSON(p.path(userID), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (p progressStore) Put(ctx context.Context, doc *model.ProgressDocument) error {
	return p.writeJSON(p.path(doc.UserID), doc)
}

type notesStore struct{ *Store }

func (n notesStore) path(userID string) string {
	return filepath.Join(n.root, notesDir, userID+".json")
}

func (n notesStore) Get(ctx context.Context, userID string) (model.NoteSet, error) {
	var notes model.NoteSet
	if err := n.readJSON(n.path(userID), &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = model.NoteSet{}
	}
	return notes, nil
}

func (n notesStore) Put(ctx context.Context, userID string, notes model.NoteSet) error {
	return n.writeJSON(n.path(userID), notes)
}

type historyStore struct{ *Store }

func (h historyStore) dir(userID string) string {
	return filepath.Join(h.root, historyDir, userID)
}

// snapshotFileName derives a lexicographically sortable name from the
// snapshot timestamp. A short uuid suffix keeps two snapshots taken in the
// same instant from colliding.
func snapshotFileName(timestamp string) string {
	sortable := strings.NewReplacer(":", "-", ".", "-").Replace(timestamp)
	return fmt.Sprintf("snapshot-%s-%s.json", sortable, uuid.NewString()[:8])
}

func (h historyStore) Append(ctx context.Context, snap *model.HistorySnapshot) (string, error) {
	name := snapshotFileName(snap.Timestamp)
	if err := h.writeJSON(filepath.Join(h.dir(snap.UserID), name), snap); err != nil {
		return "", err
	}
	return name, nil
}

func (h historyStore) List(ctx context.Context, userID string, limit int) ([]*model.HistorySnapshot, error) {
	dir := h.dir(userID)
	exists, err := afero.DirExists(h.fs, dir)
	if err != nil {
		return nil, model.NewStorageError("stat", err)
	}
	if !exists {
		return []*model.HistorySnapshot{}, nil
	}
	entries, err := afero.ReadDir(h.fs, dir)
	if err != nil {
		return nil, model.NewStorageError("readdir", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	// Newest first: file names sort chronologically by construction.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	out := make([]*model.HistorySnapshot, 0, len(names))
	for _, name := range names {
		var snap model.HistorySnapshot
		if err := h.readJSON(filepath.Join(dir, name), &snap); err != nil {
			return nil, err
		}
		out = append(out, &snap)
	}
	return out, nil
}

type statsStore struct{ *Store }

func (st statsStore) path(userID string) string {
	return filepath.Join(st.root, statsDir, userID+"-stats.json")
}

func (st statsStore) Get(ctx context.Context, userID string) (*model.StatsDocument, error) {
	var doc model.StatsDocument
	if err := st.readJSON(st.path(userID), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (st statsStore) Put(ctx context.Context, doc *model.StatsDocument) error {
	return st.writeJSON(st.path(doc.UserID), doc)
}
