package store

import (
	"context"

	"roadmap-backend/internal/model"
)

// Store exposes the per-user flat-file namespaces required by services.
// Every document is read and written whole; implementations provide no
// locking, so the push path's read-then-write has a documented race window
// between two sessions of the same user. Implementations live under
// internal/store/<driver>/ (e.g. filestore).
type Store interface {
	Progress() Progress
	Notes() Notes
	History() History
	Stats() Stats
}

// Progress persists the live roadmap-state document, one per user.
type Progress interface {
	// Get returns model.ErrNotFound when the user has no document yet.
	Get(ctx context.Context, userID string) (*model.ProgressDocument, error)
	// Put overwrites the whole document unconditionally.
	Put(ctx context.Context, doc *model.ProgressDocument) error
}

// Notes persists the per-user note set keyed by item id.
type Notes interface {
	// Get returns model.ErrNotFound when the user has no notes document.
	Get(ctx context.Context, userID string) (model.NoteSet, error)
	Put(ctx context.Context, userID string, notes model.NoteSet) error
}

// History is the append-only snapshot log. Snapshots are immutable, one
// file each, named so lexicographic order equals chronological order.
type History interface {
	// Append writes a new snapshot and returns its file name.
	Append(ctx context.Context, snap *model.HistorySnapshot) (string, error)
	// List returns at most limit snapshots, newest first. A user with no
	// history yields an empty slice, not an error.
	List(ctx context.Context, userID string, limit int) ([]*model.HistorySnapshot, error)
}

// Stats caches the computed stats document written by the calculate path.
type Stats interface {
	// Get returns model.ErrNotFound when nothing has been calculated yet.
	Get(ctx context.Context, userID string) (*model.StatsDocument, error)
	Put(ctx context.Context, doc *model.StatsDocument) error
}
