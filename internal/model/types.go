package model

import "time"

// Status tracks where a category or item sits in the learning flow.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

// Valid reports whether s is one of the four known states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// Label returns the human-readable form used by exports.
func (s Status) Label() string {
	switch s {
	case StatusCompleted:
		return "Completed"
	case StatusInProgress:
		return "In Progress"
	case StatusSkipped:
		return "Skipped"
	default:
		return "Pending"
	}
}

// Resource is a learning link attached to a knowledge item.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"` // article | video | documentation | course
}

// KnowledgeItem is a single learnable unit inside a category.
// IDs are stable and used as map keys across sync operations.
type KnowledgeItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	Description string     `json:"description,omitempty"`
	Resources   []Resource `json:"resources,omitempty"`
}

// KnowledgeCategory groups items under one roadmap topic.
type KnowledgeCategory struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Status      Status          `json:"status"`
	Description string          `json:"description,omitempty"`
	Items       []KnowledgeItem `json:"items"`
}

// Roadmap is the full ordered tree of categories. It is always stored and
// transmitted as one unit; there are no partial-document updates.
type Roadmap []KnowledgeCategory

// ProgressDocument is the server-persisted copy of a user's roadmap state.
//
// Timestamp is caller-asserted logical time of the last local change and is
// used purely for last-write-wins comparison; it is not guaranteed monotonic
// when client clocks are skewed. SavedAt/SyncedAt are server-assigned write
// times, stamped by the save and sync paths respectively. All instants are
// carried as ISO-8601 strings exactly as they appear on disk.
type ProgressDocument struct {
	UserID    string  `json:"userId"`
	Data      Roadmap `json:"data"`
	Timestamp string  `json:"timestamp"`
	SavedAt   string  `json:"savedAt,omitempty"`
	SyncedAt  string  `json:"syncedAt,omitempty"`
}

// HistorySnapshot is an immutable timestamped copy of a roadmap state,
// independent of the live progress document.
type HistorySnapshot struct {
	UserID    string  `json:"userId"`
	Data      Roadmap `json:"data"`
	Timestamp string  `json:"timestamp"`
}

// NoteRecord is a free-text note keyed by item id. CreatedAt survives
// updates; UpdatedAt is refreshed on every write.
type NoteRecord struct {
	ItemID     string `json:"itemId"`
	CategoryID string `json:"categoryId,omitempty"`
	ItemTitle  string `json:"itemTitle,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// NoteSet is the per-user notes document, keyed by item id.
type NoteSet map[string]NoteRecord

// CategoryStats is the per-category slice of a Stats breakdown.
type CategoryStats struct {
	Title          string `json:"title"`
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
	InProgress     int    `json:"inProgress"`
	Pending        int    `json:"pending"`
	Skipped        int    `json:"skipped"`
	CompletionRate int    `json:"completionRate"`
}

// StatsSummary aggregates category-level signals.
type StatsSummary struct {
	TotalCategories     int `json:"totalCategories"`
	ActiveCategories    int `json:"activeCategories"`
	CompletedCategories int `json:"completedCategories"`
}

// Stats is the computed progress breakdown for a roadmap.
// CompletionRate is round(completed/total*100).
type Stats struct {
	Total          int                      `json:"total"`
	Completed      int                      `json:"completed"`
	InProgress     int                      `json:"inProgress"`
	Pending        int                      `json:"pending"`
	Skipped        int                      `json:"skipped"`
	CompletionRate int                      `json:"completionRate"`
	CategoryStats  map[string]CategoryStats `json:"categoryStats"`
	Summary        StatsSummary             `json:"summary"`
}

// StatsDocument is the cached stats file written by the calculate path.
type StatsDocument struct {
	UserID       string `json:"userId"`
	Stats        Stats  `json:"stats"`
	CalculatedAt string `json:"calculatedAt"`
}

// NowISO returns the current wall-clock as an ISO-8601 UTC string with
// fixed-width milliseconds, the format every timestamp in the store uses.
// Fixed width keeps lexicographic and chronological order aligned, which
// the history snapshot file naming relies on.
func NowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// ParseInstant parses an ISO-8601 string. ok is false for empty or
// malformed input, which comparison sites treat as "no timestamp".
func ParseInstant(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
