package client

import "roadmap-backend/internal/model"

// Envelope field sets mirrored from the server's JSON responses. The SDK
// reuses the shared model types for roadmap payloads.

// SaveResponse is the answer to POST /api/progress/save.
type SaveResponse struct {
	Success bool   `json:"success"`
	SavedAt string `json:"savedAt"`
}

// LoadResponse is the answer to GET /api/progress/load. Data is nil when
// the user has no stored progress.
type LoadResponse struct {
	Success   bool          `json:"success"`
	Data      model.Roadmap `json:"data"`
	Timestamp string        `json:"timestamp"`
	SavedAt   string        `json:"savedAt"`
}

// PushResult is the answer to POST /api/sync/push. On a 409 the SDK
// returns ErrConflict and fills ServerData with the winning document.
type PushResult struct {
	Success    bool                    `json:"success"`
	SyncedAt   string                  `json:"syncedAt"`
	Conflict   bool                    `json:"conflict"`
	ServerData *model.ProgressDocument `json:"serverData"`
}

// PullResult is the answer to GET /api/sync/pull.
type PullResult struct {
	Success   bool          `json:"success"`
	HasUpdate bool          `json:"hasUpdate"`
	Data      model.Roadmap `json:"data"`
	Timestamp string        `json:"timestamp"`
	SyncedAt  string        `json:"syncedAt"`
}

// StatusResult is the answer to GET /api/sync/status.
type StatusResult struct {
	Success         bool   `json:"success"`
	Status          string `json:"status"`
	NeedPush        bool   `json:"needPush"`
	NeedPull        bool   `json:"needPull"`
	ServerTimestamp string `json:"serverTimestamp"`
	LastSyncAt      string `json:"lastSyncAt"`
}

// HistoryResponse is the answer to GET /api/progress/history.
type HistoryResponse struct {
	Success bool                     `json:"success"`
	History []*model.HistorySnapshot `json:"history"`
	Count   int                      `json:"count"`
}

// NoteResponse is the per-operation echo of a note mutation or read.
type NoteResponse struct {
	Success bool              `json:"success"`
	Data    *model.NoteRecord `json:"data"`
}

// NotesResponse is the full per-user note set.
type NotesResponse struct {
	Success bool          `json:"success"`
	Data    model.NoteSet `json:"data"`
	Count   int           `json:"count"`
}

// ExportResponse carries rendered export content and a file name.
type ExportResponse struct {
	Success  bool   `json:"success"`
	Content  string `json:"content"`
	FileName string `json:"fileName"`
}

// StatsResponse is the answer to the stats endpoints.
type StatsResponse struct {
	Success bool         `json:"success"`
	Stats   *model.Stats `json:"stats"`
}

// SummaryResponse is the AI-readable progress report.
type SummaryResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}

// ChatTurn is one prior message in a chat conversation, oldest first.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the non-streaming chat reply envelope.
type ChatResponse struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
}
