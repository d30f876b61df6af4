package api

import (
	"encoding/json"
	"net/http"

	"roadmap-backend/internal/api/respond"
	"roadmap-backend/internal/model"
	"roadmap-backend/internal/service"
)

// SyncHandler provides HTTP transport for the push/pull/status protocol.
type SyncHandler struct {
	progress    *service.ProgressService
	development bool
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(progress *service.ProgressService, development bool) *SyncHandler {
	return &SyncHandler{progress: progress, development: development}
}

// Push POST /api/sync/push
//
// A stale push (server timestamp strictly newer) is rejected with 409 and
// the winning server document attached, so the caller reconciles by
// pulling rather than the server silently merging.
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string        `json:"userId"`
		Data        model.Roadmap `json:"data"`
		Timestamp   string        `json:"timestamp"`
		ForceUpdate bool          `json:"forceUpdate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	res, err := h.progress.Push(r.Context(), req.UserID, req.Data, req.Timestamp, req.ForceUpdate)
	if err != nil {
		if ce, ok := model.AsConflictError(err); ok {
			respond.WriteJSON(w, http.StatusConflict, map[string]interface{}{
				"success":    false,
				"conflict":   true,
				"error":      ce.Message,
				"serverData": ce.ServerDoc,
			})
			return
		}
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"syncedAt": res.SyncedAt,
	})
}

// Pull GET /api/sync/pull?userId=&lastSync=
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	res, err := h.progress.Pull(r.Context(), userID(r), r.URL.Query().Get("lastSync"))
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	body := map[string]interface{}{
		"success":   true,
		"hasUpdate": res.HasUpdate,
		"data":      nil,
	}
	if res.HasUpdate {
		body["data"] = res.Data
	}
	if res.Timestamp != "" {
		body["timestamp"] = res.Timestamp
	}
	if res.SyncedAt != "" {
		body["syncedAt"] = res.SyncedAt
	}
	respond.WriteJSON(w, http.StatusOK, body)
}

// Status GET /api/sync/status?userId=&localTimestamp=
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	res, err := h.progress.Status(r.Context(), userID(r), r.URL.Query().Get("localTimestamp"))
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"status":          res.Status,
		"needPush":        res.NeedPush,
		"needPull":        res.NeedPull,
		"serverTimestamp": res.ServerTimestamp,
		"localTimestamp":  res.LocalTimestamp,
		"lastSyncAt":      res.LastSyncAt,
	})
}
