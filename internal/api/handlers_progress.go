package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"roadmap-backend/internal/api/respond"
	"roadmap-backend/internal/model"
	"roadmap-backend/internal/service"
)

// ProgressHandler provides HTTP transport for the save/load/history paths.
type ProgressHandler struct {
	progress    *service.ProgressService
	history     *service.HistoryService
	development bool
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(progress *service.ProgressService, history *service.HistoryService, development bool) *ProgressHandler {
	return &ProgressHandler{progress: progress, history: history, development: development}
}

// Save POST /api/progress/save
func (h *ProgressHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string        `json:"userId"`
		Data      model.Roadmap `json:"data"`
		Timestamp string        `json:"timestamp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	res, err := h.progress.Save(r.Context(), req.UserID, req.Data, req.Timestamp)
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"savedAt": res.SavedAt,
	})
}

// Load GET /api/progress/load?userId=
func (h *ProgressHandler) Load(w http.ResponseWriter, r *http.Request) {
	doc, err := h.progress.Load(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	if doc == nil {
		// No saved progress is success-with-null, not an error.
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    nil,
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"data":      doc.Data,
		"timestamp": doc.Timestamp,
		"savedAt":   doc.SavedAt,
	})
}

// History GET /api/progress/history?userId=&limit=
func (h *ProgressHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respond.WriteBadRequest(w, "invalid limit")
			return
		}
		limit = n
	}
	snaps, err := h.history.List(r.Context(), userID(r), limit)
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"history": snaps,
		"count":   len(snaps),
	})
}

// AppendHistory POST /api/progress/history
func (h *ProgressHandler) AppendHistory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string        `json:"userId"`
		Data   model.Roadmap `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	name, err := h.history.Append(r.Context(), req.UserID, req.Data)
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"fileName": name,
	})
}
