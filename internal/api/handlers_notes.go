package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"roadmap-backend/internal/api/respond"
	"roadmap-backend/internal/service"
)

// NotesHandler provides HTTP transport for note storage.
type NotesHandler struct {
	notes       *service.NotesService
	development bool
}

// NewNotesHandler creates a NotesHandler.
func NewNotesHandler(notes *service.NotesService, development bool) *NotesHandler {
	return &NotesHandler{notes: notes, development: development}
}

// Get GET /api/notes?userId=&itemId=
// Returns all notes for the user, or a single note when itemId is given.
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if itemID := r.URL.Query().Get("itemId"); itemID != "" {
		rec, err := h.notes.Get(r.Context(), uid, itemID)
		if err != nil {
			writeServiceError(w, err, h.development)
			return
		}
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    rec,
		})
		return
	}
	all, err := h.notes.GetAll(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    all,
		"count":   len(all),
	})
}

// Upsert POST /api/notes
//
// Content must be present but may be the empty string; the UI treats "" as
// a soft-delete signal, which the store does not enforce.
func (h *NotesHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string  `json:"userId"`
		ItemID     string  `json:"itemId"`
		CategoryID string  `json:"categoryId"`
		ItemTitle  string  `json:"itemTitle"`
		Content    *string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		req.UserID = userID(r)
	}
	rec, err := h.notes.Upsert(r.Context(), service.UpsertNoteRequest{
		UserID:     req.UserID,
		ItemID:     req.ItemID,
		CategoryID: req.CategoryID,
		ItemTitle:  req.ItemTitle,
		Content:    req.Content,
	})
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rec,
	})
}

// Delete DELETE /api/notes?userId=&itemId=
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("itemId")
	if itemID == "" {
		respond.WriteBadRequest(w, "itemId is required")
		return
	}
	if err := h.notes.Delete(r.Context(), userID(r), itemID); err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// GetOne GET /api/notes/{id}?userId=
func (h *NotesHandler) GetOne(w http.ResponseWriter, r *http.Request) {
	rec, err := h.notes.Get(r.Context(), userID(r), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rec,
	})
}

// Update PUT /api/notes/{id}
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID  string `json:"userId"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if req.Content == "" {
		respond.WriteBadRequest(w, "content is required")
		return
	}
	if req.UserID == "" {
		req.UserID = userID(r)
	}
	rec, err := h.notes.Update(r.Context(), req.UserID, mux.Vars(r)["id"], req.Content)
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    rec,
	})
}

// DeleteOne DELETE /api/notes/{id}?userId=
func (h *NotesHandler) DeleteOne(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), userID(r), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
