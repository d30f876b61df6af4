package api

import (
	"encoding/json"
	"io"
	"net/http"

	"roadmap-backend/internal/api/respond"
	"roadmap-backend/internal/model"
	"roadmap-backend/internal/service"
)

// StatsHandler provides HTTP transport for stat aggregation and the
// AI-readable summary.
type StatsHandler struct {
	stats       *service.StatsService
	summary     *service.SummaryService
	development bool
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stats *service.StatsService, summary *service.SummaryService, development bool) *StatsHandler {
	return &StatsHandler{stats: stats, summary: summary, development: development}
}

// Calculate POST /api/stats computes stats over the posted roadmap without
// touching the store.
func (h *StatsHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data model.Roadmap `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if req.Data == nil {
		respond.WriteBadRequest(w, "data is required")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"stats":        service.CalculateStats(req.Data),
		"calculatedAt": model.NowISO(),
	})
}

// Snapshot POST /api/stats/calculate computes from stored progress and
// caches the result to the stats namespace.
func (h *StatsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	// Body is optional; the user may come from the query string instead.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		req.UserID = userID(r)
	}
	stats, err := h.stats.Snapshot(r.Context(), req.UserID)
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"stats":   stats,
	})
}

// Cached GET /api/stats/calculate?userId=
func (h *StatsHandler) Cached(w http.ResponseWriter, r *http.Request) {
	doc, err := h.stats.Cached(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	if doc == nil {
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"stats":   nil,
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"stats":        doc.Stats,
		"calculatedAt": doc.CalculatedAt,
	})
}

// Summary GET /api/summary?userId=
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summary.Generate(r.Context(), userID(r))
	if err != nil {
		writeServiceError(w, err, h.development)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"summary":     summary,
		"generatedAt": model.NowISO(),
	})
}
