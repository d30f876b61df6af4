package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"roadmap-backend/internal/api/respond"
	"roadmap-backend/internal/model"
	"roadmap-backend/internal/service"
)

// ExportHandler provides HTTP transport for the export renderers.
type ExportHandler struct{}

// NewExportHandler creates an ExportHandler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// Export POST /api/export/{format}
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data         model.Roadmap `json:"data"`
		IncludeStats *bool         `json:"includeStats"`
		Pretty       *bool         `json:"pretty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if req.Data == nil {
		respond.WriteBadRequest(w, "data is required")
		return
	}

	var res service.ExportResult
	switch mux.Vars(r)["format"] {
	case "markdown":
		includeStats := req.IncludeStats == nil || *req.IncludeStats
		res = service.ExportMarkdown(req.Data, includeStats)
	case "csv":
		res = service.ExportCSV(req.Data)
	case "json":
		pretty := req.Pretty == nil || *req.Pretty
		var err error
		res, err = service.ExportJSON(req.Data, pretty)
		if err != nil {
			writeServiceError(w, err, false)
			return
		}
	case "text":
		res = service.ExportText(req.Data)
	default:
		respond.WriteBadRequest(w, "unsupported export format")
		return
	}

	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"content":  res.Content,
		"fileName": res.FileName,
	})
}
