package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"roadmap-backend/internal/api/respond"
	"roadmap-backend/internal/chat"
	"roadmap-backend/internal/model"
)

// ChatHandler forwards messages to the upstream completion service,
// streaming tokens to the caller when possible.
type ChatHandler struct {
	chat        *chat.Client
	development bool
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(c *chat.Client, development bool) *ChatHandler {
	return &ChatHandler{chat: c, development: development}
}

// Chat POST /api/ai/chat
//
// Tries streaming first: tokens are flushed to the caller as a plain-text
// body. If the upstream cannot stream (and nothing has been written yet),
// falls back to one complete response in the JSON envelope.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if req.Message == "" {
		respond.WriteBadRequest(w, "message is required")
		return
	}

	flusher, canStream := w.(http.Flusher)
	if canStream {
		wrote := false
		err := h.chat.Stream(r.Context(), req, func(token string) error {
			if !wrote {
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusOK)
				wrote = true
			}
			if _, werr := w.Write([]byte(token)); werr != nil {
				return werr
			}
			flusher.Flush()
			return nil
		})
		if err == nil {
			if !wrote {
				// Upstream streamed nothing; fall through to one-shot.
				h.complete(w, r, req)
			}
			return
		}
		if wrote {
			// Headers are gone; nothing left to do but log.
			log.Warn().Err(err).Msg("chat stream aborted mid-response")
			return
		}
		log.Warn().Err(err).Msg("chat stream unavailable, falling back to one-shot completion")
	}
	h.complete(w, r, req)
}

func (h *ChatHandler) complete(w http.ResponseWriter, r *http.Request, req chat.Request) {
	reply, err := h.chat.Complete(r.Context(), req)
	if err != nil {
		h.writeUpstreamError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"reply":   reply,
	})
}

func (h *ChatHandler) writeUpstreamError(w http.ResponseWriter, err error) {
	var ue model.UpstreamError
	if !errors.As(err, &ue) {
		ue = model.NewUpstreamError(http.StatusInternalServerError, "AI service failed", err)
	}
	log.Error().Err(err).Msg("chat upstream failure")
	status := ue.StatusCode
	if status < 400 {
		status = http.StatusInternalServerError
	}
	if h.development && ue.Cause != nil {
		respond.WriteErrorDetails(w, status, ue.Message, ue.Cause.Error())
		return
	}
	respond.WriteError(w, status, ue.Message)
}
