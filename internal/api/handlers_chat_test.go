package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-backend/internal/config"
	"roadmap-backend/internal/store/filestore"
)

func newChatRouter(t *testing.T, upstreamURL string) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Environment: config.EnvDevelopment,
		HTTPPort:    8080,
		DataDir:     "/data",
		ChatBaseURL: upstreamURL,
		ChatModel:   "test-model",
	}
	st := filestore.New(afero.NewMemMapFs(), cfg.DataDir)
	return NewRouter(cfg, st, st)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	h := newChatRouter(t, "http://127.0.0.1:1/v1")
	rec := makeRequest(t, h, "POST", "/api/ai/chat", map[string]interface{}{
		"message": "",
	})
	assert.Equal(t, 400, rec.Code)
}

func TestChatStreamsUpstreamTokens(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range []string{"hello", " there"} {
			fmt.Fprintf(w, `data: {"choices":[{"delta":{"content":"%s"}}]}`+"\n\n", d)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer upstream.Close()

	h := newChatRouter(t, upstream.URL)
	rec := makeRequest(t, h, "POST", "/api/ai/chat", map[string]interface{}{
		"message": "hi",
	})
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "hello there", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestChatFallsBackWhenStreamIsEmpty(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Stream bool `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Stream {
			// A stream that produces no tokens at all.
			fmt.Fprint(w, "data: [DONE]\n\n")
			return
		}
		fmt.Fprint(w, `{"choices":[{"message":{"content":"one-shot reply"}}]}`)
	}))
	defer upstream.Close()

	h := newChatRouter(t, upstream.URL)
	rec := makeRequest(t, h, "POST", "/api/ai/chat", map[string]interface{}{
		"message": "hi",
	})
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "one-shot reply")
}

func TestChatUpstreamAuthFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	h := newChatRouter(t, upstream.URL)
	rec := makeRequest(t, h, "POST", "/api/ai/chat", map[string]interface{}{
		"message": "hi",
	})
	assert.Equal(t, 401, rec.Code)
	assert.Contains(t, rec.Body.String(), "rejected the configured API key")
}
