package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-backend/internal/model"
)

func TestBuildMessages(t *testing.T) {
	c := New("http://upstream.invalid/v1", "key", "test-model")

	t.Run("system then user", func(t *testing.T) {
		msgs := c.buildMessages(Request{Message: "what is a goroutine?"})
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].Role)
		assert.Equal(t, "user", msgs[1].Role)
		assert.Equal(t, "what is a goroutine?", msgs[1].Content)
	})

	t.Run("history window keeps the trailing turns", func(t *testing.T) {
		var history []Turn
		for i := 0; i < 10; i++ {
			history = append(history, Turn{Role: "user", Content: fmt.Sprintf("turn %d", i)})
		}
		msgs := c.buildMessages(Request{Message: "latest", History: history})
		// system + 6 trailing turns + user message
		require.Len(t, msgs, 8)
		assert.Equal(t, "turn 4", msgs[1].Content)
		assert.Equal(t, "turn 9", msgs[6].Content)
		assert.Equal(t, "latest", msgs[7].Content)
	})

	t.Run("progress lands in the system prompt", func(t *testing.T) {
		msgs := c.buildMessages(Request{
			Message:  "hi",
			Progress: &model.Stats{Total: 10, Completed: 4, CompletionRate: 40},
		})
		assert.Contains(t, msgs[0].Content, "Completed: 4 (40%)")
	})

	t.Run("no progress block without stats", func(t *testing.T) {
		msgs := c.buildMessages(Request{Message: "hi"})
		assert.NotContains(t, msgs[0].Content, "Current learner progress")
	})
}

func TestStream(t *testing.T) {
	deltas := []string{"Go", "routines", " are cheap"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req upstreamRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			chunk := upstreamResponse{Choices: []upstreamChoice{{Delta: upstreamMessage{Content: d}}}}
			raw, _ := json.Marshal(chunk)
			fmt.Fprintf(w, "data: %s\n\n", raw)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := New(srv.URL+"/v1", "key", "test-model")
	var got strings.Builder
	err := c.Stream(context.Background(), Request{Message: "explain goroutines"}, func(token string) error {
		got.WriteString(token)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Goroutines are cheap", got.String())
}

func TestStreamSkipsGarbageChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: not json\n\n")
		fmt.Fprint(w, ": keepalive comment\n\n")
		chunk := upstreamResponse{Choices: []upstreamChoice{{Delta: upstreamMessage{Content: "ok"}}}}
		raw, _ := json.Marshal(chunk)
		fmt.Fprintf(w, "data: %s\n\n", raw)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "test-model")
	var got strings.Builder
	err := c.Stream(context.Background(), Request{Message: "hi"}, func(token string) error {
		got.WriteString(token)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got.String())
}

func TestStreamUpstreamStatusErrors(t *testing.T) {
	for _, tc := range []struct {
		upstream int
		want     int
	}{
		{http.StatusUnauthorized, http.StatusUnauthorized},
		{http.StatusTooManyRequests, http.StatusTooManyRequests},
		{http.StatusInternalServerError, http.StatusInternalServerError},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.upstream)
		}))
		c := New(srv.URL, "key", "test-model")
		err := c.Stream(context.Background(), Request{Message: "hi"}, func(string) error { return nil })
		srv.Close()

		require.Error(t, err)
		var ue model.UpstreamError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, tc.want, ue.StatusCode)
	}
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req upstreamRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)

		out := upstreamResponse{Choices: []upstreamChoice{{Message: upstreamMessage{Content: "full reply"}}}}
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "test-model")
	reply, err := c.Complete(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "full reply", reply)
}

func TestCompleteRetriesTransientFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		out := upstreamResponse{Choices: []upstreamChoice{{Message: upstreamMessage{Content: "recovered"}}}}
		require.NoError(t, json.NewEncoder(w).Encode(out))
	}))
	defer srv.Close()

	c := New(srv.URL, "key", "test-model")
	reply, err := c.Complete(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", reply)
	assert.Equal(t, 2, calls)
}

func TestCompleteDoesNotRetryAuthFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-key", "test-model")
	_, err := c.Complete(context.Background(), Request{Message: "hi"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var ue model.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusUnauthorized, ue.StatusCode)
}

func TestCompleteUnreachableUpstream(t *testing.T) {
	c := New("http://127.0.0.1:1/v1", "key", "test-model")
	_, err := c.Complete(context.Background(), Request{Message: "hi"})
	require.Error(t, err)

	var ue model.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadGateway, ue.StatusCode)
}
