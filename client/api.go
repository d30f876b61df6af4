package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"roadmap-backend/internal/model"
)

// Typed wrappers over the service endpoints. Each call builds a request
// with the caller's context, checks the status and decodes the envelope.

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body interface{}, out interface{}, okStatuses ...int) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewBuffer(raw))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	ok := false
	for _, s := range okStatuses {
		if resp.StatusCode == s {
			ok = true
			break
		}
	}
	if !ok {
		return resp.StatusCode, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// SaveProgress overwrites the user's stored progress unconditionally.
func (c *Client) SaveProgress(ctx context.Context, data model.Roadmap, timestamp string) (*SaveResponse, error) {
	body := map[string]interface{}{"userId": c.userID, "data": data}
	if timestamp != "" {
		body["timestamp"] = timestamp
	}
	var out SaveResponse
	if _, err := c.sendJSON(ctx, http.MethodPost, "/api/progress/save", body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadProgress fetches the stored progress document; Data is nil when the
// user has never saved.
func (c *Client) LoadProgress(ctx context.Context) (*LoadResponse, error) {
	q := url.Values{"userId": {c.userID}}
	var out LoadResponse
	if err := c.getJSON(ctx, "/api/progress/load", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PushProgress uploads data under the last-write-wins guard. A stale push
// returns ErrConflict with the winning server document attached to the
// result.
func (c *Client) PushProgress(ctx context.Context, data model.Roadmap, timestamp string, forceUpdate bool) (*PushResult, error) {
	body := map[string]interface{}{
		"userId":      c.userID,
		"data":        data,
		"timestamp":   timestamp,
		"forceUpdate": forceUpdate,
	}
	var out PushResult
	status, err := c.sendJSON(ctx, http.MethodPost, "/api/sync/push", body, &out, http.StatusOK, http.StatusConflict)
	if err != nil {
		return nil, err
	}
	if status == http.StatusConflict {
		return &out, ErrConflict
	}
	return &out, nil
}

// PullProgress downloads the server document. Supplying lastSync lets the
// server answer hasUpdate=false when the client already has this version.
func (c *Client) PullProgress(ctx context.Context, lastSync string) (*PullResult, error) {
	q := url.Values{"userId": {c.userID}}
	if lastSync != "" {
		q.Set("lastSync", lastSync)
	}
	var out PullResult
	if err := c.getJSON(ctx, "/api/sync/pull", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SyncStatus asks the server which side is ahead.
func (c *Client) SyncStatus(ctx context.Context, localTimestamp string) (*StatusResult, error) {
	q := url.Values{"userId": {c.userID}}
	if localTimestamp != "" {
		q.Set("localTimestamp", localTimestamp)
	}
	var out StatusResult
	if err := c.getJSON(ctx, "/api/sync/status", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History lists the most recent snapshots, newest first.
func (c *Client) History(ctx context.Context, limit int) (*HistoryResponse, error) {
	q := url.Values{"userId": {c.userID}}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	var out HistoryResponse
	if err := c.getJSON(ctx, "/api/progress/history", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AppendHistory writes a new immutable snapshot of data.
func (c *Client) AppendHistory(ctx context.Context, data model.Roadmap) (string, error) {
	body := map[string]interface{}{"userId": c.userID, "data": data}
	var out struct {
		Success  bool   `json:"success"`
		FileName string `json:"fileName"`
	}
	if _, err := c.sendJSON(ctx, http.MethodPost, "/api/progress/history", body, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.FileName, nil
}

// Notes returns the user's full note set.
func (c *Client) Notes(ctx context.Context) (*NotesResponse, error) {
	q := url.Values{"userId": {c.userID}}
	var out NotesResponse
	if err := c.getJSON(ctx, "/api/notes", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Note fetches a single note; Data is nil when the item has none.
func (c *Client) Note(ctx context.Context, itemID string) (*NoteResponse, error) {
	q := url.Values{"userId": {c.userID}}
	var out NoteResponse
	if err := c.getJSON(ctx, "/api/notes/"+url.PathEscape(itemID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveNote upserts the note for an item. Empty content is valid and
// distinct from "no note".
func (c *Client) SaveNote(ctx context.Context, itemID, content string) (*NoteResponse, error) {
	body := map[string]interface{}{"userId": c.userID, "itemId": itemID, "content": content}
	var out NoteResponse
	if _, err := c.sendJSON(ctx, http.MethodPost, "/api/notes", body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteNote removes the note for an item; deleting an absent note is ok.
func (c *Client) DeleteNote(ctx context.Context, itemID string) error {
	q := url.Values{"userId": {c.userID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/api/notes/"+url.PathEscape(itemID)+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("DELETE note: status %d", resp.StatusCode)
	}
	return nil
}

// Export renders the roadmap in the given format (markdown, csv, json,
// text) server-side and returns content plus a suggested file name.
func (c *Client) Export(ctx context.Context, format string, data model.Roadmap) (*ExportResponse, error) {
	body := map[string]interface{}{"data": data}
	var out ExportResponse
	if _, err := c.sendJSON(ctx, http.MethodPost, "/api/export/"+url.PathEscape(format), body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats computes the aggregate breakdown for the given roadmap.
func (c *Client) Stats(ctx context.Context, data model.Roadmap) (*StatsResponse, error) {
	body := map[string]interface{}{"data": data}
	var out StatsResponse
	if _, err := c.sendJSON(ctx, http.MethodPost, "/api/stats", body, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Summary fetches the AI-readable progress report.
func (c *Client) Summary(ctx context.Context) (*SummaryResponse, error) {
	q := url.Values{"userId": {c.userID}}
	var out SummaryResponse
	if err := c.getJSON(ctx, "/api/summary", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends a message to the AI assistant and returns the full reply.
// The server streams plain text when the upstream supports it; onToken,
// which may be nil, receives each chunk as it arrives. When the server
// falls back to a one-shot completion the reply arrives as a JSON envelope
// and onToken is called once with the whole text.
func (c *Client) Chat(ctx context.Context, message string, history []ChatTurn, onToken func(chunk string) error) (string, error) {
	raw, err := json.Marshal(map[string]interface{}{
		"message": message,
		"history": history,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai/chat", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		var fail struct {
			Error string `json:"error"`
		}
		if derr := json.NewDecoder(resp.Body).Decode(&fail); derr == nil && fail.Error != "" {
			return "", fmt.Errorf("chat: %s (status %d)", fail.Error, resp.StatusCode)
		}
		return "", fmt.Errorf("chat: status %d", resp.StatusCode)
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var out ChatResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", err
		}
		if onToken != nil && out.Reply != "" {
			if err := onToken(out.Reply); err != nil {
				return "", err
			}
		}
		return out.Reply, nil
	}

	var reply strings.Builder
	buf := make([]byte, 4096)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			reply.WriteString(chunk)
			if onToken != nil {
				if err := onToken(chunk); err != nil {
					return "", err
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", rerr
		}
	}
	return reply.String(), nil
}
