// Package chat proxies user messages to an OpenAI-compatible
// chat-completions upstream, streaming tokens back when the upstream
// supports it and falling back to a single complete response otherwise.
package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"roadmap-backend/internal/model"
)

// historyWindow bounds how many trailing turns are forwarded upstream.
const historyWindow = 6

// Turn is one prior exchange message from the caller's chat history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a chat invocation: the new message, optional trailing
// history and an optional progress block woven into the system prompt.
type Request struct {
	Message  string       `json:"message"`
	History  []Turn       `json:"history,omitempty"`
	Progress *model.Stats `json:"userProgress,omitempty"`
}

// Client talks to the upstream completion service.
type Client struct {
	rest  *resty.Client
	model string
}

// New creates a chat Client for the given OpenAI-compatible base URL.
func New(baseURL, apiKey, chatModel string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(apiKey).
		SetTimeout(5 * time.Minute)
	return &Client{rest: c, model: chatModel}
}

type upstreamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type upstreamRequest struct {
	Model       string            `json:"model"`
	Messages    []upstreamMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
	Stream      bool              `json:"stream"`
}

type upstreamChoice struct {
	Delta   upstreamMessage `json:"delta"`
	Message upstreamMessage `json:"message"`
}

type upstreamResponse struct {
	Choices []upstreamChoice `json:"choices"`
}

// buildMessages assembles the system prompt, at most the last
// historyWindow turns, and the user message.
func (c *Client) buildMessages(req Request) []upstreamMessage {
	msgs := []upstreamMessage{{Role: "system", Content: systemPrompt(req.Progress)}}
	history := req.History
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, t := range history {
		msgs = append(msgs, upstreamMessage{Role: t.Role, Content: t.Content})
	}
	return append(msgs, upstreamMessage{Role: "user", Content: req.Message})
}

func systemPrompt(progress *model.Stats) string {
	var b strings.Builder
	b.WriteString("You are the study assistant for an interactive learning-roadmap tracker. ")
	b.WriteString("Learners mark knowledge items as pending, in-progress, completed or skipped. ")
	b.WriteString("Answer technical questions clearly, relate them to the learner's roadmap, ")
	b.WriteString("and suggest what to study next. Be friendly and concise.\n")
	if progress != nil {
		b.WriteString("\nCurrent learner progress:\n")
		b.WriteString(fmt.Sprintf("- Total items: %d\n", progress.Total))
		b.WriteString(fmt.Sprintf("- Completed: %d (%d%%)\n", progress.Completed, progress.CompletionRate))
		b.WriteString(fmt.Sprintf("- In progress: %d\n", progress.InProgress))
		b.WriteString(fmt.Sprintf("- Pending: %d\n", progress.Pending))
		b.WriteString(fmt.Sprintf("- Skipped: %d\n", progress.Skipped))
		b.WriteString("Use this to encourage the learner and tailor recommendations.\n")
	}
	return b.String()
}

// Stream sends the request with streaming enabled and invokes onToken for
// each content delta. It returns an UpstreamError when the upstream cannot
// stream; callers then fall back to Complete.
func (c *Client) Stream(ctx context.Context, req Request, onToken func(token string) error) error {
	body := upstreamRequest{
		Model:       c.model,
		Messages:    c.buildMessages(req),
		Temperature: 0.7,
		MaxTokens:   2000,
		Stream:      true,
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(&body).
		SetDoNotParseResponse(true).
		Post("/chat/completions")
	if err != nil {
		return classify(0, err)
	}
	defer func() { _ = resp.RawBody().Close() }()
	if resp.StatusCode() != http.StatusOK {
		return classify(resp.StatusCode(), fmt.Errorf("upstream status %d", resp.StatusCode()))
	}

	// Server-sent events: one "data: {json}" line per delta, terminated by
	// "data: [DONE]".
	scanner := bufio.NewScanner(resp.RawBody())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}
		var chunk upstreamResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			log.Warn().Err(err).Msg("skipping unparseable stream chunk")
			continue
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := onToken(choice.Delta.Content); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return classify(0, err)
	}
	return nil
}

// Complete sends the request without streaming and returns the full reply.
// Transient upstream failures are retried with exponential backoff.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	body := upstreamRequest{
		Model:       c.model,
		Messages:    c.buildMessages(req),
		Temperature: 0.7,
		MaxTokens:   2000,
		Stream:      false,
	}
	var reply string
	op := func() error {
		resp, err := c.rest.R().
			SetContext(ctx).
			SetBody(&body).
			Post("/chat/completions")
		if err != nil {
			return classify(0, err)
		}
		if resp.StatusCode() != http.StatusOK {
			uerr := classify(resp.StatusCode(), fmt.Errorf("upstream status %d: %s", resp.StatusCode(), resp.String()))
			// 4xx other than 429 will not get better on retry.
			if resp.StatusCode() >= 400 && resp.StatusCode() < 500 && resp.StatusCode() != http.StatusTooManyRequests {
				return backoff.Permanent(uerr)
			}
			return uerr
		}
		var out upstreamResponse
		if err := json.Unmarshal(resp.Body(), &out); err != nil {
			return backoff.Permanent(classify(0, err))
		}
		if len(out.Choices) == 0 {
			return backoff.Permanent(classify(0, fmt.Errorf("upstream returned no choices")))
		}
		reply = out.Choices[0].Message.Content
		return nil
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return "", err
	}
	return reply, nil
}

// classify maps an upstream failure to a caller-safe UpstreamError.
func classify(statusCode int, cause error) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.NewUpstreamError(statusCode, "AI service rejected the configured API key", cause)
	case http.StatusTooManyRequests:
		return model.NewUpstreamError(statusCode, "AI service is rate limiting requests, try again shortly", cause)
	case 0:
		return model.NewUpstreamError(http.StatusBadGateway, "unable to reach the AI service", cause)
	default:
		return model.NewUpstreamError(statusCode, "AI service is temporarily unavailable", cause)
	}
}
