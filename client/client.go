// Package client is the Go SDK for the roadmap service: typed wrappers
// over the HTTP API plus the SyncSession reconciliation engine that keeps
// a local roadmap copy and the server copy converged.
package client

import (
	"net/http"
	"time"
)

// Client talks to a roadmap service instance.
type Client struct {
	baseURL string
	http    *http.Client
	userID  string
}

// New constructs a Client for the service at baseURL. Additional options
// can be provided via functional arguments.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errEmptyBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		userID:  "default",
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	// Auto-enable debug via env variable without changing code.
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// UserID returns the user this client operates as.
func (c *Client) UserID() string { return c.userID }
