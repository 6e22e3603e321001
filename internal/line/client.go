// Package line implements the Notifier contract over the LINE Messaging
// API push endpoint.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microrent/rentflow/internal/common"
)

const (
	pushEndpoint   = "https://api.line.me/v2/bot/message/push"
	requestTimeout = 10 * time.Second
)

// Client pushes text messages to LINE users.
type Client struct {
	httpClient *http.Client
	token      string
	endpoint   string
}

// push API request types
type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// New creates a LINE client. A missing channel access token is a
// configuration error; the sweep must not start without one.
func New(token string) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: line.channel_token", common.ErrMissingConfig)
	}

	return &Client{
		token:    token,
		endpoint: pushEndpoint,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// Send pushes one text message to the given LINE user ID. Timeouts and
// non-200 responses are reported as errors with the upstream reason; the
// caller decides how a failed delivery affects the sweep.
func (c *Client) Send(ctx context.Context, destination, text string) error {
	if strings.TrimSpace(destination) == "" {
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: empty destination", common.ErrNotifySend),
			Retryable: false,
		}
	}

	payload, err := json.Marshal(pushRequest{
		To: destination,
		Messages: []textMessage{
			{Type: "text", Text: text},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNotifySend, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: LINE push", common.ErrRateLimit)
	}

	if resp.StatusCode != http.StatusOK {
		// Anything the API rejects outright (blocked user, bad user ID)
		// will fail identically on a retry.
		body, _ := io.ReadAll(resp.Body)
		return &common.RetryableError{
			Err:       fmt.Errorf("%w: LINE API error: %d - %s", common.ErrNotifySend, resp.StatusCode, strings.TrimSpace(string(body))),
			Retryable: resp.StatusCode >= http.StatusInternalServerError,
		}
	}

	return nil
}
