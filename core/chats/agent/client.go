// Package agent talks to the remote concierge agent service. The service
// owns the model, its tools and per-session memory; this client only carries
// one user message per request and returns the reply text.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/koscakluka/ava-core/core/chats"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/codes"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	endpoint   string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client, primarily for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(endpoint string, opts ...ClientOption) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("agent endpoint is required")
	}

	client := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

type askRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type askResponse struct {
	Text     *string `json:"text"`
	VideoURL *string `json:"video_url"`
}

// Ask sends one user message and waits for the single agent reply. A non-2xx
// status or a body without a text field is reported as an error; the caller
// decides whether to retry (the coordinator never does).
func (c *Client) Ask(ctx context.Context, sessionID string, message string, opts ...chats.AskOption) (string, error) {
	options := chats.AskOptions{Timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&options)
	}

	ctx, span := tracer.Start(ctx, "ask agent")
	defer span.End()

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(askRequest{SessionID: sessionID, Message: message})
	if err != nil {
		return "", fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create agent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordedErr := fmt.Errorf("agent request failed: %w", err)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return "", recordedErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordedErr := fmt.Errorf("agent returned status %s", resp.Status)
		span.RecordError(recordedErr)
		span.SetStatus(codes.Error, recordedErr.Error())
		return "", recordedErr
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read agent response: %w", err)
	}

	var parsed askResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal agent response: %w", err)
	}
	if parsed.Text == nil {
		return "", fmt.Errorf("agent response is missing reply text")
	}

	logger.DebugContext(ctx, "agent replied", "session_id", sessionID, "reply_length", len(*parsed.Text))
	return *parsed.Text, nil
}
