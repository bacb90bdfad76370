// Package relay implements the media session boundary over a websocket
// relay service. The relay terminates the actual WebRTC leg next to the
// viewer; this client only speaks the relay's JSON control protocol and
// streams binary audio frames into it.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ava-core/core/media"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Config struct {
	// URL is the relay's websocket endpoint.
	URL string
	// Character and Style select the avatar persona rendered by the relay.
	Character string
	Style     string
	// Voice is forwarded so the relay can label captions and tracks.
	Voice string

	// HandshakeTimeout bounds the wait for the relay's ready message.
	HandshakeTimeout time.Duration
}

type Client struct {
	config  Config
	options media.SessionOptions

	sessionID string

	mu    sync.Mutex
	ws    *websocket.Conn
	state media.ConnectionState
	ready chan error

	positionMs atomic.Int64
}

var _ media.Session = (*Client)(nil)

func NewClient(config Config, opts ...media.SessionOption) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("relay url is required")
	}
	if config.HandshakeTimeout <= 0 {
		config.HandshakeTimeout = 10 * time.Second
	}

	client := &Client{
		config:    config,
		sessionID: uuid.NewString(),
		state:     media.StateDisconnected,
		options: media.SessionOptions{
			StateChangedCallback: func(media.ConnectionState) {},
			AudioCallback:        func([]byte) {},
		},
	}
	for _, opt := range opts {
		opt(&client.options)
	}

	return client, nil
}

func (c *Client) SessionID() string { return c.sessionID }

func (c *Client) Connect(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "connect media relay")
	defer span.End()

	c.mu.Lock()
	if c.state == media.StateConnecting || c.state == media.StateConnected {
		c.mu.Unlock()
		return nil
	}
	c.setStateLocked(media.StateConnecting)
	ready := make(chan error, 1)
	c.ready = ready
	c.mu.Unlock()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, c.config.URL, http.Header{})
	if err != nil {
		c.failConnect(span, fmt.Errorf("failed to dial relay: %w", err))
		return fmt.Errorf("failed to dial relay: %w", err)
	}

	if err := ws.WriteJSON(controlMessage{
		Type:      "session.start",
		SessionID: c.sessionID,
		Character: c.config.Character,
		Style:     c.config.Style,
		Voice:     c.config.Voice,
	}); err != nil {
		_ = ws.Close()
		c.failConnect(span, fmt.Errorf("failed to start relay session: %w", err))
		return fmt.Errorf("failed to start relay session: %w", err)
	}

	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()
	go c.processIncomingMessages(ws)

	select {
	case err := <-ready:
		if err != nil {
			_ = ws.Close()
			c.failConnect(span, err)
			return err
		}
	case <-time.After(c.config.HandshakeTimeout):
		_ = ws.Close()
		err := fmt.Errorf("relay handshake timed out")
		c.failConnect(span, err)
		return err
	case <-ctx.Done():
		_ = ws.Close()
		c.failConnect(span, ctx.Err())
		return ctx.Err()
	}

	c.mu.Lock()
	c.setStateLocked(media.StateConnected)
	c.mu.Unlock()
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	ws := c.ws
	c.ws = nil
	c.setStateLocked(media.StateDisconnected)
	c.mu.Unlock()

	if ws == nil {
		return nil
	}

	_ = ws.WriteJSON(controlMessage{Type: "session.stop", SessionID: c.sessionID})
	if err := ws.Close(); err != nil {
		return fmt.Errorf("failed to close relay websocket: %w", err)
	}
	return nil
}

func (c *Client) State() media.ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) PlaybackPosition() time.Duration {
	return time.Duration(c.positionMs.Load()) * time.Millisecond
}

func (c *Client) SendAudio(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ws == nil {
		return fmt.Errorf("relay session not connected")
	}
	if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("failed to write audio frame to relay: %w", err)
	}
	return nil
}

// callers must hold c.mu
func (c *Client) setStateLocked(state media.ConnectionState) {
	if c.state == state {
		return
	}
	c.state = state
	go c.options.StateChangedCallback(state)
}

func (c *Client) failConnect(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	c.mu.Lock()
	c.ws = nil
	c.setStateLocked(media.StateFailed)
	c.mu.Unlock()
}

func (c *Client) processIncomingMessages(ws *websocket.Conn) {
	for {
		msgType, msg, err := ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.ws == ws {
				c.ws = nil
				c.setStateLocked(media.StateFailed)
			}
			if c.ready != nil {
				select {
				case c.ready <- fmt.Errorf("relay stream closed: %w", err):
				default:
				}
			}
			c.mu.Unlock()
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			c.options.AudioCallback(msg)
		case websocket.TextMessage:
			c.processControlMessage(msg)
		}
	}
}

func (c *Client) processControlMessage(msg []byte) {
	var parsed controlMessage
	if err := json.Unmarshal(msg, &parsed); err != nil {
		logger.Warn("failed to unmarshal relay message", "error", err)
		return
	}

	switch parsed.Type {
	case "session.ready":
		c.mu.Lock()
		if c.ready != nil {
			select {
			case c.ready <- nil:
			default:
			}
		}
		c.mu.Unlock()
	case "media.position":
		c.positionMs.Store(parsed.PositionMs)
	case "session.closed":
		c.mu.Lock()
		c.ws = nil
		c.setStateLocked(media.StateDisconnected)
		c.mu.Unlock()
	}
}

type controlMessage struct {
	Type       string `json:"type"`
	SessionID  string `json:"session_id,omitempty"`
	Character  string `json:"character,omitempty"`
	Style      string `json:"style,omitempty"`
	Voice      string `json:"voice,omitempty"`
	PositionMs int64  `json:"position_ms,omitempty"`
	Reason     string `json:"reason,omitempty"`
}
