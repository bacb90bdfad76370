// Package media defines the boundary to the transport that carries the
// avatar's audio and video to the viewer. Negotiation, tracks and codecs are
// owned by the transport implementation; the coordinator only needs the
// lifecycle, the state notifications and the playback position.
package media

import (
	"context"
	"time"
)

type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateFailed       ConnectionState = "failed"
)

type Session interface {
	// Connect negotiates the media session. It returns once the session is
	// usable or has failed.
	Connect(ctx context.Context) error
	// Close tears the session down. Safe to call on a session that never
	// connected.
	Close(ctx context.Context) error

	State() ConnectionState
	// PlaybackPosition reports how far the remote playback surface has
	// advanced. A position that stops moving while speech is being rendered
	// is how the coordinator detects a hung media path.
	PlaybackPosition() time.Duration

	// SendAudio forwards one synthesized audio frame to the session.
	SendAudio(frame []byte) error
}

type SessionOptions struct {
	// StateChangedCallback is called on every connection state transition.
	StateChangedCallback func(ConnectionState)
	// AudioCallback receives audio frames the remote end sends back, when
	// the transport is bidirectional.
	AudioCallback func([]byte)
}

type SessionOption func(*SessionOptions)

func WithStateChangedCallback(callback func(ConnectionState)) SessionOption {
	return func(o *SessionOptions) {
		o.StateChangedCallback = callback
	}
}

func WithAudioCallback(callback func([]byte)) SessionOption {
	return func(o *SessionOptions) {
		o.AudioCallback = callback
	}
}
