package relay

import (
	"testing"
	"time"

	"github.com/koscakluka/ava-core/core/media"
)

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("expected an error for a missing relay url")
	}
}

func TestPositionMessageUpdatesPlaybackPosition(t *testing.T) {
	client, err := NewClient(Config{URL: "wss://relay.example/media"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	client.processControlMessage([]byte(`{"type":"media.position","position_ms":4250}`))

	if got := client.PlaybackPosition(); got != 4250*time.Millisecond {
		t.Fatalf("expected playback position 4.25s, got %v", got)
	}
}

func TestMalformedControlMessageIsIgnored(t *testing.T) {
	client, err := NewClient(Config{URL: "wss://relay.example/media"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	client.processControlMessage([]byte(`{"type": `))

	if got := client.PlaybackPosition(); got != 0 {
		t.Fatalf("expected playback position to stay at zero, got %v", got)
	}
	if got := client.State(); got != media.StateDisconnected {
		t.Fatalf("expected state to stay disconnected, got %v", got)
	}
}

func TestSessionClosedMessageTransitionsToDisconnected(t *testing.T) {
	stateChanges := make(chan media.ConnectionState, 4)
	client, err := NewClient(
		Config{URL: "wss://relay.example/media"},
		media.WithStateChangedCallback(func(state media.ConnectionState) {
			stateChanges <- state
		}),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	client.mu.Lock()
	client.state = media.StateConnected
	client.mu.Unlock()

	client.processControlMessage([]byte(`{"type":"session.closed","reason":"idle"}`))

	if got := client.State(); got != media.StateDisconnected {
		t.Fatalf("expected disconnected state, got %v", got)
	}
	select {
	case state := <-stateChanges:
		if state != media.StateDisconnected {
			t.Fatalf("expected disconnected notification, got %v", state)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for state change notification")
	}
}

func TestSendAudioWithoutConnectionFails(t *testing.T) {
	client, err := NewClient(Config{URL: "wss://relay.example/media"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.SendAudio([]byte{0x01}); err == nil {
		t.Fatalf("expected an error when sending audio without a connection")
	}
}
