package deepgram

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestNewSpeechClientRejectsUnknownVoice(t *testing.T) {
	if _, err := NewSpeechClient(deepgramVoice("definitely-not-a-voice")); err == nil {
		t.Fatalf("expected an error for an unknown voice")
	}
}

func TestNewSpeechClientAcceptsEveryAdvertisedVoice(t *testing.T) {
	for _, voice := range GetAvailableVoices() {
		if _, err := NewSpeechClient(voice); err != nil {
			t.Fatalf("expected advertised voice %q to be accepted, got %v", voice, err)
		}
	}
	if !slices.Contains(GetAvailableVoices(), defaultVoice) {
		t.Fatalf("expected the default voice to be advertised")
	}
}

func TestStopWithoutStreamIsNoop(t *testing.T) {
	client, err := NewSpeechClient(defaultVoice)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if err := client.Stop(context.Background()); err != nil {
		t.Fatalf("expected stop without a stream to be a no-op, got %v", err)
	}
}

func TestFailPendingReleasesEveryWaiter(t *testing.T) {
	client, err := NewSpeechClient(defaultVoice)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	first := make(chan error, 1)
	second := make(chan error, 1)
	client.pending = []chan error{first, second}

	client.mu.Lock()
	client.failPending(ErrSpeechCancelled)
	client.mu.Unlock()

	if got := <-first; !errors.Is(got, ErrSpeechCancelled) {
		t.Fatalf("expected first waiter to see cancellation, got %v", got)
	}
	if got := <-second; !errors.Is(got, ErrSpeechCancelled) {
		t.Fatalf("expected second waiter to see cancellation, got %v", got)
	}
	if client.pending != nil {
		t.Fatalf("expected pending list to be cleared")
	}
}
