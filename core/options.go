package coordination

import (
	"context"

	"github.com/koscakluka/ava-core/core/chats"
	"github.com/koscakluka/ava-core/core/config"
	"github.com/koscakluka/ava-core/core/media"
	"github.com/koscakluka/ava-core/core/speechtotext"
	"github.com/koscakluka/ava-core/core/texttospeech"
)

type CoordinatorOption func(*Coordinator)

// ChatClient answers user queries. The backend keeps its own conversation
// state keyed by session id, so only the latest message is sent.
type ChatClient interface {
	Ask(ctx context.Context, sessionID string, message string, opts ...chats.AskOption) (string, error)
}

func WithChatClient(client ChatClient) CoordinatorOption {
	return func(c *Coordinator) {
		c.chat = client
	}
}

func WithSynthesizer(synthesizer texttospeech.Synthesizer) CoordinatorOption {
	return func(c *Coordinator) {
		c.synthesizer = synthesizer
	}
}

func WithMediaSession(session media.Session) CoordinatorOption {
	return func(c *Coordinator) {
		c.media = session
	}
}

// SpeechRecognizer turns microphone audio into user queries. Optional; a
// coordinator without one is text-only.
type SpeechRecognizer interface {
	StartContinuous(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	StopContinuous(ctx context.Context) error
	SendAudio(audio []byte) error
}

func WithSpeechRecognizer(recognizer SpeechRecognizer) CoordinatorOption {
	return func(c *Coordinator) {
		c.recognizer = recognizer
	}
}

func WithConfig(cfg config.Config) CoordinatorOption {
	return func(c *Coordinator) {
		c.cfg = cfg
	}
}

type CoordinateOptions struct {
	onSessionStateChanged func(previous, current string)
	onTranscriptEntry     func(entry TranscriptEntry)
	onCaptionShown        func(text string)
	onCaptionHidden       func()
	onUtteranceStarted    func(text string)
	onPlaybackEnded       func(cancelled bool)
	onControlsChanged     func(startEnabled, stopEnabled, inputEnabled bool)
	onNotice              func(message string)
}

type CoordinateOption func(*CoordinateOptions)

// WithSessionStateChangedCallback registers a callback for session lifecycle
// transitions. States are reported by their string names.
func WithSessionStateChangedCallback(callback func(previous, current string)) CoordinateOption {
	return func(o *CoordinateOptions) {
		o.onSessionStateChanged = callback
	}
}

// WithTranscriptEntryCallback registers a callback for messages appended to
// the conversation log. Entries arrive in log order and are never revised.
func WithTranscriptEntryCallback(callback func(entry TranscriptEntry)) CoordinateOption {
	return func(o *CoordinateOptions) {
		o.onTranscriptEntry = callback
	}
}

func WithCaptionShownCallback(callback func(text string)) CoordinateOption {
	return func(o *CoordinateOptions) {
		o.onCaptionShown = callback
	}
}

func WithCaptionHiddenCallback(callback func()) CoordinateOption {
	return func(o *CoordinateOptions) {
		o.onCaptionHidden = callback
	}
}

// WithUtteranceStartedCallback registers a callback fired as each queued
// utterance starts playing.
func WithUtteranceStartedCallback(callback func(text string)) CoordinateOption {
	return func(o *CoordinateOptions) {
		o.onUtteranceStarted = callback
	}
}

func WithPlaybackEndedCallback(callback func(cancelled bool)) CoordinateOption {
	return func(o *CoordinateOptions) {
		o.onPlaybackEnded = callback
	}
}

// WithControlsChangedCallback registers a callback telling the rendering
// surface which session controls should be usable right now.
func WithControlsChangedCallback(callback func(startEnabled, stopEnabled, inputEnabled bool)) CoordinateOption {
	return func(o *CoordinateOptions) {
		o.onControlsChanged = callback
	}
}

// WithNoticeCallback registers a callback for user-facing failure notices.
// Exactly one notice is raised per failed backend exchange.
func WithNoticeCallback(callback func(message string)) CoordinateOption {
	return func(o *CoordinateOptions) {
		o.onNotice = callback
	}
}
