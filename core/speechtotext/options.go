package speechtotext

import "github.com/koscakluka/ava-core/core/audio"

type TranscriptionOptions struct {
	// InterimTranscriptionCallback receives the mutable transcript of the
	// utterance currently being spoken.
	InterimTranscriptionCallback func(transcript string)
	// TranscriptionCallback receives one final transcript per recognized
	// utterance.
	TranscriptionCallback func(transcript string)

	SpeechStartedCallback func()
	SpeechEndedCallback   func()

	// Languages lists the recognition locales to accept, most preferred
	// first. Empty means the client default.
	Languages []string

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithSpeechStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechStartedCallback = callback
	}
}

func WithSpeechEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SpeechEndedCallback = callback
	}
}

func WithLanguages(languages ...string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Languages = languages
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.EncodingInfo = encodingInfo
	}
}
