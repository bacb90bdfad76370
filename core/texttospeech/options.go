package texttospeech

import (
	"context"

	"github.com/koscakluka/ava-core/core/audio"
)

// Synthesizer is the boundary to a speech synthesis / avatar service. Speak
// returns once the utterance has been fully synthesized (or failed); Stop
// aborts the in-flight utterance and discards buffered speech.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
	Stop(ctx context.Context) error
}

type TextToSpeechOptions struct {
	// SpeechAudioCallback is called for every synthesized audio frame.
	SpeechAudioCallback func(audio []byte)
	// ErrorCallback is called when the synthesis stream fails out of band.
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type TextToSpeechOption func(*TextToSpeechOptions)

func WithSpeechAudioCallback(callback func([]byte)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.SpeechAudioCallback = callback
	}
}

func WithErrorCallback(callback func(error)) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		o.ErrorCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TextToSpeechOption {
	return func(o *TextToSpeechOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}
