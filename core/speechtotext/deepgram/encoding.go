package deepgram

import (
	"fmt"

	"github.com/koscakluka/ava-core/core/audio"
)

type encodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

type encodingFormat string

func (e encodingFormat) Name() string { return string(e) }

const (
	encodingLinear16 encodingFormat = "linear16"
	encodingALaw     encodingFormat = "alaw"
	encodingMulaw    encodingFormat = "mulaw"
)

// convertEncoding maps the shared encoding metadata onto the subset the
// listen endpoint accepts. Companded formats are only valid at 8kHz.
func convertEncoding(encoding audio.EncodingInfo) (*encodingInfo, error) {
	converted := encodingInfo{}

	switch encoding.SampleRate {
	case 8000, 16000, 24000, 32000, 48000:
		converted.SampleRate = encoding.SampleRate
	default:
		return nil, fmt.Errorf("unsupported sample rate")
	}

	switch encoding.Format {
	case audio.EncodingLinear16:
		converted.Format = encodingLinear16
	case audio.EncodingALaw:
		converted.Format = encodingALaw
	case audio.EncodingMulaw:
		converted.Format = encodingMulaw
	default:
		return nil, fmt.Errorf("unsupported encoding")
	}

	if converted.Format != encodingLinear16 && converted.SampleRate != 8000 {
		return nil, fmt.Errorf("unsupported sample rate for %s encoding", converted.Format.Name())
	}

	return &converted, nil
}
