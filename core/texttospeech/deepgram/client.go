// Package deepgram implements the synthesizer boundary on top of the
// deepgram speak websocket. Text in, PCM frames out; one Flushed message per
// spoken utterance signals completion.
package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ava-core/core/audio"
	"github.com/koscakluka/ava-core/core/texttospeech"
)

// ErrSpeechCancelled is returned from Speak when Stop discards the utterance
// before synthesis finished.
var ErrSpeechCancelled = errors.New("speech cancelled")

type deepgramVoice string

const (
	VoiceAuraAsteria deepgramVoice = "aura-asteria-en"
	VoiceAuraLuna    deepgramVoice = "aura-luna-en"
	VoiceAuraOrion   deepgramVoice = "aura-orion-en"
	VoiceAuraAthena  deepgramVoice = "aura-athena-en"

	defaultVoice = VoiceAuraAsteria
)

func GetAvailableVoices() []deepgramVoice {
	return []deepgramVoice{VoiceAuraAsteria, VoiceAuraLuna, VoiceAuraOrion, VoiceAuraAthena}
}

type SpeechClient struct {
	voice   deepgramVoice
	options texttospeech.TextToSpeechOptions

	mu      sync.Mutex
	ws      *websocket.Conn
	pending []chan error
	closed  bool
}

func NewSpeechClient(voice deepgramVoice, opts ...texttospeech.TextToSpeechOption) (*SpeechClient, error) {
	if !slices.Contains(GetAvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	client := &SpeechClient{
		voice: voice,
		options: texttospeech.TextToSpeechOptions{
			SpeechAudioCallback: func([]byte) {},
			ErrorCallback:       func(error) {},
			EncodingInfo:        audio.GetDefaultEncodingInfo(),
		},
	}
	for _, opt := range opts {
		opt(&client.options)
	}

	return client, nil
}

// Speak synthesizes one utterance and returns once all of its audio has been
// produced. Utterances sent while another is in flight are synthesized in
// send order.
func (c *SpeechClient) Speak(ctx context.Context, text string) error {
	done := make(chan error, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("speech client is closed")
	}
	if c.ws == nil {
		ws, err := connectWebsocket(c.voice, c.options.EncodingInfo)
		if err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to open websocket: %w", err)
		}
		c.ws = ws
		go c.processIncomingMessages(ws)
	}
	c.pending = append(c.pending, done)

	if err := c.writeMessage(speakMsg(text)); err != nil {
		c.dropPending(done)
		c.mu.Unlock()
		return err
	}
	if err := c.writeMessage(flushMsg); err != nil {
		c.dropPending(done)
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop discards the in-flight utterance and anything buffered behind it.
// Safe to call with nothing in flight.
func (c *SpeechClient) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ws == nil {
		return nil
	}

	if err := c.writeMessage(clearMsg); err != nil {
		return fmt.Errorf("failed to clear speech buffer: %w", err)
	}

	c.failPending(ErrSpeechCancelled)
	return nil
}

func (c *SpeechClient) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.failPending(ErrSpeechCancelled)

	if c.ws == nil {
		return nil
	}
	ws := c.ws
	c.ws = nil
	if err := ws.Close(); err != nil {
		return fmt.Errorf("failed to close speak websocket: %w", err)
	}
	return nil
}

// callers must hold c.mu
func (c *SpeechClient) writeMessage(msg any) error {
	if err := c.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to speak websocket: %w", err)
	}
	return nil
}

// callers must hold c.mu
func (c *SpeechClient) dropPending(done chan error) {
	for i, pending := range c.pending {
		if pending == done {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// callers must hold c.mu
func (c *SpeechClient) failPending(err error) {
	for _, pending := range c.pending {
		pending <- err
	}
	c.pending = nil
}

func (c *SpeechClient) processIncomingMessages(ws *websocket.Conn) {
	for {
		msgType, msg, err := ws.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" {
				logger.Warn("speak websocket read error", "error", err)
				c.options.ErrorCallback(err)
			}

			c.mu.Lock()
			if c.ws == ws {
				c.ws = nil
			}
			c.failPending(fmt.Errorf("speak stream closed: %w", err))
			c.mu.Unlock()
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			c.options.SpeechAudioCallback(msg)
		case websocket.TextMessage:
			var parsedMsg struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				continue
			}

			if parsedMsg.Type == "Flushed" {
				c.mu.Lock()
				if len(c.pending) > 0 {
					c.pending[0] <- nil
					c.pending = c.pending[1:]
				}
				c.mu.Unlock()
			}
		}
	}
}

func connectWebsocket(voice deepgramVoice, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	urlValues := url.Values{}
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(voice))
	urlValues.Set("container", "none")

	conn, _, err := websocket.DefaultDialer.Dial(
		(&url.URL{
			Scheme: "wss",
			Host:   "api.deepgram.com", Path: "/v1/speak",
			RawQuery: urlValues.Encode(),
		}).String(),
		http.Header{"Authorization": {"token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

type speakMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

func speakMsg(text string) speakMessage {
	return speakMessage{Type: "Speak", Text: text}
}

var (
	flushMsg = speakMessage{Type: "Flush"}
	clearMsg = speakMessage{Type: "Clear"}
)
