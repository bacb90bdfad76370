// Package miniaudio provides local microphone capture and speaker playback
// through malgo. The client doubles as a loopback media session for headless
// setups: synthesized audio goes straight to the speakers and the playback
// position is derived from how much audio the output device consumed.
package miniaudio

import (
	"context"
	"fmt"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ava-core/core/audio"
	"github.com/koscakluka/ava-core/core/media"
)

type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackClient
	captureClient
}

var _ media.Session = (*Client)(nil)

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := Client{audioContext: audioCtx}

	if err := client.playbackClient.Init(audioCtx); err != nil {
		client.teardown()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}

	if err := client.captureClient.Init(audioCtx); err != nil {
		client.teardown()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	return c.captureClient.Start(onAudio)
}

func (c *Client) StopCapture() error {
	return c.captureClient.Stop()
}

// Connect starts the playback device so synthesized audio can be rendered.
func (c *Client) Connect(_ context.Context) error {
	return c.playbackClient.Start()
}

func (c *Client) Close(_ context.Context) error {
	c.teardown()
	return nil
}

func (c *Client) State() media.ConnectionState {
	c.playbackClient.mu.Lock()
	defer c.playbackClient.mu.Unlock()

	if c.playbackClient.device != nil && c.playbackClient.device.IsStarted() {
		return media.StateConnected
	}
	return media.StateDisconnected
}

func (c *Client) PlaybackPosition() time.Duration {
	byteRate := c.EncodingInfo().BytesPerSecond()
	if byteRate <= 0 {
		return 0
	}
	return time.Duration(c.playbackClient.PlayedBytes()) * time.Second / time.Duration(byteRate)
}

func (c *Client) SendAudio(frame []byte) error {
	return c.playbackClient.SendAudio(frame)
}

func (c *Client) ClearBuffer() {
	c.playbackClient.ClearBuffer()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.GetDefaultEncodingInfo()
}

func (c *Client) teardown() {
	_ = c.captureClient.Uninit()
	_ = c.playbackClient.Uninit()
	_ = c.audioContext.Uninit()
	c.audioContext.Free()
}
