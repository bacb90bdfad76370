// Package config loads the coordinator's startup configuration from the
// environment. It is read once, before the first session start; nothing in
// it is reloaded at runtime.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultSystemPrompt = "You are a helpful concierge assistant. Keep replies short, factual and speakable."

type Config struct {
	// Speech service credentials and placement.
	SpeechKey    string `env:"AVA_SPEECH_KEY"`
	SpeechRegion string `env:"AVA_SPEECH_REGION" envDefault:"westeurope"`

	// Avatar persona rendered by the media relay.
	AvatarCharacter string `env:"AVA_AVATAR_CHARACTER" envDefault:"lisa"`
	AvatarStyle     string `env:"AVA_AVATAR_STYLE" envDefault:"casual-sitting"`
	Voice           string `env:"AVA_VOICE" envDefault:"aura-asteria-en"`

	// Recognition locales, most preferred first.
	RecognitionLocales []string `env:"AVA_RECOGNITION_LOCALES" envSeparator:"," envDefault:"en-US"`

	// Endpoints of the collaborating services.
	ChatEndpoint string `env:"AVA_CHAT_ENDPOINT"`
	RelayURL     string `env:"AVA_RELAY_URL"`

	// SystemPrompt seeds the conversation log.
	SystemPrompt string `env:"AVA_SYSTEM_PROMPT"`

	// CaptionHideDelay is how long a caption stays visible after its
	// utterance starts.
	CaptionHideDelay time.Duration `env:"AVA_CAPTION_HIDE_DELAY" envDefault:"4s"`

	// Liveness watchdog timings.
	WatchdogInterval time.Duration `env:"AVA_WATCHDOG_INTERVAL" envDefault:"2s"`
	WatchdogProbe    time.Duration `env:"AVA_WATCHDOG_PROBE" envDefault:"2s"`

	// AlignDisplayWithSpeech makes assistant text appear chunk by chunk as
	// each utterance starts playing instead of all at once.
	AlignDisplayWithSpeech bool `env:"AVA_ALIGN_DISPLAY_WITH_SPEECH" envDefault:"true"`
}

// Load parses the environment and validates the values a session cannot
// start without.
func Load() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ChatEndpoint) == "" {
		missing = append(missing, "AVA_CHAT_ENDPOINT")
	}
	if strings.TrimSpace(c.Voice) == "" {
		missing = append(missing, "AVA_VOICE")
	}
	if len(c.RecognitionLocales) == 0 {
		missing = append(missing, "AVA_RECOGNITION_LOCALES")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.WatchdogInterval <= 0 || c.WatchdogProbe <= 0 {
		return fmt.Errorf("watchdog interval and probe must be positive")
	}
	if c.CaptionHideDelay < 0 {
		return fmt.Errorf("caption hide delay must not be negative")
	}

	return nil
}

// EffectiveSystemPrompt returns the configured system prompt, or the default
// when none was provided.
func (c Config) EffectiveSystemPrompt() string {
	if strings.TrimSpace(c.SystemPrompt) == "" {
		return defaultSystemPrompt
	}
	return c.SystemPrompt
}
