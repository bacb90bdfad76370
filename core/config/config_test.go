package config

import (
	"testing"
	"time"
)

func TestLoadRequiresChatEndpoint(t *testing.T) {
	t.Setenv("AVA_CHAT_ENDPOINT", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("Expected an error when the chat endpoint is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AVA_CHAT_ENDPOINT", "http://localhost:8000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AvatarCharacter != "lisa" {
		t.Errorf("Expected default avatar character \"lisa\", got %q", cfg.AvatarCharacter)
	}
	if cfg.CaptionHideDelay != 4*time.Second {
		t.Errorf("Expected default caption hide delay of 4s, got %v", cfg.CaptionHideDelay)
	}
	if cfg.WatchdogInterval != 2*time.Second || cfg.WatchdogProbe != 2*time.Second {
		t.Errorf("Expected default watchdog timings of 2s, got %v and %v", cfg.WatchdogInterval, cfg.WatchdogProbe)
	}
	if !cfg.AlignDisplayWithSpeech {
		t.Errorf("Expected display alignment to default to enabled")
	}
	if len(cfg.RecognitionLocales) != 1 || cfg.RecognitionLocales[0] != "en-US" {
		t.Errorf("Expected default recognition locales [en-US], got %v", cfg.RecognitionLocales)
	}
	if cfg.EffectiveSystemPrompt() == "" {
		t.Errorf("Expected a non-empty default system prompt")
	}
}

func TestLoadSplitsLocales(t *testing.T) {
	t.Setenv("AVA_CHAT_ENDPOINT", "http://localhost:8000")
	t.Setenv("AVA_RECOGNITION_LOCALES", "hr-HR,en-US")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if len(cfg.RecognitionLocales) != 2 || cfg.RecognitionLocales[0] != "hr-HR" {
		t.Errorf("Expected locales [hr-HR en-US], got %v", cfg.RecognitionLocales)
	}
}

func TestValidateRejectsBadWatchdog(t *testing.T) {
	cfg := Config{
		ChatEndpoint:       "http://localhost:8000",
		Voice:              "aura-asteria-en",
		RecognitionLocales: []string{"en-US"},
		WatchdogInterval:   0,
		WatchdogProbe:      2 * time.Second,
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("Expected an error for a non-positive watchdog interval")
	}
}
