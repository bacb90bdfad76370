package coordination

import (
	"testing"

	"github.com/koscakluka/ava-core/core/chats"
)

func TestTranscriptStartsWithSystemMessage(t *testing.T) {
	log := newTranscript("You are a helpful assistant.")

	entries := log.Snapshot()
	if len(entries) != 1 {
		t.Fatalf("Expected only the system message, got %d entries", len(entries))
	}
	if entries[0].Role != chats.RoleSystem {
		t.Errorf("Expected a system message, got %q", entries[0].Role)
	}
	if entries[0].Content != "You are a helpful assistant." {
		t.Errorf("Expected the system prompt as content, got %q", entries[0].Content)
	}
	if entries[0].ID == "" {
		t.Errorf("Expected the entry to carry an id")
	}
}

func TestTranscriptSnapshotIsIndependent(t *testing.T) {
	log := newTranscript("system")
	log.append(chats.RoleUser, "hello")

	snapshot := log.Snapshot()
	snapshot[1].Content = "tampered"

	if entries := log.Snapshot(); entries[1].Content != "hello" {
		t.Errorf("Expected the log to be unaffected by snapshot edits, got %q", entries[1].Content)
	}
}

func TestTranscriptHistoryKeepsOrder(t *testing.T) {
	log := newTranscript("system")
	log.append(chats.RoleUser, "question")
	log.append(chats.RoleAssistant, "answer")

	history := log.History()
	if len(history) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(history))
	}
	if history[0].Role != chats.RoleSystem || history[1].Role != chats.RoleUser || history[2].Role != chats.RoleAssistant {
		t.Errorf("Expected system, user, assistant order, got %+v", history)
	}
	if history[1].Content != "question" || history[2].Content != "answer" {
		t.Errorf("Expected message contents preserved, got %+v", history)
	}
}
