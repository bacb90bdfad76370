package coordination

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/koscakluka/ava-core/core/chats"
)

// TranscriptEntry is a single recorded message of the conversation.
type TranscriptEntry struct {
	ID        string
	Role      chats.Role
	Content   string
	Timestamp time.Time
}

// transcript is the append-only conversation log. The first entry is always
// the single system message; entries are never rewritten or removed.
type transcript struct {
	mu      sync.Mutex
	entries []TranscriptEntry
}

func newTranscript(systemPrompt string) *transcript {
	t := &transcript{}
	t.entries = append(t.entries, TranscriptEntry{
		ID:        uuid.NewString(),
		Role:      chats.RoleSystem,
		Content:   systemPrompt,
		Timestamp: time.Now(),
	})
	return t
}

func (t *transcript) append(role chats.Role, content string) TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := TranscriptEntry{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	t.entries = append(t.entries, entry)
	return entry
}

// Snapshot returns a deep copy of the log, safe to hand to callbacks.
func (t *transcript) Snapshot() []TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var snapshot []TranscriptEntry
	if err := copier.CopyWithOption(&snapshot, &t.entries, copier.Option{DeepCopy: true}); err != nil {
		logger.Error("Failed to copy transcript entries", "error", err)
		return nil
	}
	return snapshot
}

// History renders the log as chat messages, system message included, for
// backends that accept full history.
func (t *transcript) History() []chats.Message {
	t.mu.Lock()
	defer t.mu.Unlock()

	messages := make([]chats.Message, 0, len(t.entries))
	for _, entry := range t.entries {
		messages = append(messages, chats.Message{Role: entry.Role, Content: entry.Content})
	}
	return messages
}

func (t *transcript) entryByID(id string) TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, entry := range t.entries {
		if entry.ID == id {
			return entry
		}
	}
	return TranscriptEntry{}
}

func (t *transcript) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
