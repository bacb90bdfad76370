package events

// KindTranscriptEntryAdded identifies an appended conversation log entry.
const KindTranscriptEntryAdded Kind = "transcript.entry_added"

// TranscriptEntryAdded reports a message appended to the conversation log.
type TranscriptEntryAdded struct {
	Base
	EntryID string
	Role    string
	Content string
}

func (t TranscriptEntryAdded) String() string {
	return t.Content
}

// NewTranscriptEntryAdded creates a transcript entry event.
func NewTranscriptEntryAdded(entryID, role, content string) TranscriptEntryAdded {
	return TranscriptEntryAdded{
		Base:    NewBase(KindTranscriptEntryAdded),
		EntryID: entryID,
		Role:    role,
		Content: content,
	}
}
