package events

// KindPlaybackStarted identifies the queue leaving idle.
const KindPlaybackStarted Kind = "playback.started"

// KindUtteranceStarted identifies a queued utterance starting to play.
const KindUtteranceStarted Kind = "playback.utterance_started"

// KindUtteranceEnded identifies a queued utterance finishing or failing.
const KindUtteranceEnded Kind = "playback.utterance_ended"

// KindPlaybackEnded identifies the queue returning to idle.
const KindPlaybackEnded Kind = "playback.ended"

// PlaybackStarted marks the queue leaving idle.
type PlaybackStarted struct{ Base }

// NewPlaybackStarted creates a playback started event.
func NewPlaybackStarted() PlaybackStarted {
	return PlaybackStarted{Base: NewBase(KindPlaybackStarted)}
}

// UtteranceStarted carries the text of the utterance that started playing.
type UtteranceStarted struct {
	Base
	Text string
}

func (u UtteranceStarted) String() string {
	return u.Text
}

// NewUtteranceStarted creates an utterance started event.
func NewUtteranceStarted(text string) UtteranceStarted {
	return UtteranceStarted{Base: NewBase(KindUtteranceStarted), Text: text}
}

// UtteranceEnded marks an utterance finishing. Failed is set when synthesis
// failed and the utterance was skipped.
type UtteranceEnded struct {
	Base
	Text   string
	Failed bool
}

// NewUtteranceEnded creates an utterance ended event.
func NewUtteranceEnded(text string, failed bool) UtteranceEnded {
	return UtteranceEnded{Base: NewBase(KindUtteranceEnded), Text: text, Failed: failed}
}

// PlaybackEnded marks the queue returning to idle. Cancelled is set when the
// queue was flushed instead of draining naturally.
type PlaybackEnded struct {
	Base
	Cancelled bool
}

// NewPlaybackEnded creates a playback ended event.
func NewPlaybackEnded(cancelled bool) PlaybackEnded {
	return PlaybackEnded{Base: NewBase(KindPlaybackEnded), Cancelled: cancelled}
}
