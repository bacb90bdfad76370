// Package events defines the typed coordination event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - session.*
//   - transcript.*
//   - caption.*
//   - playback.*
//   - controls.*
//   - notice.*
//
// session events
//
//   - SessionStateChanged (session.state_changed): the session lifecycle
//     moved to a new state.
//
// transcript events
//
//   - TranscriptEntryAdded (transcript.entry_added): a message was appended
//     to the conversation log. The log is append-only; entries are never
//     rewritten.
//
// caption events
//
//   - CaptionShown (caption.shown): caption text became visible, usually as
//     its utterance starts playing.
//   - CaptionHidden (caption.hidden): the caption auto-hide delay elapsed or
//     playback was cancelled.
//
// playback events
//
//   - PlaybackStarted (playback.started): the queue left idle and the first
//     utterance started playing.
//   - UtteranceStarted (playback.utterance_started): a queued utterance
//     started playing.
//   - UtteranceEnded (playback.utterance_ended): a queued utterance finished
//     or failed.
//   - PlaybackEnded (playback.ended): the queue drained or was cancelled and
//     returned to idle.
//
// controls events
//
//   - ControlsChanged (controls.changed): which session controls the
//     rendering surface should enable, derived from the session state.
//
// notice events
//
//   - NoticeRaised (notice.raised): a user-facing notice about a failure.
//     Exactly one notice is raised per failed backend exchange.
package events
