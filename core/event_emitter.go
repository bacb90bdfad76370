package coordination

import events "github.com/koscakluka/ava-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts CoordinateOptions, transcript *transcript) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.SessionStateChanged:
			if opts.onSessionStateChanged != nil {
				opts.onSessionStateChanged(typedEvent.Previous, typedEvent.Current)
			}
		case events.TranscriptEntryAdded:
			if opts.onTranscriptEntry != nil {
				opts.onTranscriptEntry(transcript.entryByID(typedEvent.EntryID))
			}
		case events.CaptionShown:
			if opts.onCaptionShown != nil {
				opts.onCaptionShown(typedEvent.Text)
			}
		case events.CaptionHidden:
			if opts.onCaptionHidden != nil {
				opts.onCaptionHidden()
			}
		case events.UtteranceStarted:
			if opts.onUtteranceStarted != nil {
				opts.onUtteranceStarted(typedEvent.Text)
			}
		case events.PlaybackEnded:
			if opts.onPlaybackEnded != nil {
				opts.onPlaybackEnded(typedEvent.Cancelled)
			}
		case events.ControlsChanged:
			if opts.onControlsChanged != nil {
				opts.onControlsChanged(typedEvent.StartEnabled, typedEvent.StopEnabled, typedEvent.InputEnabled)
			}
		case events.NoticeRaised:
			if opts.onNotice != nil {
				opts.onNotice(typedEvent.Message)
			}
		}
	}
}
