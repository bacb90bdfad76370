package coordination

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/koscakluka/ava-core/core/media"
)

const (
	defaultWatchdogInterval = 2 * time.Second
	defaultWatchdogProbe    = 2 * time.Second
)

// watchdog periodically checks that a session which claims to be speaking is
// actually making playback progress. A session whose playback position does
// not advance across the probe window is declared dead.
type watchdog struct {
	session media.Session
	// isSpeaking gates the probe so silence between turns is never
	// mistaken for a stall.
	isSpeaking func() bool
	// onStall is called at most once at a time. A new stall is only
	// reported after the previous recovery attempt finished.
	onStall func(context.Context)

	interval time.Duration
	probe    time.Duration

	recovering atomic.Bool
	done       chan struct{}
}

func newWatchdog(session media.Session, isSpeaking func() bool, onStall func(context.Context)) *watchdog {
	return &watchdog{
		session:    session,
		isSpeaking: isSpeaking,
		onStall:    onStall,
		interval:   defaultWatchdogInterval,
		probe:      defaultWatchdogProbe,
		done:       make(chan struct{}),
	}
}

func (w *watchdog) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if w.recovering.Load() {
			continue
		}
		if w.session.State() != media.StateConnected || !w.isSpeaking() {
			continue
		}

		before := w.session.PlaybackPosition()
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			return
		case <-time.After(w.probe):
		}

		if !w.isSpeaking() || w.session.State() != media.StateConnected {
			continue
		}
		if w.session.PlaybackPosition() != before {
			continue
		}

		if !w.recovering.CompareAndSwap(false, true) {
			continue
		}
		logger.WarnContext(ctx, "Playback made no progress, declaring session dead",
			"position", before, "probe", w.probe)
		go func() {
			defer w.recovering.Store(false)
			w.onStall(ctx)
		}()
	}
}

func (w *watchdog) stop() {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
}
