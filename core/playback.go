package coordination

import (
	"context"
	"sync"
	"time"

	"github.com/koscakluka/ava-core/core/events"
	"github.com/koscakluka/ava-core/core/texttospeech"
)

// PlaybackState describes whether the avatar is currently speaking.
type PlaybackState int

const (
	// PlaybackIdle means the queue is empty and nothing is playing.
	PlaybackIdle PlaybackState = iota
	// PlaybackSpeaking means an utterance is playing or queued.
	PlaybackSpeaking
)

func (s PlaybackState) String() string {
	switch s {
	case PlaybackIdle:
		return "idle"
	case PlaybackSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}

// SpeechRequest is a single utterance waiting in the playback queue.
type SpeechRequest struct {
	Text string
	// TrailingSilence is idle time kept after the utterance finishes,
	// before the next one starts.
	TrailingSilence time.Duration
}

// speechQueue plays utterances strictly in the order they were enqueued. A
// single loop goroutine owns playback; Enqueue and CancelAll never block on
// synthesis.
type speechQueue struct {
	synthesizer texttospeech.Synthesizer
	emit        func(events.Event)
	// onSynthesisFailure is called once per utterance that could not be
	// spoken. The queue itself just moves on to the next one.
	onSynthesisFailure func(error)

	mu         sync.Mutex
	pending    []SpeechRequest
	state      PlaybackState
	generation uint64
	// cancelled records that the current drain was caused by CancelAll, so
	// the closing PlaybackEnded event can say so.
	cancelled bool
	cancelCh  chan struct{}
	closed    bool

	wake chan struct{}
	done chan struct{}
}

func newSpeechQueue(synthesizer texttospeech.Synthesizer, emit func(events.Event), onSynthesisFailure func(error)) *speechQueue {
	if emit == nil {
		emit = func(events.Event) {}
	}
	if onSynthesisFailure == nil {
		onSynthesisFailure = func(error) {}
	}
	return &speechQueue{
		synthesizer:        synthesizer,
		emit:               emit,
		onSynthesisFailure: onSynthesisFailure,
		cancelCh:           make(chan struct{}),
		wake:               make(chan struct{}, 1),
		done:               make(chan struct{}),
	}
}

// Enqueue appends requests to the queue without blocking. If the queue was
// idle, playback starts with the first appended request.
func (q *speechQueue) Enqueue(requests ...SpeechRequest) {
	if len(requests) == 0 {
		return
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, requests...)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// CancelAll flushes every queued utterance and stops the one currently
// playing. Calling it while idle is a no-op.
func (q *speechQueue) CancelAll(ctx context.Context) {
	q.mu.Lock()
	if q.state == PlaybackIdle && len(q.pending) == 0 {
		q.mu.Unlock()
		return
	}
	q.pending = nil
	q.generation++
	close(q.cancelCh)
	q.cancelCh = make(chan struct{})
	wasSpeaking := q.state == PlaybackSpeaking
	if wasSpeaking {
		q.cancelled = true
	}
	q.mu.Unlock()

	if wasSpeaking {
		if err := q.synthesizer.Stop(ctx); err != nil {
			logger.WarnContext(ctx, "Failed to stop synthesis during cancellation", "error", err)
		}
	}
}

// State reports whether the queue is idle or speaking.
func (q *speechQueue) State() PlaybackState {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Close cancels playback and stops the loop goroutine. The queue cannot be
// reused afterwards.
func (q *speechQueue) Close(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.CancelAll(ctx)
	close(q.done)
}

// loop is the single goroutine that owns playback order.
func (q *speechQueue) loop(ctx context.Context) {
	for {
		select {
		case <-q.done:
			return
		case <-ctx.Done():
			return
		case <-q.wake:
		}

		for {
			q.mu.Lock()
			if len(q.pending) == 0 || q.closed {
				var drained, cancelled bool
				if q.state == PlaybackSpeaking {
					q.state = PlaybackIdle
					drained = true
					cancelled = q.cancelled
					q.cancelled = false
				}
				q.mu.Unlock()
				if drained {
					q.emit(events.NewPlaybackEnded(cancelled))
				}
				break
			}

			started := q.state == PlaybackIdle
			q.state = PlaybackSpeaking
			request := q.pending[0]
			q.pending = q.pending[1:]
			generation := q.generation
			cancelCh := q.cancelCh
			q.mu.Unlock()

			if started {
				q.emit(events.NewPlaybackStarted())
			}
			q.emit(events.NewUtteranceStarted(request.Text))

			// A cancellation can land between taking the request out and
			// handing it to the synthesizer. Such a request must not be
			// spoken, it would play to completion since the stop already
			// happened.
			q.mu.Lock()
			if generation != q.generation {
				q.mu.Unlock()
				continue
			}
			q.mu.Unlock()

			err := q.synthesizer.Speak(ctx, request.Text)

			q.mu.Lock()
			stale := generation != q.generation
			q.mu.Unlock()
			if stale {
				// Cancelled mid-utterance, the drain above closes playback.
				continue
			}

			if err != nil {
				q.emit(events.NewUtteranceEnded(request.Text, true))
				q.onSynthesisFailure(newFailure(SynthesisFailure, err))
				continue
			}
			q.emit(events.NewUtteranceEnded(request.Text, false))

			if request.TrailingSilence > 0 {
				select {
				case <-time.After(request.TrailingSilence):
				case <-cancelCh:
				case <-ctx.Done():
				}
			}
		}
	}
}
