// Package coordination runs an avatar chat session end to end. It owns the
// session lifecycle, the conversation log, the speech playback queue and the
// liveness watchdog, and wires the chat backend, speech synthesis and media
// transport together behind a single coordinator.
package coordination

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"

	"github.com/koscakluka/ava-core/core/chats"
	"github.com/koscakluka/ava-core/core/config"
	"github.com/koscakluka/ava-core/core/events"
	"github.com/koscakluka/ava-core/core/media"
	"github.com/koscakluka/ava-core/core/speechtotext"
	"github.com/koscakluka/ava-core/core/texttospeech"
)

const defaultCaptionHideDelay = 4 * time.Second

type Coordinator struct {
	chat        ChatClient
	synthesizer texttospeech.Synthesizer
	media       media.Session
	recognizer  SpeechRecognizer
	cfg         config.Config

	mu           sync.Mutex
	stateChanged *sync.Cond
	state        SessionState
	sessionID    string
	userClosed   bool
	cancelRun    context.CancelFunc

	transcript *transcript
	queue      *speechQueue
	pending    *queryBuffer
	watchdog   *watchdog
	emit       eventEmitter

	captionVisible bool
	captionTimer   *time.Timer
}

// NewCoordinator assembles a coordinator from the provided clients. A chat
// client and a synthesizer are required; a media session and a speech
// recognizer are optional.
func NewCoordinator(opts ...CoordinatorOption) (*Coordinator, error) {
	c := &Coordinator{
		state: SessionDisconnected,
		emit:  noopEventEmitter,
		cfg: config.Config{
			AlignDisplayWithSpeech: true,
			CaptionHideDelay:       defaultCaptionHideDelay,
		},
	}
	c.stateChanged = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}

	if c.chat == nil {
		return nil, newFailure(ConfigurationFailure, fmt.Errorf("a chat client is required"))
	}
	if c.synthesizer == nil {
		return nil, newFailure(ConfigurationFailure, fmt.Errorf("a synthesizer is required"))
	}
	if c.cfg.CaptionHideDelay == 0 {
		c.cfg.CaptionHideDelay = defaultCaptionHideDelay
	}

	return c, nil
}

// Start begins a new session. The coordinator moves to connecting
// immediately and to active once media is flowing; queries submitted in
// between are buffered and answered in order once the session is usable.
// Starting an already started coordinator is a no-op.
func (c *Coordinator) Start(ctx context.Context, opts ...CoordinateOption) error {
	c.mu.Lock()
	if c.state != SessionDisconnected {
		c.mu.Unlock()
		return nil
	}

	options := CoordinateOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	c.sessionID = uuid.NewString()
	c.userClosed = false
	c.transcript = newTranscript(c.cfg.EffectiveSystemPrompt())
	c.pending = newQueryBuffer()
	c.emit = c.interceptCaptions(newCallbackEventEmitter(options, c.transcript))
	c.queue = newSpeechQueue(c.synthesizer, func(event events.Event) { c.emit(event) }, c.onSynthesisFailure)
	c.state = SessionConnecting

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancelRun = cancel
	c.mu.Unlock()

	c.emit(events.NewSessionStateChanged(SessionDisconnected.String(), SessionConnecting.String()))
	c.emit(controlsFor(SessionConnecting))
	logger.InfoContext(ctx, "Starting session", "sessionID", c.sessionID)

	go c.connectAndRun(runCtx)
	return nil
}

// Stop ends the session. Stopping while connecting lets the in-flight
// attempt settle and resolves to disconnected. Stopping an already stopped
// coordinator is a no-op.
func (c *Coordinator) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.state == SessionDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.userClosed = true
	connecting := c.state == SessionConnecting
	cancel := c.cancelRun
	c.stateChanged.Broadcast()
	c.mu.Unlock()

	if connecting {
		// The connect goroutine observes userClosed and finishes the
		// teardown itself.
		if cancel != nil {
			cancel()
		}
		return nil
	}

	c.teardown(ctx)
	c.transitionTo(ctx, SessionDisconnected)
	if cancel != nil {
		cancel()
	}
	return nil
}

// SubmitQuery records a user query and answers it. While the session is
// still connecting the query is buffered and answered once it becomes
// active. A query submitted while the avatar is speaking interrupts the
// current playback first.
func (c *Coordinator) SubmitQuery(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query must not be blank")
	}

	c.mu.Lock()
	state := c.state
	pending := c.pending
	queue := c.queue
	c.mu.Unlock()

	if state == SessionDisconnected {
		return fmt.Errorf("no session to submit a query to")
	}

	if state == SessionActive && queue != nil && queue.State() == PlaybackSpeaking {
		queue.CancelAll(ctx)
	}

	pending.Add(query)
	return nil
}

// State reports the current session lifecycle state.
func (c *Coordinator) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// PlaybackState reports whether the avatar is currently speaking.
func (c *Coordinator) PlaybackState() PlaybackState {
	c.mu.Lock()
	queue := c.queue
	c.mu.Unlock()
	if queue == nil {
		return PlaybackIdle
	}
	return queue.State()
}

// SessionID returns the id of the current session, or the last one if the
// session already ended.
func (c *Coordinator) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Transcript returns a copy of the conversation log so far.
func (c *Coordinator) Transcript() []TranscriptEntry {
	c.mu.Lock()
	transcript := c.transcript
	c.mu.Unlock()
	if transcript == nil {
		return nil
	}
	return transcript.Snapshot()
}

// CancelSpeech flushes the playback queue and stops the current utterance.
func (c *Coordinator) CancelSpeech(ctx context.Context) {
	c.mu.Lock()
	queue := c.queue
	c.mu.Unlock()
	if queue != nil {
		queue.CancelAll(ctx)
	}
}

func (c *Coordinator) connectAndRun(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "connect session")
	defer span.End()

	var connectErr error
	if c.media != nil {
		connectErr = c.media.Connect(ctx)
	}

	c.mu.Lock()
	closed := c.userClosed
	c.mu.Unlock()

	if closed {
		c.teardown(ctx)
		c.transitionTo(ctx, SessionDisconnected)
		return
	}

	if connectErr != nil {
		failure := newFailure(ConnectionFailure, connectErr)
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Error())
		c.emit(events.NewNoticeRaised("Could not reach the avatar service. Please try again later.", string(ConnectionFailure)))
		c.transitionTo(ctx, SessionDisconnected)
		return
	}

	c.transitionTo(ctx, SessionActive)

	c.mu.Lock()
	queue := c.queue
	pending := c.pending
	c.mu.Unlock()

	go queue.loop(ctx)

	if c.media != nil {
		c.mu.Lock()
		c.watchdog = newWatchdog(c.media, func() bool {
			return queue.State() == PlaybackSpeaking
		}, c.recoverSession)
		if c.cfg.WatchdogInterval > 0 {
			c.watchdog.interval = c.cfg.WatchdogInterval
		}
		if c.cfg.WatchdogProbe > 0 {
			c.watchdog.probe = c.cfg.WatchdogProbe
		}
		watchdog := c.watchdog
		c.mu.Unlock()
		go watchdog.run(ctx)
	}

	if c.recognizer != nil {
		err := c.recognizer.StartContinuous(ctx,
			speechtotext.WithLanguages(c.cfg.RecognitionLocales...),
			speechtotext.WithTranscriptionCallback(func(transcript string) {
				if err := c.SubmitQuery(ctx, transcript); err != nil {
					logger.WarnContext(ctx, "Failed to submit transcribed query", "error", err)
				}
			}),
		)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to start speech recognition", "error", err)
			c.emit(events.NewNoticeRaised("Voice input is unavailable.", string(ConnectionFailure)))
		}
	}

	go pending.Queries(func(query string) bool {
		// A query taken out of the buffer waits here while the session is
		// recovering; the backend only sees queries from an active session.
		if !c.awaitActive(ctx) {
			return false
		}
		c.processQuery(ctx, query)
		return true
	})
}

// awaitActive blocks until the session is active again, reporting false once
// the session is gone for good.
func (c *Coordinator) awaitActive(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.state != SessionActive {
		if c.state == SessionDisconnected || c.userClosed || ctx.Err() != nil {
			return false
		}
		c.stateChanged.Wait()
	}
	return true
}

// processQuery runs a single user turn: log the query, ask the backend, log
// the reply and queue it for speech.
func (c *Coordinator) processQuery(ctx context.Context, query string) {
	ctx, span := tracer.Start(ctx, "process query")
	defer span.End()

	c.mu.Lock()
	transcript := c.transcript
	queue := c.queue
	sessionID := c.sessionID
	c.mu.Unlock()

	userEntry := transcript.append(chats.RoleUser, query)
	c.emit(events.NewTranscriptEntryAdded(userEntry.ID, string(userEntry.Role), userEntry.Content))

	reply, err := c.chat.Ask(ctx, sessionID, query, chats.WithHistory(transcript.History()))
	if err != nil {
		failure := newFailure(BackendFailure, err)
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Error())
		logger.ErrorContext(ctx, "Chat backend failed to answer", "error", err, "sessionID", sessionID)
		c.emit(events.NewNoticeRaised("I could not get an answer just now. Please try again.", string(BackendFailure)))
		return
	}

	assistantEntry := transcript.append(chats.RoleAssistant, reply)
	c.emit(events.NewTranscriptEntryAdded(assistantEntry.ID, string(assistantEntry.Role), assistantEntry.Content))

	chunks := splitSpeechChunks(reply)
	requests := make([]SpeechRequest, 0, len(chunks))
	for _, chunk := range chunks {
		requests = append(requests, SpeechRequest{Text: chunk})
	}
	queue.Enqueue(requests...)
}

func (c *Coordinator) onSynthesisFailure(err error) {
	logger.Error("Failed to synthesize an utterance", "error", err)
}

// recoverSession replaces the media session after the watchdog declared it
// dead. Only one recovery runs at a time; the watchdog enforces that.
func (c *Coordinator) recoverSession(ctx context.Context) {
	c.mu.Lock()
	if c.state != SessionActive || c.userClosed {
		c.mu.Unlock()
		return
	}
	queue := c.queue
	c.mu.Unlock()

	ctx, span := tracer.Start(ctx, "recover session")
	defer span.End()

	c.transitionTo(ctx, SessionReconnecting)
	queue.CancelAll(ctx)

	if err := c.media.Close(ctx); err != nil {
		logger.WarnContext(ctx, "Failed to close dead media session", "error", err)
	}
	if err := c.media.Connect(ctx); err != nil {
		failure := newFailure(LivenessFailure, err)
		span.RecordError(failure)
		span.SetStatus(codes.Error, failure.Error())
		c.emit(events.NewNoticeRaised("The avatar connection was lost and could not be restored.", string(LivenessFailure)))
		c.teardown(ctx)
		c.transitionTo(ctx, SessionDisconnected)
		return
	}

	c.transitionTo(ctx, SessionActive)
	logger.InfoContext(ctx, "Recovered a dead media session", "sessionID", c.SessionID())
}

func (c *Coordinator) teardown(ctx context.Context) {
	c.mu.Lock()
	queue := c.queue
	pending := c.pending
	watchdog := c.watchdog
	c.watchdog = nil
	c.mu.Unlock()

	if watchdog != nil {
		watchdog.stop()
	}
	if pending != nil {
		if discarded := pending.Drain(); len(discarded) > 0 {
			logger.InfoContext(ctx, "Discarding unanswered queries", "count", len(discarded))
		}
		pending.Close()
	}
	if queue != nil {
		queue.Close(ctx)
	}
	if c.recognizer != nil {
		if err := c.recognizer.StopContinuous(ctx); err != nil {
			logger.WarnContext(ctx, "Failed to stop speech recognition", "error", err)
		}
	}
	if c.media != nil {
		if err := c.media.Close(ctx); err != nil {
			logger.WarnContext(ctx, "Failed to close media session", "error", err)
		}
	}
	c.hideCaption()
}

func (c *Coordinator) transitionTo(ctx context.Context, next SessionState) {
	c.mu.Lock()
	previous := c.state
	if previous == next {
		c.mu.Unlock()
		return
	}
	if !previous.canTransitionTo(next) {
		c.mu.Unlock()
		logger.WarnContext(ctx, "Refusing an illegal session transition",
			"from", previous.String(), "to", next.String())
		return
	}
	c.state = next
	c.stateChanged.Broadcast()
	c.mu.Unlock()

	logger.InfoContext(ctx, "Session state changed", "from", previous.String(), "to", next.String())
	c.emit(events.NewSessionStateChanged(previous.String(), next.String()))
	c.emit(controlsFor(next))
}

// controlsFor maps a session state to the control surface the renderer
// should offer. Input stays enabled while connecting so early queries can be
// buffered.
func controlsFor(state SessionState) events.ControlsChanged {
	switch state {
	case SessionDisconnected:
		return events.NewControlsChanged(true, false, false)
	default:
		return events.NewControlsChanged(false, true, true)
	}
}

// interceptCaptions derives caption events from playback events. Each
// utterance shows its text as a caption; the caption hides after the
// configured delay or as soon as playback ends.
func (c *Coordinator) interceptCaptions(next eventEmitter) eventEmitter {
	return func(event events.Event) {
		next(event)
		switch typedEvent := event.(type) {
		case events.UtteranceStarted:
			if c.cfg.AlignDisplayWithSpeech {
				c.showCaption(typedEvent.Text, next)
			}
		case events.PlaybackEnded:
			// The hide timer covers the natural drain; only a cancelled
			// playback clears the caption immediately.
			if typedEvent.Cancelled {
				c.hideCaptionVia(next)
			}
		}
	}
}

func (c *Coordinator) showCaption(text string, next eventEmitter) {
	c.mu.Lock()
	if c.captionTimer != nil {
		c.captionTimer.Stop()
	}
	c.captionVisible = true
	c.captionTimer = time.AfterFunc(c.cfg.CaptionHideDelay, func() {
		c.hideCaptionVia(next)
	})
	c.mu.Unlock()

	next(events.NewCaptionShown(text))
}

func (c *Coordinator) hideCaptionVia(next eventEmitter) {
	c.mu.Lock()
	if !c.captionVisible {
		c.mu.Unlock()
		return
	}
	c.captionVisible = false
	if c.captionTimer != nil {
		c.captionTimer.Stop()
		c.captionTimer = nil
	}
	c.mu.Unlock()

	next(events.NewCaptionHidden())
}

func (c *Coordinator) hideCaption() {
	c.mu.Lock()
	emit := c.emit
	c.mu.Unlock()
	if emit == nil {
		return
	}
	c.hideCaptionVia(emit)
}
