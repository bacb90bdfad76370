package chats

import "time"

type AskOptions struct {
	// History is the full conversation so far, oldest first. Clients for
	// session-stateful backends may ignore everything but the last user
	// message.
	History []Message

	// Timeout bounds a single backend round trip. Zero means the client
	// default.
	Timeout time.Duration
}

type AskOption func(*AskOptions)

func WithHistory(history []Message) AskOption {
	return func(o *AskOptions) {
		o.History = history
	}
}

func WithTimeout(timeout time.Duration) AskOption {
	return func(o *AskOptions) {
		o.Timeout = timeout
	}
}
