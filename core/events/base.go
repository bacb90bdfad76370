package events

import "time"

// Kind names an event within a dot-separated namespace, such as
// "session.state_changed" or "caption.shown". Renderers route on it.
type Kind string

// Event is what every coordination event satisfies. Events are immutable
// snapshots; the timestamp is when the coordinator observed the change, not
// when a renderer displays it.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and observation time common to all coordination
// events. Concrete events embed it and add their payload fields.
type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
