package events

// KindSessionStateChanged identifies a session lifecycle transition.
const KindSessionStateChanged Kind = "session.state_changed"

// SessionStateChanged reports that the session moved between lifecycle
// states. States are carried as their string names so receivers do not need
// the coordination package.
type SessionStateChanged struct {
	Base
	Previous string
	Current  string
}

// NewSessionStateChanged creates a session state change event.
func NewSessionStateChanged(previous, current string) SessionStateChanged {
	return SessionStateChanged{
		Base:     NewBase(KindSessionStateChanged),
		Previous: previous,
		Current:  current,
	}
}
