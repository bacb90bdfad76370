package coordination

// SessionState describes where the avatar session is in its lifecycle.
type SessionState int

const (
	// SessionDisconnected is the resting state, before a session starts or
	// after it ends.
	SessionDisconnected SessionState = iota
	// SessionConnecting covers the whole startup sequence, from the first
	// connection attempt until media is flowing.
	SessionConnecting
	// SessionActive means the session is established and usable.
	SessionActive
	// SessionReconnecting means the watchdog detected a dead session and a
	// replacement is being established.
	SessionReconnecting
)

func (s SessionState) String() string {
	switch s {
	case SessionDisconnected:
		return "disconnected"
	case SessionConnecting:
		return "connecting"
	case SessionActive:
		return "active"
	case SessionReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// canTransitionTo reports whether moving from s to next is a legal lifecycle
// step. Self transitions are not legal; callers only emit state changes when
// the state actually changes.
func (s SessionState) canTransitionTo(next SessionState) bool {
	switch s {
	case SessionDisconnected:
		return next == SessionConnecting
	case SessionConnecting:
		return next == SessionActive || next == SessionDisconnected
	case SessionActive:
		return next == SessionReconnecting || next == SessionDisconnected
	case SessionReconnecting:
		return next == SessionActive || next == SessionDisconnected
	default:
		return false
	}
}
