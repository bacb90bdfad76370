package coordination

import "testing"

func TestSessionStateTransitions(t *testing.T) {
	testCases := []struct {
		name    string
		from    SessionState
		to      SessionState
		allowed bool
	}{
		{name: "disconnected to connecting", from: SessionDisconnected, to: SessionConnecting, allowed: true},
		{name: "connecting to active", from: SessionConnecting, to: SessionActive, allowed: true},
		{name: "connecting to disconnected", from: SessionConnecting, to: SessionDisconnected, allowed: true},
		{name: "active to reconnecting", from: SessionActive, to: SessionReconnecting, allowed: true},
		{name: "active to disconnected", from: SessionActive, to: SessionDisconnected, allowed: true},
		{name: "reconnecting to active", from: SessionReconnecting, to: SessionActive, allowed: true},
		{name: "reconnecting to disconnected", from: SessionReconnecting, to: SessionDisconnected, allowed: true},
		{name: "disconnected to active", from: SessionDisconnected, to: SessionActive, allowed: false},
		{name: "connecting to reconnecting", from: SessionConnecting, to: SessionReconnecting, allowed: false},
		{name: "disconnected to reconnecting", from: SessionDisconnected, to: SessionReconnecting, allowed: false},
		{name: "active to connecting", from: SessionActive, to: SessionConnecting, allowed: false},
		{name: "self transition", from: SessionActive, to: SessionActive, allowed: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.from.canTransitionTo(testCase.to); got != testCase.allowed {
				t.Fatalf("Expected transition %v -> %v allowed=%v, got %v",
					testCase.from, testCase.to, testCase.allowed, got)
			}
		})
	}
}

func TestSessionStateNames(t *testing.T) {
	if SessionDisconnected.String() != "disconnected" ||
		SessionConnecting.String() != "connecting" ||
		SessionActive.String() != "active" ||
		SessionReconnecting.String() != "reconnecting" {
		t.Fatalf("Unexpected session state names")
	}
}
