package coordination

import (
	"errors"
	"fmt"
)

// FailureKind classifies what part of the pipeline a failure originates
// from, which decides how the coordinator reacts to it.
type FailureKind string

const (
	// ConfigurationFailure means required startup configuration is missing
	// or malformed. Nothing was attempted over the network.
	ConfigurationFailure FailureKind = "configuration"
	// ConnectionFailure means establishing or keeping the media session
	// alive failed.
	ConnectionFailure FailureKind = "connection"
	// SynthesisFailure means a single utterance could not be spoken. The
	// queue moves on to the next utterance.
	SynthesisFailure FailureKind = "synthesis"
	// BackendFailure means the chat backend returned an error or an
	// unusable reply. The user's message stays in the log, no assistant
	// message is recorded.
	BackendFailure FailureKind = "backend"
	// LivenessFailure means the watchdog concluded the media session went
	// silently dead.
	LivenessFailure FailureKind = "liveness"
)

// Failure wraps an underlying error with the pipeline stage it came from.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind) + " failure"
	}
	return fmt.Sprintf("%s failure: %s", f.Kind, f.Err.Error())
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func newFailure(kind FailureKind, err error) *Failure {
	return &Failure{Kind: kind, Err: err}
}

// FailureKindOf extracts the failure kind from err, if it carries one.
func FailureKindOf(err error) (FailureKind, bool) {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Kind, true
	}
	return "", false
}
