package events

// KindControlsChanged identifies a change of the session control surface.
const KindControlsChanged Kind = "controls.changed"

// ControlsChanged tells the rendering surface which session controls should
// currently be usable.
type ControlsChanged struct {
	Base
	StartEnabled bool
	StopEnabled  bool
	InputEnabled bool
}

// NewControlsChanged creates a controls event.
func NewControlsChanged(startEnabled, stopEnabled, inputEnabled bool) ControlsChanged {
	return ControlsChanged{
		Base:         NewBase(KindControlsChanged),
		StartEnabled: startEnabled,
		StopEnabled:  stopEnabled,
		InputEnabled: inputEnabled,
	}
}
