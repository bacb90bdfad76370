package events

// KindCaptionShown identifies caption text becoming visible.
const KindCaptionShown Kind = "caption.shown"

// KindCaptionHidden identifies caption text being cleared.
const KindCaptionHidden Kind = "caption.hidden"

// CaptionShown carries the caption text to display alongside speech.
type CaptionShown struct {
	Base
	Text string
}

func (c CaptionShown) String() string {
	return c.Text
}

// NewCaptionShown creates a caption shown event.
func NewCaptionShown(text string) CaptionShown {
	return CaptionShown{Base: NewBase(KindCaptionShown), Text: text}
}

// CaptionHidden marks the caption being cleared, either because its hide
// delay elapsed or because playback was cancelled.
type CaptionHidden struct{ Base }

// NewCaptionHidden creates a caption hidden event.
func NewCaptionHidden() CaptionHidden {
	return CaptionHidden{Base: NewBase(KindCaptionHidden)}
}
