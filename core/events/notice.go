package events

// KindNoticeRaised identifies a user-facing failure notice.
const KindNoticeRaised Kind = "notice.raised"

// NoticeRaised carries a short user-facing message about a failure, with the
// failure classification it came from.
type NoticeRaised struct {
	Base
	Message     string
	FailureKind string
}

func (n NoticeRaised) String() string {
	return n.Message
}

// NewNoticeRaised creates a notice event.
func NewNoticeRaised(message, failureKind string) NoticeRaised {
	return NoticeRaised{
		Base:        NewBase(KindNoticeRaised),
		Message:     message,
		FailureKind: failureKind,
	}
}
