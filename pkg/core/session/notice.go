package session

// NoticeLevel grades a notice for display
type NoticeLevel string

const (
	LevelInfo  NoticeLevel = "info"
	LevelWarn  NoticeLevel = "warn"
	LevelError NoticeLevel = "error"
)

// Notice is a user-visible event emitted by the session. The orchestrating
// caller subscribes to Notices and renders them however it wants; the core
// never talks to a UI directly.
type Notice struct {
	Level   NoticeLevel
	Message string
}

const noticeBuffer = 64

// Notices returns the channel session events are delivered on
func (s *Session) Notices() <-chan Notice {
	return s.notices
}

// notify emits a notice without ever blocking a mutation. When no one is
// draining the channel the oldest notice is dropped.
func (s *Session) notify(level NoticeLevel, message string) {
	notice := Notice{Level: level, Message: message}
	for {
		select {
		case s.notices <- notice:
			return
		default:
			select {
			case <-s.notices:
			default:
			}
		}
	}
}
