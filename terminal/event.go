package terminal

import "time"

// EventType identifies events the terminal layer hands to input-side collaborators
type EventType uint8

const (
	EventResize EventType = iota // Viewport size changed
	EventError                   // Surface or input failure
	EventClosed                  // Input closed
)

func (t EventType) String() string {
	switch t {
	case EventResize:
		return "resize"
	case EventError:
		return "error"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is a synthesized terminal-level notification
type Event struct {
	Type   EventType
	Width  int   // For EventResize
	Height int   // For EventResize
	Err    error // For EventError
	When   time.Time
}

// NewResizeEvent synthesizes a viewport size change
func NewResizeEvent(width, height int) Event {
	return Event{Type: EventResize, Width: width, Height: height, When: time.Now()}
}
