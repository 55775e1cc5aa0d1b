package resource

import "errors"

// Handle is an opaque index into a table.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType is a lifecycle notification kind.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	}
	return "unknown"
}

// Event represents a handle lifecycle event.
type Event struct {
	Value  any
	Table  string
	Handle Handle
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to Observer. Function observers cannot be
// unsubscribed; use a pointer type when that is needed.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Dropper is optionally implemented by values that need cleanup when their
// handle is removed.
type Dropper interface {
	Drop()
}

var (
	ErrClosed = errors.New("resource table closed")
	ErrFull   = errors.New("resource table full")
)
