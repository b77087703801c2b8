package join

// EventSink is the interface for optional lifecycle integration (an ECS, a
// logger, a test recorder). When set through [Config], the engine forwards
// classification and tween lifecycle events to it synchronously.
type EventSink interface {
	EmitEvent(event Event)
}

// EventType identifies a kind of lifecycle event.
type EventType uint8

const (
	EventEnter     EventType = iota // index classified enter by Bind
	EventUpdate                     // index classified update by Bind
	EventExit                       // index classified exit by Bind
	EventTweenDone                  // a tween reached its end value
	EventDestroyed                  // a visual was destroyed by Remove, Compact or a remove-on-end tween
)

var eventTypeNames = [...]string{
	EventEnter:     "enter",
	EventUpdate:    "update",
	EventExit:      "exit",
	EventTweenDone: "tween-done",
	EventDestroyed: "destroyed",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Event carries lifecycle data to an EventSink.
type Event struct {
	Type  EventType
	Index int
	// Property is set for EventTweenDone and for EventDestroyed raised by a
	// remove-on-end tween.
	Property PropertyID
	// Clock is the engine clock when the event fired. Zero for Bind events.
	Clock float32
}

func (e *Engine[S, V]) emit(ev Event) {
	if e.events != nil {
		e.events.EmitEvent(ev)
	}
}

func (e *Engine[S, V]) emitAll(t EventType, indices []int) {
	if e.events == nil {
		return
	}
	for _, i := range indices {
		e.events.EmitEvent(Event{Type: t, Index: i})
	}
}
