package codechat

// Event is a sealed interface representing a decoded record from an
// assistant response stream. Events are purely semantic: transport and
// protocol errors come from Next()'s error return, not from events.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventContentDelta carries a fragment of assistant text.
type EventContentDelta struct {
	Delta string
}

func (EventContentDelta) event() {}

// EventDone signals the backend's terminal done marker. No further events
// follow it within one send operation.
type EventDone struct{}

func (EventDone) event() {}

// Interface compliance checks.
var (
	_ Event = EventContentDelta{}
	_ Event = EventDone{}
)
