package adapter

// Event is one adapter notification as a value. It is one of StateChange,
// IntentChange, ErrorEvent, ReachedEnd, PositionChange or DismissRequest.
type Event interface {
	adapterEvent()
}

// StateChange is emitted when State changes.
type StateChange struct {
	Previous State
	Current  State
}

// IntentChange is emitted when Intent changes.
type IntentChange struct {
	Previous Intent
	Current  Intent
}

// ErrorEvent is emitted when the engine reports a failure.
type ErrorEvent struct {
	Err error
}

// ReachedEnd is emitted when the current item played to its end.
type ReachedEnd struct{}

// PositionChange is emitted on every progress poll tick.
type PositionChange struct {
	Seconds float64
}

// DismissRequest is emitted when the adapter asks its host to close the player.
type DismissRequest struct {
	Animated bool
}

func (StateChange) adapterEvent()    {}
func (IntentChange) adapterEvent()   {}
func (ErrorEvent) adapterEvent()     {}
func (ReachedEnd) adapterEvent()     {}
func (PositionChange) adapterEvent() {}
func (DismissRequest) adapterEvent() {}

// EventQueue is an Observer that records events in order for hosts that
// prefer to consume them as values.
type EventQueue struct {
	events []Event
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

func (q *EventQueue) OnStateChanged(from, to State) {
	q.events = append(q.events, StateChange{Previous: from, Current: to})
}

func (q *EventQueue) OnIntentChanged(from, to Intent) {
	q.events = append(q.events, IntentChange{Previous: from, Current: to})
}

func (q *EventQueue) OnError(err error) {
	q.events = append(q.events, ErrorEvent{Err: err})
}

func (q *EventQueue) OnReachedEnd() {
	q.events = append(q.events, ReachedEnd{})
}

func (q *EventQueue) OnPositionChanged(seconds float64) {
	q.events = append(q.events, PositionChange{Seconds: seconds})
}

func (q *EventQueue) OnRequestedDismiss(animated bool) {
	q.events = append(q.events, DismissRequest{Animated: animated})
}

// Drain returns the recorded events and empties the queue.
func (q *EventQueue) Drain() []Event {
	events := q.events
	q.events = nil
	return events
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Verify EventQueue implements Observer at compile time.
var _ Observer = (*EventQueue)(nil)
