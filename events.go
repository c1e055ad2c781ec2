package bramble

// EventBus is a fire-and-forget broadcast channel. Implementations owe no
// delivery guarantee to the caller.
type EventBus interface {
	Fire(name string, payload any)
}

// EventBusFunc adapts a function to EventBus.
type EventBusFunc func(name string, payload any)

// Fire calls f(name, payload).
func (f EventBusFunc) Fire(name string, payload any) {
	f(name, payload)
}

// Event is a named broadcast with its payload, as carried by queued buses.
type Event struct {
	Name    string
	Payload any
}
