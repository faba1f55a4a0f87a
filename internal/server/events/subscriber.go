package events

// Subscriber consumes events for one transport.
type Subscriber interface {
	// Send delivers an event. It must not block.
	Send(Event) error

	// Close shuts the subscriber down.
	Close() error
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(Event) error

// Send calls f.
func (f SubscriberFunc) Send(e Event) error { return f(e) }

// Close is a no-op.
func (f SubscriberFunc) Close() error { return nil }
