package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/cinemap/pkg/constants"
)

// Broker distributes events to its subscribers.
type Broker struct {
	subscribers []Subscriber
	events      chan Event
	register    chan Subscriber
	unregister  chan Subscriber
	done        chan struct{}
	mu          sync.RWMutex
	logger      *zerolog.Logger
	now         func() time.Time
}

// NewBroker creates a broker. Subscribe and Publish may be called before
// Run starts.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		subscribers: make([]Subscriber, 0),
		events:      make(chan Event, 256),
		register:    make(chan Subscriber, constants.ChannelBufferSize),
		unregister:  make(chan Subscriber, constants.ChannelBufferSize),
		done:        make(chan struct{}),
		logger:      logger,
		now:         time.Now,
	}
}

// Run is the broker's event loop. It returns when ctx is cancelled,
// closing every subscriber. Run must be called at most once.
func (b *Broker) Run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			for _, sub := range b.subscribers {
				_ = sub.Close()
			}
			b.subscribers = nil
			b.mu.Unlock()
			b.logger.Info().Msg("Event broker shut down")
			return

		case sub := <-b.register:
			b.mu.Lock()
			b.subscribers = append(b.subscribers, sub)
			n := len(b.subscribers)
			b.mu.Unlock()
			b.logger.Debug().
				Int("total_subscribers", n).
				Msg("Subscriber registered")

		case sub := <-b.unregister:
			b.mu.Lock()
			for i, s := range b.subscribers {
				if s == sub {
					b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
					_ = s.Close()
					break
				}
			}
			n := len(b.subscribers)
			b.mu.Unlock()
			b.logger.Debug().
				Int("total_subscribers", n).
				Msg("Subscriber unregistered")

		case event := <-b.events:
			b.mu.RLock()
			subs := make([]Subscriber, len(b.subscribers))
			copy(subs, b.subscribers)
			b.mu.RUnlock()

			for _, sub := range subs {
				go func(s Subscriber, e Event) {
					if err := s.Send(e); err != nil {
						b.logger.Warn().
							Err(err).
							Str("event_type", string(e.Type)).
							Msg("Failed to send event to subscriber")
					}
				}(sub, event)
			}

			b.logger.Debug().
				Str("event_type", string(event.Type)).
				Int("subscribers", len(subs)).
				Msg("Event broadcasted")
		}
	}
}

// Publish queues an event for all subscribers. It never blocks; when the
// queue is full the event is dropped.
func (b *Broker) Publish(eventType EventType, data any) {
	event := Event{
		Type:      eventType,
		Timestamp: b.now(),
		Data:      data,
	}

	select {
	case b.events <- event:
	default:
		b.logger.Warn().
			Str("event_type", string(eventType)).
			Msg("Event channel full, event dropped")
	}
}

// Emitter returns a publisher keyed by plain event names.
func (b *Broker) Emitter() Emitter {
	return Emitter{broker: b}
}

// Subscribe registers sub. Once the broker has shut down, sub is closed
// instead.
func (b *Broker) Subscribe(sub Subscriber) {
	select {
	case <-b.done:
		_ = sub.Close()
		return
	default:
	}
	select {
	case b.register <- sub:
	case <-b.done:
		_ = sub.Close()
	}
}

// Unsubscribe removes and closes sub. After shutdown every subscriber is
// already closed and Unsubscribe returns at once.
func (b *Broker) Unsubscribe(sub Subscriber) {
	select {
	case b.unregister <- sub:
	case <-b.done:
	}
}

// SubscriberCount returns the number of registered subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Emitter publishes events named by plain strings.
type Emitter struct {
	broker *Broker
}

// Publish forwards to the broker.
func (e Emitter) Publish(event string, data any) {
	e.broker.Publish(EventType(event), data)
}
