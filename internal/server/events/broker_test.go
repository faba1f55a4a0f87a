package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cinemap/pkg/constants"
)

type mockSubscriber struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (m *mockSubscriber) Send(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSubscriber) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func (m *mockSubscriber) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func newTestBroker() *Broker {
	logger := zerolog.Nop()
	return NewBroker(&logger)
}

func TestBrokerFansOut(t *testing.T) {
	b := newTestBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, second := &mockSubscriber{}, &mockSubscriber{}
	// Subscribing before Run must not block.
	b.Subscribe(first)
	b.Subscribe(second)
	go b.Run(ctx)

	require.Eventually(t, func() bool { return b.SubscriberCount() == 2 }, time.Second, 5*time.Millisecond)

	b.Publish(FavoritesChanged, map[string]any{"id": 1})
	b.Emitter().Publish("toast.shown", "hi")

	assert.Eventually(t, func() bool { return first.count() == 2 && second.count() == 2 }, time.Second, 5*time.Millisecond)

	first.mu.Lock()
	types := []EventType{first.events[0].Type, first.events[1].Type}
	first.mu.Unlock()
	assert.ElementsMatch(t, []EventType{FavoritesChanged, ToastShown}, types)
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := newTestBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	sub := &mockSubscriber{}
	b.Subscribe(sub)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	b.Unsubscribe(sub)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, sub.isClosed())
}

func TestBrokerShutdownClosesSubscribers(t *testing.T) {
	b := newTestBroker()
	ctx, cancel := context.WithCancel(context.Background())

	sub := &mockSubscriber{}
	b.Subscribe(sub)
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broker did not stop")
	}
	assert.True(t, sub.isClosed())
	assert.Zero(t, b.SubscriberCount())
}

func TestBrokerPublishNeverBlocks(t *testing.T) {
	b := newTestBroker()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.Publish(CarouselMoved, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked without a running broker")
	}
}

func TestBrokerAfterShutdownDoesNotBlock(t *testing.T) {
	b := newTestBroker()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	late := &mockSubscriber{}
	done := make(chan struct{})
	go func() {
		for i := 0; i < constants.ChannelBufferSize+10; i++ {
			b.Unsubscribe(&mockSubscriber{})
		}
		b.Subscribe(late)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broker blocked after shutdown")
	}
	assert.True(t, late.isClosed())
	assert.Zero(t, b.SubscriberCount())
}
