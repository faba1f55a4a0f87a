package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBroadcaster(t *testing.T) *Broadcaster {
	t.Helper()
	logger := zerolog.Nop()
	b := NewBroadcaster(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go b.Run(ctx)
	return b
}

func TestBroadcasterStreamsEvents(t *testing.T) {
	b := newTestBroadcaster(t)
	srv := httptest.NewServer(b)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	b.Broadcast(Event{Event: "favorites.changed", ID: "7", Data: map[string]any{"id": 7}})

	lines := make(chan string, 32)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	var got []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed early")
			got = append(got, line)
			if strings.HasPrefix(line, "data: {\"id\":7}") {
				joined := strings.Join(got, "\n")
				assert.Contains(t, joined, "event: connected")
				assert.Contains(t, joined, "event: favorites.changed")
				assert.Contains(t, joined, "id: 7")
				return
			}
		case <-timeout:
			t.Fatalf("event not received, got %q", got)
		}
	}
}

func TestBroadcasterDropsDisconnectedClients(t *testing.T) {
	b := newTestBroadcaster(t)
	srv := httptest.NewServer(b)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	_ = resp.Body.Close()
	assert.Eventually(t, func() bool { return b.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastNeverBlocks(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroadcaster(&logger)
	for i := 0; i < 1000; i++ {
		b.Broadcast(Event{Event: "x"})
	}
}

func TestBroadcasterAfterShutdown(t *testing.T) {
	logger := zerolog.Nop()
	b := NewBroadcaster(&logger)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// More streams than the registration buffer holds are all turned away.
	done := make(chan struct{})
	codes := make([]int, 20)
	go func() {
		for i := range codes {
			rec := httptest.NewRecorder()
			b.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			codes[i] = rec.Code
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ServeHTTP blocked after shutdown")
	}
	for _, code := range codes {
		assert.Equal(t, http.StatusServiceUnavailable, code)
	}
	assert.Zero(t, b.ClientCount())
}
