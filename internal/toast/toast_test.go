package toast_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cinemap/internal/favorites"
	"github.com/agentstation/cinemap/internal/toast"
)

func TestNotifyReplacesAndExpires(t *testing.T) {
	b := toast.New(50*time.Millisecond, 10*time.Millisecond)

	_, ok := b.Current()
	assert.False(t, ok)

	b.Notify(favorites.NewNotice(favorites.Added, 1, "A"))
	b.Notify(favorites.NewNotice(favorites.Removed, 1, "A"))

	n, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, favorites.Removed, n.Action)

	assert.Eventually(t, func() bool {
		_, ok := b.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestOnExpire(t *testing.T) {
	b := toast.New(20*time.Millisecond, 5*time.Millisecond)
	expired := make(chan favorites.Notice, 1)
	b.OnExpire(func(n favorites.Notice) { expired <- n })

	b.Notify(favorites.NewNotice(favorites.Added, 2, "B"))

	select {
	case n := <-expired:
		assert.Equal(t, 2, n.MovieID)
	case <-time.After(time.Second):
		t.Fatal("notice did not expire")
	}
}

func TestDismiss(t *testing.T) {
	b := toast.New(time.Minute, time.Minute)
	b.Notify(favorites.NewNotice(favorites.Added, 3, "C"))
	b.Dismiss()
	_, ok := b.Current()
	assert.False(t, ok)
}
