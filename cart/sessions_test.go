package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionsReturnSameCart(t *testing.T) {
	s := NewMemorySessions(time.Hour)
	ctx := context.Background()

	c1, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	c1.Add(product("a", price(1)), 2)

	c2, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Same(t, c1, c2)

	other, err := s.Get(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())
}

func TestMemorySessionsExpireIdleCarts(t *testing.T) {
	s := NewMemorySessions(time.Minute)
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	c, _ := s.Get(ctx, "old")
	c.Add(product("a", price(1)), 1)
	_, _ = s.Get(ctx, "fresh")

	now = now.Add(2 * time.Minute)
	_, _ = s.Get(ctx, "fresh")
	assert.Equal(t, 1, s.Len())

	again, _ := s.Get(ctx, "old")
	assert.True(t, again.IsEmpty())
}

func TestMemorySessionsWatch(t *testing.T) {
	s := NewMemorySessions(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	c, _ := s.Get(ctx, "s1")
	c.Add(product("a", price(3)), 1)

	ch, err := s.Watch(ctx, "s1")
	require.NoError(t, err)

	first := <-ch
	assert.Equal(t, 1, first.Count)

	c.Add(product("a", price(3)), 1)
	select {
	case snap := <-ch:
		assert.Equal(t, 2, snap.Count)
		assert.InDelta(t, 6.0, snap.Total, 1e-9)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for snapshot")
	}

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	// mutations after the watcher is gone must not panic
	c.Clear()
}
