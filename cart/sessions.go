package cart

import (
	"context"
	"sync"
	"time"
)

// Sessions keeps one cart per browser session.
type Sessions interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, c *Cart) error
	// Watch streams snapshots of the session cart, starting with the current one,
	// until ctx is cancelled.
	Watch(ctx context.Context, sessionID string) (<-chan Snapshot, error)
}

const watchBuffer = 8

type memoryEntry struct {
	cart     *Cart
	lastSeen time.Time
}

// MemorySessions holds live carts in process memory. Carts idle for longer
// than the TTL are dropped on the next lookup.
type MemorySessions struct {
	mu    sync.Mutex
	carts map[string]*memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemorySessions(ttl time.Duration) *MemorySessions {
	return &MemorySessions{
		carts: make(map[string]*memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *MemorySessions) Get(_ context.Context, sessionID string) (*Cart, error) {
	return m.lookup(sessionID), nil
}

// Save only refreshes the idle timer: memory carts are mutated in place.
func (m *MemorySessions) Save(_ context.Context, sessionID string, c *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[sessionID] = &memoryEntry{cart: c, lastSeen: m.now()}
	return nil
}

func (m *MemorySessions) Watch(ctx context.Context, sessionID string) (<-chan Snapshot, error) {
	c := m.lookup(sessionID)

	ch := make(chan Snapshot, watchBuffer)
	var (
		mu     sync.Mutex
		closed bool
	)
	send := func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- s:
		default:
			// slow reader; the next snapshot supersedes this one
		}
	}

	unsubscribe := c.Subscribe(send)
	send(c.Snapshot())

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()
	return ch, nil
}

// Len reports the number of tracked sessions.
func (m *MemorySessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.carts)
}

func (m *MemorySessions) lookup(sessionID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.ttl > 0 {
		for id, e := range m.carts {
			if id != sessionID && now.Sub(e.lastSeen) > m.ttl {
				delete(m.carts, id)
			}
		}
	}

	e, ok := m.carts[sessionID]
	if !ok || (m.ttl > 0 && now.Sub(e.lastSeen) > m.ttl) {
		e = &memoryEntry{cart: New()}
		m.carts[sessionID] = e
	}
	e.lastSeen = now
	return e.cart
}
