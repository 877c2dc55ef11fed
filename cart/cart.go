package cart

import (
	"sync"

	"lakecity/models"
)

// Snapshot is a point-in-time copy of a cart, as sent to subscribers and clients.
type Snapshot struct {
	Items []models.CartItem `json:"items"`
	Count int               `json:"count"`
	Total float64           `json:"total"`
}

// Cart holds the products a session has selected. Items keep insertion order.
// Every mutation notifies subscribers with a fresh Snapshot.
type Cart struct {
	mu      sync.Mutex
	items   []models.CartItem
	subs    map[int]func(Snapshot)
	nextSub int
}

func New() *Cart {
	return &Cart{subs: make(map[int]func(Snapshot))}
}

// FromItems rebuilds a cart from persisted items, dropping non-positive quantities.
func FromItems(items []models.CartItem) *Cart {
	c := New()
	for _, it := range items {
		if it.Quantity > 0 {
			c.items = append(c.items, it)
		}
	}
	return c
}

// Add increments the quantity of a product already in the cart, or appends it.
// There is no upper bound and no stock check. Non-positive quantities are ignored.
func (c *Cart) Add(p models.Product, quantity int) {
	if quantity <= 0 {
		return
	}
	c.mutate(func() {
		if i := c.indexOf(p.ID); i >= 0 {
			c.items[i].Quantity += quantity
			return
		}
		c.items = append(c.items, models.CartItem{Product: p, Quantity: quantity})
	})
}

// UpdateQuantity sets the quantity of a product. Zero or negative removes it.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	c.mutate(func() {
		i := c.indexOf(productID)
		if i < 0 {
			return
		}
		if quantity <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
		c.items[i].Quantity = quantity
	})
}

// Remove deletes a product from the cart; absent ids are a no-op.
func (c *Cart) Remove(productID string) {
	c.mutate(func() {
		if i := c.indexOf(productID); i >= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		}
	})
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mutate(func() {
		c.items = nil
	})
}

// Total is Σ price × quantity over priced items. Market-price items are excluded.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

// Count is Σ quantity over all items.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count()
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyItems()
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Subscribe registers fn to be called after every mutation.
// The returned func removes the subscription.
func (c *Cart) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// mutate runs fn under the lock, then notifies subscribers outside it.
func (c *Cart) mutate(fn func()) {
	c.mu.Lock()
	fn()
	snap := c.snapshot()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	for _, s := range subs {
		s(snap)
	}
}

func (c *Cart) indexOf(productID string) int {
	for i, it := range c.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) total() float64 {
	var sum float64
	for _, it := range c.items {
		if !it.Product.Priced() {
			continue
		}
		sum += it.LineTotal()
	}
	return sum
}

func (c *Cart) count() int {
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) copyItems() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) snapshot() Snapshot {
	return Snapshot{
		Items: c.copyItems(),
		Count: c.count(),
		Total: c.total(),
	}
}
