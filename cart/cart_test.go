package cart

import (
	"math/rand"
	"testing"

	"lakecity/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func product(id string, p *float64) models.Product {
	return models.Product{ID: id, Name: "Fish " + id, Category: models.CategoryCatfish, Price: p, Unit: "lb"}
}

func TestEmptyCart(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 0.0, c.Total())
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Items())
}

func TestAddIncrementsExistingItem(t *testing.T) {
	c := New()
	c.Add(product("a", price(10)), 1)
	c.Add(product("a", price(10)), 2)
	c.Add(product("b", price(5)), 1)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Product.ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 4, c.Count())
	assert.InDelta(t, 35.0, c.Total(), 1e-9)
}

func TestAddIgnoresNonPositiveQuantity(t *testing.T) {
	c := New()
	c.Add(product("a", price(10)), 0)
	c.Add(product("a", price(10)), -2)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantityNonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -1} {
		c := New()
		c.Add(product("a", price(10)), 2)
		c.Add(product("b", price(5)), 1)

		c.UpdateQuantity("a", q)

		items := c.Items()
		require.Len(t, items, 1, "quantity %d", q)
		assert.Equal(t, "b", items[0].Product.ID)
	}
}

func TestUpdateQuantitySetsValue(t *testing.T) {
	c := New()
	c.Add(product("a", price(2.5)), 1)
	c.UpdateQuantity("a", 4)
	c.UpdateQuantity("missing", 9)

	assert.Equal(t, 4, c.Count())
	assert.InDelta(t, 10.0, c.Total(), 1e-9)
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	c := New()
	c.Add(product("a", price(1)), 1)
	c.Remove("zzz")
	assert.Equal(t, 1, c.Count())
	c.Remove("a")
	assert.True(t, c.IsEmpty())
}

func TestTotalExcludesMarketPrice(t *testing.T) {
	c := New()
	c.Add(product("a", price(10)), 2)
	c.Add(product("b", price(5)), 3)
	c.Add(product("shrimp", nil), 4)
	c.Add(product("oysters", price(0)), 1)

	assert.InDelta(t, 35.0, c.Total(), 1e-9)
	assert.Equal(t, 10, c.Count())
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(product("a", price(1)), 3)
	c.Clear()
	assert.Equal(t, 0, c.Count())
	assert.Equal(t, 0.0, c.Total())
}

func TestSubscribeNotifiesOnMutation(t *testing.T) {
	c := New()
	var got []Snapshot
	unsubscribe := c.Subscribe(func(s Snapshot) { got = append(got, s) })

	c.Add(product("a", price(4)), 2)
	c.UpdateQuantity("a", 3)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, 3, got[1].Count)
	assert.InDelta(t, 12.0, got[1].Total, 1e-9)

	unsubscribe()
	unsubscribe()
	c.Clear()
	assert.Len(t, got, 2)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New()
	c.Add(product("a", price(1)), 1)
	snap := c.Snapshot()
	snap.Items[0].Quantity = 100
	assert.Equal(t, 1, c.Count())
}

func TestFromItemsDropsNonPositive(t *testing.T) {
	c := FromItems([]models.CartItem{
		{Product: product("a", price(1)), Quantity: 2},
		{Product: product("b", price(1)), Quantity: 0},
	})
	require.Len(t, c.Items(), 1)
	assert.Equal(t, 2, c.Count())
}

// Random operation sequences must keep Count and Total equal to sums over
// the items actually present.
func TestCountAndTotalInvariants(t *testing.T) {
	catalog := []models.Product{
		product("a", price(10)),
		product("b", price(5)),
		product("c", price(0.99)),
		product("mp", nil),
		product("zero", price(0)),
	}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		c := New()
		for step := 0; step < 40; step++ {
			p := catalog[rng.Intn(len(catalog))]
			switch rng.Intn(3) {
			case 0:
				c.Add(p, rng.Intn(5)+1)
			case 1:
				c.UpdateQuantity(p.ID, rng.Intn(6)-2)
			case 2:
				c.Remove(p.ID)
			}

			wantCount := 0
			wantTotal := 0.0
			for _, it := range c.Items() {
				require.Positive(t, it.Quantity)
				wantCount += it.Quantity
				if it.Product.Price != nil && *it.Product.Price > 0 {
					wantTotal += *it.Product.Price * float64(it.Quantity)
				}
			}
			require.Equal(t, wantCount, c.Count())
			require.InDelta(t, wantTotal, c.Total(), 1e-9)
		}
	}
}
