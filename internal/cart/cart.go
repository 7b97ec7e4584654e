package cart

import (
	"math"
	"sync"
)

// Line is one cart entry. UnitPriceCents is a snapshot taken when the
// product was added; later catalog price changes do not touch it.
type Line struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Image          string `json:"image"`
	Qty            int    `json:"qty"`
}

// Cart aggregates line items for one session. Lines keep insertion
// order; quantity changes never reorder. Every mutation sanitizes its
// input instead of erroring: unknown products are no-ops and quantities
// are floored at 1.
type Cart struct {
	mu    sync.Mutex
	lines []Line
	index map[string]int
}

func New() *Cart {
	return &Cart{index: map[string]int{}}
}

// Add merges qty into an existing line for the same product or appends a
// new one. qty below 1 is clamped to 1.
func (c *Cart) Add(l Line, qty int) {
	if qty < 1 {
		qty = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[l.ProductID]; ok {
		c.lines[i].Qty += qty
		return
	}

	l.Qty = qty
	c.index[l.ProductID] = len(c.lines)
	c.lines = append(c.lines, l)
}

// Remove deletes the line for productID. Absent lines are a no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[productID]
	if !ok {
		return
	}

	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, productID)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ProductID] = j
	}
}

// SetQty sets the line's quantity to max(1, qty). Absent lines are a
// no-op.
func (c *Cart) SetQty(productID string, qty int) {
	if qty < 1 {
		qty = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[productID]; ok {
		c.lines[i].Qty = qty
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	c.index = map[string]int{}
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ItemCount is the sum of quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}

// SubtotalCents sums unit price times quantity over all lines. Overflow
// saturates at MaxInt64 rather than wrapping.
func (c *Cart) SubtotalCents() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, l := range c.lines {
		line := l.UnitPriceCents * int64(l.Qty)
		if line < 0 || total > math.MaxInt64-line {
			return math.MaxInt64
		}
		total += line
	}
	return total
}

func (c *Cart) TotalCents(shippingCents int64) int64 {
	sub := c.SubtotalCents()
	if sub > math.MaxInt64-shippingCents {
		return math.MaxInt64
	}
	return sub + shippingCents
}
