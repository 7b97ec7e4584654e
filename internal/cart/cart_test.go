package cart

import (
	"math"
	"reflect"
	"testing"
)

func line(id string, priceCents int64) Line {
	return Line{ProductID: id, Name: "Item " + id, UnitPriceCents: priceCents}
}

func lineIDs(c *Cart) []string {
	out := []string{}
	for _, l := range c.Lines() {
		out = append(out, l.ProductID)
	}
	return out
}

func TestAdd_MergesSameProduct(t *testing.T) {
	c := New()
	c.Add(line("p1", 10000), 2)
	c.Add(line("p1", 10000), 3)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("lines=%d want 1", len(lines))
	}
	if lines[0].Qty != 5 {
		t.Fatalf("qty=%d want 5", lines[0].Qty)
	}
}

func TestAdd_ClampsQtyToOne(t *testing.T) {
	c := New()
	c.Add(line("p1", 10000), 0)
	c.Add(line("p2", 10000), -4)

	for _, l := range c.Lines() {
		if l.Qty != 1 {
			t.Fatalf("qty=%d want 1", l.Qty)
		}
	}
}

func TestAdd_SnapshotsUnitPrice(t *testing.T) {
	c := New()
	c.Add(line("p1", 10000), 1)
	// A later add of the same product carries a new catalog price; the
	// existing line keeps its snapshot.
	c.Add(line("p1", 99999), 1)

	lines := c.Lines()
	if lines[0].UnitPriceCents != 10000 {
		t.Fatalf("unit price=%d want snapshot 10000", lines[0].UnitPriceCents)
	}
}

func TestSubtotal(t *testing.T) {
	c := New()
	c.Add(line("a", 10000), 2) // 100.00 x 2
	c.Add(line("b", 5000), 1)  // 50.00 x 1

	if got := c.SubtotalCents(); got != 25000 {
		t.Fatalf("subtotal=%d want 25000", got)
	}
	if got := c.TotalCents(1500); got != 26500 {
		t.Fatalf("total=%d want 26500", got)
	}
	if got := c.TotalCents(0); got != 25000 {
		t.Fatalf("total no shipping=%d want 25000", got)
	}
}

func TestSubtotal_OverflowSaturates(t *testing.T) {
	c := New()
	c.Add(line("a", math.MaxInt64/2), 3)

	if got := c.SubtotalCents(); got != math.MaxInt64 {
		t.Fatalf("subtotal=%d want saturation", got)
	}
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	c := New()
	c.Add(line("p1", 100), 1)
	c.Add(line("p2", 200), 2)

	before := c.Lines()
	c.Remove("ghost")

	if !reflect.DeepEqual(c.Lines(), before) {
		t.Fatalf("cart changed: %v", c.Lines())
	}
}

func TestRemove_KeepsOrderAndIndex(t *testing.T) {
	c := New()
	c.Add(line("p1", 100), 1)
	c.Add(line("p2", 200), 1)
	c.Add(line("p3", 300), 1)

	c.Remove("p2")

	if want := []string{"p1", "p3"}; !reflect.DeepEqual(lineIDs(c), want) {
		t.Fatalf("order=%v want %v", lineIDs(c), want)
	}

	// Index must stay coherent after the shift.
	c.SetQty("p3", 7)
	if got := c.Lines()[1].Qty; got != 7 {
		t.Fatalf("p3 qty=%d want 7", got)
	}
}

func TestSetQty_FloorsAtOne(t *testing.T) {
	c := New()
	c.Add(line("p1", 100), 5)

	c.SetQty("p1", 0)
	if got := c.Lines()[0].Qty; got != 1 {
		t.Fatalf("qty=%d want 1", got)
	}

	c.SetQty("p1", -3)
	if got := c.Lines()[0].Qty; got != 1 {
		t.Fatalf("qty=%d want 1", got)
	}
}

func TestSetQty_AbsentIsNoOp(t *testing.T) {
	c := New()
	c.SetQty("ghost", 4)
	if len(c.Lines()) != 0 {
		t.Fatalf("lines=%v", c.Lines())
	}
}

func TestSetQty_DoesNotReorder(t *testing.T) {
	c := New()
	c.Add(line("p1", 100), 1)
	c.Add(line("p2", 200), 1)
	c.Add(line("p3", 300), 1)

	c.SetQty("p1", 9)
	c.SetQty("p3", 2)

	if want := []string{"p1", "p2", "p3"}; !reflect.DeepEqual(lineIDs(c), want) {
		t.Fatalf("order=%v want %v", lineIDs(c), want)
	}
}

func TestItemCount_SumsQuantities(t *testing.T) {
	c := New()
	c.Add(line("p1", 100), 2)
	c.Add(line("p2", 200), 3)

	if got := c.ItemCount(); got != 5 {
		t.Fatalf("item count=%d want 5", got)
	}
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(line("p1", 100), 2)
	c.Clear()

	if c.ItemCount() != 0 || len(c.Lines()) != 0 || c.SubtotalCents() != 0 {
		t.Fatalf("cart not empty after clear")
	}

	// Reusable after clear.
	c.Add(line("p1", 100), 1)
	if c.ItemCount() != 1 {
		t.Fatalf("cart unusable after clear")
	}
}

func TestSessions_IsolatePerSession(t *testing.T) {
	s := NewSessions()

	s.Get("alice").Add(line("p1", 100), 1)
	s.Get("bob").Add(line("p2", 200), 2)

	if got := s.Get("alice").ItemCount(); got != 1 {
		t.Fatalf("alice count=%d", got)
	}
	if got := s.Get("bob").ItemCount(); got != 2 {
		t.Fatalf("bob count=%d", got)
	}

	s.Drop("alice")
	if got := s.Get("alice").ItemCount(); got != 0 {
		t.Fatalf("dropped session kept items: %d", got)
	}
}
