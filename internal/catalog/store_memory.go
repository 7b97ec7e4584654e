package catalog

import (
	"context"
	"sync"
)

// MemStore keeps the catalog in memory in listing order. It is the
// default store; the seeded collection matches the storefront launch
// catalog.
type MemStore struct {
	mu    sync.RWMutex
	order []Product
	byID  map[string]Product
}

func NewMemStore() *MemStore {
	s := &MemStore{byID: map[string]Product{}}
	for _, p := range seedProducts() {
		s.order = append(s.order, p)
		s.byID[p.ID] = p
	}
	return s
}

func NewStore() Store { return NewMemStore() }

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.order))
	copy(out, s.order)
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	return p, ok, nil
}

func seedProducts() []Product {
	return []Product{
		{ID: "p1", Name: "Diamond Eternity Ring", PriceCents: 129999, Image: "https://images.unsplash.com/photo-1605100804763-247f67b3557e?w=400&q=80", Category: "Rings", IsNew: true},
		{ID: "p2", Name: "Sapphire Pendant Necklace", PriceCents: 89999, Image: "https://images.unsplash.com/photo-1599643478518-a784e5dc4c8f?w=400&q=80", Category: "Necklaces"},
		{ID: "p3", Name: "Gold Hoop Earrings", PriceCents: 49999, Image: "https://images.unsplash.com/photo-1630019852942-f89202989a59?w=400&q=80", Category: "Earrings", IsNew: true},
		{ID: "p4", Name: "Pearl Tennis Bracelet", PriceCents: 79999, Image: "https://images.unsplash.com/photo-1611652022419-a9419f74343d?w=400&q=80", Category: "Bracelets"},
		{ID: "p5", Name: "Emerald Cut Engagement Ring", PriceCents: 249999, Image: "https://images.unsplash.com/photo-1589674781759-c21c37956a44?w=400&q=80", Category: "Rings"},
		{ID: "p6", Name: "Ruby Stud Earrings", PriceCents: 69999, Image: "https://images.unsplash.com/photo-1629224316810-9d8805b95e76?w=400&q=80", Category: "Earrings"},
		{ID: "p7", Name: "Platinum Chain Necklace", PriceCents: 119999, Image: "https://images.unsplash.com/photo-1599643477877-530eb83abc8e?w=400&q=80", Category: "Necklaces", IsNew: true},
		{ID: "p8", Name: "Diamond Tennis Bracelet", PriceCents: 349999, Image: "https://images.unsplash.com/photo-1611591437281-460bfbe1220a?w=400&q=80", Category: "Bracelets"},
	}
}
