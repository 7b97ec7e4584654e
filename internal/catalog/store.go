package catalog

import "context"

// Product is a single catalog entry. Prices are stored as int64 cents so
// monetary arithmetic stays exact.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Image      string `json:"image"`
	Category   string `json:"category"`
	IsNew      bool   `json:"is_new"`
}

// Categories is the fixed storefront category set. "Watches" is listed
// even while no seeded product carries it.
var Categories = []string{"Rings", "Necklaces", "Earrings", "Bracelets", "Watches"}

type Store interface {
	Ping(ctx context.Context) error
	// List returns the catalog in listing ("featured") order.
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
}
