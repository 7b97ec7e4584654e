package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Default price range of the storefront slider, in cents.
const (
	DefaultMinPriceCents int64 = 0
	DefaultMaxPriceCents int64 = 500_000
)

// Filters describes one filter configuration. All predicates combine
// conjunctively; zero values mean "no restriction" except the price
// bounds, which are always applied inclusively.
type Filters struct {
	Categories    []string
	MinPriceCents int64
	MaxPriceCents int64
	Search        string
	NewOnly       bool
}

func DefaultFilters() Filters {
	return Filters{
		MinPriceCents: DefaultMinPriceCents,
		MaxPriceCents: DefaultMaxPriceCents,
	}
}

func (f Filters) match(p Product) bool {
	if len(f.Categories) > 0 && !contains(f.Categories, p.Category) {
		return false
	}
	if p.PriceCents < f.MinPriceCents || p.PriceCents > f.MaxPriceCents {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.NewOnly && !p.IsNew {
		return false
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// SortKey selects the ordering of a product listing. The values are the
// storefront's wire values.
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceAsc  SortKey = "price-low-high"
	SortPriceDesc SortKey = "price-high-low"
	SortNameAsc   SortKey = "name-a-z"
	SortNameDesc  SortKey = "name-z-a"
)

// ParseSortKey maps a raw query value to a SortKey. Unknown values fall
// back to featured order.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return SortKey(s)
	default:
		return SortFeatured
	}
}

// Select filters products with f and orders the result by key. The input
// slice is never mutated; the result is a fresh slice. All sorts are
// stable, so ties keep their original relative order and SortFeatured
// reproduces the input order exactly.
func Select(products []Product, f Filters, key SortKey) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.match(p) {
			out = append(out, p)
		}
	}
	sortProducts(out, key)
	return out
}

func sortProducts(ps []Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].PriceCents < ps[j].PriceCents })
	case SortPriceDesc:
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].PriceCents > ps[j].PriceCents })
	case SortNameAsc:
		c := newCollator()
		sort.SliceStable(ps, func(i, j int) bool { return c.CompareString(ps[i].Name, ps[j].Name) < 0 })
	case SortNameDesc:
		c := newCollator()
		sort.SliceStable(ps, func(i, j int) bool { return c.CompareString(ps[i].Name, ps[j].Name) > 0 })
	}
}

// Collators buffer state internally, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.BrazilianPortuguese)
}
