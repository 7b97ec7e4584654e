package catalog

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPrice = errors.New("invalid price")

// priceCap bounds accepted price filters: R$10M in cents.
var priceCap = decimal.NewFromInt(10_000_000).Mul(decimal.NewFromInt(100))

// ParsePriceCents converts a decimal price string like "599.99" or "600"
// to int64 cents. Negative values, more than two decimal places and
// values beyond the cap are rejected.
func ParsePriceCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, ErrInvalidPrice
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	if d.LessThan(decimal.Zero) {
		return 0, ErrInvalidPrice
	}
	if d.Exponent() < -2 {
		return 0, ErrInvalidPrice
	}

	cents := d.Mul(decimal.NewFromInt(100))
	if cents.GreaterThan(priceCap) {
		return 0, ErrInvalidPrice
	}
	return cents.IntPart(), nil
}
