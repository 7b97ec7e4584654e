package cart

import (
	"errors"
	"hash/fnv"

	"JewelStore/pkg/brdoc"
)

// Shipping quotes land in the same R$15..R$50 band the storefront always
// offered, but derive deterministically from the CEP so repeated quotes
// for the same destination agree.
const (
	shippingFloorCents int64 = 15_00
	shippingSpanReais        = 36
)

var ErrInvalidCEP = errors.New("invalid cep")

// QuoteShippingCents returns the shipping cost for a destination CEP.
// The CEP must normalize to exactly eight digits.
func QuoteShippingCents(cep string) (int64, error) {
	d := brdoc.Digits(cep)
	if !brdoc.ValidCEP(d) {
		return 0, ErrInvalidCEP
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(d))
	return shippingFloorCents + int64(h.Sum32()%shippingSpanReais)*100, nil
}
