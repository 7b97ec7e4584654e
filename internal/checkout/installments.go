package checkout

import "github.com/shopspring/decimal"

// InstallmentOptions the credit form offers, as in the storefront's
// installment select.
var InstallmentOptions = []int{1, 2, 3, 6, 12}

type InstallmentQuote struct {
	Count            int   `json:"count"`
	InstallmentCents int64 `json:"installment_cents"`
	FirstCents       int64 `json:"first_cents"`
}

// QuoteInstallments splits totalCents into n equal installments using
// decimal arithmetic. The per-installment amount is floored to whole
// cents and the remainder lands on the first installment, so the
// installments always sum exactly to the total.
func QuoteInstallments(totalCents int64, n int) InstallmentQuote {
	if n < 1 {
		n = 1
	}

	total := decimal.NewFromInt(totalCents)
	per := total.Div(decimal.NewFromInt(int64(n))).Floor()
	first := total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))

	return InstallmentQuote{
		Count:            n,
		InstallmentCents: per.IntPart(),
		FirstCents:       first.IntPart(),
	}
}

func validInstallments(method string, n int) bool {
	if method != MethodCredit {
		return n <= 1
	}
	for _, opt := range InstallmentOptions {
		if n == opt {
			return true
		}
	}
	return false
}
