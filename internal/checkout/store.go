package checkout

import (
	"context"
	"time"
)

// Payment methods the storefront offers.
const (
	MethodCredit = "credit"
	MethodDebit  = "debit"
	MethodPix    = "pix"
)

// Order statuses.
const (
	StatusPaid       = "PAID"
	StatusPendingPix = "PENDING_PIX"
)

type OrderItem struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Qty            int    `json:"qty"`
}

type Order struct {
	ID            string      `json:"id"`
	SessionID     string      `json:"session_id"`
	Items         []OrderItem `json:"items"`
	SubtotalCents int64       `json:"subtotal_cents"`
	ShippingCents int64       `json:"shipping_cents"`
	TotalCents    int64       `json:"total_cents"`
	Method        string      `json:"method"`
	Installments  int         `json:"installments"`
	Status        string      `json:"status"`
	PixCode       string      `json:"pix_code,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, bool, error)
	SetStatus(ctx context.Context, id, status string) error
	Ping(ctx context.Context) error
}
