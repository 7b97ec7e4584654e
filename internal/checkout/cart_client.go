package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrCartUnavailable = errors.New("cart unavailable")
	ErrCartBadStatus   = errors.New("cart bad status")
	ErrBadCEP          = errors.New("invalid cep")
)

// CartLine mirrors the cart service's line payload.
type CartLine struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Qty            int    `json:"qty"`
}

type CartView struct {
	Items         []CartLine `json:"items"`
	ItemCount     int        `json:"item_count"`
	SubtotalCents int64      `json:"subtotal_cents"`
}

// CartClient reads and clears session carts and fetches shipping quotes
// from the cart service.
type CartClient struct {
	BaseURL string
	Client  *http.Client
}

func NewCartClient(baseURL string) *CartClient {
	return &CartClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *CartClient) Get(ctx context.Context, sessionID string) (CartView, error) {
	var v CartView
	err := c.do(ctx, http.MethodGet, "/cart", sessionID, http.StatusOK, &v)
	return v, err
}

func (c *CartClient) Clear(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/cart", sessionID, http.StatusNoContent, nil)
}

func (c *CartClient) ShippingQuote(ctx context.Context, cep string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/shipping/"+cep, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, ErrCartUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, ErrBadCEP
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return 0, fmt.Errorf("%w: status=%d", ErrCartBadStatus, resp.StatusCode)
	}

	var q struct {
		ShippingCents int64 `json:"shipping_cents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return 0, err
	}
	return q.ShippingCents, nil
}

func (c *CartClient) do(ctx context.Context, method, path, sessionID string, wantStatus int, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Session-Id", sessionID)

	resp, err := c.Client.Do(req)
	if err != nil {
		return ErrCartUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrCartBadStatus, resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
