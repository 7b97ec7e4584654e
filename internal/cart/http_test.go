package cart_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"JewelStore/internal/cart"
	"JewelStore/internal/catalog"
)

func newCartTS(t *testing.T) *httptest.Server {
	t.Helper()

	catalogSrv := &catalog.Server{Store: catalog.NewStore()}
	catalogTS := httptest.NewServer(catalog.NewHandler(catalogSrv, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	}))
	t.Cleanup(catalogTS.Close)

	s := &cart.Server{
		Carts:   cart.NewSessions(),
		Catalog: cart.NewCatalogClient(catalogTS.URL),
		Log:     zap.NewNop(),
	}
	ts := httptest.NewServer(cart.NewHandler(s, cart.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "cart",
	}))
	t.Cleanup(ts.Close)
	return ts
}

func doCart(t *testing.T, method, url, session string, body any) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if session != "" {
		req.Header.Set("X-Session-Id", session)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

type cartView struct {
	Items []struct {
		ProductID      string `json:"product_id"`
		Name           string `json:"name"`
		UnitPriceCents int64  `json:"unit_price_cents"`
		Qty            int    `json:"qty"`
	} `json:"items"`
	ItemCount     int   `json:"item_count"`
	SubtotalCents int64 `json:"subtotal_cents"`
}

func TestCartHTTP_AddUpdateRemove(t *testing.T) {
	ts := newCartTS(t)
	const sid = "s-123"

	resp, raw := doCart(t, http.MethodPost, ts.URL+"/cart/items", sid, map[string]any{
		"product_id": "p1", "qty": 2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status=%d body=%s", resp.StatusCode, raw)
	}

	var v cartView
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.ItemCount != 2 || v.SubtotalCents != 2*129999 {
		t.Fatalf("after add: %+v", v)
	}
	if v.Items[0].Name != "Diamond Eternity Ring" {
		t.Fatalf("snapshot name=%q", v.Items[0].Name)
	}

	// Same product merges.
	resp, raw = doCart(t, http.MethodPost, ts.URL+"/cart/items", sid, map[string]any{
		"product_id": "p1", "qty": 1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("merge status=%d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(v.Items) != 1 || v.Items[0].Qty != 3 {
		t.Fatalf("merge: %+v", v)
	}

	// Set quantity; zero floors at 1.
	resp, raw = doCart(t, http.MethodPut, ts.URL+"/cart/items/p1", sid, map[string]any{"qty": 0})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set qty status=%d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Items[0].Qty != 1 {
		t.Fatalf("qty=%d want 1", v.Items[0].Qty)
	}

	resp, raw = doCart(t, http.MethodDelete, ts.URL+"/cart/items/p1", sid, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove status=%d", resp.StatusCode)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(v.Items) != 0 {
		t.Fatalf("items=%+v", v.Items)
	}
}

func TestCartHTTP_UnknownProduct(t *testing.T) {
	ts := newCartTS(t)

	resp, _ := doCart(t, http.MethodPost, ts.URL+"/cart/items", "s-1", map[string]any{
		"product_id": "nope", "qty": 1,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestCartHTTP_RequiresSession(t *testing.T) {
	ts := newCartTS(t)

	resp, _ := doCart(t, http.MethodGet, ts.URL+"/cart", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestCartHTTP_SessionsIsolated(t *testing.T) {
	ts := newCartTS(t)

	doCart(t, http.MethodPost, ts.URL+"/cart/items", "s-a", map[string]any{"product_id": "p2", "qty": 1})

	_, raw := doCart(t, http.MethodGet, ts.URL+"/cart", "s-b", nil)
	var v cartView
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.ItemCount != 0 {
		t.Fatalf("session leak: %+v", v)
	}
}

func TestCartHTTP_ClearAndShipping(t *testing.T) {
	ts := newCartTS(t)
	const sid = "s-9"

	doCart(t, http.MethodPost, ts.URL+"/cart/items", sid, map[string]any{"product_id": "p3", "qty": 4})

	resp, _ := doCart(t, http.MethodDelete, ts.URL+"/cart", sid, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("clear status=%d", resp.StatusCode)
	}

	_, raw := doCart(t, http.MethodGet, ts.URL+"/cart", sid, nil)
	var v cartView
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.ItemCount != 0 {
		t.Fatalf("cart not cleared: %+v", v)
	}

	resp, raw = doCart(t, http.MethodGet, ts.URL+"/shipping/01310-100", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shipping status=%d body=%s", resp.StatusCode, raw)
	}
	var sq struct {
		CEP           string `json:"cep"`
		ShippingCents int64  `json:"shipping_cents"`
	}
	if err := json.Unmarshal(raw, &sq); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sq.CEP != "01310-100" || sq.ShippingCents < 15_00 || sq.ShippingCents > 50_00 {
		t.Fatalf("quote: %+v", sq)
	}

	resp, _ = doCart(t, http.MethodGet, ts.URL+"/shipping/123", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad cep status=%d", resp.StatusCode)
	}
}
