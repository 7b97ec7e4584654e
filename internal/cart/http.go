package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"JewelStore/pkg/brdoc"
	"JewelStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type ctxKey string

const sessionKey ctxKey = "session"

// SessionFromContext returns the session ID placed by RequireSession.
func SessionFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionKey).(string)
	return v, ok
}

// RequireSession demands the X-Session-Id header the gateway injects
// after validating the session token.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := strings.TrimSpace(r.Header.Get("X-Session-Id"))
		if sid == "" {
			kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sid)))
	})
}

type Server struct {
	Carts   *Sessions
	Catalog *CatalogClient
	Log     *zap.Logger
}

type cartView struct {
	Items         []Line `json:"items"`
	ItemCount     int    `json:"item_count"`
	SubtotalCents int64  `json:"subtotal_cents"`
}

func viewOf(c *Cart) cartView {
	return cartView{
		Items:         c.Lines(),
		ItemCount:     c.ItemCount(),
		SubtotalCents: c.SubtotalCents(),
	}
}

func (s *Server) sessionCart(w http.ResponseWriter, r *http.Request) (*Cart, bool) {
	sid, ok := SessionFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return nil, false
	}
	return s.Carts.Get(sid), true
}

func (s *Server) GetHandler() http.HandlerFunc        { return s.get }
func (s *Server) AddItemHandler() http.HandlerFunc    { return s.addItem }
func (s *Server) SetQtyHandler() http.HandlerFunc     { return s.setQty }
func (s *Server) RemoveItemHandler() http.HandlerFunc { return s.removeItem }
func (s *Server) ClearHandler() http.HandlerFunc      { return s.clear }
func (s *Server) ShippingHandler() http.HandlerFunc   { return s.shipping }

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionCart(w, r)
	if !ok {
		return
	}
	kit.WriteJSON(w, http.StatusOK, viewOf(c))
}

type addItemReq struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionCart(w, r)
	if !ok {
		return
	}

	var req addItemReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_id required", nil)
		return
	}

	p, err := s.Catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCatalogNotFound):
			kit.WriteError(w, r, http.StatusBadRequest, "invalid product_id", map[string]any{"product_id": req.ProductID})
		case errors.Is(err, ErrCatalogUnavailable):
			kit.WriteError(w, r, http.StatusServiceUnavailable, "catalog unavailable", nil)
		default:
			if s.Log != nil {
				s.Log.Warn("catalog error", zap.Error(err), zap.String("product_id", req.ProductID))
			}
			kit.WriteError(w, r, http.StatusBadGateway, "catalog error", nil)
		}
		return
	}

	c.Add(Line{
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPriceCents: p.PriceCents,
		Image:          p.Image,
	}, req.Qty)

	kit.WriteJSON(w, http.StatusCreated, viewOf(c))
}

type setQtyReq struct {
	Qty int `json:"qty"`
}

func (s *Server) setQty(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionCart(w, r)
	if !ok {
		return
	}

	var req setQtyReq
	if err := decodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	c.SetQty(chi.URLParam(r, "id"), req.Qty)
	kit.WriteJSON(w, http.StatusOK, viewOf(c))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionCart(w, r)
	if !ok {
		return
	}

	c.Remove(chi.URLParam(r, "id"))
	kit.WriteJSON(w, http.StatusOK, viewOf(c))
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	c, ok := s.sessionCart(w, r)
	if !ok {
		return
	}

	c.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) shipping(w http.ResponseWriter, r *http.Request) {
	cep := chi.URLParam(r, "cep")

	cents, err := QuoteShippingCents(cep)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid cep", map[string]any{"cep": cep})
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"cep":            brdoc.FormatCEP(cep),
		"shipping_cents": cents,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after json object")
	}
	return nil
}
