package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"JewelStore/pkg/kit"
)

const maxBodyBytes = 1 << 20

type ctxKey string

const sessionKey ctxKey = "session"

func SessionFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionKey).(string)
	return v, ok
}

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
	Orders Store
	Cart   *CartClient
	Log    *zap.Logger
}

func (s *Server) QuoteHandler() http.HandlerFunc    { return s.quote }
func (s *Server) PayHandler() http.HandlerFunc      { return s.pay }
func (s *Server) ConfirmHandler() http.HandlerFunc  { return s.confirmPix }
func (s *Server) GetOrderHandler() http.HandlerFunc { return s.getOrder }

type quoteResponse struct {
	SubtotalCents int64              `json:"subtotal_cents"`
	ShippingCents int64              `json:"shipping_cents"`
	TotalCents    int64              `json:"total_cents"`
	Installments  []InstallmentQuote `json:"installments"`
}

func (s *Server) quote(w http.ResponseWriter, r *http.Request) {
	sid, ok := SessionFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	cv, shipping, ok := s.cartAndShipping(w, r, sid, r.URL.Query().Get("cep"))
	if !ok {
		return
	}

	total := cv.SubtotalCents + shipping
	quotes := make([]InstallmentQuote, 0, len(InstallmentOptions))
	for _, n := range InstallmentOptions {
		quotes = append(quotes, QuoteInstallments(total, n))
	}

	kit.WriteJSON(w, http.StatusOK, quoteResponse{
		SubtotalCents: cv.SubtotalCents,
		ShippingCents: shipping,
		TotalCents:    total,
		Installments:  quotes,
	})
}

type payReq struct {
	Method       string `json:"method"`
	Installments int    `json:"installments"`
	CEP          string `json:"cep"`
}

func (s *Server) pay(w http.ResponseWriter, r *http.Request) {
	sid, ok := SessionFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	req, err := decodePayRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	switch req.Method {
	case MethodCredit, MethodDebit, MethodPix:
	default:
		kit.WriteError(w, r, http.StatusBadRequest, "invalid method", map[string]any{"method": req.Method})
		return
	}
	if req.Installments == 0 {
		req.Installments = 1
	}
	if !validInstallments(req.Method, req.Installments) {
		kit.WriteError(w, r, http.StatusBadRequest, "invalid installments", map[string]any{"installments": req.Installments})
		return
	}

	cv, shipping, ok := s.cartAndShipping(w, r, sid, req.CEP)
	if !ok {
		return
	}
	if len(cv.Items) == 0 {
		kit.WriteError(w, r, http.StatusConflict, "cart is empty", nil)
		return
	}

	items := make([]OrderItem, 0, len(cv.Items))
	for _, l := range cv.Items {
		items = append(items, OrderItem{
			ProductID:      l.ProductID,
			Name:           l.Name,
			UnitPriceCents: l.UnitPriceCents,
			Qty:            l.Qty,
		})
	}

	o := Order{
		ID:            "ord_" + uuid.NewString(),
		SessionID:     sid,
		Items:         items,
		SubtotalCents: cv.SubtotalCents,
		ShippingCents: shipping,
		TotalCents:    cv.SubtotalCents + shipping,
		Method:        req.Method,
		Installments:  req.Installments,
		CreatedAt:     time.Now().UTC(),
	}

	if req.Method == MethodPix {
		// The cart survives until the PIX payment is confirmed.
		o.Status = StatusPendingPix
		o.PixCode = newPixCode()
	} else {
		o.Status = StatusPaid
	}

	if err := s.Orders.Create(r.Context(), o); err != nil {
		if s.Log != nil {
			s.Log.Error("create order failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	if o.Status == StatusPaid {
		s.clearCart(r.Context(), sid)
	}

	kit.WriteJSON(w, http.StatusCreated, o)
}

func (s *Server) confirmPix(w http.ResponseWriter, r *http.Request) {
	sid, ok := SessionFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	id := chi.URLParam(r, "id")
	o, found, err := s.Orders.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get order failed", zap.Error(err), zap.String("order_id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if o.SessionID != sid {
		kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		return
	}
	if o.Status != StatusPendingPix {
		kit.WriteError(w, r, http.StatusConflict, "not awaiting pix", map[string]any{"status": o.Status})
		return
	}

	if err := s.Orders.SetStatus(r.Context(), id, StatusPaid); err != nil {
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	s.clearCart(r.Context(), sid)

	o.Status = StatusPaid
	kit.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	sid, ok := SessionFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no session", nil)
		return
	}

	id := chi.URLParam(r, "id")
	o, found, err := s.Orders.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get order failed", zap.Error(err), zap.String("order_id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !found {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	if o.SessionID != sid {
		kit.WriteError(w, r, http.StatusForbidden, "forbidden", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, o)
}

// cartAndShipping loads the session cart and, when a CEP is given, a
// shipping quote. It writes the error response itself on failure.
func (s *Server) cartAndShipping(w http.ResponseWriter, r *http.Request, sid, cep string) (CartView, int64, bool) {
	cv, err := s.Cart.Get(r.Context(), sid)
	if err != nil {
		if errors.Is(err, ErrCartUnavailable) {
			kit.WriteError(w, r, http.StatusServiceUnavailable, "cart unavailable", nil)
		} else {
			kit.WriteError(w, r, http.StatusBadGateway, "cart error", nil)
		}
		return CartView{}, 0, false
	}

	var shipping int64
	if cep != "" {
		shipping, err = s.Cart.ShippingQuote(r.Context(), cep)
		switch {
		case err == nil:
		case errors.Is(err, ErrBadCEP):
			kit.WriteError(w, r, http.StatusBadRequest, "invalid cep", map[string]any{"cep": cep})
			return CartView{}, 0, false
		case errors.Is(err, ErrCartUnavailable):
			kit.WriteError(w, r, http.StatusServiceUnavailable, "cart unavailable", nil)
			return CartView{}, 0, false
		default:
			kit.WriteError(w, r, http.StatusBadGateway, "cart error", nil)
			return CartView{}, 0, false
		}
	}

	return cv, shipping, true
}

func (s *Server) clearCart(ctx context.Context, sid string) {
	if err := s.Cart.Clear(ctx, sid); err != nil && s.Log != nil {
		s.Log.Warn("clear cart failed", zap.Error(err), zap.String("session_id", sid))
	}
}

// newPixCode builds a BR-Code-style payload with a fresh transaction ID.
func newPixCode() string {
	return "00020126580014br.gov.bcb.pix0136" + uuid.NewString()
}

func decodePayRequest(w http.ResponseWriter, r *http.Request) (payReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req payReq
	if err := dec.Decode(&req); err != nil {
		return payReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return payReq{}, errors.New("extra data after json object")
	}
	return req, nil
}
