package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"JewelStore/pkg/kit"
)

type Server struct {
	Store Store
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)
	r.Get("/categories", s.categories)

	return r
}

type listResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	filters, key, err := parseListing(r.URL.Query())
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	products, err := s.Store.List(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	selected := Select(products, filters, key)
	kit.WriteJSON(w, http.StatusOK, listResponse{Products: selected, Count: len(selected)})
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]any{"categories": Categories})
}

// parseListing builds a filter configuration from listing query params:
// category (repeatable), min_price, max_price, q, new_only, sort.
func parseListing(q url.Values) (Filters, SortKey, error) {
	f := DefaultFilters()

	if cats, ok := q["category"]; ok {
		f.Categories = cats
	}
	if v := q.Get("min_price"); v != "" {
		cents, err := ParsePriceCents(v)
		if err != nil {
			return Filters{}, "", err
		}
		f.MinPriceCents = cents
	}
	if v := q.Get("max_price"); v != "" {
		cents, err := ParsePriceCents(v)
		if err != nil {
			return Filters{}, "", err
		}
		f.MaxPriceCents = cents
	}
	if f.MinPriceCents > f.MaxPriceCents {
		return Filters{}, "", ErrInvalidPrice
	}

	f.Search = q.Get("q")

	if v := q.Get("new_only"); v != "" {
		newOnly, err := strconv.ParseBool(v)
		if err != nil {
			return Filters{}, "", err
		}
		f.NewOnly = newOnly
	}

	return f, ParseSortKey(q.Get("sort")), nil
}
