package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"JewelStore/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Deps struct {
	CatalogURL    string
	CartURL       string
	CheckoutURL   string
	SignupURL     string
	SessionSecret string
}

const (
	readyTimeout      = 2 * time.Second
	readyProbeTimeout = 700 * time.Millisecond

	sessionLimitPerMin = 30
)

var readyClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	},
}

func NewHandler(deps Deps, httpDeps HTTPDeps) (http.Handler, error) {
	catalogProxy, cartProxy, checkoutProxy, signupProxy, err := buildProxies(deps, httpDeps.Log)
	if err != nil {
		return nil, err
	}

	tokens := NewTokenMaker(deps.SessionSecret)
	sessionLimiter := kit.NewIPRateLimiter(sessionLimitPerMin, time.Minute)

	r := chi.NewRouter()
	setupMiddleware(r, httpDeps)
	setupMetrics(r, httpDeps)

	r.Get("/healthz", healthz)
	r.Get("/readyz", readyz(deps, httpDeps.Log))

	r.With(sessionLimiter.Middleware).Post("/session", newSession(tokens))

	r.Handle("/products", catalogProxy)
	r.Handle("/products/*", catalogProxy)
	r.Handle("/categories", catalogProxy)

	r.Handle("/signup", signupProxy)
	r.Handle("/address/*", signupProxy)

	r.Group(func(pr chi.Router) {
		pr.Use(SessionJWT(tokens))
		pr.Use(InjectSession)

		pr.Handle("/cart", cartProxy)
		pr.Handle("/cart/*", cartProxy)
		pr.Handle("/shipping/*", cartProxy)

		pr.Handle("/checkout", checkoutProxy)
		pr.Handle("/checkout/*", checkoutProxy)
		pr.Handle("/orders/*", checkoutProxy)
	})

	return r, nil
}

func newSession(tokens *TokenMaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := uuid.NewString()

		token, err := tokens.New(sessionID, SessionTTL)
		if err != nil {
			kit.WriteError(w, r, http.StatusInternalServerError, "internal error", nil)
			return
		}

		kit.WriteJSON(w, http.StatusCreated, map[string]any{
			"token":      token,
			"session_id": sessionID,
			"expires_in": int(SessionTTL.Seconds()),
		})
	}
}

func buildProxies(deps Deps, log *zap.Logger) (catalogProxy, cartProxy, checkoutProxy, signupProxy http.Handler, err error) {
	cp, err := NewReverseProxy(deps.CatalogURL, log)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	crp, err := NewReverseProxy(deps.CartURL, log)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	chp, err := NewReverseProxy(deps.CheckoutURL, log)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	sp, err := NewReverseProxy(deps.SignupURL, log)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	return cp, crp, chp, sp, nil
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func readyz(deps Deps, log *zap.Logger) http.HandlerFunc {
	downstream := []struct {
		name string
		url  string
	}{
		{"catalog", deps.CatalogURL},
		{"cart", deps.CartURL},
		{"checkout", deps.CheckoutURL},
		{"signup", deps.SignupURL},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		for _, d := range downstream {
			if err := checkReady(ctx, d.url+"/readyz"); err != nil {
				if log != nil {
					log.Warn("readyz failed: "+d.name, zap.Error(err))
				}
				kit.WriteError(w, r, http.StatusServiceUnavailable, d.name+" not ready", nil)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
	}
}

func checkReady(ctx context.Context, url string) error {
	cctx, cancel := context.WithTimeout(ctx, readyProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := readyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status=%d", resp.StatusCode)
	}

	return nil
}
