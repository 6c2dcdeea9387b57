package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"projectnest/internal/infra/markdown"
	"projectnest/internal/usecase"
)

// Deps bundles what the HTTP layer calls into.
type Deps struct {
	Catalog   usecase.CatalogUseCase
	Ledger    usecase.EntitlementUseCase
	Payments  usecase.PaymentUseCase
	Delivery  usecase.DeliveryUseCase
	Authoring usecase.AuthoringUseCase
	Renderer  markdown.Renderer
	Auth      *AuthManager
	// Ping backs /health; nil reports healthy.
	Ping func(ctx context.Context) error
}

type Options struct {
	Dev            bool
	RequestTimeout time.Duration
}

type Server struct {
	catalog   usecase.CatalogUseCase
	ledger    usecase.EntitlementUseCase
	payments  usecase.PaymentUseCase
	delivery  usecase.DeliveryUseCase
	authoring usecase.AuthoringUseCase
	renderer  markdown.Renderer
	auth      *AuthManager
	guard     *Guard
	ping      func(ctx context.Context) error
	opts      Options
	log       *zerolog.Logger
}

func NewServer(d Deps, opts Options, logger *zerolog.Logger) *Server {
	return &Server{
		catalog:   d.Catalog,
		ledger:    d.Ledger,
		payments:  d.Payments,
		delivery:  d.Delivery,
		authoring: d.Authoring,
		renderer:  d.Renderer,
		auth:      d.Auth,
		guard:     NewGuard(d.Auth, d.Ledger, logger),
		ping:      d.Ping,
		opts:      opts,
		log:       logger,
	}
}

// Routes builds the chi router with the full middleware chain.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		TraceID(),
		RequestLog(s.log),
		Recover(s.log),
		Timeout(s.opts.RequestTimeout),
	)
	r.NotFound(notFound)

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.guard.Authenticate)

		// public
		r.Get("/articles", s.listArticles)
		r.Get("/articles/{id}", s.getArticle)
		r.Get("/packs", s.listPacks)
		r.Get("/packs/{id}", s.getPack)
		r.Post("/payments/verify", s.verifyPayment)
		r.Post("/auth/logout", s.logout)
		if s.opts.Dev {
			r.Post("/auth/dev-session", s.devSession)
		}

		// session required
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Post("/articles", s.createArticle)
			r.Post("/articles/generate", s.generateArticle)
			r.Post("/articles/{id}/download", s.downloadPDF)
			r.Post("/payments/create-order", s.createOrder)
			r.Get("/user/me", s.me)
		})
	})
	return r
}

// HTTPServer wraps the router in an *http.Server.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.opts.RequestTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
