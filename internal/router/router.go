package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/talx-hub/gopher-rewards/internal/api/middlewares"
	"github.com/talx-hub/gopher-rewards/internal/service/config"
)

const contentTypeJSON = "application/json"

type CustomRouter struct {
	router  *chi.Mux
	logger  *slog.Logger
	cfg     *config.Config
	limiter middlewares.Limiter
}

func New(cfg *config.Config, log *slog.Logger) *CustomRouter {
	if log == nil {
		log = slog.Default()
	}
	router := &CustomRouter{
		router: chi.NewRouter(),
		logger: log,
		cfg:    cfg,
	}

	return router
}

// WithRateLimiter throttles authenticated routes per account and the
// webhook route per client address.
func (cr *CustomRouter) WithRateLimiter(l middlewares.Limiter) *CustomRouter {
	cr.limiter = l
	return cr
}

type LedgerHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Earn(w http.ResponseWriter, r *http.Request)
	Redeem(w http.ResponseWriter, r *http.Request)
}

type SpendHandler interface {
	Spend(w http.ResponseWriter, r *http.Request)
}

type PaymentAccountHandler interface {
	Link(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	Payment(w http.ResponseWriter, r *http.Request)
}

type HealthHandler interface {
	Ping(w http.ResponseWriter, r *http.Request)
}

type Handler interface {
	LedgerHandler
	SpendHandler
	PaymentAccountHandler
	WebhookHandler
	HealthHandler
}

func (cr *CustomRouter) SetRouter(h Handler) {
	var secret []byte
	if cr.cfg != nil {
		secret = []byte(cr.cfg.SecretKey)
	}

	cr.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middlewares.RequestLogger(cr.logger),
		middleware.Recoverer,
	)

	cr.router.Get("/ping", h.Ping)
	cr.router.Get("/health", h.Ping)

	cr.router.Group(func(r chi.Router) {
		cr.limit(r)
		r.Post("/webhooks/payment", h.Payment)
	})

	cr.router.Group(func(r chi.Router) {
		r.Use(middlewares.Authentication(secret, cr.logger))
		cr.limit(r)

		r.Get("/balance", h.GetBalance)
		r.Get("/transactions", h.History)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType(contentTypeJSON))
			r.Post("/earn", h.Earn)
			r.Post("/redeem", h.Redeem)
			r.Post("/spend", h.Spend)
			r.Put("/payment-account", h.Link)
		})
	})

	cr.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w,
			http.StatusText(http.StatusMethodNotAllowed),
			http.StatusMethodNotAllowed)
	})
}

func (cr *CustomRouter) limit(r chi.Router) {
	if cr.limiter != nil {
		r.Use(middlewares.RateLimit(cr.limiter, cr.logger))
	}
}

func (cr *CustomRouter) GetRouter() *chi.Mux {
	return cr.router
}
