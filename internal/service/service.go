package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talx-hub/gopher-rewards/internal/api/handlers"
	"github.com/talx-hub/gopher-rewards/internal/api/middlewares"
	"github.com/talx-hub/gopher-rewards/internal/audit"
	"github.com/talx-hub/gopher-rewards/internal/classifier"
	"github.com/talx-hub/gopher-rewards/internal/gateway"
	"github.com/talx-hub/gopher-rewards/internal/ledger"
	"github.com/talx-hub/gopher-rewards/internal/model"
	"github.com/talx-hub/gopher-rewards/internal/policy"
	"github.com/talx-hub/gopher-rewards/internal/reconciler"
	"github.com/talx-hub/gopher-rewards/internal/repo"
	"github.com/talx-hub/gopher-rewards/internal/repo/sqlitestore"
	"github.com/talx-hub/gopher-rewards/internal/router"
	"github.com/talx-hub/gopher-rewards/internal/service/config"
	"github.com/talx-hub/gopher-rewards/internal/service/dbmanager"
	"github.com/talx-hub/gopher-rewards/internal/spend"
	"github.com/talx-hub/gopher-rewards/internal/telemetry"
	"github.com/talx-hub/gopher-rewards/internal/utils/logger"
)

const (
	sqliteScheme      = "sqlite://"
	connectTimeout    = 2 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type accountStore interface {
	reconciler.AccountResolver
	handlers.PaymentAccountLinker
}

// storage is the ledger database, either postgres or an embedded sqlite file.
type storage struct {
	ledger   ledger.Store
	events   reconciler.EventStore
	accounts accountStore
	health   handlers.HealthChecker
	close    func()
}

func openStorage(ctx context.Context, uri string, log *slog.Logger) (*storage, error) {
	if path, ok := strings.CutPrefix(uri, sqliteScheme); ok {
		store, err := sqlitestore.Open(ctx, path, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return &storage{
			ledger:   store,
			events:   store,
			accounts: store,
			health:   store,
			close:    store.Close,
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	dbManager := dbmanager.New(uri, log).
		Connect(connectCtx).
		ApplyMigrations(connectCtx).
		Ping(connectCtx)
	if err := dbManager.Error(); err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("db connection error: %w", err)
	}
	pool, err := dbManager.GetPool(ctx)
	if err != nil {
		dbManager.Close()
		return nil, fmt.Errorf("failed to get DB pool: %w", err)
	}

	return &storage{
		ledger:   repo.NewLedgerRepository(pool, log),
		events:   repo.NewEventRepository(pool, log),
		accounts: repo.NewAccountRepository(pool, log),
		health:   dbManager,
		close:    dbManager.Close,
	}, nil
}

type Service struct {
	server    *http.Server
	storage   *storage
	telemetry *telemetry.Provider
	redis     *redis.Client
	cfg       *config.Config
	log       *slog.Logger
}

// New wires the service. The context bounds background work such as the
// rate limiter cleanup.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Service, error) {
	catalog, err := classifier.LoadCatalog(cfg.CategoryCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load category catalog: %w", err)
	}

	tp, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to set up telemetry: %w", err)
	}

	st, err := openStorage(ctx, cfg.DatabaseURI, log)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	s := &Service{
		storage:   st,
		telemetry: tp,
		cfg:       cfg,
		log:       log,
	}

	auditLog := audit.New(log)
	engine := policy.NewEngine(
		classifier.New(catalog, classifier.NewLRUCache(cfg.ClassifierCacheSize)))
	book := ledger.New(st.ledger, log)
	stripe := gateway.NewStripe(gateway.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		APIURL:        cfg.StripeAPIURL,
		Tolerance:     cfg.WebhookTolerance,
		Concurrency:   cfg.AuthorizeConcurrency,
	}, log)

	orchestrator := spend.New(book, engine, stripe, log,
		spend.WithAudit(auditLog), spend.WithMetrics(tp.Metrics))
	rec := reconciler.New(stripe, st.events, st.accounts, log,
		reconciler.WithAudit(auditLog), reconciler.WithMetrics(tp.Metrics))

	rr := router.New(cfg, log).WithRateLimiter(s.limiter(ctx))
	rr.SetRouter(&struct {
		*handlers.LedgerHandler
		*handlers.SpendHandler
		*handlers.PaymentAccountHandler
		*handlers.WebhookHandler
		*handlers.HealthHandler
	}{
		LedgerHandler:         handlers.NewLedgerHandler(book, auditLog, tp.Metrics, log),
		SpendHandler:          handlers.NewSpendHandler(orchestrator, log),
		PaymentAccountHandler: handlers.NewPaymentAccountHandler(st.accounts, log),
		WebhookHandler:        handlers.NewWebhookHandler(rec, log),
		HealthHandler:         handlers.NewHealthHandler(st.health),
	})

	s.server = &http.Server{
		Addr:              cfg.RunAddr,
		Handler:           rr.GetRouter(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s, nil
}

// limiter prefers the shared redis bucket and falls back to an in-process
// one when redis is not configured or not reachable.
func (s *Service) limiter(ctx context.Context) middlewares.Limiter {
	if s.cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: s.cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		err := client.Ping(pingCtx).Err()
		if err == nil {
			s.redis = client
			return middlewares.NewRedisLimiter(client, s.cfg.RateLimitRPS, s.cfg.RateLimitBurst)
		}
		s.log.LogAttrs(ctx,
			slog.LevelWarn,
			"redis is unavailable, using in-process rate limiter",
			slog.String("addr", s.cfg.RedisAddr),
			slog.Any(model.KeyLoggerError, err),
		)
		_ = client.Close()
	}
	return middlewares.NewMemoryLimiter(ctx, s.cfg.RateLimitRPS, s.cfg.RateLimitBurst)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Service) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.LogAttrs(ctx,
			slog.LevelInfo,
			"server started",
			slog.String("addr", s.cfg.RunAddr),
		)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	s.log.LogAttrs(shutdownCtx, slog.LevelInfo, "server stopped")
	return nil
}

func (s *Service) Close(ctx context.Context) {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if err := s.telemetry.Shutdown(ctx); err != nil {
		s.log.LogAttrs(ctx,
			slog.LevelError,
			"failed to flush metrics",
			slog.Any(model.KeyLoggerError, err),
		)
	}
	s.storage.close()
}

func RunServer() {
	bootLog := logger.New(slog.LevelInfo)
	cfg := config.NewBuilder(bootLog).
		FromDotEnv(".env").
		FromEnv().
		FromFlags().
		GetConfig()

	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		log.LogAttrs(context.Background(),
			slog.LevelError,
			"invalid configuration",
			slog.Any(model.KeyLoggerError, err),
		)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := New(ctx, cfg, log)
	if err != nil {
		log.LogAttrs(ctx,
			slog.LevelError,
			"failed to init service",
			slog.Any(model.KeyLoggerError, err),
		)
		return
	}
	defer s.Close(context.WithoutCancel(ctx))

	if err = s.Run(ctx); err != nil {
		log.LogAttrs(ctx,
			slog.LevelError,
			"server failed",
			slog.Any(model.KeyLoggerError, err),
		)
	}
}
