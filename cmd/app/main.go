package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"projectnest/internal/config"
	"projectnest/internal/domain/ports/adapter"
	"projectnest/internal/domain/ports/repository"
	aiAdapters "projectnest/internal/infra/adapters/ai"
	"projectnest/internal/infra/adapters/email"
	payAdapters "projectnest/internal/infra/adapters/payment"
	"projectnest/internal/infra/adapters/telegram"
	pg "projectnest/internal/infra/db/postgres"
	"projectnest/internal/infra/logging"
	"projectnest/internal/infra/markdown"
	"projectnest/internal/infra/metrics"
	red "projectnest/internal/infra/redis"
	"projectnest/internal/infra/sched"
	"projectnest/internal/infra/web"
	"projectnest/internal/infra/worker"
	"projectnest/internal/usecase"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (dev sessions, noop gateway)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := pg.Migrate(cfg.Database.URL, logger); err != nil {
			logger.Fatal().Err(err).Msg("migrate")
		}
	}

	// ---- Repositories ----
	tm := pg.NewTxManager(pool)
	articleRepo := pg.NewArticleRepo(pool)
	userRepo := pg.NewPostgresUserRepo(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	accessLogRepo := pg.NewAccessLogRepo(pool)
	var packRepo repository.PremiumPackRepository = pg.NewPostgresPackRepo(pool)

	// ---- Redis (optional) ----
	var (
		limiter red.Limiter
		locker  red.Locker
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		packRepo = pg.NewPackRepoCacheDecorator(packRepo, redisClient, cfg.Redis.TTL, logger)
		limiter = red.NewRateLimiter(redisClient)
		locker = red.NewLocker(redisClient)
		logger.Info().Msg("redis enabled: pack cache, generate rate limit, reconciler lock")
	} else {
		logger.Info().Msg("redis not configured; running without cache and rate limits")
	}

	// ---- Adapters ----
	ai, err := aiAdapters.NewFromConfig(ctx, cfg.AI, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("ai adapter")
	}

	gateway, err := newGateway(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("payment gateway")
	}
	mailer := email.New(cfg.Email, logger)
	alerts := telegram.New(cfg.Telegram, logger)

	jobs := worker.NewPool(4, logger)
	jobs.Start(ctx)
	defer jobs.Stop()

	// ---- Use cases ----
	catalogUC := usecase.NewCatalogUseCase(articleRepo, packRepo, logger)
	ledgerUC := usecase.NewEntitlementUseCase(userRepo, logger)
	paymentUC := usecase.NewPaymentUseCase(paymentRepo, packRepo, userRepo, tm, gateway, mailer, alerts, jobs, cfg.Payment.Razorpay.Currency, logger)
	deliveryUC := usecase.NewDeliveryUseCase(articleRepo, userRepo, accessLogRepo, catalogUC, tm, logger)
	authoringUC := usecase.NewAuthoringUseCase(articleRepo, ai, cfg.AI.DefaultModel, limiter, cfg.AI.GeneratePerHour, logger)

	if cfg.Database.SeedOnStart {
		if _, err := catalogUC.Seed(ctx); err != nil {
			logger.Fatal().Err(err).Msg("seed")
		}
	}

	// ---- Background work ----
	reconciler := sched.NewPaymentReconciler(paymentUC, locker, logger, cfg.Scheduler.StalePaymentInterval, cfg.Scheduler.StalePaymentAge)
	go reconciler.Start(ctx)
	go recordPoolStats(ctx, pool.Stat, 30*time.Second)

	// ---- HTTP ----
	srv := web.NewServer(web.Deps{
		Catalog:   catalogUC,
		Ledger:    ledgerUC,
		Payments:  paymentUC,
		Delivery:  deliveryUC,
		Authoring: authoringUC,
		Renderer:  markdown.NewRenderer(),
		Auth:      web.NewAuthManager(cfg.Session.Secret, cfg.HTTP.SecureCookie, cfg.HTTP.CookieDomain, cfg.Session.TTL),
		Ping:      pool.Ping,
	}, web.Options{Dev: cfg.Runtime.Dev, RequestTimeout: cfg.HTTP.RequestTimeout}, logger)
	httpServer := srv.HTTPServer(cfg.HTTP.Addr)

	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Str("version", version).Msg("http listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	// ---- Graceful shutdown ----
	<-ctx.Done()
	logger.Info().Msg("shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}

// newGateway picks Razorpay unless developer mode runs with the placeholder keys,
// in which case an in-memory gateway signs with the placeholder secret.
func newGateway(cfg *config.Config, logger *zerolog.Logger) (adapter.PaymentGateway, error) {
	rp := cfg.Payment.Razorpay
	if cfg.Runtime.Dev && rp.KeyID == "rzp_test_placeholder" {
		logger.Warn().Msg("payment gateway: noop (placeholder keys)")
		return payAdapters.NewNoopPaymentGateway(rp.KeySecret), nil
	}
	logger.Info().Str("key_id", logging.Redact(rp.KeyID, cfg.Runtime.Dev)).Msg("payment gateway: razorpay")
	gw, err := payAdapters.NewRazorpayGateway(rp.KeyID, rp.KeySecret, rp.BaseURL)
	if err != nil {
		return nil, err
	}
	return gw, nil
}

func recordPoolStats(ctx context.Context, stat func() *pgxpool.Stat, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			metrics.RecordPoolStats(stat())
		}
	}
}
