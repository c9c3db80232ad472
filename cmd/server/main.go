package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/agriops/farmledger/internal/adapter/http"
	"github.com/agriops/farmledger/internal/adapter/http/handler"
	"github.com/agriops/farmledger/internal/adapter/http/middleware"
	postgresRepo "github.com/agriops/farmledger/internal/adapter/repository/postgres"
	redisRepo "github.com/agriops/farmledger/internal/adapter/repository/redis"
	"github.com/agriops/farmledger/internal/infrastructure/config"
	"github.com/agriops/farmledger/internal/infrastructure/invalidation"
	"github.com/agriops/farmledger/internal/infrastructure/logger"
	"github.com/agriops/farmledger/internal/infrastructure/logging"
	"github.com/agriops/farmledger/internal/infrastructure/metrics"
	"github.com/agriops/farmledger/internal/infrastructure/postgres"
	"github.com/agriops/farmledger/internal/infrastructure/redis"
	"github.com/agriops/farmledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog
	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis is optional: without it postings still work, reads just skip the
	// balance cache and duplicate POSTs are not deduplicated.
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	} else {
		log.Warn().Msg("no redis configured, running without balance cache and idempotency store")
	}

	defaultRate, err := decimal.NewFromString(cfg.DefaultExchangeRate)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.DefaultExchangeRate).Msg("invalid default exchange rate")
	}
	rateCeiling, err := decimal.NewFromString(cfg.ExchangeRateCeiling)
	if err != nil {
		log.Fatal().Err(err).Str("ceiling", cfg.ExchangeRateCeiling).Msg("invalid exchange rate ceiling")
	}

	m := metrics.New()

	txManager := postgresRepo.NewTxManager(pool)
	partyRepo := postgresRepo.NewPartyRepository(pool)
	itemRepo := postgresRepo.NewItemRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
	)
	if redisClient != nil {
		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	}
	eventSink := eventSinkFor(cache, slogger.Logger)

	ledgerUC := usecase.NewLedgerUseCase(txManager, partyRepo, entryRepo, outboxRepo, idGen, cache, m, cfg.BalanceCacheTTL)
	inventoryUC := usecase.NewInventoryUseCase(txManager, itemRepo, outboxRepo, idGen, cache, m)
	postingUC := usecase.NewPostingUseCase(
		txManager, partyRepo, txnRepo, paymentRepo, outboxRepo, auditRepo,
		idGen, cache, m, ledgerUC, inventoryUC, defaultRate, rateCeiling,
	)

	publisher := invalidation.NewEventPublisher(invalidation.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventSink,
		Logger:     slogger.Logger,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPublishInterval,
		Retention:  cfg.OutboxRetention,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PostingHandler:   handler.NewPostingHandler(postingUC, retrier),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		InventoryHandler: handler.NewInventoryHandler(inventoryUC, retrier),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		Logger:           zlog,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				rateLimiter.CleanupLimiters()
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}

	log.Info().Msg("server stopped")
}

// eventSinkFor picks where drained outbox events go: the cache invalidator
// when a cache is wired, otherwise the log.
func eventSinkFor(cache usecase.Cache, logger *slog.Logger) invalidation.Publisher {
	if cache == nil {
		return invalidation.NewLogPublisher(logger)
	}
	return invalidation.NewCacheInvalidator(cache, logger)
}
