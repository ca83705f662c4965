package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creator-payout-ledger/config"
	httpHandler "creator-payout-ledger/internal/adapter/http/handler"
	"creator-payout-ledger/internal/adapter/http/middleware"
	"creator-payout-ledger/internal/adapter/messaging/rabbitmq"
	"creator-payout-ledger/internal/adapter/processor"
	pgStorage "creator-payout-ledger/internal/adapter/storage/postgres"
	redisStorage "creator-payout-ledger/internal/adapter/storage/redis"
	"creator-payout-ledger/internal/adapter/trustscore"
	"creator-payout-ledger/internal/core/ports"
	"creator-payout-ledger/internal/service"
	"creator-payout-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Float64("fee_rate", cfg.Ledger.FeeRate).
		Msg("Starting creator payout ledger")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	if cfg.Database.AutoMigrate {
		if err := pgStorage.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	accountRepo := pgStorage.NewAccountRepo(pool)
	auditRepo := pgStorage.NewBalanceTransactionRepo(pool)
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	withdrawalRepo := pgStorage.NewWithdrawalRepo(pool)
	profileRepo := pgStorage.NewCreatorProfileRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	settlementCache := redisStorage.NewSettlementCache(rdb)
	trustCache := redisStorage.NewTrustScoreCache(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// External clients
	processorClient := processor.NewClient(cfg.Processor.BaseURL, cfg.Processor.APIKey, cfg.Processor.Timeout, log)
	trustClient := trustscore.NewClient(cfg.TrustScore.BaseURL, cfg.TrustScore.APIKey, cfg.TrustScore.Timeout)

	publisher, closePublisher := newPublisher(cfg.RabbitMQ, log)
	defer closePublisher()

	// Core services
	balanceSvc := service.NewBalanceService(accountRepo, auditRepo, transactor, log)
	if _, err := balanceSvc.GetOrCreateBankAccount(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to provision clearing account")
	}

	trustSvc := service.NewTrustScoreService(trustClient, trustCache, cfg.TrustScore.CacheTTL, log)
	settlementSvc := service.NewSettlementService(
		paymentRepo,
		settlementCache,
		publisher,
		decimal.NewFromFloat(cfg.Ledger.FeeRate),
		cfg.Ledger.SettlementCacheTTL,
		log,
		service.NewExternalSettlement(processorClient, log),
		service.NewLedgerSettlement(balanceSvc, log),
	)
	withdrawalSvc := service.NewWithdrawalService(
		balanceSvc,
		withdrawalRepo,
		profileRepo,
		processorClient,
		trustSvc,
		publisher,
		service.WithdrawalPolicy{
			MinimumAmount:         cfg.Ledger.MinimumWithdrawal,
			InstantTrustThreshold: cfg.Ledger.InstantTrustThreshold,
		},
		log,
	)
	reportingSvc := service.NewReportingService(accountRepo, auditRepo)
	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Approval event intake
	if consumer := startApprovalConsumer(ctx, cfg.RabbitMQ, settlementSvc, log); consumer != nil {
		defer consumer.Close()
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		SettlementSvc: settlementSvc,
		WithdrawalSvc: withdrawalSvc,
		BalanceSvc:    balanceSvc,
		ReportingSvc:  reportingSvc,
		SigSvc:        sigSvc,
		NonceStore:    nonceStore,
		TokenSvc:      tokenSvc,
		ServiceCreds: middleware.ServiceCredentials{
			AccessKey: cfg.ServiceAuth.AccessKey,
			SecretKey: cfg.ServiceAuth.SecretKey,
		},
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb)},
		Logger:         log,
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders:   []string{middleware.HeaderRequestID, "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newPublisher returns the no-op publisher when the broker is unset or unreachable.
func newPublisher(cfg config.RabbitMQConfig, log zerolog.Logger) (ports.EventPublisher, func()) {
	if cfg.URL == "" {
		log.Warn().Msg("RabbitMQ URL not set, ledger events will be dropped")
		return rabbitmq.NewNoopPublisher(log), func() {}
	}
	producer, err := rabbitmq.NewEventProducer(cfg.URL, cfg.LedgerExchange, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ unavailable, ledger events will be dropped")
		return rabbitmq.NewNoopPublisher(log), func() {}
	}
	log.Info().Str("exchange", cfg.LedgerExchange).Msg("RabbitMQ producer connected")
	return producer, producer.Close
}

func startApprovalConsumer(ctx context.Context, cfg config.RabbitMQConfig, settlementSvc ports.SettlementService, log zerolog.Logger) *rabbitmq.Consumer {
	if cfg.URL == "" {
		return nil
	}
	consumer, err := rabbitmq.NewConsumer(cfg.URL, log)
	if err != nil {
		log.Warn().Err(err).Msg("RabbitMQ consumer unavailable, approvals accepted over HTTP only")
		return nil
	}

	handler := rabbitmq.NewApprovalHandler(settlementSvc, log)
	err = consumer.ConsumeWithBindings(ctx, cfg.MarketplaceExchange, cfg.SettlementQueue, map[string]rabbitmq.Handler{
		rabbitmq.RoutingKeySubmissionApproved: handler.Handle,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to start approval consumer")
		consumer.Close()
		return nil
	}
	log.Info().Str("queue", cfg.SettlementQueue).Msg("Approval consumer started")
	return consumer
}
