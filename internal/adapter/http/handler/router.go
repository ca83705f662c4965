package handler

import (
	"creator-payout-ledger/internal/adapter/http/middleware"
	redisStore "creator-payout-ledger/internal/adapter/storage/redis"
	"creator-payout-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	SettlementSvc  ports.SettlementService
	WithdrawalSvc  ports.WithdrawalService
	BalanceSvc     ports.BalanceService
	ReportingSvc   ports.ReportingService
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	ServiceCreds   middleware.ServiceCredentials
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1")

	// --- HMAC-authenticated routes (marketplace backend) ---
	hmacAuth := middleware.HMACAuth(deps.ServiceCreds, deps.SigSvc, deps.NonceStore, deps.Logger)
	settlementHandler := NewSettlementHandler(deps.SettlementSvc, deps.Logger)
	ledgerHandler := NewLedgerHandler(deps.ReportingSvc)

	settlements := v1.Group("/settlements", hmacAuth)
	{
		settlements.POST("", rl("settlements"), settlementHandler.Settle)
		settlements.GET("/:submission_id", rl("ledger_reads"), settlementHandler.ListPayments)
	}

	accounts := v1.Group("/accounts", hmacAuth)
	{
		accounts.GET("/:account_id/transactions", rl("ledger_reads"), ledgerHandler.ListTransactions)
	}

	// --- JWT-authenticated routes (creators) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawalSvc, deps.BalanceSvc)

	v1.GET("/balance", jwtAuth, rl("creator"), withdrawalHandler.GetBalance)

	withdrawals := v1.Group("/withdrawals", jwtAuth)
	{
		withdrawals.POST("", rl("withdrawals"), withdrawalHandler.Initiate)
		withdrawals.GET("", rl("creator"), withdrawalHandler.List)
	}

	return r
}
