package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	ServiceAuth ServiceAuthConfig `mapstructure:"service_auth"`
	Ledger      LedgerConfig      `mapstructure:"ledger"`
	Processor   ProcessorConfig   `mapstructure:"processor"`
	TrustScore  TrustScoreConfig  `mapstructure:"trust_score"`
	RabbitMQ    RabbitMQConfig    `mapstructure:"rabbitmq"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig validates creator bearer tokens issued by the marketplace.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// ServiceAuthConfig holds the shared HMAC credentials the marketplace backend
// uses when calling settlement and ledger endpoints.
type ServiceAuthConfig struct {
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type LedgerConfig struct {
	FeeRate               float64       `mapstructure:"fee_rate"`
	MinimumWithdrawal     int64         `mapstructure:"minimum_withdrawal"`
	InstantTrustThreshold int           `mapstructure:"instant_trust_threshold"`
	SettlementCacheTTL    time.Duration `mapstructure:"settlement_cache_ttl"`
}

type ProcessorConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TrustScoreConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type RabbitMQConfig struct {
	URL                 string `mapstructure:"url"`
	MarketplaceExchange string `mapstructure:"marketplace_exchange"`
	LedgerExchange      string `mapstructure:"ledger_exchange"`
	SettlementQueue     string `mapstructure:"settlement_queue"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: CPL_ (Creator Payout Ledger).
// Nested keys use underscore: CPL_DATABASE_HOST, CPL_LEDGER_FEE_RATE, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "payout_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "creator-marketplace")
	v.SetDefault("service_auth.access_key", "")
	v.SetDefault("service_auth.secret_key", "")
	v.SetDefault("ledger.fee_rate", 0.15)
	v.SetDefault("ledger.minimum_withdrawal", 100)
	v.SetDefault("ledger.instant_trust_threshold", 50)
	v.SetDefault("ledger.settlement_cache_ttl", "24h")
	v.SetDefault("processor.base_url", "")
	v.SetDefault("processor.api_key", "")
	v.SetDefault("processor.timeout", "30s")
	v.SetDefault("trust_score.base_url", "")
	v.SetDefault("trust_score.api_key", "")
	v.SetDefault("trust_score.timeout", "5s")
	v.SetDefault("trust_score.cache_ttl", "5m")
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.marketplace_exchange", "marketplace_events")
	v.SetDefault("rabbitmq.ledger_exchange", "ledger_events")
	v.SetDefault("rabbitmq.settlement_queue", "ledger.settlements")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// CPL_DATABASE_HOST -> database.host
	v.SetEnvPrefix("CPL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Ledger.FeeRate = clampFeeRate(cfg.Ledger.FeeRate)
	if cfg.Ledger.MinimumWithdrawal < 1 {
		cfg.Ledger.MinimumWithdrawal = 1
	}

	return &cfg, nil
}

func clampFeeRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 1 {
		return 1
	}
	return rate
}
