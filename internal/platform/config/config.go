package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "pulsemarket/pkg/platform/strings"
)

// Config aggregates all runtime configuration so main stays lean.
type Config struct {
	Server   Server
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Oracles  OraclesConfig
	Registry  RegistryConfig
	Scoring   ScoringConfig
	RateLimit RateLimitConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	AdminTokenHash  string
	ShutdownTimeout time.Duration
}

// DatabaseConfig configures the PostgreSQL pool.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the snapshot session store.
// An empty URL disables Redis and falls back to in-memory sessions.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SnapshotTTL  time.Duration
}

// KafkaConfig configures the audit event stream.
// Empty seeds disable the outbox relay and consumer.
type KafkaConfig struct {
	Seeds         []string
	AuditTopic    string
	ConsumerGroup string
}

// OraclesConfig points at the external verification services.
type OraclesConfig struct {
	DocumentURL string
	VideoURL    string
	BankURL     string
	Timeout     time.Duration
}

// RegistryConfig points at the corporate registry lookup service.
type RegistryConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// ScoringConfig tunes the score engine.
type ScoringConfig struct {
	// MaxRetries bounds automatic re-runs after a consistency failure.
	MaxRetries int
	// ProfitScaleMax is the bank signal value that maps to profit score 100.
	ProfitScaleMax float64
}

// RateLimitConfig tunes the per-caller request limiter.
type RateLimitConfig struct {
	Disabled bool
	// ReadLimit and WriteLimit are requests allowed per window.
	ReadLimit  int
	WriteLimit int
	Window     time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	jwtSigningKey := getEnv("JWT_SIGNING_KEY", "")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Config{
		Server: Server{
			Addr:            getEnv("PULSEMARKET_ADDR", ":8080"),
			JWTSigningKey:   jwtSigningKey,
			AdminTokenHash:  getEnv("ADMIN_TOKEN_HASH", ""),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			SnapshotTTL:  getDuration("SNAPSHOT_TTL", 15*time.Minute),
		},
		Kafka: KafkaConfig{
			Seeds:         splitList(getEnv("KAFKA_SEEDS", "")),
			AuditTopic:    getEnv("KAFKA_AUDIT_TOPIC", "pulsemarket.audit.events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "pulsemarket-audit"),
		},
		Oracles: OraclesConfig{
			DocumentURL: getEnv("ORACLE_DOCUMENT_URL", ""),
			VideoURL:    getEnv("ORACLE_VIDEO_URL", ""),
			BankURL:     getEnv("ORACLE_BANK_URL", ""),
			Timeout:     getDuration("ORACLE_TIMEOUT", 5*time.Second),
		},
		Registry: RegistryConfig{
			BaseURL:  getEnv("REGISTRY_BASE_URL", ""),
			Timeout:  getDuration("REGISTRY_TIMEOUT", 5*time.Second),
			CacheTTL: getDuration("REGISTRY_CACHE_TTL", 5*time.Minute),
		},
		Scoring: ScoringConfig{
			MaxRetries:     getInt("SCORING_MAX_RETRIES", 3),
			ProfitScaleMax: getFloat("SCORING_PROFIT_SCALE_MAX", 100),
		},
		RateLimit: RateLimitConfig{
			Disabled:   getBool("RATE_LIMIT_DISABLED", false),
			ReadLimit:  getInt("RATE_LIMIT_READ_PER_WINDOW", 300),
			WriteLimit: getInt("RATE_LIMIT_WRITE_PER_WINDOW", 60),
			Window:     getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return platformstrings.DedupeAndTrim(strings.Split(v, ","))
}
