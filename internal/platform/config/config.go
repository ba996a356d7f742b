// Package config builds runtime configuration from environment variables so
// main stays lean. Every knob has a development default; production deploys
// override what they need.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures the full service configuration.
type Server struct {
	Addr          string
	PostgresURL   string
	Redis         Redis
	JWTSigningKey string
	TokenTTL      time.Duration

	// VerificationLatency models the ledger round-trip the verify flow
	// waits on. Zero disables the wait; tests run with zero.
	VerificationLatency time.Duration

	// ScoreMax bounds the optional numeric score on submission.
	// Zero disables the check.
	ScoreMax float64

	// LegacyVerifyRule keeps the original simulated decision (a flagged
	// certificate stays flagged, anything else verifies) for requests
	// that carry no reference digest.
	LegacyVerifyRule bool

	Kafka Kafka
}

// Redis captures connection settings for the session/revocation store.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka captures the audit mirror settings. Empty brokers disable it.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := getenv("CERTVAULT_ADDR", ":8080")

	jwtSigningKey := os.Getenv("CERTVAULT_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("CERTVAULT_KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return Server{
		Addr:        addr,
		PostgresURL: os.Getenv("CERTVAULT_POSTGRES_URL"),
		Redis: Redis{
			URL:          os.Getenv("CERTVAULT_REDIS_URL"),
			PoolSize:     getint("CERTVAULT_REDIS_POOL_SIZE", 10),
			MinIdleConns: getint("CERTVAULT_REDIS_MIN_IDLE", 2),
			DialTimeout:  getduration("CERTVAULT_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getduration("CERTVAULT_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getduration("CERTVAULT_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		JWTSigningKey:       jwtSigningKey,
		TokenTTL:            getduration("CERTVAULT_TOKEN_TTL", time.Hour),
		VerificationLatency: getduration("CERTVAULT_VERIFY_LATENCY", 2500*time.Millisecond),
		ScoreMax:            getfloat("CERTVAULT_SCORE_MAX", 10),
		LegacyVerifyRule:    os.Getenv("CERTVAULT_LEGACY_VERIFY_RULE") != "false",
		Kafka: Kafka{
			Brokers:    brokers,
			AuditTopic: getenv("CERTVAULT_AUDIT_TOPIC", "certvault.audit"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getfloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
