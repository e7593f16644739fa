package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "classdesk/pkg/platform/strings"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr          string
	JWTSigningKey string

	// PostgresDSN selects the postgres stores when set; otherwise the
	// in-memory stores serve (dev mode, tests).
	PostgresDSN string

	Redis RedisConfig
	Kafka KafkaConfig
	Cache CacheConfig
}

// RedisConfig holds connection settings for the shared redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the event publisher. Empty brokers disable
// publishing (noop publisher).
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// CacheConfig bounds the dashboard cache.
type CacheConfig struct {
	// MaxEntriesPerTenant caps LRU entries held per tenant.
	MaxEntriesPerTenant int
	// TTL bounds how long a redis-cached payload may live even at the
	// current data version.
	TTL time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("CLASSDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = platformstrings.DedupeAndTrim(strings.Split(v, ","))
	}
	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		topic = "classdesk.record-events"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
		Cache: CacheConfig{
			MaxEntriesPerTenant: envInt("DASHBOARD_CACHE_MAX_ENTRIES", 1024),
			TTL:                 envDuration("DASHBOARD_CACHE_TTL", 10*time.Minute),
		},
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
