// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server binary needs to wire itself.
type Config struct {
	Addr string

	// AdminToken guards the /admin endpoints. Empty disables them entirely.
	AdminToken string

	// PostgresDSN selects the durable symbol store; empty falls back to the
	// in-memory store.
	PostgresDSN string

	// RedisURL enables the oracle snapshot cache; empty disables caching.
	RedisURL string

	// KafkaBrokers enables the kafka event publisher; empty falls back to
	// logging events.
	KafkaBrokers []string
	EventTopic   string

	ShutdownTimeout time.Duration

	// StaticNativePriceUSD seeds the development oracle, in whole USD. Zero
	// leaves the feed unpublished.
	StaticNativePriceUSD int64

	// NativeFeed names the feed the development oracle publishes under. The
	// same ref must be passed to /admin/initialize.
	NativeFeed string
}

// FromEnv reads the TNS_* environment variables, applying development
// defaults where that is safe.
func FromEnv() Config {
	cfg := Config{
		Addr:            getenv("TNS_ADDR", ":8080"),
		AdminToken:      os.Getenv("TNS_ADMIN_TOKEN"),
		PostgresDSN:     os.Getenv("TNS_POSTGRES_DSN"),
		RedisURL:        os.Getenv("TNS_REDIS_URL"),
		EventTopic:      getenv("TNS_EVENT_TOPIC", "tns.registry.events"),
		NativeFeed:      getenv("TNS_NATIVE_FEED", "native-usd-dev"),
		ShutdownTimeout: 10 * time.Second,
	}

	if brokers := os.Getenv("TNS_KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}
	if raw := os.Getenv("TNS_STATIC_NATIVE_PRICE_USD"); raw != "" {
		if price, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.StaticNativePriceUSD = price
		}
	}
	if raw := os.Getenv("TNS_SHUTDOWN_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			cfg.ShutdownTimeout = d
		}
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
