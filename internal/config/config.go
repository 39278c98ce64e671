package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseDSN string

	// AMQPURL is optional; when empty the server runs without a broker and
	// order events are not published.
	AMQPURL string

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	BcryptCost int
}

func Load() Config {
	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseDSN: getenv("STOREFRONT_DB_DSN", ""),
		AMQPURL:     getenv("AMQP_URL", ""),

		SessionSecret: getenv("SESSION_SECRET", ""),
		SessionTTL:    parseDuration(getenv("SESSION_TTL", "168h"), 168*time.Hour),
		CookieSecure:  parseBool(getenv("COOKIE_SECURE", "false")),

		BcryptCost: 10,
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
