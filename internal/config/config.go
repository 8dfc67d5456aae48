package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything a portal process needs. The backend is an
// external service reached over HTTP; the portal keeps its own durable
// state in a local store.
type Config struct {
	BackendURL string
	LogLevel   string

	LocalStorePath string

	RedisAddr string

	KafkaBrokers []string
	AuditTopic   string

	PollInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return &Config{
		BackendURL:     EnvDefault("BACKEND_URL", "http://localhost:8080"),
		LogLevel:       EnvDefault("LOG_LEVEL", "info"),
		LocalStorePath: EnvDefault("LOCAL_STORE_PATH", "portal.db"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		KafkaBrokers:   CSV(os.Getenv("KAFKA_BROKERS")),
		AuditTopic:     EnvDefault("AUDIT_TOPIC", "order_events"),
		PollInterval:   time.Duration(EnvIntDefault("POLL_INTERVAL_SECONDS", 10)) * time.Second,
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
