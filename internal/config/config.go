package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr    string
	PostgresURL string
	// KafkaBrokers empty disables event publishing.
	KafkaBrokers []string
	ServiceName  string

	FulfilmentWorkers  int
	FulfilmentMinDelay time.Duration
	FulfilmentMaxDelay time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		PostgresURL:        getenv("POSTGRES_URL", ""),
		KafkaBrokers:       splitCSV(getenv("KAFKA_BROKERS", "")),
		ServiceName:        getenv("SERVICE_NAME", "order-inventory"),
		FulfilmentWorkers:  getint("FULFILMENT_WORKERS", 4),
		FulfilmentMinDelay: getdur("FULFILMENT_MIN_DELAY", 100*time.Millisecond),
		FulfilmentMaxDelay: getdur("FULFILMENT_MAX_DELAY", 300*time.Millisecond),
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

func getdur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
