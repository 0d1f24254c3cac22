package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds everything the server reads from the environment.
type Config struct {
	ServiceName string
	HTTPAddr    string

	MySQLDSN string

	RedisAddr     string
	RedisPassword string

	KafkaBrokers []string

	// Platform commission rate in basis points (200 = 2%).
	PlatformFeeBps int64
}

func Load() Config {
	return Config{
		ServiceName:    getenv("SERVICE_NAME", "order-engine"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		MySQLDSN:       getenv("MYSQL_DSN", "root:root@tcp(localhost:3306)/vendoor?parseTime=true"),
		RedisAddr:      getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		KafkaBrokers:   splitCSV(getenv("KAFKA_BROKERS", "localhost:9092")),
		PlatformFeeBps: getenvInt64("PLATFORM_FEE_BPS", 200),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
