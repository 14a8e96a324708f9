package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration for both entry points.
type Server struct {
	Addr            string
	CableClamp      string
	AuditBuffer     int
	StudentCapacity int
	AssetCapacity   int
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
	Environment     string
}

// DefaultAuditBuffer is the async publisher queue size used by the HTTP server.
var DefaultAuditBuffer = 256

// FromEnv builds a Server config from environment variables so main stays lean.
// Malformed numeric values fall back to their defaults.
func FromEnv() Server {
	addr := os.Getenv("CHECKOUT_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	env := os.Getenv("CHECKOUT_ENV")
	if env == "" {
		env = "local"
	}

	return Server{
		Addr:            addr,
		CableClamp:      strings.ToLower(strings.TrimSpace(os.Getenv("CHECKOUT_CABLE_CLAMP"))),
		AuditBuffer:     intFromEnv("CHECKOUT_AUDIT_BUFFER", DefaultAuditBuffer),
		StudentCapacity: intFromEnv("CHECKOUT_STUDENT_CAPACITY", 0),
		AssetCapacity:   intFromEnv("CHECKOUT_ASSET_CAPACITY", 0),
		LogLevel:        levelFromEnv("CHECKOUT_LOG_LEVEL", slog.LevelInfo),
		ShutdownTimeout: durationFromEnv("CHECKOUT_SHUTDOWN_TIMEOUT", 10*time.Second),
		Environment:     env,
	}
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return fallback
}

func levelFromEnv(key string, fallback slog.Level) slog.Level {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return fallback
	}
	return level
}
