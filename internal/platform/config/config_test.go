package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"CHECKOUT_ADDR", "CHECKOUT_CABLE_CLAMP", "CHECKOUT_AUDIT_BUFFER",
		"CHECKOUT_STUDENT_CAPACITY", "CHECKOUT_ASSET_CAPACITY", "CHECKOUT_LOG_LEVEL",
		"CHECKOUT_SHUTDOWN_TIMEOUT", "CHECKOUT_ENV",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "", cfg.CableClamp)
	assert.Equal(t, DefaultAuditBuffer, cfg.AuditBuffer)
	assert.Zero(t, cfg.StudentCapacity)
	assert.Zero(t, cfg.AssetCapacity)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "local", cfg.Environment)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CHECKOUT_ADDR", ":9090")
	t.Setenv("CHECKOUT_CABLE_CLAMP", " Applied ")
	t.Setenv("CHECKOUT_AUDIT_BUFFER", "0")
	t.Setenv("CHECKOUT_STUDENT_CAPACITY", "3")
	t.Setenv("CHECKOUT_ASSET_CAPACITY", "not-a-number")
	t.Setenv("CHECKOUT_LOG_LEVEL", "debug")
	t.Setenv("CHECKOUT_SHUTDOWN_TIMEOUT", "2s")

	cfg := FromEnv()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "applied", cfg.CableClamp)
	assert.Equal(t, 0, cfg.AuditBuffer)
	assert.Equal(t, 3, cfg.StudentCapacity)
	assert.Equal(t, 0, cfg.AssetCapacity, "malformed values fall back")
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}
