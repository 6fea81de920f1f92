package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_DRIVER", "JWT_TTL", "CACHE_TTL", "AUDIT_RETENTION_DAYS", "TIMEZONE", "DEBUG"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5, cfg.CacheTTL)
	assert.Equal(t, 0, cfg.AuditRetentionDays)
	assert.False(t, cfg.Debug)
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("JWT_TTL", "12h")
	t.Setenv("CACHE_TTL", "30")
	t.Setenv("AUDIT_RETENTION_DAYS", "90")
	t.Setenv("TIMEZONE", "Asia/Kolkata")
	t.Setenv("DEBUG", "true")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 30, cfg.CacheTTL)
	assert.Equal(t, 90, cfg.AuditRetentionDays)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL", "a week")
	t.Setenv("CACHE_TTL", "five")
	t.Setenv("TIMEZONE", "Mars/Olympus")

	cfg := Load()
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5, cfg.CacheTTL)
	assert.Equal(t, time.Local, cfg.Location())
}
