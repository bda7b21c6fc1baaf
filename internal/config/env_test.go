package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.False(t, cfg.Dev)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.SessionDB)
	assert.Equal(t, 1500*time.Millisecond, cfg.UpdateDelay)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("LESSONS_ADDR", ":7331")
	t.Setenv("LESSONS_DEV", "true")
	t.Setenv("LESSONS_LOG_LEVEL", "debug")
	t.Setenv("LESSONS_SESSION_DB", "sessions.db")
	t.Setenv("LESSONS_NATS_DIR", "/tmp/nats")
	t.Setenv("LESSONS_UPDATE_DELAY", "0s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Addr:      ":7331",
		Dev:       true,
		LogLevel:  "debug",
		SessionDB: "sessions.db",
		NATSDir:   "/tmp/nats",
	}, cfg)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("LESSONS_UPDATE_DELAY", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "parse env")

	t.Setenv("LESSONS_UPDATE_DELAY", "-1s")
	_, err = Load()
	assert.Error(t, err)
}
