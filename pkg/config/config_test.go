package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 300*time.Second, cfg.SyncInterval)
	assert.Equal(t, 4, cfg.SyncWorkers)
	assert.False(t, cfg.StrictAuthorResolution)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SYNC_INTERVAL", "90s")
	t.Setenv("SYNC_WORKERS", "8")
	t.Setenv("STRICT_AUTHOR_RESOLUTION", "true")

	cfg := Load()

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 90*time.Second, cfg.SyncInterval)
	assert.Equal(t, 8, cfg.SyncWorkers)
	assert.True(t, cfg.StrictAuthorResolution)
}

// A bare number is read as seconds, the way the original scheduler knob
// was configured.
func TestLoadBareSecondsInterval(t *testing.T) {
	t.Setenv("SYNC_INTERVAL", "600")

	cfg := Load()
	assert.Equal(t, 600*time.Second, cfg.SyncInterval)
}
