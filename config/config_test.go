// file: config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.BindAddr)
	assert.Equal(t, "https://ctftime.org", cfg.CTFTimeAPIURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "local", cfg.StorageBackend)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CTFHUB_BIND_ADDR", ":9999")
	t.Setenv("CTFHUB_HTTP_TIMEOUT", "3")
	t.Setenv("CTFHUB_CTFTIME_API_URL", "http://localhost:8000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.BindAddr)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "http://localhost:8000", cfg.CTFTimeAPIURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CTFHUB_HTTP_TIMEOUT", "zero")
	_, err := Load()
	assert.Error(t, err)
}

func TestProductionRequiresDatabase(t *testing.T) {
	t.Setenv("CTFHUB_ENV", "production")
	t.Setenv("CTFHUB_DB_URL", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestS3BackendRequiresBucket(t *testing.T) {
	t.Setenv("CTFHUB_STORAGE_BACKEND", "s3")
	t.Setenv("CTFHUB_S3_BUCKET", "")
	_, err := Load()
	assert.Error(t, err)
}
