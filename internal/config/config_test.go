package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8082/api", cfg.Store.BaseURL)
	assert.Equal(t, "http://localhost:8081/api", cfg.Delivery.BaseURL)
	assert.Equal(t, "http://localhost:8083/api", cfg.Email.BaseURL)
	assert.Equal(t, "http://localhost:8084/api", cfg.Bank.BaseURL)

	assert.True(t, cfg.Store.AttachAuth)
	assert.True(t, cfg.Delivery.AttachAuth)
	assert.False(t, cfg.Email.AttachAuth, "email endpoints are pre-login")
	assert.True(t, cfg.Bank.AttachAuth)
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
store:
  base_url: https://store.example.com/api
  timeout_ms: 5000
  attach_auth: true
delivery:
  base_url: https://delivery.example.com/api
  attach_auth: true
email:
  base_url: https://email.example.com/api
bank:
  base_url: https://bank.example.com/api
  attach_auth: true
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "https://store.example.com/api", cfg.Store.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout())
	assert.Equal(t, 10*time.Second, cfg.Delivery.Timeout(), "missing timeout falls back to 10s")
	assert.False(t, cfg.Email.AttachAuth)
}

func TestLoadFromPathMissingBaseURL(t *testing.T) {
	path := writeConfig(t, `
store:
  base_url: https://store.example.com/api
delivery:
  base_url: https://delivery.example.com/api
email:
  base_url: https://email.example.com/api
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bank")
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, Default().Store.BaseURL, cfg.Store.BaseURL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_STORE_URL", "http://store.test:9000/api")
	t.Setenv("STOREFRONT_BANK_URL", "http://bank.test:9001/api")

	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, "http://store.test:9000/api", cfg.Store.BaseURL)
	assert.Equal(t, "http://bank.test:9001/api", cfg.Bank.BaseURL)
	assert.Equal(t, Default().Delivery.BaseURL, cfg.Delivery.BaseURL)
}
