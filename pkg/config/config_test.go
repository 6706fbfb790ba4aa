package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mediroom/pkg/config"

	"github.com/stretchr/testify/assert"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

const minimalLiveKit = `
livekit:
  url: "ws://localhost:7880"
  api_key: "devkey"
  api_secret: "devsecret"
`

func TestLoad_UsesDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("LIVEKIT_API_KEY", "devkey")
	t.Setenv("LIVEKIT_API_SECRET", "devsecret")

	cfg, err := config.Load("non-existent-config.yaml")
	assert.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Server.Address)
	assert.Equal(t, 30*time.Minute, cfg.LiveKit.TokenTTL)
	assert.Equal(t, "grid", cfg.Recording.Layout)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MissingSigningSecretFailsAtStartup(t *testing.T) {
	path := writeTempConfig(t, `
livekit:
  url: "ws://localhost:7880"
  api_key: "devkey"
`)

	_, err := config.Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "livekit.api_secret")
}

func TestLoad_LoadsFromYAMLAndAppliesEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, minimalLiveKit+`
server:
  address: ":9000"
  read_timeout: 10s
  write_timeout: 15s

logging:
  level: "debug"
  format: "console"
`)

	t.Setenv("PORT", "7000")
	t.Setenv("MEDIROOM_LOG_LEVEL", "warn")
	t.Setenv("LIVEKIT_URL", "wss://media.example.com")
	t.Setenv("LIVEKIT_API_SECRET", "override-secret")

	cfg, err := config.Load(path)
	assert.NoError(t, err)

	// YAML values
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "devkey", cfg.LiveKit.APIKey)

	// Env overrides
	assert.Equal(t, ":7000", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "wss://media.example.com", cfg.LiveKit.URL)
	assert.Equal(t, "override-secret", cfg.LiveKit.APISecret)
}

func TestLoad_InvalidConfigFailsValidation(t *testing.T) {
	path := writeTempConfig(t, `
livekit:
  url: "ws://localhost:7880"
  api_key: "devkey"
  api_secret: "devsecret"
  token_ttl: -1s
`)

	_, err := config.Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "token_ttl")
}

func TestValidate_RateLimitingBounds(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LiveKit.APIKey = "devkey"
	cfg.LiveKit.APISecret = "devsecret"
	cfg.RateLimiting.Enabled = true
	cfg.RateLimiting.HTTP.RequestsPerSecond = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requests_per_second")
}
