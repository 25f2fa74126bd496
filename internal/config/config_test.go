package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_URL", "http://localhost:8080")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_TIMEOUT_SEC", "")
	t.Setenv("CREDENTIALS_FILE", "")

	cfg := Load()

	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.NotEmpty(t, cfg.CredentialsFile)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("HTTP_TIMEOUT_SEC", "30")
	t.Setenv("CREDENTIALS_FILE", "/tmp/creds.json")

	cfg := Load()

	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "/tmp/creds.json", cfg.CredentialsFile)
}
