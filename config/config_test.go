package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
    t.Setenv("TRIPAY_API_KEY", "key")
    t.Setenv("TRIPAY_SECRET_PIN", "1234")

    cfg := Load()

    assert.Equal(t, ModeSandbox, cfg.Tripay.Mode)
    assert.Equal(t, defaultSandboxBaseURI, cfg.Tripay.BaseURI())
    assert.Equal(t, 30*time.Second, cfg.Tripay.Timeout)
    assert.Equal(t, 3, cfg.Tripay.RetryCount)
    assert.Equal(t, 1000*time.Millisecond, cfg.Tripay.RetryDelay)

    assert.True(t, cfg.Cache.Enabled)
    assert.Equal(t, 43200*time.Second, cfg.Cache.TTL)
    assert.Equal(t, "tripay", cfg.Cache.Prefix)

    assert.True(t, cfg.RateLimit.Enabled)
    assert.Equal(t, 60, cfg.RateLimit.MaxAttempts)
    assert.Equal(t, time.Minute, cfg.RateLimit.Window)

    assert.Equal(t, "8080", cfg.Server.Port)
    assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
}

func TestLoadProductionMode(t *testing.T) {
    t.Setenv("TRIPAY_MODE", ModeProduction)
    t.Setenv("TRIPAY_API_KEY", "key")
    t.Setenv("TRIPAY_SECRET_PIN", "1234")

    cfg := Load()
    assert.Equal(t, defaultProductionBaseURI, cfg.Tripay.BaseURI())
}

func TestLoadOverrides(t *testing.T) {
    t.Setenv("TRIPAY_TIMEOUT", "10")
    t.Setenv("TRIPAY_RETRY", "1")
    t.Setenv("TRIPAY_CACHE_ENABLED", "false")
    t.Setenv("TRIPAY_CACHE_TTL", "60")

    cfg := Load()
    assert.Equal(t, 10*time.Second, cfg.Tripay.Timeout)
    assert.Equal(t, 1, cfg.Tripay.RetryCount)
    assert.False(t, cfg.Cache.Enabled)
    assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
    t.Setenv("TRIPAY_RETRY", "not-a-number")
    t.Setenv("TRIPAY_CACHE_ENABLED", "not-a-bool")

    cfg := Load()
    assert.Equal(t, 3, cfg.Tripay.RetryCount)
    assert.True(t, cfg.Cache.Enabled)
}

func TestBaseURIUnknownModeFallsBackToSandbox(t *testing.T) {
    cfg := TripayConfig{
        Mode:              "staging",
        SandboxBaseURI:    "https://sandbox.example",
        ProductionBaseURI: "https://prod.example",
    }
    assert.Equal(t, "https://sandbox.example", cfg.BaseURI())
}
