package http

import (
	"testing"
	"time"

	"github.com/bkyoung/mtscreen/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestParseTimeout(t *testing.T) {
	override := "10s"
	bad := "not-a-duration"
	negative := "-5s"

	tests := []struct {
		name     string
		override *string
		global   string
		fallback time.Duration
		expected time.Duration
	}{
		{
			name:     "provider override wins",
			override: &override,
			global:   "30s",
			fallback: 60 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "global used when no override",
			global:   "30s",
			fallback: 60 * time.Second,
			expected: 30 * time.Second,
		},
		{
			name:     "default when nothing set",
			fallback: 60 * time.Second,
			expected: 60 * time.Second,
		},
		{
			name:     "invalid override falls through",
			override: &bad,
			global:   "30s",
			fallback: 60 * time.Second,
			expected: 30 * time.Second,
		},
		{
			name:     "negative override rejected",
			override: &negative,
			global:   "30s",
			fallback: 60 * time.Second,
			expected: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTimeout(tt.override, tt.global, tt.fallback))
		})
	}
}

func TestBuildRetryConfig_GlobalOnly(t *testing.T) {
	httpCfg := config.HTTPConfig{
		MaxRetries:        4,
		InitialBackoff:    "1s",
		MaxBackoff:        "16s",
		BackoffMultiplier: 2.0,
	}

	cfg := BuildRetryConfig(config.ProviderConfig{}, httpCfg)

	assert.Equal(t, 4, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.InitialBackoff)
	assert.Equal(t, 16*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 2.0, cfg.Multiplier)
}

func TestBuildRetryConfig_ProviderOverrides(t *testing.T) {
	maxRetries := 1
	initialBackoff := "500ms"
	provider := config.ProviderConfig{
		MaxRetries:     &maxRetries,
		InitialBackoff: &initialBackoff,
	}
	httpCfg := config.HTTPConfig{
		MaxRetries:        5,
		InitialBackoff:    "2s",
		MaxBackoff:        "32s",
		BackoffMultiplier: 2.0,
	}

	cfg := BuildRetryConfig(provider, httpCfg)

	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.InitialBackoff)
	assert.Equal(t, 32*time.Second, cfg.MaxBackoff)
}

func TestBuildRetryConfig_DefaultsWhenUnset(t *testing.T) {
	cfg := BuildRetryConfig(config.ProviderConfig{}, config.HTTPConfig{})

	assert.Equal(t, 2*time.Second, cfg.InitialBackoff)
	assert.Equal(t, 32*time.Second, cfg.MaxBackoff)
}
