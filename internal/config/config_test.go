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

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, 50*time.Millisecond, cfg.TickPeriod)
	assert.Equal(t, 256, cfg.SendBuffer)
	assert.Equal(t, 64, cfg.InboxSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.Empty(t, cfg.NATSURL)
	assert.Empty(t, cfg.ConsulAddr)
	assert.Equal(t, "eggrush", cfg.ServiceName)

	port, err := cfg.Port()
	require.NoError(t, err)
	assert.Equal(t, 8000, port)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EGGRUSH_ADDR", "127.0.0.1:9100")
	t.Setenv("EGGRUSH_TICK_PERIOD", "20ms")
	t.Setenv("EGGRUSH_LOG_JSON", "true")
	t.Setenv("EGGRUSH_NATS_URL", "nats://localhost:4222")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9100", cfg.Addr)
	assert.Equal(t, 20*time.Millisecond, cfg.TickPeriod)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, "nats://localhost:4222", cfg.NATSURL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"zero tick", "EGGRUSH_TICK_PERIOD", "0s"},
		{"negative buffer", "EGGRUSH_SEND_BUFFER", "-1"},
		{"no port", "EGGRUSH_ADDR", "localhost"},
		{"not a duration", "EGGRUSH_TICK_PERIOD", "fast"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
