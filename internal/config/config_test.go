package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NOTIFICATION_DEDUP_ENABLED", "")
	t.Setenv("WS_SEND_BUFFER", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "en", cfg.Locale)
	assert.False(t, cfg.NotificationDedupEnabled)
	assert.Equal(t, time.Duration(0), cfg.NotificationDedupWindow)
	assert.Equal(t, 16, cfg.WSSendBuffer)
	assert.Equal(t, 30*time.Second, cfg.WSPingInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NOTIFICATION_DEDUP_ENABLED", "true")
	t.Setenv("NOTIFICATION_DEDUP_WINDOW", "24h")
	t.Setenv("WS_SEND_BUFFER", "64")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()

	assert.True(t, cfg.NotificationDedupEnabled)
	assert.Equal(t, 24*time.Hour, cfg.NotificationDedupWindow)
	assert.Equal(t, 64, cfg.WSSendBuffer)
	assert.True(t, cfg.IsProduction())
}

func TestGetIntEnv(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "valid", value: "8", want: 8},
		{name: "not a number", value: "abc", want: 3},
		{name: "non positive", value: "-1", want: 3},
		{name: "unset", value: "", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT_ENV", tt.value)
			assert.Equal(t, tt.want, getIntEnv("TEST_INT_ENV", 3))
		})
	}
}
