package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 20*time.Second, cfg.InactivityThreshold)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"PORT":                 "9090",
		"STORAGE_TYPE":         "Redis",
		"REDIS_URL":            "redis://localhost:6379/0",
		"INACTIVITY_THRESHOLD": "45s",
		"SWEEP_INTERVAL":       "1s",
		"GAME_RETENTION":       "30m",
		"LOG_LEVEL":            "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageRedis, cfg.StorageType)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 45*time.Second, cfg.InactivityThreshold)
	assert.Equal(t, time.Second, cfg.SweepInterval)
	assert.Equal(t, 30*time.Minute, cfg.GameRetention)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "redis without url",
			env:  map[string]string{"STORAGE_TYPE": "redis"},
			want: "REDIS_URL",
		},
		{
			name: "unknown storage",
			env:  map[string]string{"STORAGE_TYPE": "postgres"},
			want: "STORAGE_TYPE",
		},
		{
			name: "bad duration",
			env:  map[string]string{"SWEEP_INTERVAL": "soon"},
			want: "SWEEP_INTERVAL",
		},
		{
			name: "negative duration",
			env:  map[string]string{"INACTIVITY_THRESHOLD": "-5s"},
			want: "INACTIVITY_THRESHOLD",
		},
		{
			name: "bad log level",
			env:  map[string]string{"LOG_LEVEL": "loud"},
			want: "LOG_LEVEL",
		},
		{
			name: "bad port",
			env:  map[string]string{"PORT": "http"},
			want: "PORT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(lookupFrom(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GAME_RETENTION=2h\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PORT", "7070")
	// godotenv never overrides variables that are already set
	t.Setenv("GAME_RETENTION", "")
	require.NoError(t, os.Unsetenv("GAME_RETENTION"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.GameRetention)
}
