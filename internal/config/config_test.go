package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg Config)
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, ":8080", cfg.HTTPAddr)
				assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, 3, cfg.TxMaxRetries)
				assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
				assert.Empty(t, cfg.RedisAddr)
			},
		},
		{
			name: "overrides",
			env: map[string]string{
				"HTTP_ADDR":        ":9090",
				"SHUTDOWN_TIMEOUT": "3s",
				"CORS_ORIGINS":     "https://a.example,https://b.example",
				"RENDER_WORKERS":   "4",
				"REDIS_ADDR":       "localhost:6379",
			},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, ":9090", cfg.HTTPAddr)
				assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
				assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
				assert.Equal(t, 4, cfg.RenderWorkers)
				assert.Equal(t, "localhost:6379", cfg.RedisAddr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := FromEnv()
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestFromEnvRejectsBadWorkerCount(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RENDER_WORKERS", "0")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RENDER_WORKERS")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
