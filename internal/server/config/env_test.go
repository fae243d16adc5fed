package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDotEnv(t *testing.T, path string) {
	t.Helper()
	orig := dotEnvFile
	dotEnvFile = path
	t.Cleanup(func() { dotEnvFile = orig })
}

func TestParseEnv_Values(t *testing.T) {
	withDotEnv(t, filepath.Join(t.TempDir(), "absent.env"))

	t.Setenv("PULSE_HTTP_ADDR", ":9999")
	t.Setenv("PULSE_REDDIT_LISTING_LIMIT", "50")
	t.Setenv("PULSE_SWEEP_INTERVAL", "90s")
	t.Setenv("PULSE_CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("PULSE_GNEWS_API_KEY", "")

	cfg := &Config{GNewsAPIKey: "keep"}
	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 50, cfg.RedditListingLimit)
	assert.Equal(t, 90*time.Second, cfg.SweepInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "keep", cfg.GNewsAPIKey, "empty variables are ignored")
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PULSE_REDDIT_SUBREDDIT=mumbai\nPULSE_S3_BUCKET=from-file\n"), 0o600))
	withDotEnv(t, path)
	t.Cleanup(func() {
		_ = os.Unsetenv("PULSE_REDDIT_SUBREDDIT")
		_ = os.Unsetenv("PULSE_S3_BUCKET")
	})
	t.Setenv("PULSE_S3_BUCKET", "from-env")

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "mumbai", cfg.RedditSubreddit)
	assert.Equal(t, "from-env", cfg.S3Bucket, "process environment wins over .env")
}

func TestParseEnv_Malformed(t *testing.T) {
	withDotEnv(t, filepath.Join(t.TempDir(), "absent.env"))

	t.Run("duration", func(t *testing.T) {
		t.Setenv("PULSE_SHUTDOWN_TIMEOUT", "soon")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
	t.Run("int", func(t *testing.T) {
		t.Setenv("PULSE_REDDIT_LISTING_LIMIT", "ten")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
}
