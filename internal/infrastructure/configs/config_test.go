package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	req := require.New(t)

	cfg, err := Load("")
	req.NoError(err)

	req.Equal("0.0.0.0", cfg.HTTP.Host)
	req.Equal(uint16(8080), cfg.HTTP.Port)
	req.Equal([]string{"*"}, cfg.HTTP.AllowedOrigins)
	req.Equal(time.Hour, cfg.Negotiate.TokenTTL)
	req.Equal("poker", cfg.AMQP.Exchange)
	req.False(cfg.Tracing.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	req := require.New(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	req.NoError(os.WriteFile(path, []byte(`
http:
  port: 9090
negotiate:
  secret: "s3cret"
  token_ttl: 30m
`), 0o644))

	cfg, err := Load(path)
	req.NoError(err)

	req.Equal(uint16(9090), cfg.HTTP.Port)
	req.Equal("s3cret", cfg.Negotiate.Secret)
	req.Equal(30*time.Minute, cfg.Negotiate.TokenTTL)
	// Untouched keys keep their defaults
	req.Equal("0.0.0.0", cfg.HTTP.Host)
}

func TestLoad_EnvOverrides(t *testing.T) {
	req := require.New(t)

	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("NEGOTIATE_SECRET", "from-env")
	t.Setenv("TRACING_ENDPOINT", "http://collector:4318")

	cfg, err := Load("")
	req.NoError(err)

	req.Equal(uint16(7070), cfg.HTTP.Port)
	req.Equal("from-env", cfg.Negotiate.Secret)
	req.True(cfg.Tracing.Enabled)
	req.Equal("http://collector:4318", cfg.Tracing.Endpoint)
}

func TestLoad_MissingFileErrors(t *testing.T) {
	req := require.New(t)

	_, err := Load("/nonexistent/config.yaml")
	req.Error(err)
}
