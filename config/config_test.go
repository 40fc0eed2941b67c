package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"care-label-reader/internal/pipeline"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LABEL_CONFIG", "")
	t.Setenv("TELEGRAM_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, DefaultTemplatesDir, cfg.TemplatesDir)
	require.Equal(t, BackendAuto, cfg.Backend)
	require.Equal(t, ":8080", cfg.Server.Port)
	require.Empty(t, cfg.Redis.Addr)
	require.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	require.Equal(t, pipeline.DefaultParams(), cfg.Pipeline)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("LABEL_CONFIG", "")
	t.Setenv("TELEGRAM_TOKEN", "secret")
	t.Setenv("LABEL_TEMPLATES_DIR", "/tmp/templates")
	t.Setenv("LABEL_BACKEND", "raster")
	t.Setenv("LABEL_PIPELINE_MAX_SYMBOLS", "4")
	t.Setenv("LABEL_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "secret", cfg.TelegramToken)
	require.Equal(t, "/tmp/templates", cfg.TemplatesDir)
	require.Equal(t, BackendRaster, cfg.Backend)
	require.Equal(t, 4, cfg.Pipeline.MaxSymbols)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_mode: release
server:
  port: ":9090"
pipeline:
  label_open_radius: 12
  base_tolerance: 3
`), 0o644))
	t.Setenv("LABEL_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "release", cfg.LogMode)
	require.Equal(t, ":9090", cfg.Server.Port)
	require.Equal(t, 12, cfg.Pipeline.LabelOpenRadius)
	require.Equal(t, 3, cfg.Pipeline.BaseTolerance)
	require.Equal(t, pipeline.DefaultParams().InnerCloseRadius, cfg.Pipeline.InnerCloseRadius)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("LABEL_CONFIG", "")
	t.Setenv("LABEL_BACKEND", "cuda")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("LABEL_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}
