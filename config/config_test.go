// file: config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "bolt", cfg.StoreDriver)
	assert.Equal(t, 5, cfg.RecentCompetitions)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("FRAME_ANCESTORS", "'self' https://tv.example")
	t.Setenv("RECENT_COMPETITIONS", "3")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.StoreDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, []string{"'self'", "https://tv.example"}, cfg.FrameAncestors)
	assert.Equal(t, 3, cfg.RecentCompetitions)
	assert.True(t, cfg.MetricsEnabled)
}

// Test: .env values apply unless the environment already sets them
func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SEED_FILE=fixtures.yaml\nXRAY_SEGMENT=from-file\n"), 0644))
	t.Setenv("XRAY_SEGMENT", "from-env")
	t.Cleanup(func() { os.Unsetenv("SEED_FILE") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fixtures.yaml", cfg.SeedFile)
	assert.Equal(t, "from-env", cfg.XRaySegment)
}

func TestLoadRejectsBadValues(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.env")

	t.Setenv("STORE_DRIVER", "mongo")
	_, err := Load(missing)
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "bolt")
	t.Setenv("RECENT_COMPETITIONS", "zero")
	_, err = Load(missing)
	assert.Error(t, err)
}
