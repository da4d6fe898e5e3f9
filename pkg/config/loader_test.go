package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/shopkit/pkg/config"
)

type storeConfig struct {
	BaseURL string `env:"TEST_STORE_BASE_URL" envDefault:"https://shop.example.com"`
	Workers int    `env:"TEST_STORE_WORKERS" envDefault:"4"`
}

type strictConfig struct {
	Token string `env:"TEST_STORE_TOKEN,required"`
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("TEST_STORE_BASE_URL")
	os.Unsetenv("TEST_STORE_WORKERS")
	config.ResetCache()

	cfg, err := config.Load[storeConfig]()
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com", cfg.BaseURL)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadCachesPerType(t *testing.T) {
	os.Setenv("TEST_STORE_WORKERS", "8")
	t.Cleanup(func() { os.Unsetenv("TEST_STORE_WORKERS") })
	config.ResetCache()

	first, err := config.Load[storeConfig]()
	require.NoError(t, err)
	assert.Equal(t, 8, first.Workers)

	// Environment changes after the first load are not observed.
	os.Setenv("TEST_STORE_WORKERS", "16")
	second, err := config.Load[storeConfig]()
	require.NoError(t, err)
	assert.Equal(t, 8, second.Workers)

	config.ResetCache()
	third, err := config.Load[storeConfig]()
	require.NoError(t, err)
	assert.Equal(t, 16, third.Workers)
}

func TestLoadRequiredMissing(t *testing.T) {
	os.Unsetenv("TEST_STORE_TOKEN")
	config.ResetCache()

	_, err := config.Load[strictConfig]()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadEnvFiles(t *testing.T) {
	os.Unsetenv("TEST_STORE_BASE_URL")
	config.ResetCache()

	base := writeEnvFile(t, "TEST_STORE_BASE_URL=https://staging.example.com\n")
	require.NoError(t, config.LoadEnv(base))

	cfg, err := config.Load[storeConfig]()
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cfg.BaseURL)
	os.Unsetenv("TEST_STORE_BASE_URL")
}

func TestLoadEnvMissingFile(t *testing.T) {
	err := config.LoadEnv(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}

func TestMustLoadEnvPanics(t *testing.T) {
	assert.Panics(t, func() {
		config.MustLoadEnv(filepath.Join(t.TempDir(), "absent.env"))
	})
}

func TestMustLoad(t *testing.T) {
	os.Unsetenv("TEST_STORE_TOKEN")
	config.ResetCache()

	assert.Panics(t, func() {
		config.MustLoad[strictConfig]()
	})

	assert.NotPanics(t, func() {
		config.MustLoad[storeConfig]()
	})
}
