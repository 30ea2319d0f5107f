package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TODOPLANS_ADDR", "127.0.0.1:9000")
	t.Setenv("TODOPLANS_STORE", "SQLite")
	t.Setenv("TODOPLANS_ALLOWED_ORIGINS", "http://a.test/, http://b.test")
	t.Setenv("TODOPLANS_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todoplans.yaml")
	content := "addr: \":7070\"\nstore: sqlite\nlog-format: json\nallowed-origins:\n  - http://app.test\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"http://app.test"}, cfg.AllowedOrigins)

	_, err = Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Config{Addr: ":8080", Store: "memory", LogLevel: "info", LogFormat: "text"}
	assert.NoError(t, valid.Validate())

	tests := map[string]func(c *Config){
		"empty addr": func(c *Config) { c.Addr = "" },
		"bad store":  func(c *Config) { c.Store = "postgres" },
		"bad level":  func(c *Config) { c.LogLevel = "loud" },
		"bad format": func(c *Config) { c.LogFormat = "xml" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfigureLogger(t *testing.T) {
	logger := logrus.New()
	cfg := Config{LogLevel: "warn", LogFormat: "json"}
	cfg.ConfigureLogger(logger)

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	assert.Equal(t, "", LoadDotenv())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TODOPLANS_DOTENV_PROBE=yes\n"), 0644))
	t.Setenv("TODOPLANS_DOTENV_PROBE", "")
	os.Unsetenv("TODOPLANS_DOTENV_PROBE")

	assert.Equal(t, ".env", LoadDotenv())
	assert.Equal(t, "yes", os.Getenv("TODOPLANS_DOTENV_PROBE"))
}
