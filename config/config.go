package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the service,
// e.g. TODOPLANS_ADDR.
const EnvPrefix = "TODOPLANS"

type Config struct {
	// network address the API listens on
	Addr string

	// origins allowed by CORS; "*" allows any
	AllowedOrigins []string

	// store backend: "memory" or "sqlite"
	Store string

	LogLevel  string
	LogFormat string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("allowed-origins", []string{"*"})
	v.SetDefault("store", "memory")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
}

// LoadDotenv loads the first .env found in the working directory or its
// parent. A missing file is not an error.
func LoadDotenv() string {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				return p
			}
		}
	}
	return ""
}

// Load reads configuration from v, which should already have flags bound.
// If path is set, that file is merged in first.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", path)
		}
	}

	cfg := &Config{
		Addr:           strings.TrimSpace(v.GetString("addr")),
		AllowedOrigins: splitOrigins(v.GetStringSlice("allowed-origins")),
		Store:          strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		LogLevel:       v.GetString("log-level"),
		LogFormat:      strings.ToLower(v.GetString("log-format")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitOrigins flattens comma-separated entries, which is how a list
// arrives from an environment variable.
func splitOrigins(values []string) []string {
	var origins []string
	for _, value := range values {
		for _, p := range strings.Split(value, ",") {
			if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return origins
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	switch c.Store {
	case "memory", "sqlite":
	default:
		return errors.Errorf("unknown store %q, expected memory or sqlite", c.Store)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log-level")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("unknown log-format %q, expected text or json", c.LogFormat)
	}
	return nil
}

// ConfigureLogger applies the level and format to logger.
func (c *Config) ConfigureLogger(logger *logrus.Logger) {
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
