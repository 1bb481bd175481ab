package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvEmail    = "FANGEN_EMAIL"
	EnvPassword = "FANGEN_PASSWORD"
	EnvEvent    = "FANGEN_EVENT"
	EnvDB       = "FANGEN_DB"
	EnvLogLevel = "FANGEN_LOG_LEVEL"
)

// Load reads the config at path over the defaults, then applies environment
// overrides, then validates. A .env file next to the working directory is
// loaded into the environment first when present.
func Load(path string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := readFile(path, &cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("%w: parsing %s: %v", ErrInvalidConfig, path, err)
		}
	default:
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, errUnknownFormat)
	}
	return nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvEmail, &cfg.Email},
		{EnvPassword, &cfg.Password},
		{EnvEvent, &cfg.EventName},
		{EnvDB, &cfg.DBPath},
		{EnvLogLevel, &cfg.Log.Level},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.dst = v
		}
	}
}
