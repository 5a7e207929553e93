package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	dietdb "github.com/dietlog/server/db"
	"github.com/dietlog/server/pkg/logger"
)

var (
	ErrNoSecret      = errors.New("HMAC_SECRET env var is required")
	ErrInvalidDBMode = errors.New("invalid db mode")
)

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
	Trace    Trace    `yaml:"trace"`
}

type Server struct {
	Port       string        `yaml:"port"`
	HMACSecret string        `yaml:"hmacSecret"`
	TokenTTL   time.Duration `yaml:"tokenTTL"`
}

type Database struct {
	// Mode is dietdb.LOCAL for a database file at Path or dietdb.MEMORY for a
	// throwaway in-memory database.
	Mode string `yaml:"mode"`
	Path string `yaml:"path"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Trace struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"serviceName"`
}

func Default() Config {
	return Config{
		Server:   Server{Port: "8080", TokenTTL: 24 * time.Hour},
		Database: Database{Mode: dietdb.LOCAL, Path: "dietlog.db"},
		Log:      Log{Level: "info", Format: logger.FormatJSON},
		Trace:    Trace{ServiceName: "dietlog-server"},
	}
}

// Load reads the YAML file at path on top of the defaults, then applies the
// environment. An empty path skips the file.
func Load(path string) (Config, error) {
	config := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, err
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return Config{}, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	config.applyEnv(os.LookupEnv)
	if config.Server.HMACSecret == "" {
		return Config{}, ErrNoSecret
	}
	switch config.Database.Mode {
	case dietdb.LOCAL, dietdb.MEMORY:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidDBMode, config.Database.Mode)
	}
	return config, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("PORT", &c.Server.Port)
	set("HMAC_SECRET", &c.Server.HMACSecret)
	set("DB_MODE", &c.Database.Mode)
	set("DB_PATH", &c.Database.Path)
	set("LOG_LEVEL", &c.Log.Level)
	set("LOG_FORMAT", &c.Log.Format)
	set("TRACE_ENDPOINT", &c.Trace.Endpoint)
}
