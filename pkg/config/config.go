// Package config loads originchart settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. the TOML file at $XDG_CONFIG_HOME/originchart/config.toml
//  3. ORIGINCHART_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// Example file:
//
//	guided = true
//	direction = "forward"
//	catalog = "origins.toml"
//
//	[cache]
//	backend = "redis"
//	ttl = "12h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "originchart"
//	collection = "origins"
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
)

// AppName names the configuration and cache directories.
const AppName = "originchart"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the merged configuration.
type Config struct {
	Guided    bool   `toml:"guided"`
	Direction string `toml:"direction"`
	Catalog   string `toml:"catalog"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Mongo  MongoConfig  `toml:"mongo"`
}

type CacheConfig struct {
	Backend   string        `toml:"backend"`
	TTL       time.Duration `toml:"ttl"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
}

type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
}

type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Guided:    true,
		Direction: origin.Forward.String(),
		Cache: CacheConfig{
			Backend:   CacheFile,
			TTL:       24 * time.Hour,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 4 << 20,
		},
		Mongo: MongoConfig{
			Database:   AppName,
			Collection: "origins",
		},
	}
}

// Path returns the default configuration file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the default file cache directory (~/.cache/originchart).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the file at path over the defaults and applies environment
// overrides. An empty path means [Path]; a missing default file is not an
// error, a missing explicit one is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return cfg, errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys %s", path, strings.Join(keys, ", "))
			}
		case os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", path)
		default:
			return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from ORIGINCHART_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("ORIGINCHART_GUIDED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "ORIGINCHART_GUIDED: %q is not a boolean", v)
		}
		c.Guided = b
	}
	strs := []struct {
		name string
		dst  *string
	}{
		{"ORIGINCHART_DIRECTION", &c.Direction},
		{"ORIGINCHART_CATALOG", &c.Catalog},
		{"ORIGINCHART_CACHE", &c.Cache.Backend},
		{"ORIGINCHART_REDIS_ADDR", &c.Cache.RedisAddr},
		{"ORIGINCHART_ADDR", &c.Server.Addr},
		{"ORIGINCHART_MONGO_URI", &c.Mongo.URI},
	}
	for _, s := range strs {
		if v, ok := lookup(s.name); ok {
			*s.dst = v
		}
	}
	return nil
}

// Validate checks enumerated and bounded fields.
func (c Config) Validate() error {
	if _, ok := origin.ParseDirection(c.Direction); !ok {
		return errors.New(errors.ErrCodeInvalidDirection, "direction %q: want forward or backward", c.Direction)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache backend %q: want file, redis or none", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache ttl must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server max_body_bytes must be positive")
	}
	return nil
}
