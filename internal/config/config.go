// Package config loads femtree.yaml, the settings shared by the CLI and
// the servers.
package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/femtree/pkg/adapters/process"
	"github.com/aretw0/femtree/pkg/adapters/redis"
	"github.com/aretw0/femtree/pkg/domain"
	"github.com/aretw0/femtree/pkg/persistence/middleware"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = "femtree.yaml"

// Environment overrides.
const (
	EnvStoreDir  = "FEMTREE_STORE_DIR"
	EnvLogLevel  = "FEMTREE_LOG_LEVEL"
	EnvRedisAddr = "FEMTREE_REDIS_ADDR"
	EnvEncKey    = "FEMTREE_ENCRYPTION_KEY"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Store   StoreConfig            `yaml:"store" json:"store"`
	Redis   RedisConfig            `yaml:"redis" json:"redis"`
	Log     LogConfig              `yaml:"log" json:"log"`
	Server  ServerConfig           `yaml:"server" json:"server"`
	Solvers []process.SolverConfig `yaml:"solvers" json:"solvers"`
}

type StoreConfig struct {
	Backend   string `yaml:"backend" json:"backend"`
	Dir       string `yaml:"dir" json:"dir"`
	Extension string `yaml:"extension" json:"extension"`
	// EncryptionKey is a hex AES key. When set, projects are stored sealed.
	EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
	// FallbackKeys are older hex keys still accepted for reading.
	FallbackKeys []string `yaml:"fallback_keys" json:"fallback_keys"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
	// Lock enables the distributed project lock.
	Lock bool `yaml:"lock" json:"lock"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend:   BackendFile,
			Dir:       ".femtree/projects",
			Extension: domain.DefaultExtension,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: redis.DefaultPrefix,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// Load reads path over the defaults and applies the environment overrides.
// A missing file is not an error. JSON files are accepted too.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	case strings.EqualFold(filepath.Ext(path), ".json"):
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvStoreDir); ok && v != "" {
		c.Store.Dir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		c.Redis.Addr = v
	}
	if v, ok := lookup(EnvEncKey); ok && v != "" {
		c.Store.EncryptionKey = v
	}
}

// Validate checks the backend and the server port.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", c.Server.Port)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl: negative duration %s", c.Redis.TTL)
	}
	if _, err := c.Store.Encryption(); err != nil {
		return err
	}
	return nil
}

// Encryption decodes the configured keys. It returns nil when no
// encryption key is set.
func (s StoreConfig) Encryption() (*middleware.EncryptionConfig, error) {
	if s.EncryptionKey == "" {
		if len(s.FallbackKeys) > 0 {
			return nil, errors.New("store.fallback_keys: set without store.encryption_key")
		}
		return nil, nil
	}
	active, err := decodeKey(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	enc := &middleware.EncryptionConfig{ActiveKey: active}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		enc.FallbackKeys = append(enc.FallbackKeys, key)
	}
	return enc, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	if !middleware.ValidKeySize(key) {
		return nil, fmt.Errorf("key is %d bytes, want 16, 24 or 32", len(key))
	}
	return key, nil
}
