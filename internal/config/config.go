package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bibekchandsah/fling/internal/bytesize"
)

// Config defines configuration for the fling server.
type Config struct {
	ShareDir string `yaml:"share_dir"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`

	Preset string `yaml:"preset"`

	ChunkSize    int64 `yaml:"chunk_size"`
	SocketBuffer int64 `yaml:"socket_buffer"`
	MaxFileSize  int64 `yaml:"max_file_size"`

	EnableRanges bool          `yaml:"enable_ranges"`
	EnableCache  bool          `yaml:"enable_cache"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`

	MaxConcurrent int           `yaml:"max_concurrent"`
	ThrottleDelay time.Duration `yaml:"throttle_delay"`

	ConnTimeout time.Duration `yaml:"conn_timeout"`
	LogLevel    string        `yaml:"log_level"`
}

// Default returns a Config with sensible defaults (the balanced preset).
func Default() Config {
	return Config{
		Host:         "0.0.0.0",
		Port:         8000,
		Preset:       "balanced",
		ChunkSize:    4 * bytesize.MB,
		SocketBuffer: 2 * bytesize.MB,
		MaxFileSize:  16 * bytesize.GB,
		EnableRanges: true,
		EnableCache:  true,
		CacheTTL:     time.Hour,
		ConnTimeout:  120 * time.Second,
		LogLevel:     "info",
	}
}

// yamlConfig is used for YAML unmarshaling with human-readable byte sizes
// and durations, and pointers where absence must not clobber defaults.
type yamlConfig struct {
	ShareDir      string `yaml:"share_dir"`
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Preset        string `yaml:"preset"`
	ChunkSize     string `yaml:"chunk_size"`
	SocketBuffer  string `yaml:"socket_buffer"`
	MaxFileSize   string `yaml:"max_file_size"`
	EnableRanges  *bool  `yaml:"enable_ranges"`
	EnableCache   *bool  `yaml:"enable_cache"`
	CacheTTL      string `yaml:"cache_ttl"`
	MaxConcurrent *int   `yaml:"max_concurrent"`
	ThrottleDelay string `yaml:"throttle_delay"`
	ConnTimeout   string `yaml:"conn_timeout"`
	LogLevel      string `yaml:"log_level"`
}

// LoadFromFile loads configuration from a YAML file on top of defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.ShareDir != "" {
		cfg.ShareDir = yc.ShareDir
	}
	if yc.Host != "" {
		cfg.Host = yc.Host
	}
	if yc.Port != 0 {
		cfg.Port = yc.Port
	}
	if yc.Preset != "" {
		cfg.Preset = yc.Preset
	}
	if yc.ChunkSize != "" {
		size, err := bytesize.Parse(yc.ChunkSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse chunk_size: %w", err)
		}
		cfg.ChunkSize = size
	}
	if yc.SocketBuffer != "" {
		size, err := bytesize.Parse(yc.SocketBuffer)
		if err != nil {
			return Config{}, fmt.Errorf("parse socket_buffer: %w", err)
		}
		cfg.SocketBuffer = size
	}
	if yc.MaxFileSize != "" {
		size, err := bytesize.Parse(yc.MaxFileSize)
		if err != nil {
			return Config{}, fmt.Errorf("parse max_file_size: %w", err)
		}
		cfg.MaxFileSize = size
	}
	if yc.EnableRanges != nil {
		cfg.EnableRanges = *yc.EnableRanges
	}
	if yc.EnableCache != nil {
		cfg.EnableCache = *yc.EnableCache
	}
	if yc.CacheTTL != "" {
		d, err := time.ParseDuration(yc.CacheTTL)
		if err != nil {
			return Config{}, fmt.Errorf("parse cache_ttl: %w", err)
		}
		cfg.CacheTTL = d
	}
	if yc.MaxConcurrent != nil {
		cfg.MaxConcurrent = *yc.MaxConcurrent
	}
	if yc.ThrottleDelay != "" {
		d, err := time.ParseDuration(yc.ThrottleDelay)
		if err != nil {
			return Config{}, fmt.Errorf("parse throttle_delay: %w", err)
		}
		cfg.ThrottleDelay = d
	}
	if yc.ConnTimeout != "" {
		d, err := time.ParseDuration(yc.ConnTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse conn_timeout: %w", err)
		}
		cfg.ConnTimeout = d
	}
	if yc.LogLevel != "" {
		cfg.LogLevel = yc.LogLevel
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the FLING_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("FLING_SHARE_DIR"); v != "" {
		c.ShareDir = v
	}
	if v := os.Getenv("FLING_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("FLING_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse FLING_PORT: %w", err)
		}
		c.Port = n
	}
	if v := os.Getenv("FLING_PRESET"); v != "" {
		c.Preset = v
	}
	if v := os.Getenv("FLING_CHUNK_SIZE"); v != "" {
		size, err := bytesize.Parse(v)
		if err != nil {
			return fmt.Errorf("parse FLING_CHUNK_SIZE: %w", err)
		}
		c.ChunkSize = size
	}
	if v := os.Getenv("FLING_SOCKET_BUFFER"); v != "" {
		size, err := bytesize.Parse(v)
		if err != nil {
			return fmt.Errorf("parse FLING_SOCKET_BUFFER: %w", err)
		}
		c.SocketBuffer = size
	}
	if v := os.Getenv("FLING_MAX_FILE_SIZE"); v != "" {
		size, err := bytesize.Parse(v)
		if err != nil {
			return fmt.Errorf("parse FLING_MAX_FILE_SIZE: %w", err)
		}
		c.MaxFileSize = size
	}
	if v := os.Getenv("FLING_ENABLE_RANGES"); v != "" {
		c.EnableRanges = v == "true" || v == "1"
	}
	if v := os.Getenv("FLING_ENABLE_CACHE"); v != "" {
		c.EnableCache = v == "true" || v == "1"
	}
	if v := os.Getenv("FLING_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse FLING_CACHE_TTL: %w", err)
		}
		c.CacheTTL = d
	}
	if v := os.Getenv("FLING_MAX_CONCURRENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse FLING_MAX_CONCURRENT: %w", err)
		}
		c.MaxConcurrent = n
	}
	if v := os.Getenv("FLING_THROTTLE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse FLING_THROTTLE_DELAY: %w", err)
		}
		c.ThrottleDelay = d
	}
	if v := os.Getenv("FLING_CONN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse FLING_CONN_TIMEOUT: %w", err)
		}
		c.ConnTimeout = d
	}
	if v := os.Getenv("FLING_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.ShareDir == "" {
		return errors.New("config: share_dir is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port out of range: %d", c.Port)
	}
	if _, ok := PresetByName(c.Preset); !ok && c.Preset != PresetCustom {
		return fmt.Errorf("config: unknown preset: %s", c.Preset)
	}
	if c.ChunkSize <= 0 {
		return errors.New("config: chunk_size must be positive")
	}
	if c.SocketBuffer <= 0 {
		return errors.New("config: socket_buffer must be positive")
	}
	if c.MaxFileSize <= 0 {
		return errors.New("config: max_file_size must be positive")
	}
	if c.CacheTTL < 0 {
		return errors.New("config: cache_ttl must not be negative")
	}
	if c.MaxConcurrent < 0 {
		return errors.New("config: max_concurrent must not be negative")
	}
	if c.ThrottleDelay < 0 {
		return errors.New("config: throttle_delay must not be negative")
	}
	if c.ConnTimeout < 0 {
		return errors.New("config: conn_timeout must not be negative")
	}
	return nil
}
