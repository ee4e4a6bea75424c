package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level configuration loaded from file and environment.
// Environment variables use the MIRROR_ prefix with underscores for nesting,
// e.g. MIRROR_GRPC_LISTEN_ADDR.
type Config struct {
	Log          LogConfig          `mapstructure:"log"`
	GRPC         GRPCConfig         `mapstructure:"grpc"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Retriever    RetrieverConfig    `mapstructure:"retriever"`
	Listener     ListenerConfig     `mapstructure:"listener"`
	Subscription SubscriptionConfig `mapstructure:"subscription"`
	Ingest       IngestConfig       `mapstructure:"ingest"`
}

type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Pretty enables human-readable console output instead of JSON.
	Pretty bool `mapstructure:"pretty"`
}

type GRPCConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listen_addr"`
}

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
	// Fsync is one of always, interval, never.
	Fsync         string        `mapstructure:"fsync"`
	FsyncInterval time.Duration `mapstructure:"fsync_interval"`
}

type RetrieverConfig struct {
	MaxPageSize      int           `mapstructure:"max_page_size"`
	ThrottlePace     time.Duration `mapstructure:"throttle_pace"`
	RetryMaxAttempts uint32        `mapstructure:"retry_max_attempts"`
	RetryBackoffBase time.Duration `mapstructure:"retry_backoff_base"`
	RetryBackoffCap  time.Duration `mapstructure:"retry_backoff_cap"`
}

type ListenerConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

type SubscriptionConfig struct {
	CheckTopicExists bool `mapstructure:"check_topic_exists"`
}

type IngestConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
	ClientID string  `mapstructure:"client_id"`
	// Filter is an optional CEL admission expression evaluated per record.
	Filter string `mapstructure:"filter"`
}

// Load reads configuration from an optional file path, layered under
// MIRROR_-prefixed environment variables and defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("mirror")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("grpc.listen_addr", ":5600")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen_addr", ":9090")
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.fsync", "interval")
	v.SetDefault("storage.fsync_interval", 5*time.Millisecond)
	v.SetDefault("retriever.max_page_size", 1000)
	v.SetDefault("retriever.throttle_pace", 25*time.Millisecond)
	v.SetDefault("retriever.retry_max_attempts", 3)
	v.SetDefault("retriever.retry_backoff_base", 100*time.Millisecond)
	v.SetDefault("retriever.retry_backoff_cap", 2*time.Second)
	v.SetDefault("listener.buffer_size", 1024)
	v.SetDefault("subscription.check_topic_exists", true)
	v.SetDefault("ingest.enabled", false)
	v.SetDefault("ingest.topic", "mirror.records")
	v.SetDefault("ingest.group_id", "mirror-node")
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Storage.Fsync {
	case "always", "interval", "never":
	default:
		return fmt.Errorf("storage.fsync must be always, interval, or never, got %q", c.Storage.Fsync)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}
	if c.Retriever.MaxPageSize <= 0 {
		return fmt.Errorf("retriever.max_page_size must be positive")
	}
	if c.Listener.BufferSize <= 0 {
		return fmt.Errorf("listener.buffer_size must be positive")
	}
	if c.Ingest.Enabled {
		if len(c.Ingest.Brokers) == 0 {
			return fmt.Errorf("ingest.brokers is required when ingest is enabled")
		}
		if c.Ingest.Topic == "" {
			return fmt.Errorf("ingest.topic is required when ingest is enabled")
		}
		if c.Ingest.GroupID == "" {
			return fmt.Errorf("ingest.group_id is required when ingest is enabled")
		}
	}
	return nil
}
