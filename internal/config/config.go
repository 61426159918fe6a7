// Package config loads gateway configuration from an optional YAML
// file and HFTGW_-prefixed environment variables via viper, providing
// defaults that the CLI's explicit flags always override.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is the full set of tunables the gateway accepts.
type Config struct {
	IP           string `mapstructure:"ip"`
	Port         int    `mapstructure:"port"`
	Threads      int    `mapstructure:"threads"`
	ShardCount   int    `mapstructure:"shard_count"`
	BufferPoolSize int  `mapstructure:"buffer_pool_size"`
	MetricsAddr  string `mapstructure:"metrics_addr"`
}

// Default returns the built-in configuration defaults, matching the
// original server's constructor defaults.
func Default() Config {
	return Config{
		IP:             "127.0.0.1",
		Port:           8888,
		Threads:        4,
		ShardCount:     16,
		BufferPoolSize: 4096,
		MetricsAddr:    ":9090",
	}
}

// Load reads an optional "config.yaml" from the working directory and
// HFTGW_-prefixed environment variables, layering them over Default().
// A missing config file is not an error; a malformed one is.
func Load() (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("HFTGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ip", cfg.IP)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("threads", cfg.Threads)
	v.SetDefault("shard_count", cfg.ShardCount)
	v.SetDefault("buffer_pool_size", cfg.BufferPoolSize)
	v.SetDefault("metrics_addr", cfg.MetricsAddr)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
