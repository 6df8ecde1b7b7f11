// Package config loads the executor, logging and metrics settings of the
// stream engine from an optional YAML file, an optional .env file and
// STREAM_* environment variables.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kabu1204/go-stream/logger"
	"github.com/kabu1204/go-stream/metrics"
)

// DefaultEnvPrefix is the prefix of the environment variables read by Load.
const DefaultEnvPrefix = "STREAM"

// Config is the configuration of a stream executor.
type Config struct {
	// Parallelism is the target number of concurrently evaluated leaf tasks.
	// It drives the split threshold of the parallel evaluator.
	Parallelism int `yaml:"parallelism" mapstructure:"parallelism"`
	// PoolSize is the capacity of the worker pool. Tasks that find the pool
	// saturated run on the goroutine that forked them.
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size"`

	Log     logger.Config  `yaml:"log" mapstructure:"log"`
	Metrics metrics.Config `yaml:"metrics" mapstructure:"metrics"`
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Parallelism <= 0 {
		c.Parallelism = runtime.GOMAXPROCS(0)
	}
	if c.PoolSize <= 0 {
		c.PoolSize = c.Parallelism * 4
	}
	c.Log.ApplyDefaults()
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = metrics.DefaultNamespace
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be positive (got: %d)", c.Parallelism)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("pool_size must be positive (got: %d)", c.PoolSize)
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}

// LoaderConfig selects the sources Load reads from.
type LoaderConfig struct {
	ConfigFile string // YAML file (optional)
	EnvFile    string // .env file (optional)
	EnvPrefix  string // defaults to DefaultEnvPrefix
}

// Load reads the configuration. Environment variables override the YAML
// file; variables from the .env file never override variables that are
// already set. Defaults are applied and the result is validated.
func Load(lc LoaderConfig) (Config, error) {
	prefix := lc.EnvPrefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	if lc.EnvFile != "" && exists(lc.EnvFile) {
		if err := godotenv.Load(lc.EnvFile); err != nil {
			return Config{}, fmt.Errorf("failed to load .env file %s: %w", lc.EnvFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if lc.ConfigFile != "" {
		v.SetConfigFile(lc.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", lc.ConfigFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// bindKeys registers every key so that AutomaticEnv is consulted by Unmarshal.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"parallelism",
		"pool_size",
		"log.level",
		"log.format",
		"log.output",
		"log.no_color",
		"log.timestamp",
		"metrics.enabled",
		"metrics.namespace",
	} {
		_ = v.BindEnv(key)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
