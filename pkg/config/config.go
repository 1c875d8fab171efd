// Package config loads simulation parameters with viper from built-in
// defaults, an optional YAML config file and POWSIM_ environment variables;
// environment variables override the file, and the file overrides defaults.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// SimulationConfig holds everything needed to stand up a network of nodes
// and drive it.
type SimulationConfig struct {
	NodeCount    int           // number of nodes to create
	Difficulty   int           // required leading-zero hex digits in a block hash
	MiningReward uint64        // coinbase reward in base units
	MineInterval time.Duration // delay between automatic mining rounds
	LogLevel     string        // debug, info, warn, error
}

// DefaultConfig returns the default simulation configuration.
func DefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		NodeCount:    5,
		Difficulty:   2,
		MiningReward: 50 * 100_000_000,
		MineInterval: 5 * time.Second,
		LogLevel:     "info",
	}
}

// Load reads configuration from an optional file path, then environment
// variables prefixed POWSIM_, falling back to DefaultConfig for anything
// unset. With an empty configFile, a missing config.yaml in the working
// directory is not an error; an explicitly named file that cannot be read is
// an error, and so is a malformed file.
func Load(configFile string) (*SimulationConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("node_count", cfg.NodeCount)
	v.SetDefault("difficulty", cfg.Difficulty)
	v.SetDefault("mining_reward", cfg.MiningReward)
	v.SetDefault("mine_interval", cfg.MineInterval)
	v.SetDefault("log_level", cfg.LogLevel)

	v.SetEnvPrefix("POWSIM")
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.NodeCount = v.GetInt("node_count")
	cfg.Difficulty = v.GetInt("difficulty")
	cfg.MiningReward = uint64(v.GetInt64("mining_reward"))
	cfg.MineInterval = v.GetDuration("mine_interval")
	cfg.LogLevel = v.GetString("log_level")

	return cfg, cfg.Validate()
}

// Validate checks that the configuration describes a runnable simulation.
func (c *SimulationConfig) Validate() error {
	if c.NodeCount < 1 {
		return fmt.Errorf("node count must be at least 1, got %d", c.NodeCount)
	}
	if c.Difficulty < 0 {
		return fmt.Errorf("difficulty cannot be negative, got %d", c.Difficulty)
	}
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return nil
}

// String renders a short human-readable summary.
func (c *SimulationConfig) String() string {
	return fmt.Sprintf(`Simulation Configuration:
  Node Count:     %d
  Difficulty:     %d
  Mining Reward:  %d
  Mine Interval:  %v
  Log Level:      %s`,
		c.NodeCount, c.Difficulty, c.MiningReward, c.MineInterval, c.LogLevel)
}
