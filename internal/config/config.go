// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// Package config loads tool configuration from the user's config file and
// the environment. Resolution order: command-line flag, environment
// variable, config file, built-in default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Environment variables honored across commands.
const (
	EnvRPCURL     = "STARKHAND_RPC_URL"
	EnvNetwork    = "STARKHAND_NETWORK"
	EnvKeystore   = "STARKNET_KEYSTORE"
	EnvPrivateKey = "STARKNET_PRIVATE_KEY"
)

// Config is the tool's persisted configuration.
type Config struct {
	Network  string                   `mapstructure:"network"`
	RPCURL   string                   `mapstructure:"rpc_url"`
	Keystore string                   `mapstructure:"keystore"`
	Networks map[string]NetworkConfig `mapstructure:"networks"`
	Fee      FeeConfig                `mapstructure:"fee"`
	Watch    WatchConfig              `mapstructure:"watch"`
	Logging  LoggingConfig            `mapstructure:"logging"`
}

// NetworkConfig is one named network profile.
type NetworkConfig struct {
	RPCURL  string `mapstructure:"rpc_url"`
	ChainID string `mapstructure:"chain_id"`
}

// FeeConfig tunes fee handling.
type FeeConfig struct {
	// EstimateTimeout bounds the fee-estimation RPC.
	EstimateTimeout time.Duration `mapstructure:"estimate_timeout"`
}

// WatchConfig tunes receipt polling.
type WatchConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// LoggingConfig tunes diagnostic output.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultDir is the tool's configuration directory, ~/.starkhand.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".starkhand"
	}
	return filepath.Join(home, ".starkhand")
}

// Load reads configuration from path, or from the default location when
// path is empty. A missing file is not an error; defaults and environment
// variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultDir())
	}

	v.SetEnvPrefix("STARKHAND")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if url := os.Getenv(EnvRPCURL); url != "" {
		cfg.RPCURL = url
	}
	if network := os.Getenv(EnvNetwork); network != "" {
		cfg.Network = network
	}
	if ks := os.Getenv(EnvKeystore); ks != "" {
		cfg.Keystore = ks
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network", "sepolia")
	v.SetDefault("fee.estimate_timeout", "30s")
	v.SetDefault("watch.poll_interval", "5s")
	v.SetDefault("watch.timeout", "5m")
	v.SetDefault("logging.level", "warn")

	v.SetDefault("networks.mainnet.rpc_url", "https://starknet-mainnet.public.blastapi.io/rpc/v0_7")
	v.SetDefault("networks.mainnet.chain_id", "SN_MAIN")
	v.SetDefault("networks.sepolia.rpc_url", "https://starknet-sepolia.public.blastapi.io/rpc/v0_7")
	v.SetDefault("networks.sepolia.chain_id", "SN_SEPOLIA")
}

// Resolve returns the RPC endpoint and chain identifier the tool should
// talk to: an explicit URL wins over the selected network profile.
func (c *Config) Resolve() (rpcURL, chainID string, err error) {
	net, ok := c.Networks[c.Network]
	if c.RPCURL != "" {
		if ok {
			return c.RPCURL, net.ChainID, nil
		}
		// chain id is confirmed against the node at dial time
		return c.RPCURL, "", nil
	}
	if !ok {
		return "", "", fmt.Errorf("unknown network %q and no rpc url configured", c.Network)
	}
	return net.RPCURL, net.ChainID, nil
}
