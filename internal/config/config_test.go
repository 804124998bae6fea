// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "sepolia", cfg.Network)
	require.Equal(t, 5*time.Second, cfg.Watch.PollInterval)
	require.Contains(t, cfg.Networks, "mainnet")
	require.Contains(t, cfg.Networks, "sepolia")
	require.Equal(t, "SN_MAIN", cfg.Networks["mainnet"].ChainID)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
network: devnet
keystore: /keys/main.json
networks:
  devnet:
    rpc_url: http://localhost:5050/rpc
    chain_id: SN_SEPOLIA
watch:
  poll_interval: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "devnet", cfg.Network)
	require.Equal(t, "/keys/main.json", cfg.Keystore)
	require.Equal(t, time.Second, cfg.Watch.PollInterval)

	url, chain, err := cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5050/rpc", url)
	require.Equal(t, "SN_SEPOLIA", chain)

	// built-in profiles survive a partial networks section
	require.Contains(t, cfg.Networks, "mainnet")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvRPCURL, "http://127.0.0.1:6060/rpc")
	t.Setenv(EnvNetwork, "mainnet")
	t.Setenv(EnvKeystore, "/tmp/ks.json")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "mainnet", cfg.Network)
	require.Equal(t, "/tmp/ks.json", cfg.Keystore)

	url, chain, err := cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:6060/rpc", url)
	require.Equal(t, "SN_MAIN", chain)
}

func TestResolveUnknownNetwork(t *testing.T) {
	cfg := &Config{Network: "nowhere", Networks: map[string]NetworkConfig{}}
	_, _, err := cfg.Resolve()
	require.Error(t, err)

	cfg.RPCURL = "http://localhost:5050"
	url, chain, err := cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5050", url)
	require.Empty(t, chain)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
