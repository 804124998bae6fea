// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// starkhand is a command-line client for Starknet: key management,
// class-hash computation, read calls, and transaction submission.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/starkhand/starkhand/internal/config"
	"github.com/starkhand/starkhand/internal/version"
)

var (
	flagConfig  string
	flagRPC     string
	flagNetwork string
	flagVerbose bool

	cfg *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "starkhand",
		Short:         "Starknet account and transaction tool",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(flagConfig)
			if err != nil {
				return err
			}
			if flagRPC != "" {
				cfg.RPCURL = flagRPC
			}
			if flagNetwork != "" {
				cfg.Network = flagNetwork
			}
			setupLogging()
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.starkhand/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagRPC, "rpc", "", "RPC endpoint URL")
	rootCmd.PersistentFlags().StringVar(&flagNetwork, "network", "", "network profile from the config file")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		signerCommand(),
		selectorCommand(),
		classHashCommand(),
		classHashAtCommand(),
		callCommand(),
		invokeCommand(),
		declareCommand(),
		deployCommand(),
		accountCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes diagnostics to stderr so stdout stays
// machine-readable.
func setupLogging() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	if flagVerbose {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)
}
