// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package main

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/starkhand/starkhand/internal/config"
	"github.com/starkhand/starkhand/internal/felt"
	"github.com/starkhand/starkhand/internal/provider"
	"github.com/starkhand/starkhand/internal/signer"
)

// dialProvider connects to the configured node and resolves the chain
// identifier, asking the node itself when the configuration does not pin
// one.
func dialProvider(ctx context.Context) (*provider.Client, *felt.Felt, error) {
	url, chainName, err := cfg.Resolve()
	if err != nil {
		return nil, nil, err
	}

	client, err := provider.Dial(ctx, url)
	if err != nil {
		return nil, nil, err
	}

	if chainName != "" {
		chainID, err := felt.ShortString(chainName)
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("invalid chain id %q: %w", chainName, err)
		}
		return client, chainID, nil
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	logrus.WithField("chain_id", felt.ToHex(chainID)).Debug("chain id fetched from node")
	return client, chainID, nil
}

// resolveSigner picks the signing backend: an explicit keystore path, the
// configured keystore, or a raw key from the environment. Keystore use
// prompts for the password.
func resolveSigner(keystorePath string) (signer.Signer, func(), error) {
	if keystorePath == "" {
		keystorePath = cfg.Keystore
	}

	if raw := os.Getenv(config.EnvPrivateKey); keystorePath == "" && raw != "" {
		secret, err := felt.Parse(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid %s: %w", config.EnvPrivateKey, err)
		}
		s, err := signer.NewRawSigner(secret)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}

	if keystorePath == "" {
		return nil, nil, fmt.Errorf("no signer configured: set --keystore, the keystore config key, or %s", config.EnvPrivateKey)
	}

	password, err := promptPassword("Keystore password: ")
	if err != nil {
		return nil, nil, err
	}

	s, err := signer.OpenKeystoreSigner(keystorePath, password)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// promptNewPassword prompts twice and requires the entries to match.
func promptNewPassword() ([]byte, error) {
	password, err := promptPassword("New keystore password: ")
	if err != nil {
		return nil, err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if string(password) != string(confirm) {
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// watchReceipt blocks until the transaction reaches a block, printing the
// outcome to stderr.
func watchReceipt(ctx context.Context, client *provider.Client, hash *felt.Felt) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Watch.Timeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Waiting for transaction %s...\n", felt.ToHex(hash))
	receipt, err := client.WaitForReceipt(ctx, hash, cfg.Watch.PollInterval)
	if err != nil {
		return err
	}

	if receipt.ExecutionStatus == "REVERTED" {
		return fmt.Errorf("transaction reverted: %s", receipt.RevertReason)
	}
	fmt.Fprintf(os.Stderr, "Transaction %s in block %d (%s)\n",
		felt.ToHex(hash), receipt.BlockNumber, receipt.FinalityStatus)
	return nil
}

// parseFeltArg parses a required felt argument with a descriptive error.
func parseFeltArg(what, s string) (*felt.Felt, error) {
	f, err := felt.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", what, s, err)
	}
	return f, nil
}
