// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package main

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/starkhand/starkhand/internal/crypto"
	"github.com/starkhand/starkhand/internal/curve"
	"github.com/starkhand/starkhand/internal/felt"
	"github.com/starkhand/starkhand/internal/keystore"
)

func signerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signer",
		Short: "Manage signing keys",
	}
	cmd.AddCommand(keystoreCommand())
	return cmd
}

func keystoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keystore",
		Short: "Manage encrypted keystore files",
	}
	cmd.AddCommand(
		keystoreNewCommand(),
		keystoreFromKeyCommand(),
		keystoreInspectCommand(),
		keystoreInspectPrivateCommand(),
	)
	return cmd
}

func keystoreNewCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Generate a new key and store it encrypted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := generatePrivateKey()
			if err != nil {
				return err
			}
			return createKeystore(args[0], secret, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func keystoreFromKeyCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "from-key <path>",
		Short: "Import an existing private key into an encrypted keystore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := promptPassword("Private key: ")
			if err != nil {
				return err
			}
			defer crypto.ZeroBytes(raw)

			secret, err := felt.Parse(string(raw))
			if err != nil {
				return fmt.Errorf("invalid private key: %w", err)
			}
			return createKeystore(args[0], secret, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func keystoreInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "Print the public key of a keystore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := keystore.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Println(rec.PublicKey)
			return nil
		},
	}
}

func keystoreInspectPrivateCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "inspect-private <path>",
		Short: "Decrypt and print the private key of a keystore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !raw {
				return fmt.Errorf("this prints the private key in plain text; pass --raw to confirm")
			}

			rec, err := keystore.Load(args[0])
			if err != nil {
				return err
			}
			password, err := promptPassword("Keystore password: ")
			if err != nil {
				return err
			}
			defer crypto.ZeroBytes(password)

			return rec.UnlockScalar(password, func(priv []byte) error {
				f, err := felt.FromBytes(priv)
				if err != nil {
					return err
				}
				fmt.Println(felt.ToHex(f))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "confirm printing the key in plain text")
	return cmd
}

// generatePrivateKey draws a uniform scalar in [1, n-1].
func generatePrivateKey() (*felt.Felt, error) {
	bound := new(big.Int).Sub(curve.Order(), big.NewInt(1))
	v, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	v.Add(v, big.NewInt(1))
	return felt.FromBigInt(v)
}

func createKeystore(path string, secret *felt.Felt, force bool) error {
	password, err := promptNewPassword()
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(password)

	kdf, err := crypto.DefaultKDFParams()
	if err != nil {
		return err
	}

	rec, err := keystore.Create(path, secret, password, kdf, force)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Created keystore %s\n", path)
	fmt.Println(rec.PublicKey)
	return nil
}
