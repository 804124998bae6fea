// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package main

import (
	"crypto/rand"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starkhand/starkhand/internal/abi"
	"github.com/starkhand/starkhand/internal/account"
	"github.com/starkhand/starkhand/internal/felt"
)

func deployCommand() *cobra.Command {
	var flags txnFlags
	var saltFlag string
	var unique bool

	cmd := &cobra.Command{
		Use:   "deploy <class-hash> [constructor-args...]",
		Short: "Deploy a declared class through the universal deployer",
		Long: `Deploy an instance of a declared class through the universal deployer
contract. Constructor arguments are raw field elements. Without --salt a
random salt is drawn; --unique scopes the deployed address to the
deploying account.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classHash, err := parseFeltArg("class hash", args[0])
			if err != nil {
				return err
			}
			ctorCalldata, err := abi.EncodeRaw(args[1:])
			if err != nil {
				return err
			}

			salt, err := resolveSalt(saltFlag)
			if err != nil {
				return err
			}

			sender, err := flags.sender()
			if err != nil {
				return err
			}

			deployed := account.DeployedAddress(sender, classHash, salt, unique, ctorCalldata)
			fmt.Fprintf(os.Stderr, "Deploying class %s with salt %s\n", felt.ToHex(classHash), felt.ToHex(salt))
			fmt.Fprintf(os.Stderr, "The contract will be deployed at address %s\n", felt.ToHex(deployed))

			client, chainID, err := dialProvider(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			sgn, closeSigner, err := resolveSigner(flags.keystorePath)
			if err != nil {
				return err
			}
			defer closeSigner()

			call := account.DeployerCall(classHash, salt, unique, ctorCalldata)
			b, err := account.NewInvoke(client, sgn, chainID, sender, flags.version, []account.Call{call})
			if err != nil {
				return err
			}
			if err := runPipeline(cmd.Context(), b, &flags); err != nil {
				return err
			}

			payload, err := b.Payload()
			if err != nil {
				return err
			}
			res, err := client.AddInvoke(cmd.Context(), payload)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Deployment transaction %s submitted\n", felt.ToHex(res.TransactionHash))
			if flags.watch {
				if err := watchReceipt(cmd.Context(), client, res.TransactionHash); err != nil {
					return err
				}
			}
			fmt.Println(felt.ToHex(deployed))
			return nil
		},
	}

	flags.register(cmd, 1)
	cmd.Flags().StringVar(&saltFlag, "salt", "", "address salt (random if omitted)")
	cmd.Flags().BoolVar(&unique, "unique", false, "scope the deployed address to the deploying account")
	return cmd
}

// resolveSalt parses the supplied salt or draws a random one.
func resolveSalt(s string) (*felt.Felt, error) {
	if s != "" {
		return parseFeltArg("salt", s)
	}
	v, err := rand.Int(rand.Reader, felt.Modulus())
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return felt.FromBigInt(v)
}
