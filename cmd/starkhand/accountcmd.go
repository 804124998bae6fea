// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starkhand/starkhand/internal/abi"
	"github.com/starkhand/starkhand/internal/account"
	"github.com/starkhand/starkhand/internal/felt"
)

func accountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage account contracts",
	}
	cmd.AddCommand(accountDeployCommand(), accountAddressCommand())
	return cmd
}

func accountDeployCommand() *cobra.Command {
	var flags txnFlags
	var classHashFlag, saltFlag string

	cmd := &cobra.Command{
		Use:   "deploy [constructor-args...]",
		Short: "Counterfactually deploy an account contract",
		Long: `Counterfactually deploy an account contract. The deployed address is
derived from the class hash, salt, and constructor arguments; it must be
funded before this command is run, since the deployment pays for itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if classHashFlag == "" {
				return fmt.Errorf("--class-hash is required")
			}
			classHash, err := parseFeltArg("class hash", classHashFlag)
			if err != nil {
				return err
			}
			salt, err := resolveSalt(saltFlag)
			if err != nil {
				return err
			}
			ctorCalldata, err := abi.EncodeRaw(args)
			if err != nil {
				return err
			}

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

			b, err := account.NewDeployAccount(client, sgn, chainID, flags.version, classHash, salt, ctorCalldata)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Deploying account at address %s\n", felt.ToHex(b.Address()))
			fmt.Fprintln(os.Stderr, "The address must be funded to cover the deployment fee.")

			if err := runPipeline(cmd.Context(), b, &flags); err != nil {
				return err
			}

			payload, err := b.Payload()
			if err != nil {
				return err
			}
			res, err := client.AddDeployAccount(cmd.Context(), payload)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Deployment transaction %s submitted\n", felt.ToHex(res.TransactionHash))
			if flags.watch {
				if err := watchReceipt(cmd.Context(), client, res.TransactionHash); err != nil {
					return err
				}
			}
			fmt.Println(felt.ToHex(b.Address()))
			return nil
		},
	}

	flags.register(cmd, 1)
	cmd.Flags().StringVar(&classHashFlag, "class-hash", "", "class hash of the account contract")
	cmd.Flags().StringVar(&saltFlag, "salt", "", "address salt (random if omitted)")
	return cmd
}

func accountAddressCommand() *cobra.Command {
	var classHashFlag, saltFlag string

	cmd := &cobra.Command{
		Use:   "address [constructor-args...]",
		Short: "Predict the address of an account deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if classHashFlag == "" || saltFlag == "" {
				return fmt.Errorf("--class-hash and --salt are required")
			}
			classHash, err := parseFeltArg("class hash", classHashFlag)
			if err != nil {
				return err
			}
			salt, err := parseFeltArg("salt", saltFlag)
			if err != nil {
				return err
			}
			ctorCalldata, err := abi.EncodeRaw(args)
			if err != nil {
				return err
			}

			addr := account.ContractAddress(felt.FromUint64(0), classHash, salt, ctorCalldata)
			fmt.Println(felt.ToHex(addr))
			return nil
		},
	}

	cmd.Flags().StringVar(&classHashFlag, "class-hash", "", "class hash of the account contract")
	cmd.Flags().StringVar(&saltFlag, "salt", "", "address salt")
	return cmd
}
