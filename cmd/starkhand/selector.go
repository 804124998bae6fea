// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starkhand/starkhand/internal/class"
	"github.com/starkhand/starkhand/internal/felt"
	"github.com/starkhand/starkhand/internal/provider"
)

func selectorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "selector <name>",
		Short: "Compute the entry-point selector of a function name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(felt.ToHex(felt.Selector(args[0])))
			return nil
		},
	}
}

func classHashAtCommand() *cobra.Command {
	var block string

	cmd := &cobra.Command{
		Use:   "class-hash-at <address>",
		Short: "Fetch the class hash of a deployed contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := parseFeltArg("contract address", args[0])
			if err != nil {
				return err
			}

			client, _, err := dialProvider(cmd.Context())
			if err != nil {
				return err
			}
			defer client.Close()

			hash, err := client.ClassHashAt(cmd.Context(), provider.BlockID(block), address)
			if err != nil {
				return err
			}
			fmt.Println(felt.ToHex(hash))
			return nil
		},
	}

	cmd.Flags().StringVar(&block, "block", string(provider.BlockLatest), "block to query (latest, pending)")
	return cmd
}

func classHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "class-hash <file>",
		Short: "Compute the class hash of a compiled contract artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, err := class.Load(data)
			if err != nil {
				return err
			}
			hash, err := c.Hash()
			if err != nil {
				return err
			}
			fmt.Println(felt.ToHex(hash))
			return nil
		},
	}
}
