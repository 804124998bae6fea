// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starkhand/starkhand/internal/account"
	"github.com/starkhand/starkhand/internal/class"
	"github.com/starkhand/starkhand/internal/felt"
)

func declareCommand() *cobra.Command {
	var flags txnFlags
	var compiledHash string

	cmd := &cobra.Command{
		Use:   "declare <artifact>",
		Short: "Declare a contract class on the network",
		Long: `Declare a contract class on the network.

The artifact must be a structured (Cairo 1) class. Its compiled class
hash, produced by the Cairo compiler's casm output, must be supplied with
--compiled-class-hash.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if compiledHash == "" {
				return fmt.Errorf("--compiled-class-hash is required")
			}
			compiled, err := parseFeltArg("compiled class hash", compiledHash)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, err := class.Load(data)
			if err != nil {
				return err
			}
			if c.Sierra == nil {
				return fmt.Errorf("only structured classes can be declared; this artifact is a legacy class")
			}
			classHash, err := c.Hash()
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Declaring class %s\n", felt.ToHex(classHash))

			sender, err := flags.sender()
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

			b, err := account.NewDeclare(client, sgn, chainID, sender, flags.version, classHash, compiled, c.Sierra.Raw)
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
			res, err := client.AddDeclare(cmd.Context(), payload)
			if err != nil {
				return err
			}

			fmt.Println(felt.ToHex(res.TransactionHash))
			if flags.watch {
				return watchReceipt(cmd.Context(), client, res.TransactionHash)
			}
			return nil
		},
	}

	flags.register(cmd, 2)
	cmd.Flags().StringVar(&compiledHash, "compiled-class-hash", "", "hash of the compiled (casm) class")
	return cmd
}
