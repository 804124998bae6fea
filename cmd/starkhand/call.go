// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starkhand/starkhand/internal/abi"
	"github.com/starkhand/starkhand/internal/felt"
	"github.com/starkhand/starkhand/internal/provider"
)

func callCommand() *cobra.Command {
	var abiPath string
	var abiFromChain bool
	var block string

	cmd := &cobra.Command{
		Use:   "call <address> <function> [args...]",
		Short: "Call a read-only contract function",
		Long: `Call a read-only contract function and print the result.

Without --abi, arguments are raw field elements and the result is printed
one element per line. With --abi, arguments are encoded against the
function's declared parameters (use "[" and "]" to delimit array
arguments) and the result is decoded.`,
		Args: cobra.MinimumNArgs(2),
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

			var iface *abi.Interface
			var fn *abi.Function
			var calldata []*felt.Felt

			var abiData []byte
			switch {
			case abiPath != "":
				abiData, err = os.ReadFile(abiPath)
				if err != nil {
					return err
				}
			case abiFromChain:
				abiData, err = client.ClassAt(cmd.Context(), provider.BlockID(block), address)
				if err != nil {
					return err
				}
			}

			if abiData != nil {
				iface, err = abi.Parse(abiData)
				if err != nil {
					return err
				}
				fn, err = iface.Function(args[1])
				if err != nil {
					return err
				}
				calldata, err = iface.EncodeInputs(fn, args[2:])
				if err != nil {
					return err
				}
			} else {
				calldata, err = abi.EncodeRaw(args[2:])
				if err != nil {
					return err
				}
			}

			out, err := client.Call(cmd.Context(), provider.FunctionCall{
				ContractAddress:    address,
				EntryPointSelector: selectorOf(args[1]),
				Calldata:           calldata,
			}, provider.BlockID(block))
			if err != nil {
				return err
			}

			if iface == nil {
				for _, f := range out {
					fmt.Println(felt.ToHex(f))
				}
				return nil
			}

			values, err := iface.DecodeOutputs(fn, out)
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Println(abi.FormatValue(v))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&abiPath, "abi", "", "ABI file for typed encoding and decoding")
	cmd.Flags().BoolVar(&abiFromChain, "abi-from-chain", false, "fetch the ABI from the deployed class")
	cmd.Flags().StringVar(&block, "block", string(provider.BlockLatest), "block to execute against (latest, pending)")
	return cmd
}

// selectorOf accepts either a function name or an explicit selector in
// hex.
func selectorOf(s string) *felt.Felt {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if f, err := felt.Parse(s); err == nil {
			return f
		}
	}
	return felt.Selector(s)
}
