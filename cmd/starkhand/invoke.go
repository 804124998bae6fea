// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starkhand/starkhand/internal/abi"
	"github.com/starkhand/starkhand/internal/account"
	"github.com/starkhand/starkhand/internal/felt"
)

// txnFlags are the flags shared by every state-changing command.
type txnFlags struct {
	keystorePath string
	accountAddr  string
	maxFee       string
	nonce        string
	version      uint64
	watch        bool
}

func (f *txnFlags) register(cmd *cobra.Command, defaultVersion uint64) {
	cmd.Flags().StringVar(&f.keystorePath, "keystore", "", "keystore file to sign with")
	cmd.Flags().StringVar(&f.accountAddr, "account", "", "account contract address")
	cmd.Flags().StringVar(&f.maxFee, "max-fee", "", "skip estimation and use this maximum fee")
	cmd.Flags().StringVar(&f.nonce, "nonce", "", "use this nonce instead of querying the node")
	cmd.Flags().Uint64Var(&f.version, "version", defaultVersion, "transaction version")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "wait until the transaction reaches a block")
}

func (f *txnFlags) sender() (*felt.Felt, error) {
	if f.accountAddr == "" {
		return nil, fmt.Errorf("--account is required")
	}
	return parseFeltArg("account address", f.accountAddr)
}

func (f *txnFlags) nonceOverride() (*felt.Felt, error) {
	if f.nonce == "" {
		return nil, nil
	}
	return parseFeltArg("nonce", f.nonce)
}

func (f *txnFlags) maxFeeOverride() (*felt.Felt, error) {
	if f.maxFee == "" {
		return nil, nil
	}
	return parseFeltArg("max fee", f.maxFee)
}

// runPipeline walks a drafted transaction through nonce resolution, fee
// handling, hashing, and signing.
func runPipeline(ctx context.Context, b *account.Builder, flags *txnFlags) error {
	nonce, err := flags.nonceOverride()
	if err != nil {
		return err
	}
	maxFee, err := flags.maxFeeOverride()
	if err != nil {
		return err
	}

	if err := b.ResolveNonce(ctx, nonce); err != nil {
		return err
	}

	if maxFee != nil {
		err = b.UseMaxFee(maxFee)
	} else {
		feeCtx, cancel := context.WithTimeout(ctx, cfg.Fee.EstimateTimeout)
		err = b.EstimateFee(feeCtx, nil)
		cancel()
	}
	if err != nil {
		return err
	}

	if err := b.ComputeHash(); err != nil {
		return err
	}
	return b.Sign()
}

func invokeCommand() *cobra.Command {
	var flags txnFlags

	cmd := &cobra.Command{
		Use:   "invoke <address> <function> [args...] [/ <address> <function> [args...]]...",
		Short: "Submit an invoke transaction, optionally batching calls",
		Long: `Submit an invoke transaction. Arguments are raw field elements.

Separate multiple calls with "/" to batch them into one transaction:

  starkhand invoke 0xabc transfer 0xdef 100 0 / 0x123 approve 0xdef 50 0`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			calls, err := parseCalls(args)
			if err != nil {
				return err
			}
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

			b, err := account.NewInvoke(client, sgn, chainID, sender, flags.version, calls)
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

			fmt.Println(felt.ToHex(res.TransactionHash))
			if flags.watch {
				return watchReceipt(cmd.Context(), client, res.TransactionHash)
			}
			return nil
		},
	}

	flags.register(cmd, 1)
	return cmd
}

// parseCalls splits the flat argument list on "/" separators into
// individual calls.
func parseCalls(args []string) ([]account.Call, error) {
	var calls []account.Call
	group := args

	for len(group) > 0 {
		end := len(group)
		for n, a := range group {
			if a == "/" {
				end = n
				break
			}
		}

		segment := group[:end]
		if len(segment) < 2 {
			return nil, fmt.Errorf("each call needs at least an address and a function")
		}
		address, err := parseFeltArg("contract address", segment[0])
		if err != nil {
			return nil, err
		}
		calldata, err := abi.EncodeRaw(segment[2:])
		if err != nil {
			return nil, err
		}
		calls = append(calls, account.Call{
			To:       address,
			Selector: selectorOf(segment[1]),
			Calldata: calldata,
		})

		if end == len(group) {
			break
		}
		group = group[end+1:]
	}
	return calls, nil
}
