// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/starkhand/starkhand/internal/felt"
)

// DefaultPollInterval is how often WaitForReceipt re-queries the node.
const DefaultPollInterval = 5 * time.Second

// WaitForReceipt polls the node until the transaction reaches a block or
// ctx ends. A node that does not know the hash yet is not an error; the
// transaction may still be propagating.
func (c *Client) WaitForReceipt(ctx context.Context, hash *felt.Felt, interval time.Duration) (*Receipt, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	log := c.log.WithField("tx", felt.ToHex(hash))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r, err := c.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && accepted(r.FinalityStatus):
			log.WithField("status", r.ExecutionStatus).Debug("transaction reached a block")
			return r, nil
		case err == nil:
			log.WithField("finality", r.FinalityStatus).Debug("transaction pending")
		case txnNotFound(err):
			log.Debug("transaction not found yet")
		case errors.Is(err, ErrProviderUnavailable):
			return nil, err
		default:
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, ctx.Err())
		case <-ticker.C:
		}
	}
}

func accepted(finality string) bool {
	return finality == "ACCEPTED_ON_L2" || finality == "ACCEPTED_ON_L1"
}

// txnNotFound matches the node's hash-not-found rejection, error code 29
// in the API specification.
func txnNotFound(err error) bool {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.ErrorCode() == 29
	}
	return strings.Contains(err.Error(), "Transaction hash not found")
}
