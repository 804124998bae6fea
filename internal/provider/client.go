// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// Package provider is the JSON-RPC client for the network's node API. It
// exposes the handful of methods the transaction engine consumes and keeps
// everything else out of scope.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"

	"github.com/starkhand/starkhand/internal/felt"
)

var (
	// ErrProviderUnavailable indicates the node could not be reached or did
	// not answer in time. Callers must not substitute defaults for the
	// value they were querying.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// Client wraps a JSON-RPC connection to a node.
type Client struct {
	rpc *rpc.Client
	log *logrus.Entry
}

// Dial connects to the node at url. The connection is lazy for HTTP
// endpoints; the first method call surfaces reachability problems.
func Dial(ctx context.Context, url string) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return &Client{
		rpc: c,
		log: logrus.WithField("component", "provider"),
	}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// call performs one JSON-RPC request. Node-side rejections pass through
// with the method name attached; transport failures map to
// ErrProviderUnavailable.
func (c *Client) call(ctx context.Context, result any, method string, args ...any) error {
	c.log.WithField("method", method).Debug("rpc call")

	err := c.rpc.CallContext(ctx, result, method, args...)
	if err == nil {
		return nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("%s: %w", method, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, method, err)
}

// ChainID returns the network's chain identifier.
func (c *Client) ChainID(ctx context.Context) (*felt.Felt, error) {
	var id felt.Felt
	if err := c.call(ctx, &id, "starknet_chainId"); err != nil {
		return nil, err
	}
	return &id, nil
}

// Nonce returns the account's transaction counter at the given block.
func (c *Client) Nonce(ctx context.Context, block BlockID, address *felt.Felt) (*felt.Felt, error) {
	var nonce felt.Felt
	if err := c.call(ctx, &nonce, "starknet_getNonce", block, address); err != nil {
		return nil, err
	}
	return &nonce, nil
}

// ClassHashAt returns the class hash of the contract deployed at address.
func (c *Client) ClassHashAt(ctx context.Context, block BlockID, address *felt.Felt) (*felt.Felt, error) {
	var hash felt.Felt
	if err := c.call(ctx, &hash, "starknet_getClassHashAt", block, address); err != nil {
		return nil, err
	}
	return &hash, nil
}

// ClassAt returns the full class deployed at address, as the node
// serializes it.
func (c *Client) ClassAt(ctx context.Context, block BlockID, address *felt.Felt) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.call(ctx, &raw, "starknet_getClassAt", block, address); err != nil {
		return nil, err
	}
	return raw, nil
}

// Call executes a read-only invocation against the given block's state.
func (c *Client) Call(ctx context.Context, call FunctionCall, block BlockID) ([]*felt.Felt, error) {
	var out []*felt.Felt
	if err := c.call(ctx, &out, "starknet_call", call, block); err != nil {
		return nil, err
	}
	return out, nil
}

// EstimateFee asks the node to cost the given transactions against the
// pending state. The transactions must be in broadcast form with empty or
// placeholder signatures; validation is skipped.
func (c *Client) EstimateFee(ctx context.Context, txns []any, block BlockID) ([]FeeEstimate, error) {
	var out []FeeEstimate
	if err := c.call(ctx, &out, "starknet_estimateFee", txns, []string{"SKIP_VALIDATE"}, block); err != nil {
		return nil, err
	}
	if len(out) != len(txns) {
		return nil, fmt.Errorf("node returned %d estimates for %d transactions", len(out), len(txns))
	}
	return out, nil
}

// AddInvoke submits a signed invoke transaction.
func (c *Client) AddInvoke(ctx context.Context, txn any) (*AddInvokeResult, error) {
	var res AddInvokeResult
	if err := c.call(ctx, &res, "starknet_addInvokeTransaction", txn); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddDeclare submits a signed declare transaction.
func (c *Client) AddDeclare(ctx context.Context, txn any) (*AddDeclareResult, error) {
	var res AddDeclareResult
	if err := c.call(ctx, &res, "starknet_addDeclareTransaction", txn); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddDeployAccount submits a signed account deployment.
func (c *Client) AddDeployAccount(ctx context.Context, txn any) (*AddDeployAccountResult, error) {
	var res AddDeployAccountResult
	if err := c.call(ctx, &res, "starknet_addDeployAccountTransaction", txn); err != nil {
		return nil, err
	}
	return &res, nil
}

// TransactionReceipt fetches the receipt of a submitted transaction.
// Returns the node's error unchanged while the transaction is still
// unknown to it.
func (c *Client) TransactionReceipt(ctx context.Context, hash *felt.Felt) (*Receipt, error) {
	var r Receipt
	if err := c.call(ctx, &r, "starknet_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	return &r, nil
}
