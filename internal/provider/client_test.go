// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/starkhand/starkhand/internal/felt"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// stubNode answers JSON-RPC over HTTP with canned per-method responses.
type stubNode struct {
	mu     sync.Mutex
	calls  map[string]int
	answer func(method string, call int) (result any, rpcErr *rpcErrorBody)
}

func (s *stubNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	n := s.calls[req.Method]
	s.calls[req.Method]++
	s.mu.Unlock()

	result, rpcErr := s.answer(req.Method, n)

	resp := map[string]any{"jsonrpc": "2.0", "id": json.RawMessage(req.ID)}
	if rpcErr != nil {
		resp["error"] = rpcErr
	} else {
		resp["result"] = result
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func newStubClient(t *testing.T, answer func(method string, call int) (any, *rpcErrorBody)) *Client {
	t.Helper()
	srv := httptest.NewServer(&stubNode{answer: answer})
	t.Cleanup(srv.Close)

	c, err := Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestChainIDAndNonce(t *testing.T) {
	c := newStubClient(t, func(method string, _ int) (any, *rpcErrorBody) {
		switch method {
		case "starknet_chainId":
			return "0x534e5f5345504f4c4941", nil
		case "starknet_getNonce":
			return "0x7", nil
		}
		return nil, &rpcErrorBody{Code: -32601, Message: "method not found"}
	})

	id, err := c.ChainID(context.Background())
	require.NoError(t, err)
	require.Equal(t, felt.MustShortString("SN_SEPOLIA"), id)

	nonce, err := c.Nonce(context.Background(), BlockPending, felt.MustParse("0x1"))
	require.NoError(t, err)
	require.Equal(t, felt.FromUint64(7), nonce)
}

func TestCallReturnsElements(t *testing.T) {
	c := newStubClient(t, func(method string, _ int) (any, *rpcErrorBody) {
		require.Equal(t, "starknet_call", method)
		return []string{"0x1", "0x2"}, nil
	})

	out, err := c.Call(context.Background(), FunctionCall{
		ContractAddress:    felt.MustParse("0xdead"),
		EntryPointSelector: felt.Selector("balance_of"),
		Calldata:           []*felt.Felt{felt.FromUint64(1)},
	}, BlockLatest)
	require.NoError(t, err)
	require.Equal(t, []*felt.Felt{felt.FromUint64(1), felt.FromUint64(2)}, out)
}

func TestEstimateFeeCountMismatch(t *testing.T) {
	c := newStubClient(t, func(method string, _ int) (any, *rpcErrorBody) {
		return []map[string]string{}, nil
	})

	_, err := c.EstimateFee(context.Background(), []any{map[string]string{}}, BlockPending)
	require.Error(t, err)
}

func TestNodeRejectionIsNotUnavailable(t *testing.T) {
	c := newStubClient(t, func(method string, _ int) (any, *rpcErrorBody) {
		return nil, &rpcErrorBody{Code: 20, Message: "Contract not found"}
	})

	_, err := c.Nonce(context.Background(), BlockPending, felt.MustParse("0x1"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrProviderUnavailable)
}

func TestUnreachableNode(t *testing.T) {
	c, err := Dial(context.Background(), "http://127.0.0.1:1")
	require.NoError(t, err)
	defer c.Close()

	_, err = c.ChainID(context.Background())
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestWaitForReceipt(t *testing.T) {
	receipt := map[string]any{
		"transaction_hash": "0xabc",
		"execution_status": "SUCCEEDED",
		"finality_status":  "ACCEPTED_ON_L2",
		"block_number":     12,
	}
	c := newStubClient(t, func(method string, call int) (any, *rpcErrorBody) {
		require.Equal(t, "starknet_getTransactionReceipt", method)
		if call < 2 {
			return nil, &rpcErrorBody{Code: 29, Message: "Transaction hash not found"}
		}
		return receipt, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r, err := c.WaitForReceipt(ctx, felt.MustParse("0xabc"), 10*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, "SUCCEEDED", r.ExecutionStatus)
	require.Equal(t, uint64(12), r.BlockNumber)
}

func TestWaitForReceiptContextEnds(t *testing.T) {
	c := newStubClient(t, func(method string, _ int) (any, *rpcErrorBody) {
		return nil, &rpcErrorBody{Code: 29, Message: "Transaction hash not found"}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.WaitForReceipt(ctx, felt.MustParse("0xabc"), 10*time.Millisecond)
	require.ErrorIs(t, err, ErrProviderUnavailable)
}
