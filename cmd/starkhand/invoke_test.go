// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starkhand/starkhand/internal/felt"
)

func TestParseCalls(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCalls int
		wantErr   bool
	}{
		{name: "single call", args: []string{"0x1", "transfer", "0x2", "100"}, wantCalls: 1},
		{name: "two calls", args: []string{"0x1", "transfer", "0x2", "/", "0x3", "approve"}, wantCalls: 2},
		{name: "no calldata", args: []string{"0x1", "get_owner"}, wantCalls: 1},
		{name: "short segment", args: []string{"0x1", "transfer", "/", "0x3"}, wantErr: true},
		{name: "bad address", args: []string{"xyz", "transfer"}, wantErr: true},
		{name: "bad calldata", args: []string{"0x1", "transfer", "notafelt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls, err := parseCalls(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, calls, tt.wantCalls)
		})
	}
}

func TestParseCallsSelectors(t *testing.T) {
	calls, err := parseCalls([]string{"0x1", "transfer", "0x2", "/", "0x3", "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e"})
	require.NoError(t, err)
	require.Len(t, calls, 2)

	// by name and by explicit hex selector, same result
	require.Equal(t, felt.Selector("transfer"), calls[0].Selector)
	require.Equal(t, calls[0].Selector, calls[1].Selector)
}

func TestSelectorOf(t *testing.T) {
	require.Equal(t, felt.Selector("balance_of"), selectorOf("balance_of"))
	require.Equal(t, felt.MustParse("0x1234"), selectorOf("0x1234"))
}
