// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package account

import (
	"github.com/starkhand/starkhand/internal/felt"
)

// Call is one contract invocation: target address, entry-point selector,
// encoded arguments.
type Call struct {
	To       *felt.Felt
	Selector *felt.Felt
	Calldata []*felt.Felt
}

// FlattenCalls serializes a batch of calls into the combined calldata an
// account's __execute__ entry point demultiplexes: a call count, then per
// call the target, selector, and length-prefixed arguments.
func FlattenCalls(calls []Call) []*felt.Felt {
	out := []*felt.Felt{felt.FromUint64(uint64(len(calls)))}
	for _, c := range calls {
		out = append(out, c.To, c.Selector, felt.FromUint64(uint64(len(c.Calldata))))
		out = append(out, c.Calldata...)
	}
	return out
}

// UniversalDeployerAddress is the canonical deployer contract present on
// every public network.
var UniversalDeployerAddress = felt.MustParse("0x041a78e741e5af2fec34b695679bc6891742439f7afb8484ecd7766661ad02bf")

var deployContractSelector = felt.Selector("deployContract")

// DeployerCall builds the invocation that makes the universal deployer
// instantiate classHash with the given salt and constructor arguments.
// When unique is set the deployer scopes the resulting address to the
// calling account.
func DeployerCall(classHash, salt *felt.Felt, unique bool, ctorCalldata []*felt.Felt) Call {
	uniqueF := felt.FromUint64(0)
	if unique {
		uniqueF = felt.FromUint64(1)
	}

	calldata := make([]*felt.Felt, 0, len(ctorCalldata)+4)
	calldata = append(calldata, classHash, salt, uniqueF, felt.FromUint64(uint64(len(ctorCalldata))))
	calldata = append(calldata, ctorCalldata...)

	return Call{
		To:       UniversalDeployerAddress,
		Selector: deployContractSelector,
		Calldata: calldata,
	}
}

// DeployedAddress predicts where the universal deployer will place the
// contract. Non-unique deployments hash from the zero deployer and the
// caller-supplied salt; unique deployments scope both to the account.
func DeployedAddress(account, classHash, salt *felt.Felt, unique bool, ctorCalldata []*felt.Felt) *felt.Felt {
	if !unique {
		return ContractAddress(felt.FromUint64(0), classHash, salt, ctorCalldata)
	}

	scopedSalt := felt.Pedersen(account, salt)
	return ContractAddress(UniversalDeployerAddress, classHash, scopedSalt, ctorCalldata)
}
