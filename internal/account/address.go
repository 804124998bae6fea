// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package account

import (
	"math/big"

	"github.com/starkhand/starkhand/internal/felt"
)

var contractAddressPrefix = felt.MustShortString("STARKNET_CONTRACT_ADDRESS")

// addressBound is 2^251 - 256; deployed addresses are reduced into this
// range.
var addressBound = new(big.Int).Sub(
	new(big.Int).Lsh(big.NewInt(1), 251),
	big.NewInt(256),
)

// ContractAddress computes the address a deployment lands on:
//
//	pedersen([prefix, deployer, salt, class_hash, pedersen(ctor_calldata)])
//	    mod (2^251 - 256)
func ContractAddress(deployer, classHash, salt *felt.Felt, ctorCalldata []*felt.Felt) *felt.Felt {
	h := felt.PedersenArray(
		contractAddressPrefix,
		deployer,
		salt,
		classHash,
		felt.PedersenArray(ctorCalldata...),
	)

	v := felt.BigInt(h)
	v.Mod(v, addressBound)

	addr, err := felt.FromBigInt(v)
	if err != nil {
		// v < 2^251 - 256 < modulus
		panic(err)
	}
	return addr
}
