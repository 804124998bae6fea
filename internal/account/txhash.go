// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package account

import (
	"github.com/starkhand/starkhand/internal/felt"
)

// Transaction kind prefixes, committed as short strings in every signing
// hash.
var (
	prefixInvoke        = felt.MustShortString("invoke")
	prefixDeclare       = felt.MustShortString("declare")
	prefixDeployAccount = felt.MustShortString("deploy_account")
)

// Data availability modes for version 3 transactions.
const (
	DAModeL1 uint64 = 0
	DAModeL2 uint64 = 1
)

// Priced resources for version 3 transactions.
var (
	resourceL1Gas = felt.MustShortString("L1_GAS")
	resourceL2Gas = felt.MustShortString("L2_GAS")
)

// invokeV1Hash is the signing hash of a version 1 invoke:
//
//	pedersen([prefix, 1, sender, 0, pedersen(calldata), max_fee, chain, nonce])
func invokeV1Hash(sender, chainID, nonce, maxFee *felt.Felt, calldata []*felt.Felt) *felt.Felt {
	return felt.PedersenArray(
		prefixInvoke,
		felt.FromUint64(1),
		sender,
		felt.FromUint64(0),
		felt.PedersenArray(calldata...),
		maxFee,
		chainID,
		nonce,
	)
}

// declareV2Hash is the signing hash of a version 2 declare. The class hash
// rides in the calldata position; the compiled class hash is appended.
func declareV2Hash(sender, chainID, nonce, maxFee, classHash, compiledClassHash *felt.Felt) *felt.Felt {
	return felt.PedersenArray(
		prefixDeclare,
		felt.FromUint64(2),
		sender,
		felt.FromUint64(0),
		felt.PedersenArray(classHash),
		maxFee,
		chainID,
		nonce,
		compiledClassHash,
	)
}

// deployAccountV1Hash is the signing hash of a version 1 account
// deployment. The deployed address itself is the sender.
func deployAccountV1Hash(address, chainID, nonce, maxFee, classHash, salt *felt.Felt, ctorCalldata []*felt.Felt) *felt.Felt {
	data := make([]*felt.Felt, 0, len(ctorCalldata)+2)
	data = append(data, classHash, salt)
	data = append(data, ctorCalldata...)

	return felt.PedersenArray(
		prefixDeployAccount,
		felt.FromUint64(1),
		address,
		felt.FromUint64(0),
		felt.PedersenArray(data...),
		maxFee,
		chainID,
		nonce,
	)
}

// v3Bounds is the fee commitment of a version 3 transaction before
// packing.
type v3Bounds struct {
	Tip           *felt.Felt
	L1GasAmount   *felt.Felt
	L1GasPrice    *felt.Felt
	L2GasAmount   *felt.Felt
	L2GasPrice    *felt.Felt
	NonceDAMode   uint64
	FeeDAMode     uint64
	PaymasterData []*felt.Felt
}

// packResourceBounds packs one resource's limits into a single element:
//
//	name << 192 | max_amount << 128 | max_price_per_unit
func packResourceBounds(name, amount, price *felt.Felt) *felt.Felt {
	v := felt.BigInt(name)
	v.Lsh(v, 64)
	v.Add(v, felt.BigInt(amount))
	v.Lsh(v, 128)
	v.Add(v, felt.BigInt(price))

	packed, err := felt.FromBigInt(v)
	if err != nil {
		// name is 6 ASCII bytes and the limits are range-checked upstream,
		// the packed value cannot reach the modulus
		panic(err)
	}
	return packed
}

func (b v3Bounds) feeHash() *felt.Felt {
	return felt.PoseidonArray(
		b.Tip,
		packResourceBounds(resourceL1Gas, b.L1GasAmount, b.L1GasPrice),
		packResourceBounds(resourceL2Gas, b.L2GasAmount, b.L2GasPrice),
	)
}

func (b v3Bounds) daModes() *felt.Felt {
	return felt.FromUint64(b.NonceDAMode<<32 | b.FeeDAMode)
}

// invokeV3Hash is the signing hash of a version 3 invoke:
//
//	poseidon([prefix, 3, sender, fee_h, poseidon(paymaster), chain, nonce,
//	          da_modes, poseidon(deployment_data), poseidon(calldata)])
func invokeV3Hash(sender, chainID, nonce *felt.Felt, bounds v3Bounds, accountDeploymentData, calldata []*felt.Felt) *felt.Felt {
	return felt.PoseidonArray(
		prefixInvoke,
		felt.FromUint64(3),
		sender,
		bounds.feeHash(),
		felt.PoseidonArray(bounds.PaymasterData...),
		chainID,
		nonce,
		bounds.daModes(),
		felt.PoseidonArray(accountDeploymentData...),
		felt.PoseidonArray(calldata...),
	)
}

// declareV3Hash is the signing hash of a version 3 declare.
func declareV3Hash(sender, chainID, nonce *felt.Felt, bounds v3Bounds, accountDeploymentData []*felt.Felt, classHash, compiledClassHash *felt.Felt) *felt.Felt {
	return felt.PoseidonArray(
		prefixDeclare,
		felt.FromUint64(3),
		sender,
		bounds.feeHash(),
		felt.PoseidonArray(bounds.PaymasterData...),
		chainID,
		nonce,
		bounds.daModes(),
		felt.PoseidonArray(accountDeploymentData...),
		classHash,
		compiledClassHash,
	)
}

// deployAccountV3Hash is the signing hash of a version 3 account
// deployment.
func deployAccountV3Hash(address, chainID, nonce *felt.Felt, bounds v3Bounds, ctorCalldata []*felt.Felt, classHash, salt *felt.Felt) *felt.Felt {
	return felt.PoseidonArray(
		prefixDeployAccount,
		felt.FromUint64(3),
		address,
		bounds.feeHash(),
		felt.PoseidonArray(bounds.PaymasterData...),
		chainID,
		nonce,
		bounds.daModes(),
		felt.PoseidonArray(ctorCalldata...),
		classHash,
		salt,
	)
}
