// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package felt

import (
	junocrypto "github.com/NethermindEth/juno/core/crypto"
)

// Pedersen computes the pairwise Pedersen hash of two felts.
func Pedersen(a, b *Felt) *Felt {
	return junocrypto.Pedersen(a, b)
}

// PedersenArray computes the Pedersen chain hash over a sequence,
// h(...h(h(0, e0), e1)..., n). This is the pre-v3 array hash used for
// calldata commitments and transaction hashes.
func PedersenArray(elems ...*Felt) *Felt {
	return junocrypto.PedersenArray(elems...)
}

// Poseidon computes the pairwise Poseidon hash of two felts.
func Poseidon(a, b *Felt) *Felt {
	return junocrypto.Poseidon(a, b)
}

// PoseidonArray computes the Poseidon sponge hash over a sequence, the
// array hash used by Sierra class hashes and v3 transaction hashes.
func PoseidonArray(elems ...*Felt) *Felt {
	return junocrypto.PoseidonArray(elems...)
}
