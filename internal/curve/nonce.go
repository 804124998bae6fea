// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package curve

import (
	"crypto/hmac"
	"crypto/sha256"
	"hash"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"
)

// nonceGenerator produces deterministic ECDSA nonces per RFC 6979 with
// HMAC-SHA256, parameterized over the STARK curve order (252 bits).
type nonceGenerator struct {
	v []byte
	k []byte
	q *big.Int
}

const qByteLen = 32 // ceil(252 / 8)

func newNonceGenerator(priv *big.Int, msgHash []byte) *nonceGenerator {
	q := fr.Modulus()

	g := &nonceGenerator{
		v: make([]byte, sha256.Size),
		k: make([]byte, sha256.Size),
		q: q,
	}
	for i := range g.v {
		g.v[i] = 0x01
	}

	x := int2octets(priv)
	h1 := bits2octets(msgHash, q)

	g.k = g.mac(g.k, g.v, []byte{0x00}, x, h1)
	g.v = g.mac(g.k, g.v)
	g.k = g.mac(g.k, g.v, []byte{0x01}, x, h1)
	g.v = g.mac(g.k, g.v)

	return g
}

// next returns the following nonce candidate. Callers reject candidates
// outside [1, q-1] and ask again.
func (g *nonceGenerator) next() *big.Int {
	var t []byte
	for len(t) < qByteLen {
		g.v = g.mac(g.k, g.v)
		t = append(t, g.v...)
	}
	k := bits2int(t[:qByteLen], g.q)

	g.k = g.mac(g.k, g.v, []byte{0x00})
	g.v = g.mac(g.k, g.v)

	return k
}

func (g *nonceGenerator) mac(key []byte, chunks ...[]byte) []byte {
	m := hmac.New(func() hash.Hash { return sha256.New() }, key)
	for _, c := range chunks {
		m.Write(c)
	}
	return m.Sum(nil)
}

// bits2int interprets b as a big-endian integer truncated to the bit
// length of q.
func bits2int(b []byte, q *big.Int) *big.Int {
	v := new(big.Int).SetBytes(b)
	excess := len(b)*8 - q.BitLen()
	if excess > 0 {
		v.Rsh(v, uint(excess))
	}
	return v
}

// int2octets encodes x as a fixed-width big-endian byte string.
func int2octets(x *big.Int) []byte {
	out := make([]byte, qByteLen)
	x.FillBytes(out)
	return out
}

// bits2octets reduces the hash modulo q before encoding, per RFC 6979.
func bits2octets(b []byte, q *big.Int) []byte {
	z := bits2int(b, q)
	z.Mod(z, q)
	return int2octets(z)
}
