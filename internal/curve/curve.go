// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// Package curve implements ECDSA over the STARK curve, the signing scheme
// Starknet accounts verify on-chain. Group and field arithmetic come from
// gnark-crypto's stark-curve implementation; this package adds key
// validation, deterministic nonces and signature verification.
//
// Curve: y^2 = x^3 + x + b over the Stark prime, with subgroup order n.
package curve

import (
	"errors"
	"fmt"
	"math/big"

	starkcurve "github.com/consensys/gnark-crypto/ecc/stark-curve"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fr"

	"github.com/starkhand/starkhand/internal/felt"
)

// ErrSecretOutOfRange indicates a scalar that is zero or not below the
// curve order, so it cannot serve as a private key.
var ErrSecretOutOfRange = errors.New("secret scalar is not a valid curve private key")

// bCoeff is the STARK curve b coefficient.
var bCoeff, _ = new(fp.Element).SetString("0x6f21413efbe40de150e596d72f7a8c5609ad26c15c915c1f4cdfcb99cee9e89")

// Signature is the (r, s) pair the network's account contracts verify.
type Signature struct {
	R *felt.Felt
	S *felt.Felt
}

// Order returns the subgroup order n as a fresh big.Int.
func Order() *big.Int {
	return fr.Modulus()
}

// PrivateKeyFromBytes validates a big-endian scalar as a private key.
// The scalar must lie in [1, n-1].
func PrivateKeyFromBytes(b []byte) (*big.Int, error) {
	d := new(big.Int).SetBytes(b)
	if d.Sign() == 0 || d.Cmp(fr.Modulus()) >= 0 {
		return nil, ErrSecretOutOfRange
	}
	return d, nil
}

// PrivateKeyFromFelt validates a felt-encoded scalar as a private key.
func PrivateKeyFromFelt(f *felt.Felt) (*big.Int, error) {
	b := f.Bytes()
	return PrivateKeyFromBytes(b[:])
}

// PublicKey returns the x-coordinate of priv*G, the form Starknet account
// contracts store.
func PublicKey(priv *big.Int) *felt.Felt {
	_, g := starkcurve.Generators()
	var p starkcurve.G1Affine
	p.ScalarMultiplication(&g, priv)
	return xToFelt(&p)
}

// Sign produces an ECDSA signature over msgHash with a deterministic
// RFC 6979 nonce. The same (hash, secret) pair always yields the same
// signature; no randomness source is consulted.
func Sign(msgHash *felt.Felt, priv *big.Int) (*Signature, error) {
	if priv.Sign() == 0 || priv.Cmp(fr.Modulus()) >= 0 {
		return nil, ErrSecretOutOfRange
	}

	n := fr.Modulus()
	hb := msgHash.Bytes()
	z := new(big.Int).SetBytes(hb[:])

	_, g := starkcurve.Generators()
	gen := newNonceGenerator(priv, hb[:])

	// RFC 6979 yields further candidates if one produces a degenerate
	// signature; in practice the first candidate is used.
	for attempt := 0; attempt < 100; attempt++ {
		k := gen.next()
		if k.Sign() == 0 || k.Cmp(n) >= 0 {
			continue
		}

		var p starkcurve.G1Affine
		p.ScalarMultiplication(&g, k)

		rb := p.X.Bytes()
		r := new(big.Int).SetBytes(rb[:])
		if r.Sign() == 0 {
			continue
		}

		// s = k^-1 * (z + r*d) mod n
		s := new(big.Int).Mul(r, priv)
		s.Add(s, z)
		s.Mod(s, n)
		kInv := new(big.Int).ModInverse(k, n)
		s.Mul(s, kInv)
		s.Mod(s, n)
		if s.Sign() == 0 {
			continue
		}

		rf, err := felt.FromBigInt(r)
		if err != nil {
			continue
		}
		sf, err := felt.FromBigInt(s)
		if err != nil {
			continue
		}
		return &Signature{R: rf, S: sf}, nil
	}

	return nil, fmt.Errorf("nonce generation exhausted")
}

// Verify checks sig against msgHash and a public key given as its
// x-coordinate. Both y roots are tried, matching the on-chain check which
// does not pin the sign of y.
func Verify(msgHash *felt.Felt, sig *Signature, pubX *felt.Felt) bool {
	n := fr.Modulus()

	r := felt.BigInt(sig.R)
	s := felt.BigInt(sig.S)
	if r.Sign() == 0 || s.Sign() == 0 || s.Cmp(n) >= 0 {
		return false
	}

	hb := msgHash.Bytes()
	z := new(big.Int).SetBytes(hb[:])

	w := new(big.Int).ModInverse(s, n)
	if w == nil {
		return false
	}
	u1 := new(big.Int).Mul(z, w)
	u1.Mod(u1, n)
	u2 := new(big.Int).Mul(r, w)
	u2.Mod(u2, n)

	var x fp.Element
	xb := pubX.Bytes()
	x.SetBytes(xb[:])

	y, ok := yFromX(&x)
	if !ok {
		return false
	}

	_, g := starkcurve.Generators()
	var lhs starkcurve.G1Affine
	lhs.ScalarMultiplication(&g, u1)

	for _, cand := range []fp.Element{y, *new(fp.Element).Neg(&y)} {
		var q starkcurve.G1Affine
		q.X.Set(&x)
		q.Y.Set(&cand)

		var rhs starkcurve.G1Affine
		rhs.ScalarMultiplication(&q, u2)

		var sum starkcurve.G1Jac
		sum.FromAffine(&lhs)
		sum.AddMixed(&rhs)

		var res starkcurve.G1Affine
		res.FromJacobian(&sum)

		cb := res.X.Bytes()
		if new(big.Int).SetBytes(cb[:]).Cmp(r) == 0 {
			return true
		}
	}
	return false
}

// yFromX solves y^2 = x^3 + x + b. Returns false if x is not on the curve.
func yFromX(x *fp.Element) (fp.Element, bool) {
	var y2, tmp fp.Element
	tmp.Square(x)      // x^2
	tmp.Mul(&tmp, x)   // x^3
	y2.Add(&tmp, x)    // x^3 + x (a = 1)
	y2.Add(&y2, bCoeff)

	var y fp.Element
	if y.Sqrt(&y2) == nil {
		return fp.Element{}, false
	}
	return y, true
}

func xToFelt(p *starkcurve.G1Affine) *felt.Felt {
	b := p.X.Bytes()
	f, _ := felt.FromBytes(b[:])
	return f
}
