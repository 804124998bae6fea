// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package curve

import (
	"errors"
	"math/big"
	"testing"

	"github.com/starkhand/starkhand/internal/felt"
)

// TestPrivateKeyValidation verifies the [1, n-1] scalar range check
func TestPrivateKeyValidation(t *testing.T) {
	tests := []struct {
		name    string
		scalar  *big.Int
		wantErr bool
	}{
		{name: "one", scalar: big.NewInt(1)},
		{name: "typical", scalar: big.NewInt(123456789)},
		{name: "order minus one", scalar: new(big.Int).Sub(Order(), big.NewInt(1))},
		{name: "zero", scalar: big.NewInt(0), wantErr: true},
		{name: "order", scalar: Order(), wantErr: true},
		{name: "above order", scalar: new(big.Int).Add(Order(), big.NewInt(5)), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrivateKeyFromBytes(tt.scalar.Bytes())
			if tt.wantErr && !errors.Is(err, ErrSecretOutOfRange) {
				t.Errorf("expected ErrSecretOutOfRange, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestSignVerifyRoundTrip verifies signatures validate against the derived
// public key and fail against anything else
func TestSignVerifyRoundTrip(t *testing.T) {
	priv, err := PrivateKeyFromFelt(felt.MustParse("0x139fe4d6f02e666e86a6f58e65060f115cd3c185bd9e98bd829636931458f79"))
	if err != nil {
		t.Fatalf("PrivateKeyFromFelt: %v", err)
	}
	pub := PublicKey(priv)

	hashes := []*felt.Felt{
		felt.FromUint64(1),
		felt.MustParse("0x6fea80189363a786037ed3e7ba546dad0ef7de49fccae0e31eb658b7dd4ea76"),
		felt.MustParse("0x7f15c38ea577a26f4f553282fcfe4f1feeb8ecfaad8f221ae41abf8224cbddd"),
	}

	for _, h := range hashes {
		sig, err := Sign(h, priv)
		if err != nil {
			t.Fatalf("Sign: %v", err)
		}
		if !Verify(h, sig, pub) {
			t.Errorf("signature over %s does not verify", felt.ToHex(h))
		}

		// Tampered hash must not verify
		other := felt.Pedersen(h, felt.FromUint64(1))
		if Verify(other, sig, pub) {
			t.Error("signature verified against a different hash")
		}

		// Wrong key must not verify
		otherPriv, _ := PrivateKeyFromBytes(big.NewInt(42).Bytes())
		if Verify(h, sig, PublicKey(otherPriv)) {
			t.Error("signature verified against a different public key")
		}
	}
}

// TestSignDeterministic verifies the RFC 6979 nonce: same (hash, key) pair,
// same signature, every time
func TestSignDeterministic(t *testing.T) {
	priv, _ := PrivateKeyFromBytes(big.NewInt(987654321).Bytes())
	h := felt.MustParse("0x1234abcd")

	first, err := Sign(h, priv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	second, err := Sign(h, priv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if !first.R.Equal(second.R) || !first.S.Equal(second.S) {
		t.Error("signing is not deterministic")
	}

	// A different hash must use a different nonce, hence a different r
	third, err := Sign(felt.MustParse("0x1234abce"), priv)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if first.R.Equal(third.R) {
		t.Error("nonce reused across distinct hashes")
	}
}

// TestSignRejectsInvalidScalar verifies out-of-range secrets cannot sign
func TestSignRejectsInvalidScalar(t *testing.T) {
	if _, err := Sign(felt.FromUint64(1), big.NewInt(0)); !errors.Is(err, ErrSecretOutOfRange) {
		t.Errorf("expected ErrSecretOutOfRange, got %v", err)
	}
	if _, err := Sign(felt.FromUint64(1), Order()); !errors.Is(err, ErrSecretOutOfRange) {
		t.Errorf("expected ErrSecretOutOfRange, got %v", err)
	}
}

// TestVerifyRejectsDegenerate verifies zero r/s never validate
func TestVerifyRejectsDegenerate(t *testing.T) {
	priv, _ := PrivateKeyFromBytes(big.NewInt(7).Bytes())
	pub := PublicKey(priv)
	h := felt.FromUint64(99)

	zero := felt.FromUint64(0)
	if Verify(h, &Signature{R: zero, S: felt.FromUint64(1)}, pub) {
		t.Error("r=0 verified")
	}
	if Verify(h, &Signature{R: felt.FromUint64(1), S: zero}, pub) {
		t.Error("s=0 verified")
	}
}

// TestPublicKeyStable verifies public key derivation is a pure function
func TestPublicKeyStable(t *testing.T) {
	priv, _ := PrivateKeyFromBytes(big.NewInt(31337).Bytes())
	if !PublicKey(priv).Equal(PublicKey(priv)) {
		t.Error("public key derivation not deterministic")
	}
}
