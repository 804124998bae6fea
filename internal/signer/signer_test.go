// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package signer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/starkhand/starkhand/internal/crypto"
	"github.com/starkhand/starkhand/internal/curve"
	"github.com/starkhand/starkhand/internal/felt"
	"github.com/starkhand/starkhand/internal/keystore"
)

func newTestKeystore(t *testing.T, secret *felt.Felt, password string) *keystore.Record {
	t.Helper()
	kdf, err := crypto.DefaultKDFParams()
	if err != nil {
		t.Fatalf("DefaultKDFParams: %v", err)
	}
	kdf.Memory = 8 * 1024

	path := filepath.Join(t.TempDir(), "key.json")
	if _, err := keystore.Create(path, secret, []byte(password), kdf, false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec, err := keystore.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return rec
}

// TestKeystoreAndRawSignersAgree verifies both variants produce identical
// signatures for the same secret, as the deterministic nonce demands
func TestKeystoreAndRawSignersAgree(t *testing.T) {
	secret := felt.MustParse("0x139fe4d6f02e666e86a6f58e65060f115cd3c185bd9e98bd829636931458f79")
	rec := newTestKeystore(t, secret, "pw")

	ks := NewKeystoreSigner(rec, []byte("pw"))
	defer ks.Close()

	raw, err := NewRawSigner(secret)
	if err != nil {
		t.Fatalf("NewRawSigner: %v", err)
	}

	hash := felt.MustParse("0x6fea80189363a786037ed3e7ba546dad0ef7de49fccae0e31eb658b7dd4ea76")

	sigKS, err := ks.Sign(hash)
	if err != nil {
		t.Fatalf("keystore Sign: %v", err)
	}
	sigRaw, err := raw.Sign(hash)
	if err != nil {
		t.Fatalf("raw Sign: %v", err)
	}

	if !sigKS.R.Equal(sigRaw.R) || !sigKS.S.Equal(sigRaw.S) {
		t.Error("keystore and raw signers disagree for the same secret")
	}

	pubKS, err := ks.PublicKey()
	if err != nil {
		t.Fatalf("keystore PublicKey: %v", err)
	}
	pubRaw, _ := raw.PublicKey()
	if !pubKS.Equal(pubRaw) {
		t.Error("public keys disagree")
	}

	if !curve.Verify(hash, sigKS, pubKS) {
		t.Error("signature does not verify against the account public key")
	}
}

// TestKeystoreSignerWrongPassword verifies the unlock failure propagates
func TestKeystoreSignerWrongPassword(t *testing.T) {
	rec := newTestKeystore(t, felt.FromUint64(42), "correct")

	s := NewKeystoreSigner(rec, []byte("wrong"))
	defer s.Close()

	if _, err := s.Sign(felt.FromUint64(1)); !errors.Is(err, keystore.ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword, got %v", err)
	}
}

// TestRawSignerRejectsInvalidScalar verifies scalar validation at construction
func TestRawSignerRejectsInvalidScalar(t *testing.T) {
	if _, err := NewRawSigner(felt.FromUint64(0)); !errors.Is(err, curve.ErrSecretOutOfRange) {
		t.Errorf("expected ErrSecretOutOfRange, got %v", err)
	}
}

// TestKeystoreSignerRepeatedSign verifies signing works repeatedly: the
// secret is re-decrypted per call, never consumed
func TestKeystoreSignerRepeatedSign(t *testing.T) {
	rec := newTestKeystore(t, felt.FromUint64(1234567), "pw")
	s := NewKeystoreSigner(rec, []byte("pw"))
	defer s.Close()

	h := felt.FromUint64(9)
	first, err := s.Sign(h)
	if err != nil {
		t.Fatalf("first Sign: %v", err)
	}
	second, err := s.Sign(h)
	if err != nil {
		t.Fatalf("second Sign: %v", err)
	}
	if !first.R.Equal(second.R) || !first.S.Equal(second.S) {
		t.Error("repeated signing not deterministic")
	}
}
