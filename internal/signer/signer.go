// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// Package signer abstracts the capability of signing a transaction hash.
//
// Two variants exist today: a keystore-backed signer that decrypts the
// secret once per signing operation and never caches the plaintext scalar,
// and a raw signer fed the scalar directly (flag or environment). A
// hardware-backed variant would slot in behind the same interface.
package signer

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/starkhand/starkhand/internal/crypto"
	"github.com/starkhand/starkhand/internal/curve"
	"github.com/starkhand/starkhand/internal/felt"
	"github.com/starkhand/starkhand/internal/keystore"
)

// ErrNoSigner indicates no signing key source was configured.
var ErrNoSigner = errors.New("no signer configured: provide a keystore or a raw private key")

// Signer produces Starknet signatures over transaction hashes.
type Signer interface {
	// Sign signs a transaction hash with the account's private scalar.
	Sign(hash *felt.Felt) (*curve.Signature, error)

	// PublicKey returns the x-coordinate of the signing key's public point.
	PublicKey() (*felt.Felt, error)
}

// KeystoreSigner signs with a secret held encrypted in a keystore record.
// The password is retained in guarded memory; the decrypted scalar exists
// only for the span of a single Sign call.
type KeystoreSigner struct {
	record   *keystore.Record
	password *crypto.SecureBytes
}

// NewKeystoreSigner wraps an already-loaded record. The password bytes are
// copied; the caller may zero its own copy.
func NewKeystoreSigner(rec *keystore.Record, password []byte) *KeystoreSigner {
	return &KeystoreSigner{
		record:   rec,
		password: crypto.NewSecureBytes(password),
	}
}

// OpenKeystoreSigner loads a record from disk and wraps it.
func OpenKeystoreSigner(path string, password []byte) (*KeystoreSigner, error) {
	rec, err := keystore.Load(path)
	if err != nil {
		return nil, err
	}
	return NewKeystoreSigner(rec, password), nil
}

// Sign decrypts, signs and scrubs in one scoped operation.
func (s *KeystoreSigner) Sign(hash *felt.Felt) (*curve.Signature, error) {
	var sig *curve.Signature
	err := s.password.With(func(pw []byte) error {
		return s.record.UnlockScalar(pw, func(priv []byte) error {
			d, err := curve.PrivateKeyFromBytes(priv)
			if err != nil {
				return err
			}
			sig, err = curve.Sign(hash, d)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return sig, nil
}

// PublicKey returns the public key stored in the record; no password needed.
func (s *KeystoreSigner) PublicKey() (*felt.Felt, error) {
	pub, err := felt.Parse(s.record.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("keystore record holds a malformed public key: %w", err)
	}
	return pub, nil
}

// Close destroys the retained password.
func (s *KeystoreSigner) Close() {
	s.password.Destroy()
}

// RawSigner signs with a directly supplied scalar, e.g. from the
// STARKNET_PRIVATE_KEY environment variable. Same signing contract as the
// keystore variant, no decryption step.
type RawSigner struct {
	priv *big.Int
}

// NewRawSigner validates the scalar and wraps it.
func NewRawSigner(secret *felt.Felt) (*RawSigner, error) {
	priv, err := curve.PrivateKeyFromFelt(secret)
	if err != nil {
		return nil, err
	}
	return &RawSigner{priv: priv}, nil
}

func (s *RawSigner) Sign(hash *felt.Felt) (*curve.Signature, error) {
	return curve.Sign(hash, s.priv)
}

func (s *RawSigner) PublicKey() (*felt.Felt, error) {
	return curve.PublicKey(s.priv), nil
}
