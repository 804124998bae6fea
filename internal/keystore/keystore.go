// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// Package keystore persists a Starknet signing key encrypted at rest.
//
// A keystore is a single self-describing JSON file: format version, KDF
// identifier with its cost parameters and salt, cipher identifier with its
// nonce, and the ciphertext of the secret scalar carrying an AEAD
// integrity tag. Everything needed to decrypt travels inside the record,
// so cost parameters can be raised for new keystores without breaking old
// ones.
package keystore

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/starkhand/starkhand/internal/crypto"
	"github.com/starkhand/starkhand/internal/curve"
	"github.com/starkhand/starkhand/internal/felt"
)

// RecordVersion is the current on-disk format version.
const RecordVersion = 1

var (
	// ErrPathExists indicates the target file already exists and
	// overwrite was not requested
	ErrPathExists = errors.New("keystore file already exists")

	// ErrUnsupportedVersion indicates a record from an unknown future format
	ErrUnsupportedVersion = errors.New("unsupported keystore version")

	// ErrInvalidPassword re-exports the envelope failure for callers that
	// never touch internal/crypto directly
	ErrInvalidPassword = crypto.ErrInvalidPassword
)

// Record is the persisted keystore structure.
type Record struct {
	Version   int          `json:"version"`
	PublicKey string       `json:"public_key"`
	Crypto    RecordCrypto `json:"crypto"`
	CreatedAt string       `json:"created_at,omitempty"`
}

// RecordCrypto groups the cryptographic parameters of a record.
type RecordCrypto struct {
	KDF        crypto.KDFParams    `json:"kdf"`
	Cipher     crypto.CipherParams `json:"cipher"`
	Ciphertext string              `json:"ciphertext"` // base64, includes AEAD tag
}

// Create encrypts the secret scalar under password and writes the record
// to path. Fails with ErrPathExists unless overwrite is set. The caller
// keeps ownership of secret and should zero it after the call.
func Create(path string, secret *felt.Felt, password []byte, kdf crypto.KDFParams, overwrite bool) (*Record, error) {
	priv, err := curve.PrivateKeyFromFelt(secret)
	if err != nil {
		return nil, err
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrPathExists, path)
		}
	}

	scalar := secret.Bytes()
	defer crypto.ZeroBytes(scalar[:])

	cp, ciphertext, err := crypto.Seal(scalar[:], password, kdf)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Version:   RecordVersion,
		PublicKey: felt.ToHex(curve.PublicKey(priv)),
		Crypto: RecordCrypto{
			KDF:        kdf,
			Cipher:     cp,
			Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		},
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keystore: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create keystore directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write keystore: %w", err)
	}

	return rec, nil
}

// Load reads and validates a record from disk without decrypting it.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse keystore: %w", err)
	}
	if rec.Version != RecordVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, rec.Version)
	}
	return &rec, nil
}

// Unlock re-derives the symmetric key and decrypts the secret scalar.
// A wrong password fails the AEAD tag check inside crypto.Open before any
// plaintext exists; there is no oracle to distinguish a near-miss.
// The caller must zero the returned SecureBytes via Destroy.
func (r *Record) Unlock(password []byte) (*crypto.SecureBytes, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(r.Crypto.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	plaintext, err := crypto.Open(ciphertext, password, r.Crypto.KDF, r.Crypto.Cipher)
	if err != nil {
		return nil, err
	}

	secret := crypto.NewSecureBytes(plaintext)
	crypto.ZeroBytes(plaintext)
	return secret, nil
}

// UnlockScalar unlocks and validates the secret as a curve private key in
// one scoped operation, handing the scalar to fn. The decrypted material
// is zeroed before UnlockScalar returns, on every path.
func (r *Record) UnlockScalar(password []byte, fn func(priv []byte) error) error {
	secret, err := r.Unlock(password)
	if err != nil {
		return err
	}
	defer secret.Destroy()

	return secret.With(func(b []byte) error {
		if _, err := curve.PrivateKeyFromBytes(b); err != nil {
			return err
		}
		return fn(b)
	})
}
