// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id defaults (OWASP recommended). Stored in every envelope so the
// parameters can be raised later without breaking existing records.
const (
	DefaultArgon2Time    = 1
	DefaultArgon2Memory  = 64 * 1024 // KiB, 64 MB
	DefaultArgon2Threads = 4

	aesKeyLen = 32 // AES-256
	saltLen   = 32

	// KDFArgon2id is the only key-derivation function currently produced.
	KDFArgon2id = "argon2id"

	// CipherAESGCM is the only cipher currently produced.
	CipherAESGCM = "aes-256-gcm"
)

var (
	// ErrInvalidPassword indicates the GCM integrity tag did not verify.
	// No plaintext is ever returned when this happens.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUnsupportedKDF indicates an unknown key-derivation function or
	// cipher identifier, presumably from a newer record format
	ErrUnsupportedKDF = errors.New("unsupported key derivation parameters")
)

// KDFParams describes how the symmetric key is derived from the password.
// Serialized verbatim into the keystore record.
type KDFParams struct {
	Algorithm string `json:"algorithm"`
	Time      uint32 `json:"time"`
	Memory    uint32 `json:"memory"` // KiB
	Threads   uint8  `json:"threads"`
	Salt      string `json:"salt"` // base64
}

// CipherParams describes the symmetric cipher and its nonce.
type CipherParams struct {
	Algorithm string `json:"algorithm"`
	Nonce     string `json:"nonce"` // base64
}

// DefaultKDFParams returns fresh Argon2id parameters with a random salt.
func DefaultKDFParams() (KDFParams, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return KDFParams{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	return KDFParams{
		Algorithm: KDFArgon2id,
		Time:      DefaultArgon2Time,
		Memory:    DefaultArgon2Memory,
		Threads:   DefaultArgon2Threads,
		Salt:      base64.StdEncoding.EncodeToString(salt),
	}, nil
}

// DeriveKey derives the symmetric key from a password and stored KDF
// parameters. Caller is responsible for zeroing the returned key.
func DeriveKey(password []byte, p KDFParams) ([]byte, error) {
	if p.Algorithm != KDFArgon2id {
		return nil, fmt.Errorf("%w: kdf %q", ErrUnsupportedKDF, p.Algorithm)
	}
	salt, err := base64.StdEncoding.DecodeString(p.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode kdf salt: %w", err)
	}
	return argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, aesKeyLen), nil
}

// Seal encrypts plaintext under a password-derived key with a fresh random
// nonce. The returned ciphertext carries the GCM integrity tag.
func Seal(plaintext, password []byte, kdf KDFParams) (CipherParams, []byte, error) {
	key, err := DeriveKey(password, kdf)
	if err != nil {
		return CipherParams{}, nil, err
	}
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return CipherParams{}, nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return CipherParams{}, nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return CipherParams{}, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	cp := CipherParams{
		Algorithm: CipherAESGCM,
		Nonce:     base64.StdEncoding.EncodeToString(nonce),
	}
	return cp, ciphertext, nil
}

// Open re-derives the key and decrypts. A wrong password surfaces as
// ErrInvalidPassword from the tag check; no partially-decrypted bytes are
// ever returned. Caller is responsible for zeroing the plaintext.
func Open(ciphertext, password []byte, kdf KDFParams, cp CipherParams) ([]byte, error) {
	if cp.Algorithm != CipherAESGCM {
		return nil, fmt.Errorf("%w: cipher %q", ErrUnsupportedKDF, cp.Algorithm)
	}

	key, err := DeriveKey(password, kdf)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(key)

	nonce, err := base64.StdEncoding.DecodeString(cp.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrInvalidPassword
	}
	return plaintext, nil
}
