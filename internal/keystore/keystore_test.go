// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package keystore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starkhand/starkhand/internal/crypto"
	"github.com/starkhand/starkhand/internal/felt"
)

// testKDF returns low-cost parameters so the suite stays fast; production
// defaults are exercised once in TestCreateDefaultParams.
func testKDF(t *testing.T) crypto.KDFParams {
	t.Helper()
	kdf, err := crypto.DefaultKDFParams()
	if err != nil {
		t.Fatalf("DefaultKDFParams: %v", err)
	}
	kdf.Memory = 8 * 1024
	kdf.Time = 1
	return kdf
}

func TestCreateUnlockRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	secret := felt.MustParse("0x139fe4d6f02e666e86a6f58e65060f115cd3c185bd9e98bd829636931458f79")

	rec, err := Create(path, secret, []byte("correct"), testKDF(t), false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.PublicKey == "" {
		t.Error("record is missing the public key")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.PublicKey != rec.PublicKey {
		t.Errorf("public key changed across persistence: %s vs %s", loaded.PublicKey, rec.PublicKey)
	}

	unlocked, err := loaded.Unlock([]byte("correct"))
	if err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	defer unlocked.Destroy()

	err = unlocked.With(func(b []byte) error {
		got, err := felt.FromBytes(b)
		if err != nil {
			return err
		}
		if !got.Equal(secret) {
			t.Errorf("unlocked secret mismatch: %s", felt.ToHex(got))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}
}

func TestUnlockWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	secret := felt.FromUint64(12345)

	if _, err := Create(path, secret, []byte("correct"), testKDF(t), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	unlocked, err := rec.Unlock([]byte("wrong"))
	if !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if unlocked != nil {
		t.Error("secret returned despite wrong password")
	}
}

func TestCreateRefusesExistingPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	secret := felt.FromUint64(1)
	kdf := testKDF(t)

	if _, err := Create(path, secret, []byte("pw"), kdf, false); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := Create(path, secret, []byte("pw"), kdf, false); !errors.Is(err, ErrPathExists) {
		t.Fatalf("expected ErrPathExists, got %v", err)
	}

	// Explicit overwrite succeeds
	if _, err := Create(path, secret, []byte("pw"), kdf, true); err != nil {
		t.Errorf("overwrite Create: %v", err)
	}
}

func TestCreateRejectsInvalidScalar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	if _, err := Create(path, felt.FromUint64(0), []byte("pw"), testKDF(t), false); err == nil {
		t.Error("zero scalar accepted")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file written despite invalid scalar")
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestUnlockUnknownKDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	if _, err := Create(path, felt.FromUint64(7), []byte("pw"), testKDF(t), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rec.Crypto.KDF.Algorithm = "pbkdf2-sha512"

	if _, err := rec.Unlock([]byte("pw")); !errors.Is(err, crypto.ErrUnsupportedKDF) {
		t.Errorf("expected ErrUnsupportedKDF, got %v", err)
	}
}

func TestUnlockScalarScoped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.json")
	secret := felt.MustParse("0xabcdef")
	if _, err := Create(path, secret, []byte("pw"), testKDF(t), false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	called := false
	err = rec.UnlockScalar([]byte("pw"), func(priv []byte) error {
		called = true
		got, err := felt.FromBytes(priv)
		if err != nil {
			return err
		}
		if !got.Equal(secret) {
			t.Errorf("scalar mismatch inside scope")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("UnlockScalar: %v", err)
	}
	if !called {
		t.Error("callback never invoked")
	}
}

func TestCreateDefaultParams(t *testing.T) {
	if testing.Short() {
		t.Skip("argon2id at production cost")
	}
	path := filepath.Join(t.TempDir(), "key.json")
	kdf, err := crypto.DefaultKDFParams()
	if err != nil {
		t.Fatalf("DefaultKDFParams: %v", err)
	}
	if _, err := Create(path, felt.FromUint64(99), []byte("pw"), kdf, false); err != nil {
		t.Fatalf("Create with default params: %v", err)
	}
}
