// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// Package crypto provides the keystore encryption envelope and scoped
// handling of sensitive byte material (passwords, decrypted signing
// scalars).
package crypto

import (
	"crypto/subtle"
	"runtime"
	"sync"
)

// ZeroBytes securely overwrites a byte slice with zeros.
// Uses a constant-time copy so the compiler cannot elide the write.
func ZeroBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	runtime.KeepAlive(b)
}

// SecureBytes wraps sensitive material with scoped access and explicit
// destruction. Signing code acquires the secret immediately before use and
// destroys it immediately after, on every exit path.
type SecureBytes struct {
	data []byte
	mu   sync.RWMutex
}

// NewSecureBytes copies b into a SecureBytes. The caller may zero the
// original afterwards.
func NewSecureBytes(b []byte) *SecureBytes {
	if b == nil {
		return &SecureBytes{}
	}
	data := make([]byte, len(b))
	copy(data, b)
	return &SecureBytes{data: data}
}

// With provides scoped access to the underlying bytes. The slice is only
// valid for the duration of the callback and must not be stored or leaked.
func (s *SecureBytes) With(fn func([]byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// Destroy zeros the material. The SecureBytes must not be used afterwards.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	ZeroBytes(s.data)
	s.data = nil
}

// IsEmpty reports whether any material is held.
func (s *SecureBytes) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data) == 0
}
