// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// Package felt provides parsing, formatting and hashing of Starknet field
// elements. A field element (felt) is an unsigned integer modulo the Stark
// prime 2^251 + 17*2^192 + 1, the universal value type of the network.
//
// The underlying representation is juno's felt.Felt; this package adds
// strict range-checked text/byte conversions, Cairo short-string encoding
// and entry-point selector computation.
package felt

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	junofelt "github.com/NethermindEth/juno/core/felt"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"golang.org/x/crypto/sha3"
)

// Felt is a Starknet field element.
type Felt = junofelt.Felt

var (
	// ErrOutOfRange indicates malformed numeric text or a value >= the Stark prime
	ErrOutOfRange = errors.New("value out of field range")

	// ErrOverflow indicates a byte-level conversion that would truncate
	ErrOverflow = errors.New("value overflows target width")
)

// maxShortStringLen is the longest ASCII string representable as one felt.
const maxShortStringLen = 31

// Modulus returns the Stark prime as a fresh big.Int.
func Modulus() *big.Int {
	return fp.Modulus()
}

// Parse converts decimal or 0x-prefixed hexadecimal text into a felt.
// The value must be strictly below the field modulus; nothing is reduced
// silently.
func Parse(s string) (*Felt, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrOutOfRange)
	}

	v := new(big.Int)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if _, ok := v.SetString(s[2:], 16); !ok {
			return nil, fmt.Errorf("%w: invalid hex %q", ErrOutOfRange, s)
		}
	} else {
		if _, ok := v.SetString(s, 10); !ok {
			return nil, fmt.Errorf("%w: invalid decimal %q", ErrOutOfRange, s)
		}
	}

	return FromBigInt(v)
}

// MustParse is Parse for known-good constants; it panics on error.
func MustParse(s string) *Felt {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// FromBigInt converts a non-negative big integer below the modulus.
func FromBigInt(v *big.Int) (*Felt, error) {
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value", ErrOutOfRange)
	}
	if v.Cmp(fp.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: value >= field modulus", ErrOutOfRange)
	}
	return new(Felt).SetBigInt(v), nil
}

// FromUint64 converts a machine integer. Always in range.
func FromUint64(v uint64) *Felt {
	return new(Felt).SetUint64(v)
}

// FromBytes converts a big-endian byte slice of at most 32 bytes.
// Fails with ErrOverflow on longer input and ErrOutOfRange if the decoded
// value is not below the modulus.
func FromBytes(b []byte) (*Felt, error) {
	if len(b) > 32 {
		return nil, fmt.Errorf("%w: %d bytes does not fit a felt", ErrOverflow, len(b))
	}
	return FromBigInt(new(big.Int).SetBytes(b))
}

// BigInt returns the canonical integer value of f.
func BigInt(f *Felt) *big.Int {
	b := f.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// Format renders f in the requested radix. Base 16 output is 0x-prefixed
// with no leading zeros, base 10 is plain decimal; both are exact inverses
// of Parse.
func Format(f *Felt, base int) (string, error) {
	switch base {
	case 10:
		return BigInt(f).Text(10), nil
	case 16:
		return "0x" + BigInt(f).Text(16), nil
	default:
		return "", fmt.Errorf("unsupported radix %d", base)
	}
}

// ToHex renders f as minimal 0x-prefixed hex.
func ToHex(f *Felt) string {
	s, _ := Format(f, 16)
	return s
}

// ToFixedHex renders f as 0x-prefixed hex zero-padded to 64 digits, the
// form used when printing addresses and class hashes.
func ToFixedHex(f *Felt) string {
	return fmt.Sprintf("0x%064s", BigInt(f).Text(16))
}

// ToDecimal renders f as plain decimal.
func ToDecimal(f *Felt) string {
	s, _ := Format(f, 10)
	return s
}

// ShortString encodes an ASCII string of up to 31 characters as a felt,
// the Cairo short-string convention used for chain identifiers and hash
// prefixes.
func ShortString(s string) (*Felt, error) {
	if len(s) > maxShortStringLen {
		return nil, fmt.Errorf("%w: short string longer than %d bytes", ErrOverflow, maxShortStringLen)
	}
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return nil, fmt.Errorf("short string contains non-ASCII byte at %d", i)
		}
	}
	return FromBigInt(new(big.Int).SetBytes([]byte(s)))
}

// MustShortString is ShortString for known-good constants.
func MustShortString(s string) *Felt {
	f, err := ShortString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// StarknetKeccak hashes data with Keccak-256 and truncates the digest to
// its low 250 bits so the result always fits a felt.
func StarknetKeccak(data []byte) *Felt {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	digest := h.Sum(nil)
	digest[0] &= 0x03 // keep 250 bits
	f, _ := FromBytes(digest)
	return f
}

// Selector computes the entry-point selector for a function name
// (starknet_keccak of the ASCII name).
func Selector(name string) *Felt {
	return StarknetKeccak([]byte(name))
}
