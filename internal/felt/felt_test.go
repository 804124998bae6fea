// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package felt

import (
	"errors"
	"math/big"
	"testing"
)

// TestParse verifies strict decimal and hex parsing
func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string // decimal, empty when only success matters
		wantErr error
	}{
		{name: "zero", input: "0", want: "0"},
		{name: "decimal", input: "123456789", want: "123456789"},
		{name: "hex lowercase", input: "0x1a2b", want: "6699"},
		{name: "hex uppercase prefix", input: "0X1A2B", want: "6699"},
		{name: "max valid", input: "0x800000000000011000000000000000000000000000000000000000000000000"},
		{name: "modulus rejected", input: "0x800000000000011000000000000000000000000000000000000000000000001", wantErr: ErrOutOfRange},
		{name: "above modulus rejected", input: "3618502788666131213697322783095070105623107215331596699973092056135872020482", wantErr: ErrOutOfRange},
		{name: "empty", input: "", wantErr: ErrOutOfRange},
		{name: "garbage", input: "not-a-number", wantErr: ErrOutOfRange},
		{name: "bare 0x", input: "0x", wantErr: ErrOutOfRange},
		{name: "negative", input: "-5", wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if tt.want != "" && ToDecimal(f) != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, ToDecimal(f), tt.want)
			}
		})
	}
}

// TestParseModulusBoundary pins the exact boundary: modulus-1 parses, modulus does not
func TestParseModulusBoundary(t *testing.T) {
	maxValid := new(big.Int).Sub(Modulus(), big.NewInt(1))

	f, err := Parse(maxValid.Text(10))
	if err != nil {
		t.Fatalf("modulus-1 should parse: %v", err)
	}
	if BigInt(f).Cmp(maxValid) != 0 {
		t.Errorf("modulus-1 round-trip mismatch")
	}

	if _, err := Parse(Modulus().Text(10)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("modulus should be rejected, got %v", err)
	}
}

// TestFormatRoundTrip verifies parse(format(x)) == x in both radices
func TestFormatRoundTrip(t *testing.T) {
	values := []string{
		"0",
		"1",
		"255",
		"0xdeadbeef",
		"3618502788666131213697322783095070105623107215331596699973092056135872020480",
	}

	for _, v := range values {
		f := MustParse(v)
		for _, base := range []int{10, 16} {
			s, err := Format(f, base)
			if err != nil {
				t.Fatalf("Format(%s, %d): %v", v, base, err)
			}
			back, err := Parse(s)
			if err != nil {
				t.Fatalf("Parse(Format(%s, %d)) = %q: %v", v, base, s, err)
			}
			if !back.Equal(f) {
				t.Errorf("round trip failed for %s base %d (via %q)", v, base, s)
			}
		}
	}
}

// TestFromBytes verifies width and range enforcement
func TestFromBytes(t *testing.T) {
	if _, err := FromBytes(make([]byte, 33)); !errors.Is(err, ErrOverflow) {
		t.Errorf("33 bytes should overflow, got %v", err)
	}

	// 32 bytes of 0xff exceeds the modulus
	over := make([]byte, 32)
	for i := range over {
		over[i] = 0xff
	}
	if _, err := FromBytes(over); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("all-ones should be out of range, got %v", err)
	}

	f, err := FromBytes([]byte{0x01, 0x00})
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if ToDecimal(f) != "256" {
		t.Errorf("FromBytes([1,0]) = %s, want 256", ToDecimal(f))
	}
}

// TestShortString verifies Cairo short-string encoding
func TestShortString(t *testing.T) {
	f, err := ShortString("SN_MAIN")
	if err != nil {
		t.Fatalf("ShortString: %v", err)
	}
	if ToHex(f) != "0x534e5f4d41494e" {
		t.Errorf("ShortString(SN_MAIN) = %s, want 0x534e5f4d41494e", ToHex(f))
	}

	if _, err := ShortString("this string is way too long to fit one felt"); err == nil {
		t.Error("expected error for 32+ character string")
	}
	if _, err := ShortString("non-ascii\xc3\xa9"); err == nil {
		t.Error("expected error for non-ASCII input")
	}
}

// TestSelector pins the published selector of the ERC-20 transfer entry point
func TestSelector(t *testing.T) {
	got := Selector("transfer")
	want := "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e"
	if ToHex(got) != want {
		t.Errorf("Selector(transfer) = %s, want %s", ToHex(got), want)
	}
}

// TestToFixedHex verifies zero padding to 64 digits
func TestToFixedHex(t *testing.T) {
	got := ToFixedHex(FromUint64(1))
	if len(got) != 66 {
		t.Fatalf("ToFixedHex length = %d, want 66", len(got))
	}
	if got != "0x0000000000000000000000000000000000000000000000000000000000000001" {
		t.Errorf("ToFixedHex(1) = %s", got)
	}
}
