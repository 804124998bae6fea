// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package felt

import "testing"

// TestPedersenVectors pins the published StarkWare Pedersen test vectors
func TestPedersenVectors(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want string
	}{
		{
			name: "vector 1",
			a:    "0x3d937c035c878245caf64531a5756109c53068da139362728feb561405371cb",
			b:    "0x208a0a10250e382e1e4bbe2880906c2791bf6275695e02fbbc6aeff9cd8b31a",
			want: "0x30e480bed5fe53fa909cc0f8c4d99b8f9f2c016be4c41e13a4848797979c662",
		},
		{
			name: "vector 2",
			a:    "0x58f580910a6ca59b28927c08fe6c43e2e303ca384badc365795fc645d479d45",
			b:    "0x78734f65a067be9bdb39de18434d71e79f7b6466a4b66bbd979ab9e7515fe0b",
			want: "0x68cc0b76cddd1dd4ed2301ada9b7c872b23875d5ff837b3a87993e0d9996b87",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pedersen(MustParse(tt.a), MustParse(tt.b))
			if ToHex(got) != tt.want {
				t.Errorf("Pedersen = %s, want %s", ToHex(got), tt.want)
			}
		})
	}
}

// TestPedersenArrayComposition verifies the chain structure of the array hash:
// h([e0..en]) folds each element pairwise and closes with the length.
func TestPedersenArrayComposition(t *testing.T) {
	e0, e1 := FromUint64(7), FromUint64(11)

	manual := Pedersen(Pedersen(Pedersen(FromUint64(0), e0), e1), FromUint64(2))
	got := PedersenArray(e0, e1)
	if !got.Equal(manual) {
		t.Errorf("PedersenArray composition mismatch: %s vs %s", ToHex(got), ToHex(manual))
	}

	// An empty sequence still commits to its length
	empty := PedersenArray()
	if !empty.Equal(Pedersen(FromUint64(0), FromUint64(0))) {
		t.Errorf("PedersenArray() = %s", ToHex(empty))
	}
}

// TestHashDeterminism verifies both primitives are pure functions
func TestHashDeterminism(t *testing.T) {
	a := MustParse("0x1234")
	b := MustParse("0x5678")

	if !Pedersen(a, b).Equal(Pedersen(a, b)) {
		t.Error("Pedersen not deterministic")
	}
	if !Poseidon(a, b).Equal(Poseidon(a, b)) {
		t.Error("Poseidon not deterministic")
	}
	if !PoseidonArray(a, b, a).Equal(PoseidonArray(a, b, a)) {
		t.Error("PoseidonArray not deterministic")
	}
	if Poseidon(a, b).Equal(Poseidon(b, a)) {
		t.Error("Poseidon should not be commutative for distinct inputs")
	}
}
