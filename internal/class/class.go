// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// Package class loads compiled Cairo contract artifacts and computes their
// canonical class hashes.
//
// Two historical artifact shapes are supported, distinguished by explicit
// format markers: the legacy (Cairo 0) bytecode class, hashed with
// Pedersen chains, and the Sierra (Cairo 1) structured class, hashed with
// Poseidon. Each layout must reproduce the network's on-chain computation
// exactly; the section orderings below follow the published hashing
// specification version-for-version.
package class

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starkhand/starkhand/internal/felt"
)

// ErrUnsupportedClassVersion indicates an artifact matching neither the
// legacy nor the Sierra layout.
var ErrUnsupportedClassVersion = errors.New("unsupported contract class format")

// sierraVersion is the only structured class version defined so far.
const sierraVersion = "0.1.0"

// SierraEntryPoint is one selector of a structured class, addressed by
// function index into the Sierra program.
type SierraEntryPoint struct {
	Selector    *felt.Felt
	FunctionIdx uint64
}

// LegacyEntryPoint is one selector of a bytecode class, addressed by
// bytecode offset.
type LegacyEntryPoint struct {
	Selector *felt.Felt
	Offset   uint64
}

// SierraClass is a parsed Cairo 1 contract class.
type SierraClass struct {
	Version     string
	Program     []*felt.Felt
	External    []SierraEntryPoint
	L1Handler   []SierraEntryPoint
	Constructor []SierraEntryPoint

	// ABIRaw is the ABI exactly as the compiler serialized it; its byte
	// content is part of the class hash.
	ABIRaw string

	// Raw retains the artifact for declare payload assembly.
	Raw json.RawMessage
}

// LegacyClass is a parsed Cairo 0 contract class.
type LegacyClass struct {
	Data        []*felt.Felt // program bytecode words
	Builtins    []string
	External    []LegacyEntryPoint
	L1Handler   []LegacyEntryPoint
	Constructor []LegacyEntryPoint

	// ProgramRaw and ABIRaw feed the hinted class hash, which commits to
	// the artifact's JSON serialization rather than its structure.
	ProgramRaw json.RawMessage
	ABIRaw     json.RawMessage

	Raw json.RawMessage
}

// Class is a contract class in either supported representation. Exactly
// one of Sierra and Legacy is set.
type Class struct {
	Sierra *SierraClass
	Legacy *LegacyClass
}

// Load detects the artifact shape by its format markers and parses it.
func Load(data []byte) (*Class, error) {
	var probe struct {
		SierraProgram []json.RawMessage `json:"sierra_program"`
		Program       json.RawMessage   `json:"program"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse contract artifact: %w", err)
	}

	switch {
	case probe.SierraProgram != nil:
		s, err := loadSierra(data)
		if err != nil {
			return nil, err
		}
		return &Class{Sierra: s}, nil
	case probe.Program != nil:
		l, err := loadLegacy(data)
		if err != nil {
			return nil, err
		}
		return &Class{Legacy: l}, nil
	default:
		return nil, fmt.Errorf("%w: neither sierra_program nor program section present", ErrUnsupportedClassVersion)
	}
}

// Hash computes the canonical class hash for whichever representation the
// class carries. Pure and deterministic: identical artifact content always
// yields an identical hash.
func (c *Class) Hash() (*felt.Felt, error) {
	switch {
	case c.Sierra != nil:
		return c.Sierra.Hash()
	case c.Legacy != nil:
		return c.Legacy.Hash()
	default:
		return nil, ErrUnsupportedClassVersion
	}
}

func parseFeltList(raw []string, what string) ([]*felt.Felt, error) {
	out := make([]*felt.Felt, len(raw))
	for i, s := range raw {
		f, err := felt.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid felt in %s[%d]: %w", what, i, err)
		}
		out[i] = f
	}
	return out, nil
}
