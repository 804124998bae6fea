// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package class

import (
	"encoding/json"
	"fmt"

	"github.com/starkhand/starkhand/internal/felt"
)

// sierraPrefix tags the hash with the class format version. The artifact's
// contract_class_version string is appended to this prefix before
// short-string encoding.
const sierraPrefix = "CONTRACT_CLASS_V"

type sierraArtifact struct {
	SierraProgram        []string          `json:"sierra_program"`
	ContractClassVersion string            `json:"contract_class_version"`
	EntryPointsByType    sierraEntryPoints `json:"entry_points_by_type"`
	ABI                  json.RawMessage   `json:"abi"`
}

type sierraEntryPoints struct {
	External    []sierraEntryPoint `json:"EXTERNAL"`
	L1Handler   []sierraEntryPoint `json:"L1_HANDLER"`
	Constructor []sierraEntryPoint `json:"CONSTRUCTOR"`
}

type sierraEntryPoint struct {
	Selector    string `json:"selector"`
	FunctionIdx uint64 `json:"function_idx"`
}

func loadSierra(data []byte) (*SierraClass, error) {
	var art sierraArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("failed to parse sierra artifact: %w", err)
	}
	if art.ContractClassVersion != sierraVersion {
		return nil, fmt.Errorf("%w: contract_class_version %q", ErrUnsupportedClassVersion, art.ContractClassVersion)
	}

	program, err := parseFeltList(art.SierraProgram, "sierra_program")
	if err != nil {
		return nil, err
	}

	cls := &SierraClass{
		Version: art.ContractClassVersion,
		Program: program,
		ABIRaw:  abiString(art.ABI),
		Raw:     json.RawMessage(data),
	}

	if cls.External, err = convertSierraEntryPoints(art.EntryPointsByType.External); err != nil {
		return nil, err
	}
	if cls.L1Handler, err = convertSierraEntryPoints(art.EntryPointsByType.L1Handler); err != nil {
		return nil, err
	}
	if cls.Constructor, err = convertSierraEntryPoints(art.EntryPointsByType.Constructor); err != nil {
		return nil, err
	}
	return cls, nil
}

// abiString recovers the exact ABI text the compiler emitted. Newer
// compilers embed the ABI as a JSON string; older tooling sometimes stores
// the structure inline, in which case its compact serialization is used.
func abiString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func convertSierraEntryPoints(in []sierraEntryPoint) ([]SierraEntryPoint, error) {
	out := make([]SierraEntryPoint, len(in))
	for i, ep := range in {
		sel, err := felt.Parse(ep.Selector)
		if err != nil {
			return nil, fmt.Errorf("invalid entry point selector: %w", err)
		}
		out[i] = SierraEntryPoint{Selector: sel, FunctionIdx: ep.FunctionIdx}
	}
	return out, nil
}

// Hash computes the Sierra class hash:
//
//	poseidon(prefix, external_h, l1_handler_h, constructor_h,
//	         starknet_keccak(abi), poseidon(sierra_program))
//
// with entry-point tables hashed as flattened (selector, function_idx)
// pairs in declaration order, kinds in the fixed order above.
func (c *SierraClass) Hash() (*felt.Felt, error) {
	prefix, err := felt.ShortString(sierraPrefix + c.Version)
	if err != nil {
		return nil, err
	}

	return felt.PoseidonArray(
		prefix,
		hashSierraEntryPoints(c.External),
		hashSierraEntryPoints(c.L1Handler),
		hashSierraEntryPoints(c.Constructor),
		felt.StarknetKeccak([]byte(c.ABIRaw)),
		felt.PoseidonArray(c.Program...),
	), nil
}

func hashSierraEntryPoints(eps []SierraEntryPoint) *felt.Felt {
	flat := make([]*felt.Felt, 0, len(eps)*2)
	for _, ep := range eps {
		flat = append(flat, ep.Selector, felt.FromUint64(ep.FunctionIdx))
	}
	return felt.PoseidonArray(flat...)
}
