// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package class

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/starkhand/starkhand/internal/felt"
)

// legacyAPIVersion is the fixed leading element of the legacy class hash.
const legacyAPIVersion = 0

type legacyArtifact struct {
	Program           json.RawMessage   `json:"program"`
	EntryPointsByType legacyEntryPoints `json:"entry_points_by_type"`
	ABI               json.RawMessage   `json:"abi"`
}

type legacyEntryPoints struct {
	External    []legacyEntryPoint `json:"EXTERNAL"`
	L1Handler   []legacyEntryPoint `json:"L1_HANDLER"`
	Constructor []legacyEntryPoint `json:"CONSTRUCTOR"`
}

type legacyEntryPoint struct {
	Selector string          `json:"selector"`
	Offset   json.RawMessage `json:"offset"` // hex string or bare number, compiler dependent
}

type legacyProgram struct {
	Data     []string `json:"data"`
	Builtins []string `json:"builtins"`
}

func loadLegacy(data []byte) (*LegacyClass, error) {
	var art legacyArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("failed to parse legacy artifact: %w", err)
	}

	var prog legacyProgram
	if err := json.Unmarshal(art.Program, &prog); err != nil {
		return nil, fmt.Errorf("failed to parse legacy program: %w", err)
	}

	words, err := parseFeltList(prog.Data, "program.data")
	if err != nil {
		return nil, err
	}

	cls := &LegacyClass{
		Data:       words,
		Builtins:   prog.Builtins,
		ProgramRaw: art.Program,
		ABIRaw:     art.ABI,
		Raw:        json.RawMessage(data),
	}

	if cls.External, err = convertLegacyEntryPoints(art.EntryPointsByType.External); err != nil {
		return nil, err
	}
	if cls.L1Handler, err = convertLegacyEntryPoints(art.EntryPointsByType.L1Handler); err != nil {
		return nil, err
	}
	if cls.Constructor, err = convertLegacyEntryPoints(art.EntryPointsByType.Constructor); err != nil {
		return nil, err
	}
	return cls, nil
}

func convertLegacyEntryPoints(in []legacyEntryPoint) ([]LegacyEntryPoint, error) {
	out := make([]LegacyEntryPoint, len(in))
	for i, ep := range in {
		sel, err := felt.Parse(ep.Selector)
		if err != nil {
			return nil, fmt.Errorf("invalid entry point selector: %w", err)
		}
		off, err := parseOffset(ep.Offset)
		if err != nil {
			return nil, err
		}
		out[i] = LegacyEntryPoint{Selector: sel, Offset: off}
	}
	return out, nil
}

func parseOffset(raw json.RawMessage) (uint64, error) {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

// Hash computes the legacy class hash:
//
//	pedersen([api_version, external_h, l1_handler_h, constructor_h,
//	          builtins_h, hinted_class_hash, pedersen(program.data)])
//
// with entry-point tables hashed as flattened (selector, offset) pairs and
// builtins hashed as short strings.
func (c *LegacyClass) Hash() (*felt.Felt, error) {
	builtins := make([]*felt.Felt, len(c.Builtins))
	for i, b := range c.Builtins {
		f, err := felt.ShortString(b)
		if err != nil {
			return nil, fmt.Errorf("invalid builtin name %q: %w", b, err)
		}
		builtins[i] = f
	}

	hinted, err := c.HintedClassHash()
	if err != nil {
		return nil, err
	}

	return felt.PedersenArray(
		felt.FromUint64(legacyAPIVersion),
		hashLegacyEntryPoints(c.External),
		hashLegacyEntryPoints(c.L1Handler),
		hashLegacyEntryPoints(c.Constructor),
		felt.PedersenArray(builtins...),
		hinted,
		felt.PedersenArray(c.Data...),
	), nil
}

// HintedClassHash commits to the artifact's JSON serialization: the
// starknet_keccak of {"abi": ..., "program": ...} re-serialized the way the
// original Python tooling dumps it (", "/": " separators, ASCII escapes),
// with debug information stripped from the program.
func (c *LegacyClass) HintedClassHash() (*felt.Felt, error) {
	abi := c.ABIRaw
	if len(abi) == 0 {
		abi = json.RawMessage("null")
	}

	abiText, err := pythonJSON(abi, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize abi: %w", err)
	}
	progText, err := pythonJSON(c.ProgramRaw, legacyProgramFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize program: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(`{"abi": `)
	buf.Write(abiText)
	buf.WriteString(`, "program": `)
	buf.Write(progText)
	buf.WriteByte('}')

	return felt.StarknetKeccak(buf.Bytes()), nil
}

// legacyProgramFilter drops the keys the network's hash definition
// excludes: debug_info entirely, empty attribute noise the compiler may or
// may not emit.
func legacyProgramFilter(path []string, key string, value []byte) bool {
	switch {
	case len(path) == 0 && key == "debug_info":
		return true
	case len(path) == 0 && key == "attributes" && string(value) == "[]":
		return true
	case len(path) == 1 && path[0] == "attributes" && key == "accessible_scopes" && string(value) == "[]":
		return true
	case len(path) == 1 && path[0] == "attributes" && key == "flow_tracking_data" && string(value) == "null":
		return true
	}
	return false
}

func hashLegacyEntryPoints(eps []LegacyEntryPoint) *felt.Felt {
	flat := make([]*felt.Felt, 0, len(eps)*2)
	for _, ep := range eps {
		flat = append(flat, ep.Selector, felt.FromUint64(ep.Offset))
	}
	return felt.PedersenArray(flat...)
}
