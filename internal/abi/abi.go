// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

// Package abi translates between human-provided argument literals and the
// ordered field-element sequences contract entry points consume, driven by
// the typed interface a Cairo 1 compiler emits alongside the class.
package abi

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnknownFunction indicates the interface declares no function with
	// the requested name.
	ErrUnknownFunction = errors.New("function not found in abi")

	// ErrUnsupportedType indicates a parameter references a type the codec
	// cannot resolve from the interface.
	ErrUnsupportedType = errors.New("unsupported abi type")

	// ErrArityMismatch indicates the literal argument list does not line up
	// with the declared parameters.
	ErrArityMismatch = errors.New("argument count does not match abi")

	// ErrArgumentOutOfRange indicates a literal argument violates its
	// declared type's value range.
	ErrArgumentOutOfRange = errors.New("argument out of range for abi type")

	// ErrTruncatedOutput indicates a returned field-element sequence does
	// not partition exactly into the declared return types.
	ErrTruncatedOutput = errors.New("output does not match abi return types")
)

// Param is one named, typed slot in a function signature.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Function is one callable entry point declared by the interface.
type Function struct {
	Name    string  `json:"name"`
	Inputs  []Param `json:"inputs"`
	Outputs []Param `json:"outputs"`
}

// StructDef is a user-defined composite type; members encode flattened in
// declaration order.
type StructDef struct {
	Name    string  `json:"name"`
	Members []Param `json:"members"`
}

// EnumDef is a tagged union; values encode as a variant index followed by
// the selected variant's payload.
type EnumDef struct {
	Name     string  `json:"name"`
	Variants []Param `json:"variants"`
}

// Interface is a contract's parsed application binary interface. It indexes
// every reachable function together with the type definitions their
// signatures depend on.
type Interface struct {
	functions map[string]*Function
	structs   map[string]*StructDef
	enums     map[string]*EnumDef
}

type rawEntry struct {
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Inputs   []Param         `json:"inputs"`
	Outputs  []outputSlot    `json:"outputs"`
	Members  []Param         `json:"members"`
	Variants []Param         `json:"variants"`
	Items    json.RawMessage `json:"items"`
}

// Sierra output slots carry only a type; give them positional names so
// decode results stay addressable.
type outputSlot struct {
	Type string `json:"type"`
}

// Parse loads an interface from the compiler's JSON serialization. The
// input may be the ABI array itself or a full class artifact whose "abi"
// member holds the array, directly or as an embedded JSON string.
func Parse(data []byte) (*Interface, error) {
	entries, err := extractEntries(data)
	if err != nil {
		return nil, err
	}

	iface := &Interface{
		functions: make(map[string]*Function),
		structs:   make(map[string]*StructDef),
		enums:     make(map[string]*EnumDef),
	}
	if err := iface.addEntries(entries); err != nil {
		return nil, err
	}
	return iface, nil
}

func extractEntries(data []byte) ([]rawEntry, error) {
	var entries []rawEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	var artifact struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(data, &artifact); err != nil || len(artifact.ABI) == 0 {
		return nil, fmt.Errorf("input is neither an abi array nor a class artifact")
	}

	abiRaw := artifact.ABI
	var embedded string
	if json.Unmarshal(abiRaw, &embedded) == nil {
		abiRaw = json.RawMessage(embedded)
	}
	if err := json.Unmarshal(abiRaw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse abi array: %w", err)
	}
	return entries, nil
}

func (i *Interface) addEntries(entries []rawEntry) error {
	for _, e := range entries {
		switch e.Type {
		case "function", "constructor", "l1_handler":
			i.functions[e.Name] = &Function{
				Name:    e.Name,
				Inputs:  e.Inputs,
				Outputs: namedOutputs(e.Outputs),
			}
		case "struct":
			i.structs[e.Name] = &StructDef{Name: e.Name, Members: e.Members}
		case "enum":
			i.enums[e.Name] = &EnumDef{Name: e.Name, Variants: e.Variants}
		case "interface":
			var items []rawEntry
			if err := json.Unmarshal(e.Items, &items); err != nil {
				return fmt.Errorf("failed to parse interface %q items: %w", e.Name, err)
			}
			if err := i.addEntries(items); err != nil {
				return err
			}
		case "impl", "event":
			// impls only bind interfaces to the contract; events are not
			// callable.
		}
	}
	return nil
}

func namedOutputs(slots []outputSlot) []Param {
	out := make([]Param, len(slots))
	for n, s := range slots {
		out[n] = Param{Name: fmt.Sprintf("ret%d", n), Type: s.Type}
	}
	return out
}

// Function returns the declared entry point with the given name.
func (i *Interface) Function(name string) (*Function, error) {
	fn, ok := i.functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
	}
	return fn, nil
}

// Functions lists all declared entry-point names.
func (i *Interface) Functions() []string {
	names := make([]string, 0, len(i.functions))
	for name := range i.functions {
		names = append(names, name)
	}
	return names
}
