// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package abi

import (
	"fmt"
	"strings"
)

// Kind discriminates the codec's recursive type tree.
type Kind int

const (
	KindFelt Kind = iota
	KindUint
	KindInt
	KindBool
	KindU256
	KindArray
	KindTuple
	KindStruct
	KindEnum
	KindOption
	KindUnit
)

// Field is one component of a composite type.
type Field struct {
	Name string
	Type *Type
}

// Type is a resolved Cairo value type. Exactly the members relevant to its
// Kind are populated.
type Type struct {
	Kind     Kind
	Name     string
	Bits     uint    // KindUint, KindInt
	Elem     *Type   // KindArray, KindOption
	Fields   []Field // KindTuple, KindStruct
	Variants []Field // KindEnum
}

// feltAlias reports whether name is a leaf type the network addresses with
// a single element.
func feltAlias(name string) bool {
	switch name {
	case "felt",
		"core::felt252",
		"core::starknet::contract_address::ContractAddress",
		"core::starknet::class_hash::ClassHash",
		"core::starknet::storage_access::StorageAddress",
		"core::starknet::eth_address::EthAddress",
		"core::bytes_31::bytes31":
		return true
	}
	return false
}

// intWidth reports the bit width and signedness of fixed-width integer
// types.
func intWidth(name string) (bits uint, signed, ok bool) {
	switch name {
	case "core::integer::u8":
		return 8, false, true
	case "core::integer::u16":
		return 16, false, true
	case "core::integer::u32", "core::integer::usize":
		return 32, false, true
	case "core::integer::u64":
		return 64, false, true
	case "core::integer::u128":
		return 128, false, true
	case "core::integer::i8":
		return 8, true, true
	case "core::integer::i16":
		return 16, true, true
	case "core::integer::i32":
		return 32, true, true
	case "core::integer::i64":
		return 64, true, true
	case "core::integer::i128":
		return 128, true, true
	}
	return 0, false, false
}

// resolveType turns a declared type name into its codec tree, chasing
// struct and enum definitions through the interface. A nil receiver
// resolves builtin types only.
func (i *Interface) resolveType(name string) (*Type, error) {
	name = strings.TrimSpace(name)

	if feltAlias(name) {
		return &Type{Kind: KindFelt, Name: name}, nil
	}
	if bits, signed, ok := intWidth(name); ok {
		k := KindUint
		if signed {
			k = KindInt
		}
		return &Type{Kind: k, Name: name, Bits: bits}, nil
	}

	switch {
	case name == "core::bool":
		return &Type{Kind: KindBool, Name: name}, nil
	case name == "core::integer::u256":
		return &Type{Kind: KindU256, Name: name}, nil
	case name == "()":
		return &Type{Kind: KindUnit, Name: name}, nil
	}

	if inner, ok := genericArg(name, "core::array::Array::<"); ok {
		return i.resolveElem(KindArray, name, inner)
	}
	if inner, ok := genericArg(name, "core::array::Span::<"); ok {
		return i.resolveElem(KindArray, name, inner)
	}
	if inner, ok := genericArg(name, "core::option::Option::<"); ok {
		return i.resolveElem(KindOption, name, inner)
	}

	if strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")") {
		return i.resolveTuple(name)
	}

	if i != nil {
		if def, ok := i.structs[name]; ok {
			return i.resolveStruct(def)
		}
		if def, ok := i.enums[name]; ok {
			return i.resolveEnum(def)
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, name)
}

func genericArg(name, prefix string) (string, bool) {
	if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ">") {
		return name[len(prefix) : len(name)-1], true
	}
	return "", false
}

func (i *Interface) resolveElem(kind Kind, name, inner string) (*Type, error) {
	elem, err := i.resolveType(inner)
	if err != nil {
		return nil, err
	}
	return &Type{Kind: kind, Name: name, Elem: elem}, nil
}

func (i *Interface) resolveTuple(name string) (*Type, error) {
	inner := name[1 : len(name)-1]
	parts := splitTopLevel(inner)
	fields := make([]Field, 0, len(parts))
	for n, p := range parts {
		t, err := i.resolveType(p)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: fmt.Sprintf("%d", n), Type: t})
	}
	return &Type{Kind: KindTuple, Name: name, Fields: fields}, nil
}

func (i *Interface) resolveStruct(def *StructDef) (*Type, error) {
	fields := make([]Field, 0, len(def.Members))
	for _, m := range def.Members {
		t, err := i.resolveType(m.Type)
		if err != nil {
			return nil, fmt.Errorf("struct %q member %q: %w", def.Name, m.Name, err)
		}
		fields = append(fields, Field{Name: m.Name, Type: t})
	}
	return &Type{Kind: KindStruct, Name: def.Name, Fields: fields}, nil
}

func (i *Interface) resolveEnum(def *EnumDef) (*Type, error) {
	variants := make([]Field, 0, len(def.Variants))
	for _, v := range def.Variants {
		var t *Type
		if v.Type == "" || v.Type == "()" {
			t = &Type{Kind: KindUnit, Name: "()"}
		} else {
			resolved, err := i.resolveType(v.Type)
			if err != nil {
				return nil, fmt.Errorf("enum %q variant %q: %w", def.Name, v.Name, err)
			}
			t = resolved
		}
		variants = append(variants, Field{Name: v.Name, Type: t})
	}
	return &Type{Kind: KindEnum, Name: def.Name, Variants: variants}, nil
}

// splitTopLevel splits a comma-joined type list without breaking nested
// generics or tuples apart.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for n, r := range s {
		switch r {
		case '(', '<':
			depth++
		case ')', '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:n]))
				start = n + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}
