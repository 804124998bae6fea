// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package abi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/starkhand/starkhand/internal/felt"
)

// EnumValue is a decoded tagged-union value.
type EnumValue struct {
	Name    string
	Payload any
}

// DecodeOutputs decodes a returned field-element sequence against a
// function's declared return types. The sequence must partition exactly:
// running short or leaving elements over fails with ErrTruncatedOutput.
//
// Decoded representations: field elements as *felt.Felt, integers as
// *big.Int, booleans as bool, arrays and composites as []any, empty
// options as nil, enums as EnumValue.
func (i *Interface) DecodeOutputs(fn *Function, data []*felt.Felt) ([]any, error) {
	c := &feltCursor{data: data}
	out := make([]any, 0, len(fn.Outputs))

	for _, p := range fn.Outputs {
		t, err := i.resolveType(p.Type)
		if err != nil {
			return nil, err
		}
		v, err := i.decodeValue(t, c)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", p.Name, err)
		}
		out = append(out, v)
	}

	if c.remaining() > 0 {
		return nil, fmt.Errorf("%w: %d elements left over", ErrTruncatedOutput, c.remaining())
	}
	return out, nil
}

type feltCursor struct {
	data []*felt.Felt
	pos  int
}

func (c *feltCursor) next() (*felt.Felt, error) {
	if c.pos >= len(c.data) {
		return nil, fmt.Errorf("%w: sequence exhausted", ErrTruncatedOutput)
	}
	f := c.data[c.pos]
	c.pos++
	return f, nil
}

func (c *feltCursor) remaining() int { return len(c.data) - c.pos }

func (i *Interface) decodeValue(t *Type, c *feltCursor) (any, error) {
	switch t.Kind {
	case KindFelt:
		return c.next()

	case KindUint:
		f, err := c.next()
		if err != nil {
			return nil, err
		}
		v := felt.BigInt(f)
		if v.BitLen() > int(t.Bits) {
			return nil, fmt.Errorf("%w: value exceeds %s", ErrTruncatedOutput, t.Name)
		}
		return v, nil

	case KindInt:
		f, err := c.next()
		if err != nil {
			return nil, err
		}
		return decodeSigned(f, t.Bits)

	case KindBool:
		f, err := c.next()
		if err != nil {
			return nil, err
		}
		switch felt.BigInt(f).Uint64() {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, fmt.Errorf("%w: %s is not a boolean", ErrTruncatedOutput, felt.ToHex(f))

	case KindU256:
		lo, err := c.next()
		if err != nil {
			return nil, err
		}
		hi, err := c.next()
		if err != nil {
			return nil, err
		}
		v := new(big.Int).Lsh(felt.BigInt(hi), 128)
		return v.Add(v, felt.BigInt(lo)), nil

	case KindArray:
		lenF, err := c.next()
		if err != nil {
			return nil, err
		}
		length := felt.BigInt(lenF)
		if !length.IsUint64() || length.Uint64() > uint64(c.remaining()) {
			return nil, fmt.Errorf("%w: declared length %s exceeds remaining elements",
				ErrTruncatedOutput, length)
		}
		n := length.Uint64()
		elems := make([]any, 0, n)
		for range n {
			v, err := i.decodeValue(t.Elem, c)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return elems, nil

	case KindTuple, KindStruct:
		fields := make([]any, 0, len(t.Fields))
		for _, fld := range t.Fields {
			v, err := i.decodeValue(fld.Type, c)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", fld.Name, err)
			}
			fields = append(fields, v)
		}
		return fields, nil

	case KindOption:
		tag, err := c.next()
		if err != nil {
			return nil, err
		}
		switch felt.BigInt(tag).Uint64() {
		case 0:
			return i.decodeValue(t.Elem, c)
		case 1:
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s is not an option tag", ErrTruncatedOutput, felt.ToHex(tag))

	case KindEnum:
		tag, err := c.next()
		if err != nil {
			return nil, err
		}
		idx := felt.BigInt(tag)
		if !idx.IsUint64() || idx.Uint64() >= uint64(len(t.Variants)) {
			return nil, fmt.Errorf("%w: variant index %s out of range for %s",
				ErrTruncatedOutput, idx, t.Name)
		}
		v := t.Variants[idx.Uint64()]
		if v.Type.Kind == KindUnit {
			return EnumValue{Name: v.Name}, nil
		}
		payload, err := i.decodeValue(v.Type, c)
		if err != nil {
			return nil, err
		}
		return EnumValue{Name: v.Name, Payload: payload}, nil

	case KindUnit:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t.Name)
}

func decodeSigned(f *felt.Felt, bits uint) (*big.Int, error) {
	v := felt.BigInt(f)
	bound := new(big.Int).Lsh(big.NewInt(1), bits-1)
	if v.Cmp(bound) < 0 {
		return v, nil
	}
	// negatives live in the field's upper range
	neg := new(big.Int).Sub(v, felt.Modulus())
	if neg.Cmp(new(big.Int).Neg(bound)) < 0 {
		return nil, fmt.Errorf("%w: value does not fit i%d", ErrTruncatedOutput, bits)
	}
	return neg, nil
}

// FormatValue renders a decoded value for display: field elements in hex,
// integers in decimal, composites bracketed.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "none"
	case *felt.Felt:
		return felt.ToHex(x)
	case *big.Int:
		return x.String()
	case bool:
		return fmt.Sprintf("%t", x)
	case []any:
		parts := make([]string, len(x))
		for n, e := range x {
			parts[n] = FormatValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case EnumValue:
		if x.Payload == nil {
			return x.Name
		}
		return x.Name + "(" + FormatValue(x.Payload) + ")"
	}
	return fmt.Sprintf("%v", v)
}
