// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package abi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/starkhand/starkhand/internal/felt"
)

// Sentinel tokens delimiting a variable-length group in a flat literal
// argument list.
const (
	ArrayOpen  = "["
	ArrayClose = "]"
)

// OptionNone is the literal that selects the empty variant of an optional
// parameter.
const OptionNone = "none"

// EncodeInputs encodes ordered literal arguments against a function's
// declared parameters, producing calldata in the network's serialization.
// Array-typed parameters consume a bracketed group of literals and are
// emitted length-prefixed; composite parameters consume one literal per
// leaf field in declaration order.
func (i *Interface) EncodeInputs(fn *Function, literals []string) ([]*felt.Felt, error) {
	r := &tokenReader{toks: literals}
	var out []*felt.Felt

	for _, p := range fn.Inputs {
		t, err := i.resolveType(p.Type)
		if err != nil {
			return nil, err
		}
		if err := i.encodeValue(t, r, &out); err != nil {
			return nil, fmt.Errorf("argument %q: %w", p.Name, err)
		}
	}

	if !r.done() {
		return nil, fmt.Errorf("%w: %d literals left over after %d parameters",
			ErrArityMismatch, r.remaining(), len(fn.Inputs))
	}
	return out, nil
}

// EncodeRaw is the no-interface fallback: every literal is a bare field
// element and no structural prefixes are inserted.
func EncodeRaw(literals []string) ([]*felt.Felt, error) {
	out := make([]*felt.Felt, 0, len(literals))
	for n, lit := range literals {
		f, err := felt.Parse(lit)
		if err != nil {
			return nil, fmt.Errorf("calldata element %d: %w", n, err)
		}
		out = append(out, f)
	}
	return out, nil
}

type tokenReader struct {
	toks []string
	pos  int
}

func (r *tokenReader) next() (string, error) {
	if r.pos >= len(r.toks) {
		return "", fmt.Errorf("%w: ran out of literals", ErrArityMismatch)
	}
	tok := r.toks[r.pos]
	r.pos++
	return tok, nil
}

func (r *tokenReader) peek() (string, bool) {
	if r.pos >= len(r.toks) {
		return "", false
	}
	return r.toks[r.pos], true
}

func (r *tokenReader) done() bool     { return r.pos >= len(r.toks) }
func (r *tokenReader) remaining() int { return len(r.toks) - r.pos }

func (i *Interface) encodeValue(t *Type, r *tokenReader, out *[]*felt.Felt) error {
	switch t.Kind {
	case KindFelt:
		tok, err := r.next()
		if err != nil {
			return err
		}
		f, err := felt.Parse(tok)
		if err != nil {
			return err
		}
		*out = append(*out, f)

	case KindUint, KindInt:
		tok, err := r.next()
		if err != nil {
			return err
		}
		f, err := encodeInteger(t, tok)
		if err != nil {
			return err
		}
		*out = append(*out, f)

	case KindBool:
		tok, err := r.next()
		if err != nil {
			return err
		}
		switch strings.ToLower(tok) {
		case "true", "1":
			*out = append(*out, felt.FromUint64(1))
		case "false", "0":
			*out = append(*out, felt.FromUint64(0))
		default:
			return fmt.Errorf("%w: %q is not a boolean", ErrArgumentOutOfRange, tok)
		}

	case KindU256:
		tok, err := r.next()
		if err != nil {
			return err
		}
		lo, hi, err := splitU256(tok)
		if err != nil {
			return err
		}
		*out = append(*out, lo, hi)

	case KindArray:
		return i.encodeArray(t, r, out)

	case KindTuple, KindStruct:
		for _, fld := range t.Fields {
			if err := i.encodeValue(fld.Type, r, out); err != nil {
				return fmt.Errorf("field %q: %w", fld.Name, err)
			}
		}

	case KindOption:
		tok, ok := r.peek()
		if !ok {
			return fmt.Errorf("%w: ran out of literals", ErrArityMismatch)
		}
		if strings.EqualFold(tok, OptionNone) {
			r.pos++
			*out = append(*out, felt.FromUint64(1))
			return nil
		}
		*out = append(*out, felt.FromUint64(0))
		return i.encodeValue(t.Elem, r, out)

	case KindEnum:
		tok, err := r.next()
		if err != nil {
			return err
		}
		for n, v := range t.Variants {
			if v.Name != tok {
				continue
			}
			*out = append(*out, felt.FromUint64(uint64(n)))
			if v.Type.Kind == KindUnit {
				return nil
			}
			return i.encodeValue(v.Type, r, out)
		}
		return fmt.Errorf("%w: %q is not a variant of %s", ErrArgumentOutOfRange, tok, t.Name)

	case KindUnit:
		// zero-sized, consumes nothing

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, t.Name)
	}
	return nil
}

func (i *Interface) encodeArray(t *Type, r *tokenReader, out *[]*felt.Felt) error {
	tok, err := r.next()
	if err != nil {
		return err
	}
	if tok != ArrayOpen {
		return fmt.Errorf("%w: expected %q to open array group, got %q",
			ErrArityMismatch, ArrayOpen, tok)
	}

	var elems []*felt.Felt
	count := uint64(0)
	for {
		next, ok := r.peek()
		if !ok {
			return fmt.Errorf("%w: array group not closed with %q", ErrArityMismatch, ArrayClose)
		}
		if next == ArrayClose {
			r.pos++
			break
		}
		if err := i.encodeValue(t.Elem, r, &elems); err != nil {
			return err
		}
		count++
	}

	*out = append(*out, felt.FromUint64(count))
	*out = append(*out, elems...)
	return nil
}

func encodeInteger(t *Type, lit string) (*felt.Felt, error) {
	v, err := parseIntLiteral(lit)
	if err != nil {
		return nil, err
	}

	if t.Kind == KindUint {
		if v.Sign() < 0 || v.BitLen() > int(t.Bits) {
			return nil, fmt.Errorf("%w: %s does not fit %s", ErrArgumentOutOfRange, lit, t.Name)
		}
		return felt.FromBigInt(v)
	}

	// signed: [-2^(bits-1), 2^(bits-1)-1], negatives in field representation
	bound := new(big.Int).Lsh(big.NewInt(1), t.Bits-1)
	hi := new(big.Int).Sub(bound, big.NewInt(1))
	lo := new(big.Int).Neg(bound)
	if v.Cmp(lo) < 0 || v.Cmp(hi) > 0 {
		return nil, fmt.Errorf("%w: %s does not fit %s", ErrArgumentOutOfRange, lit, t.Name)
	}
	if v.Sign() >= 0 {
		return felt.FromBigInt(v)
	}
	return felt.FromBigInt(new(big.Int).Add(felt.Modulus(), v))
}

func splitU256(lit string) (lo, hi *felt.Felt, err error) {
	v, err := parseIntLiteral(lit)
	if err != nil {
		return nil, nil, err
	}
	if v.Sign() < 0 || v.BitLen() > 256 {
		return nil, nil, fmt.Errorf("%w: %s does not fit core::integer::u256", ErrArgumentOutOfRange, lit)
	}

	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	low := new(big.Int).And(v, mask)
	high := new(big.Int).Rsh(v, 128)

	lo, err = felt.FromBigInt(low)
	if err != nil {
		return nil, nil, err
	}
	hi, err = felt.FromBigInt(high)
	if err != nil {
		return nil, nil, err
	}
	return lo, hi, nil
}

func parseIntLiteral(lit string) (*big.Int, error) {
	s := strings.TrimSpace(lit)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a valid integer literal", ErrArgumentOutOfRange, lit)
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}
