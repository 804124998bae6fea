// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 Starkhand Authors

package class

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
)

// pythonJSON re-serializes raw JSON the way Python's json.dumps does with
// default arguments: member order preserved, ", " and ": " separators,
// non-ASCII escaped as \uXXXX. The legacy hinted class hash commits to
// exactly this byte form.
//
// filter, when non-nil, is consulted for every object member with the
// enclosing key path, the member key and the member's serialized value;
// returning true drops the member.
func pythonJSON(raw json.RawMessage, filter func(path []string, key string, value []byte) bool) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var buf bytes.Buffer
	if err := writePyValue(dec, &buf, nil, filter); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePyValue(dec *json.Decoder, buf *bytes.Buffer, path []string, filter func([]string, string, []byte) bool) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return writePyObject(dec, buf, path, filter)
		case '[':
			return writePyArray(dec, buf, path, filter)
		default:
			return fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		writePyString(buf, v)
	case json.Number:
		buf.WriteString(v.String())
	case bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case nil:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unexpected token %T", tok)
	}
	return nil
}

func writePyObject(dec *json.Decoder, buf *bytes.Buffer, path []string, filter func([]string, string, []byte) bool) error {
	buf.WriteByte('{')
	first := true
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("object key is %T, not string", keyTok)
		}

		var member bytes.Buffer
		if err := writePyValue(dec, &member, append(path, key), filter); err != nil {
			return err
		}
		if filter != nil && filter(path, key, member.Bytes()) {
			continue
		}

		if !first {
			buf.WriteString(", ")
		}
		first = false
		writePyString(buf, key)
		buf.WriteString(": ")
		buf.Write(member.Bytes())
	}
	// consume closing '}'
	if _, err := dec.Token(); err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func writePyArray(dec *json.Decoder, buf *bytes.Buffer, path []string, filter func([]string, string, []byte) bool) error {
	buf.WriteByte('[')
	first := true
	for dec.More() {
		if !first {
			buf.WriteString(", ")
		}
		first = false
		if err := writePyValue(dec, buf, path, filter); err != nil {
			return err
		}
	}
	// consume closing ']'
	if _, err := dec.Token(); err != nil {
		return err
	}
	buf.WriteByte(']')
	return nil
}

// writePyString escapes like json.dumps with ensure_ascii: short escapes
// for the common control characters, \uXXXX for everything else outside
// printable ASCII.
func writePyString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r < 0x7f:
				buf.WriteRune(r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(buf, `\u%04x\u%04x`, r1, r2)
			default:
				fmt.Fprintf(buf, `\u%04x`, r)
			}
		}
	}
	buf.WriteByte('"')
}
