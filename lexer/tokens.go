// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lexer

import (
	"strconv"
	"strings"

	"github.com/outwire/protocore/ast"
	"github.com/outwire/protocore/reporter"
)

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func posErr(b *Buffer, kind reporter.Kind, offset int, format string, args ...any) error {
	return reporter.Errorf(kind, b.Position(offset), format, args...)
}

// ReadIdentifier consumes a bare identifier: [A-Za-z_][A-Za-z0-9_]*.
// Leading/trailing whitespace and comments must already have been skipped
// by the caller (SkipWhitespaceAndComments).
func ReadIdentifier(b *Buffer) (string, error) {
	start := b.Mark()
	c, ok := b.Current()
	if !ok || !isIdentStart(c) {
		b.Reset(start)
		return "", posErr(b, reporter.KindUnexpected, start, "expected identifier")
	}
	var sb strings.Builder
	sb.WriteByte(b.Advance())
	for {
		c, ok := b.Current()
		if !ok || !isIdentCont(c) {
			break
		}
		sb.WriteByte(b.Advance())
	}
	return sb.String(), nil
}

// ReadScopedIdentifier consumes a dotted identifier, optionally beginning
// with a leading "." that marks it absolute (spec.md §4.2). Each segment
// must be a valid identifier.
func ReadScopedIdentifier(b *Buffer) (ast.ScopedName, error) {
	start := b.Mark()
	absolute := false
	if c, ok := b.Current(); ok && c == '.' {
		b.Advance()
		absolute = true
	}
	first, err := ReadIdentifier(b)
	if err != nil {
		b.Reset(start)
		return ast.ScopedName{}, err
	}
	parts := []string{first}
	for {
		mark := b.Mark()
		c, ok := b.Current()
		if !ok || c != '.' {
			break
		}
		// Don't consume the dot unless a valid identifier follows: this
		// lets callers that parse "a.b" followed by unrelated "." (none
		// in this grammar, but kept for symmetry with ReadIdentifier's
		// transactional contract) back out cleanly.
		b.Advance()
		part, err := ReadIdentifier(b)
		if err != nil {
			b.Reset(mark)
			break
		}
		parts = append(parts, part)
	}
	return ast.ScopedName{Parts: parts, Absolute: absolute}, nil
}

// IntLiteral is the parsed value and declared radix of an integer literal.
type IntLiteral struct {
	Value uint64
	Radix int
}

// ReadInteger consumes a decimal, hex (0x...), or octal (0...) integer
// literal.
func ReadInteger(b *Buffer) (IntLiteral, error) {
	start := b.Mark()
	c, ok := b.Current()
	if !ok || !isDigit(c) {
		b.Reset(start)
		return IntLiteral{}, posErr(b, reporter.KindUnexpected, start, "expected integer literal")
	}
	if c == '0' {
		if c2, ok2 := b.Peek(1); ok2 && (c2 == 'x' || c2 == 'X') {
			b.AdvanceN(2)
			digStart := b.Mark()
			var sb strings.Builder
			for {
				c, ok := b.Current()
				if !ok || !isHexDigit(c) {
					break
				}
				sb.WriteByte(b.Advance())
			}
			if sb.Len() == 0 {
				b.Reset(start)
				return IntLiteral{}, posErr(b, reporter.KindInvalidNumber, digStart, "malformed hex literal")
			}
			v, err := strconv.ParseUint(sb.String(), 16, 64)
			if err != nil {
				b.Reset(start)
				return IntLiteral{}, posErr(b, reporter.KindInvalidNumber, start, "malformed hex literal: %v", err)
			}
			return IntLiteral{Value: v, Radix: 16}, nil
		}
		// Octal (or a lone "0").
		var sb strings.Builder
		for {
			c, ok := b.Current()
			if !ok || !isDigit(c) {
				break
			}
			sb.WriteByte(b.Advance())
		}
		if sb.Len() == 0 {
			return IntLiteral{Value: 0, Radix: 10}, nil
		}
		v, err := strconv.ParseUint(sb.String(), 8, 64)
		if err != nil {
			b.Reset(start)
			return IntLiteral{}, posErr(b, reporter.KindInvalidNumber, start, "malformed octal literal: %v", err)
		}
		return IntLiteral{Value: v, Radix: 8}, nil
	}
	var sb strings.Builder
	for {
		c, ok := b.Current()
		if !ok || !isDigit(c) {
			break
		}
		sb.WriteByte(b.Advance())
	}
	v, err := strconv.ParseUint(sb.String(), 10, 64)
	if err != nil {
		b.Reset(start)
		return IntLiteral{}, posErr(b, reporter.KindInvalidNumber, start, "malformed integer literal: %v", err)
	}
	return IntLiteral{Value: v, Radix: 10}, nil
}

// ReadFloat consumes a floating-point literal: digits, an optional
// fractional part, and an optional exponent. At least one of the
// fractional part or exponent must be present, or the value must contain
// a '.', to distinguish it from a bare ReadInteger at the call site.
func ReadFloat(b *Buffer) (float64, error) {
	start := b.Mark()
	var sb strings.Builder
	for {
		c, ok := b.Current()
		if !ok || !isDigit(c) {
			break
		}
		sb.WriteByte(b.Advance())
	}
	sawDot := false
	if c, ok := b.Current(); ok && c == '.' {
		if c2, ok2 := b.Peek(1); ok2 && isDigit(c2) {
			sawDot = true
			sb.WriteByte(b.Advance())
			for {
				c, ok := b.Current()
				if !ok || !isDigit(c) {
					break
				}
				sb.WriteByte(b.Advance())
			}
		}
	}
	sawExp := false
	if c, ok := b.Current(); ok && (c == 'e' || c == 'E') {
		mark := b.Mark()
		var exp strings.Builder
		exp.WriteByte(b.Advance())
		if c, ok := b.Current(); ok && (c == '+' || c == '-') {
			exp.WriteByte(b.Advance())
		}
		digits := 0
		for {
			c, ok := b.Current()
			if !ok || !isDigit(c) {
				break
			}
			exp.WriteByte(b.Advance())
			digits++
		}
		if digits == 0 {
			b.Reset(mark)
		} else {
			sawExp = true
			sb.WriteString(exp.String())
		}
	}
	if !sawDot && !sawExp {
		b.Reset(start)
		return 0, posErr(b, reporter.KindInvalidNumber, start, "expected float literal")
	}
	v, err := strconv.ParseFloat(sb.String(), 64)
	if err != nil {
		b.Reset(start)
		return 0, posErr(b, reporter.KindInvalidNumber, start, "malformed float literal: %v", err)
	}
	return v, nil
}

// ReadBool consumes the keyword "true" or "false".
func ReadBool(b *Buffer) (bool, error) {
	start := b.Mark()
	id, err := ReadIdentifier(b)
	if err != nil {
		return false, err
	}
	switch id {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		b.Reset(start)
		return false, posErr(b, reporter.KindUnexpected, start, "expected 'true' or 'false', found %q", id)
	}
}

var escapeChars = map[byte]byte{
	'n': '\n', 'r': '\r', 't': '\t', '\\': '\\', '"': '"', '\'': '\'',
}

// ReadString consumes one or more adjacent single- or double-quoted string
// literals (which concatenate per spec.md §4.1), with escapes
// \n \r \t \\ \" \' \xNN \ooo.
func ReadString(b *Buffer) (string, error) {
	start := b.Mark()
	var out strings.Builder
	read := false
	for {
		b.SkipWhitespaceAndComments()
		mark := b.Mark()
		c, ok := b.Current()
		if !ok || (c != '"' && c != '\'') {
			b.Reset(mark)
			break
		}
		quote := c
		b.Advance()
		for {
			c, ok := b.Current()
			if !ok {
				b.Reset(start)
				return "", posErr(b, reporter.KindInvalidString, start, "unterminated string literal")
			}
			if c == quote {
				b.Advance()
				break
			}
			if c == '\n' {
				b.Reset(start)
				return "", posErr(b, reporter.KindInvalidString, start, "string literal cannot span lines")
			}
			if c != '\\' {
				out.WriteByte(b.Advance())
				continue
			}
			escStart := b.Mark()
			b.Advance() // consume backslash
			ec, ok := b.Current()
			if !ok {
				b.Reset(start)
				return "", posErr(b, reporter.KindInvalidString, start, "unterminated escape sequence")
			}
			switch {
			case escapeChars[ec] != 0:
				b.Advance()
				out.WriteByte(escapeChars[ec])
			case ec == 'x' || ec == 'X':
				b.Advance()
				hexStart := b.Mark()
				var hex strings.Builder
				for i := 0; i < 2; i++ {
					c, ok := b.Current()
					if !ok || !isHexDigit(c) {
						break
					}
					hex.WriteByte(b.Advance())
				}
				if hex.Len() == 0 {
					b.Reset(start)
					return "", posErr(b, reporter.KindInvalidString, hexStart, "malformed \\x escape")
				}
				v, _ := strconv.ParseUint(hex.String(), 16, 8)
				out.WriteByte(byte(v))
			case isOctalDigit(ec):
				var oct strings.Builder
				for i := 0; i < 3; i++ {
					c, ok := b.Current()
					if !ok || !isOctalDigit(c) {
						break
					}
					oct.WriteByte(b.Advance())
				}
				v, err := strconv.ParseUint(oct.String(), 8, 8)
				if err != nil {
					b.Reset(start)
					return "", posErr(b, reporter.KindInvalidString, escStart, "malformed octal escape")
				}
				out.WriteByte(byte(v))
			default:
				b.Reset(start)
				return "", posErr(b, reporter.KindInvalidString, escStart, "unknown escape sequence \\%c", ec)
			}
		}
		read = true
	}
	if !read {
		b.Reset(start)
		return "", posErr(b, reporter.KindUnexpected, start, "expected string literal")
	}
	return out.String(), nil
}

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }

// ReadPunct consumes the single punctuation byte p (one of
// "{}()[]<>;,=:"), failing if the current byte doesn't match.
func ReadPunct(b *Buffer, p byte) error {
	start := b.Mark()
	c, ok := b.Current()
	if !ok || c != p {
		return posErr(b, reporter.KindUnexpected, start, "expected %q", string(p))
	}
	b.Advance()
	return nil
}

// PeekPunct reports whether the current byte is p, without consuming.
func PeekPunct(b *Buffer, p byte) bool {
	c, ok := b.Current()
	return ok && c == p
}
