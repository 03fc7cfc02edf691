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

package parser

import (
	"github.com/outwire/protocore/ast"
	"github.com/outwire/protocore/lexer"
	"github.com/outwire/protocore/reporter"
)

// parseOptionStmt parses a standalone "option name = value;" declaration,
// as found at file, message, enum, oneof, or service scope.
func (p *parser) parseOptionStmt() (*ast.Option, error) {
	start := p.buf.Mark()
	name, err := p.parseOptionName()
	if err != nil {
		return nil, err
	}
	if err := p.punct('='); err != nil {
		return nil, err
	}
	val, err := p.parseOptionValue()
	if err != nil {
		return nil, err
	}
	p.optSemicolon()
	return &ast.Option{Name: name, Value: val, Pos: p.pos(start)}, nil
}

// parseOptionName parses an option's dotted name, accepting the
// "(custom.extension).suffix" form used for extension options: the
// parenthesized part and any trailing dotted suffix are flattened into one
// ScopedName, since this implementation does not resolve custom option
// extensions (spec.md §6: "unknown options are parsed and retained on the
// field but ignored by generation").
func (p *parser) parseOptionName() (ast.ScopedName, error) {
	p.skip()
	if c, ok := p.buf.Current(); ok && c == '(' {
		p.buf.Advance()
		name, err := p.scopedIdent()
		if err != nil {
			return ast.ScopedName{}, err
		}
		if err := p.punct(')'); err != nil {
			return ast.ScopedName{}, err
		}
		for p.peekPunct('.') {
			_ = p.punct('.')
			part, err := p.ident()
			if err != nil {
				return ast.ScopedName{}, err
			}
			name.Parts = append(name.Parts, part)
		}
		return name, nil
	}
	return p.scopedIdent()
}

// parseOptionValue parses any legal option value: bool, ident (including
// enum-value references), number, string, or a "{ ... }" aggregate, or a
// "[ ... ]" list of any of those.
func (p *parser) parseOptionValue() (ast.OptionValue, error) {
	p.skip()
	c, ok := p.buf.Current()
	if !ok {
		return ast.OptionValue{}, p.errf(reporter.KindUnexpected, p.buf.Offset(), "expected option value")
	}
	switch {
	case c == '"' || c == '\'':
		s, err := lexer.ReadString(p.buf)
		if err != nil {
			return ast.OptionValue{}, err
		}
		return ast.OptionValue{Kind: ast.OptionValueString, Str: s}, nil
	case c == '{':
		return p.parseOptionAggregate()
	case c == '[':
		return p.parseOptionValueList()
	case c == '-' || isDigitByte(c):
		return p.parseOptionNumber()
	default:
		mark := p.buf.Mark()
		id, err := lexer.ReadIdentifier(p.buf)
		if err != nil {
			return ast.OptionValue{}, p.errf(reporter.KindUnexpected, mark, "expected option value")
		}
		switch id {
		case "true":
			return ast.OptionValue{Kind: ast.OptionValueBool, Bool: true}, nil
		case "false":
			return ast.OptionValue{Kind: ast.OptionValueBool, Bool: false}, nil
		default:
			p.buf.Reset(mark)
			name, err := p.scopedIdent()
			if err != nil {
				return ast.OptionValue{}, err
			}
			return ast.OptionValue{Kind: ast.OptionValueIdent, Ident: name}, nil
		}
	}
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

func (p *parser) parseOptionNumber() (ast.OptionValue, error) {
	mark := p.buf.Mark()
	neg := false
	if c, ok := p.buf.Current(); ok && c == '-' {
		neg = true
		p.buf.Advance()
	}
	// Try float first (it backs out cleanly to an integer-looking prefix
	// if there's no '.' or exponent).
	floatMark := p.buf.Mark()
	if f, err := lexer.ReadFloat(p.buf); err == nil {
		if neg {
			f = -f
		}
		return ast.OptionValue{Kind: ast.OptionValueFloat, Float: f}, nil
	}
	p.buf.Reset(floatMark)
	n, err := lexer.ReadInteger(p.buf)
	if err != nil {
		p.buf.Reset(mark)
		return ast.OptionValue{}, err
	}
	v := int64(n.Value)
	if neg {
		v = -v
	}
	return ast.OptionValue{Kind: ast.OptionValueInt, Int: v}, nil
}

func (p *parser) parseOptionAggregate() (ast.OptionValue, error) {
	if err := p.punct('{'); err != nil {
		return ast.OptionValue{}, err
	}
	var opts []*ast.Option
	for {
		if p.peekPunct('}') {
			_ = p.punct('}')
			return ast.OptionValue{Kind: ast.OptionValueMessage, Message: opts}, nil
		}
		if p.buf.AtEOF() {
			return ast.OptionValue{}, p.errf(reporter.KindEndOfBuffer, p.buf.Offset(), "unexpected end of file in option aggregate")
		}
		if p.peekPunct(';') || p.peekPunct(',') {
			p.buf.Advance()
			continue
		}
		start := p.buf.Mark()
		name, err := p.parseOptionName()
		if err != nil {
			return ast.OptionValue{}, err
		}
		sep := byte(':')
		if p.peekPunct('=') {
			sep = '='
		}
		if err := p.punct(sep); err != nil {
			return ast.OptionValue{}, err
		}
		val, err := p.parseOptionValue()
		if err != nil {
			return ast.OptionValue{}, err
		}
		opts = append(opts, &ast.Option{Name: name, Value: val, Pos: p.pos(start)})
	}
}

func (p *parser) parseOptionValueList() (ast.OptionValue, error) {
	if err := p.punct('['); err != nil {
		return ast.OptionValue{}, err
	}
	var vals []ast.OptionValue
	for {
		if p.peekPunct(']') {
			_ = p.punct(']')
			return ast.OptionValue{Kind: ast.OptionValueList, List: vals}, nil
		}
		v, err := p.parseOptionValue()
		if err != nil {
			return ast.OptionValue{}, err
		}
		vals = append(vals, v)
		if p.peekPunct(',') {
			_ = p.punct(',')
		}
	}
}

// parseBracketedOptionList parses "[ name = value, ... ]" and returns the
// raw option list, with no special interpretation (used for enum field
// options, which have no generator-recognized members).
func (p *parser) parseBracketedOptionList() ([]*ast.Option, error) {
	if !p.peekPunct('[') {
		return nil, nil
	}
	_ = p.punct('[')
	var opts []*ast.Option
	for {
		start := p.buf.Mark()
		name, err := p.parseOptionName()
		if err != nil {
			return nil, err
		}
		if err := p.punct('='); err != nil {
			return nil, err
		}
		val, err := p.parseOptionValue()
		if err != nil {
			return nil, err
		}
		opts = append(opts, &ast.Option{Name: name, Value: val, Pos: p.pos(start)})
		if p.peekPunct(',') {
			_ = p.punct(',')
			continue
		}
		if err := p.punct(']'); err != nil {
			return nil, err
		}
		return opts, nil
	}
}

// parseBracketedOptions parses a field's "[ ... ]" option list and splits
// out the options the generator recognizes (spec.md §6: default,
// deprecated, packed, json_name) into FieldOptions, keeping everything
// else in Extra. "default=" is rejected outright in proto3 (spec.md
// §4.2).
func (p *parser) parseBracketedOptions(syntax ast.Syntax) (ast.FieldOptions, error) {
	raw, err := p.parseBracketedOptionList()
	if err != nil {
		return ast.FieldOptions{}, err
	}
	var fo ast.FieldOptions
	for _, opt := range raw {
		switch opt.Name.String() {
		case "default":
			if syntax == ast.SyntaxProto3 {
				return ast.FieldOptions{}, reporter.Errorf(reporter.KindInvalidSyntax, opt.Pos, "proto3 does not allow 'default' on fields")
			}
			fo.HasDefault = true
			fo.Default = opt.Value
		case "deprecated":
			fo.Deprecated = opt.Value.Kind == ast.OptionValueBool && opt.Value.Bool
		case "packed":
			fo.HasPacked = true
			fo.Packed = opt.Value.Kind == ast.OptionValueBool && opt.Value.Bool
		case "json_name":
			fo.JSONName = opt.Value.Str
		default:
			fo.Extra = append(fo.Extra, opt)
		}
	}
	return fo, nil
}
