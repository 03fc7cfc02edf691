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

var scalarKeywords = map[string]ast.ScalarKind{
	"int32":    ast.ScalarInt32,
	"int64":    ast.ScalarInt64,
	"uint32":   ast.ScalarUint32,
	"uint64":   ast.ScalarUint64,
	"sint32":   ast.ScalarSint32,
	"sint64":   ast.ScalarSint64,
	"fixed32":  ast.ScalarFixed32,
	"fixed64":  ast.ScalarFixed64,
	"sfixed32": ast.ScalarSfixed32,
	"sfixed64": ast.ScalarSfixed64,
	"float":    ast.ScalarFloat,
	"double":   ast.ScalarDouble,
	"bool":     ast.ScalarBool,
	"string":   ast.ScalarString,
	"bytes":    ast.ScalarBytes,
}

// parseMessage parses "message Name { ... }". parent is the enclosing
// *ast.Message, or nil for a top-level message.
func (p *parser) parseMessage(file *ast.ProtoFile, parent *ast.Message) (*ast.Message, error) {
	start := p.buf.Mark()
	name, err := p.ident()
	if err != nil {
		return nil, p.errf(reporter.KindUnexpected, start, "expected message name: %v", err)
	}
	msg := &ast.Message{
		Name:   ast.ScopedName{Parts: []string{name}}.ToScope(enclosingScope(file, parent)),
		File:   file,
		Parent: parent,
		Pos:    p.pos(start),
	}
	if err := p.punct('{'); err != nil {
		return nil, err
	}
	for {
		if p.peekPunct('}') {
			_ = p.punct('}')
			p.optSemicolon()
			return msg, nil
		}
		if p.buf.AtEOF() {
			return nil, p.errf(reporter.KindEndOfBuffer, p.buf.Offset(), "unexpected end of file in message %q", name)
		}
		if p.peekPunct(';') {
			_ = p.punct(';')
			continue
		}
		if err := p.parseMessageElement(file, msg); err != nil {
			if ferr := p.fatal(err); ferr != nil {
				return msg, ferr
			}
		}
	}
}

// enclosingScope composes the scope a new top-level or nested declaration
// is defined in: the enclosing message's fully-qualified name if nested,
// else the file's package.
func enclosingScope(file *ast.ProtoFile, parent *ast.Message) ast.ScopedName {
	if parent != nil {
		return parent.Name
	}
	if file.HasPackage {
		return file.Package
	}
	return ast.ScopedName{}
}

func (p *parser) parseMessageElement(file *ast.ProtoFile, msg *ast.Message) error {
	start := p.buf.Mark()
	// A leading label (optional/required/repeated) or a map<...> or a
	// bare type name all start a field; everything else starts with a
	// keyword identifying the declaration kind.
	if p.peekPunct('<') {
		return p.errf(reporter.KindUnexpected, start, "unexpected '<'")
	}
	mark := p.buf.Mark()
	id, err := p.ident()
	if err != nil {
		return p.errf(reporter.KindUnexpected, start, "expected message element")
	}
	switch id {
	case "message":
		nested, err := p.parseMessage(file, msg)
		if err != nil {
			return err
		}
		msg.Messages = append(msg.Messages, nested)
		return nil
	case "enum":
		nested, err := p.parseEnum(file, msg)
		if err != nil {
			return err
		}
		msg.Enums = append(msg.Enums, nested)
		return nil
	case "extend":
		ext, err := p.parseExtend(file, msg)
		if err != nil {
			return err
		}
		msg.Extends = append(msg.Extends, ext)
		return nil
	case "oneof":
		oo, err := p.parseOneof(msg.Name)
		if err != nil {
			return err
		}
		msg.OneOfs = append(msg.OneOfs, oo)
		return nil
	case "reserved":
		r, err := p.parseReserved()
		if err != nil {
			return err
		}
		msg.Reserved = append(msg.Reserved, r)
		return nil
	case "option":
		opt, err := p.parseOptionStmt()
		if err != nil {
			return err
		}
		msg.Options = append(msg.Options, opt)
		return nil
	case "extensions":
		return p.skipExtensionsStmt()
	case "map":
		mf, err := p.parseMapField(msg.Name)
		if err != nil {
			return err
		}
		msg.Maps = append(msg.Maps, mf)
		return nil
	case "optional", "required", "repeated":
		nf, err := p.parseNormalField(file.Syntax, id, msg.Name)
		if err != nil {
			return err
		}
		msg.Fields = append(msg.Fields, nf)
		return nil
	case "group":
		// Group syntax is accepted at parse level only (spec.md §1
		// Non-goals); its body is skipped and no field is recorded.
		return p.skipGroup()
	default:
		// Bare type name: proto3 implicit singular field. In a proto2
		// file parseNormalField rejects it, since proto2 requires a
		// label on every field.
		p.buf.Reset(mark)
		nf, err := p.parseNormalField(file.Syntax, "", msg.Name)
		if err != nil {
			return err
		}
		msg.Fields = append(msg.Fields, nf)
		return nil
	}
}

func (p *parser) skipExtensionsStmt() error {
	for {
		p.skip()
		if p.peekPunct(';') {
			_ = p.punct(';')
			return nil
		}
		if p.buf.AtEOF() {
			return p.errf(reporter.KindEndOfBuffer, p.buf.Offset(), "unexpected end of file in extensions range")
		}
		p.buf.Advance()
	}
}

func (p *parser) skipGroup() error {
	depth := 0
	seenBrace := false
	for {
		if p.buf.AtEOF() {
			return p.errf(reporter.KindEndOfBuffer, p.buf.Offset(), "unexpected end of file in group")
		}
		p.skip()
		if p.peekPunct('{') {
			_ = p.punct('{')
			depth++
			seenBrace = true
			continue
		}
		if p.peekPunct('}') {
			_ = p.punct('}')
			depth--
			if seenBrace && depth == 0 {
				p.optSemicolon()
				return nil
			}
			continue
		}
		p.buf.Advance()
	}
}

// parseFieldType parses a field's declared type: a scalar keyword or a
// (possibly dotted, possibly absolute) type reference.
func (p *parser) parseFieldType(scope ast.ScopedName) (ast.FieldType, error) {
	p.skip()
	mark := p.buf.Mark()
	id, err := lexer.ReadIdentifier(p.buf)
	if err == nil {
		if sk, ok := scalarKeywords[id]; ok {
			// Make sure this isn't actually the start of a dotted name
			// that happens to share a prefix with a scalar keyword
			// (impossible for our fixed keyword set, since none contain
			// '.', but guard anyway for a following '.').
			if !lexer.PeekPunct(p.buf, '.') {
				return ast.FieldType{Scalar: sk}, nil
			}
		}
	}
	p.buf.Reset(mark)
	name, err := lexer.ReadScopedIdentifier(p.buf)
	if err != nil {
		return ast.FieldType{}, p.errf(reporter.KindUnexpected, mark, "expected field type: %v", err)
	}
	return ast.FieldType{Name: name, Scope: scope}, nil
}

func (p *parser) parseNormalField(syntax ast.Syntax, label string, scope ast.ScopedName) (*ast.NormalField, error) {
	start := p.buf.Mark()
	lbl := ast.LabelSingular
	switch label {
	case "optional":
		lbl = ast.LabelOptional
	case "required":
		lbl = ast.LabelRequired
	case "repeated":
		lbl = ast.LabelRepeated
	case "":
		if syntax == ast.SyntaxProto2 {
			return nil, p.errf(reporter.KindInvalidSyntax, start, "proto2 fields require an explicit label (optional/required/repeated)")
		}
	}
	if syntax == ast.SyntaxProto3 && lbl == ast.LabelRequired {
		return nil, p.errf(reporter.KindInvalidSyntax, start, "proto3 does not allow 'required' fields")
	}
	typ, err := p.parseFieldType(scope)
	if err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.punct('='); err != nil {
		return nil, err
	}
	p.skip()
	num, err := lexer.ReadInteger(p.buf)
	if err != nil {
		return nil, err
	}
	opts, err := p.parseBracketedOptions(syntax)
	if err != nil {
		return nil, err
	}
	p.optSemicolon()
	return &ast.NormalField{
		Name:    name,
		Number:  int32(num.Value),
		Type:    typ,
		Label:   lbl,
		Options: opts,
		Pos:     p.pos(start),
	}, nil
}

func (p *parser) parseMapField(scope ast.ScopedName) (*ast.MapField, error) {
	start := p.buf.Mark()
	if err := p.punct('<'); err != nil {
		return nil, err
	}
	keyType, err := p.parseFieldType(scope)
	if err != nil {
		return nil, err
	}
	if err := p.punct(','); err != nil {
		return nil, err
	}
	valType, err := p.parseFieldType(scope)
	if err != nil {
		return nil, err
	}
	if err := p.punct('>'); err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.punct('='); err != nil {
		return nil, err
	}
	p.skip()
	num, err := lexer.ReadInteger(p.buf)
	if err != nil {
		return nil, err
	}
	opts, err := p.parseBracketedOptions(ast.SyntaxProto3)
	if err != nil {
		return nil, err
	}
	p.optSemicolon()
	return &ast.MapField{
		Name:      name,
		Number:    int32(num.Value),
		KeyType:   keyType,
		ValueType: valType,
		Options:   opts,
		Pos:       p.pos(start),
	}, nil
}

func (p *parser) parseOneof(scope ast.ScopedName) (*ast.OneOf, error) {
	start := p.buf.Mark()
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	oo := &ast.OneOf{Name: name, Pos: p.pos(start)}
	if err := p.punct('{'); err != nil {
		return nil, err
	}
	for {
		if p.peekPunct('}') {
			_ = p.punct('}')
			p.optSemicolon()
			return oo, nil
		}
		if p.buf.AtEOF() {
			return nil, p.errf(reporter.KindEndOfBuffer, p.buf.Offset(), "unexpected end of file in oneof %q", name)
		}
		if p.peekPunct(';') {
			_ = p.punct(';')
			continue
		}
		f, err := p.parseOneofField(scope)
		if err != nil {
			return nil, err
		}
		oo.Fields = append(oo.Fields, f)
	}
}

func (p *parser) parseOneofField(scope ast.ScopedName) (*ast.OneOfField, error) {
	start := p.buf.Mark()
	typ, err := p.parseFieldType(scope)
	if err != nil {
		return nil, err
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.punct('='); err != nil {
		return nil, err
	}
	p.skip()
	num, err := lexer.ReadInteger(p.buf)
	if err != nil {
		return nil, err
	}
	opts, err := p.parseBracketedOptions(ast.SyntaxProto3)
	if err != nil {
		return nil, err
	}
	p.optSemicolon()
	return &ast.OneOfField{Name: name, Number: int32(num.Value), Type: typ, Options: opts, Pos: p.pos(start)}, nil
}

func (p *parser) parseExtend(file *ast.ProtoFile, parent *ast.Message) (*ast.Extend, error) {
	start := p.buf.Mark()
	base, err := p.scopedIdent()
	if err != nil {
		return nil, err
	}
	ext := &ast.Extend{
		Base:      base,
		Pos:       p.pos(start),
		Scope:     enclosingScope(file, parent),
		File:      file,
		ParentMsg: parent,
	}
	if err := p.punct('{'); err != nil {
		return nil, err
	}
	for {
		if p.peekPunct('}') {
			_ = p.punct('}')
			p.optSemicolon()
			return ext, nil
		}
		if p.buf.AtEOF() {
			return nil, p.errf(reporter.KindEndOfBuffer, p.buf.Offset(), "unexpected end of file in extend %s", base)
		}
		if p.peekPunct(';') {
			_ = p.punct(';')
			continue
		}
		mark := p.buf.Mark()
		label := ""
		if p.keyword("optional") {
			label = "optional"
		} else if p.keyword("required") {
			label = "required"
		} else if p.keyword("repeated") {
			label = "repeated"
		} else {
			p.buf.Reset(mark)
		}
		nf, err := p.parseNormalField(ast.SyntaxProto2, label, ext.Scope)
		if err != nil {
			return nil, err
		}
		ext.Fields = append(ext.Fields, nf)
	}
}

func (p *parser) parseReserved() (*ast.Reserved, error) {
	start := p.buf.Mark()
	p.skip()
	if c, ok := p.buf.Current(); ok && (c == '"' || c == '\'') {
		r := &ast.Reserved{Kind: ast.ReservedNames, Pos: p.pos(start)}
		for {
			name, err := lexer.ReadString(p.buf)
			if err != nil {
				return nil, err
			}
			r.Names = append(r.Names, name)
			if !p.peekPunct(',') {
				break
			}
			_ = p.punct(',')
		}
		p.optSemicolon()
		return r, nil
	}
	r := &ast.Reserved{Kind: ast.ReservedNumbers, Pos: p.pos(start)}
	for {
		p.skip()
		lo, err := lexer.ReadInteger(p.buf)
		if err != nil {
			return nil, err
		}
		hi := int64(lo.Value)
		if p.keyword("to") {
			if p.keyword("max") {
				hi = ast.MaxFieldNumber
			} else {
				p.skip()
				hiLit, err := lexer.ReadInteger(p.buf)
				if err != nil {
					return nil, err
				}
				hi = int64(hiLit.Value)
			}
		}
		r.Ranges = append(r.Ranges, ast.ReservedRange{Start: int32(lo.Value), End: int32(hi)})
		if !p.peekPunct(',') {
			break
		}
		_ = p.punct(',')
	}
	p.optSemicolon()
	return r, nil
}
