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

func (p *parser) parseEnum(file *ast.ProtoFile, parent *ast.Message) (*ast.Enum, error) {
	start := p.buf.Mark()
	name, err := p.ident()
	if err != nil {
		return nil, p.errf(reporter.KindUnexpected, start, "expected enum name: %v", err)
	}
	en := &ast.Enum{
		Name:      ast.ScopedName{Parts: []string{name}}.ToScope(enclosingScope(file, parent)),
		File:      file,
		ParentMsg: parent,
		Pos:       p.pos(start),
	}
	if err := p.punct('{'); err != nil {
		return nil, err
	}
	for {
		if p.peekPunct('}') {
			_ = p.punct('}')
			p.optSemicolon()
			return en, nil
		}
		if p.buf.AtEOF() {
			return nil, p.errf(reporter.KindEndOfBuffer, p.buf.Offset(), "unexpected end of file in enum %q", name)
		}
		if p.peekPunct(';') {
			_ = p.punct(';')
			continue
		}
		elStart := p.buf.Mark()
		mark := p.buf.Mark()
		id, err := p.ident()
		if err == nil && id == "option" {
			opt, err := p.parseOptionStmt()
			if err != nil {
				return nil, err
			}
			en.Options = append(en.Options, opt)
			if isAllowAlias(opt) {
				en.AllowAlias = true
			}
			continue
		}
		if err == nil && id == "reserved" {
			r, err := p.parseReserved()
			if err != nil {
				return nil, err
			}
			en.Reserved = append(en.Reserved, r)
			continue
		}
		p.buf.Reset(mark)
		f, err := p.parseEnumField(elStart)
		if err != nil {
			return nil, err
		}
		en.Fields = append(en.Fields, f)
	}
}

func isAllowAlias(opt *ast.Option) bool {
	return opt.Name.String() == "allow_alias" && opt.Value.Kind == ast.OptionValueBool && opt.Value.Bool
}

func (p *parser) parseEnumField(start int) (*ast.EnumField, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.punct('='); err != nil {
		return nil, err
	}
	p.skip()
	neg := false
	if c, ok := p.buf.Current(); ok && c == '-' {
		neg = true
		p.buf.Advance()
		p.skip()
	}
	num, err := lexer.ReadInteger(p.buf)
	if err != nil {
		return nil, err
	}
	idx := int32(num.Value)
	if neg {
		idx = -idx
	}
	opts, err := p.parseBracketedOptionList()
	if err != nil {
		return nil, err
	}
	p.optSemicolon()
	return &ast.EnumField{Name: name, Index: idx, Options: opts, Pos: p.pos(start)}, nil
}
