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
	"github.com/outwire/protocore/reporter"
)

// parseService parses "service Name { rpc ... }". Services are recorded
// in the AST for completeness but never code-generated (spec.md §1).
func (p *parser) parseService(file *ast.ProtoFile) (*ast.Service, error) {
	start := p.buf.Mark()
	name, err := p.ident()
	if err != nil {
		return nil, p.errf(reporter.KindUnexpected, start, "expected service name: %v", err)
	}
	svc := &ast.Service{Name: name, Pos: p.pos(start)}
	scope := enclosingScope(file, nil)
	if err := p.punct('{'); err != nil {
		return nil, err
	}
	for {
		if p.peekPunct('}') {
			_ = p.punct('}')
			p.optSemicolon()
			return svc, nil
		}
		if p.buf.AtEOF() {
			return nil, p.errf(reporter.KindEndOfBuffer, p.buf.Offset(), "unexpected end of file in service %q", name)
		}
		if p.peekPunct(';') {
			_ = p.punct(';')
			continue
		}
		mark := p.buf.Mark()
		id, err := p.ident()
		if err != nil {
			return nil, p.errf(reporter.KindUnexpected, mark, "expected service element")
		}
		switch id {
		case "option":
			opt, err := p.parseOptionStmt()
			if err != nil {
				return nil, err
			}
			svc.Options = append(svc.Options, opt)
		case "rpc":
			m, err := p.parseMethod(scope)
			if err != nil {
				return nil, err
			}
			svc.Methods = append(svc.Methods, m)
		default:
			return nil, p.errf(reporter.KindUnexpected, mark, "unexpected service element %q", id)
		}
	}
}

func (p *parser) parseMethod(scope ast.ScopedName) (*ast.Method, error) {
	start := p.buf.Mark()
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	m := &ast.Method{Name: name, Pos: p.pos(start)}
	if err := p.punct('('); err != nil {
		return nil, err
	}
	if p.keyword("stream") {
		m.ClientStreaming = true
	}
	in, err := p.parseFieldType(scope)
	if err != nil {
		return nil, err
	}
	m.InputType = in
	if err := p.punct(')'); err != nil {
		return nil, err
	}
	if !p.keyword("returns") {
		return nil, p.errf(reporter.KindUnexpected, p.buf.Offset(), "expected 'returns'")
	}
	if err := p.punct('('); err != nil {
		return nil, err
	}
	if p.keyword("stream") {
		m.ServerStreaming = true
	}
	out, err := p.parseFieldType(scope)
	if err != nil {
		return nil, err
	}
	m.OutputType = out
	if err := p.punct(')'); err != nil {
		return nil, err
	}
	if p.peekPunct('{') {
		_ = p.punct('{')
		for {
			if p.peekPunct('}') {
				_ = p.punct('}')
				break
			}
			if p.buf.AtEOF() {
				return nil, p.errf(reporter.KindEndOfBuffer, p.buf.Offset(), "unexpected end of file in rpc %q", name)
			}
			if p.peekPunct(';') {
				_ = p.punct(';')
				continue
			}
			if !p.keyword("option") {
				return nil, p.errf(reporter.KindUnexpected, p.buf.Offset(), "expected 'option' in rpc body")
			}
			opt, err := p.parseOptionStmt()
			if err != nil {
				return nil, err
			}
			m.Options = append(m.Options, opt)
		}
	}
	p.optSemicolon()
	return m, nil
}
