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

// Package parser implements the hand-written recursive-descent parser
// described in spec.md §4.2: one function per AST entity, composed by
// recursion for nested messages/enums, each returning either the parsed
// entity or a typed error (reporter.ErrorWithPos).
package parser

import (
	"github.com/outwire/protocore/ast"
	"github.com/outwire/protocore/lexer"
	"github.com/outwire/protocore/reporter"
)

// parser holds the shared state threaded through every entity parser
// function: the lexical buffer and the error handler that decides whether
// a given defect aborts the file.
type parser struct {
	buf     *lexer.Buffer
	handler *reporter.Handler
}

// Parse parses a single .proto file's source into an ast.ProtoFile. On a
// fatal defect (the configured handler's ErrorReporter returned non-nil,
// or no reporter was configured), it returns the file parsed so far
// (possibly incomplete) along with the error; per spec.md §7, the caller
// is expected to move on to the next file rather than treat this as fatal
// to the whole run.
func Parse(path string, src []byte, handler *reporter.Handler) (*ast.ProtoFile, error) {
	p := &parser{buf: lexer.NewBuffer(path, src), handler: handler}
	file := &ast.ProtoFile{Path: path, Syntax: ast.SyntaxProto2}
	if err := p.parseFile(file); err != nil {
		return file, err
	}
	return file, nil
}

func (p *parser) skip() { p.buf.SkipWhitespaceAndComments() }

func (p *parser) pos(offset int) ast.SourcePos {
	pp := p.buf.Position(offset)
	return ast.SourcePos{Path: p.buf.Path, Offset: pp.Offset, Line: pp.Line, Column: pp.Column, LineText: pp.LineText}
}

func (p *parser) errf(kind reporter.Kind, offset int, format string, args ...any) error {
	return reporter.Errorf(kind, p.pos(offset), format, args...)
}

func (p *parser) fatal(err error) error {
	if ewp, ok := err.(reporter.ErrorWithPos); ok {
		return p.handler.HandleError(ewp)
	}
	return p.handler.HandleError(reporter.Error(reporter.KindUnexpected, p.pos(p.buf.Offset()), err))
}

func (p *parser) ident() (string, error) {
	p.skip()
	return lexer.ReadIdentifier(p.buf)
}

func (p *parser) scopedIdent() (ast.ScopedName, error) {
	p.skip()
	return lexer.ReadScopedIdentifier(p.buf)
}

func (p *parser) punct(c byte) error {
	p.skip()
	return lexer.ReadPunct(p.buf, c)
}

func (p *parser) peekPunct(c byte) bool {
	p.skip()
	return lexer.PeekPunct(p.buf, c)
}

// keyword consumes the identifier kw verbatim, failing (without consuming)
// if the next identifier is something else.
func (p *parser) keyword(kw string) bool {
	p.skip()
	mark := p.buf.Mark()
	id, err := lexer.ReadIdentifier(p.buf)
	if err != nil || id != kw {
		p.buf.Reset(mark)
		return false
	}
	return true
}

// optSemicolon consumes a single trailing ';' if present; most
// declarations in this grammar allow (but don't require) one, matching
// protoc's tolerant grammar.
func (p *parser) optSemicolon() {
	if p.peekPunct(';') {
		_ = p.punct(';')
	}
}

func (p *parser) parseFile(file *ast.ProtoFile) error {
	p.skip()
	if p.keyword("syntax") {
		if err := p.parseSyntax(file); err != nil {
			return p.fatal(err)
		}
	}
	for {
		p.skip()
		if p.buf.AtEOF() {
			return nil
		}
		if p.peekPunct(';') {
			_ = p.punct(';')
			continue
		}
		start := p.buf.Mark()
		id, err := p.ident()
		if err != nil {
			return p.fatal(p.errf(reporter.KindUnexpected, start, "expected top-level declaration"))
		}
		switch id {
		case "package":
			if err := p.parsePackageStmt(file); err != nil {
				if err := p.fatal(err); err != nil {
					return err
				}
			}
		case "import":
			if err := p.parseImportStmt(file); err != nil {
				if err := p.fatal(err); err != nil {
					return err
				}
			}
		case "option":
			opt, err := p.parseOptionStmt()
			if err != nil {
				if err := p.fatal(err); err != nil {
					return err
				}
				continue
			}
			file.Options = append(file.Options, opt)
		case "message":
			msg, err := p.parseMessage(file, nil)
			if err != nil {
				if err := p.fatal(err); err != nil {
					return err
				}
				continue
			}
			file.Messages = append(file.Messages, msg)
		case "enum":
			en, err := p.parseEnum(file, nil)
			if err != nil {
				if err := p.fatal(err); err != nil {
					return err
				}
				continue
			}
			file.Enums = append(file.Enums, en)
		case "service":
			svc, err := p.parseService(file)
			if err != nil {
				if err := p.fatal(err); err != nil {
					return err
				}
				continue
			}
			file.Services = append(file.Services, svc)
		case "extend":
			ext, err := p.parseExtend(file, nil)
			if err != nil {
				if err := p.fatal(err); err != nil {
					return err
				}
				continue
			}
			file.Extends = append(file.Extends, ext)
		default:
			return p.fatal(p.errf(reporter.KindUnexpected, start, "unexpected top-level token %q", id))
		}
	}
}

func (p *parser) parseSyntax(file *ast.ProtoFile) error {
	start := p.buf.Mark()
	if err := p.punct('='); err != nil {
		return err
	}
	p.skip()
	val, err := lexer.ReadString(p.buf)
	if err != nil {
		return err
	}
	switch val {
	case "proto2":
		file.Syntax = ast.SyntaxProto2
	case "proto3":
		file.Syntax = ast.SyntaxProto3
	default:
		return p.errf(reporter.KindInvalidSyntax, start, "unrecognized syntax %q", val)
	}
	file.HasSyntax = true
	p.optSemicolon()
	return nil
}

func (p *parser) parsePackageStmt(file *ast.ProtoFile) error {
	name, err := p.scopedIdent()
	if err != nil {
		return err
	}
	file.Package = name
	file.HasPackage = true
	p.optSemicolon()
	return nil
}

func (p *parser) parseImportStmt(file *ast.ProtoFile) error {
	start := p.buf.Mark()
	typ := ast.ImportNormal
	if p.keyword("public") {
		typ = ast.ImportPublic
	} else if p.keyword("weak") {
		typ = ast.ImportWeak
	}
	p.skip()
	path, err := lexer.ReadString(p.buf)
	if err != nil {
		return err
	}
	file.Imports = append(file.Imports, &ast.Import{Path: path, Type: typ, Pos: p.pos(start)})
	p.optSemicolon()
	return nil
}
