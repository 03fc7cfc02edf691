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

// Package reporter defines the error types shared by the lexer, parser,
// resolver, and generator, and a Handler that accumulates non-fatal errors
// across a multi-file run.
package reporter

import (
	"errors"
	"fmt"

	"github.com/outwire/protocore/ast"
)

// ErrInvalidSource is a sentinel error returned by a compilation step when
// one or more errors were reported but the configured ErrorReporter
// swallowed them (returned nil) rather than aborting immediately.
var ErrInvalidSource = errors.New("invalid proto source")

// Kind classifies an error by the stage that produced it, per spec.md §7.
type Kind int

const (
	// Lexical
	KindEndOfBuffer Kind = iota
	KindUnknownToken
	KindInvalidNumber
	KindInvalidString

	// Syntactic
	KindUnexpected
	KindInvalidSyntax
	KindDuplicateIdentifier
	KindDuplicateFieldNumber
	KindReservedName

	// Resolution
	KindTargetFileNotFound
	KindTypeNotFound
	KindExtendSourceNotFound

	// Filesystem
	KindCannotFindRoot
	KindNoCommonRoot

	// Resource
	KindOutOfMemory
)

func (k Kind) String() string {
	switch k {
	case KindEndOfBuffer:
		return "EndOfBuffer"
	case KindUnknownToken:
		return "UnknownToken"
	case KindInvalidNumber:
		return "InvalidNumber"
	case KindInvalidString:
		return "InvalidString"
	case KindUnexpected:
		return "Unexpected"
	case KindInvalidSyntax:
		return "InvalidSyntax"
	case KindDuplicateIdentifier:
		return "DuplicateIdentifier"
	case KindDuplicateFieldNumber:
		return "DuplicateFieldNumber"
	case KindReservedName:
		return "ReservedName"
	case KindTargetFileNotFound:
		return "TargetFileNotFound"
	case KindTypeNotFound:
		return "TypeNotFound"
	case KindExtendSourceNotFound:
		return "ExtendSourceNotFound"
	case KindCannotFindRoot:
		return "CannotFindRoot"
	case KindNoCommonRoot:
		return "NoCommonRoot"
	case KindOutOfMemory:
		return "OutOfMemory"
	default:
		return "Unknown"
	}
}

// ErrorWithPos is an error about a proto source file that adds the source
// position that caused it and a stage classification.
type ErrorWithPos interface {
	error
	Kind() Kind
	Position() ast.SourcePos
	Unwrap() error
}

// Error creates a new ErrorWithPos from a Kind, a source position, and an
// underlying error.
func Error(kind Kind, pos ast.SourcePos, err error) ErrorWithPos {
	return errorWithPos{kind: kind, pos: pos, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is built with
// fmt.Errorf.
func Errorf(kind Kind, pos ast.SourcePos, format string, args ...any) ErrorWithPos {
	return errorWithPos{kind: kind, pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithPos struct {
	kind       Kind
	pos        ast.SourcePos
	underlying error
}

func (e errorWithPos) Error() string {
	caret := caretLine(e.pos)
	if caret == "" {
		return fmt.Sprintf("%s: %s: %v", e.pos, e.kind, e.underlying)
	}
	return fmt.Sprintf("%s: %s: %v\n%s", e.pos, e.kind, e.underlying, caret)
}

func (e errorWithPos) Kind() Kind             { return e.kind }
func (e errorWithPos) Position() ast.SourcePos { return e.pos }
func (e errorWithPos) Unwrap() error           { return e.underlying }

var _ ErrorWithPos = errorWithPos{}

func caretLine(pos ast.SourcePos) string {
	if pos.LineText == "" {
		return ""
	}
	col := pos.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(pos.LineText) {
		col = len(pos.LineText)
	}
	return pos.LineText + "\n" + pad(col) + "^"
}

func pad(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// MultiError aggregates every error collected across a batch run (e.g. one
// per malformed file, per spec.md §7's "remaining files continue to
// parse" propagation policy). It implements error and errors.Unwrap as a
// slice so errors.Is/As walk every member.
type MultiError []error

func (m MultiError) Error() string {
	if len(m) == 1 {
		return m[0].Error()
	}
	s := fmt.Sprintf("%d errors:", len(m))
	for _, e := range m {
		s += "\n  " + e.Error()
	}
	return s
}

func (m MultiError) Unwrap() []error { return m }
