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

// Package lexer implements the lexical buffer and token readers that sit
// underneath the recursive-descent parser (spec.md §4.1): a cursor over
// source bytes exposing lookahead, whitespace/comment skipping, and
// line/column computation for error reports. Every reader in this package
// is transactional: on failure it restores the buffer to its pre-call
// offset so the caller can try an alternative production.
package lexer

import (
	"sort"
	"strings"
)

// Buffer is a cursor over a single .proto file's source bytes.
type Buffer struct {
	Path string
	data []byte
	pos  int

	// lineStarts[i] is the byte offset of the first byte of line i+1
	// (lines are 1-based in SourcePos). Computed lazily from newlines
	// seen so far by Advance/Skip, so it always covers at least [0, pos].
	lineStarts []int
}

// NewBuffer wraps src for lexing. path is recorded for error positions.
func NewBuffer(path string, src []byte) *Buffer {
	return &Buffer{Path: path, data: src, lineStarts: []int{0}}
}

// Len returns the number of bytes remaining after the cursor.
func (b *Buffer) Len() int { return len(b.data) - b.pos }

// AtEOF reports whether the cursor has reached the end of the buffer.
func (b *Buffer) AtEOF() bool { return b.pos >= len(b.data) }

// Offset returns the current byte offset.
func (b *Buffer) Offset() int { return b.pos }

// Mark returns an opaque cursor position that can later be passed to
// Reset to rewind the buffer, used by transactional token readers.
func (b *Buffer) Mark() int { return b.pos }

// Reset rewinds the cursor to a position previously returned by Mark.
func (b *Buffer) Reset(mark int) { b.pos = mark }

// Peek returns the byte at offset+k without advancing, and false if that
// offset is past the end of the buffer.
func (b *Buffer) Peek(k int) (byte, bool) {
	i := b.pos + k
	if i < 0 || i >= len(b.data) {
		return 0, false
	}
	return b.data[i], true
}

// Current returns the byte at the cursor, and false at EOF.
func (b *Buffer) Current() (byte, bool) { return b.Peek(0) }

// Advance consumes one byte and returns it, recording a line start if it
// was a newline. Calling Advance at EOF is a programmer error; callers
// must check AtEOF first.
func (b *Buffer) Advance() byte {
	c := b.data[b.pos]
	b.pos++
	if c == '\n' {
		b.lineStarts = append(b.lineStarts, b.pos)
	}
	return c
}

// AdvanceN consumes n bytes.
func (b *Buffer) AdvanceN(n int) {
	for i := 0; i < n && !b.AtEOF(); i++ {
		b.Advance()
	}
}

// HasPrefix reports whether the unread remainder of the buffer begins
// with s, without consuming anything.
func (b *Buffer) HasPrefix(s string) bool {
	return strings.HasPrefix(string(b.data[b.pos:]), s)
}

// SkipWhitespaceAndComments advances past runs of horizontal/vertical
// whitespace, "//" line comments, and "/* ... */" block comments
// (non-nestable, per spec.md §4.1). It stops at the first byte that is
// none of these.
func (b *Buffer) SkipWhitespaceAndComments() {
	for {
		c, ok := b.Current()
		if !ok {
			return
		}
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f':
			b.Advance()
		case c == '/' && b.HasPrefix("//"):
			for !b.AtEOF() {
				if c, _ := b.Current(); c == '\n' {
					break
				}
				b.Advance()
			}
		case c == '/' && b.HasPrefix("/*"):
			b.AdvanceN(2)
			for {
				if b.AtEOF() {
					return
				}
				if b.HasPrefix("*/") {
					b.AdvanceN(2)
					break
				}
				b.Advance()
			}
		default:
			return
		}
	}
}

// Position computes the (line, column) of a byte offset within this
// buffer's source, along with the full text of that line, for rendering
// error carets.
func (b *Buffer) Position(offset int) Position {
	// lineStarts only covers newlines actually scanned so far; if offset
	// lies beyond that (a lookahead error reported before the buffer
	// caught up), scan the remainder once to extend it.
	for offset >= b.lineStarts[len(b.lineStarts)-1] {
		extendEnd := len(b.data)
		found := false
		for i := b.lineStarts[len(b.lineStarts)-1]; i < extendEnd; i++ {
			if b.data[i] == '\n' {
				b.lineStarts = append(b.lineStarts, i+1)
				found = true
				if i+1 > offset {
					break
				}
			}
		}
		if !found {
			break
		}
	}
	line := sort.Search(len(b.lineStarts), func(i int) bool { return b.lineStarts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	lineStart := b.lineStarts[line]
	lineEnd := len(b.data)
	for i := lineStart; i < len(b.data); i++ {
		if b.data[i] == '\n' {
			lineEnd = i
			break
		}
	}
	col := offset - lineStart + 1
	return Position{
		Offset:   offset,
		Line:     line + 1,
		Column:   col,
		LineText: string(b.data[lineStart:lineEnd]),
	}
}

// Position is the line/column computed from a byte offset, plus the full
// text of the containing line (used to render a caret in error messages).
type Position struct {
	Offset   int
	Line     int
	Column   int
	LineText string
}
