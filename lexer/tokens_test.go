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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIdentifier(t *testing.T) {
	b := NewBuffer("t", []byte("foo_Bar123 rest"))
	id, err := ReadIdentifier(b)
	require.NoError(t, err)
	assert.Equal(t, "foo_Bar123", id)
	assert.Equal(t, byte(' '), mustCurrent(t, b))
}

func TestReadIdentifierRejectsLeadingDigit(t *testing.T) {
	b := NewBuffer("t", []byte("1abc"))
	_, err := ReadIdentifier(b)
	assert.Error(t, err)
	assert.Equal(t, 0, b.Offset(), "a failed read must not consume input")
}

func TestReadScopedIdentifier(t *testing.T) {
	b := NewBuffer("t", []byte("foo.bar.Baz"))
	name, err := ReadScopedIdentifier(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar", "Baz"}, name.Parts)
	assert.False(t, name.Absolute)
}

func TestReadScopedIdentifierAbsolute(t *testing.T) {
	b := NewBuffer("t", []byte(".foo.Bar"))
	name, err := ReadScopedIdentifier(b)
	require.NoError(t, err)
	assert.True(t, name.Absolute)
	assert.Equal(t, []string{"foo", "Bar"}, name.Parts)
}

func TestReadIntegerDecimal(t *testing.T) {
	b := NewBuffer("t", []byte("12345"))
	lit, err := ReadInteger(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), lit.Value)
	assert.Equal(t, 10, lit.Radix)
}

func TestReadIntegerHex(t *testing.T) {
	b := NewBuffer("t", []byte("0x1F"))
	lit, err := ReadInteger(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(31), lit.Value)
	assert.Equal(t, 16, lit.Radix)
}

func TestReadIntegerOctal(t *testing.T) {
	b := NewBuffer("t", []byte("017"))
	lit, err := ReadInteger(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(15), lit.Value)
	assert.Equal(t, 8, lit.Radix)
}

func TestReadIntegerLoneZero(t *testing.T) {
	b := NewBuffer("t", []byte("0"))
	lit, err := ReadInteger(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), lit.Value)
}

func TestReadFloat(t *testing.T) {
	cases := map[string]float64{
		"3.14":    3.14,
		"1e10":    1e10,
		"2.5e-3":  2.5e-3,
		"0.5":     0.5,
	}
	for src, want := range cases {
		b := NewBuffer("t", []byte(src))
		v, err := ReadFloat(b)
		require.NoError(t, err, src)
		assert.InDelta(t, want, v, 1e-9, src)
	}
}

func TestReadFloatRequiresFractionOrExponent(t *testing.T) {
	b := NewBuffer("t", []byte("42"))
	_, err := ReadFloat(b)
	assert.Error(t, err)
}

func TestReadBool(t *testing.T) {
	b := NewBuffer("t", []byte("true"))
	v, err := ReadBool(b)
	require.NoError(t, err)
	assert.True(t, v)

	b2 := NewBuffer("t", []byte("false"))
	v2, err := ReadBool(b2)
	require.NoError(t, err)
	assert.False(t, v2)
}

func TestReadStringWithEscapesAndConcatenation(t *testing.T) {
	b := NewBuffer("t", []byte(`"foo\n" "bar"`))
	s, err := ReadString(b)
	require.NoError(t, err)
	assert.Equal(t, "foo\nbar", s)
}

func TestReadStringHexEscape(t *testing.T) {
	b := NewBuffer("t", []byte(`"\x41\x42"`))
	s, err := ReadString(b)
	require.NoError(t, err)
	assert.Equal(t, "AB", s)
}

func TestReadStringUnterminatedIsError(t *testing.T) {
	b := NewBuffer("t", []byte(`"unterminated`))
	_, err := ReadString(b)
	assert.Error(t, err)
}

func TestReadStringCannotSpanLines(t *testing.T) {
	b := NewBuffer("t", []byte("\"line one\nstill quoted\""))
	_, err := ReadString(b)
	assert.Error(t, err)
}

func TestReadPunctAndPeekPunct(t *testing.T) {
	b := NewBuffer("t", []byte("{}"))
	assert.True(t, PeekPunct(b, '{'))
	require.NoError(t, ReadPunct(b, '{'))
	assert.False(t, PeekPunct(b, '{'))
	assert.True(t, PeekPunct(b, '}'))
}

func mustCurrent(t *testing.T, b *Buffer) byte {
	t.Helper()
	c, ok := b.Current()
	require.True(t, ok)
	return c
}
