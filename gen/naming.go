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

// Package gen turns a resolved ast.ProtoFile into Go source text: a
// writer type and a lazy reader type per message, plus wire-number
// constants, following the naming rules of spec.md §4.6.
package gen

import (
	"strconv"
	"strings"
	"unicode"
)

// pascalCase converts a proto identifier (snake_case, or already mixed
// case) to PascalCase, splitting on underscores only: each underscore is
// dropped and the rune after it is upper-cased. A digit/letter boundary
// does not start a new word.
func pascalCase(name string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range name {
		switch {
		case r == '_':
			upperNext = true
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// lowerSnakeCase normalizes a proto field name to lower_snake_case. Proto
// field names are already snake_case by convention, but this also lowers
// any stray uppercase letters so a hand-written "fieldName" behaves.
func lowerSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && name[i-1] != '_' {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// wireConstName is the name of the precomputed tag-encoding constant for a
// field, per spec.md §4.6: "<FIELD>_WIRE".
func wireConstName(fieldName string) string {
	return strings.ToUpper(lowerSnakeCase(fieldName)) + "_WIRE"
}

// disambiguator resolves name collisions at a given scope by appending a
// numeric suffix to every name after the first, in the input order given.
// Names not in conflict are left untouched.
type disambiguator struct {
	used map[string]int
}

func newDisambiguator() *disambiguator {
	return &disambiguator{used: map[string]int{}}
}

// Resolve returns a name guaranteed unique among all names resolved so far
// through this disambiguator: want itself the first time, then want2,
// want3, and so on.
func (d *disambiguator) Resolve(want string) string {
	count := d.used[want]
	d.used[want] = count + 1
	if count == 0 {
		return want
	}
	return want + strconv.Itoa(count+1)
}

// readerTypeName and writerTypeName are the generator's fixed suffix
// convention for the two artifacts emitted per message (spec.md §4.6):
// the writer uses the bare message name, the reader appends "Reader".
func writerTypeName(goMessageName string) string { return goMessageName }
func readerTypeName(goMessageName string) string { return goMessageName + "Reader" }
