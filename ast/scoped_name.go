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

package ast

import "strings"

// ScopedName is a dotted identifier, such as a type reference or a package
// name. Absolute is set when the source form began with a leading dot
// (".foo.Bar"), which instructs the resolver to skip the enclosing-scope
// walk and look the name up as written.
type ScopedName struct {
	Parts    []string
	Absolute bool
}

// NewScopedName splits a dotted name on "." and records whether it began
// with a leading dot. An empty name yields a ScopedName with no parts.
func NewScopedName(text string) ScopedName {
	absolute := strings.HasPrefix(text, ".")
	text = strings.TrimPrefix(text, ".")
	if text == "" {
		return ScopedName{Absolute: absolute}
	}
	return ScopedName{Parts: strings.Split(text, "."), Absolute: absolute}
}

// String renders the name in source form, restoring the leading dot when
// Absolute is set.
func (n ScopedName) String() string {
	s := strings.Join(n.Parts, ".")
	if n.Absolute {
		return "." + s
	}
	return s
}

// Equal reports whether two scoped names have identical parts and
// absoluteness.
func (n ScopedName) Equal(o ScopedName) bool {
	if n.Absolute != o.Absolute || len(n.Parts) != len(o.Parts) {
		return false
	}
	for i := range n.Parts {
		if n.Parts[i] != o.Parts[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy, safe to attach to a different AST
// node (used when Extend copies fields from a base message).
func (n ScopedName) Clone() ScopedName {
	parts := make([]string, len(n.Parts))
	copy(parts, n.Parts)
	return ScopedName{Parts: parts, Absolute: n.Absolute}
}

// ToScope composes this name onto the given enclosing scope: "parent.name",
// unless the name is absolute, in which case it is returned unchanged.
// parent may itself be empty (file-level scope).
func (n ScopedName) ToScope(parent ScopedName) ScopedName {
	if n.Absolute {
		return n
	}
	parts := make([]string, 0, len(parent.Parts)+len(n.Parts))
	parts = append(parts, parent.Parts...)
	parts = append(parts, n.Parts...)
	return ScopedName{Parts: parts}
}

// Parent returns the enclosing scope of this name (all but the last part).
// The second return value is false if the name has zero or one parts (no
// enclosing scope).
func (n ScopedName) Parent() (ScopedName, bool) {
	if len(n.Parts) <= 1 {
		return ScopedName{}, false
	}
	parts := make([]string, len(n.Parts)-1)
	copy(parts, n.Parts[:len(n.Parts)-1])
	return ScopedName{Parts: parts, Absolute: n.Absolute}, true
}

// Last returns the final segment of the name, e.g. "Bar" for "foo.Bar".
func (n ScopedName) Last() string {
	if len(n.Parts) == 0 {
		return ""
	}
	return n.Parts[len(n.Parts)-1]
}

// IsEmpty reports whether the name has no parts.
func (n ScopedName) IsEmpty() bool {
	return len(n.Parts) == 0
}
