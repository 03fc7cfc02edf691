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

package resolver

import (
	art "github.com/plar/go-adaptive-radix-tree"

	"github.com/outwire/protocore/ast"
)

// symbolEntry is what a fully-qualified name resolves to within one file:
// exactly one of enum/msg is non-nil, since each entry is built for a
// single declaration. Duplicate names are not checked anywhere: when two
// declarations share a fully-qualified name, the entry inserted later
// replaces the earlier one.
type symbolEntry struct {
	enum *ast.Enum
	msg  *ast.Message
}

// fileSymbols indexes every message and enum declared anywhere in one file
// (top-level and nested) by its dotted fully-qualified name, including the
// file's package prefix. Lookups during Pass B's scope walk are exact-key
// hits against this tree, so an adaptive radix tree gives us the same
// near-O(key length) lookup the linker's prefix-search symbol table relies
// on, without the overhead of a general hash map rehash for what is
// typically a small, append-only, single-threaded index per file.
type fileSymbols struct {
	tree art.Tree
}

func buildSymbols(f *ast.ProtoFile) *fileSymbols {
	fs := &fileSymbols{tree: art.New()}
	var walkMsg func(m *ast.Message)
	walkMsg = func(m *ast.Message) {
		fs.tree.Insert(art.Key(symbolKey(m.Name)), &symbolEntry{msg: m})
		for _, nested := range m.Messages {
			walkMsg(nested)
		}
		for _, e := range m.Enums {
			fs.tree.Insert(art.Key(symbolKey(e.Name)), &symbolEntry{enum: e})
		}
	}
	for _, m := range f.Messages {
		walkMsg(m)
	}
	for _, e := range f.Enums {
		fs.tree.Insert(art.Key(symbolKey(e.Name)), &symbolEntry{enum: e})
	}
	return fs
}

// symbolKey renders a name as the dotted key stored in the tree: always
// without a leading dot, since a reference's Absolute flag only affects
// whether the scope walk is attempted before the direct lookup, not the
// key shape itself.
func symbolKey(name ast.ScopedName) string {
	return ast.ScopedName{Parts: name.Parts}.String()
}

// lookup finds name as an exact fully-qualified key.
func (fs *fileSymbols) lookup(name ast.ScopedName) (*symbolEntry, bool) {
	v, found := fs.tree.Search(art.Key(symbolKey(name)))
	if !found {
		return nil, false
	}
	return v.(*symbolEntry), true
}

// lookupMessage is a convenience used by extend-target search: it succeeds
// only when the name resolves to a message, not an enum.
func (fs *fileSymbols) lookupMessage(name ast.ScopedName) (*ast.Message, bool) {
	e, ok := fs.lookup(name)
	if !ok || e.msg == nil {
		return nil, false
	}
	return e.msg, true
}
