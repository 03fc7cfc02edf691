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

// Package resolver implements the two-pass cross-file resolver: Pass A
// links imports (absorbing bundled well-known types and propagating public
// re-exports transitively), Pass B applies extend inheritance and then
// resolves every named field type to the enum or message it references.
//
// Resolve runs strictly single-threaded over the whole file set, per
// spec.md §5: there is no concurrent mutation of the AST being linked, so
// the symbol index below needs no locking, unlike the protoreflect-based
// symbol table it is descended from.
package resolver

import (
	"fmt"

	"github.com/outwire/protocore/ast"
	"github.com/outwire/protocore/parser"
	"github.com/outwire/protocore/reporter"
	"github.com/outwire/protocore/wellknown"
)

// Resolve links imports and resolves every type reference across files, a
// set that must contain every file transitively reachable from the ones the
// caller actually wants to generate, apart from well-known imports, which
// Resolve absorbs itself. discover.Walk does not follow imports; Generate
// passes every .proto file found under the root. Resolution errors are
// fatal to the run per spec.md §7: the first one reported aborts Resolve.
func Resolve(files []*ast.ProtoFile, handler *reporter.Handler) error {
	index, err := linkImports(files, handler)
	if err != nil {
		return err
	}

	// index.all is the fully-grown file list including absorbed well-known
	// types; Pass B must run over all of them so that e.g. a well-known
	// type's own internal references resolve too.
	symTables := make(map[*ast.ProtoFile]*fileSymbols, len(index.all))
	for _, f := range index.all {
		symTables[f] = buildSymbols(f)
	}

	for _, f := range index.all {
		if err := applyExtends(f, index, symTables, handler); err != nil {
			return err
		}
	}
	for _, f := range index.all {
		if err := resolveReferences(f, index, symTables, handler); err != nil {
			return err
		}
		assignParents(f)
	}
	return handler.Error()
}

// fileIndex is the Pass A product: every file (including well-known types
// absorbed along the way) keyed by the path other files' imports name it
// by, plus a flat slice in discovery order for repeatable iteration.
type fileIndex struct {
	byPath map[string]*ast.ProtoFile
	all    []*ast.ProtoFile

	// extended tracks, for this Resolve call only, which messages have
	// already been the target of an extend applied via import-scope search
	// (spec.md §4.4 step 1b: "has not itself been the target of any prior
	// extend"). Scoped to one fileIndex rather than a package global so
	// concurrent Resolve calls don't race on it and so entries don't
	// accumulate across repeated calls in a long-running process.
	extended map[*ast.Message]bool
}

func linkImports(files []*ast.ProtoFile, handler *reporter.Handler) (*fileIndex, error) {
	idx := &fileIndex{byPath: make(map[string]*ast.ProtoFile, len(files)), extended: make(map[*ast.Message]bool)}
	idx.all = append(idx.all, files...)
	for _, f := range files {
		idx.byPath[f.Path] = f
	}

	// Step 2: absorb well-known dependencies. The set of files being
	// iterated grows as we discover new imports of bundled types, so this
	// runs to a fixpoint before index lookups in step 3 are trusted.
	for i := 0; i < len(idx.all); i++ {
		f := idx.all[i]
		for _, imp := range f.Imports {
			if _, ok := idx.byPath[imp.Path]; ok {
				continue
			}
			if !wellknown.IsWellKnown(imp.Path) {
				continue
			}
			wf, err := parseWellKnown(imp.Path)
			if err != nil {
				return nil, handler.HandleError(reporter.Errorf(reporter.KindTargetFileNotFound, ast.SourcePos{Path: f.Path}, "well-known type %q: %w", imp.Path, err))
			}
			idx.byPath[imp.Path] = wf
			idx.all = append(idx.all, wf)
		}
	}

	// Step 3: link every import to its target.
	for _, f := range idx.all {
		for _, imp := range f.Imports {
			target, ok := idx.byPath[imp.Path]
			if !ok {
				if err := handler.HandleError(reporter.Errorf(reporter.KindTargetFileNotFound, imp.Pos, "import %q: target file not found", imp.Path)); err != nil {
					return nil, err
				}
				continue
			}
			imp.Target = target
		}
	}

	// Step 4: transitive public re-export. A fixpoint loop because adding
	// a synthetic import to F can itself carry a public import that needs
	// propagating again.
	changed := true
	for changed {
		changed = false
		for _, f := range idx.all {
			for _, imp := range append([]*ast.Import(nil), f.Imports...) {
				if imp.Target == nil {
					continue
				}
				for _, pub := range imp.Target.Imports {
					if pub.Type != ast.ImportPublic || pub.Target == nil {
						continue
					}
					if hasImportOf(f, pub.Target) {
						continue
					}
					f.Imports = append(f.Imports, &ast.Import{
						Path:   pub.Target.Path,
						Type:   ast.ImportPublic,
						Pos:    imp.Pos,
						Target: pub.Target,
					})
					changed = true
				}
			}
		}
	}

	return idx, handler.Error()
}

func hasImportOf(f *ast.ProtoFile, target *ast.ProtoFile) bool {
	for _, imp := range f.Imports {
		if imp.Target == target {
			return true
		}
	}
	return false
}

func parseWellKnown(path string) (*ast.ProtoFile, error) {
	src, ok := wellknown.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("no embedded source for %q", path)
	}
	h := reporter.NewHandler(nil)
	f, err := parser.Parse(path, []byte(src), h)
	if err != nil {
		return nil, err
	}
	f.Path = path
	f.WellKnownAs = path
	return f, nil
}

// assignParents sets each nested message/enum's Parent/ParentMsg back-
// reference (spec.md §4.4 Pass B step 3). Top-level types already have a
// nil parent from parsing.
func assignParents(f *ast.ProtoFile) {
	var walkMsg func(m *ast.Message)
	walkMsg = func(m *ast.Message) {
		for _, nested := range m.Messages {
			nested.Parent = m
			walkMsg(nested)
		}
		for _, e := range m.Enums {
			e.ParentMsg = m
		}
	}
	for _, m := range f.Messages {
		walkMsg(m)
	}
}
