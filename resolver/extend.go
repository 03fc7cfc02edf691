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
	"github.com/outwire/protocore/ast"
	"github.com/outwire/protocore/reporter"
)

// applyExtends walks every extend declaration in f (top-level and nested)
// and copies its fields onto the target message, per spec.md §4.4 Pass B
// step 1. This must run before reference resolution so that copied fields
// are present when resolveReferences walks the message's field list.
func applyExtends(f *ast.ProtoFile, idx *fileIndex, tables map[*ast.ProtoFile]*fileSymbols, handler *reporter.Handler) error {
	for _, ext := range f.Extends {
		if err := applyExtend(ext, f, idx, tables, handler); err != nil {
			return err
		}
	}
	var walkMsg func(m *ast.Message) error
	walkMsg = func(m *ast.Message) error {
		for _, ext := range m.Extends {
			if err := applyExtend(ext, f, idx, tables, handler); err != nil {
				return err
			}
		}
		for _, nested := range m.Messages {
			if err := walkMsg(nested); err != nil {
				return err
			}
		}
		return nil
	}
	for _, m := range f.Messages {
		if err := walkMsg(m); err != nil {
			return err
		}
	}
	return nil
}

func applyExtend(ext *ast.Extend, f *ast.ProtoFile, idx *fileIndex, tables map[*ast.ProtoFile]*fileSymbols, handler *reporter.Handler) error {
	base, _, ok := findExtendTarget(ext, f, idx, tables)
	if !ok {
		return handler.HandleError(reporter.Errorf(reporter.KindExtendSourceNotFound, ext.Pos, "extend %q: base message not found", ext.Base.String()))
	}

	existing := make(map[string]bool, len(base.Fields))
	for _, fld := range base.Fields {
		existing[fld.Name] = true
	}

	for _, newField := range ext.Fields {
		if existing[newField.Name] {
			continue
		}
		copied := *newField
		copied.Type.ScopeRef = f
		base.Fields = append(base.Fields, &copied)
		existing[newField.Name] = true
	}
	return nil
}

// findExtendTarget implements the two-step search of spec.md §4.4 step 1.
func findExtendTarget(ext *ast.Extend, f *ast.ProtoFile, idx *fileIndex, tables map[*ast.ProtoFile]*fileSymbols) (*ast.Message, *ast.ProtoFile, bool) {
	// Step (a): walk outward from the extending message's enclosing scope
	// within the current file, trying scope+base at each level.
	fs := tables[f]
	for _, scope := range candidateScopes(ext.Scope) {
		if msg, ok := fs.lookupMessage(ext.Base.ToScope(scope)); ok {
			return msg, f, true
		}
	}

	// Step (b): search each imported file's top-level messages for a
	// name match that has not already been the target of a prior extend
	// (spec.md §4.4 step 1b: "has not itself been the target of any prior
	// extend" -- scoped to this import-search fallback only; local-scope
	// hits in step 1a above are not subject to it).
	for _, imp := range f.Imports {
		if imp.Target == nil {
			continue
		}
		for _, msg := range imp.Target.Messages {
			if msg.Name.Last() != ext.Base.Last() {
				continue
			}
			if idx.extended[msg] {
				continue
			}
			idx.extended[msg] = true
			return msg, imp.Target, true
		}
	}
	return nil, nil, false
}

// candidateScopes returns scope, scope's parent, ..., down to the empty
// (file-level) scope, the order spec.md §4.4 step 1a's outward walk uses.
func candidateScopes(scope ast.ScopedName) []ast.ScopedName {
	scopes := []ast.ScopedName{scope}
	cur := scope
	for {
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		scopes = append(scopes, parent)
		cur = parent
	}
	if len(scope.Parts) > 0 {
		scopes = append(scopes, ast.ScopedName{})
	}
	return scopes
}
