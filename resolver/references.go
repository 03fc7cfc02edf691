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

// resolveReferences walks every field type in f and resolves named
// references to the enum or message they name, per spec.md §4.4 Pass B
// step 2. Must run after applyExtends so that copied fields are present.
func resolveReferences(f *ast.ProtoFile, idx *fileIndex, tables map[*ast.ProtoFile]*fileSymbols, handler *reporter.Handler) error {
	var walkMsg func(m *ast.Message) error
	walkMsg = func(m *ast.Message) error {
		for _, fld := range m.Fields {
			if err := resolveFieldType(&fld.Type, f, tables, handler); err != nil {
				return err
			}
		}
		for _, mf := range m.Maps {
			if err := resolveFieldType(&mf.KeyType, f, tables, handler); err != nil {
				return err
			}
			if err := resolveFieldType(&mf.ValueType, f, tables, handler); err != nil {
				return err
			}
		}
		for _, oo := range m.OneOfs {
			for _, fld := range oo.Fields {
				if err := resolveFieldType(&fld.Type, f, tables, handler); err != nil {
					return err
				}
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
	for _, svc := range f.Services {
		for _, method := range svc.Methods {
			if err := resolveFieldType(&method.InputType, f, tables, handler); err != nil {
				return err
			}
			if err := resolveFieldType(&method.OutputType, f, tables, handler); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveFieldType(t *ast.FieldType, f *ast.ProtoFile, tables map[*ast.ProtoFile]*fileSymbols, handler *reporter.Handler) error {
	if t.IsScalar() {
		return nil
	}

	// A field copied in by an extend resolves against the file that
	// originally declared it, not the extending message's file.
	scopeFile := f
	if t.ScopeRef != nil {
		scopeFile = t.ScopeRef
	}
	fs := tables[scopeFile]

	if t.Name.Absolute {
		if entry, ok := fs.lookup(t.Name); ok {
			setRef(t, entry, scopeFile, nil)
			return nil
		}
	} else {
		for _, scope := range candidateScopes(t.Scope) {
			if entry, ok := fs.lookup(t.Name.ToScope(scope)); ok {
				setRef(t, entry, scopeFile, nil)
				return nil
			}
		}
	}

	// Import resolution: repeat the scope walk against each imported
	// file, first hit wins.
	for _, imp := range scopeFile.Imports {
		if imp.Target == nil {
			continue
		}
		impFS := tables[imp.Target]
		if t.Name.Absolute {
			if entry, ok := impFS.lookup(t.Name); ok {
				setRef(t, entry, imp.Target, imp)
				return nil
			}
			continue
		}
		for _, scope := range candidateScopes(t.Scope) {
			if entry, ok := impFS.lookup(t.Name.ToScope(scope)); ok {
				setRef(t, entry, imp.Target, imp)
				return nil
			}
		}
	}

	return handler.HandleError(reporter.Errorf(reporter.KindTypeNotFound, ast.SourcePos{Path: f.Path}, "type %q not found", t.Name.String()))
}

func setRef(t *ast.FieldType, entry *symbolEntry, definingFile *ast.ProtoFile, imp *ast.Import) {
	local := imp == nil
	switch {
	case entry.msg != nil:
		t.RefMsg = entry.msg
		if local {
			t.Ref = ast.RefLocalMessage
		} else {
			t.Ref = ast.RefExternalMessage
		}
	case entry.enum != nil:
		t.RefEnum = entry.enum
		if local {
			t.Ref = ast.RefLocalEnum
		} else {
			t.Ref = ast.RefExternalEnum
		}
	}
	t.RefImport = imp
}
