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

package gen

import (
	"github.com/outwire/protocore/ast"
	"github.com/outwire/protocore/output"
)

// Importer resolves the Go import path and package alias that should be
// used to reference another file's generated package from within the
// file currently being generated (spec.md §4.6 "cross-file import
// emission"). The gen package does not compute output-directory-relative
// paths itself; that is the discover/root Generate entry point's job,
// since only it knows the output root for every file in the batch.
type Importer func(from, to *ast.ProtoFile) (importPath, alias string)

// File holds everything needed to render one .proto file's generated Go
// source text.
type File struct {
	Package  string // Go package name for the generated file
	Proto    *ast.ProtoFile
	Resolve  Importer
	disambig *disambiguator
}

// Generate renders f as Go source text. The result is not run through
// go/format here; the caller (package goformat) does that before writing.
func Generate(f *ast.ProtoFile, goPackage string, resolve Importer) (string, error) {
	gf := &File{Package: goPackage, Proto: f, Resolve: resolve, disambig: newDisambiguator()}
	return gf.render()
}

func (gf *File) render() (string, error) {
	w := output.New()
	w.WriteComment("Code generated by protocore. DO NOT EDIT.")
	w.WriteComment("source: " + gf.Proto.Path)
	w.Blank()
	w.WriteLine("package %s", gf.Package)
	w.Blank()

	imports := gf.collectImports()
	w.WriteLine("import (")
	w.Indent()
	w.WriteLine("\"math\"")
	w.Blank()
	w.WriteLine("\"github.com/outwire/protocore/wire\"")
	for _, imp := range imports {
		w.WriteLine("%s %q", imp.alias, imp.path)
	}
	w.Dedent()
	w.WriteLine(")")
	w.Blank()

	w.WriteRaw(runtimeHelpers)

	for _, e := range gf.Proto.Enums {
		w.WriteRaw(genEnum(e, ""))
	}
	for _, m := range gf.Proto.Messages {
		msgOut, err := genMessage(gf, m, "")
		if err != nil {
			return "", err
		}
		w.WriteRaw(msgOut)
	}
	return w.String(), nil
}

type importSpec struct {
	path  string
	alias string
}

func (gf *File) collectImports() []importSpec {
	seen := map[string]bool{}
	var specs []importSpec
	for _, imp := range gf.Proto.Imports {
		if imp.Target == nil || imp.Target == gf.Proto {
			continue
		}
		path, alias := gf.Resolve(gf.Proto, imp.Target)
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		specs = append(specs, importSpec{path: path, alias: alias})
	}
	return specs
}

// runtimeHelpers is emitted verbatim into every generated file: small
// shims the writer/reader bodies call into that aren't worth promoting to
// the wire package because they are about Go's bool/type representation,
// not the wire format itself.
const runtimeHelpers = `func boolToVarint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func varintToBool(v uint64) bool {
	return v != 0
}

`
