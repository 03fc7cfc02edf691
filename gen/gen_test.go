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
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outwire/protocore/ast"
	protoparser "github.com/outwire/protocore/parser"
	"github.com/outwire/protocore/reporter"
	"github.com/outwire/protocore/resolver"
)

// buildFile parses and resolves src as a single, self-contained .proto file
// with no imports, the shape every genMessage/genEnum test below needs.
func buildFile(t *testing.T, src string) *ast.ProtoFile {
	t.Helper()
	h := reporter.NewHandler(nil)
	f, err := protoparser.Parse("gen_test.proto", []byte(src), h)
	require.NoError(t, err)
	require.NoError(t, h.Error())
	require.NoError(t, resolver.Resolve([]*ast.ProtoFile{f}, reporter.NewHandler(nil)))
	return f
}

func noImports(from, to *ast.ProtoFile) (string, string) { return "", "" }

// assertValidGo parses src as a Go source file, failing the test with the
// parser's error (which includes a line/column) if it is not syntactically
// valid. This never invokes the Go toolchain; go/parser is a library call,
// the same as any other AST-walking test helper in this package.
func assertValidGo(t *testing.T, src string) {
	t.Helper()
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "generated.go", src, parser.AllErrors)
	assert.NoError(t, err, "generated source:\n%s", src)
}

func TestGenerateScalarMessage(t *testing.T) {
	f := buildFile(t, `
		syntax = "proto3";
		message Person {
			string name = 1;
			int32 age = 2;
			repeated string tags = 3;
			bytes avatar = 4;
		}
	`)
	out, err := Generate(f, "genpb", noImports)
	require.NoError(t, err)

	assert.Contains(t, out, "type Person struct")
	assert.Contains(t, out, "type PersonReader struct")
	assert.Contains(t, out, "func (m *Person) CalcSize() int")
	assert.Contains(t, out, "func (m *Person) Encode() []byte")
	assert.Contains(t, out, "NAME_WIRE")
	assert.Contains(t, out, "AGE_WIRE")
	assertValidGo(t, out)
}

func TestGenerateNestedMessageAndEnum(t *testing.T) {
	f := buildFile(t, `
		syntax = "proto3";
		message Outer {
			Inner child = 1;
			Status status = 2;

			message Inner {
				int32 value = 1;
			}
			enum Status {
				UNKNOWN = 0;
				OK = 1;
			}
		}
	`)
	out, err := Generate(f, "genpb", noImports)
	require.NoError(t, err)

	assert.Contains(t, out, "type Outer struct")
	assert.Contains(t, out, "type Outer_Inner struct")
	assert.Contains(t, out, "type Outer_Status int32")
	assertValidGo(t, out)
}

func TestGenerateMapField(t *testing.T) {
	f := buildFile(t, `
		syntax = "proto3";
		message Config {
			map<string, int32> counters = 1;
		}
	`)
	out, err := Generate(f, "genpb", noImports)
	require.NoError(t, err)
	assert.Contains(t, out, "CountersEntries")
	assertValidGo(t, out)
}

func TestGenerateOneofFieldsAreIndependentOptionals(t *testing.T) {
	f := buildFile(t, `
		syntax = "proto3";
		message Event {
			oneof payload {
				string text = 1;
				int32 code = 2;
			}
		}
	`)
	out, err := Generate(f, "genpb", noImports)
	require.NoError(t, err)
	assert.Contains(t, out, "Text")
	assert.Contains(t, out, "Code")
	assertValidGo(t, out)
}
