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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outwire/protocore/ast"
	"github.com/outwire/protocore/parser"
	"github.com/outwire/protocore/reporter"
)

func mustParse(t *testing.T, path, src string) *ast.ProtoFile {
	t.Helper()
	h := reporter.NewHandler(nil)
	f, err := parser.Parse(path, []byte(src), h)
	require.NoError(t, err)
	require.NoError(t, h.Error())
	return f
}

func TestSymbolKeyRoundTrips(t *testing.T) {
	name := ast.NewScopedName("foo.Bar.Baz")
	assert.Equal(t, "foo.Bar.Baz", symbolKey(name))

	abs := ast.NewScopedName(".foo.Bar")
	assert.Equal(t, "foo.Bar", symbolKey(abs), "the leading dot must not leak into the stored key")
}

func TestCandidateScopesWalksOutwardToFileScope(t *testing.T) {
	scope := ast.NewScopedName("a.b.c")
	got := candidateScopes(scope)
	require.Len(t, got, 4)
	assert.Equal(t, "a.b.c", got[0].String())
	assert.Equal(t, "a.b", got[1].String())
	assert.Equal(t, "a", got[2].String())
	assert.Equal(t, "", got[3].String())
}

func TestCandidateScopesEmptyScope(t *testing.T) {
	got := candidateScopes(ast.ScopedName{})
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].String())
}

func TestResolveLinksImportAndResolvesReference(t *testing.T) {
	base := mustParse(t, "base.proto", `
		syntax = "proto3";
		package shared;
		message Money {
			int64 units = 1;
		}
		enum Currency {
			CURRENCY_UNKNOWN = 0;
			USD = 1;
		}
	`)
	main := mustParse(t, "main.proto", `
		syntax = "proto3";
		package app;
		import "base.proto";
		message Invoice {
			shared.Money total = 1;
			shared.Currency currency = 2;
		}
	`)

	h := reporter.NewHandler(nil)
	err := Resolve([]*ast.ProtoFile{base, main}, h)
	require.NoError(t, err)

	require.Len(t, main.Imports, 1)
	assert.Same(t, base, main.Imports[0].Target)

	invoice := main.Messages[0]
	require.Len(t, invoice.Fields, 2)

	moneyField := invoice.Fields[0]
	assert.Equal(t, ast.RefExternalMessage, moneyField.Type.Ref)
	assert.Same(t, base.Messages[0], moneyField.Type.RefMsg)
	assert.Same(t, main.Imports[0], moneyField.Type.RefImport)

	currencyField := invoice.Fields[1]
	assert.Equal(t, ast.RefExternalEnum, currencyField.Type.Ref)
	assert.Same(t, base.Enums[0], currencyField.Type.RefEnum)
}

func TestResolveLocalMessageReference(t *testing.T) {
	f := mustParse(t, "local.proto", `
		syntax = "proto3";
		message Outer {
			Inner child = 1;

			message Inner {
				string name = 1;
			}
		}
	`)
	h := reporter.NewHandler(nil)
	require.NoError(t, Resolve([]*ast.ProtoFile{f}, h))

	outer := f.Messages[0]
	assert.Same(t, outer, outer.Messages[0].Parent)

	childField := outer.Fields[0]
	assert.Equal(t, ast.RefLocalMessage, childField.Type.Ref)
	assert.Same(t, outer.Messages[0], childField.Type.RefMsg)
}

func TestResolveUnknownTypeIsFatal(t *testing.T) {
	f := mustParse(t, "broken.proto", `
		syntax = "proto3";
		message M {
			Nonexistent x = 1;
		}
	`)
	h := reporter.NewHandler(nil)
	err := Resolve([]*ast.ProtoFile{f}, h)
	assert.Error(t, err)
}

func TestApplyExtendCopiesFieldsOntoLocalTarget(t *testing.T) {
	f := mustParse(t, "ext.proto", `
		syntax = "proto2";
		message Base {
			optional int32 id = 1;
		}
		extend Base {
			optional string note = 100;
		}
	`)
	h := reporter.NewHandler(nil)
	require.NoError(t, Resolve([]*ast.ProtoFile{f}, h))

	base := f.Messages[0]
	require.Len(t, base.Fields, 2)
	assert.Equal(t, "id", base.Fields[0].Name)
	assert.Equal(t, "note", base.Fields[1].Name)
	assert.Equal(t, int32(100), base.Fields[1].Number)
}

func TestResolveAbsorbsWellKnownImport(t *testing.T) {
	f := mustParse(t, "wkt.proto", `
		syntax = "proto3";
		package app;
		import "google/protobuf/timestamp.proto";
		message Event {
			google.protobuf.Timestamp at = 1;
		}
	`)
	h := reporter.NewHandler(nil)
	require.NoError(t, Resolve([]*ast.ProtoFile{f}, h))

	require.Len(t, f.Imports, 1)
	require.NotNil(t, f.Imports[0].Target)
	assert.Equal(t, "google/protobuf/timestamp.proto", f.Imports[0].Target.WellKnownAs)

	field := f.Messages[0].Fields[0]
	assert.Equal(t, ast.RefExternalMessage, field.Type.Ref)
	require.NotNil(t, field.Type.RefMsg)
	assert.Equal(t, "Timestamp", field.Type.RefMsg.Name.Last())
}
