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

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outwire/protocore/ast"
	"github.com/outwire/protocore/reporter"
)

func parseOK(t *testing.T, src string) *ast.ProtoFile {
	t.Helper()
	h := reporter.NewHandler(nil)
	f, err := Parse("test.proto", []byte(src), h)
	require.NoError(t, err)
	require.NoError(t, h.Error())
	return f
}

func TestParseFileLevelStatements(t *testing.T) {
	f := parseOK(t, `
		syntax = "proto3";
		package my.pkg;
		import "other.proto";
		import public "wkt.proto";
		option go_package = "example.com/my/pkg;pkgalias";
	`)
	assert.Equal(t, ast.SyntaxProto3, f.Syntax)
	assert.Equal(t, "my.pkg", f.Package.String())
	require.Len(t, f.Imports, 2)
	assert.Equal(t, "other.proto", f.Imports[0].Path)
	assert.Equal(t, ast.ImportNormal, f.Imports[0].Type)
	assert.Equal(t, "wkt.proto", f.Imports[1].Path)
	assert.Equal(t, ast.ImportPublic, f.Imports[1].Type)
	require.Len(t, f.Options, 1)
	assert.Equal(t, "go_package", f.Options[0].Name.String())
}

func TestParseMessageWithFieldsAndNesting(t *testing.T) {
	f := parseOK(t, `
		syntax = "proto3";
		message Outer {
			string name = 1;
			int32 count = 2 [packed = true];
			repeated Inner items = 3;
			map<string, int32> counts = 4;

			message Inner {
				bool flag = 1;
			}

			enum Status {
				UNKNOWN = 0;
				ACTIVE = 1;
			}

			oneof kind {
				string text = 10;
				int32 number = 11;
			}
		}
	`)
	require.Len(t, f.Messages, 1)
	outer := f.Messages[0]
	assert.Equal(t, "Outer", outer.Name.String())
	require.Len(t, outer.Fields, 3)
	assert.Equal(t, "name", outer.Fields[0].Name)
	assert.Equal(t, ast.ScalarString, outer.Fields[0].Type.Scalar)
	assert.Equal(t, int32(1), outer.Fields[0].Number)

	require.Len(t, outer.Maps, 1)
	assert.Equal(t, "counts", outer.Maps[0].Name)
	assert.Equal(t, ast.ScalarString, outer.Maps[0].KeyType.Scalar)
	assert.Equal(t, ast.ScalarInt32, outer.Maps[0].ValueType.Scalar)

	require.Len(t, outer.Messages, 1)
	assert.Equal(t, "Inner", outer.Messages[0].Name.Last())
	assert.Same(t, outer, outer.Messages[0].Parent)

	require.Len(t, outer.Enums, 1)
	assert.Equal(t, "Status", outer.Enums[0].Name.Last())

	require.Len(t, outer.OneOfs, 1)
	assert.Len(t, outer.OneOfs[0].Fields, 2)
}

func TestParseProto2RequiresLabel(t *testing.T) {
	h := reporter.NewHandler(nil)
	_, err := Parse("test.proto", []byte(`
		message M {
			string name = 1;
		}
	`), h)
	assert.Error(t, err)
}

func TestParseEnumAndReserved(t *testing.T) {
	f := parseOK(t, `
		syntax = "proto3";
		enum Color {
			reserved 2, 3;
			reserved "OLD_NAME";
			RED = 0;
			GREEN = 1;
		}
	`)
	require.Len(t, f.Enums, 1)
	e := f.Enums[0]
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "RED", e.Fields[0].Name)
	assert.Equal(t, int32(0), e.Fields[0].Index)
	require.Len(t, e.Reserved, 2)
}
