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

package protocore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProto(t *testing.T, root, rel, contents string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o644))
}

func TestGenerateEndToEnd(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeProto(t, in, "shared/base.proto", `
		syntax = "proto3";
		package shared;
		option go_package = "example.com/app/shared;shared";
		message Money {
			int64 units = 1;
		}
	`)
	writeProto(t, in, "app/main.proto", `
		syntax = "proto3";
		package app;
		option go_package = "example.com/app/app;app";
		import "shared/base.proto";
		message Invoice {
			shared.Money total = 1;
			string customer = 2;
			repeated string tags = 3;
		}
	`)

	err := Generate(Config{
		ProtoRoot:  in,
		OutputRoot: out,
		ModulePath: "example.com/app",
	})
	require.NoError(t, err)

	baseOut, err := os.ReadFile(filepath.Join(out, "shared", "base.pb.go"))
	require.NoError(t, err)
	assert.Contains(t, string(baseOut), "package shared")
	assert.Contains(t, string(baseOut), "type Money struct")

	mainOut, err := os.ReadFile(filepath.Join(out, "app", "main.pb.go"))
	require.NoError(t, err)
	assert.Contains(t, string(mainOut), "package app")
	assert.Contains(t, string(mainOut), "type Invoice struct")
	assert.Contains(t, string(mainOut), "example.com/app/shared")
}

func TestGenerateReportsParseErrorsAcrossTheWholeBatch(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	// broken.proto is missing its closing brace; ok.proto alone is valid.
	// Both are still attempted (parsing doesn't abort the whole walk on the
	// first failure), but a batch containing any parse error never reaches
	// the generate stage for any file.
	writeProto(t, in, "broken.proto", `message M { string name = 1; `)
	writeProto(t, in, "ok.proto", `
		syntax = "proto3";
		message N {
			string name = 1;
		}
	`)

	err := Generate(Config{
		ProtoRoot:  in,
		OutputRoot: out,
		ModulePath: "example.com/app",
	})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(out, "ok.pb.go"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGoPackageNameFallsBackToProtoPackage(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeProto(t, in, "plain.proto", `
		syntax = "proto3";
		package widgets.v1;
		message Widget {
			string id = 1;
		}
	`)

	require.NoError(t, Generate(Config{
		ProtoRoot:  in,
		OutputRoot: out,
		ModulePath: "example.com/app",
	}))

	data, err := os.ReadFile(filepath.Join(out, "plain.pb.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "package v1")
}
