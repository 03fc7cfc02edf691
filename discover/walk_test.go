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

package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, contents string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o644))
}

func TestWalkFindsProtoFilesSortedAndSkipsOthers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b/second.proto", "syntax = \"proto3\";")
	writeFile(t, root, "a/first.proto", "syntax = \"proto3\";")
	writeFile(t, root, "README.md", "not a proto file")

	files, err := Walk(root, nil, 0)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a/first.proto", files[0].Path)
	assert.Equal(t, "b/second.proto", files[1].Path)
	assert.Equal(t, []byte("syntax = \"proto3\";"), files[0].Data)
}

func TestWalkHonorsIgnoreGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep/one.proto", "x")
	writeFile(t, root, "testdata/skip.proto", "x")
	writeFile(t, root, "vendor/third/skip2.proto", "x")

	files, err := Walk(root, []string{"testdata", "vendor"}, 0)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "keep/one.proto", files[0].Path)
}

func TestWalkEmptyRootReturnsEmptySlice(t *testing.T) {
	root := t.TempDir()
	files, err := Walk(root, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, files)
}
