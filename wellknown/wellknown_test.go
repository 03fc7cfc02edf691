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

package wellknown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsWellKnownRecognizesAllEleven(t *testing.T) {
	names := []string{
		"any", "api", "descriptor", "duration", "empty", "field_mask",
		"source_context", "struct", "timestamp", "type", "wrappers",
	}
	for _, n := range names {
		path := "google/protobuf/" + n + ".proto"
		assert.True(t, IsWellKnown(path), "%s should be well-known", path)
	}
}

func TestIsWellKnownRejectsOtherPaths(t *testing.T) {
	assert.False(t, IsWellKnown("google/protobuf/compiler/plugin.proto"))
	assert.False(t, IsWellKnown("myapp/foo.proto"))
	assert.False(t, IsWellKnown("google/protobuf/"))
}

func TestLookupReturnsParseableSource(t *testing.T) {
	src, ok := Lookup("google/protobuf/timestamp.proto")
	require.True(t, ok)
	assert.True(t, strings.Contains(src, "package google.protobuf"))
	assert.True(t, strings.Contains(src, "message Timestamp"))
}

func TestLookupFailsForUnknownPath(t *testing.T) {
	_, ok := Lookup("google/protobuf/nonexistent.proto")
	assert.False(t, ok)
}
