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

// Package wellknown embeds the canonical google/protobuf/*.proto sources so
// that an import of one of them resolves without the caller having to vendor
// the Google repo alongside their own .proto tree.
package wellknown

import (
	"embed"
	"strings"
)

//go:embed protos/google/protobuf/*.proto
var protos embed.FS

const prefix = "google/protobuf/"

// Lookup returns the embedded source for path (e.g. "google/protobuf/any.proto")
// and true if path names one of the eleven canonical well-known types. It
// returns false for any other path, including ones that merely share the
// google/protobuf/ prefix.
func Lookup(path string) (string, bool) {
	if !IsWellKnown(path) {
		return "", false
	}
	data, err := protos.ReadFile("protos/" + path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// IsWellKnown reports whether path is one of the eleven canonical
// google/protobuf/*.proto import paths this package embeds.
func IsWellKnown(path string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	_, ok := names[path]
	return ok
}

var names = map[string]bool{
	prefix + "any.proto":             true,
	prefix + "api.proto":             true,
	prefix + "descriptor.proto":      true,
	prefix + "duration.proto":        true,
	prefix + "empty.proto":           true,
	prefix + "field_mask.proto":      true,
	prefix + "source_context.proto":  true,
	prefix + "struct.proto":          true,
	prefix + "timestamp.proto":       true,
	prefix + "type.proto":            true,
	prefix + "wrappers.proto":        true,
}
