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

// Package goformat wraps go/format to give the generator's assembled
// source text deterministic, gofmt-equivalent layout (spec.md §4.7 "File
// output"). The standard library is the only correct tool for this --
// go/format *is* gofmt, so there is no third-party alternative to prefer
// over it (see DESIGN.md).
package goformat

import (
	"fmt"
	"go/format"
)

// Source formats src as a complete Go file. On failure the original text
// is returned alongside the error so a caller can still inspect what the
// generator produced (useful when diagnosing a generator bug, since
// unformatted-but-invalid output is more informative than nothing).
func Source(src string) (string, error) {
	out, err := format.Source([]byte(src))
	if err != nil {
		return src, fmt.Errorf("goformat: %w", err)
	}
	return string(out), nil
}
