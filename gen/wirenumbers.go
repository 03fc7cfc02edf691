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
	"fmt"
	"strings"

	"github.com/outwire/protocore/wire"
)

// genWireNumbers emits one precomputed tag-byte var per field (spec.md
// §4.6: "a wire-number record mapping field name → tag-encoded bytes,
// precomputed at generation time"). The tag bytes are computed here, in
// the generator's own process, via the wire package's own tag encoder --
// not re-derived at runtime by the generated code.
func genWireNumbers(goName string, fields []fieldSpec) string {
	var b strings.Builder
	for _, f := range fields {
		if f.Kind == kindMap {
			continue // map entries use the fixed key=1/value=2 tags, not a named field tag
		}
		tag := wire.AppendTag(nil, f.Number, wireTypeFor(f))
		fmt.Fprintf(&b, "var %s = %s\n", wireVarName(goName, f), byteLiteral(tag))
	}
	b.WriteString("\n")
	return b.String()
}

func wireVarName(goName string, f fieldSpec) string {
	return goName + wireConstName(f.ProtoName)
}

func wireTypeFor(f fieldSpec) wire.Type {
	if f.Repeated && f.Packed {
		return wire.TypeLengthDelimited
	}
	switch f.Kind {
	case kindScalar:
		return wireTypeOf(f.Scalar)
	case kindEnum:
		return wire.TypeVarint
	default:
		return wire.TypeLengthDelimited
	}
}

func byteLiteral(b []byte) string {
	var sb strings.Builder
	sb.WriteString("[]byte{")
	for i, by := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "0x%02x", by)
	}
	sb.WriteString("}")
	return sb.String()
}
