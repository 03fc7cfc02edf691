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

	"github.com/outwire/protocore/ast"
	"github.com/outwire/protocore/wire"
)

// goType returns the Go type used for a scalar's storage in both the
// writer and the reader.
func goType(k ast.ScalarKind) string {
	switch k {
	case ast.ScalarInt32, ast.ScalarSint32, ast.ScalarSfixed32:
		return "int32"
	case ast.ScalarInt64, ast.ScalarSint64, ast.ScalarSfixed64:
		return "int64"
	case ast.ScalarUint32, ast.ScalarFixed32:
		return "uint32"
	case ast.ScalarUint64, ast.ScalarFixed64:
		return "uint64"
	case ast.ScalarFloat:
		return "float32"
	case ast.ScalarDouble:
		return "float64"
	case ast.ScalarBool:
		return "bool"
	case ast.ScalarString:
		return "string"
	case ast.ScalarBytes:
		return "[]byte"
	default:
		return "any"
	}
}

// wireType maps a scalar kind to the wire.Type its payload is framed with.
func wireType(k ast.ScalarKind) string {
	switch {
	case k.IsVarint():
		return "wire.TypeVarint"
	case k.IsFixed32():
		return "wire.TypeFixed32"
	case k.IsFixed64():
		return "wire.TypeFixed64"
	case k.IsLengthDelimited():
		return "wire.TypeLengthDelimited"
	default:
		return "wire.TypeLengthDelimited" // message/enum references
	}
}

// wireTypeOf returns the runtime wire.Type for a scalar kind, used by
// callers building constant tables rather than emitting Go source.
func wireTypeOf(k ast.ScalarKind) wire.Type {
	switch {
	case k.IsVarint():
		return wire.TypeVarint
	case k.IsFixed32():
		return wire.TypeFixed32
	case k.IsFixed64():
		return wire.TypeFixed64
	default:
		return wire.TypeLengthDelimited
	}
}

// appendScalarExpr returns the Go expression that appends a scalar value
// named valueExpr onto a []byte named buf, for the writer's EncodeTo.
func appendScalarExpr(k ast.ScalarKind, valueExpr string) string {
	switch k {
	case ast.ScalarInt32, ast.ScalarInt64, ast.ScalarUint32, ast.ScalarUint64:
		return fmt.Sprintf("wire.AppendVarint(buf, uint64(%s))", valueExpr)
	case ast.ScalarBool:
		return fmt.Sprintf("wire.AppendVarint(buf, boolToVarint(%s))", valueExpr)
	case ast.ScalarSint32:
		return fmt.Sprintf("wire.AppendVarint(buf, uint64(wire.EncodeZigZag32(%s)))", valueExpr)
	case ast.ScalarSint64:
		return fmt.Sprintf("wire.AppendVarint(buf, wire.EncodeZigZag64(%s))", valueExpr)
	case ast.ScalarFixed32:
		return fmt.Sprintf("wire.AppendFixed32(buf, %s)", valueExpr)
	case ast.ScalarSfixed32:
		return fmt.Sprintf("wire.AppendFixed32(buf, uint32(%s))", valueExpr)
	case ast.ScalarFloat:
		return fmt.Sprintf("wire.AppendFixed32(buf, math.Float32bits(%s))", valueExpr)
	case ast.ScalarFixed64:
		return fmt.Sprintf("wire.AppendFixed64(buf, %s)", valueExpr)
	case ast.ScalarSfixed64:
		return fmt.Sprintf("wire.AppendFixed64(buf, uint64(%s))", valueExpr)
	case ast.ScalarDouble:
		return fmt.Sprintf("wire.AppendFixed64(buf, math.Float64bits(%s))", valueExpr)
	case ast.ScalarString:
		return fmt.Sprintf("wire.AppendLengthDelimited(buf, []byte(%s))", valueExpr)
	case ast.ScalarBytes:
		return fmt.Sprintf("wire.AppendLengthDelimited(buf, %s)", valueExpr)
	default:
		return valueExpr
	}
}

// scalarPayloadSize returns the Go expression computing the encoded
// payload size (not including the tag) of a scalar value.
func scalarPayloadSize(k ast.ScalarKind, valueExpr string) string {
	switch k {
	case ast.ScalarInt32, ast.ScalarInt64, ast.ScalarUint32, ast.ScalarUint64:
		return fmt.Sprintf("wire.SizeVarint(uint64(%s))", valueExpr)
	case ast.ScalarBool:
		return "1"
	case ast.ScalarSint32:
		return fmt.Sprintf("wire.SizeVarint(uint64(wire.EncodeZigZag32(%s)))", valueExpr)
	case ast.ScalarSint64:
		return fmt.Sprintf("wire.SizeVarint(wire.EncodeZigZag64(%s))", valueExpr)
	case ast.ScalarFixed32, ast.ScalarSfixed32, ast.ScalarFloat:
		return "4"
	case ast.ScalarFixed64, ast.ScalarSfixed64, ast.ScalarDouble:
		return "8"
	case ast.ScalarString:
		return fmt.Sprintf("wire.SizeLengthDelimited(len(%s))", valueExpr)
	case ast.ScalarBytes:
		return fmt.Sprintf("wire.SizeLengthDelimited(len(%s))", valueExpr)
	default:
		return "0"
	}
}
