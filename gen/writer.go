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

	"github.com/outwire/protocore/ast"
)

// genWriter emits the writer type for a message: its struct definition
// plus CalcSize/Encode/EncodeTo (spec.md §4.6 item 2). Encode allocates
// its output once; nested messages, packed runs and map entries are each
// encoded into a buffer of their own before being appended.
func genWriter(goName string, fields []fieldSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s struct {\n", writerTypeName(goName))
	for _, f := range fields {
		fmt.Fprintf(&b, "\t%s %s\n", f.GoName, goFieldType(f))
	}
	b.WriteString("}\n\n")

	genCalcSize(&b, goName, fields)
	genEncode(&b, goName)
	genEncodeTo(&b, goName, fields)
	return b.String()
}

func goFieldType(f fieldSpec) string {
	switch {
	case f.Kind == kindMap:
		val := f.ValueGoType
		if f.ValueKind == kindMessage {
			val = "*" + val
		}
		return fmt.Sprintf("map[%s]%s", f.KeyGoType, val)
	case f.Repeated:
		elem := f.GoType
		if f.Kind == kindMessage {
			elem = "*" + elem
		}
		return "[]" + elem
	case f.Kind == kindMessage || f.Optional:
		return "*" + f.GoType
	default:
		return f.GoType
	}
}

func genCalcSize(b *strings.Builder, goName string, fields []fieldSpec) {
	fmt.Fprintf(b, "func (m *%s) CalcSize() int {\n\tsize := 0\n", writerTypeName(goName))
	for _, f := range fields {
		writeSizeForField(b, goName, f)
	}
	b.WriteString("\treturn size\n}\n\n")
}

func genEncode(b *strings.Builder, goName string) {
	fmt.Fprintf(b, `func (m *%s) Encode() []byte {
	size := m.CalcSize()
	if size == 0 {
		return nil
	}
	buf := make([]byte, 0, size)
	return m.EncodeTo(buf)
}

`, writerTypeName(goName))
}

func genEncodeTo(b *strings.Builder, goName string, fields []fieldSpec) {
	fmt.Fprintf(b, "func (m *%s) EncodeTo(buf []byte) []byte {\n", writerTypeName(goName))
	for _, f := range fields {
		writeEncodeForField(b, goName, f)
	}
	b.WriteString("\treturn buf\n}\n\n")
}

// writeSizeForField and writeEncodeForField emit matching size/encode
// logic for one field, field-kind by field-kind. "Populated" follows
// spec.md §4.6: absent scalars/messages (zero value, or nil pointer) are
// skipped; repeated and map fields are skipped only when empty.
func writeSizeForField(b *strings.Builder, goName string, f fieldSpec) {
	tagVar := wireVarName(goName, f)
	access := "m." + f.GoName

	switch {
	case f.Kind == kindMap:
		fmt.Fprintf(b, "\tfor k, v := range %s {\n", access)
		fmt.Fprintf(b, "\t\tentrySize := %s\n", mapEntrySizeExpr(f))
		fmt.Fprintf(b, "\t\tsize += wire.SizeTag(%d, wire.TypeLengthDelimited) + wire.SizeLengthDelimited(entrySize)\n", f.Number)
		b.WriteString("\t}\n")
		return
	case f.Repeated && f.Packed:
		fmt.Fprintf(b, "\tif len(%s) > 0 {\n", access)
		b.WriteString("\t\tpayloadSize := 0\n")
		fmt.Fprintf(b, "\t\tfor _, v := range %s {\n", access)
		fmt.Fprintf(b, "\t\t\tpayloadSize += %s\n", elementPayloadSizeExpr(f, "v"))
		b.WriteString("\t\t}\n")
		fmt.Fprintf(b, "\t\tsize += len(%s) + wire.SizeLengthDelimited(payloadSize)\n", tagVar)
		b.WriteString("\t}\n")
		return
	case f.Repeated:
		fmt.Fprintf(b, "\tfor _, v := range %s {\n", access)
		fmt.Fprintf(b, "\t\tsize += len(%s) + %s\n", tagVar, repeatedElementFramedSizeExpr(f, "v"))
		b.WriteString("\t}\n")
		return
	case f.Kind == kindMessage:
		fmt.Fprintf(b, "\tif %s != nil {\n", access)
		fmt.Fprintf(b, "\t\tnested := %s.CalcSize()\n", access)
		fmt.Fprintf(b, "\t\tsize += len(%s) + wire.SizeLengthDelimited(nested)\n", tagVar)
		b.WriteString("\t}\n")
		return
	case f.Optional:
		fmt.Fprintf(b, "\tif %s != nil {\n", access)
		fmt.Fprintf(b, "\t\tsize += len(%s) + %s\n", tagVar, elementPayloadSizeExpr(f, "*"+access))
		b.WriteString("\t}\n")
		return
	default:
		fmt.Fprintf(b, "\tif %s {\n", nonZeroCond(f, access))
		fmt.Fprintf(b, "\t\tsize += len(%s) + %s\n", tagVar, elementPayloadSizeExpr(f, access))
		b.WriteString("\t}\n")
		return
	}
}

func writeEncodeForField(b *strings.Builder, goName string, f fieldSpec) {
	tagVar := wireVarName(goName, f)
	access := "m." + f.GoName

	switch {
	case f.Kind == kindMap:
		fmt.Fprintf(b, "\tfor k, v := range %s {\n", access)
		fmt.Fprintf(b, "\t\tentry := %s\n", mapEntryBytesExpr(f))
		fmt.Fprintf(b, "\t\tbuf = wire.AppendTag(buf, %d, wire.TypeLengthDelimited)\n", f.Number)
		b.WriteString("\t\tbuf = wire.AppendLengthDelimited(buf, entry)\n")
		b.WriteString("\t}\n")
		return
	case f.Repeated && f.Packed:
		fmt.Fprintf(b, "\tif len(%s) > 0 {\n", access)
		b.WriteString("\t\tpayload := []byte(nil)\n")
		fmt.Fprintf(b, "\t\tfor _, v := range %s {\n", access)
		fmt.Fprintf(b, "\t\t\tpayload = %s\n", appendPackedElementExpr(f, "payload", "v"))
		b.WriteString("\t\t}\n")
		fmt.Fprintf(b, "\t\tbuf = append(buf, %s...)\n", tagVar)
		b.WriteString("\t\tbuf = wire.AppendLengthDelimited(buf, payload)\n")
		b.WriteString("\t}\n")
		return
	case f.Repeated && f.Kind == kindMessage:
		fmt.Fprintf(b, "\tfor _, v := range %s {\n", access)
		fmt.Fprintf(b, "\t\tbuf = append(buf, %s...)\n", tagVar)
		b.WriteString("\t\tbuf = wire.AppendLengthDelimited(buf, v.Encode())\n")
		b.WriteString("\t}\n")
		return
	case f.Repeated:
		fmt.Fprintf(b, "\tfor _, v := range %s {\n", access)
		fmt.Fprintf(b, "\t\tbuf = append(buf, %s...)\n", tagVar)
		fmt.Fprintf(b, "\t\tbuf = %s\n", appendPackedElementExpr(f, "buf", "v"))
		b.WriteString("\t}\n")
		return
	case f.Kind == kindMessage:
		fmt.Fprintf(b, "\tif %s != nil {\n", access)
		fmt.Fprintf(b, "\t\tbuf = append(buf, %s...)\n", tagVar)
		fmt.Fprintf(b, "\t\tbuf = wire.AppendLengthDelimited(buf, %s.Encode())\n", access)
		b.WriteString("\t}\n")
		return
	case f.Optional:
		fmt.Fprintf(b, "\tif %s != nil {\n", access)
		fmt.Fprintf(b, "\t\tbuf = append(buf, %s...)\n", tagVar)
		fmt.Fprintf(b, "\t\tbuf = %s\n", appendPackedElementExpr(f, "buf", "*"+access))
		b.WriteString("\t}\n")
		return
	default:
		fmt.Fprintf(b, "\tif %s {\n", nonZeroCond(f, access))
		fmt.Fprintf(b, "\t\tbuf = append(buf, %s...)\n", tagVar)
		fmt.Fprintf(b, "\t\tbuf = %s\n", appendPackedElementExpr(f, "buf", access))
		b.WriteString("\t}\n")
		return
	}
}

func nonZeroCond(f fieldSpec, access string) string {
	if f.Kind == kindEnum {
		return access + " != 0"
	}
	switch f.Scalar {
	case ast.ScalarString, ast.ScalarBytes:
		return "len(" + access + ") != 0"
	case ast.ScalarBool:
		return access
	default:
		return access + " != 0"
	}
}

func elementPayloadSizeExpr(f fieldSpec, elem string) string {
	if f.Kind == kindEnum {
		return fmt.Sprintf("wire.SizeVarint(uint64(%s))", elem)
	}
	return scalarPayloadSize(f.Scalar, elem)
}

func repeatedElementFramedSizeExpr(f fieldSpec, elem string) string {
	if f.Kind == kindEnum {
		return fmt.Sprintf("wire.SizeVarint(uint64(%s))", elem)
	}
	if f.Kind == kindMessage {
		return fmt.Sprintf("wire.SizeLengthDelimited(%s.CalcSize())", elem)
	}
	return scalarPayloadSize(f.Scalar, elem)
}

func appendPackedElementExpr(f fieldSpec, bufExpr, elem string) string {
	if f.Kind == kindEnum {
		return fmt.Sprintf("wire.AppendVarint(%s, uint64(%s))", bufExpr, elem)
	}
	return strings.Replace(appendScalarExpr(f.Scalar, elem), "buf", bufExpr, 1)
}

func mapEntrySizeExpr(f fieldSpec) string {
	keySize := scalarPayloadSize(f.KeyScalar, "k")
	var valSize string
	switch f.ValueKind {
	case kindMessage:
		valSize = "wire.SizeLengthDelimited(v.CalcSize())"
	case kindEnum:
		valSize = "wire.SizeVarint(uint64(v))"
	default:
		valSize = scalarPayloadSize(f.ValueScalar, "v")
	}
	return fmt.Sprintf("wire.SizeTag(wire.MapKeyFieldNumber, %s) + %s + wire.SizeTag(wire.MapValueFieldNumber, %s) + %s",
		wireType(f.KeyScalar), keySize, mapValueWireTypeExpr(f), valSize)
}

func mapValueWireTypeExpr(f fieldSpec) string {
	if f.ValueKind == kindEnum {
		return "wire.TypeVarint"
	}
	if f.ValueKind == kindMessage {
		return "wire.TypeLengthDelimited"
	}
	return wireType(f.ValueScalar)
}

func mapEntryBytesExpr(f fieldSpec) string {
	keyAppend := appendScalarExpr(f.KeyScalar, "k")
	var valAppend string
	switch f.ValueKind {
	case kindMessage:
		valAppend = "wire.AppendLengthDelimited(buf, v.Encode())"
	case kindEnum:
		valAppend = "wire.AppendVarint(buf, uint64(v))"
	default:
		valAppend = appendScalarExpr(f.ValueScalar, "v")
	}
	return fmt.Sprintf(`func() []byte {
			buf := wire.AppendTag(nil, wire.MapKeyFieldNumber, %s)
			buf = %s
			buf = wire.AppendTag(buf, wire.MapValueFieldNumber, %s)
			buf = %s
			return buf
		}()`,
		wireType(f.KeyScalar), keyAppend, mapValueWireTypeExpr(f), valAppend)
}
