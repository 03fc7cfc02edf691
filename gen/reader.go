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

// genReader emits the lazy reader type for a message (spec.md §4.6 item
// 3): a struct over the borrowed byte slice, scalar values decoded and
// stored inline during the single constructor scan, complex
// (length-delimited) occurrences kept as byte-range references so nested
// sub-readers are only built when an accessor is actually called.
func genReader(goName string, fields []fieldSpec) string {
	var b strings.Builder
	readerName := readerTypeName(goName)

	fmt.Fprintf(&b, "type %s struct {\n\tbuf []byte\n", readerName)
	for _, f := range fields {
		b.WriteString(readerStorageFields(f))
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func New%s(buf []byte) (*%s, error) {\n", readerName, readerName)
	fmt.Fprintf(&b, "\tr := &%s{buf: buf}\n", readerName)
	for _, f := range fields {
		// Plain (non-presence-tracked) proto2 fields have no Set flag to
		// consult in the getter, so a declared default is seeded here: left
		// untouched, it is what Get<Field> returns for a field never seen
		// on the wire (spec.md §4.6 "Default values").
		if f.HasDefault && !f.Optional {
			fmt.Fprintf(&b, "\tr.%sVal = %s\n", f.GoName, f.DefaultLiteral)
		}
	}
	b.WriteString("\tfor len(buf) > 0 {\n")
	b.WriteString("\t\tnum, wt, n, err := wire.ConsumeTag(buf)\n")
	b.WriteString("\t\tif err != nil {\n\t\t\treturn nil, err\n\t\t}\n")
	b.WriteString("\t\tbuf = buf[n:]\n")
	b.WriteString("\t\tswitch num {\n")
	for _, f := range fields {
		b.WriteString(readerDispatchCase(f))
	}
	b.WriteString("\t\tdefault:\n\t\t\tn, err := wire.SkipField(buf, wt)\n\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n\t\t\tbuf = buf[n:]\n")
	b.WriteString("\t\t}\n\t}\n\treturn r, nil\n}\n\n")

	for _, f := range fields {
		b.WriteString(readerAccessors(goName, readerName, f))
	}
	return b.String()
}

func readerStorageFields(f fieldSpec) string {
	var b strings.Builder
	switch {
	case f.Kind == kindMap:
		fmt.Fprintf(&b, "\t%sEntries [][]byte\n\t%sIdx int\n", f.GoName, f.GoName)
	case f.Repeated && f.Kind == kindMessage:
		fmt.Fprintf(&b, "\t%sRaw [][]byte\n\t%sIdx int\n", f.GoName, f.GoName)
	case f.Repeated:
		fmt.Fprintf(&b, "\t%sValues []%s\n\t%sIdx int\n", f.GoName, f.GoType, f.GoName)
	case f.Kind == kindMessage:
		fmt.Fprintf(&b, "\t%sRaw []byte\n\t%sSet bool\n", f.GoName, f.GoName)
	case f.Optional:
		fmt.Fprintf(&b, "\t%sVal %s\n\t%sSet bool\n", f.GoName, f.GoType, f.GoName)
	default:
		fmt.Fprintf(&b, "\t%sVal %s\n", f.GoName, f.GoType)
	}
	return b.String()
}

func readerDispatchCase(f fieldSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\t\tcase %d:\n", f.Number)

	switch {
	case f.Kind == kindMap:
		b.WriteString("\t\t\tpayload, n, err := wire.ConsumeLengthDelimited(buf)\n")
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\tr.%sEntries = append(r.%sEntries, payload)\n", f.GoName, f.GoName)
		b.WriteString("\t\t\tbuf = buf[n:]\n")

	case f.Repeated && f.Kind == kindMessage:
		b.WriteString("\t\t\tpayload, n, err := wire.ConsumeLengthDelimited(buf)\n")
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\tr.%sRaw = append(r.%sRaw, payload)\n", f.GoName, f.GoName)
		b.WriteString("\t\t\tbuf = buf[n:]\n")

	case f.Repeated:
		b.WriteString(readerRepeatedScalarDecode(f))

	case f.Kind == kindMessage:
		b.WriteString("\t\t\tpayload, n, err := wire.ConsumeLengthDelimited(buf)\n")
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\tr.%sRaw = payload\n\t\t\tr.%sSet = true\n", f.GoName, f.GoName)
		b.WriteString("\t\t\tbuf = buf[n:]\n")

	case f.Optional:
		code, nVar := consumeScalarFrom("buf", f, "v")
		b.WriteString(code)
		fmt.Fprintf(&b, "\t\t\tr.%sVal = v\n\t\t\tr.%sSet = true\n", f.GoName, f.GoName)
		fmt.Fprintf(&b, "\t\t\tbuf = buf[%s:]\n", nVar)

	default:
		code, nVar := consumeScalarFrom("buf", f, "v")
		b.WriteString(code)
		fmt.Fprintf(&b, "\t\t\tr.%sVal = v\n", f.GoName)
		fmt.Fprintf(&b, "\t\t\tbuf = buf[%s:]\n", nVar)
	}
	return b.String()
}

// readerRepeatedScalarDecode handles both the packed form (a single
// length-delimited record of concatenated elements) and the unpacked form
// (one tag per element), since spec.md §4.5 requires readers to accept
// either regardless of what the schema declares.
func readerRepeatedScalarDecode(f fieldSpec) string {
	var b strings.Builder
	elemCode, elemN := consumeScalarFrom("payload", f, "elem")
	singleCode, singleN := consumeScalarFrom("buf", f, "v")

	b.WriteString("\t\t\tif wt == wire.TypeLengthDelimited && " + packedEligible(f) + " {\n")
	b.WriteString("\t\t\t\tpayload, framedN, err := wire.ConsumeLengthDelimited(buf)\n")
	b.WriteString("\t\t\t\tif err != nil {\n\t\t\t\t\treturn nil, err\n\t\t\t\t}\n")
	b.WriteString("\t\t\t\tfor len(payload) > 0 {\n")
	b.WriteString(elemCode)
	fmt.Fprintf(&b, "\t\t\t\t\tr.%sValues = append(r.%sValues, elem)\n", f.GoName, f.GoName)
	fmt.Fprintf(&b, "\t\t\t\t\tpayload = payload[%s:]\n", elemN)
	b.WriteString("\t\t\t\t}\n")
	b.WriteString("\t\t\t\tbuf = buf[framedN:]\n")
	b.WriteString("\t\t\t} else {\n")
	b.WriteString(singleCode)
	fmt.Fprintf(&b, "\t\t\t\tr.%sValues = append(r.%sValues, v)\n", f.GoName, f.GoName)
	fmt.Fprintf(&b, "\t\t\t\tbuf = buf[%s:]\n", singleN)
	b.WriteString("\t\t\t}\n")
	return b.String()
}

func packedEligible(f fieldSpec) string {
	if f.Kind == kindEnum {
		return "true"
	}
	if f.Kind == kindScalar && (f.Scalar == ast.ScalarString || f.Scalar == ast.ScalarBytes) {
		return "false"
	}
	return "true"
}

// consumeScalarFrom emits the statements that decode one scalar/enum value
// named resultVar from the front of bufVar. All intermediate variables
// (including the bytes-consumed count) are named after resultVar so that
// multiple calls can be inlined into the same function scope without
// colliding; nVar is the name of the resulting bytes-consumed variable,
// which the caller is responsible for using (to advance a cursor) or
// explicitly discarding.
func consumeScalarFrom(bufVar string, f fieldSpec, resultVar string) (code string, nVar string) {
	var b strings.Builder
	nVar = resultVar + "N"
	rawVar := resultVar + "Raw"
	if f.Kind == kindEnum {
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeVarint(%s)\n", rawVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\t%s := %s(int32(%s))\n", resultVar, f.GoType, rawVar)
		return b.String(), nVar
	}
	switch f.Scalar {
	case ast.ScalarInt32, ast.ScalarInt64, ast.ScalarUint32, ast.ScalarUint64:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeVarint(%s)\n", rawVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\t%s := %s(%s)\n", resultVar, f.GoType, rawVar)
	case ast.ScalarBool:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeVarint(%s)\n", rawVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\t%s := varintToBool(%s)\n", resultVar, rawVar)
	case ast.ScalarSint32:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeVarint(%s)\n", rawVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\t%s := wire.DecodeZigZag32(uint32(%s))\n", resultVar, rawVar)
	case ast.ScalarSint64:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeVarint(%s)\n", rawVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\t%s := wire.DecodeZigZag64(%s)\n", resultVar, rawVar)
	case ast.ScalarFixed32:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeFixed32(%s)\n", resultVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
	case ast.ScalarSfixed32:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeFixed32(%s)\n", rawVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\t%s := int32(%s)\n", resultVar, rawVar)
	case ast.ScalarFloat:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeFixed32(%s)\n", rawVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\t%s := math.Float32frombits(%s)\n", resultVar, rawVar)
	case ast.ScalarFixed64:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeFixed64(%s)\n", resultVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
	case ast.ScalarSfixed64:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeFixed64(%s)\n", rawVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\t%s := int64(%s)\n", resultVar, rawVar)
	case ast.ScalarDouble:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeFixed64(%s)\n", rawVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\t%s := math.Float64frombits(%s)\n", resultVar, rawVar)
	case ast.ScalarString:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeLengthDelimited(%s)\n", rawVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		fmt.Fprintf(&b, "\t\t\t%s := string(%s)\n", resultVar, rawVar)
	case ast.ScalarBytes:
		fmt.Fprintf(&b, "\t\t\t%s, %s, err := wire.ConsumeLengthDelimited(%s)\n", resultVar, nVar, bufVar)
		b.WriteString("\t\t\tif err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
	}
	return b.String(), nVar
}

// readerAccessors emits the public accessor methods for one field:
// Get<Field> for singular fields, <Field>Count/Next<Field> for repeated
// and map fields.
func readerAccessors(goName, readerName string, f fieldSpec) string {
	var b strings.Builder
	accessorName := pascalCase(f.ProtoName)

	switch {
	case f.Kind == kindMap:
		fmt.Fprintf(&b, "func (r *%s) %sCount() int { return len(r.%sEntries) }\n\n", readerName, accessorName, f.GoName)
		fmt.Fprintf(&b, "func (r *%s) Next%s() (%s, %s, bool) {\n", readerName, accessorName, f.KeyGoType, mapValueReaderType(f))
		fmt.Fprintf(&b, "\tif r.%sIdx >= len(r.%sEntries) {\n\t\tvar zk %s\n\t\tvar zv %s\n\t\treturn zk, zv, false\n\t}\n",
			f.GoName, f.GoName, f.KeyGoType, mapValueReaderType(f))
		fmt.Fprintf(&b, "\tentry, err := wire.ConsumeMapEntry(r.%sEntries[r.%sIdx])\n", f.GoName, f.GoName)
		fmt.Fprintf(&b, "\tr.%sIdx++\n", f.GoName)
		b.WriteString("\tif err != nil {\n")
		fmt.Fprintf(&b, "\t\tvar zk %s\n\t\tvar zv %s\n\t\treturn zk, zv, false\n\t}\n", f.KeyGoType, mapValueReaderType(f))
		b.WriteString(mapEntryDecodeBody(f))
		b.WriteString("}\n\n")
		return b.String()

	case f.Repeated && f.Kind == kindMessage:
		fmt.Fprintf(&b, "func (r *%s) %sCount() int { return len(r.%sRaw) }\n\n", readerName, accessorName, f.GoName)
		fmt.Fprintf(&b, "func (r *%s) Next%s() (*%s, bool) {\n", readerName, accessorName, readerTypeName(f.GoType))
		fmt.Fprintf(&b, "\tif r.%sIdx >= len(r.%sRaw) {\n\t\treturn nil, false\n\t}\n", f.GoName, f.GoName)
		fmt.Fprintf(&b, "\tsub, err := New%s(r.%sRaw[r.%sIdx])\n", readerTypeName(f.GoType), f.GoName, f.GoName)
		fmt.Fprintf(&b, "\tr.%sIdx++\n", f.GoName)
		b.WriteString("\tif err != nil {\n\t\treturn nil, false\n\t}\n")
		b.WriteString("\treturn sub, true\n}\n\n")
		return b.String()

	case f.Repeated:
		fmt.Fprintf(&b, "func (r *%s) %sCount() int { return len(r.%sValues) }\n\n", readerName, accessorName, f.GoName)
		fmt.Fprintf(&b, "func (r *%s) Next%s() (%s, bool) {\n", readerName, accessorName, f.GoType)
		fmt.Fprintf(&b, "\tif r.%sIdx >= len(r.%sValues) {\n\t\tvar z %s\n\t\treturn z, false\n\t}\n", f.GoName, f.GoName, f.GoType)
		fmt.Fprintf(&b, "\tv := r.%sValues[r.%sIdx]\n\tr.%sIdx++\n\treturn v, true\n}\n\n", f.GoName, f.GoName, f.GoName)
		return b.String()

	case f.Kind == kindMessage:
		fmt.Fprintf(&b, "func (r *%s) Get%s() (*%s, bool) {\n", readerName, accessorName, readerTypeName(f.GoType))
		fmt.Fprintf(&b, "\tif !r.%sSet {\n\t\treturn nil, false\n\t}\n", f.GoName)
		fmt.Fprintf(&b, "\tsub, err := New%s(r.%sRaw)\n", readerTypeName(f.GoType), f.GoName)
		b.WriteString("\tif err != nil {\n\t\treturn nil, false\n\t}\n")
		b.WriteString("\treturn sub, true\n}\n\n")
		return b.String()

	case f.Optional:
		fmt.Fprintf(&b, "func (r *%s) Get%s() (%s, bool) {\n", readerName, accessorName, f.GoType)
		if f.HasDefault {
			fmt.Fprintf(&b, "\tif !r.%sSet {\n\t\treturn %s, false\n\t}\n", f.GoName, f.DefaultLiteral)
			fmt.Fprintf(&b, "\treturn r.%sVal, true\n}\n\n", f.GoName)
		} else {
			fmt.Fprintf(&b, "\treturn r.%sVal, r.%sSet\n}\n\n", f.GoName, f.GoName)
		}
		return b.String()

	default:
		fmt.Fprintf(&b, "func (r *%s) Get%s() %s {\n\treturn r.%sVal\n}\n\n", readerName, accessorName, f.GoType, f.GoName)
		return b.String()
	}
}

func mapValueReaderType(f fieldSpec) string {
	if f.ValueKind == kindMessage {
		return "*" + readerTypeName(f.ValueGoType)
	}
	return f.ValueGoType
}

func mapEntryDecodeBody(f fieldSpec) string {
	var b strings.Builder
	keyCode, keyN := consumeScalarFrom("entry.KeyPayload", fieldSpec{Kind: kindScalar, Scalar: f.KeyScalar, GoType: f.KeyGoType}, "key")
	b.WriteString(strings.ReplaceAll(strings.TrimSpace(keyCode), "\n\t\t\t", "\n\t"))
	fmt.Fprintf(&b, "\n\t_ = %s\n", keyN)
	switch f.ValueKind {
	case kindMessage:
		fmt.Fprintf(&b, "\tvalPayload, _, err := wire.ConsumeLengthDelimited(entry.ValuePayload)\n")
		b.WriteString("\tif err != nil {\n")
		fmt.Fprintf(&b, "\t\tvar zk %s\n\t\tvar zv %s\n\t\treturn zk, zv, false\n\t}\n", f.KeyGoType, mapValueReaderType(f))
		fmt.Fprintf(&b, "\tval, err := New%s(valPayload)\n", readerTypeName(f.ValueGoType))
		b.WriteString("\tif err != nil {\n")
		fmt.Fprintf(&b, "\t\tvar zk %s\n\t\tvar zv %s\n\t\treturn zk, zv, false\n\t}\n", f.KeyGoType, mapValueReaderType(f))
		b.WriteString("\treturn key, val, true\n")
	case kindEnum:
		valCode, valN := consumeScalarFrom("entry.ValuePayload", fieldSpec{Kind: kindEnum, GoType: f.ValueGoType}, "val")
		b.WriteString(strings.ReplaceAll(strings.TrimSpace(valCode), "\n\t\t\t", "\n\t"))
		fmt.Fprintf(&b, "\n\t_ = %s\n\treturn key, val, true\n", valN)
	default:
		valCode, valN := consumeScalarFrom("entry.ValuePayload", fieldSpec{Kind: kindScalar, Scalar: f.ValueScalar, GoType: f.ValueGoType}, "val")
		b.WriteString(strings.ReplaceAll(strings.TrimSpace(valCode), "\n\t\t\t", "\n\t"))
		fmt.Fprintf(&b, "\n\t_ = %s\n\treturn key, val, true\n", valN)
	}
	return b.String()
}
