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
	"strconv"
	"strings"

	"github.com/outwire/protocore/ast"
)

// genMessage emits the wire-number constant block, the writer type, and
// the lazy reader type for m, then recurses into nested enums/messages
// (spec.md §4.6 "nested scoping": every cross-reference uses the
// fully-qualified, i.e. flattened-with-underscores, Go name).
func genMessage(gf *File, m *ast.Message, _ string) (string, error) {
	goName := messageGoName(m)
	fields, err := collectFields(gf, m)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(genWireNumbers(goName, fields))
	b.WriteString(genWriter(goName, fields))
	b.WriteString(genReader(goName, fields))

	for _, e := range m.Enums {
		b.WriteString(genEnum(e, ""))
	}
	for _, nested := range m.Messages {
		out, err := genMessage(gf, nested, "")
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// fieldKind discriminates the shape of a message field for codegen
// purposes once maps and oneofs are flattened alongside normal fields.
type fieldKind int

const (
	kindScalar fieldKind = iota
	kindMessage
	kindEnum
	kindMap
)

// fieldSpec is the generator's normalized view of one emitted field,
// merging ast.NormalField, ast.MapField, and ast.OneOfField into a single
// shape so the writer/reader emitters don't need three code paths.
type fieldSpec struct {
	ProtoName string
	GoName    string
	Number    int32
	Repeated  bool
	Optional  bool // proto2/proto3-explicit presence tracking: pointer storage
	Kind      fieldKind
	Scalar    ast.ScalarKind
	GoType    string // element Go type (without slice/pointer wrapping)
	WireType  string // Go source expression for the wire.Type constant
	Packed    bool

	// HasDefault and DefaultLiteral carry a proto2 "[default = ...]"
	// declaration (spec.md §4.6 "Default values") as a ready-to-splice Go
	// source expression of type GoType, so an unset field's getter can
	// return it instead of the Go zero value.
	HasDefault     bool
	DefaultLiteral string

	// Map-only.
	KeyScalar   ast.ScalarKind
	KeyGoType   string
	ValueKind   fieldKind
	ValueScalar ast.ScalarKind
	ValueGoType string
}

func collectFields(gf *File, m *ast.Message) ([]fieldSpec, error) {
	var specs []fieldSpec
	for _, f := range m.Fields {
		spec, err := fieldSpecFor(gf, f.Name, f.Number, f.Type, f.Label, f.Options)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	for _, mf := range m.Maps {
		spec := fieldSpec{
			ProtoName: mf.Name,
			GoName:    pascalCase(mf.Name),
			Number:    mf.Number,
			Kind:      kindMap,
			WireType:  "wire.TypeLengthDelimited",
		}
		spec.KeyScalar = mf.KeyType.Scalar
		spec.KeyGoType = goType(mf.KeyType.Scalar)
		if mf.ValueType.IsScalar() {
			spec.ValueKind = kindScalar
			spec.ValueScalar = mf.ValueType.Scalar
			spec.ValueGoType = goType(mf.ValueType.Scalar)
		} else {
			vt, kind, err := refGoType(gf, &mf.ValueType)
			if err != nil {
				return nil, err
			}
			spec.ValueKind = kind
			spec.ValueGoType = vt
		}
		specs = append(specs, spec)
	}
	for _, oo := range m.OneOfs {
		for _, f := range oo.Fields {
			// Oneof membership provides presence tracking but is not
			// modeled as a sealed Go sum type here: each alternative is
			// emitted as its own always-optional field, pointer-typed so
			// an unset alternative is distinguishable from its zero value.
			spec, err := fieldSpecFor(gf, f.Name, f.Number, f.Type, ast.LabelOptional, f.Options)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

func fieldSpecFor(gf *File, name string, number int32, t ast.FieldType, label ast.Label, opts ast.FieldOptions) (fieldSpec, error) {
	spec := fieldSpec{
		ProtoName: name,
		GoName:    pascalCase(name),
		Number:    number,
		Repeated:  label == ast.LabelRepeated,
		Optional:  label == ast.LabelOptional,
	}
	// packed is the wire default only in proto3 (spec.md §6); proto2
	// defaults to unpacked unless "[packed = true]" is written explicitly.
	packedByDefault := gf.Proto.Syntax == ast.SyntaxProto3
	if t.IsScalar() {
		spec.Kind = kindScalar
		spec.Scalar = t.Scalar
		spec.GoType = goType(t.Scalar)
		spec.WireType = wireType(t.Scalar)
		spec.Packed = spec.Repeated && packedByDefault && (t.Scalar.IsVarint() || t.Scalar.IsFixed32() || t.Scalar.IsFixed64())
		if opts.HasPacked {
			spec.Packed = spec.Repeated && opts.Packed
		}
		if opts.HasDefault && !spec.Repeated {
			spec.HasDefault = true
			spec.DefaultLiteral = scalarDefaultLiteral(t.Scalar, spec.GoType, opts.Default)
		}
		return spec, nil
	}
	goTypeName, kind, err := refGoType(gf, &t)
	if err != nil {
		return fieldSpec{}, err
	}
	spec.Kind = kind
	spec.GoType = goTypeName
	if kind == kindMessage && !spec.Repeated {
		// Submessage presence is always pointer-tracked, independent of
		// the field's declared label: a message field's "unset" and "set
		// to its zero value" are different wire states.
		spec.Optional = true
	}
	spec.WireType = "wire.TypeLengthDelimited"
	if kind == kindEnum {
		spec.WireType = "wire.TypeVarint"
		spec.Packed = spec.Repeated && packedByDefault
		if opts.HasPacked {
			spec.Packed = spec.Repeated && opts.Packed
		}
		if opts.HasDefault && !spec.Repeated {
			spec.HasDefault = true
			spec.DefaultLiteral = fmt.Sprintf("%s_%s", spec.GoType, strings.ToUpper(opts.Default.Ident.Last()))
		}
	}
	return spec, nil
}

// scalarDefaultLiteral renders a proto2 "[default = ...]" scalar value
// (ast/field.go's OptionValue) as a Go source expression of type goType,
// per spec.md §4.6 "Default values".
func scalarDefaultLiteral(scalar ast.ScalarKind, goType string, v ast.OptionValue) string {
	switch scalar {
	case ast.ScalarBool:
		return strconv.FormatBool(v.Bool)
	case ast.ScalarString:
		return strconv.Quote(v.Str)
	case ast.ScalarBytes:
		return fmt.Sprintf("[]byte(%s)", strconv.Quote(v.Str))
	case ast.ScalarFloat, ast.ScalarDouble:
		return fmt.Sprintf("%s(%s)", goType, strconv.FormatFloat(v.Float, 'g', -1, 64))
	default:
		return fmt.Sprintf("%s(%s)", goType, strconv.FormatInt(v.Int, 10))
	}
}

// refGoType resolves a non-scalar FieldType to its Go type name and
// fieldKind. It requires the resolver to have already set Ref/RefMsg/
// RefEnum; an unresolved reference here indicates a bug upstream.
func refGoType(gf *File, t *ast.FieldType) (string, fieldKind, error) {
	switch t.Ref {
	case ast.RefLocalMessage:
		return messageGoName(t.RefMsg), kindMessage, nil
	case ast.RefLocalEnum:
		return enumGoName(t.RefEnum), kindEnum, nil
	case ast.RefExternalMessage:
		_, alias := gf.Resolve(gf.Proto, t.RefImport.Target)
		return alias + "." + messageGoName(t.RefMsg), kindMessage, nil
	case ast.RefExternalEnum:
		_, alias := gf.Resolve(gf.Proto, t.RefImport.Target)
		return alias + "." + enumGoName(t.RefEnum), kindEnum, nil
	default:
		return "", 0, fmt.Errorf("field type %q was never resolved", t.Name.String())
	}
}
