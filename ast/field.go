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

package ast

// ScalarKind enumerates the built-in scalar wire types.
type ScalarKind int

const (
	ScalarNone ScalarKind = iota
	ScalarInt32
	ScalarInt64
	ScalarUint32
	ScalarUint64
	ScalarSint32
	ScalarSint64
	ScalarFixed32
	ScalarFixed64
	ScalarSfixed32
	ScalarSfixed64
	ScalarFloat
	ScalarDouble
	ScalarBool
	ScalarString
	ScalarBytes
)

// IsVarint reports whether the scalar is wire-encoded as a varint (wire
// type 0).
func (k ScalarKind) IsVarint() bool {
	switch k {
	case ScalarInt32, ScalarInt64, ScalarUint32, ScalarUint64, ScalarSint32, ScalarSint64, ScalarBool:
		return true
	}
	return false
}

// IsFixed64 reports whether the scalar is wire-encoded as a fixed64 (wire
// type 1).
func (k ScalarKind) IsFixed64() bool {
	return k == ScalarFixed64 || k == ScalarSfixed64 || k == ScalarDouble
}

// IsFixed32 reports whether the scalar is wire-encoded as a fixed32 (wire
// type 5).
func (k ScalarKind) IsFixed32() bool {
	return k == ScalarFixed32 || k == ScalarSfixed32 || k == ScalarFloat
}

// IsLengthDelimited reports whether the scalar is wire-encoded as a
// length-delimited record (wire type 2): strings and bytes.
func (k ScalarKind) IsLengthDelimited() bool {
	return k == ScalarString || k == ScalarBytes
}

// IsZigZag reports whether the scalar's varint encoding is zig-zag
// transformed (the "sint" family).
func (k ScalarKind) IsZigZag() bool {
	return k == ScalarSint32 || k == ScalarSint64
}

// RefKind discriminates what a resolved named FieldType points at.
type RefKind int

const (
	RefUnresolved RefKind = iota
	RefLocalEnum
	RefLocalMessage
	RefExternalEnum
	RefExternalMessage
)

// FieldType discriminates a field's declared type: a built-in scalar, or a
// named reference to an enum or message that the resolver fills in.
type FieldType struct {
	Scalar ScalarKind // ScalarNone when this is a named reference

	// Named-reference fields; meaningful only when Scalar == ScalarNone.
	Name  ScopedName // as written in source, possibly absolute
	Scope ScopedName // the scope enclosing the field declaration, at parse time

	Ref       RefKind
	RefEnum   *Enum
	RefMsg    *Message
	RefImport *Import // set only for RefExternal*

	// ScopeRef records the file that originally defined the field, set
	// when the field was copied into a message via "extend" so that later
	// resolution of its type runs against the defining file's scope, not
	// the extending message's file.
	ScopeRef *ProtoFile
}

// IsScalar reports whether this FieldType names a built-in scalar, string,
// or bytes, as opposed to a message/enum reference.
func (t FieldType) IsScalar() bool {
	return t.Scalar != ScalarNone
}

// Label is a proto2-only field presence/repetition marker. proto3 fields
// are always LabelSingular unless "optional" is explicitly written, in
// which case LabelOptional is recorded for presence tracking.
type Label int

const (
	LabelSingular Label = iota
	LabelOptional
	LabelRequired
	LabelRepeated
)

// FieldOptions holds the field options the generator interprets (spec.md
// §6); anything else encountered in a field's compact or bracketed option
// list is retained in Extra but ignored by generation.
type FieldOptions struct {
	HasDefault bool
	Default    OptionValue
	Deprecated bool
	HasPacked  bool
	Packed     bool
	JSONName   string
	Extra      []*Option
}

// NormalField is a scalar, string, bytes, enum, or message-valued field
// declared directly in a message body (not inside a oneof, not a map).
type NormalField struct {
	Name    string
	Number  int32
	Type    FieldType
	Label   Label
	Options FieldOptions
	Pos     SourcePos
}

// MapField is a "map<key_type, value_type> name = N;" declaration. Map
// entries are wire-encoded as an implicit submessage with field 1 = key,
// field 2 = value (spec.md §4.5).
type MapField struct {
	Name      string
	Number    int32
	KeyType   FieldType
	ValueType FieldType
	Options   FieldOptions
	Pos       SourcePos
}

// OneOfField is shaped like NormalField but its label is always implicit;
// membership in the oneof itself provides presence tracking.
type OneOfField struct {
	Name    string
	Number  int32
	Type    FieldType
	Options FieldOptions
	Pos     SourcePos
}

// OneOf is a "oneof name { ... }" declaration. The set of fields across all
// of a message's oneofs is disjoint from each other and from its normal
// and map fields (spec.md §3 invariant).
type OneOf struct {
	Name   string
	Fields []*OneOfField
	Pos    SourcePos
}

// ReservedKind discriminates whether a Reserved declaration names numeric
// ranges or field names.
type ReservedKind int

const (
	ReservedNumbers ReservedKind = iota
	ReservedNames
)

// ReservedRange is an inclusive range of reserved field numbers. End may
// equal MaxFieldNumber to represent "to max".
type ReservedRange struct {
	Start int32
	End   int32
}

// MaxFieldNumber is the largest field number the wire format allows.
const MaxFieldNumber = 536870911

// Reserved is a "reserved ...;" declaration. Only numeric ranges affect
// code generation (a reserved number can never be reused); reserved names
// participate in validation only (spec.md §3).
type Reserved struct {
	Kind   ReservedKind
	Ranges []ReservedRange
	Names  []string
	Pos    SourcePos
}

// Extend is an "extend Base { ... }" declaration. Resolution (package
// resolver) replaces each Extend node's effect by copying its Fields onto
// the resolved base Message; the Extend node itself is retained on the
// owning file/message for diagnostics but no longer drives generation
// after that copy happens.
type Extend struct {
	Base   ScopedName
	Fields []*NormalField
	Pos    SourcePos

	// Scope is the enclosing scope at the point "extend" was written: the
	// owning message's fully-qualified name, or the file's package for a
	// top-level extend. Used by the resolver's local-scope search
	// (spec.md §4.4 Pass B step 1a).
	Scope ScopedName
	// File is the file that declared this extend.
	File *ProtoFile
	// ParentMsg is the enclosing message, or nil for a top-level extend.
	ParentMsg *Message
}
