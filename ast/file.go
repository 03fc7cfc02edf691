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

// Syntax is the declared proto syntax version.
type Syntax int

const (
	// SyntaxProto2 is assumed when no syntax statement is present.
	SyntaxProto2 Syntax = iota
	SyntaxProto3
)

func (s Syntax) String() string {
	if s == SyntaxProto3 {
		return "proto3"
	}
	return "proto2"
}

// ImportType distinguishes the three import flavors a .proto file can
// declare.
type ImportType int

const (
	ImportNormal ImportType = iota
	ImportPublic
	ImportWeak
)

// Import records one "import" statement. Target is filled in by the
// resolver (package resolver, Pass A) and is nil until then; it is a
// non-owning back-reference into the file set being resolved together.
type Import struct {
	Path   string
	Type   ImportType
	Pos    SourcePos
	Target *ProtoFile
}

// ProtoFile is the root of a single parsed .proto file's AST. It owns
// every node reachable from it; Import.Target, parent back-references, and
// FieldType reference fields are the only non-owning links, and their
// validity is tied to the lifetime of the set of ProtoFiles resolved
// together (see package resolver).
type ProtoFile struct {
	Path        string
	Syntax      Syntax
	HasSyntax   bool
	Package     ScopedName
	HasPackage  bool
	Imports     []*Import
	Enums       []*Enum
	Messages    []*Message
	Services    []*Service
	Extends     []*Extend // top-level "extend Base { ... }" not nested in any message
	Options     []*Option
	WellKnownAs string // canonical "google/protobuf/*.proto" path, set only for bundled files
}

// Service is recorded for completeness (spec scope: parsed, never
// code-generated).
type Service struct {
	Name    string
	Methods []*Method
	Options []*Option
	Pos     SourcePos
}

type Method struct {
	Name            string
	InputType       FieldType
	OutputType      FieldType
	ClientStreaming bool
	ServerStreaming bool
	Options         []*Option
	Pos             SourcePos
}

// Option is a generic "name = value" or "name = { ... }" option. Only the
// well-known field options (default, deprecated, packed, json_name) are
// interpreted by the generator; everything else is parsed and retained
// verbatim so a later consumer could inspect it, but has no effect on
// generation.
type Option struct {
	Name  ScopedName
	Value OptionValue
	Pos   SourcePos
}

// OptionValue is a tagged union over the literal kinds an option's value
// can take. Exactly one of the typed fields is meaningful, selected by
// Kind.
type OptionValue struct {
	Kind    OptionValueKind
	Bool    bool
	Int     int64
	Float   float64
	Str     string
	Ident   ScopedName
	Message []*Option // nested "{ ... }" aggregate value
	List    []OptionValue
}

type OptionValueKind int

const (
	OptionValueBool OptionValueKind = iota
	OptionValueInt
	OptionValueFloat
	OptionValueString
	OptionValueIdent
	OptionValueMessage
	OptionValueList
)
