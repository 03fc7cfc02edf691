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

// EnumField is one "name = index;" entry in an enum body. Index need not be
// unique across a single Enum: when the enum's "allow_alias" option is set,
// two fields may share an index, in which case both are kept and emitted
// in source (insertion) order.
type EnumField struct {
	Name    string
	Index   int32
	Options []*Option
	Pos     SourcePos
}

// Enum is a top-level or nested enum declaration.
type Enum struct {
	Name        ScopedName
	Fields      []*EnumField
	Options     []*Option
	Reserved    []*Reserved
	AllowAlias  bool
	File        *ProtoFile // owning file, set at parse time
	ParentMsg   *Message   // enclosing message, nil for top-level enums
	Pos         SourcePos
}

// FullyQualifiedName returns the dotted name of this enum including its
// package and any enclosing message scope, without a leading dot.
func (e *Enum) FullyQualifiedName() ScopedName {
	return e.Name
}

// HasZeroValue reports whether any field in the enum has index 0, as
// proto3 requires. The generator synthesizes "UNKNOWN = 0" when this is
// false so that wire-unknown values always have a defined target.
func (e *Enum) HasZeroValue() bool {
	for _, f := range e.Fields {
		if f.Index == 0 {
			return true
		}
	}
	return false
}
