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

// Message is a message declaration, top-level or nested. It owns every
// field, nested type, and reserved/extend declaration defined in its body.
type Message struct {
	Name     ScopedName
	Fields   []*NormalField
	Maps     []*MapField
	OneOfs   []*OneOf
	Enums    []*Enum
	Messages []*Message
	Extends  []*Extend
	Reserved []*Reserved
	Options  []*Option
	File     *ProtoFile
	Parent   *Message // enclosing message, nil for top-level messages
	Pos      SourcePos
}

// FullyQualifiedName returns the dotted name of this message including its
// package and any enclosing message scope, without a leading dot.
func (m *Message) FullyQualifiedName() ScopedName {
	return m.Name
}

// AllFieldNumbers returns every wire number occupied by a normal field, map
// field, or oneof field declared directly on this message (not counting
// nested messages). Nothing in this module calls it; field-number
// uniqueness and reserved-range clashes are not checked.
func (m *Message) AllFieldNumbers() []int32 {
	nums := make([]int32, 0, len(m.Fields)+len(m.Maps))
	for _, f := range m.Fields {
		nums = append(nums, f.Number)
	}
	for _, f := range m.Maps {
		nums = append(nums, f.Number)
	}
	for _, oo := range m.OneOfs {
		for _, f := range oo.Fields {
			nums = append(nums, f.Number)
		}
	}
	return nums
}
