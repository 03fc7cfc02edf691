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

// messageGoName returns the Go type name for a message, nested messages
// qualified by their enclosing message's name joined with "_" (the
// convention protoc-gen-go uses for nested scoping, since Go has no true
// nested type declarations).
func messageGoName(m *ast.Message) string {
	parts := []string{pascalCase(m.Name.Last())}
	for p := m.Parent; p != nil; p = p.Parent {
		parts = append([]string{pascalCase(p.Name.Last())}, parts...)
	}
	return strings.Join(parts, "_")
}

// enumGoName returns the Go type name for an enum, qualified the same way
// as messageGoName when the enum is nested inside a message.
func enumGoName(e *ast.Enum) string {
	name := pascalCase(e.Name.Last())
	if e.ParentMsg != nil {
		return messageGoName(e.ParentMsg) + "_" + name
	}
	return name
}

// genEnum emits a named int32 type, its constant block, and an
// UNKNOWN = 0 synthesized entry when the source enum has no zero value
// (spec.md §4.6).
func genEnum(e *ast.Enum, _ string) string {
	typeName := enumGoName(e)
	var b strings.Builder
	fmt.Fprintf(&b, "type %s int32\n\n", typeName)
	b.WriteString("const (\n")
	if !e.HasZeroValue() {
		fmt.Fprintf(&b, "\t%s_UNKNOWN %s = 0\n", typeName, typeName)
	}
	d := newDisambiguator()
	for _, f := range e.Fields {
		constName := d.Resolve(strings.ToUpper(f.Name))
		fmt.Fprintf(&b, "\t%s_%s %s = %d\n", typeName, constName, typeName, f.Index)
	}
	b.WriteString(")\n\n")
	return b.String()
}
