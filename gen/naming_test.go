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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascalCase(t *testing.T) {
	cases := map[string]string{
		"user_id":    "UserId",
		"name":       "Name",
		"http_url":   "HttpUrl",
		"already":    "Already",
		"a_b_c":      "ABC",
		"":           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, pascalCase(in), "pascalCase(%q)", in)
	}
}

func TestLowerSnakeCase(t *testing.T) {
	assert.Equal(t, "user_id", lowerSnakeCase("user_id"))
	assert.Equal(t, "user_id", lowerSnakeCase("userId"))
	assert.Equal(t, "http_url", lowerSnakeCase("httpUrl"))
	assert.Equal(t, "name", lowerSnakeCase("name"))
}

func TestWireConstName(t *testing.T) {
	assert.Equal(t, "USER_ID_WIRE", wireConstName("user_id"))
	assert.Equal(t, "NAME_WIRE", wireConstName("name"))
}

func TestDisambiguatorResolvesCollisions(t *testing.T) {
	d := newDisambiguator()
	assert.Equal(t, "x", d.Resolve("x"))
	assert.Equal(t, "x2", d.Resolve("x"))
	assert.Equal(t, "x3", d.Resolve("x"))
	assert.Equal(t, "y", d.Resolve("y"))
}

func TestReaderAndWriterTypeNames(t *testing.T) {
	assert.Equal(t, "Invoice", writerTypeName("Invoice"))
	assert.Equal(t, "InvoiceReader", readerTypeName("Invoice"))
}
