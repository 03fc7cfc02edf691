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

package wire

// MapKeyFieldNumber and MapValueFieldNumber are the implicit field numbers
// every map entry submessage uses, per spec.md §4.5.
const (
	MapKeyFieldNumber   int32 = 1
	MapValueFieldNumber int32 = 2
)

// MapEntry is the decoded view of one map entry's key/value payload
// slices, as found inside the length-delimited submessage a map field's
// wire encoding produces. A missing key or value slice means the
// generated reader must substitute that component's zero value.
type MapEntry struct {
	KeyWireType   Type
	KeyPayload    []byte
	ValueWireType Type
	ValuePayload  []byte
}

// ConsumeMapEntry splits a map entry submessage's payload into its raw key
// and value field payloads, leaving their interpretation (scalar decode or
// nested sub-reader construction) to the generated reader.
func ConsumeMapEntry(buf []byte) (MapEntry, error) {
	var e MapEntry
	for len(buf) > 0 {
		num, wt, tagLen, err := ConsumeTag(buf)
		if err != nil {
			return MapEntry{}, err
		}
		buf = buf[tagLen:]
		n, err := SkipField(buf, wt)
		if err != nil {
			return MapEntry{}, err
		}
		payload := buf[:n]
		switch num {
		case MapKeyFieldNumber:
			e.KeyWireType = wt
			e.KeyPayload = payload
		case MapValueFieldNumber:
			e.ValueWireType = wt
			e.ValuePayload = payload
		}
		buf = buf[n:]
	}
	return e, nil
}
