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

// AppendLengthDelimited appends a varint length prefix followed by
// payload verbatim; used for strings, bytes, embedded messages, and
// packed repeated scalars.
func AppendLengthDelimited(buf []byte, payload []byte) []byte {
	buf = AppendVarint(buf, uint64(len(payload)))
	return append(buf, payload...)
}

// SizeLengthDelimited returns the encoded size of a length-delimited
// record carrying payloadLen bytes, not counting the tag.
func SizeLengthDelimited(payloadLen int) int {
	return SizeVarint(uint64(payloadLen)) + payloadLen
}

// ConsumeLengthDelimited reads a varint length prefix from the front of
// buf and returns the sub-slice it frames (a view into buf, no copy) and
// the total number of bytes consumed including the prefix.
func ConsumeLengthDelimited(buf []byte) (payload []byte, n int, err error) {
	length, prefixLen, err := ConsumeVarint(buf)
	if err != nil {
		return nil, 0, err
	}
	end := prefixLen + int(length)
	if end < prefixLen || end > len(buf) {
		return nil, 0, ErrTruncated
	}
	return buf[prefixLen:end], end, nil
}

// SkipField advances past one field's payload given its wire type,
// without interpreting it; used both by generated readers' fallthrough
// case for unknown field numbers and for legacy groups. Returns the
// number of bytes consumed.
func SkipField(buf []byte, wireType Type) (n int, err error) {
	switch wireType {
	case TypeVarint:
		_, n, err = ConsumeVarint(buf)
		return n, err
	case TypeFixed64:
		if len(buf) < 8 {
			return 0, ErrTruncated
		}
		return 8, nil
	case TypeFixed32:
		if len(buf) < 4 {
			return 0, ErrTruncated
		}
		return 4, nil
	case TypeLengthDelimited:
		_, n, err = ConsumeLengthDelimited(buf)
		return n, err
	case TypeStartGroup:
		return skipGroup(buf)
	default:
		return 0, ErrTruncated
	}
}

// skipGroup skips a legacy group: a run of fields terminated by a matching
// end-group tag, possibly containing nested groups.
func skipGroup(buf []byte) (int, error) {
	total := 0
	depth := 1
	for depth > 0 {
		if total >= len(buf) {
			return 0, ErrTruncated
		}
		_, wireType, tagLen, err := ConsumeTag(buf[total:])
		if err != nil {
			return 0, err
		}
		total += tagLen
		switch wireType {
		case TypeStartGroup:
			depth++
		case TypeEndGroup:
			depth--
		default:
			n, err := SkipField(buf[total:], wireType)
			if err != nil {
				return 0, err
			}
			total += n
		}
	}
	return total, nil
}
