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

// Package wire implements the Protocol Buffers wire-format primitives that
// generated readers and writers call into (spec.md §4.5): varints,
// zig-zag, fixed-width integers, length-delimited framing, and tag
// encoding. These are hand-rolled rather than delegated to an existing
// wire-format library, since reimplementing them is the point of this
// module; google.golang.org/protobuf/encoding/protowire is used only as a
// cross-check oracle in this package's tests.
package wire

import "errors"

// ErrTruncated is returned by any decode function that runs out of bytes
// before finishing.
var ErrTruncated = errors.New("wire: truncated input")

// ErrOverflow is returned when a varint exceeds 10 bytes (64 bits worth of
// 7-bit groups) without terminating.
var ErrOverflow = errors.New("wire: varint overflows 64 bits")

// AppendVarint appends the varint encoding of v to buf and returns the
// extended slice. Each byte holds 7 bits of v, little-endian group order,
// with the MSB set on every byte but the last to signal continuation.
func AppendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// SizeVarint returns the number of bytes AppendVarint would write for v,
// without writing them.
func SizeVarint(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}

// ConsumeVarint reads a varint from the front of buf, returning the value,
// the number of bytes consumed, and an error if buf was truncated or the
// varint was malformed.
func ConsumeVarint(buf []byte) (v uint64, n int, err error) {
	for i := 0; i < 10; i++ {
		if i >= len(buf) {
			return 0, 0, ErrTruncated
		}
		b := buf[i]
		v |= uint64(b&0x7f) << (7 * i)
		if b < 0x80 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrOverflow
}

// EncodeZigZag32 maps a signed 32-bit value to an unsigned one so that
// small-magnitude negative numbers still encode as short varints.
func EncodeZigZag32(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

// DecodeZigZag32 reverses EncodeZigZag32.
func DecodeZigZag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// EncodeZigZag64 maps a signed 64-bit value to an unsigned one, as
// EncodeZigZag32 does for 32 bits.
func EncodeZigZag64(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

// DecodeZigZag64 reverses EncodeZigZag64.
func DecodeZigZag64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
