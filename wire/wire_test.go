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

package wire_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/outwire/protocore/wire"
)

// protowire is never used outside tests: it is the cross-check oracle
// that verifies the hand-rolled primitives agree with the canonical Go
// implementation, not a dependency of the shipped encode/decode path.

func TestVarintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<63 - 1, 1 << 63} {
		buf := wire.AppendVarint(nil, v)
		require.Equal(t, wire.SizeVarint(v), len(buf))

		want := protowire.AppendVarint(nil, v)
		require.Equal(t, want, buf)

		got, n, err := wire.ConsumeVarint(buf)
		require.NoError(t, err)
		require.Equal(t, len(buf), n)
		require.Equal(t, v, got)
	}
}

func TestVarintTruncated(t *testing.T) {
	_, _, err := wire.ConsumeVarint([]byte{0x80, 0x80})
	require.ErrorIs(t, err, wire.ErrTruncated)
}

func TestZigZag32(t *testing.T) {
	cases := []int32{0, -1, 1, -2, 2147483647, -2147483648}
	for _, n := range cases {
		got := wire.EncodeZigZag32(n)
		require.Equal(t, uint32(protowire.EncodeZigZag(int64(n))), got)
		require.Equal(t, n, wire.DecodeZigZag32(got))
	}
}

func TestZigZag64(t *testing.T) {
	cases := []int64{0, -1, 1, -2, 1<<62 - 1, -(1 << 62)}
	for _, n := range cases {
		got := wire.EncodeZigZag64(n)
		require.Equal(t, protowire.EncodeZigZag(n), got)
		require.Equal(t, n, wire.DecodeZigZag64(got))
	}
}

func TestFixed32RoundTrip(t *testing.T) {
	buf := wire.AppendFixed32(nil, 0xDEADBEEF)
	require.Equal(t, protowire.AppendFixed32(nil, 0xDEADBEEF), buf)
	got, n, err := wire.ConsumeFixed32(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, uint32(0xDEADBEEF), got)
}

func TestFixed64RoundTrip(t *testing.T) {
	buf := wire.AppendFixed64(nil, 0x0123456789ABCDEF)
	require.Equal(t, protowire.AppendFixed64(nil, 0x0123456789ABCDEF), buf)
	got, n, err := wire.ConsumeFixed64(buf)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, uint64(0x0123456789ABCDEF), got)
}

func TestTagRoundTrip(t *testing.T) {
	buf := wire.AppendTag(nil, 5, wire.TypeLengthDelimited)
	require.Equal(t, protowire.AppendTag(nil, 5, protowire.BytesType), buf)

	num, wt, n, err := wire.ConsumeTag(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, int32(5), num)
	require.Equal(t, wire.TypeLengthDelimited, wt)
}

func TestLengthDelimitedRoundTrip(t *testing.T) {
	payload := []byte("hello, proto")
	buf := wire.AppendLengthDelimited(nil, payload)
	require.Equal(t, protowire.AppendBytes(nil, payload), buf)

	got, n, err := wire.ConsumeLengthDelimited(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, payload, got)
}

func TestSkipFieldVarint(t *testing.T) {
	buf := wire.AppendVarint(nil, 123456)
	buf = append(buf, 0xFF) // trailing byte belonging to the next field
	n, err := wire.SkipField(buf, wire.TypeVarint)
	require.NoError(t, err)
	require.Equal(t, wire.SizeVarint(123456), n)
}

func TestSkipGroupNested(t *testing.T) {
	// field 1 (group, start), field 2 varint inside, nested group (field
	// 3, start/end), then field 1's matching end.
	var buf []byte
	buf = wire.AppendTag(buf, 2, wire.TypeVarint)
	buf = wire.AppendVarint(buf, 7)
	buf = wire.AppendTag(buf, 3, wire.TypeStartGroup)
	buf = wire.AppendTag(buf, 3, wire.TypeEndGroup)
	buf = wire.AppendTag(buf, 1, wire.TypeEndGroup)

	n, err := wire.SkipField(buf, wire.TypeStartGroup)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
}

func TestMapEntryRoundTrip(t *testing.T) {
	var buf []byte
	buf = wire.AppendTag(buf, wire.MapKeyFieldNumber, wire.TypeLengthDelimited)
	buf = wire.AppendLengthDelimited(buf, []byte("key"))
	buf = wire.AppendTag(buf, wire.MapValueFieldNumber, wire.TypeVarint)
	buf = wire.AppendVarint(buf, 42)

	entry, err := wire.ConsumeMapEntry(buf)
	require.NoError(t, err)
	require.Equal(t, wire.TypeLengthDelimited, entry.KeyWireType)
	require.Equal(t, wire.TypeVarint, entry.ValueWireType)

	key, _, err := wire.ConsumeLengthDelimited(entry.KeyPayload)
	require.NoError(t, err)
	require.Equal(t, []byte("key"), key)

	val, _, err := wire.ConsumeVarint(entry.ValuePayload)
	require.NoError(t, err)
	require.Equal(t, uint64(42), val)
}
