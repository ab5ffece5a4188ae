// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil provides byte-fixture builders for hand-assembling
// on-disk List/UniformList blobs in tests, the same shape as the ancestor
// repo's MakeDict/MakeIndex builders, adapted to this module's wire format.
package testutil

import (
	"encoding/binary"
	"testing"

	"github.com/Wintandre/Dictionary/raf"
)

// BuildList assembles the bytes of a [raf.List]: a count, a TOC of
// absolute offsets relative to the start of the returned slice, then the
// raw concatenated element bytes.
func BuildList(t *testing.T, elements [][]byte) []byte {
	t.Helper()

	tocLen := 8 * (len(elements) + 1)
	dataStart := int64(4 + tocLen)

	b := make([]byte, 4, 4+tocLen)
	binary.BigEndian.PutUint32(b[0:4], uint32(len(elements)))

	offsets := make([]int64, len(elements)+1)
	offsets[0] = dataStart
	var data []byte
	for i, e := range elements {
		data = append(data, e...)
		offsets[i+1] = dataStart + int64(len(data))
	}

	toc := make([]byte, tocLen)
	for i, off := range offsets {
		binary.BigEndian.PutUint64(toc[i*8:], uint64(off))
	}
	b = append(b, toc...)
	b = append(b, data...)
	return b
}

// BuildUniformList assembles the bytes of a [raf.UniformList]: a count, a
// width, then the raw concatenated element bytes, each exactly width bytes.
func BuildUniformList(t *testing.T, elements [][]byte, width int) []byte {
	t.Helper()

	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[0:4], uint32(len(elements)))
	binary.BigEndian.PutUint32(b[4:8], uint32(width))
	for i, e := range elements {
		if len(e) != width {
			t.Fatalf("element %d is %d bytes, want %d", i, len(e), width)
		}
		b = append(b, e...)
	}
	return b
}

// MUTF8 returns the length-prefixed modified-UTF-8 encoding of s, for
// splicing directly into a hand-built element fixture.
func MUTF8(t *testing.T, s string) []byte {
	t.Helper()
	enc := raf.EncodeMUTF8(s)
	b := make([]byte, 2, 2+len(enc))
	b[0] = byte(len(enc) >> 8)
	b[1] = byte(len(enc))
	return append(b, enc...)
}

// Int16 returns the big-endian encoding of v.
func Int16(v int16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(v))
	return b
}

// Int32 returns the big-endian encoding of v.
func Int32(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

// Int64 returns the big-endian encoding of v.
func Int64(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// Concat flattens a sequence of byte slices into one, convenient for
// assembling a fixed-width element out of several wire-primitive pieces.
func Concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
