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

package raf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// UniformList is the fixed-width sibling of [List]: since every element is
// exactly Width bytes, no offset table is needed. Get(i) seeks directly to
// headerEnd + i*Width.
//
// On-disk layout:
//
//	int32 count
//	int32 width
//	raw element bytes, count * width
type UniformList[T any] struct {
	r       io.ReaderAt
	base    int64 // offset of element 0
	count   int
	width   int
	decode  Decoder[T]
	version int
}

// OpenUniform reads the header of a UniformList starting at the given
// absolute offset.
func OpenUniform[T any](r io.ReaderAt, start int64, version int, width int, decode Decoder[T]) (*UniformList[T], error) {
	var hdr [8]byte
	if _, err := r.ReadAt(hdr[:], start); err != nil {
		return nil, fmt.Errorf("%w: reading uniform list header: %v", ErrCorrupt, err)
	}
	count := int(binary.BigEndian.Uint32(hdr[0:4]))
	fileWidth := int(binary.BigEndian.Uint32(hdr[4:8]))
	if count < 0 {
		return nil, fmt.Errorf("%w: negative uniform list count", ErrCorrupt)
	}
	if fileWidth != width {
		return nil, fmt.Errorf("%w: uniform list element width %d, reader expects %d", ErrCorrupt, fileWidth, width)
	}

	return &UniformList[T]{
		r:       r,
		base:    start + 8,
		count:   count,
		width:   width,
		decode:  decode,
		version: version,
	}, nil
}

// Size returns the number of elements in the list.
func (l *UniformList[T]) Size() int {
	return l.count
}

// EndOffset returns the absolute byte offset one past the list's last
// element.
func (l *UniformList[T]) EndOffset() int64 {
	return l.base + int64(l.count)*int64(l.width)
}

// Get decodes and returns element i.
func (l *UniformList[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= l.count {
		return zero, fmt.Errorf("%w: uniform list index %d out of range [0,%d)", ErrCorrupt, i, l.count)
	}
	off := l.base + int64(i)*int64(l.width)
	sr := io.NewSectionReader(l.r, off, int64(l.width))
	v, err := l.decode(sr, l.version)
	if err != nil {
		return zero, fmt.Errorf("%w: decoding uniform list element %d: %v", ErrCorrupt, i, err)
	}
	return v, nil
}

// All decodes and returns every element of the list, in order.
func (l *UniformList[T]) All() ([]T, error) {
	out := make([]T, l.count)
	for i := range out {
		v, err := l.Get(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteUniform writes items sequentially as a UniformList. w must be
// positioned at the list's start offset. An element that encodes to any
// size other than width bytes makes WriteUniform return an error.
func WriteUniform[T any](w io.Writer, items []T, width int, encode Encoder[T]) error {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(items)))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(width))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("raf: writing uniform list header: %w", err)
	}

	cw := &countingWriter{w: w}
	for i, item := range items {
		before := cw.n
		if err := encode(cw, item); err != nil {
			return fmt.Errorf("raf: encoding uniform list element %d: %w", i, err)
		}
		if written := cw.n - before; written != int64(width) {
			return fmt.Errorf("raf: uniform list element %d encoded to %d bytes, want %d", i, written, width)
		}
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
