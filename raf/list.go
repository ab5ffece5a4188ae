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

// Decoder decodes a single element starting at the current position of r.
// version is the containing dictionary file's version, so legacy element
// encodings can be handled without a second type per version.
type Decoder[T any] func(r io.Reader, version int) (T, error)

// Encoder encodes a single element to w.
type Encoder[T any] func(w io.Writer, v T) error

// List is a persisted, ordered sequence of elements of varying width,
// addressable by position without decoding the elements that come before
// it.
//
// On-disk layout:
//
//	int32   count
//	int64   offset[0]        -- absolute byte offset of element 0
//	int64   offset[1] ...
//	int64   offset[count]    -- one past the last element, == EndOffset
//	element bytes ...
type List[T any] struct {
	r       io.ReaderAt
	offsets []int64 // len() == count+1
	decode  Decoder[T]
	version int
}

// Open reads the TOC of a List starting at the given absolute offset and
// returns a List that decodes elements lazily, on demand, via decode.
func Open[T any](r io.ReaderAt, start int64, version int, decode Decoder[T]) (*List[T], error) {
	var countBuf [4]byte
	if _, err := r.ReadAt(countBuf[:], start); err != nil {
		return nil, fmt.Errorf("%w: reading list count: %v", ErrCorrupt, err)
	}
	count := int(binary.BigEndian.Uint32(countBuf[:]))
	if count < 0 {
		return nil, fmt.Errorf("%w: negative list count", ErrCorrupt)
	}

	tocBuf := make([]byte, 8*(count+1))
	if _, err := r.ReadAt(tocBuf, start+4); err != nil {
		return nil, fmt.Errorf("%w: reading list TOC: %v", ErrCorrupt, err)
	}
	offsets := make([]int64, count+1)
	for i := range offsets {
		offsets[i] = int64(binary.BigEndian.Uint64(tocBuf[i*8:]))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i] < offsets[i-1] {
			return nil, fmt.Errorf("%w: list TOC offsets out of order", ErrCorrupt)
		}
	}

	return &List[T]{
		r:       r,
		offsets: offsets,
		decode:  decode,
		version: version,
	}, nil
}

// Size returns the number of elements in the list.
func (l *List[T]) Size() int {
	return len(l.offsets) - 1
}

// EndOffset returns the absolute byte offset one past the list's last
// element, i.e. where the next value in the containing file begins.
func (l *List[T]) EndOffset() int64 {
	return l.offsets[len(l.offsets)-1]
}

// Get decodes and returns element i.
func (l *List[T]) Get(i int) (T, error) {
	var zero T
	if i < 0 || i >= l.Size() {
		return zero, fmt.Errorf("%w: list index %d out of range [0,%d)", ErrCorrupt, i, l.Size())
	}
	start, end := l.offsets[i], l.offsets[i+1]
	if end < start {
		return zero, fmt.Errorf("%w: list element %d has negative length", ErrCorrupt, i)
	}
	sr := io.NewSectionReader(l.r, start, end-start)
	v, err := l.decode(sr, l.version)
	if err != nil {
		return zero, fmt.Errorf("%w: decoding list element %d: %v", ErrCorrupt, i, err)
	}
	return v, nil
}

// All decodes and returns every element of the list, in order. An empty
// list yields nil.
func (l *List[T]) All() ([]T, error) {
	if l.Size() == 0 {
		return nil, nil
	}
	out := make([]T, l.Size())
	for i := range out {
		v, err := l.Get(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Write writes items sequentially as a List: it reserves space for the
// count and TOC, writes each encoded element recording its starting
// offset, then seeks back and fills in the TOC. w must support Seek (a
// *os.File or equivalent); absolute offsets are measured from the start of
// w, which must be positioned at the list's start offset before Write is
// called.
func Write[T any](w io.WriteSeeker, items []T, encode Encoder[T]) error {
	start, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("raf: getting list start offset: %w", err)
	}

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(items)))
	if _, err := w.Write(countBuf[:]); err != nil {
		return fmt.Errorf("raf: writing list count: %w", err)
	}

	tocOffset := start + 4
	dataStart := tocOffset + 8*int64(len(items)+1)
	if _, err := w.Seek(dataStart, io.SeekStart); err != nil {
		return fmt.Errorf("raf: seeking past list TOC: %w", err)
	}

	offsets := make([]int64, len(items)+1)
	offsets[0] = dataStart
	for i, item := range items {
		if err := encode(w, item); err != nil {
			return fmt.Errorf("raf: encoding list element %d: %w", i, err)
		}
		pos, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return fmt.Errorf("raf: getting list element offset: %w", err)
		}
		offsets[i+1] = pos
	}
	endOffset := offsets[len(offsets)-1]

	if _, err := w.Seek(tocOffset, io.SeekStart); err != nil {
		return fmt.Errorf("raf: seeking to list TOC: %w", err)
	}
	tocBuf := make([]byte, 8*len(offsets))
	for i, off := range offsets {
		binary.BigEndian.PutUint64(tocBuf[i*8:], uint64(off))
	}
	if _, err := w.Write(tocBuf); err != nil {
		return fmt.Errorf("raf: writing list TOC: %w", err)
	}

	if _, err := w.Seek(endOffset, io.SeekStart); err != nil {
		return fmt.Errorf("raf: seeking past list data: %w", err)
	}
	return nil
}
