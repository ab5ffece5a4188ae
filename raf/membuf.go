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
	"fmt"
	"io"
)

// MemBuffer is a growable, in-memory io.WriteSeeker. [Write] and
// [WriteUniform] only need Seek to fix up a TOC after the fact; when a list
// is nested inside a single element's byte stream (e.g. IndexEntry's
// htmlRefs list) there is no real seekable file handle to hand them, so
// elements are built in a MemBuffer first and then copied into the parent
// stream as a flat byte run.
type MemBuffer struct {
	buf []byte
	pos int64
}

// NewMemBuffer returns an empty MemBuffer.
func NewMemBuffer() *MemBuffer {
	return &MemBuffer{}
}

// Write implements io.Writer, growing the buffer and overwriting bytes
// starting at the current position.
func (m *MemBuffer) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

// Seek implements io.Seeker.
func (m *MemBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, fmt.Errorf("raf: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("raf: negative seek position %d", abs)
	}
	m.pos = abs
	return abs, nil
}

// Bytes returns the buffer's current contents. The returned slice is not a
// copy; writing through m after calling Bytes invalidates it.
func (m *MemBuffer) Bytes() []byte {
	return m.buf
}
