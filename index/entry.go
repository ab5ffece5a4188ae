// Copyright 2024 Google LLC
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

package index

import (
	"fmt"
	"io"
	"sync"

	"github.com/Wintandre/Dictionary/raf"
)

// Entry is one member of an Index's sorted token array: a token, the range
// of rows it anchors, and the optional set of HTML entries associated with
// it. Its normalized form is written-once lazy state, computed on first
// access and safe under concurrent reads via [sync.Once] -- the only
// mutable state an opened, read-only Entry carries.
type Entry struct {
	Token    string
	StartRow int
	NumRows  int
	HTMLRefs []int32

	normalizer *Normalizer
	persisted  bool
	once       sync.Once
	normalized string
	normErr    error
}

// NormalizedToken returns normalize(Token), computing and memoizing it on
// first call. If the entry was written with a persisted normalized form
// (hasNormalized in the wire format), that form is returned directly
// without re-running the normalizer.
func (e *Entry) NormalizedToken() (string, error) {
	if e.persisted {
		return e.normalized, nil
	}
	e.once.Do(func() {
		e.normalized, e.normErr = e.normalizer.Normalize(e.Token)
	})
	return e.normalized, e.normErr
}

func decodeInt32Elem(r io.Reader, _ int) (int32, error) {
	return raf.ReadInt32(r)
}

func encodeInt32Elem(w io.Writer, v int32) error {
	return raf.WriteInt32(w, v)
}

// decodeEntry reads a v7 IndexEntry: MUTF8 token; int32 startRow; int32
// numRows; bool hasNormalized; if hasNormalized MUTF8 normalizedToken;
// AddressableList<int32> htmlRefs. normalizer is attached to the returned
// Entry for entries without a persisted normalized form.
func decodeEntry(r io.Reader, version int, normalizer *Normalizer) (*Entry, error) {
	ra, ok := r.(raf.ReaderAt)
	if !ok {
		return nil, fmt.Errorf("index: decoding entry: reader does not support random access")
	}
	cur := raf.NewOffsetReader(ra, 0)

	token, err := raf.ReadString(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding index entry token: %w", err)
	}
	startRow, err := raf.ReadInt32(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding index entry start row: %w", err)
	}
	numRows, err := raf.ReadInt32(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding index entry num rows: %w", err)
	}
	hasNormalized, err := raf.ReadBool(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding index entry hasNormalized: %w", err)
	}
	e := &Entry{
		Token:      token,
		StartRow:   int(startRow),
		NumRows:    int(numRows),
		normalizer: normalizer,
	}
	if hasNormalized {
		norm, err := raf.ReadString(cur)
		if err != nil {
			return nil, fmt.Errorf("decoding index entry normalized token: %w", err)
		}
		e.persisted = true
		e.normalized = norm
	}

	refs, err := raf.Open(ra, cur.Pos(), version, decodeInt32Elem)
	if err != nil {
		return nil, fmt.Errorf("decoding index entry htmlRefs: %w", err)
	}
	e.HTMLRefs, err = refs.All()
	if err != nil {
		return nil, fmt.Errorf("decoding index entry htmlRefs: %w", err)
	}
	return e, nil
}

// encodeEntry writes e in the format [decodeEntry] reads. persistNormalized
// controls whether the normalized token is computed and written eagerly
// (the v7 writer's choice) rather than left for the reader to compute
// lazily. The entry is assembled in memory so that the nested htmlRefs
// list's TOC holds offsets from the start of the entry.
func encodeEntry(out io.Writer, e *Entry, persistNormalized bool) error {
	w := raf.NewMemBuffer()
	if err := raf.WriteString(w, e.Token); err != nil {
		return fmt.Errorf("encoding index entry token: %w", err)
	}
	if err := raf.WriteInt32(w, int32(e.StartRow)); err != nil {
		return fmt.Errorf("encoding index entry start row: %w", err)
	}
	if err := raf.WriteInt32(w, int32(e.NumRows)); err != nil {
		return fmt.Errorf("encoding index entry num rows: %w", err)
	}
	if persistNormalized {
		norm, err := e.NormalizedToken()
		if err != nil {
			return fmt.Errorf("encoding index entry normalized token: %w", err)
		}
		if err := raf.WriteBool(w, true); err != nil {
			return fmt.Errorf("encoding index entry hasNormalized: %w", err)
		}
		if err := raf.WriteString(w, norm); err != nil {
			return fmt.Errorf("encoding index entry normalized token: %w", err)
		}
	} else {
		if err := raf.WriteBool(w, false); err != nil {
			return fmt.Errorf("encoding index entry hasNormalized: %w", err)
		}
	}

	if err := raf.Write(w, e.HTMLRefs, encodeInt32Elem); err != nil {
		return fmt.Errorf("encoding index entry htmlRefs: %w", err)
	}
	if _, err := out.Write(w.Bytes()); err != nil {
		return fmt.Errorf("encoding index entry: %w", err)
	}
	return nil
}
