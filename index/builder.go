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

	"github.com/Wintandre/Dictionary/internal/sortedset"
	"github.com/Wintandre/Dictionary/row"
)

// memEntries is an in-memory entrySource for an Index under construction,
// before it has ever been written to or read from a file.
type memEntries []*Entry

func (m memEntries) Size() int                 { return len(m) }
func (m memEntries) Get(i int) (*Entry, error) { return m[i], nil }

// memRows is the row-stream analogue of memEntries.
type memRows []row.Row

func (m memRows) Size() int                 { return len(m) }
func (m memRows) Get(i int) (row.Row, error) { return m[i], nil }

// Builder assembles an in-memory Index for writing. The dictionary compiler
// that computes sortedEntries/rows/stoplist from source corpora is out of
// scope for this storage engine; Builder is the write-path surface the
// engine exposes so a caller (or a test) can still populate and persist
// those fields.
type Builder struct {
	ShortName       string
	LongName        string
	IsoLang         string
	NormalizerRules string
	SwapPairEntries bool
	MainTokenCount  int
	Entries         []*Entry
	Rows            []row.Row
	Stoplist        *sortedset.Set
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{Stoplist: sortedset.New(nil)}
}

// Build validates and compiles b into an Index ready to be written or
// searched in-memory. Entries must already be sorted by the collator
// Build constructs from IsoLang; Build does not re-sort them, matching the
// storage engine's "written once" contract -- sorting is the compiler's
// job.
func (b *Builder) Build() (*Index, error) {
	normalizer, err := ParseRules(b.NormalizerRules)
	if err != nil {
		return nil, fmt.Errorf("building index %q: %w", b.ShortName, err)
	}
	collator, err := NewCollator(b.IsoLang)
	if err != nil {
		return nil, fmt.Errorf("building index %q: %w", b.ShortName, err)
	}
	for _, e := range b.Entries {
		if e.Token == "" {
			return nil, fmt.Errorf("building index %q: empty token", b.ShortName)
		}
		if e.StartRow < 0 || e.StartRow+e.NumRows > len(b.Rows) {
			return nil, fmt.Errorf("building index %q: entry %q row range [%d,%d) exceeds %d rows", b.ShortName, e.Token, e.StartRow, e.StartRow+e.NumRows, len(b.Rows))
		}
		if e.NumRows > 0 && !b.Rows[e.StartRow].Kind.IsToken() {
			return nil, fmt.Errorf("building index %q: entry %q start row is not a TokenRow", b.ShortName, e.Token)
		}
		e.normalizer = normalizer
	}

	stoplist := b.Stoplist
	if stoplist == nil {
		stoplist = sortedset.New(nil)
	}

	return &Index{
		ShortName:         b.ShortName,
		LongName:          b.LongName,
		IsoLang:           b.IsoLang,
		NormalizerRules:   b.NormalizerRules,
		SwapPairEntries:   b.SwapPairEntries,
		MainTokenCountVal: b.MainTokenCount,
		normalizer:        normalizer,
		collator:          collator,
		stoplist:          stoplist,
		entries:           memEntries(b.Entries),
		rows:              memRows(b.Rows),
	}, nil
}

// NewEntry returns an Entry with token t, ready to be appended to a
// Builder's Entries. The normalizer is attached by Build.
func NewEntry(token string, startRow, numRows int, htmlRefs []int32) *Entry {
	return &Entry{Token: token, StartRow: startRow, NumRows: numRows, HTMLRefs: htmlRefs}
}
