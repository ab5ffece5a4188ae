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

package dictionary

import (
	"fmt"
	"io"
	"time"

	"github.com/Wintandre/Dictionary/entry"
	"github.com/Wintandre/Dictionary/index"
	"github.com/Wintandre/Dictionary/raf"
	"github.com/Wintandre/Dictionary/row"
)

// Builder assembles an in-memory dictionary for writing. Populating the
// Entry Store and Indices from source corpora is the dictionary compiler's
// job and out of scope here; Builder is the write-path surface this
// storage engine exposes so a compiler (or a test) can persist the
// structures it has already built.
type Builder struct {
	Info       string
	CreatedAt  time.Time
	Sources    []entry.Source
	Pairs      []entry.Pair
	Texts      []entry.Text
	HTMLTitles []entry.HTML
	HTMLBodies []entry.HTMLBody
	Indices    []*index.Index
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Write serializes the builder's contents as a version 7 file.
func (b *Builder) Write(w io.WriteSeeker) error {
	return b.writeVersion(w, 7, false)
}

// WriteV6 serializes the builder's contents as a legacy version 6 file.
// When skipHTML is true, HTML rows are elided from every index's row
// stream and each affected IndexEntry's StartRow/NumRows are rewritten via
// a dense renumbering of the surviving rows; TokenRow starts are never
// pruned. Any HTMLRefs on a pruned index's entries are dropped along with
// the html lists they would have pointed into.
func (b *Builder) WriteV6(w io.WriteSeeker, skipHTML bool) error {
	return b.writeVersion(w, 6, skipHTML)
}

func (b *Builder) writeVersion(w io.WriteSeeker, version int, skipHTML bool) error {
	if version == 7 && skipHTML {
		return fmt.Errorf("%w: skipHtml is not supported for version 7", ErrUnsupportedWriteVersion)
	}
	if version != 6 && version != 7 {
		return fmt.Errorf("%w: %d", ErrUnsupportedWriteVersion, version)
	}

	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	if err := raf.WriteInt32(w, int32(version)); err != nil {
		return fmt.Errorf("encoding version: %w", err)
	}
	if err := raf.WriteInt64(w, createdAt.UnixMilli()); err != nil {
		return fmt.Errorf("encoding creation time: %w", err)
	}
	if err := raf.WriteString(w, b.Info); err != nil {
		return fmt.Errorf("encoding dictionary info: %w", err)
	}

	if err := raf.Write(w, b.Sources, entry.EncodeSource); err != nil {
		return fmt.Errorf("encoding sources: %w", err)
	}
	if err := raf.Write(w, b.Pairs, entry.EncodePair); err != nil {
		return fmt.Errorf("encoding pairs: %w", err)
	}
	if err := raf.Write(w, b.Texts, entry.EncodeText); err != nil {
		return fmt.Errorf("encoding texts: %w", err)
	}

	indices := b.Indices
	if version == 7 {
		if err := raf.Write(w, b.HTMLTitles, entry.EncodeHTML); err != nil {
			return fmt.Errorf("encoding html titles: %w", err)
		}
		if err := raf.Write(w, b.HTMLBodies, entry.EncodeHTMLBody); err != nil {
			return fmt.Errorf("encoding html bodies: %w", err)
		}
	} else {
		htmlTitles := b.HTMLTitles
		if skipHTML {
			htmlTitles = nil
			var err error
			indices, err = pruneIndicesForSkipHTML(b.Indices)
			if err != nil {
				return fmt.Errorf("pruning html rows: %w", err)
			}
		}
		encodeLegacy := func(w io.Writer, h entry.HTML) error {
			return entry.EncodeHTMLLegacy(w, h, b.bodyFor(h))
		}
		if err := raf.Write(w, htmlTitles, encodeLegacy); err != nil {
			return fmt.Errorf("encoding html titles: %w", err)
		}
	}

	indexEncoder := func(w io.Writer, idx *index.Index) error {
		return index.Encode(w, idx, true)
	}
	if err := raf.Write(w, indices, indexEncoder); err != nil {
		return fmt.Errorf("encoding indices: %w", err)
	}

	if err := raf.WriteString(w, sentinel); err != nil {
		return fmt.Errorf("encoding terminator: %w", err)
	}
	return nil
}

// bodyFor resolves the body belonging to h from whichever of InlineBody or
// HTMLBodies backs it, for the legacy inline encoding.
func (b *Builder) bodyFor(h entry.HTML) entry.HTMLBody {
	if h.InlineBody != nil {
		return *h.InlineBody
	}
	if h.BodyRef >= 0 && h.BodyRef < len(b.HTMLBodies) {
		return b.HTMLBodies[h.BodyRef]
	}
	return entry.HTMLBody{}
}

// pruneIndicesForSkipHTML returns a copy of indices with every HTML row
// removed from each row stream and every IndexEntry's StartRow/NumRows/
// HTMLRefs rewritten to match.
func pruneIndicesForSkipHTML(indices []*index.Index) ([]*index.Index, error) {
	out := make([]*index.Index, len(indices))
	for i, idx := range indices {
		pruned, err := pruneIndexHTML(idx)
		if err != nil {
			return nil, fmt.Errorf("index %q: %w", idx.ShortName, err)
		}
		out[i] = pruned
	}
	return out, nil
}

func pruneIndexHTML(idx *index.Index) (*index.Index, error) {
	n := idx.NumRows()
	prunedRowIdx := make([]int, n)
	newRows := make([]row.Row, 0, n)
	for i := 0; i < n; i++ {
		r, err := idx.Row(i)
		if err != nil {
			return nil, err
		}
		if r.Kind == row.HTML {
			prunedRowIdx[i] = -1
			continue
		}
		prunedRowIdx[i] = len(newRows)
		newRows = append(newRows, r)
	}

	entries, err := idx.SortedEntries()
	if err != nil {
		return nil, err
	}
	newEntries := make([]*index.Entry, len(entries))
	for i, e := range entries {
		newStart := prunedRowIdx[e.StartRow]
		if newStart < 0 {
			return nil, fmt.Errorf("%w: entry %q start row was pruned", raf.ErrCorrupt, e.Token)
		}
		newNumRows := 0
		for j := e.StartRow; j < e.StartRow+e.NumRows; j++ {
			if prunedRowIdx[j] >= 0 {
				newNumRows++
			}
		}
		newEntries[i] = index.NewEntry(e.Token, newStart, newNumRows, nil)
	}

	eb := index.NewBuilder()
	eb.ShortName = idx.ShortName
	eb.LongName = idx.LongName
	eb.IsoLang = idx.IsoLang
	eb.NormalizerRules = idx.NormalizerRules
	eb.SwapPairEntries = idx.SwapPairEntries
	eb.MainTokenCount = idx.MainTokenCount()
	eb.Entries = newEntries
	eb.Rows = newRows
	eb.Stoplist = idx.Stoplist()
	return eb.Build()
}
