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

// Package index implements the dictionary's sorted lookup index: a sorted
// array of [Entry] values, a language collator, a transliteration-based
// [Normalizer], and [Index.FindInsertionPoint]/[Index.LongestPrefix]
// binary search with the "wind back to the first tied entry" step the
// storage engine requires.
package index

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"golang.org/x/text/collate"

	"github.com/Wintandre/Dictionary/cache"
	"github.com/Wintandre/Dictionary/internal/sortedset"
	"github.com/Wintandre/Dictionary/raf"
	"github.com/Wintandre/Dictionary/row"
)

// entrySource is the narrow contract [Index] needs from whatever holds its
// sorted entries: a file-backed [cache.List] when opened from disk, or an
// in-memory slice when built fresh for writing.
type entrySource interface {
	Size() int
	Get(i int) (*Entry, error)
}

// rowSource is the analogous contract for an Index's row stream.
type rowSource interface {
	Size() int
	Get(i int) (row.Row, error)
}

// Index is a dictionary's sorted lookup index: one short/long name pair, a
// declared sort language and normalizer ruleset, a sorted array of
// [Entry], the row stream those entries point into, a main-token count and
// a stoplist.
type Index struct {
	ShortName         string
	LongName          string
	IsoLang           string
	NormalizerRules   string
	SwapPairEntries   bool
	MainTokenCountVal int

	normalizer *Normalizer
	collator   *collate.Collator
	stoplist   *sortedset.Set

	entries entrySource
	rows    rowSource
}

// Normalizer returns the Index's compiled normalizer.
func (idx *Index) Normalizer() *Normalizer {
	return idx.normalizer
}

// Collator returns the Index's language collator.
func (idx *Index) Collator() *collate.Collator {
	return idx.collator
}

// MainTokenCount returns the number of entries in the index that name a
// main (non-synonym) headword, supplemented from the original Java source's
// Index.mainTokenCount field.
func (idx *Index) MainTokenCount() int {
	return idx.MainTokenCountVal
}

// Stoplist returns the index's stopword set, supplemented from the
// original Java source's Index.stoplist field. Never nil.
func (idx *Index) Stoplist() *sortedset.Set {
	return idx.stoplist
}

// Size returns the number of sorted entries.
func (idx *Index) Size() int {
	return idx.entries.Size()
}

// Entry returns the sorted entry at position i.
func (idx *Index) Entry(i int) (*Entry, error) {
	return idx.entries.Get(i)
}

// SortedEntries decodes and returns every sorted entry, in order.
func (idx *Index) SortedEntries() ([]*Entry, error) {
	out := make([]*Entry, idx.entries.Size())
	for i := range out {
		e, err := idx.entries.Get(i)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// NumRows returns the number of rows in the index's row stream.
func (idx *Index) NumRows() int {
	return idx.rows.Size()
}

// Row returns row i of the index's row stream.
func (idx *Index) Row(i int) (row.Row, error) {
	return idx.rows.Get(i)
}

// Rows returns the rows spanned by e: [e.StartRow, e.StartRow+e.NumRows).
// The row at e.StartRow is always a TokenRow, per the storage engine's
// range well-formedness invariant.
func (idx *Index) Rows(e *Entry) ([]row.Row, error) {
	if e.StartRow < 0 || e.StartRow+e.NumRows > idx.rows.Size() {
		return nil, fmt.Errorf("%w: index entry row range [%d,%d) exceeds %d rows", raf.ErrCorrupt, e.StartRow, e.StartRow+e.NumRows, idx.rows.Size())
	}
	out := make([]row.Row, e.NumRows)
	for i := range out {
		r, err := idx.rows.Get(e.StartRow + i)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// FindInsertionPoint normalizes query and binary-searches the sorted
// entries for it. On an exact match it winds back to the first of any
// collator-equal neighbours. On no match, the search clamps to the nearest
// existing entry (the one sort.Search's final lo would have inserted
// before, or the last entry if lo has run off the end) and winds back on
// that entry's own normalized token. If interrupted is non-nil and is
// observed set at any point, the search stops and returns [ErrCancelled]
// without mutating anything; interrupted is checked once per binary-search
// step, so cancellation happens in O(log N) checks.
func (idx *Index) FindInsertionPoint(query string, interrupted *atomic.Bool) (*Entry, error) {
	q, err := idx.normalizer.Normalize(query)
	if err != nil {
		return nil, err
	}

	lo, hi := 0, idx.entries.Size()
	for lo < hi {
		if cancelled(interrupted) {
			return nil, ErrCancelled
		}
		mid := (lo + hi) / 2
		e, err := idx.entries.Get(mid)
		if err != nil {
			return nil, err
		}
		norm, err := e.NormalizedToken()
		if err != nil {
			return nil, err
		}
		switch c := idx.collator.CompareString(q, norm); {
		case c == 0:
			return idx.windBack(mid, norm, interrupted)
		case c < 0:
			hi = mid
		default:
			lo = mid + 1
		}
	}
	if cancelled(interrupted) {
		return nil, ErrCancelled
	}

	pos := lo
	if pos >= idx.entries.Size() {
		pos = idx.entries.Size() - 1
	}
	if pos < 0 {
		return nil, fmt.Errorf("%w: empty index", raf.ErrCorrupt)
	}
	e, err := idx.entries.Get(pos)
	if err != nil {
		return nil, err
	}
	norm, err := e.NormalizedToken()
	if err != nil {
		return nil, err
	}
	return idx.windBack(pos, norm, interrupted)
}

// windBack decrements pos while pos>0 and the previous entry's normalized
// token compares equal to normalized, per the wind-back minimality
// invariant: find must return the smallest-indexed entry tied with the hit.
func (idx *Index) windBack(pos int, normalized string, interrupted *atomic.Bool) (*Entry, error) {
	for pos > 0 {
		if cancelled(interrupted) {
			return nil, ErrCancelled
		}
		prev, err := idx.entries.Get(pos - 1)
		if err != nil {
			return nil, err
		}
		prevNorm, err := prev.NormalizedToken()
		if err != nil {
			return nil, err
		}
		if idx.collator.CompareString(normalized, prevNorm) != 0 {
			break
		}
		pos--
	}
	return idx.entries.Get(pos)
}

func cancelled(interrupted *atomic.Bool) bool {
	return interrupted != nil && interrupted.Load()
}

// SearchResult is the outcome of [Index.LongestPrefix].
type SearchResult struct {
	// InsertionPoint is the result of the original, unshortened query, as
	// returned by FindInsertionPoint.
	InsertionPoint *Entry

	// LongestPrefix is the entry found for the longest prefix of query
	// whose normalized token itself has that prefix, or nil if none
	// matched.
	LongestPrefix *Entry

	// LongestPrefixString is the actual prefix that matched.
	LongestPrefixString string

	// Success is true iff any prefix matched.
	Success bool
}

// LongestPrefix repeatedly shortens query from the right (by rune), running
// FindInsertionPoint at each length, and returns the longest prefix whose
// normalized form is itself a normalized prefix of the returned entry's
// token. The original query's insertion point is preserved in the result
// regardless of whether a shorter prefix succeeds.
func (idx *Index) LongestPrefix(query string, interrupted *atomic.Bool) (*SearchResult, error) {
	first, err := idx.FindInsertionPoint(query, interrupted)
	if err != nil {
		return nil, err
	}
	result := &SearchResult{InsertionPoint: first}

	runes := []rune(query)
	for n := len(runes); n >= 1; n-- {
		if cancelled(interrupted) {
			return nil, ErrCancelled
		}
		prefix := string(runes[:n])
		qn, err := idx.normalizer.Normalize(prefix)
		if err != nil {
			return nil, err
		}
		e, err := idx.FindInsertionPoint(prefix, interrupted)
		if err != nil {
			return nil, err
		}
		norm, err := e.NormalizedToken()
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(norm, qn) {
			result.LongestPrefix = e
			result.LongestPrefixString = prefix
			result.Success = true
			return result, nil
		}
	}
	return result, nil
}

// Decode implements [raf.Decoder] for *Index: the v7 on-disk Index header
// (short/long names, isoLang, normalizerRules, swapPairEntries,
// mainTokenCount) followed by a nested AddressableList<IndexEntry>, a
// stoplist, and a nested UniformList<Row>.
func Decode(r io.Reader, version int) (*Index, error) {
	ra, ok := r.(raf.ReaderAt)
	if !ok {
		return nil, fmt.Errorf("index: decoding: reader does not support random access")
	}
	cur := raf.NewOffsetReader(ra, 0)

	short, err := raf.ReadString(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding index short name: %w", err)
	}
	long, err := raf.ReadString(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding index long name: %w", err)
	}
	isoLang, err := raf.ReadString(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding index language: %w", err)
	}
	normalizerRules, err := raf.ReadString(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding index normalizer rules: %w", err)
	}
	swap, err := raf.ReadBool(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding index swapPairEntries: %w", err)
	}
	mainTokenCount, err := raf.ReadInt32(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding index mainTokenCount: %w", err)
	}

	normalizer, err := ParseRules(normalizerRules)
	if err != nil {
		return nil, fmt.Errorf("index %q: %w", short, err)
	}
	collator, err := NewCollator(isoLang)
	if err != nil {
		return nil, fmt.Errorf("index %q: %w", short, err)
	}

	entryDecoder := func(r io.Reader, v int) (*Entry, error) {
		return decodeEntry(r, v, normalizer)
	}
	entries, err := raf.Open(ra, cur.Pos(), version, entryDecoder)
	if err != nil {
		return nil, fmt.Errorf("decoding index entries: %w", err)
	}
	cached := cache.New[*Entry](entries, cache.DefaultCapacity)

	stopCur := raf.NewOffsetReader(ra, entries.EndOffset())
	stoplist, err := sortedset.Decode(stopCur, version)
	if err != nil {
		return nil, fmt.Errorf("decoding index stoplist: %w", err)
	}

	rows, err := raf.OpenUniform(ra, stopCur.Pos(), version, row.Width, row.Decode)
	if err != nil {
		return nil, fmt.Errorf("decoding index rows: %w", err)
	}

	return &Index{
		ShortName:         short,
		LongName:          long,
		IsoLang:           isoLang,
		NormalizerRules:   normalizerRules,
		SwapPairEntries:   swap,
		MainTokenCountVal: int(mainTokenCount),
		normalizer:        normalizer,
		collator:          collator,
		stoplist:          stoplist,
		entries:           cached,
		rows:              rows,
	}, nil
}

// Encode implements [raf.Encoder] for *Index, writing the format [Decode]
// reads. persistNormalized controls whether each entry's normalized token
// is computed and written eagerly, matching the v7 writer's choice.
func Encode(out io.Writer, idx *Index, persistNormalized bool) error {
	// The whole element is assembled in memory, so the nested entries list's
	// TOC holds offsets from the start of this element, which is how Decode's
	// reader addresses it.
	w := raf.NewMemBuffer()
	if err := raf.WriteString(w, idx.ShortName); err != nil {
		return fmt.Errorf("encoding index short name: %w", err)
	}
	if err := raf.WriteString(w, idx.LongName); err != nil {
		return fmt.Errorf("encoding index long name: %w", err)
	}
	if err := raf.WriteString(w, idx.IsoLang); err != nil {
		return fmt.Errorf("encoding index language: %w", err)
	}
	if err := raf.WriteString(w, idx.NormalizerRules); err != nil {
		return fmt.Errorf("encoding index normalizer rules: %w", err)
	}
	if err := raf.WriteBool(w, idx.SwapPairEntries); err != nil {
		return fmt.Errorf("encoding index swapPairEntries: %w", err)
	}
	if err := raf.WriteInt32(w, int32(idx.MainTokenCountVal)); err != nil {
		return fmt.Errorf("encoding index mainTokenCount: %w", err)
	}

	entries, err := idx.SortedEntries()
	if err != nil {
		return fmt.Errorf("encoding index entries: %w", err)
	}
	encoder := func(w io.Writer, e *Entry) error {
		return encodeEntry(w, e, persistNormalized)
	}
	if err := raf.Write(w, entries, encoder); err != nil {
		return fmt.Errorf("encoding index entries: %w", err)
	}

	stoplist := idx.stoplist
	if stoplist == nil {
		stoplist = sortedset.New(nil)
	}
	if err := sortedset.Encode(w, stoplist); err != nil {
		return fmt.Errorf("encoding index stoplist: %w", err)
	}

	rowCount := idx.rows.Size()
	rows := make([]row.Row, rowCount)
	for i := range rows {
		rows[i], err = idx.rows.Get(i)
		if err != nil {
			return fmt.Errorf("encoding index rows: %w", err)
		}
	}
	if err := raf.WriteUniform(w, rows, row.Width, row.Encode); err != nil {
		return fmt.Errorf("encoding index rows: %w", err)
	}
	if _, err := out.Write(w.Bytes()); err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	return nil
}
