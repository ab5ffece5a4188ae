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
	"os"
	"sync"
	"time"

	"github.com/Wintandre/Dictionary/cache"
	"github.com/Wintandre/Dictionary/entry"
	"github.com/Wintandre/Dictionary/index"
	"github.com/Wintandre/Dictionary/raf"
	"github.com/Wintandre/Dictionary/row"
)

// Dictionary is an opened, read-only dictionary file. The sources, pairs,
// HTML titles and HTML bodies lists are views pinned to absolute file
// offsets whose elements are decoded on first access, pairs and HTML titles
// through an LRU cache. The texts list is decoded in full by Open, and so is
// each index's header and stoplist; the indices are held in a slice, and
// their entries and rows are decoded on first access. Dictionary is safe for
// concurrent reads: its file handle is
// read exclusively via ReadAt, and every mutable field belonging to a
// wrapped list (LRU state, index search memoisation) guards itself.
type Dictionary struct {
	mu     sync.Mutex
	closed bool
	file   *os.File
	path   string

	version   int
	createdAt time.Time
	info      string

	sources    *raf.List[entry.Source]
	pairs      *cache.List[entry.Pair]
	texts      *cache.List[entry.Text]
	htmlTitles *cache.List[entry.HTML]    // nil if version < 5
	htmlBodies *raf.List[entry.HTMLBody]  // nil if version < 7
	indices    []*index.Index
}

// Open opens the dictionary file at path read-only, parsing the header and
// constructing every list by offset. Every element of the texts list and
// each index's header and stoplist are decoded here; the other lists'
// elements, and each index's entries and rows, are not. version
// outside [0, CurrentVersion] is rejected as [ErrUnsupportedVersion]; a
// missing or mismatched terminator is rejected as [raf.ErrCorrupt]. On any
// error, the file handle is closed and no partial Dictionary is returned.
func Open(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: opening %q: %w", path, err)
	}
	d, err := openFile(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("dictionary: opening %q: %w", path, err)
	}
	d.path = path
	return d, nil
}

// Path returns the filesystem path Open was given.
func (d *Dictionary) Path() string {
	return d.path
}

func openFile(f *os.File) (*Dictionary, error) {
	cur := raf.NewOffsetReader(f, 0)

	version, err := raf.ReadInt32(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding version: %w", err)
	}
	if version < 0 || version > CurrentVersion {
		return nil, errUnsupportedVersion(version)
	}
	v := int(version)

	creationMillis, err := raf.ReadInt64(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding creation time: %w", err)
	}
	info, err := raf.ReadString(cur)
	if err != nil {
		return nil, fmt.Errorf("decoding dictionary info: %w", err)
	}

	sources, err := raf.Open(f, cur.Pos(), v, entry.DecodeSource)
	if err != nil {
		return nil, fmt.Errorf("decoding sources: %w", err)
	}

	pairsRaw, err := raf.Open(f, sources.EndOffset(), v, entry.DecodePair)
	if err != nil {
		return nil, fmt.Errorf("decoding pairs: %w", err)
	}
	pairs := cache.New[entry.Pair](pairsRaw, cache.DefaultCapacity)

	textsRaw, err := raf.Open(f, pairsRaw.EndOffset(), v, entry.DecodeText)
	if err != nil {
		return nil, fmt.Errorf("decoding texts: %w", err)
	}
	texts, err := cache.NewFullyCached[entry.Text](textsRaw)
	if err != nil {
		return nil, fmt.Errorf("decoding texts: %w", err)
	}

	next := textsRaw.EndOffset()
	var htmlTitles *cache.List[entry.HTML]
	if v >= 5 {
		htmlTitlesRaw, err := raf.Open(f, next, v, entry.DecodeHTML)
		if err != nil {
			return nil, fmt.Errorf("decoding html titles: %w", err)
		}
		htmlTitles = cache.New[entry.HTML](htmlTitlesRaw, cache.DefaultCapacity)
		next = htmlTitlesRaw.EndOffset()
	}

	var htmlBodies *raf.List[entry.HTMLBody]
	if v >= 7 {
		htmlBodies, err = raf.Open(f, next, v, entry.DecodeHTMLBody)
		if err != nil {
			return nil, fmt.Errorf("decoding html bodies: %w", err)
		}
		next = htmlBodies.EndOffset()
	}

	indicesRaw, err := raf.Open(f, next, v, index.Decode)
	if err != nil {
		return nil, fmt.Errorf("decoding indices: %w", err)
	}
	indices, err := indicesRaw.All()
	if err != nil {
		return nil, fmt.Errorf("decoding indices: %w", err)
	}
	next = indicesRaw.EndOffset()

	term := raf.NewOffsetReader(f, next)
	got, err := raf.ReadString(term)
	if err != nil {
		return nil, fmt.Errorf("%w: reading terminator: %v", raf.ErrCorrupt, err)
	}
	if got != sentinel {
		return nil, fmt.Errorf("%w: terminator %q, want %q", raf.ErrCorrupt, got, sentinel)
	}

	return &Dictionary{
		file:       f,
		version:    v,
		createdAt:  time.UnixMilli(creationMillis).UTC(),
		info:       info,
		sources:    sources,
		pairs:      pairs,
		texts:      texts,
		htmlTitles: htmlTitles,
		htmlBodies: htmlBodies,
		indices:    indices,
	}, nil
}

// Close releases the underlying file handle. After Close, Source, Pair,
// Text, HTMLEntry, HTMLBody, Index, Resolve and Print return [ErrClosed];
// Path, the header accessors, the Num* counts, Indices, and HTMLBodyFor for
// an inline body do not. Close is idempotent.
func (d *Dictionary) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.file.Close()
}

func (d *Dictionary) checkOpen() error {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return nil
}

// Version returns the file format version the dictionary was written in.
func (d *Dictionary) Version() int {
	return d.version
}

// CreatedAt returns the dictionary's recorded creation time.
func (d *Dictionary) CreatedAt() time.Time {
	return d.createdAt
}

// Info returns the dictionary's free-form header comment.
func (d *Dictionary) Info() string {
	return d.info
}

// NumSources returns the number of entries in the sources list.
func (d *Dictionary) NumSources() int {
	return d.sources.Size()
}

// Source returns the source at ordinal i.
func (d *Dictionary) Source(i int) (entry.Source, error) {
	if err := d.checkOpen(); err != nil {
		return entry.Source{}, err
	}
	return d.sources.Get(i)
}

// NumPairs returns the number of entries in the pairs list.
func (d *Dictionary) NumPairs() int {
	return d.pairs.Size()
}

// Pair returns the pair entry at ordinal i.
func (d *Dictionary) Pair(i int) (entry.Pair, error) {
	if err := d.checkOpen(); err != nil {
		return entry.Pair{}, err
	}
	return d.pairs.Get(i)
}

// NumTexts returns the number of entries in the texts list.
func (d *Dictionary) NumTexts() int {
	return d.texts.Size()
}

// Text returns the text entry at ordinal i.
func (d *Dictionary) Text(i int) (entry.Text, error) {
	if err := d.checkOpen(); err != nil {
		return entry.Text{}, err
	}
	return d.texts.Get(i)
}

// NumHTMLTitles returns the number of entries in the html titles list, or 0
// for a dictionary older than version 5.
func (d *Dictionary) NumHTMLTitles() int {
	if d.htmlTitles == nil {
		return 0
	}
	return d.htmlTitles.Size()
}

// HTMLEntry returns the html title entry at ordinal i.
func (d *Dictionary) HTMLEntry(i int) (entry.HTML, error) {
	if err := d.checkOpen(); err != nil {
		return entry.HTML{}, err
	}
	if d.htmlTitles == nil {
		return entry.HTML{}, fmt.Errorf("%w: dictionary has no html entries", raf.ErrCorrupt)
	}
	return d.htmlTitles.Get(i)
}

// NumHTMLBodies returns the number of entries in the html bodies list, or 0
// for a dictionary older than version 7.
func (d *Dictionary) NumHTMLBodies() int {
	if d.htmlBodies == nil {
		return 0
	}
	return d.htmlBodies.Size()
}

// HTMLBody returns the html body at ordinal i. Only meaningful for version
// 7+ dictionaries; for older versions, bodies arrive inline on the
// [entry.HTML] value itself (see HTMLBodyFor).
func (d *Dictionary) HTMLBody(i int) (entry.HTMLBody, error) {
	if err := d.checkOpen(); err != nil {
		return entry.HTMLBody{}, err
	}
	if d.htmlBodies == nil {
		return entry.HTMLBody{}, fmt.Errorf("%w: dictionary has no html bodies list", raf.ErrCorrupt)
	}
	return d.htmlBodies.Get(i)
}

// HTMLBodyFor returns the body belonging to h, regardless of whether it
// arrived inline (version 5-6) or as a reference into the dictionary's
// htmlBodies list (version 7+).
func (d *Dictionary) HTMLBodyFor(h entry.HTML) (entry.HTMLBody, error) {
	if h.InlineBody != nil {
		return *h.InlineBody, nil
	}
	return d.HTMLBody(h.BodyRef)
}

// Indices returns every index in the dictionary, in file order.
func (d *Dictionary) Indices() []*index.Index {
	return d.indices
}

// Index returns the index at ordinal i.
func (d *Dictionary) Index(i int) (*index.Index, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(d.indices) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", raf.ErrCorrupt, i, len(d.indices))
	}
	return d.indices[i], nil
}

// Resolve dereferences a row into its typed Entry Store payload: an
// entry.Pair for Pair and TokenMain rows, an entry.Text for Text and
// TokenNonMain rows, or an entry.HTML for Html rows. This fixes the
// dispatch the tagged Row variant leaves implicit: a main (non-synonym)
// token is always anchored by a translation pair, a non-main (synonym)
// token by a plain cross-reference text.
func (d *Dictionary) Resolve(r row.Row) (any, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	switch r.Kind {
	case row.Pair, row.TokenMain:
		return d.pairs.Get(r.Reference)
	case row.Text, row.TokenNonMain:
		return d.texts.Get(r.Reference)
	case row.HTML:
		return d.HTMLEntry(r.Reference)
	default:
		return nil, fmt.Errorf("%w: unknown row kind %d", raf.ErrCorrupt, r.Kind)
	}
}
