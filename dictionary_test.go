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

package dictionary_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Wintandre/Dictionary"
	"github.com/Wintandre/Dictionary/entry"
	"github.com/Wintandre/Dictionary/index"
	"github.com/Wintandre/Dictionary/row"
)

// buildSampleBuilder returns a one-index, one-entry Builder whose entry
// spans a TokenMain row, two Pair rows, and one HTML row -- the [Token,
// Pair, Html, Pair] shape used to exercise skipHTML row pruning.
func buildSampleBuilder(t *testing.T) *dictionary.Builder {
	t.Helper()

	body, err := entry.NewHTMLBody("<p>Apple (disambiguation)</p>")
	if err != nil {
		t.Fatalf("NewHTMLBody: %v", err)
	}

	rows := []row.Row{
		{Kind: row.TokenMain, Reference: 0},
		{Kind: row.Pair, Reference: 0},
		{Kind: row.HTML, Reference: 0},
		{Kind: row.Pair, Reference: 1},
	}
	idxBuilder := index.NewBuilder()
	idxBuilder.ShortName = "EN"
	idxBuilder.LongName = "English"
	idxBuilder.IsoLang = "en"
	idxBuilder.NormalizerRules = ":: Lower ;"
	idxBuilder.MainTokenCount = 1
	idxBuilder.Rows = rows
	idxBuilder.Entries = []*index.Entry{index.NewEntry("Apple", 0, 4, []int32{0})}
	idx, err := idxBuilder.Build()
	if err != nil {
		t.Fatalf("building sample index: %v", err)
	}

	b := dictionary.NewBuilder()
	b.Info = "a test dictionary"
	b.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b.Sources = []entry.Source{{Name: "testcorpus", NumEntries: 2}}
	b.Pairs = []entry.Pair{
		{Source: 0, Pairs: []entry.LangPair{{A: "apple", B: "manzana"}}},
		{Source: 0, Pairs: []entry.LangPair{{A: "banana", B: "plátano"}}},
	}
	b.Texts = []entry.Text{{Source: 0, Text: "a common fruit"}}
	b.HTMLBodies = []entry.HTMLBody{body}
	b.HTMLTitles = []entry.HTML{{Source: 0, Title: "Apple (disambiguation)", BodyRef: 0}}
	b.Indices = []*index.Index{idx}
	return b
}

func TestDictionary_V7RoundTrip(t *testing.T) {
	t.Parallel()

	b := buildSampleBuilder(t)
	path := filepath.Join(t.TempDir(), "sample.dict")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.Write(f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing written file: %v", err)
	}

	d, err := dictionary.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if got := d.Version(); got != dictionary.CurrentVersion {
		t.Errorf("Version = %d, want %d", got, dictionary.CurrentVersion)
	}
	if got := d.Info(); got != "a test dictionary" {
		t.Errorf("Info = %q, want %q", got, "a test dictionary")
	}
	if got := d.NumSources(); got != 1 {
		t.Errorf("NumSources = %d, want 1", got)
	}
	if got := d.NumPairs(); got != 2 {
		t.Errorf("NumPairs = %d, want 2", got)
	}
	if got := d.NumTexts(); got != 1 {
		t.Errorf("NumTexts = %d, want 1", got)
	}
	if got := d.NumHTMLTitles(); got != 1 {
		t.Errorf("NumHTMLTitles = %d, want 1", got)
	}
	if got := d.NumHTMLBodies(); got != 1 {
		t.Errorf("NumHTMLBodies = %d, want 1", got)
	}
	if got := len(d.Indices()); got != 1 {
		t.Fatalf("len(Indices()) = %d, want 1", got)
	}

	idx := d.Indices()[0]
	if idx.ShortName != "EN" {
		t.Errorf("ShortName = %q, want %q", idx.ShortName, "EN")
	}

	e, err := idx.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0): %v", err)
	}
	rows, err := idx.Rows(e)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(rows))
	}

	pair, err := d.Resolve(rows[1])
	if err != nil {
		t.Fatalf("Resolve(Pair row): %v", err)
	}
	p, ok := pair.(entry.Pair)
	if !ok || len(p.Pairs) != 1 || p.Pairs[0].A != "apple" {
		t.Errorf("Resolve(Pair row) = %#v, want the apple/manzana pair", pair)
	}

	html, err := d.Resolve(rows[2])
	if err != nil {
		t.Fatalf("Resolve(Html row): %v", err)
	}
	h, ok := html.(entry.HTML)
	if !ok || h.Title != "Apple (disambiguation)" {
		t.Fatalf("Resolve(Html row) = %#v, want the Apple disambiguation title", html)
	}
	body, err := d.HTMLBodyFor(h)
	if err != nil {
		t.Fatalf("HTMLBodyFor: %v", err)
	}
	decompressed, err := body.Decompress()
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if decompressed != "<p>Apple (disambiguation)</p>" {
		t.Errorf("Decompress = %q, want the original html", decompressed)
	}
}

func TestDictionary_V6RoundTripInlineBody(t *testing.T) {
	t.Parallel()

	b := buildSampleBuilder(t)
	path := filepath.Join(t.TempDir(), "sample.dict")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.WriteV6(f, false); err != nil {
		t.Fatalf("WriteV6: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing written file: %v", err)
	}

	d, err := dictionary.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if got := d.Version(); got != 6 {
		t.Errorf("Version = %d, want 6", got)
	}
	if got := d.NumHTMLTitles(); got != 1 {
		t.Errorf("NumHTMLTitles = %d, want 1", got)
	}
	if got := d.NumHTMLBodies(); got != 0 {
		t.Errorf("NumHTMLBodies = %d, want 0 (v6 has no separate body list)", got)
	}

	h, err := d.HTMLEntry(0)
	if err != nil {
		t.Fatalf("HTMLEntry(0): %v", err)
	}
	if h.InlineBody == nil {
		t.Fatal("InlineBody is nil, want a v6 entry's body decoded inline")
	}
	body, err := d.HTMLBodyFor(h)
	if err != nil {
		t.Fatalf("HTMLBodyFor: %v", err)
	}
	decompressed, err := body.Decompress()
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if decompressed != "<p>Apple (disambiguation)</p>" {
		t.Errorf("Decompress = %q, want the original html", decompressed)
	}
}

func TestDictionary_V6SkipHTMLPrunesRows(t *testing.T) {
	t.Parallel()

	b := buildSampleBuilder(t)
	path := filepath.Join(t.TempDir(), "sample.dict")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.WriteV6(f, true); err != nil {
		t.Fatalf("WriteV6(skipHTML=true): %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing written file: %v", err)
	}

	d, err := dictionary.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if got := d.NumHTMLTitles(); got != 0 {
		t.Errorf("NumHTMLTitles = %d, want 0 when skipHTML drops the html lists", got)
	}

	idx := d.Indices()[0]
	if got := idx.NumRows(); got != 3 {
		t.Fatalf("NumRows = %d, want 3 (one Html row pruned from 4)", got)
	}
	for i := 0; i < idx.NumRows(); i++ {
		r, err := idx.Row(i)
		if err != nil {
			t.Fatalf("Row(%d): %v", i, err)
		}
		if r.Kind == row.HTML {
			t.Errorf("Row(%d).Kind = Html, want every Html row pruned", i)
		}
	}

	e, err := idx.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0): %v", err)
	}
	if e.NumRows != 3 {
		t.Errorf("Entry.NumRows = %d, want 3", e.NumRows)
	}
	if len(e.HTMLRefs) != 0 {
		t.Errorf("Entry.HTMLRefs = %v, want empty once the html lists are dropped", e.HTMLRefs)
	}
}

func TestBuilder_WriteEmptyDictionaryRoundTrips(t *testing.T) {
	t.Parallel()

	b := dictionary.NewBuilder()
	path := filepath.Join(t.TempDir(), "empty.dict")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.Write(f); err != nil {
		t.Fatalf("Write of an empty builder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing written file: %v", err)
	}

	d, err := dictionary.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()
	if got := d.NumSources(); got != 0 {
		t.Errorf("NumSources = %d, want 0", got)
	}
	if got := len(d.Indices()); got != 0 {
		t.Errorf("len(Indices()) = %d, want 0", got)
	}
}

func TestOpen_RejectsUnsupportedVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.dict")
	// version=99, which is neither a legacy nor current format.
	if err := os.WriteFile(path, []byte{0, 0, 0, 99}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := dictionary.Open(path)
	if !errors.Is(err, dictionary.ErrUnsupportedVersion) {
		t.Fatalf("Open = %v, want %v", err, dictionary.ErrUnsupportedVersion)
	}
}

func TestDictionary_Close(t *testing.T) {
	t.Parallel()

	b := buildSampleBuilder(t)
	path := filepath.Join(t.TempDir(), "sample.dict")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.Write(f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing written file: %v", err)
	}

	d, err := dictionary.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Close is idempotent.
	if err := d.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := d.Source(0); !errors.Is(err, dictionary.ErrClosed) {
		t.Fatalf("Source after Close = %v, want %v", err, dictionary.ErrClosed)
	}
}

func TestOpenAll(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	b := buildSampleBuilder(t)

	for _, name := range []string{"a.dict", "b.dict"} {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := b.Write(f); err != nil {
			t.Fatalf("Write: %v", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("closing written file: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not a dictionary"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	dicts, errs := dictionary.OpenAll(dir)
	defer func() {
		for _, d := range dicts {
			d.Close()
		}
	}()
	if len(errs) != 0 {
		t.Fatalf("OpenAll errs = %v, want none", errs)
	}
	if len(dicts) != 2 {
		t.Fatalf("len(dicts) = %d, want 2", len(dicts))
	}
}

func TestInfo_NeverErrors(t *testing.T) {
	t.Parallel()

	info := dictionary.Info(filepath.Join(t.TempDir(), "does-not-exist.dict"))
	if info == nil {
		t.Fatal("Info returned nil")
	}
	if info.Version != 0 {
		t.Errorf("Version = %d, want 0 for a missing file", info.Version)
	}
}

func TestInfo_ParsesHeader(t *testing.T) {
	t.Parallel()

	b := buildSampleBuilder(t)
	path := filepath.Join(t.TempDir(), "sample.dict")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.Write(f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing written file: %v", err)
	}

	info := dictionary.Info(path)
	if info.Version != dictionary.CurrentVersion {
		t.Errorf("Version = %d, want %d", info.Version, dictionary.CurrentVersion)
	}
	if info.Comment != "a test dictionary" {
		t.Errorf("Comment = %q, want %q", info.Comment, "a test dictionary")
	}
	if len(info.Indices) != 1 || info.Indices[0].ShortName != "EN" {
		t.Errorf("Indices = %+v, want one EN index", info.Indices)
	}
	if info.Size == 0 {
		t.Error("Size = 0, want the written file's size")
	}
}

func TestDictionary_Print(t *testing.T) {
	t.Parallel()

	b := buildSampleBuilder(t)
	path := filepath.Join(t.TempDir(), "sample.dict")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := b.Write(f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("closing written file: %v", err)
	}

	d, err := dictionary.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	var buf bytes.Buffer
	if err := d.Print(&buf); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Print wrote nothing")
	}
}
