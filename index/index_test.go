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

package index_test

import (
	"io"
	"os"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Wintandre/Dictionary/index"
	"github.com/Wintandre/Dictionary/row"
)

func TestParseRules_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rules string
		input string
		want  string
	}{
		{name: "empty ruleset trims whitespace", rules: "", input: "  café  ", want: "café"},
		{name: "lowercase", rules: ":: Lower ;", input: "CAFÉ", want: "café"},
		{name: "uppercase", rules: ":: Upper ;", input: "café", want: "CAFÉ"},
		{
			name:  "strip diacritics",
			rules: ":: NFD ; :: [:Mn:] Remove ; :: NFC ;",
			input: "café",
			want:  "cafe",
		},
		{name: "literal mapping", rules: "ß > s;", input: "straße", want: "strase"},
		{name: "fold whitespace", rules: ":: FoldSpace ;", input: "a\t\tb   c", want: "a b c"},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			n, err := index.ParseRules(test.rules)
			if err != nil {
				t.Fatalf("ParseRules(%q): %v", test.rules, err)
			}
			got, err := n.Normalize(test.input)
			if err != nil {
				t.Fatalf("Normalize(%q): %v", test.input, err)
			}
			if got != test.want {
				t.Errorf("Normalize(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestParseRules_RejectsUnknownSyntax(t *testing.T) {
	t.Parallel()

	if _, err := index.ParseRules(":: Frobnicate ;"); err == nil {
		t.Fatal("ParseRules with an unknown global rule: want error, got nil")
	}
}

func TestNewCollator(t *testing.T) {
	t.Parallel()

	if _, err := index.NewCollator("en"); err != nil {
		t.Fatalf("NewCollator(%q): %v", "en", err)
	}
	if _, err := index.NewCollator("not a language tag!!"); err == nil {
		t.Fatal("NewCollator with an invalid tag: want error, got nil")
	}
}

// buildSimpleIndex constructs a two-token English index: "apple" anchors a
// Pair row, "banana" anchors a Text row. The two tokens normalize to the
// distinct forms "apple" and "banana".
func buildSimpleIndex(t *testing.T) *index.Index {
	t.Helper()

	rows := []row.Row{
		{Kind: row.TokenMain, Reference: 0},
		{Kind: row.Pair, Reference: 0},
		{Kind: row.TokenMain, Reference: 1},
		{Kind: row.Text, Reference: 0},
	}
	b := index.NewBuilder()
	b.ShortName = "EN"
	b.LongName = "English"
	b.IsoLang = "en"
	b.NormalizerRules = ":: Lower ;"
	b.Rows = rows
	b.Entries = []*index.Entry{
		index.NewEntry("Apple", 0, 2, nil),
		index.NewEntry("Banana", 2, 2, nil),
	}
	idx, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

func TestBuilder_Build_RejectsEmptyToken(t *testing.T) {
	t.Parallel()

	b := index.NewBuilder()
	b.ShortName = "EN"
	b.IsoLang = "en"
	b.Rows = []row.Row{{Kind: row.TokenMain, Reference: 0}}
	b.Entries = []*index.Entry{index.NewEntry("", 0, 1, nil)}
	if _, err := b.Build(); err == nil {
		t.Fatal("Build with an empty token: want error, got nil")
	}
}

func TestBuilder_Build_RejectsOutOfRangeRows(t *testing.T) {
	t.Parallel()

	b := index.NewBuilder()
	b.ShortName = "EN"
	b.IsoLang = "en"
	b.Rows = []row.Row{{Kind: row.TokenMain, Reference: 0}}
	b.Entries = []*index.Entry{index.NewEntry("apple", 0, 5, nil)}
	if _, err := b.Build(); err == nil {
		t.Fatal("Build with a row range exceeding len(Rows): want error, got nil")
	}
}

func TestBuilder_Build_RejectsNonTokenStart(t *testing.T) {
	t.Parallel()

	b := index.NewBuilder()
	b.ShortName = "EN"
	b.IsoLang = "en"
	b.Rows = []row.Row{{Kind: row.Pair, Reference: 0}}
	b.Entries = []*index.Entry{index.NewEntry("apple", 0, 1, nil)}
	if _, err := b.Build(); err == nil {
		t.Fatal("Build with a StartRow that isn't a TokenRow: want error, got nil")
	}
}

func TestIndex_FindInsertionPoint_ExactMatch(t *testing.T) {
	t.Parallel()

	idx := buildSimpleIndex(t)
	e, err := idx.FindInsertionPoint("apple", nil)
	if err != nil {
		t.Fatalf("FindInsertionPoint: %v", err)
	}
	if e.Token != "Apple" {
		t.Errorf("Token = %q, want %q", e.Token, "Apple")
	}
}

func TestIndex_FindInsertionPoint_CaseInsensitiveMatch(t *testing.T) {
	t.Parallel()

	idx := buildSimpleIndex(t)
	e, err := idx.FindInsertionPoint("APPLE", nil)
	if err != nil {
		t.Fatalf("FindInsertionPoint: %v", err)
	}
	if e.Token != "Apple" {
		t.Errorf("Token = %q, want %q", e.Token, "Apple")
	}
}

func TestIndex_FindInsertionPoint_NoExactMatchClampsToNearest(t *testing.T) {
	t.Parallel()

	idx := buildSimpleIndex(t)
	// "avocado" sorts between "apple" and "banana"; FindInsertionPoint must
	// clamp to one of the existing neighbours rather than erroring.
	e, err := idx.FindInsertionPoint("avocado", nil)
	if err != nil {
		t.Fatalf("FindInsertionPoint: %v", err)
	}
	if e.Token != "Apple" && e.Token != "Banana" {
		t.Errorf("Token = %q, want one of %q/%q", e.Token, "Apple", "Banana")
	}
}

func TestIndex_FindInsertionPoint_Cancelled(t *testing.T) {
	t.Parallel()

	idx := buildSimpleIndex(t)
	var interrupted atomic.Bool
	interrupted.Store(true)
	if _, err := idx.FindInsertionPoint("apple", &interrupted); err != index.ErrCancelled {
		t.Fatalf("FindInsertionPoint with a set interrupt flag = %v, want %v", err, index.ErrCancelled)
	}
}

func TestIndex_LongestPrefix(t *testing.T) {
	t.Parallel()

	idx := buildSimpleIndex(t)
	result, err := idx.LongestPrefix("applesauce", nil)
	if err != nil {
		t.Fatalf("LongestPrefix: %v", err)
	}
	if !result.Success {
		t.Fatal("Success = false, want true for a query prefixed by an existing token")
	}
	if result.LongestPrefix.Token != "Apple" {
		t.Errorf("LongestPrefix.Token = %q, want %q", result.LongestPrefix.Token, "Apple")
	}
	if result.InsertionPoint == nil {
		t.Fatal("InsertionPoint is nil, want the original query's insertion point")
	}
}

func TestIndex_Rows(t *testing.T) {
	t.Parallel()

	idx := buildSimpleIndex(t)
	e, err := idx.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0): %v", err)
	}
	rows, err := idx.Rows(e)
	if err != nil {
		t.Fatalf("Rows: %v", err)
	}
	want := []row.Row{
		{Kind: row.TokenMain, Reference: 0},
		{Kind: row.Pair, Reference: 0},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestIndex_EncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	idx := buildSimpleIndex(t)

	f, err := os.CreateTemp(t.TempDir(), "index")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	if err := index.Encode(f, idx, true); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	got, err := index.Decode(f, 7)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.ShortName != idx.ShortName || got.LongName != idx.LongName {
		t.Errorf("ShortName/LongName = %q/%q, want %q/%q", got.ShortName, got.LongName, idx.ShortName, idx.LongName)
	}
	if got.IsoLang != idx.IsoLang || got.NormalizerRules != idx.NormalizerRules {
		t.Errorf("IsoLang/NormalizerRules = %q/%q, want %q/%q", got.IsoLang, got.NormalizerRules, idx.IsoLang, idx.NormalizerRules)
	}
	if got.NumRows() != idx.NumRows() {
		t.Errorf("NumRows = %d, want %d", got.NumRows(), idx.NumRows())
	}

	wantEntries, err := idx.SortedEntries()
	if err != nil {
		t.Fatalf("SortedEntries (want): %v", err)
	}
	gotEntries, err := got.SortedEntries()
	if err != nil {
		t.Fatalf("SortedEntries (got): %v", err)
	}
	opts := cmp.Comparer(func(a, b *index.Entry) bool {
		return a.Token == b.Token && a.StartRow == b.StartRow && a.NumRows == b.NumRows
	})
	if diff := cmp.Diff(wantEntries, gotEntries, opts); diff != "" {
		t.Errorf("SortedEntries mismatch (-want +got):\n%s", diff)
	}

	for i := 0; i < idx.NumRows(); i++ {
		wantRow, err := idx.Row(i)
		if err != nil {
			t.Fatalf("Row(%d) (want): %v", i, err)
		}
		gotRow, err := got.Row(i)
		if err != nil {
			t.Fatalf("Row(%d) (got): %v", i, err)
		}
		if diff := cmp.Diff(wantRow, gotRow); diff != "" {
			t.Errorf("Row(%d) mismatch (-want +got):\n%s", i, diff)
		}
	}

	// The roundtripped index must still answer FindInsertionPoint exactly
	// as the in-memory original would.
	e, err := got.FindInsertionPoint("apple", nil)
	if err != nil {
		t.Fatalf("FindInsertionPoint on decoded index: %v", err)
	}
	if e.Token != "Apple" {
		t.Errorf("FindInsertionPoint Token = %q, want %q", e.Token, "Apple")
	}
}
