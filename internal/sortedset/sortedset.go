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

// Package sortedset implements a generic sorted-array string set, adapted
// from the "sorted slice plus sort.Find" index shape used elsewhere in this
// module's ancestry for something narrower: a boolean membership test
// rather than a search returning a range of matches. It backs an
// [index.Index]'s stoplist.
package sortedset

import (
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/Wintandre/Dictionary/raf"
)

// Set is an immutable sorted set of strings.
type Set struct {
	items []string
}

// New returns a Set containing the unique values of items.
func New(items []string) *Set {
	sorted := make([]string, len(items))
	copy(sorted, items)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return &Set{items: sorted}
}

// Contains reports whether s is a member of the set.
func (set *Set) Contains(s string) bool {
	if set == nil {
		return false
	}
	_, found := sort.Find(len(set.items), func(i int) int {
		switch {
		case s < set.items[i]:
			return -1
		case s > set.items[i]:
			return 1
		default:
			return 0
		}
	})
	return found
}

// Len returns the number of members.
func (set *Set) Len() int {
	if set == nil {
		return 0
	}
	return len(set.items)
}

// Items returns the set's members in sorted order. The caller must not
// mutate the returned slice.
func (set *Set) Items() []string {
	if set == nil {
		return nil
	}
	return set.items
}

// Decode reads a greenfield-format stoplist: int32 n; n x MUTF8. This is a
// deliberate format break from the legacy v6 index's opaque
// platform-serialized set<string> blob; see the module's grounding ledger.
func Decode(r io.Reader, _ int) (*Set, error) {
	n, err := raf.ReadInt32(r)
	if err != nil {
		return nil, fmt.Errorf("decoding stoplist size: %w", err)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative stoplist size", raf.ErrCorrupt)
	}
	items := make([]string, n)
	for i := range items {
		s, err := raf.ReadString(r)
		if err != nil {
			return nil, fmt.Errorf("decoding stoplist entry %d: %w", i, err)
		}
		items[i] = s
	}
	return New(items), nil
}

// Encode writes set in the format [Decode] reads.
func Encode(w io.Writer, set *Set) error {
	items := set.Items()
	if err := raf.WriteInt32(w, int32(len(items))); err != nil {
		return fmt.Errorf("encoding stoplist size: %w", err)
	}
	for i, s := range items {
		if err := raf.WriteString(w, s); err != nil {
			return fmt.Errorf("encoding stoplist entry %d: %w", i, err)
		}
	}
	return nil
}
