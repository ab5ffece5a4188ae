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

package cache_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Wintandre/Dictionary/cache"
)

// countingSource decodes elements from a slice and counts how many times
// each index is actually decoded, so tests can assert on cache behavior.
type countingSource struct {
	values []string
	counts []atomic.Int64
}

func newCountingSource(values []string) *countingSource {
	return &countingSource{
		values: values,
		counts: make([]atomic.Int64, len(values)),
	}
}

func (s *countingSource) Size() int { return len(s.values) }

func (s *countingSource) Get(i int) (string, error) {
	if i < 0 || i >= len(s.values) {
		return "", fmt.Errorf("index out of range: %d", i)
	}
	s.counts[i].Add(1)
	return s.values[i], nil
}

func TestList_CachesDecodedValues(t *testing.T) {
	t.Parallel()

	src := newCountingSource([]string{"a", "b", "c"})
	l := cache.New[string](src, 10)

	for i := 0; i < 3; i++ {
		v, err := l.Get(1)
		if err != nil {
			t.Fatalf("Get(1): %v", err)
		}
		if v != "b" {
			t.Fatalf("Get(1) = %q, want %q", v, "b")
		}
	}

	if got := src.counts[1].Load(); got != 1 {
		t.Fatalf("element 1 decoded %d times, want 1", got)
	}
	if got := src.counts[0].Load(); got != 0 {
		t.Fatalf("element 0 decoded %d times, want 0", got)
	}
}

func TestList_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	src := newCountingSource([]string{"a", "b", "c", "d"})
	l := cache.New[string](src, 2)

	mustGet := func(i int) {
		if _, err := l.Get(i); err != nil {
			t.Fatalf("Get(%d): %v", i, err)
		}
	}

	mustGet(0)
	mustGet(1)
	// Capacity is 2; element 0 is now the least recently used.
	mustGet(2)
	// Element 0 should have been evicted; re-fetching it decodes again.
	mustGet(0)

	if got := src.counts[0].Load(); got != 2 {
		t.Fatalf("element 0 decoded %d times, want 2 (evicted once)", got)
	}
}

func TestList_FullyCachedDoesNotEvict(t *testing.T) {
	t.Parallel()

	src := newCountingSource([]string{"a", "b", "c"})
	l, err := cache.NewFullyCached[string](src)
	if err != nil {
		t.Fatalf("NewFullyCached: %v", err)
	}

	for _, want := range src.counts {
		if got := want.Load(); got != 1 {
			t.Fatalf("element decoded %d times during NewFullyCached, want 1", got)
		}
	}

	for i := 0; i < len(src.values); i++ {
		for j := 0; j < 5; j++ {
			if _, err := l.Get(i); err != nil {
				t.Fatalf("Get(%d): %v", i, err)
			}
		}
	}

	for i, c := range src.counts {
		if got := c.Load(); got != 1 {
			t.Fatalf("element %d decoded %d times, want 1 (fully cached, never re-decoded)", i, got)
		}
	}
}

func TestList_Size(t *testing.T) {
	t.Parallel()

	src := newCountingSource([]string{"a", "b"})
	l := cache.New[string](src, 10)
	if l.Size() != 2 {
		t.Fatalf("Size = %d, want 2", l.Size())
	}
}
