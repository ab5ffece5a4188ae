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

package cache

import (
	"container/list"
	"sync"
)

// DefaultCapacity is the default bound on the number of decoded elements a
// List keeps in memory at once.
const DefaultCapacity = 5000

// Source is the contract a List caches: something with a known size whose
// elements can be decoded by position, on demand.
type Source[T any] interface {
	Size() int
	Get(i int) (T, error)
}

// List wraps a Source behind an LRU of bounded size. All reads go through
// the cache; the wrapped Source is never mutated.
//
// A single mutex protects the cache's bookkeeping (the entry map and the
// recency list). The lock is released around Source.Get, so two callers
// missing on the same element may both decode it; the first result stored
// is kept and the other is discarded.
type List[T any] struct {
	src      Source[T]
	mu       sync.Mutex
	capacity int
	entries  map[int]*list.Element
	order    *list.List // front = most recently used
	full     bool       // true once every element has been decoded
}

type cacheEntry[T any] struct {
	index int
	value T
}

// New wraps src with a bounded LRU of the given capacity. A capacity <= 0
// uses [DefaultCapacity].
func New[T any](src Source[T], capacity int) *List[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &List[T]{
		src:      src,
		capacity: capacity,
		entries:  make(map[int]*list.Element),
		order:    list.New(),
	}
}

// NewFullyCached decodes every element of src eagerly and keeps them all in
// memory, bypassing the LRU's eviction entirely. Appropriate for small
// lists that are read from frequently, such as a dictionary's texts list.
func NewFullyCached[T any](src Source[T]) (*List[T], error) {
	l := &List[T]{
		src:      src,
		capacity: src.Size(),
		entries:  make(map[int]*list.Element),
		order:    list.New(),
		full:     true,
	}
	for i := 0; i < src.Size(); i++ {
		v, err := src.Get(i)
		if err != nil {
			return nil, err
		}
		l.entries[i] = l.order.PushFront(&cacheEntry[T]{index: i, value: v})
	}
	return l, nil
}

// Size returns the number of elements, same as the wrapped Source.
func (l *List[T]) Size() int {
	return l.src.Size()
}

// Get returns element i, decoding and caching it on first access.
func (l *List[T]) Get(i int) (T, error) {
	l.mu.Lock()
	if e, ok := l.entries[i]; ok {
		if !l.full {
			l.order.MoveToFront(e)
		}
		v := e.Value.(*cacheEntry[T]).value
		l.mu.Unlock()
		return v, nil
	}
	l.mu.Unlock()

	v, err := l.src.Get(i)
	if err != nil {
		var zero T
		return zero, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.entries[i]; ok {
		// Another caller raced us and decoded it first; keep their entry
		// rather than evict based on a now-stale view of recency.
		return e.Value.(*cacheEntry[T]).value, nil
	}
	l.entries[i] = l.order.PushFront(&cacheEntry[T]{index: i, value: v})
	l.evictLocked()
	return v, nil
}

func (l *List[T]) evictLocked() {
	for !l.full && len(l.entries) > l.capacity {
		back := l.order.Back()
		if back == nil {
			return
		}
		l.order.Remove(back)
		delete(l.entries, back.Value.(*cacheEntry[T]).index)
	}
}
