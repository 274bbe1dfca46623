// Copyright 2024 The sortx Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sortengine

import (
	"container/heap"
	"errors"
	"io"

	"github.com/sortx/sortx/record"
	"github.com/sortx/sortx/sortkey"
)

// taggedReader is what both a spilled run file (runReader) and the run
// generator's unspilled residual buffer (bufReader) implement, so the
// merger doesn't care which kind of source it's reading.
type taggedReader interface {
	Next() (taggedRecord, error)
	Close() error
}

// mergeSource is one input to the merger: an open run reader. Ties are
// broken by each record's own original input ordinal (carried in
// taggedRecord), not a per-run ordinal, so correctness survives any number
// of hierarchical merge levels without extra bookkeeping.
type mergeSource struct {
	reader taggedReader
}

// heapItem is one run's current head record, held in the min-heap.
type heapItem struct {
	tr  taggedRecord
	src int // index into merger.sources
}

type runHeap struct {
	items []heapItem
	vec   sortkey.Vector
}

func (h *runHeap) Len() int { return len(h.items) }

func (h *runHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if c := h.vec.Compare(a.tr.Rec, b.tr.Rec); c != 0 {
		return c < 0
	}
	return a.tr.Ordinal < b.tr.Ordinal
}

func (h *runHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *runHeap) Push(x any) { h.items = append(h.items, x.(heapItem)) }

func (h *runHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// merger is a k-way merge over a nonempty set of sorted runs. Next returns
// taggedRecords, not bare Records, so the original input ordinal survives
// through an arbitrary number of hierarchical merge levels (reduceLevel
// writes its intermediate runs from these taggedRecords directly); only
// the top-level caller peels the ordinal off before handing records to a
// record.Writer.
type merger struct {
	sources []mergeSource
	heap    runHeap

	hasUnique    bool
	uniqueSel    record.Selector
	firstOrdinal map[string]int64
}

// newMerger primes the heap with each source's first record. Returns an
// IOError wrapping the first read failure, if any. firstOrdinal is only
// consulted when hasUnique is true; reduceLevel's intermediate merges pass
// hasUnique=false since spec.md §4.4 requires dedup to run over the final
// merged stream, not per intermediate group.
func newMerger(vec sortkey.Vector, sources []mergeSource, hasUnique bool, sel record.Selector, firstOrdinal map[string]int64) (*merger, error) {
	m := &merger{sources: sources, heap: runHeap{vec: vec}, hasUnique: hasUnique, uniqueSel: sel, firstOrdinal: firstOrdinal}
	for i, s := range sources {
		tr, err := s.reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				continue
			}
			return nil, &IOError{Op: "read", Err: err}
		}
		heap.Push(&m.heap, heapItem{tr: tr, src: i})
	}
	return m, nil
}

// Next returns the next record in merged order, applying the first-in-
// input uniqueness filter described in spec.md §4.4 before returning.
func (m *merger) Next() (taggedRecord, error) {
	for {
		if m.heap.Len() == 0 {
			return taggedRecord{}, io.EOF
		}
		item := heap.Pop(&m.heap).(heapItem)
		if next, err := m.sources[item.src].reader.Next(); err == nil {
			heap.Push(&m.heap, heapItem{tr: next, src: item.src})
		} else if !errors.Is(err, io.EOF) {
			return taggedRecord{}, &IOError{Op: "read", Err: err}
		}
		if m.hasUnique && !isFirstInInput(item.tr, m.uniqueSel, m.firstOrdinal) {
			continue
		}
		return item.tr, nil
	}
}

func (m *merger) Close() error {
	var first error
	for _, s := range m.sources {
		if err := s.reader.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// mergerReader adapts a merger to record.Reader for the top-level caller,
// which only wants finished Records, not their input ordinals.
type mergerReader struct {
	m *merger
}

func (r *mergerReader) Next() (*record.Record, error) {
	tr, err := r.m.Next()
	if err != nil {
		return nil, err
	}
	return tr.Rec, nil
}

func (r *mergerReader) Close() error { return r.m.Close() }
