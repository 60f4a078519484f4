// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package dbg

import (
	"sort"

	"github.com/consensys/go-corset/pkg/util"
)

// addrEntry is one slot of the flat address-index array: every distinct byte
// address covered by at least one span, plus the (possibly multi-element)
// set of spans covering it, in start-sorted insertion order (spec §4.4).
type addrEntry struct {
	addr   uint64
	single *Span   // populated when exactly one span covers addr
	multi  []*Span // populated when more than one span covers addr
}

// spans returns the covering set for this entry; a single covering span is
// returned wrapped in a fresh one-element slice.
func (e *addrEntry) spans() []*Span {
	if e.single != nil {
		return []*Span{e.single}
	}
	//
	return e.multi
}

// spanIndex is the address-indexed span lookup structure (spec §4.4): a
// single flat, sorted-by-address allocation, searched by binary search.
type spanIndex struct {
	entries []addrEntry
}

// buildSpanIndex constructs the index from every Span in the database,
// following the three-sweep algorithm spec §4.4 prescribes: size the flat
// array from the high-water-mark sweep, populate addr fields and cover
// counts, then fill the per-address covering sets.
func buildSpanIndex(spans []*Span) *spanIndex {
	// A zero-size span covers no address at all (spec §4.4); drop it up front
	// so the three sweeps below never need to special-case it.
	sorted := util.RemoveMatching(append([]*Span{}, spans...), func(sp *Span) bool { return sp.Size == 0 })
	sort.Slice(sorted, func(i, j int) bool { return spanLess(sorted[i], sorted[j]) })
	//
	// Sweep 1: compute the total number of distinct addresses, tracking the
	// running high-water mark of end addresses seen so far.
	var (
		total     uint64
		highWater uint64
		hasHigh   bool
	)
	//
	for _, sp := range sorted {
		span := sp.End - sp.Start + 1
		//
		switch {
		case !hasHigh || sp.Start > highWater:
			total += span
		case sp.End > highWater:
			total += sp.End - highWater
		}
		//
		if !hasHigh || sp.End > highWater {
			highWater = sp.End
			hasHigh = true
		}
	}
	//
	entries := make([]addrEntry, 0, total)
	//
	// Sweep 2: populate addr fields in ascending order, one entry per
	// distinct address, and count how many spans cover each.
	counts := make(map[uint64]int)
	//
	highWater, hasHigh = 0, false
	//
	for _, sp := range sorted {
		start := sp.Start
		//
		if hasHigh && start <= highWater {
			start = highWater + 1
		}
		//
		for a := start; a <= sp.End; a++ {
			entries = append(entries, addrEntry{addr: a})
		}
		//
		if !hasHigh || sp.End > highWater {
			highWater = sp.End
			hasHigh = true
		}
	}
	//
	for _, sp := range sorted {
		for a := sp.Start; a <= sp.End; a++ {
			counts[a]++
		}
	}
	//
	// Sweep 3: for each span, append it into the covering set of every
	// address it spans, in start-sorted order (deterministic per spec
	// §4.4's "insertion order from the start-sorted sweep").
	byAddr := make(map[uint64]*addrEntry, len(entries))
	//
	for i := range entries {
		byAddr[entries[i].addr] = &entries[i]
	}
	//
	for _, sp := range sorted {
		for a := sp.Start; a <= sp.End; a++ {
			e := byAddr[a]
			//
			if counts[a] == 1 {
				e.single = sp
			} else {
				e.multi = append(e.multi, sp)
			}
		}
	}
	//
	return &spanIndex{entries}
}

// lookup returns the spans covering addr, or nil if none do. Binary search
// over the sorted entries array (spec §4.4).
func (si *spanIndex) lookup(addr uint64) []*Span {
	i := sort.Search(len(si.entries), func(i int) bool { return si.entries[i].addr >= addr })
	//
	if i >= len(si.entries) || si.entries[i].addr != addr {
		return nil
	}
	//
	return si.entries[i].spans()
}

// addresses returns every distinct address in the index, ascending, for
// callers that wish to enumerate coverage rather than probe a single
// address (supplements spec §4.4; see SPEC_FULL.md §5).
func (si *spanIndex) addresses() []uint64 {
	out := make([]uint64, len(si.entries))
	//
	for i, e := range si.entries {
		out[i] = e.addr
	}
	//
	return out
}
