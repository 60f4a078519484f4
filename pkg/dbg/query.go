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

import "sort"

// Files returns every source file known to the database, in ascending id
// order.
func (d *Database) Files() []*File {
	out := make([]*File, len(d.store.files))
	copy(out, d.store.files)

	return compact(out)
}

// Libraries returns every library known to the database.
func (d *Database) Libraries() []*Library {
	out := make([]*Library, len(d.store.libs))
	copy(out, d.store.libs)

	return compact(out)
}

// Modules returns every module known to the database.
func (d *Database) Modules() []*Module {
	out := make([]*Module, len(d.store.modules))
	copy(out, d.store.modules)

	return compact(out)
}

// Segments returns every segment known to the database.
func (d *Database) Segments() []*Segment {
	out := make([]*Segment, len(d.store.segments))
	copy(out, d.store.segments)

	return compact(out)
}

// Spans returns every span known to the database.
func (d *Database) Spans() []*Span {
	out := make([]*Span, len(d.store.spans))
	copy(out, d.store.spans)

	return compact(out)
}

// compact drops the nil placeholders a dense, possibly-sparse id arena may
// contain (spec §3 "dense ... with possible omissions that remain as null
// placeholders").
func compact[T any](in []*T) []*T {
	out := make([]*T, 0, len(in))
	//
	for _, v := range in {
		if v != nil {
			out = append(out, v)
		}
	}
	//
	return out
}

// FileByID returns the file with the given id, or nil if out of range or
// unassigned.
func (d *Database) FileByID(id Id) *File { return d.store.file(id) }

// LibraryByID returns the library with the given id, or nil.
func (d *Database) LibraryByID(id Id) *Library { return d.store.library(id) }

// ModuleByID returns the module with the given id, or nil.
func (d *Database) ModuleByID(id Id) *Module { return d.store.module(id) }

// ScopeByID returns the scope with the given id, or nil.
func (d *Database) ScopeByID(id Id) *Scope { return d.store.scope(id) }

// SegmentByID returns the segment with the given id, or nil.
func (d *Database) SegmentByID(id Id) *Segment { return d.store.segment(id) }

// SpanByID returns the span with the given id, or nil.
func (d *Database) SpanByID(id Id) *Span { return d.store.span(id) }

// LineByID returns the line with the given id, or nil.
func (d *Database) LineByID(id Id) *Line { return d.store.line(id) }

// SymbolByID returns the symbol with the given id, or nil.
func (d *Database) SymbolByID(id Id) *Symbol { return d.store.symbol(id) }

// SymbolsByName performs a binary search on the by-name index and widens to
// every consecutive entry sharing the same name (spec §4.5).
func (d *Database) SymbolsByName(name string) []*Symbol {
	idx := d.indices.symbolsByName
	i := sort.Search(len(idx), func(i int) bool { return idx[i].Name >= name })
	//
	var out []*Symbol
	//
	for ; i < len(idx) && idx[i].Name == name; i++ {
		out = append(out, idx[i])
	}
	//
	return out
}

// SymbolsInRange returns every label-type symbol whose value falls within
// [start, end] inclusive (spec §4.5).
func (d *Database) SymbolsInRange(start, end int64) []*Symbol {
	idx := d.indices.symbolsByValue
	i := sort.Search(len(idx), func(i int) bool { return idx[i].Value >= start })
	//
	var out []*Symbol
	//
	for ; i < len(idx) && idx[i].Value <= end; i++ {
		if idx[i].Type == SymbolLabel {
			out = append(out, idx[i])
		}
	}
	//
	return out
}

// LineByFileAndLine performs a binary search on a file's per-file
// lines-by-line index (spec §4.5).
func (d *Database) LineByFileAndLine(file *File, lineNo int) *Line {
	if file == nil {
		return nil
	}
	//
	lines := file.Lines
	i := sort.Search(len(lines), func(i int) bool { return lines[i].Line >= lineNo })
	//
	if i < len(lines) && lines[i].Line == lineNo {
		return lines[i]
	}
	//
	return nil
}

// SpansByAddress returns every span covering addr, using the §4.4
// address-index (empty if none do).
func (d *Database) SpansByAddress(addr uint64) []*Span {
	return d.spanIndex.lookup(addr)
}

// CoveredAddresses returns every distinct address covered by any span,
// ascending (supplements spec §4.4/§4.5; see SPEC_FULL.md §5).
func (d *Database) CoveredAddresses() []uint64 {
	return d.spanIndex.addresses()
}

// ScopesByModule returns a module's own scopes collection directly (spec
// §4.5 "returns the module's collections directly").
func (d *Database) ScopesByModule(m *Module) []*Scope {
	if m == nil {
		return nil
	}

	return m.Scopes
}

// FilesByModule returns a module's derived file set directly.
func (d *Database) FilesByModule(m *Module) []*File {
	if m == nil {
		return nil
	}

	return m.Files
}

// FilesByName performs a binary search on the by-name index and widens to
// every consecutive entry sharing the same name.
func (d *Database) FilesByName(name string) []*File {
	idx := d.indices.filesByName
	i := sort.Search(len(idx), func(i int) bool { return idx[i].Name >= name })
	//
	var out []*File
	//
	for ; i < len(idx) && idx[i].Name == name; i++ {
		out = append(out, idx[i])
	}
	//
	return out
}

// ModulesByName performs a binary search on the by-name index and widens to
// every consecutive entry sharing the same name.
func (d *Database) ModulesByName(name string) []*Module {
	idx := d.indices.modulesByName
	i := sort.Search(len(idx), func(i int) bool { return idx[i].Name >= name })
	//
	var out []*Module
	//
	for ; i < len(idx) && idx[i].Name == name; i++ {
		out = append(out, idx[i])
	}
	//
	return out
}

// SegmentsByName performs a binary search on the by-name index and widens to
// every consecutive entry sharing the same name.
func (d *Database) SegmentsByName(name string) []*Segment {
	idx := d.indices.segmentsByName
	i := sort.Search(len(idx), func(i int) bool { return idx[i].Name >= name })
	//
	var out []*Segment
	//
	for ; i < len(idx) && idx[i].Name == name; i++ {
		out = append(out, idx[i])
	}
	//
	return out
}
