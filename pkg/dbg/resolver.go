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

	log "github.com/sirupsen/logrus"
)

// resolver converts the raw, id-addressed store produced by the parser into
// a fully linked object graph (spec §4.3): every id field becomes a direct
// pointer, back-reference collections are built, and the secondary sorted
// indices are computed.
//
// Modelled on the teacher's linker pattern (join raw records, then resolve
// references, then validate) — see DESIGN.md for the grounding file.
type resolver struct {
	store *store
	diags *diagnosticCollector
}

func newResolver(s *store, diags *diagnosticCollector) *resolver {
	return &resolver{s, diags}
}

// indices holds every sorted secondary index the resolver builds (spec
// §4.3's bulleted list).
type indices struct {
	filesByName   []*File
	modulesByName []*Module
	segmentsByName []*Segment
	symbolsByName []*Symbol
	symbolsByValue []*Symbol
}

// run performs the full resolution pass, returning the sorted indices. Any
// referential error (dangling id, module without main scope, symbol without
// effective scope) is reported through diags; the caller (database.go)
// decides, from diags.hasErrors(), whether to release the database.
func (r *resolver) run() indices {
	r.linkFiles()
	r.linkModules()
	r.linkScopes()
	r.linkSegmentsAndSpans()
	r.linkLines()
	r.linkSymbols()
	r.computeModuleMainScopes()
	r.computeDerivedFileSets()
	//
	idx := r.buildIndices()
	//
	log.Debugf("dbg: resolved %d files, %d libraries, %d modules, %d scopes, %d segments, %d spans, %d lines, %d symbols",
		len(r.store.files), len(r.store.libs), len(r.store.modules), len(r.store.scopes),
		len(r.store.segments), len(r.store.spans), len(r.store.lines), len(r.store.symbols))
	//
	return idx
}

func (r *resolver) linkFiles() {
	r.store.eachFile(func(f *File) {
		mod := r.store.module(f.ModuleId)
		//
		if mod == nil {
			r.diags.err(f.pos.line, f.pos.col, "file %q references non-existent module %d", f.Name, f.ModuleId)
			return
		}
		//
		f.Module = mod
	})
}

func (r *resolver) linkModules() {
	r.store.eachModule(func(m *Module) {
		file := r.store.file(m.FileId)
		//
		if file == nil {
			r.diags.err(0, 0, "module %q references non-existent file %d", m.Name, m.FileId)
		} else {
			m.File = file
		}
		//
		if m.LibraryId != InvalidId {
			lib := r.store.library(m.LibraryId)
			//
			if lib == nil {
				r.diags.err(0, 0, "module %q references non-existent library %d", m.Name, m.LibraryId)
			} else {
				m.Library = lib
			}
		}
	})
}

func (r *resolver) linkScopes() {
	// First pass: resolve module/parent/label and register each scope under
	// its module.
	r.store.eachScope(func(sc *Scope) {
		mod := r.store.module(sc.ModuleId)
		//
		if mod == nil {
			r.diags.err(sc.pos.line, sc.pos.col, "scope %q references non-existent module %d", sc.Name, sc.ModuleId)
			return
		}
		//
		sc.Module = mod
		mod.Scopes = append(mod.Scopes, sc)
		//
		if sc.ParentId != InvalidId {
			parent := r.store.scope(sc.ParentId)
			//
			if parent == nil {
				r.diags.err(sc.pos.line, sc.pos.col, "scope %q references non-existent parent scope %d", sc.Name, sc.ParentId)
			} else {
				sc.Parent = parent
				parent.Children = append(parent.Children, sc)
			}
		}
		//
		if sc.LabelId != InvalidId {
			sym := r.store.symbol(sc.LabelId)
			//
			if sym == nil {
				r.diags.err(sc.pos.line, sc.pos.col, "scope %q references non-existent label symbol %d", sc.Name, sc.LabelId)
			} else {
				sc.Label = sym
			}
		}
	})
}

func (r *resolver) linkSegmentsAndSpans() {
	r.store.eachSpan(func(sp *Span) {
		seg := r.store.segment(sp.SegmentId)
		//
		if seg == nil {
			r.diags.err(sp.pos.line, sp.pos.col, "span %d references non-existent segment %d", sp.Id, sp.SegmentId)
			return
		}
		//
		sp.Segment = seg
		// Spans are recorded segment-relative; absolute start/end are
		// computed here (spec §4.4).
		sp.Start = sp.Start + seg.Start
		//
		if sp.Size == 0 {
			sp.End = sp.Start
		} else {
			sp.End = sp.Start + sp.Size - 1
		}
		//
		seg.Spans = append(seg.Spans, sp)
	})
	//
	r.store.eachSegment(func(sg *Segment) {
		sort.Slice(sg.Spans, func(i, j int) bool { return spanLess(sg.Spans[i], sg.Spans[j]) })
	})
}

// spanLess implements spec §4.4's span comparison: ascending start, then
// ascending end.
func spanLess(a, b *Span) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	//
	return a.End < b.End
}

func (r *resolver) linkLines() {
	r.store.eachLine(func(ln *Line) {
		file := r.store.file(ln.FileId)
		//
		if file == nil {
			r.diags.err(ln.pos.line, ln.pos.col, "line %d references non-existent file %d", ln.Id, ln.FileId)
			return
		}
		//
		ln.File = file
		file.Lines = append(file.Lines, ln)
		//
		for _, spanId := range ln.SpanIds {
			sp := r.store.span(spanId)
			//
			if sp == nil {
				r.diags.err(ln.pos.line, ln.pos.col, "line %d references non-existent span %d", ln.Id, spanId)
				continue
			}
			//
			ln.Spans = append(ln.Spans, sp)
			sp.Lines = append(sp.Lines, ln)
		}
	})
	//
	r.store.eachFile(func(f *File) {
		sort.Slice(f.Lines, func(i, j int) bool { return f.Lines[i].Line < f.Lines[j].Line })
	})
	//
	// Resolve scope -> span associations now that spans exist.
	r.store.eachScope(func(sc *Scope) {
		for _, spanId := range sc.SpanIds {
			sp := r.store.span(spanId)
			//
			if sp == nil {
				r.diags.err(sc.pos.line, sc.pos.col, "scope %q references non-existent span %d", sc.Name, spanId)
				continue
			}
			//
			sc.Spans = append(sc.Spans, sp)
			sp.Scopes = append(sp.Scopes, sc)
		}
	})
}

func (r *resolver) linkSymbols() {
	r.store.eachSymbol(func(sy *Symbol) {
		if sy.SegmentId != InvalidId {
			seg := r.store.segment(sy.SegmentId)
			//
			if seg == nil {
				r.diags.err(sy.pos.line, sy.pos.col, "symbol %q references non-existent segment %d", sy.Name, sy.SegmentId)
			} else {
				sy.Segment = seg
			}
		}
		//
		if sy.ScopeId != InvalidId {
			sc := r.store.scope(sy.ScopeId)
			//
			if sc == nil {
				r.diags.err(sy.pos.line, sy.pos.col, "symbol %q references non-existent scope %d", sy.Name, sy.ScopeId)
			} else {
				sy.Scope = sc
				sc.Symbols = append(sc.Symbols, sy)
			}
		}
		//
		if sy.ParentId != InvalidId {
			parent := r.store.symbol(sy.ParentId)
			//
			if parent == nil {
				r.diags.err(sy.pos.line, sy.pos.col, "symbol %q references non-existent parent symbol %d", sy.Name, sy.ParentId)
			} else {
				sy.Parent = parent
			}
		}
	})
	//
	// Spec §4.3.3: inherit scope from the parent chain where scope is absent.
	// First pass resolves direct parents; a second pass catches symbols whose
	// parent's own scope was only just filled in by the first pass.
	for pass := 0; pass < 2; pass++ {
		r.store.eachSymbol(func(sy *Symbol) {
			if sy.Scope == nil && sy.Parent != nil {
				sy.Scope = sy.Parent.Scope
				//
				if sy.Scope != nil {
					sy.Scope.Symbols = append(sy.Scope.Symbols, sy)
				}
			}
		})
	}
	//
	r.store.eachSymbol(func(sy *Symbol) {
		if sy.Scope == nil {
			r.diags.err(sy.pos.line, sy.pos.col, "symbol %q has no effective scope", sy.Name)
		}
	})
}

func (r *resolver) computeModuleMainScopes() {
	r.store.eachModule(func(m *Module) {
		for _, sc := range m.Scopes {
			if sc.Parent == nil {
				if m.MainScope != nil {
					r.diags.err(sc.pos.line, sc.pos.col, "module %q has more than one top-level scope", m.Name)
					continue
				}
				//
				m.MainScope = sc
			}
		}
		//
		if m.MainScope == nil {
			r.diags.err(0, 0, "module %q has no top-level (main) scope", m.Name)
		}
	})
}

// computeDerivedFileSets builds Module.Files (every distinct File touched by
// code reachable from the module's scopes) and its inverse, File's
// ModulesByName (spec §3 "set of files referenced by this module" / "set of
// modules in which this file is used").
func (r *resolver) computeDerivedFileSets() {
	r.store.eachModule(func(m *Module) {
		seen := make(map[Id]*File)
		//
		var walk func(sc *Scope)
		walk = func(sc *Scope) {
			for _, sp := range sc.Spans {
				for _, ln := range sp.Lines {
					if ln.File != nil {
						seen[ln.File.Id] = ln.File
					}
				}
			}
			//
			for _, child := range sc.Children {
				walk(child)
			}
		}
		//
		for _, sc := range m.Scopes {
			if sc.Parent == nil {
				walk(sc)
			}
		}
		//
		for _, f := range seen {
			m.Files = append(m.Files, f)
		}
		//
		sort.Slice(m.Files, func(i, j int) bool { return m.Files[i].Name < m.Files[j].Name })
		//
		for _, f := range m.Files {
			f.ModulesByName = append(f.ModulesByName, m)
		}
	})
	//
	r.store.eachFile(func(f *File) {
		sort.Slice(f.ModulesByName, func(i, j int) bool { return f.ModulesByName[i].Name < f.ModulesByName[j].Name })
	})
}

func (r *resolver) buildIndices() indices {
	var idx indices
	//
	r.store.eachFile(func(f *File) { idx.filesByName = append(idx.filesByName, f) })
	sort.Slice(idx.filesByName, func(i, j int) bool {
		a, b := idx.filesByName[i], idx.filesByName[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.MTime != b.MTime {
			return a.MTime < b.MTime
		}

		return a.Size < b.Size
	})
	//
	r.store.eachModule(func(m *Module) { idx.modulesByName = append(idx.modulesByName, m) })
	sort.Slice(idx.modulesByName, func(i, j int) bool { return idx.modulesByName[i].Name < idx.modulesByName[j].Name })
	//
	r.store.eachSegment(func(sg *Segment) { idx.segmentsByName = append(idx.segmentsByName, sg) })
	sort.Slice(idx.segmentsByName, func(i, j int) bool { return idx.segmentsByName[i].Name < idx.segmentsByName[j].Name })
	//
	r.store.eachSymbol(func(sy *Symbol) {
		idx.symbolsByName = append(idx.symbolsByName, sy)
		idx.symbolsByValue = append(idx.symbolsByValue, sy)
	})
	sort.Slice(idx.symbolsByName, func(i, j int) bool {
		a, b := idx.symbolsByName[i], idx.symbolsByName[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}

		return a.Id < b.Id
	})
	sort.Slice(idx.symbolsByValue, func(i, j int) bool {
		a, b := idx.symbolsByValue[i], idx.symbolsByValue[j]
		if a.Value != b.Value {
			return a.Value < b.Value
		}

		return a.Name < b.Name
	})
	//
	// Per-module scopes-by-name (spec §4.3).
	r.store.eachModule(func(m *Module) {
		sort.Slice(m.Scopes, func(i, j int) bool { return m.Scopes[i].Name < m.Scopes[j].Name })
	})
	//
	return idx
}
