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

// dropIfMissing checks the required set for a directive and, if anything is
// absent, reports it and returns false so the caller can drop the record
// (spec §4.2 "otherwise it emits an error and drops the record").
func (p *parser) dropIfMissing(directive string, attrs *directiveAttrs, line, col int) bool {
	missing := attrs.missing(requiredAttrs[directive])
	if len(missing) == 0 {
		return false
	}
	//
	for _, m := range missing {
		p.diags.err(line, col, "%q directive missing required attribute %q", directive, m)
	}
	//
	return true
}

func (p *parser) buildVersion(attrs *directiveAttrs, line, col int) {
	if p.dropIfMissing("version", attrs, line, col) {
		return
	}
	//
	major, _ := attrs.uint("major")
	minor, _ := attrs.uint("minor")
	p.version.major, p.version.minor = major, minor
	//
	switch {
	case major < supportedMajor:
		p.diags.err(line, col, "debug file version %d.%d is older than the oldest supported version %d.%d",
			major, minor, supportedMajor, supportedMinor)
	case major == supportedMajor && minor > supportedMinor:
		p.diags.err(line, col, "debug file minor version %d is newer than supported minor version %d",
			minor, supportedMinor)
	case major > supportedMajor:
		p.diags.warn(line, col, "debug file major version %d is newer than supported major version %d",
			major, supportedMajor)
	}
}

func (p *parser) buildInfo(attrs *directiveAttrs, _, _ int) {
	// Counts are hints only (spec §4.2, §9 open questions): no required set,
	// never an error even if absent, inaccurate, or repeated.
	file, _ := attrs.uint("file")
	lib, _ := attrs.uint("lib")
	mod, _ := attrs.uint("mod")
	scope, _ := attrs.uint("scope")
	seg, _ := attrs.uint("seg")
	span, _ := attrs.uint("span")
	line, _ := attrs.uint("line")
	sym, _ := attrs.uint("sym")
	//
	p.store.reserve(infoCounts{
		file: int(file), lib: int(lib), mod: int(mod), scope: int(scope),
		seg: int(seg), span: int(span), line: int(line), sym: int(sym),
	})
}

func (p *parser) buildFile(attrs *directiveAttrs, line, col int) {
	if p.dropIfMissing("file", attrs, line, col) {
		return
	}
	//
	id, _ := attrs.id("id")
	name, _ := attrs.str("name")
	size, _ := attrs.uint("size")
	mtime, _ := attrs.uint("mtime")
	mod, _ := attrs.id("mod")
	//
	if p.store.file(id) != nil {
		p.diags.warn(line, col, "duplicate \"file\" id=%d, overwriting earlier record", id)
	}
	//
	p.store.putFile(&File{Id: id, Name: name, Size: size, MTime: mtime, ModuleId: mod, pos: position{line, col}})
}

func (p *parser) buildLibrary(attrs *directiveAttrs, line, col int) {
	if p.dropIfMissing("library", attrs, line, col) {
		return
	}
	//
	id, _ := attrs.id("id")
	name, _ := attrs.str("name")
	//
	if p.store.library(id) != nil {
		p.diags.warn(line, col, "duplicate \"library\" id=%d, overwriting earlier record", id)
	}
	//
	p.store.putLibrary(&Library{Id: id, Name: name, pos: position{line, col}})
}

func (p *parser) buildModule(attrs *directiveAttrs, line, col int) {
	if p.dropIfMissing("module", attrs, line, col) {
		return
	}
	//
	id, _ := attrs.id("id")
	name, _ := attrs.str("name")
	file, _ := attrs.id("file")
	lib := attrs.idOr("lib", InvalidId)
	//
	if p.store.module(id) != nil {
		p.diags.warn(line, col, "duplicate \"module\" id=%d, overwriting earlier record", id)
	}
	//
	p.store.putModule(&Module{Id: id, Name: name, FileId: file, LibraryId: lib, pos: position{line, col}})
}

func (p *parser) buildScope(attrs *directiveAttrs, line, col int) {
	if p.dropIfMissing("scope", attrs, line, col) {
		return
	}
	//
	id, _ := attrs.id("id")
	name, _ := attrs.str("name")
	mod, _ := attrs.id("mod")
	parent := attrs.idOr("parent", InvalidId)
	label := attrs.idOr("sym", InvalidId)
	sizeHint, _ := attrs.uint("size")
	spanIds, _ := attrs.idList("span")
	//
	typ := ScopeGlobal
	//
	if text, ok := attrs.ident("type"); ok {
		t, ok := scopeTypeOf(text)
		//
		if !ok {
			p.diags.err(line, col, "unrecognised scope type %q", text)
			return
		}
		//
		typ = t
	}
	//
	if p.store.scope(id) != nil {
		p.diags.warn(line, col, "duplicate \"scope\" id=%d, overwriting earlier record", id)
	}
	//
	sc := &Scope{
		Id: id, Name: name, ModuleId: mod, Type: typ, Size: sizeHint,
		ParentId: parent, LabelId: label, SpanIds: spanIds, pos: position{line, col},
	}
	p.store.putScope(sc)
}

// scopeTypeOf maps the textual scope-type enumeration onto ScopeType. Per
// spec §4.2, the input token "file" denotes a module-level scope (the
// keyword "module" itself being reserved as a directive name).
func scopeTypeOf(text string) (ScopeType, bool) {
	switch text {
	case "global":
		return ScopeGlobal, true
	case "file":
		return ScopeModule, true
	case "scope":
		return ScopeScope, true
	case "struct":
		return ScopeStruct, true
	case "enum":
		return ScopeEnum, true
	default:
		return 0, false
	}
}

func (p *parser) buildSegment(attrs *directiveAttrs, line, col int) {
	if p.dropIfMissing("segment", attrs, line, col) {
		return
	}
	//
	id, _ := attrs.id("id")
	name, _ := attrs.str("name")
	start, _ := attrs.uint("start")
	size, _ := attrs.uint("size")
	addrsize, _ := attrs.raw("addrsize")
	//
	oname, hasOname := attrs.str("oname")
	ooffs, hasOoffs := attrs.uint("ooffs")
	//
	if hasOname != hasOoffs {
		p.diags.err(line, col, "segment %q must declare both \"oname\" and \"ooffs\" or neither", name)
		return
	}
	//
	var access SegmentAccess
	//
	if text, ok := attrs.ident("type"); ok {
		a, ok := segmentAccessOf(text)
		//
		if !ok {
			p.diags.err(line, col, "unrecognised segment type %q", text)
			return
		}
		//
		access = a
	}
	//
	if p.store.segment(id) != nil {
		p.diags.warn(line, col, "duplicate \"segment\" id=%d, overwriting earlier record", id)
	}
	//
	sg := &Segment{
		Id: id, Name: name, Start: start, Size: size, AddrSize: addrsize, Access: access,
		HasOutput: hasOname, OutputName: oname, OutputOffset: ooffs, pos: position{line, col},
	}
	p.store.putSegment(sg)
}

func segmentAccessOf(text string) (SegmentAccess, bool) {
	switch text {
	case "rw":
		return SegmentReadWrite, true
	case "ro":
		return SegmentReadOnly, true
	case "zp":
		return SegmentZeroPage, true
	default:
		return 0, false
	}
}

func (p *parser) buildSpan(attrs *directiveAttrs, line, col int) {
	if p.dropIfMissing("span", attrs, line, col) {
		return
	}
	//
	id, _ := attrs.id("id")
	seg, _ := attrs.id("seg")
	start, _ := attrs.uint("start")
	size, _ := attrs.uint("size")
	//
	if p.store.span(id) != nil {
		p.diags.warn(line, col, "duplicate \"span\" id=%d, overwriting earlier record", id)
	}
	//
	p.store.putSpan(&Span{Id: id, SegmentId: seg, Start: start, Size: size, pos: position{line, col}})
}

func (p *parser) buildLine(attrs *directiveAttrs, line, col int) {
	if p.dropIfMissing("line", attrs, line, col) {
		return
	}
	//
	id, _ := attrs.id("id")
	file, _ := attrs.id("file")
	lineNo, _ := attrs.uint("line")
	count, _ := attrs.uint("count")
	spanIds, _ := attrs.idList("span")
	//
	typ := LineAssembly
	//
	if text, ok := attrs.ident("type"); ok {
		t, ok := lineTypeOf(text)
		//
		if !ok {
			p.diags.err(line, col, "unrecognised line type %q", text)
			return
		}
		//
		typ = t
	}
	//
	if p.store.line(id) != nil {
		p.diags.warn(line, col, "duplicate \"line\" id=%d, overwriting earlier record", id)
	}
	//
	ln := &Line{
		Id: id, FileId: file, Line: int(lineNo), Type: typ, Count: int(count),
		SpanIds: spanIds, pos: position{line, col},
	}
	p.store.putLine(ln)
}

// lineTypeOf maps a line's textual kind onto LineType. The scanner's closed
// keyword table has no dedicated token for this, so these are recognised
// positionally as generic identifiers (see types.go LineType doc and
// DESIGN.md).
func lineTypeOf(text string) (LineType, bool) {
	switch text {
	case "asm", "":
		return LineAssembly, true
	case "c":
		return LineC, true
	case "macro":
		return LineMacro, true
	default:
		return 0, false
	}
}

func (p *parser) buildSym(attrs *directiveAttrs, line, col int) {
	if p.dropIfMissing("sym", attrs, line, col) {
		return
	}
	//
	id, _ := attrs.id("id")
	name, _ := attrs.str("name")
	value, _ := attrs.int64("value")
	addrsize, _ := attrs.raw("addrsize")
	size, _ := attrs.uint("size")
	seg := attrs.idOr("seg", InvalidId)
	scope, hasScope := attrs.id("scope")
	parent, hasParent := attrs.id("parent")
	//
	if hasScope == hasParent {
		p.diags.err(line, col, "symbol %q must declare exactly one of \"scope\" or \"parent\"", name)
		return
	}
	//
	if !hasScope {
		scope = InvalidId
	}
	//
	if !hasParent {
		parent = InvalidId
	}
	//
	var typ SymbolType
	//
	if text, ok := attrs.ident("type"); ok {
		t, ok := symbolTypeOf(text)
		//
		if !ok {
			p.diags.err(line, col, "unrecognised symbol type %q", text)
			return
		}
		//
		typ = t
	}
	//
	if p.store.symbol(id) != nil {
		p.diags.warn(line, col, "duplicate \"sym\" id=%d, overwriting earlier record", id)
	}
	//
	sy := &Symbol{
		Id: id, Name: name, Type: typ, Value: value, AddrSize: addrsize, Size: size,
		SegmentId: seg, ScopeId: scope, ParentId: parent, pos: position{line, col},
	}
	p.store.putSymbol(sy)
}

func symbolTypeOf(text string) (SymbolType, bool) {
	switch text {
	case "equ":
		return SymbolEqu, true
	case "lab":
		return SymbolLabel, true
	default:
		return 0, false
	}
}
