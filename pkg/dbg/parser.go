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
	"strconv"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-corset/pkg/util/source"
)

func uintToString(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// supportedMajor and supportedMinor are the compiled-in version this parser
// understands (spec §6: "major version 2, minor 0").
const (
	supportedMajor = 2
	supportedMinor = 0
)

// requiredAttrs lists, for each directive, the attribute keywords that must
// appear at least once before the terminating EOL (spec §4.2 table). Missing
// any of these causes the record to be reported and dropped.
var requiredAttrs = map[string][]string{
	"version": {"major", "minor"},
	"file":    {"id", "name", "size", "mtime", "mod"},
	"library": {"id", "name"},
	"line":    {"id", "file", "line"},
	"module":  {"id", "name", "file"},
	"scope":   {"id", "name", "mod"},
	"segment": {"id", "name", "start", "size", "addrsize", "type"},
	"span":    {"id", "seg", "start", "size"},
	"sym":     {"id", "name", "type", "value", "addrsize"},
}

// attrValue is the generic, untyped result of parsing one "name=value" pair.
// The parser's directive-specific builders interpret it per spec §4.2
// ("Each attribute is one of: integer constant, string constant, bare
// identifier ... or a +-separated list of integers").
type attrValue struct {
	token Token  // the leading token of the value (for diagnostics position)
	ids   []Id   // populated for integers and +-lists (len 1 for a bare int)
	mag   uint64 // magnitude of the first integer, for signed attributes
	neg   bool   // true if the first integer was written with a leading '-'
	text  string // populated for strings and bare identifiers
	str   bool
	ident bool
}

// directiveAttrs holds the parsed attribute set of a single directive line,
// plus the bitmask of which known keywords were seen, used to verify the
// REQUIRED set once EOL is reached (spec §4.2).
type directiveAttrs struct {
	values map[string]attrValue
	seen   *bitset.BitSet
}

func newDirectiveAttrs() *directiveAttrs {
	return &directiveAttrs{make(map[string]attrValue), bitset.New(uint(len(Keywords)))}
}

func (d *directiveAttrs) mark(name string) {
	if i := sort.SearchStrings(Keywords, name); i < len(Keywords) && Keywords[i] == name {
		d.seen.Set(uint(i))
	}
}

func (d *directiveAttrs) hasAll(names []string) bool {
	for _, n := range names {
		if i := sort.SearchStrings(Keywords, n); i >= len(Keywords) || Keywords[i] != n || !d.seen.Test(uint(i)) {
			return false
		}
	}
	//
	return true
}

func (d *directiveAttrs) missing(names []string) []string {
	var out []string
	//
	for _, n := range names {
		if i := sort.SearchStrings(Keywords, n); i >= len(Keywords) || Keywords[i] != n || !d.seen.Test(uint(i)) {
			out = append(out, n)
		}
	}
	//
	return out
}

func (d *directiveAttrs) uint(name string) (uint64, bool) {
	v, ok := d.values[name]
	if !ok || len(v.ids) != 1 {
		return 0, false
	}
	//
	return uint64(v.ids[0]), true
}

func (d *directiveAttrs) id(name string) (Id, bool) {
	v, ok := d.values[name]
	if !ok || len(v.ids) != 1 {
		return InvalidId, false
	}
	//
	return v.ids[0], true
}

func (d *directiveAttrs) idOr(name string, def Id) Id {
	if v, ok := d.id(name); ok {
		return v
	}
	//
	return def
}

// int64 returns a signed attribute value (e.g. a symbol's "value"), honoring
// a leading '-' recorded at parse time.
func (d *directiveAttrs) int64(name string) (int64, bool) {
	v, ok := d.values[name]
	if !ok || len(v.ids) == 0 {
		return 0, false
	}
	//
	if v.neg {
		return -int64(v.mag), true
	}
	//
	return int64(v.mag), true
}

func (d *directiveAttrs) idList(name string) ([]Id, bool) {
	v, ok := d.values[name]
	if !ok {
		return nil, false
	}
	//
	return v.ids, true
}

func (d *directiveAttrs) str(name string) (string, bool) {
	v, ok := d.values[name]
	if !ok || !v.str {
		return "", false
	}
	//
	return v.text, true
}

func (d *directiveAttrs) ident(name string) (string, bool) {
	v, ok := d.values[name]
	if !ok || !v.ident {
		return "", false
	}
	//
	return v.text, true
}

// raw returns the textual spelling of whatever value was supplied for name,
// regardless of its underlying kind. Used for attributes like "addrsize"
// whose value spec §4.2 says is "accepted but semantically ignored in the
// core": we still need to record something to satisfy the required-mask and
// to round-trip into diagnostics/JSON output, without committing to any one
// value kind.
func (d *directiveAttrs) raw(name string) (string, bool) {
	v, ok := d.values[name]
	if !ok {
		return "", false
	}
	//
	switch {
	case v.ident, v.str:
		return v.text, true
	case len(v.ids) > 0:
		return uintToString(uint64(v.ids[0])), true
	default:
		return "", false
	}
}

// parser consumes a token stream from a Lexer and builds a raw entity store.
type parser struct {
	lexer    *Lexer
	diags    *diagnosticCollector
	store    *store
	cur      Token
	version  struct{ major, minor uint64 }
	sawVers  bool
}

func newParser(srcfile *source.File, diags *diagnosticCollector) *parser {
	lexer := NewLexer(srcfile, diags)
	p := &parser{lexer: lexer, diags: diags}
	p.advance()
	//
	return p
}

func (p *parser) advance() {
	p.cur = p.lexer.Next()
}

// skipToEol implements the per-directive error recovery rule (spec §4.2
// "On any syntactic error within a directive, the parser skips forward to
// the next end-of-line or end-of-file").
func (p *parser) skipToEol() {
	for p.cur.Kind != TK_EOL && p.cur.Kind != TK_EOF {
		p.advance()
	}
}

// run parses the entire token stream and returns the populated store. The
// "info" directive's count hints, if present, are applied to the store as
// they are encountered (see buildInfo).
func (p *parser) run() *store {
	p.store = newStore(infoCounts{})
	//
	for p.cur.Kind != TK_EOF {
		if p.cur.Kind == TK_EOL {
			// Blank line between directives (spec §6).
			p.advance()
			continue
		}
		//
		p.parseDirective()
	}
	//
	return p.store
}

func (p *parser) parseDirective() {
	line, col := p.cur.Line, p.cur.Column
	//
	if p.cur.Kind != TK_KEYWORD && p.cur.Kind != TK_IDENTIFIER {
		p.diags.err(line, col, "expected directive keyword")
		p.skipToEol()
		p.consumeEol()

		return
	}
	//
	name := p.cur.Text
	//
	if !isDirectiveKeyword(name) {
		p.diags.warn(line, col, "unknown directive %q", name)
		p.advance()
		p.skipToEol()
		p.consumeEol()

		return
	}
	//
	p.advance()
	//
	if !p.sawVers && name != "version" {
		p.diags.err(line, col, "first directive must be \"version\"")
	}
	//
	attrs := p.parseAttrs(name)
	//
	switch name {
	case "version":
		p.sawVers = true
		p.buildVersion(attrs, line, col)
	case "info":
		p.buildInfo(attrs, line, col)
	case "file":
		p.buildFile(attrs, line, col)
	case "library":
		p.buildLibrary(attrs, line, col)
	case "line":
		p.buildLine(attrs, line, col)
	case "module":
		p.buildModule(attrs, line, col)
	case "scope":
		p.buildScope(attrs, line, col)
	case "segment":
		p.buildSegment(attrs, line, col)
	case "span":
		p.buildSpan(attrs, line, col)
	case "sym":
		p.buildSym(attrs, line, col)
	}
}

func (p *parser) consumeEol() {
	if p.cur.Kind == TK_EOL {
		p.advance()
	}
}

// parseAttrs reads the "attr=value[, attr=value]*" portion of a directive,
// recording each into a directiveAttrs set. Unknown attribute names are
// consumed (forward-compatibility, spec §4.2) but not recorded. A duplicate
// attribute within one directive is permitted; the later value wins (this is
// the same overwrite policy the spec recommends for duplicate entity ids,
// applied here for symmetry — see DESIGN.md).
func (p *parser) parseAttrs(directive string) *directiveAttrs {
	attrs := newDirectiveAttrs()
	//
	for p.cur.Kind != TK_EOL && p.cur.Kind != TK_EOF {
		line, col := p.cur.Line, p.cur.Column
		//
		if p.cur.Kind != TK_KEYWORD && p.cur.Kind != TK_IDENTIFIER {
			p.diags.err(line, col, "expected attribute name")
			p.skipToEol()

			return attrs
		}
		//
		name := p.cur.Text
		known := IsKeyword(name)
		p.advance()
		//
		if p.cur.Kind != TK_EQUALS {
			p.diags.err(line, col, "expected '=' after attribute %q", name)
			p.skipToEol()

			return attrs
		}
		//
		p.advance()
		//
		value, ok := p.parseValue()
		//
		if !ok {
			p.skipToEol()
			return attrs
		}
		//
		if known {
			attrs.values[name] = value
			attrs.mark(name)
		} else {
			p.diags.warn(line, col, "unknown attribute %q in %q directive", name, directive)
		}
		//
		if p.cur.Kind == TK_COMMA {
			p.advance()
			continue
		}

		break
	}
	//
	if p.cur.Kind != TK_EOL && p.cur.Kind != TK_EOF {
		p.diags.err(p.cur.Line, p.cur.Column, "unexpected token %q in %q directive", p.cur.Text, directive)
		p.skipToEol()
	}
	//
	p.consumeEol()

	return attrs
}

// parseValue parses one attribute value: a possibly-negative integer (and,
// if followed by '+', an id-list), a string, or a bare identifier.
func (p *parser) parseValue() (attrValue, bool) {
	line, col := p.cur.Line, p.cur.Column
	neg := false
	//
	if p.cur.Kind == TK_MINUS {
		neg = true
		p.advance()
	}
	//
	switch p.cur.Kind {
	case TK_INTEGER:
		return p.parseIntOrList(neg, line, col)
	case TK_STRING:
		v := attrValue{token: p.cur, text: p.cur.Text, str: true}
		p.advance()

		return v, true
	case TK_KEYWORD, TK_IDENTIFIER:
		if neg {
			p.diags.err(line, col, "unexpected '-' before identifier")
			return attrValue{}, false
		}
		//
		v := attrValue{token: p.cur, text: p.cur.Text, ident: true}
		p.advance()

		return v, true
	default:
		p.diags.err(line, col, "expected attribute value")
		return attrValue{}, false
	}
}

func (p *parser) parseIntOrList(neg bool, line, col int) (attrValue, bool) {
	first := p.cur.Value
	ids := []Id{Id(first)}
	//
	p.advance()
	//
	for p.cur.Kind == TK_PLUS {
		if neg {
			p.diags.err(line, col, "id list may not be negated")
			return attrValue{}, false
		}
		//
		p.advance()
		//
		if p.cur.Kind != TK_INTEGER {
			p.diags.err(p.cur.Line, p.cur.Column, "expected integer after '+'")
			return attrValue{}, false
		}
		//
		ids = append(ids, Id(p.cur.Value))
		p.advance()
	}
	//
	v := attrValue{token: Token{Kind: TK_INTEGER, Line: line, Column: col}, ids: ids, mag: first, neg: neg}

	return v, true
}
