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

// TokenKind identifies the lexical class of a Token, per spec §4.1.
type TokenKind uint

const (
	// TK_EOF signals end of input.
	TK_EOF TokenKind = iota
	// TK_EOL signals a newline, the statement terminator.
	TK_EOL
	// TK_COMMA signals ",".
	TK_COMMA
	// TK_EQUALS signals "=".
	TK_EQUALS
	// TK_PLUS signals "+", used to join id lists.
	TK_PLUS
	// TK_MINUS signals "-", used by negative integer values.
	TK_MINUS
	// TK_INTEGER signals an integer constant.
	TK_INTEGER
	// TK_STRING signals a double-quoted string constant.
	TK_STRING
	// TK_IDENTIFIER signals a generic (non-keyword) identifier.
	TK_IDENTIFIER
	// TK_KEYWORD signals an identifier which matched the keyword table.
	TK_KEYWORD
)

// Token is a single lexical unit, retaining its starting line/column for
// diagnostic positioning (per spec §4.1 "The scanner retains the starting
// line/column of each token").
type Token struct {
	Kind TokenKind
	// Line is the 1-based line on which this token starts.
	Line int
	// Column is the 0-based column on which this token starts.
	Column int
	// Text is the raw text of the token.  For TK_KEYWORD and TK_IDENTIFIER
	// this is the identifier spelling; for TK_STRING it is the unescaped
	// string contents (no escape processing is performed, per spec §4.1).
	Text string
	// Value holds the accumulated value of a TK_INTEGER token.
	Value uint64
}

// Keywords is the closed set of attribute/directive identifiers recognised
// by the scanner (spec §6).  It is sorted so Keywords can be searched with a
// binary search, matching spec §4.1 "Matched against a keyword table ... by
// binary search".
var Keywords = []string{
	"abs", "addrsize", "count", "enum", "equ", "file", "global", "id", "info",
	"lab", "lib", "line", "long", "major", "minor", "mod", "mtime", "name",
	"oname", "ooffs", "parent", "ro", "rw", "scope", "seg", "size", "span",
	"start", "struct", "sym", "type", "val", "value", "version", "zp",
}

func init() {
	if !sort.StringsAreSorted(Keywords) {
		panic("dbg: Keywords table is not sorted")
	}
}

// IsKeyword determines whether a given identifier spelling matches an entry
// in the keyword table, using binary search per spec §4.1.
func IsKeyword(text string) bool {
	i := sort.SearchStrings(Keywords, text)
	return i < len(Keywords) && Keywords[i] == text
}

// Directive keywords name the top-level statement kinds (spec §4.2). Most of
// them also appear in the Keywords table; this list exists to distinguish
// "this identifier opens a new directive" from "this identifier is an
// attribute name", which the parser needs to know at statement start.
var directiveKeywords = map[string]bool{
	"version": true,
	"info":    true,
	"file":    true,
	"library": true,
	"line":    true,
	"module":  true,
	"scope":   true,
	"segment": true,
	"span":    true,
	"sym":     true,
}

// isDirectiveKeyword reports whether text names a top-level directive.
// Observe "library", "module" and "segment" are directive keywords but are
// NOT themselves in the Keywords attribute table (they are distinguished from
// the attribute keywords "lib", "mod" and "seg" respectively); the scanner
// still reports them as TK_KEYWORD by consulting this list as well.
func isDirectiveKeyword(text string) bool {
	return directiveKeywords[text]
}
