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
	"github.com/consensys/go-corset/pkg/util/source"
)

// Lexer scans a debug-information source file one character at a time,
// tracking a 1-based line number and 0-based column, per spec §4.1.  Unlike
// the teacher's combinator-based lex.Scanner (see DESIGN.md), this is a
// direct character-by-character scanner: the line-oriented directive format
// needs precise per-token line/column positions, not just a token kind.
type Lexer struct {
	srcfile *source.File
	runes   []rune
	// index is the offset of the next unread rune.
	index int
	// line is the 1-based line of the next unread rune.
	line int
	// col is the 0-based column of the next unread rune.
	col int
	// diags collects lexical diagnostics (unterminated strings, bad chars).
	diags *diagnosticCollector
}

// NewLexer constructs a scanner over the contents of srcfile.
func NewLexer(srcfile *source.File, diags *diagnosticCollector) *Lexer {
	return &Lexer{srcfile, srcfile.Contents(), 0, 1, 0, diags}
}

// Next scans and returns the next token.  At end of input it returns an
// endless stream of TK_EOF tokens (so callers need not special-case "one
// past the end").
func (l *Lexer) Next() Token {
	l.skipWhitespace()
	//
	line, col := l.line, l.col
	//
	if l.atEof() {
		return Token{Kind: TK_EOF, Line: line, Column: col}
	}
	//
	c := l.peek()
	//
	switch {
	case c == '\n':
		l.advance()
		return Token{Kind: TK_EOL, Line: line, Column: col}
	case c == ',':
		l.advance()
		return Token{Kind: TK_COMMA, Line: line, Column: col}
	case c == '=':
		l.advance()
		return Token{Kind: TK_EQUALS, Line: line, Column: col}
	case c == '+':
		l.advance()
		return Token{Kind: TK_PLUS, Line: line, Column: col}
	case c == '-':
		l.advance()
		return Token{Kind: TK_MINUS, Line: line, Column: col}
	case c == '"':
		return l.scanString(line, col)
	case isDigit(c):
		return l.scanNumber(line, col)
	case isIdentifierStart(c):
		return l.scanIdentifier(line, col)
	default:
		l.advance()
		l.diags.err(line, col, "invalid character %q", c)
		// Recovery: continue scanning from the very next character.
		return l.Next()
	}
}

// skipWhitespace consumes spaces, tabs and carriage returns.  Newline is not
// whitespace here: it is the TK_EOL token (spec §4.1).
func (l *Lexer) skipWhitespace() {
	for !l.atEof() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) scanNumber(line, col int) Token {
	var (
		text  []rune
		value uint64
	)
	//
	if l.peek() == '0' && l.peekAt(1) == 'x' || l.peek() == '0' && l.peekAt(1) == 'X' {
		text = append(text, l.advance(), l.advance())
		//
		for !l.atEof() && isHexDigit(l.peek()) {
			text = append(text, l.advance())
		}
		//
		value = parseUint(string(text[2:]), 16)
	} else if l.peek() == '0' {
		for !l.atEof() && isDigit(l.peek()) {
			text = append(text, l.advance())
		}
		//
		if len(text) == 1 {
			value = 0
		} else {
			value = parseUint(string(text[1:]), 8)
		}
	} else {
		for !l.atEof() && isDigit(l.peek()) {
			text = append(text, l.advance())
		}
		//
		value = parseUint(string(text), 10)
	}
	//
	return Token{Kind: TK_INTEGER, Line: line, Column: col, Text: string(text), Value: value}
}

func (l *Lexer) scanIdentifier(line, col int) Token {
	var text []rune
	//
	for !l.atEof() && isIdentifierRest(l.peek()) {
		text = append(text, l.advance())
	}
	//
	spelling := string(text)
	kind := TK_IDENTIFIER
	//
	if IsKeyword(spelling) || isDirectiveKeyword(spelling) {
		kind = TK_KEYWORD
	}
	//
	return Token{Kind: kind, Line: line, Column: col, Text: spelling}
}

// scanString scans a double-quoted string constant.  There is no escape
// processing (spec §4.1): an embedded newline or EOF before the closing
// quote is an error, and recovery terminates the string at that point.
func (l *Lexer) scanString(line, col int) Token {
	var text []rune
	//
	l.advance() // opening quote
	//
	for {
		if l.atEof() {
			l.diags.err(line, col, "unterminated string constant")
			break
		} else if l.peek() == '\n' {
			l.diags.err(line, col, "unterminated string constant")
			break
		} else if l.peek() == '"' {
			l.advance()
			break
		}
		//
		text = append(text, l.advance())
	}
	//
	return Token{Kind: TK_STRING, Line: line, Column: col, Text: string(text)}
}

func (l *Lexer) atEof() bool {
	return l.index >= len(l.runes)
}

func (l *Lexer) peek() rune {
	return l.runes[l.index]
}

func (l *Lexer) peekAt(n int) rune {
	if l.index+n >= len(l.runes) {
		return 0
	}
	//
	return l.runes[l.index+n]
}

func (l *Lexer) advance() rune {
	c := l.runes[l.index]
	l.index++
	//
	if c == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	//
	return c
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentifierStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentifierRest(c rune) bool {
	return isIdentifierStart(c) || isDigit(c)
}

// parseUint accumulates digits of the given base into an unsigned long,
// matching spec §4.1's "value accumulated in unsigned long".  Digits are not
// checked against the base: an octal run (validated only by isDigit) may
// contain 8 or 9, which are accumulated with their decimal digit value.
func parseUint(digits string, base uint64) uint64 {
	var value uint64
	//
	for _, d := range digits {
		var v uint64
		//
		switch {
		case d >= '0' && d <= '9':
			v = uint64(d - '0')
		case d >= 'a' && d <= 'f':
			v = uint64(d-'a') + 10
		case d >= 'A' && d <= 'F':
			v = uint64(d-'A') + 10
		}
		//
		value = value*base + v
	}
	//
	return value
}
