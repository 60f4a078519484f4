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
	"testing"

	"github.com/consensys/go-corset/pkg/util/assert"
	"github.com/consensys/go-corset/pkg/util/source"
)

func scanAll(t *testing.T, input string) []Token {
	t.Helper()
	//
	var diags []Diagnostic
	collector := newDiagnosticCollector("test.dbg", func(d Diagnostic) { diags = append(diags, d) })
	lexer := NewLexer(source.NewSourceFile("test.dbg", []byte(input)), collector)
	//
	var tokens []Token
	//
	for {
		tok := lexer.Next()
		tokens = append(tokens, tok)
		//
		if tok.Kind == TK_EOF {
			break
		}
	}
	//
	return tokens
}

func TestLexerIntegerBases(t *testing.T) {
	tokens := scanAll(t, "10 010 0x10")
	assert.Equal(t, TK_INTEGER, tokens[0].Kind)
	assert.Equal(t, uint64(10), tokens[0].Value)
	assert.Equal(t, uint64(8), tokens[1].Value)
	assert.Equal(t, uint64(16), tokens[2].Value)
}

func TestLexerStringConstant(t *testing.T) {
	tokens := scanAll(t, `"hello world"`)
	assert.Equal(t, TK_STRING, tokens[0].Kind)
	assert.Equal(t, "hello world", tokens[0].Text)
}

func TestLexerUnterminatedString(t *testing.T) {
	var diags []Diagnostic
	collector := newDiagnosticCollector("test.dbg", func(d Diagnostic) { diags = append(diags, d) })
	lexer := NewLexer(source.NewSourceFile("test.dbg", []byte(`"oops`)), collector)
	tok := lexer.Next()
	//
	assert.Equal(t, TK_STRING, tok.Kind)
	assert.Equal(t, "oops", tok.Text)
	assert.True(t, collector.hasErrors(), "expected an unterminated-string diagnostic")
}

func TestLexerKeywordVsIdentifier(t *testing.T) {
	tokens := scanAll(t, "version myattr")
	assert.Equal(t, TK_KEYWORD, tokens[0].Kind)
	assert.Equal(t, TK_IDENTIFIER, tokens[1].Kind)
}

func TestLexerLineColumnTracking(t *testing.T) {
	tokens := scanAll(t, "a=1\nb=2")
	// "b" starts on line 2, column 0.
	var b Token
	//
	for _, tok := range tokens {
		if tok.Kind == TK_IDENTIFIER && tok.Text == "b" {
			b = tok
		}
	}
	//
	assert.Equal(t, 2, b.Line)
	assert.Equal(t, 0, b.Column)
}

func TestLexerInvalidCharacterRecovers(t *testing.T) {
	var diags []Diagnostic
	collector := newDiagnosticCollector("test.dbg", func(d Diagnostic) { diags = append(diags, d) })
	lexer := NewLexer(source.NewSourceFile("test.dbg", []byte("a#b")), collector)
	//
	first := lexer.Next()
	second := lexer.Next()
	//
	assert.Equal(t, TK_IDENTIFIER, first.Kind)
	assert.Equal(t, "a", first.Text)
	assert.Equal(t, TK_IDENTIFIER, second.Kind)
	assert.Equal(t, "b", second.Text)
	assert.True(t, len(diags) == 1, "expected exactly one diagnostic for the invalid character")
}
