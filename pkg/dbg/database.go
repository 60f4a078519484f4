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

// Package dbg implements a queryable, in-memory model of a 6502-family
// program's symbolic debug information: source files, modules, libraries,
// segments, spans of generated code, lexical scopes, symbols and
// source-line records, loaded from a versioned, line-oriented directive
// file and resolved into a fully cross-linked object graph.
package dbg

import (
	"os"

	"github.com/consensys/go-corset/pkg/util/source"
)

// Database is a fully loaded, resolved debug-information handle. Per the
// single-threaded-per-handle model: a Database, once returned by Load, is
// read-only and safe for concurrent queries from multiple goroutines, but
// nothing ever mutates it again — there is no update or incremental-load
// path.
type Database struct {
	store     *store
	indices   indices
	spanIndex *spanIndex
}

// LoadOption configures a Load call. The zero value of every option is the
// spec-mandated default; options exist to let a caller opt into additional
// strictness, not to change core semantics.
type LoadOption func(*loadOptions)

type loadOptions struct {
	strict bool
}

// WithStrict causes Load to treat warnings as errors, failing the load if
// any diagnostic of Warning severity is reported. Off by default, matching
// spec §7 "warnings never by themselves cause load failure".
func WithStrict() LoadOption {
	return func(o *loadOptions) { o.strict = true }
}

// Load reads and parses the debug-information file at path, resolves it
// into a Database, and returns it. Every diagnostic produced along the way
// is also delivered, in order, to sink (which may be nil to discard them
// all). If any error-severity diagnostic is reported — or, under
// WithStrict, any diagnostic at all — Load returns a nil Database (spec §7:
// "a non-zero error count causes the entire handle to be released and null
// returned").
func Load(path string, sink Sink, opts ...LoadOption) (*Database, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	//
	return LoadBytes(path, bytes, sink, opts...)
}

// LoadBytes is Load without requiring the input to already be a file on
// disk, for callers (and tests) that already hold the contents in memory.
func LoadBytes(filename string, contents []byte, sink Sink, opts ...LoadOption) (*Database, error) {
	var options loadOptions
	//
	for _, opt := range opts {
		opt(&options)
	}
	//
	var errored bool
	//
	collector := newDiagnosticCollector(filename, func(d Diagnostic) {
		if d.Severity == Warning && options.strict {
			errored = true
		}
		//
		if sink != nil {
			sink(d)
		}
	})
	//
	srcfile := source.NewSourceFile(filename, contents)
	p := newParser(srcfile, collector)
	st := p.run()
	//
	r := newResolver(st, collector)
	idx := r.run()
	//
	if collector.hasErrors() || errored {
		return nil, nil
	}
	//
	var spans []*Span
	st.eachSpan(func(sp *Span) { spans = append(spans, sp) })
	//
	db := &Database{store: st, indices: idx, spanIndex: buildSpanIndex(spans)}

	return db, nil
}
