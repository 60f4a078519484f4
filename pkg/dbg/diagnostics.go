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

import "fmt"

// Severity classifies a Diagnostic as either advisory or fatal to the load.
type Severity uint

const (
	// Warning never by itself causes a load to fail.
	Warning Severity = iota
	// Error accumulates; a non-zero error count after a full pass causes the
	// load to fail.
	Error
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single lexical, syntactic, semantic, referential or
// versioning complaint arising whilst loading a debug-information file.  It
// carries enough positional information for a caller to underline the
// offending text in the original file.
type Diagnostic struct {
	// Severity of this diagnostic.
	Severity Severity
	// Filename of the input file being loaded.
	Filename string
	// Line is the 1-based line number of the offending token.
	Line int
	// Column is the 0-based column of the offending token.
	Column int
	// Message is a human-readable description of the problem.
	Message string
}

// String implements fmt.Stringer, formatting this diagnostic roughly as
// "file:line:col: severity: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Filename, d.Line, d.Column, d.Severity, d.Message)
}

// Sink receives diagnostics as they are produced during a load.  A sink
// returns nothing: the loader itself accumulates the error count and decides
// whether the load ultimately succeeds (see spec §7 propagation rules). A nil
// sink is permitted and simply discards every diagnostic.
type Sink func(Diagnostic)

// discardSink is used whenever the caller passes no sink.
func discardSink(Diagnostic) {}

// diagnosticCollector wraps a user Sink, forwarding every diagnostic to it
// whilst also counting errors (but not warnings) so the loader can decide,
// once parsing and resolution are complete, whether to release the database
// and return nil per spec §4.2 "Error recovery".
type diagnosticCollector struct {
	sink     Sink
	filename string
	errors   uint
}

func newDiagnosticCollector(filename string, sink Sink) *diagnosticCollector {
	if sink == nil {
		sink = discardSink
	}
	//
	return &diagnosticCollector{sink, filename, 0}
}

func (c *diagnosticCollector) report(severity Severity, line, col int, format string, args ...any) {
	d := Diagnostic{severity, c.filename, line, col, fmt.Sprintf(format, args...)}
	//
	if severity == Error {
		c.errors++
	}
	//
	c.sink(d)
}

func (c *diagnosticCollector) warn(line, col int, format string, args ...any) {
	c.report(Warning, line, col, format, args...)
}

func (c *diagnosticCollector) err(line, col int, format string, args ...any) {
	c.report(Error, line, col, format, args...)
}

// hasErrors reports whether any error-severity diagnostic has been reported
// thus far.
func (c *diagnosticCollector) hasErrors() bool {
	return c.errors > 0
}
