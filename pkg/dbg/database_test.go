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
package dbg_test

import (
	"testing"

	"github.com/consensys/go-corset/pkg/dbg"
	"github.com/consensys/go-corset/pkg/util/assert"
)

func loadString(t *testing.T, contents string) (*dbg.Database, []dbg.Diagnostic) {
	t.Helper()
	//
	var diags []dbg.Diagnostic
	//
	db, err := dbg.LoadBytes("test.dbg", []byte(contents), func(d dbg.Diagnostic) {
		diags = append(diags, d)
	})
	//
	assert.Equal(t, error(nil), err)

	return db, diags
}

// S1 — minimal file: version + info only, no entities.
func TestMinimalFile(t *testing.T) {
	const input = `version major=2,minor=0
info file=0,line=0,mod=0,scope=0,seg=0,span=0,sym=0,lib=0
`
	db, diags := loadString(t, input)
	//
	assert.True(t, db != nil, "expected a non-nil database")
	assert.Equal(t, 0, len(diags))
	assert.Equal(t, 0, len(db.Files()))
	assert.Equal(t, 0, len(db.Libraries()))
	assert.Equal(t, 0, len(db.Modules()))
	assert.Equal(t, 0, len(db.Segments()))
	assert.Equal(t, 0, len(db.Spans()))
}

// S2 — segment + span + address query.
func TestSegmentSpanAddressQuery(t *testing.T) {
	const input = `version major=2,minor=0
info
segment id=0,name="CODE",start=0x1000,size=0x100,addrsize=abs,type=rw
span id=0,seg=0,start=0,size=16
`
	db, diags := loadString(t, input)
	assert.True(t, db != nil, "expected a non-nil database")
	assert.Equal(t, 0, len(diags))
	//
	spans := db.SpansByAddress(0x1000)
	assert.Equal(t, 1, len(spans))
	assert.Equal(t, uint64(0x1000), spans[0].Start)
	assert.Equal(t, uint64(0x100F), spans[0].End)
	//
	assert.Equal(t, 0, len(db.SpansByAddress(0x0FFF)))
	assert.Equal(t, 1, len(db.SpansByAddress(0x100F)))
	assert.Equal(t, 0, len(db.SpansByAddress(0x1010)))
}

// S3 — overlapping spans.
func TestOverlappingSpans(t *testing.T) {
	const input = `version major=2,minor=0
info
segment id=0,name="CODE",start=0,size=0x10000,addrsize=abs,type=rw
span id=0,seg=0,start=0x2000,size=16
span id=1,seg=0,start=0x2008,size=16
`
	db, diags := loadString(t, input)
	assert.True(t, db != nil, "expected a non-nil database")
	assert.Equal(t, 0, len(diags))
	//
	at2008 := db.SpansByAddress(0x2008)
	assert.Equal(t, 2, len(at2008))
	assert.Equal(t, Id0(0), at2008[0].Id)
	assert.Equal(t, Id0(1), at2008[1].Id)
	//
	at2010 := db.SpansByAddress(0x2010)
	assert.Equal(t, 1, len(at2010))
	assert.Equal(t, Id0(1), at2010[0].Id)
}

// Id0 avoids importing dbg.Id's underlying representation into the test's
// expected-value literals; it performs the same uint32 conversion.
func Id0(v uint32) dbg.Id { return dbg.Id(v) }

// S4 — symbol lookup by name and by value.
func TestSymbolLookup(t *testing.T) {
	const input = `version major=2,minor=0
info
scope id=0,name="global",mod=0
module id=0,name="main.o",file=0
file id=0,name="main.s",size=10,mtime=0,mod=0
sym id=0,name="foo",type=lab,value=5,addrsize=abs,scope=0
sym id=1,name="foo",type=lab,value=9,addrsize=abs,scope=0
`
	db, diags := loadString(t, input)
	assert.True(t, db != nil, "expected a non-nil database")
	assert.Equal(t, 0, len(diags))
	//
	byName := db.SymbolsByName("foo")
	assert.Equal(t, 2, len(byName))
	assert.Equal(t, Id0(0), byName[0].Id)
	assert.Equal(t, Id0(1), byName[1].Id)
	//
	assert.Equal(t, 2, len(db.SymbolsInRange(5, 9)))
	assert.Equal(t, 0, len(db.SymbolsInRange(6, 8)))
}

// S5 — version rejection.
func TestVersionRejection(t *testing.T) {
	const input = `version major=1,minor=0
`
	db, diags := loadString(t, input)
	assert.True(t, db == nil, "expected load to fail")
	assert.True(t, len(diags) > 0, "expected at least one diagnostic")
	assert.Equal(t, dbg.Error, diags[0].Severity)
}

// S6 — symbol scope inheritance via parent.
func TestSymbolScopeInheritance(t *testing.T) {
	const input = `version major=2,minor=0
info
scope id=0,name="global",mod=0
module id=0,name="main.o",file=0
file id=0,name="main.s",size=10,mtime=0,mod=0
sym id=0,name="outer",type=equ,value=1,addrsize=abs,scope=0
sym id=1,name="inner",type=equ,value=2,addrsize=abs,parent=0
`
	db, diags := loadString(t, input)
	assert.True(t, db != nil, "expected a non-nil database")
	assert.Equal(t, 0, len(diags))
	//
	inner := db.SymbolByID(1)
	outer := db.SymbolByID(0)
	assert.True(t, inner.Scope != nil, "expected inner symbol to have an effective scope")
	assert.Equal(t, outer.Scope, inner.Scope)
}

func TestUnknownDirectiveAndAttributeWarnOnly(t *testing.T) {
	const input = `version major=2,minor=0
info
bogus id=0
segment id=0,name="CODE",start=0,size=0x10,addrsize=abs,type=rw,bogus=42
`
	db, diags := loadString(t, input)
	assert.True(t, db != nil, "unknown directives/attributes must not fail the load")
	//
	var warnings int
	//
	for _, d := range diags {
		if d.Severity == dbg.Warning {
			warnings++
		}
	}
	//
	assert.True(t, warnings > 0, "expected at least one warning")
}

// TestLoadFromFile exercises Load (as opposed to LoadBytes) against a fixture
// on disk, covering the span-to-segment relative-to-absolute translation,
// scope->span->line->file derived sets, and the symbol/scope wiring all at
// once.
func TestLoadFromFile(t *testing.T) {
	db, diags := func() (*dbg.Database, []dbg.Diagnostic) {
		var diags []dbg.Diagnostic
		//
		db, err := dbg.Load("../../testdata/dbg/sample.dbg", func(d dbg.Diagnostic) {
			diags = append(diags, d)
		})
		assert.Equal(t, error(nil), err)

		return db, diags
	}()
	//
	assert.True(t, db != nil, "expected a non-nil database")
	assert.Equal(t, 0, len(diags))
	//
	spans := db.SpansByAddress(0x8000)
	assert.Equal(t, 1, len(spans))
	assert.Equal(t, uint64(0x8000), spans[0].Start)
	assert.Equal(t, uint64(0x8007), spans[0].End)
	//
	sym := db.SymbolByID(0)
	assert.True(t, sym != nil, "expected symbol 0 to resolve")
	assert.Equal(t, int64(0x8000), sym.Value)
	assert.True(t, sym.Scope != nil, "expected symbol to have a resolved scope")
	//
	files := db.FilesByName("main.s")
	assert.Equal(t, 1, len(files))
	assert.Equal(t, 1, len(files[0].Module.Scopes))
}

func TestEmptyModuleMissingMainScopeErrors(t *testing.T) {
	const input = `version major=2,minor=0
info
module id=0,name="main.o",file=0
file id=0,name="main.s",size=10,mtime=0,mod=0
`
	db, diags := loadString(t, input)
	assert.True(t, db == nil, "module without a main scope must fail the load")
	assert.True(t, len(diags) > 0, "expected a referential diagnostic")
}
