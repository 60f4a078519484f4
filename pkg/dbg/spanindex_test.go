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
)

func mkSpan(id Id, start, end uint64) *Span {
	return &Span{Id: id, Start: start, End: end, Size: end - start + 1}
}

func TestSpanIndexSingleCoveringSpan(t *testing.T) {
	spans := []*Span{mkSpan(0, 0x1000, 0x100F)}
	idx := buildSpanIndex(spans)
	//
	got := idx.lookup(0x1008)
	assert.Equal(t, 1, len(got))
	assert.Equal(t, Id(0), got[0].Id)
	//
	assert.Equal(t, 0, len(idx.lookup(0x0FFF)))
	assert.Equal(t, 0, len(idx.lookup(0x1010)))
}

func TestSpanIndexOverlappingSpans(t *testing.T) {
	spans := []*Span{
		mkSpan(0, 0x2000, 0x200F),
		mkSpan(1, 0x2008, 0x2017),
	}
	idx := buildSpanIndex(spans)
	//
	// Below the overlap, only span 0 covers.
	only0 := idx.lookup(0x2000)
	assert.Equal(t, 1, len(only0))
	assert.Equal(t, Id(0), only0[0].Id)
	//
	// Within the overlap, both spans cover, in start-sorted order.
	both := idx.lookup(0x2008)
	assert.Equal(t, 2, len(both))
	assert.Equal(t, Id(0), both[0].Id)
	assert.Equal(t, Id(1), both[1].Id)
	//
	// Above the overlap, only span 1 covers.
	only1 := idx.lookup(0x2010)
	assert.Equal(t, 1, len(only1))
	assert.Equal(t, Id(1), only1[0].Id)
}

func TestSpanIndexZeroSizeSpanNeverMatches(t *testing.T) {
	spans := []*Span{{Id: 0, Start: 0x3000, End: 0x3000, Size: 0}}
	idx := buildSpanIndex(spans)
	//
	assert.Equal(t, 0, len(idx.lookup(0x3000)))
}

func TestSpanIndexAddressesEnumeratesAscending(t *testing.T) {
	spans := []*Span{
		mkSpan(0, 0x10, 0x12),
		mkSpan(1, 0x20, 0x21),
	}
	idx := buildSpanIndex(spans)
	addrs := idx.addresses()
	//
	assert.Equal(t, 5, len(addrs))
	//
	for i := 1; i < len(addrs); i++ {
		assert.True(t, addrs[i-1] < addrs[i], "addresses must be strictly ascending")
	}
}

func TestSpanIndexDisjointSpansNoGapLeakage(t *testing.T) {
	spans := []*Span{
		mkSpan(0, 0x100, 0x10F),
		mkSpan(1, 0x200, 0x20F),
	}
	idx := buildSpanIndex(spans)
	//
	assert.Equal(t, 0, len(idx.lookup(0x110)))
	assert.Equal(t, 0, len(idx.lookup(0x1FF)))
	assert.Equal(t, 1, len(idx.lookup(0x100)))
	assert.Equal(t, 1, len(idx.lookup(0x200)))
}
