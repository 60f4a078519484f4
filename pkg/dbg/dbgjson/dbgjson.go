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

// Package dbgjson flattens resolved pkg/dbg entities (whose fields hold
// live pointers to other entities) into plain, id-referencing DTOs suitable
// for a stable external API (spec §4.5 "Each returned entity data copy
// flattens object references back to ids") and marshals them with
// segmentio/encoding/json.
package dbgjson

import (
	"github.com/consensys/go-corset/pkg/dbg"
	json "github.com/segmentio/encoding/json"
)

// FileDTO is the flattened external representation of a dbg.File.
type FileDTO struct {
	ID       uint32   `json:"id"`
	Name     string   `json:"name"`
	Size     uint64   `json:"size"`
	MTime    uint64   `json:"mtime"`
	ModuleID uint32   `json:"moduleId"`
	Modules  []uint32 `json:"modules"`
}

// NewFileDTO flattens f. A nil f yields a zero-value DTO.
func NewFileDTO(f *dbg.File) FileDTO {
	if f == nil {
		return FileDTO{}
	}
	//
	dto := FileDTO{ID: uint32(f.Id), Name: f.Name, Size: f.Size, MTime: f.MTime}
	//
	if f.Module != nil {
		dto.ModuleID = uint32(f.Module.Id)
	}
	//
	for _, m := range f.ModulesByName {
		dto.Modules = append(dto.Modules, uint32(m.Id))
	}
	//
	return dto
}

// LibraryDTO is the flattened external representation of a dbg.Library.
type LibraryDTO struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
}

// NewLibraryDTO flattens l.
func NewLibraryDTO(l *dbg.Library) LibraryDTO {
	if l == nil {
		return LibraryDTO{}
	}

	return LibraryDTO{ID: uint32(l.Id), Name: l.Name}
}

// ModuleDTO is the flattened external representation of a dbg.Module.
type ModuleDTO struct {
	ID          uint32   `json:"id"`
	Name        string   `json:"name"`
	FileID      uint32   `json:"fileId"`
	LibraryID   *uint32  `json:"libraryId,omitempty"`
	MainScopeID *uint32  `json:"mainScopeId,omitempty"`
	ScopeIDs    []uint32 `json:"scopeIds"`
	FileIDs     []uint32 `json:"fileIds"`
}

// NewModuleDTO flattens m.
func NewModuleDTO(m *dbg.Module) ModuleDTO {
	if m == nil {
		return ModuleDTO{}
	}
	//
	dto := ModuleDTO{ID: uint32(m.Id), Name: m.Name}
	//
	if m.File != nil {
		dto.FileID = uint32(m.File.Id)
	}
	//
	if m.Library != nil {
		id := uint32(m.Library.Id)
		dto.LibraryID = &id
	}
	//
	if m.MainScope != nil {
		id := uint32(m.MainScope.Id)
		dto.MainScopeID = &id
	}
	//
	for _, s := range m.Scopes {
		dto.ScopeIDs = append(dto.ScopeIDs, uint32(s.Id))
	}
	//
	for _, f := range m.Files {
		dto.FileIDs = append(dto.FileIDs, uint32(f.Id))
	}
	//
	return dto
}

// ScopeDTO is the flattened external representation of a dbg.Scope.
type ScopeDTO struct {
	ID        uint32   `json:"id"`
	Name      string   `json:"name"`
	ModuleID  uint32   `json:"moduleId"`
	Type      string   `json:"type"`
	Size      uint64   `json:"size"`
	ParentID  *uint32  `json:"parentId,omitempty"`
	LabelID   *uint32  `json:"labelId,omitempty"`
	ChildIDs  []uint32 `json:"childIds"`
	SpanIDs   []uint32 `json:"spanIds"`
	SymbolIDs []uint32 `json:"symbolIds"`
}

// NewScopeDTO flattens sc.
func NewScopeDTO(sc *dbg.Scope) ScopeDTO {
	if sc == nil {
		return ScopeDTO{}
	}
	//
	dto := ScopeDTO{ID: uint32(sc.Id), Name: sc.Name, Type: sc.Type.String(), Size: sc.Size}
	//
	if sc.Module != nil {
		dto.ModuleID = uint32(sc.Module.Id)
	}
	//
	if sc.Parent != nil {
		id := uint32(sc.Parent.Id)
		dto.ParentID = &id
	}
	//
	if sc.Label != nil {
		id := uint32(sc.Label.Id)
		dto.LabelID = &id
	}
	//
	for _, c := range sc.Children {
		dto.ChildIDs = append(dto.ChildIDs, uint32(c.Id))
	}
	//
	for _, sp := range sc.Spans {
		dto.SpanIDs = append(dto.SpanIDs, uint32(sp.Id))
	}
	//
	for _, sy := range sc.Symbols {
		dto.SymbolIDs = append(dto.SymbolIDs, uint32(sy.Id))
	}
	//
	return dto
}

// SegmentDTO is the flattened external representation of a dbg.Segment.
type SegmentDTO struct {
	ID           uint32   `json:"id"`
	Name         string   `json:"name"`
	Start        uint64   `json:"start"`
	Size         uint64   `json:"size"`
	AddrSize     string   `json:"addrsize"`
	Access       string   `json:"access"`
	OutputName   string   `json:"outputName,omitempty"`
	OutputOffset uint64   `json:"outputOffset,omitempty"`
	SpanIDs      []uint32 `json:"spanIds"`
}

// NewSegmentDTO flattens sg.
func NewSegmentDTO(sg *dbg.Segment) SegmentDTO {
	if sg == nil {
		return SegmentDTO{}
	}
	//
	dto := SegmentDTO{
		ID: uint32(sg.Id), Name: sg.Name, Start: sg.Start, Size: sg.Size,
		AddrSize: sg.AddrSize, Access: sg.Access.String(),
	}
	//
	if sg.HasOutput {
		dto.OutputName, dto.OutputOffset = sg.OutputName, sg.OutputOffset
	}
	//
	for _, sp := range sg.Spans {
		dto.SpanIDs = append(dto.SpanIDs, uint32(sp.Id))
	}
	//
	return dto
}

// SpanDTO is the flattened external representation of a dbg.Span, after
// resolution has converted its Start/End to absolute addresses.
type SpanDTO struct {
	ID        uint32   `json:"id"`
	SegmentID uint32   `json:"segmentId"`
	Start     uint64   `json:"start"`
	End       uint64   `json:"end"`
	ScopeIDs  []uint32 `json:"scopeIds"`
	LineIDs   []uint32 `json:"lineIds"`
}

// NewSpanDTO flattens sp.
func NewSpanDTO(sp *dbg.Span) SpanDTO {
	if sp == nil {
		return SpanDTO{}
	}
	//
	dto := SpanDTO{ID: uint32(sp.Id), Start: sp.Start, End: sp.End}
	//
	if sp.Segment != nil {
		dto.SegmentID = uint32(sp.Segment.Id)
	}
	//
	for _, sc := range sp.Scopes {
		dto.ScopeIDs = append(dto.ScopeIDs, uint32(sc.Id))
	}
	//
	for _, ln := range sp.Lines {
		dto.LineIDs = append(dto.LineIDs, uint32(ln.Id))
	}
	//
	return dto
}

// LineDTO is the flattened external representation of a dbg.Line.
type LineDTO struct {
	ID      uint32   `json:"id"`
	FileID  uint32   `json:"fileId"`
	Line    int      `json:"line"`
	Type    string   `json:"type"`
	Count   int      `json:"count"`
	SpanIDs []uint32 `json:"spanIds"`
}

// NewLineDTO flattens ln.
func NewLineDTO(ln *dbg.Line) LineDTO {
	if ln == nil {
		return LineDTO{}
	}
	//
	dto := LineDTO{ID: uint32(ln.Id), Line: ln.Line, Type: ln.Type.String(), Count: ln.Count}
	//
	if ln.File != nil {
		dto.FileID = uint32(ln.File.Id)
	}
	//
	for _, sp := range ln.Spans {
		dto.SpanIDs = append(dto.SpanIDs, uint32(sp.Id))
	}
	//
	return dto
}

// SymbolDTO is the flattened external representation of a dbg.Symbol.
type SymbolDTO struct {
	ID        uint32  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Value     int64   `json:"value"`
	AddrSize  string  `json:"addrsize"`
	Size      uint64  `json:"size"`
	SegmentID *uint32 `json:"segmentId,omitempty"`
	ScopeID   *uint32 `json:"scopeId,omitempty"`
	ParentID  *uint32 `json:"parentId,omitempty"`
}

// NewSymbolDTO flattens sy.
func NewSymbolDTO(sy *dbg.Symbol) SymbolDTO {
	if sy == nil {
		return SymbolDTO{}
	}
	//
	dto := SymbolDTO{
		ID: uint32(sy.Id), Name: sy.Name, Type: sy.Type.String(), Value: sy.Value,
		AddrSize: sy.AddrSize, Size: sy.Size,
	}
	//
	if sy.Segment != nil {
		id := uint32(sy.Segment.Id)
		dto.SegmentID = &id
	}
	//
	if sy.Scope != nil {
		id := uint32(sy.Scope.Id)
		dto.ScopeID = &id
	}
	//
	if sy.Parent != nil {
		id := uint32(sy.Parent.Id)
		dto.ParentID = &id
	}
	//
	return dto
}

// Marshal is a thin wrapper over segmentio/encoding/json's faster encoder.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalIndent is the pretty-printing counterpart to Marshal, used by
// pkg/dbgcmd for --json query-result output.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}
