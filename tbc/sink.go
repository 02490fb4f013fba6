// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tbc

// Sink is the callback surface a binary decoder drives, in document order,
// to translate one WebAssembly module. Every method returns an error that
// aborts the remainder of the translation; the decoder is expected to stop
// calling Sink methods the first time one returns non-nil. Every argument
// is a module-local index (the index space of the binary itself); every
// offset Sink records internally is environment-global or istream-relative.
//
// Translator is the only production implementation. The interface exists
// so a different decoder (for instance one that streams section-by-section
// without buffering a whole function body) can drive the same translator
// without either side depending on the other's concrete type.
type Sink interface {
	OnTypeCount(n uint32) error
	OnType(index uint32, sig Signature) error

	OnImportCount(n uint32) error
	// OnImport resolves moduleName/fieldName against the environment.
	// The import's kind is not yet known; it is supplied by the OnImportXxx
	// call immediately following.
	OnImport(index uint32, moduleName, fieldName string) error
	OnImportFunc(index uint32, sigIndex uint32) error
	OnImportTable(index uint32, tableType TableType) error
	OnImportMemory(index uint32, memType MemoryType) error
	OnImportGlobal(index uint32, globalType GlobalType) error

	OnFunctionCount(n uint32) error
	OnFunction(index uint32, sigIndex uint32) error

	OnTableCount(n uint32) error
	OnTable(index uint32, tableType TableType) error

	OnMemoryCount(n uint32) error
	OnMemory(index uint32, memType MemoryType) error

	OnGlobalCount(n uint32) error
	BeginGlobal(index uint32, globalType GlobalType) error
	EndGlobalInitExpr(index uint32) error

	OnExportCount(n uint32) error
	OnExport(index uint32, kind ExternalKind, itemIndex uint32, name string) error

	OnStartFunction(funcIndex uint32) error

	OnElemSegmentCount(n uint32) error
	BeginElemSegment(index uint32, tableIndex uint32) error
	EndElemSegmentInitExpr(index uint32) error
	OnElemSegmentFunctionIndex(index uint32, funcIndex uint32) error
	EndElemSegment(index uint32) error

	OnDataSegmentCount(n uint32) error
	BeginDataSegment(index uint32, memoryIndex uint32) error
	EndDataSegmentInitExpr(index uint32) error
	OnDataSegmentData(index uint32, src []byte) error
	EndDataSegment(index uint32) error

	// Shared by every kind of init expression (global, element-offset,
	// data-offset): exactly one of these is called, then the matching
	// End*InitExpr above.
	OnInitExprI32Const(v int32) error
	OnInitExprI64Const(v int64) error
	OnInitExprF32Const(v float32) error
	OnInitExprF64Const(v float64) error
	OnInitExprGetGlobal(globalIndex uint32) error

	BeginFunctionBody(index uint32) error
	OnLocalDeclCount(count uint32) error
	OnLocalDecl(declIndex uint32, count uint32, t ValueType) error

	OnUnreachableExpr() error
	OnNopExpr() error
	OnBlockExpr(sig BlockSignature) error
	OnLoopExpr(sig BlockSignature) error
	OnIfExpr(sig BlockSignature) error
	OnElseExpr() error
	OnEndExpr() error
	OnBrExpr(depth uint32) error
	OnBrIfExpr(depth uint32) error
	OnBrTableExpr(targets []uint32, defaultTarget uint32) error
	OnReturnExpr() error
	OnCallExpr(funcIndex uint32) error
	OnCallIndirectExpr(sigIndex uint32, tableIndex uint32) error
	OnDropExpr() error
	OnSelectExpr() error
	OnGetLocalExpr(localIndex uint32) error
	OnSetLocalExpr(localIndex uint32) error
	OnTeeLocalExpr(localIndex uint32) error
	OnGetGlobalExpr(globalIndex uint32) error
	OnSetGlobalExpr(globalIndex uint32) error
	OnConstI32Expr(v int32) error
	OnConstI64Expr(v int64) error
	OnConstF32Expr(v float32) error
	OnConstF64Expr(v float64) error
	OnUnaryExpr(op wasmOp) error
	OnBinaryExpr(op wasmOp) error
	OnLoadExpr(op wasmOp, alignmentLog2 uint32, offset uint32) error
	OnStoreExpr(op wasmOp, alignmentLog2 uint32, offset uint32) error
	OnCurrentMemoryExpr() error
	OnGrowMemoryExpr() error

	EndFunctionBody(index uint32) error

	EndModule() error

	// OnError reports an error that aborts a section: a malformed encoding,
	// or an error returned by another Sink method, which Decode reports here
	// as well before returning it. The boolean return indicates whether the decoder should
	// continue; Translator always returns false, since one malformed byte
	// makes the rest of the stream unreliable.
	OnError(sourceOffset uint32, message string) bool
}

// ErrorHandler receives translation errors for reporting purposes,
// independent of the error value returned to the decoder's caller.
type ErrorHandler interface {
	OnError(sourceOffset uint32, message string) bool
}

// HostImportDelegate supplies a host module's implementations for
// imports. One delegate is registered per host module name. Each method is
// invoked once, when a translated module imports the corresponding kind
// from that module, and must populate the passed environment entry in
// place (installing a callback, setting a value) or return an error.
type HostImportDelegate interface {
	ImportFunc(moduleName, fieldName string, sigIndex uint32, fn *Func) error
	ImportTable(moduleName, fieldName string, tableType TableType, table *Table) error
	ImportMemory(moduleName, fieldName string, memType MemoryType, mem *Memory) error
	ImportGlobal(moduleName, fieldName string, globalType GlobalType, global *Global) error
}
