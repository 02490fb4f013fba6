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

import (
	"fmt"
	"io"
)

// pendingImport holds the state OnImport resolves, consumed by the
// OnImportXxx call that immediately follows it.
type pendingImport struct {
	moduleName, fieldName string
	module                *Module

	// resolvedExport is set when fieldName was already found in module's
	// export list, whether module is a regular translated module or a
	// host module pre-populated via RegisterHostModule.
	resolvedExport ExportEntry
	hasExport      bool

	// delegate is set when module is a host module and fieldName was not
	// found among its static exports, so the import is resolved lazily.
	delegate HostImportDelegate
}

// elemSegmentInfo is a deferred table write, applied only once the whole
// module has validated (§3 Deferred Effects).
type elemSegmentInfo struct {
	table     *Table
	dest      uint32
	funcIndex int32
}

// dataSegmentInfo is a deferred memory write.
type dataSegmentInfo struct {
	mem  *Memory
	dest uint32
	data []byte
}

// initValue is the scratch value an init expression assembles (§3
// Init-Expression Scratch).
type initValue struct {
	set   bool
	typ   ValueType
	value runtimeValue
}

// functionBuilder holds the state valid only between BeginFunctionBody and
// EndFunctionBody for a single defined function.
type functionBuilder struct {
	definedIndex uint32
	envFuncIndex uint32
	sigIndex     uint32 // env-global

	paramAndLocalTypes []ValueType // params, then locals in declaration order
	localDeclCount     uint32      // local decl groups announced by OnLocalDeclCount
	localDeclsSeen     uint32      // local decl groups processed so far
	localsWritten      uint32      // locals appended to paramAndLocalTypes so far

	labels *labelStack
	tc     *typeChecker
}

func (fb *functionBuilder) paramAndLocalCount() uint32 {
	return uint32(len(fb.paramAndLocalTypes))
}

// Translator implements Sink, translating one WebAssembly module's
// decoded events into bytecode appended to a shared Environment.
type Translator struct {
	env        *Environment
	cfg        Config
	errHandler ErrorHandler

	mod   *Module
	im    indexMapper
	ffix  *funcFixups
	mark  environmentMark
	fatal *Error

	pending *pendingImport
	init    initValue

	pendingGlobalType  GlobalType
	pendingGlobalIndex uint32

	pendingElemEnvTable uint32
	pendingElemOffset   uint32

	pendingDataEnvMem uint32
	pendingDataOffset uint32

	elemInfos []elemSegmentInfo
	dataInfos []dataSegmentInfo

	fb *functionBuilder
}

// NewTranslator begins translating a new module named name into env. It
// takes env's rollback mark immediately, before appending the new Module
// entry, so a failed translation can be undone in full by Environment's
// rollback.
func NewTranslator(env *Environment, name string, cfg Config, errHandler ErrorHandler) *Translator {
	mark := env.mark()
	mod := &Module{Name: name, IstreamStart: uint32(len(env.Istream))}
	env.Modules = append(env.Modules, mod)
	return &Translator{
		env:        env,
		cfg:        cfg,
		errHandler: errHandler,
		mod:        mod,
		ffix:       newFuncFixups(),
		mark:       mark,
	}
}

// Module returns the Module this Translator is building. It is only
// complete once the driving Decoder's Decode call has returned a nil
// error; on a failed translation the Environment should be rolled back
// to t.mark instead of consulting this Module.
func (t *Translator) Module() *Module {
	return t.mod
}

// Translate decodes a single WebAssembly binary module from r and
// appends its translation to env under the given name, rolling env back
// to its pre-translation state if decoding or translation fails.
func Translate(r io.Reader, env *Environment, name string, cfg Config, errHandler ErrorHandler) (*Module, error) {
	t := NewTranslator(env, name, cfg, errHandler)
	if err := NewDecoder(r).Decode(t); err != nil {
		env.resetToMark(t.mark)
		return nil, err
	}
	return t.Module(), nil
}

func (t *Translator) fail(err *Error) *Error {
	if t.fatal == nil {
		t.fatal = err
		logger.Debug(err.Error())
	}
	t.env.resetToMark(t.mark)
	if t.errHandler != nil {
		t.errHandler.OnError(err.Offset, err.Message)
	}
	return err
}

func (t *Translator) errf(phase Phase, kind Kind, format string, args ...any) *Error {
	return t.fail(newErr(phase, kind, 0, format, args...))
}

// --- Index Mapper (§4.1) ---

func (t *Translator) OnTypeCount(n uint32) error {
	for i := uint32(0); i < n; i++ {
		envIdx := uint32(len(t.env.Signatures))
		t.env.Signatures = append(t.env.Signatures, Signature{})
		t.im.appendSig(envIdx)
	}
	return nil
}

func (t *Translator) OnType(index uint32, sig Signature) error {
	envIdx, ok := t.im.sigToEnv(index)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidSigIndex, "type index %d out of range", index)
	}
	t.env.Signatures[envIdx] = sig
	return nil
}

func (t *Translator) OnImportCount(n uint32) error { return nil }

func (t *Translator) OnImport(index uint32, moduleName, fieldName string) error {
	mod, ok := t.env.FindModule(moduleName)
	if !ok {
		return t.errf(PhaseValidate, KindUnknownImportModule, "unknown import module %q", moduleName)
	}
	p := &pendingImport{moduleName: moduleName, fieldName: fieldName, module: mod}
	if export, found := mod.FindExport(fieldName); found {
		p.resolvedExport = export
		p.hasExport = true
		t.pending = p
		return nil
	}
	if mod.IsHost {
		delegate, ok := t.env.hostDelegates[moduleName]
		if !ok {
			return t.errf(PhaseValidate, KindUnknownImportField, "unknown import field %q in host module %q", fieldName, moduleName)
		}
		p.delegate = delegate
		t.pending = p
		return nil
	}
	return t.errf(PhaseValidate, KindUnknownImportField, "unknown import field %q in module %q", fieldName, moduleName)
}

func (t *Translator) sigByModuleIndex(moduleIndex uint32) (Signature, bool) {
	envIdx, ok := t.im.sigToEnv(moduleIndex)
	if !ok {
		return Signature{}, false
	}
	return t.env.Signatures[envIdx], true
}

func (t *Translator) OnImportFunc(index uint32, sigIndex uint32) error {
	p := t.pending
	wantSig, ok := t.sigByModuleIndex(sigIndex)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidSigIndex, "import %q.%q: invalid sig index %d", p.moduleName, p.fieldName, sigIndex)
	}
	if p.delegate != nil {
		fn := &Func{SigIndex: t.im.sigIndexMapping[sigIndex], IsHost: true, ModuleName: p.moduleName, FieldName: p.fieldName}
		t.env.Funcs = append(t.env.Funcs, fn)
		envIdx := uint32(len(t.env.Funcs) - 1)
		if err := p.delegate.ImportFunc(p.moduleName, p.fieldName, fn.SigIndex, fn); err != nil {
			return t.fail(wrapErr(PhaseValidate, KindImportKindMismatch, 0, err, "host import %q.%q failed", p.moduleName, p.fieldName))
		}
		p.module.Exports = append(p.module.Exports, ExportEntry{Name: p.fieldName, Kind: ExternalFunc, Index: envIdx})
		t.im.appendFunc(envIdx, true)
		return nil
	}
	if p.resolvedExport.Kind != ExternalFunc {
		return t.errf(PhaseValidate, KindImportKindMismatch, "import %q.%q: expected func, found %s", p.moduleName, p.fieldName, p.resolvedExport.Kind)
	}
	target := t.env.Funcs[p.resolvedExport.Index]
	haveSig := t.env.Signatures[target.SigIndex]
	if !wantSig.Equal(&haveSig) {
		return t.errf(PhaseValidate, KindImportKindMismatch, "import %q.%q: signature mismatch", p.moduleName, p.fieldName)
	}
	t.im.appendFunc(p.resolvedExport.Index, true)
	return nil
}

func (t *Translator) OnImportTable(index uint32, tableType TableType) error {
	p := t.pending
	if t.mod.TableIndex != nil {
		return t.errf(PhaseValidate, KindDuplicateTable, "module declares more than one table")
	}
	if p.delegate != nil {
		tbl := NewTable(tableType)
		t.env.Tables = append(t.env.Tables, tbl)
		envIdx := uint32(len(t.env.Tables) - 1)
		if err := p.delegate.ImportTable(p.moduleName, p.fieldName, tableType, tbl); err != nil {
			return t.fail(wrapErr(PhaseValidate, KindImportKindMismatch, 0, err, "host import %q.%q failed", p.moduleName, p.fieldName))
		}
		p.module.Exports = append(p.module.Exports, ExportEntry{Name: p.fieldName, Kind: ExternalTable, Index: envIdx})
		t.im.appendTable(envIdx, true)
		t.mod.TableIndex = &envIdx
		return nil
	}
	if p.resolvedExport.Kind != ExternalTable {
		return t.errf(PhaseValidate, KindImportKindMismatch, "import %q.%q: expected table, found %s", p.moduleName, p.fieldName, p.resolvedExport.Kind)
	}
	target := t.env.Tables[p.resolvedExport.Index]
	if !limitsCompatible(tableType.Limits, target.Type.Limits) {
		return t.errf(PhaseValidate, KindImportLimitsTooLoose, "import %q.%q: table limits too loose", p.moduleName, p.fieldName)
	}
	t.im.appendTable(p.resolvedExport.Index, true)
	idx := p.resolvedExport.Index
	t.mod.TableIndex = &idx
	return nil
}

func (t *Translator) OnImportMemory(index uint32, memType MemoryType) error {
	p := t.pending
	if t.mod.MemoryIndex != nil {
		return t.errf(PhaseValidate, KindDuplicateMemory, "module declares more than one memory")
	}
	if p.delegate != nil {
		mem := NewMemory(memType)
		t.env.Memories = append(t.env.Memories, mem)
		envIdx := uint32(len(t.env.Memories) - 1)
		if err := p.delegate.ImportMemory(p.moduleName, p.fieldName, memType, mem); err != nil {
			return t.fail(wrapErr(PhaseValidate, KindImportKindMismatch, 0, err, "host import %q.%q failed", p.moduleName, p.fieldName))
		}
		p.module.Exports = append(p.module.Exports, ExportEntry{Name: p.fieldName, Kind: ExternalMemory, Index: envIdx})
		t.im.appendMemory(envIdx, true)
		t.mod.MemoryIndex = &envIdx
		return nil
	}
	if p.resolvedExport.Kind != ExternalMemory {
		return t.errf(PhaseValidate, KindImportKindMismatch, "import %q.%q: expected memory, found %s", p.moduleName, p.fieldName, p.resolvedExport.Kind)
	}
	target := t.env.Memories[p.resolvedExport.Index]
	if !limitsCompatible(memType.Limits, target.Type.Limits) {
		return t.errf(PhaseValidate, KindImportLimitsTooLoose, "import %q.%q: memory limits too loose", p.moduleName, p.fieldName)
	}
	t.im.appendMemory(p.resolvedExport.Index, true)
	idx := p.resolvedExport.Index
	t.mod.MemoryIndex = &idx
	return nil
}

func (t *Translator) OnImportGlobal(index uint32, globalType GlobalType) error {
	p := t.pending
	if p.delegate != nil {
		g := &Global{Type: globalType}
		t.env.Globals = append(t.env.Globals, g)
		envIdx := uint32(len(t.env.Globals) - 1)
		if err := p.delegate.ImportGlobal(p.moduleName, p.fieldName, globalType, g); err != nil {
			return t.fail(wrapErr(PhaseValidate, KindImportKindMismatch, 0, err, "host import %q.%q failed", p.moduleName, p.fieldName))
		}
		if t.cfg.EnforceHostGlobalTypes && (g.Type.Value != globalType.Value || g.Type.Mutable != globalType.Mutable) {
			return t.errf(PhaseValidate, KindImportKindMismatch, "host import %q.%q: global type/mutability mismatch", p.moduleName, p.fieldName)
		}
		p.module.Exports = append(p.module.Exports, ExportEntry{Name: p.fieldName, Kind: ExternalGlobal, Index: envIdx})
		t.im.appendGlobal(envIdx, true)
		return nil
	}
	// Regular module-to-module global import: the export kind is checked;
	// type/mutability compatibility with the declared global type is not
	// checked here or later, matching wabt's own reader.
	if p.resolvedExport.Kind != ExternalGlobal {
		return t.errf(PhaseValidate, KindImportKindMismatch, "import %q.%q: expected global, found %s", p.moduleName, p.fieldName, p.resolvedExport.Kind)
	}
	t.im.appendGlobal(p.resolvedExport.Index, true)
	return nil
}

func (t *Translator) OnFunctionCount(n uint32) error {
	t.mod.FuncsIndexStart = uint32(len(t.env.Funcs))
	for i := uint32(0); i < n; i++ {
		envIdx := uint32(len(t.env.Funcs))
		t.env.Funcs = append(t.env.Funcs, &Func{Offset: kInvalidIstreamOffset})
		t.im.appendFunc(envIdx, false)
	}
	t.mod.FuncsCount = n
	return nil
}

func (t *Translator) OnFunction(index uint32, sigIndex uint32) error {
	envIdx, ok := t.im.funcToEnv(index)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidFuncIndex, "function index %d out of range", index)
	}
	sigEnvIdx, ok := t.im.sigToEnv(sigIndex)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidSigIndex, "function %d: invalid sig index %d", index, sigIndex)
	}
	t.env.Funcs[envIdx].SigIndex = sigEnvIdx
	return nil
}

func (t *Translator) OnTableCount(n uint32) error {
	if n > 1 || (n == 1 && t.mod.TableIndex != nil) {
		return t.errf(PhaseValidate, KindDuplicateTable, "module declares more than one table")
	}
	return nil
}

func (t *Translator) OnTable(index uint32, tableType TableType) error {
	if t.mod.TableIndex != nil {
		return t.errf(PhaseValidate, KindDuplicateTable, "module declares more than one table")
	}
	envIdx := uint32(len(t.env.Tables))
	t.env.Tables = append(t.env.Tables, NewTable(tableType))
	t.im.appendTable(envIdx, false)
	t.mod.TableIndex = &envIdx
	return nil
}

func (t *Translator) OnMemoryCount(n uint32) error {
	if n > 1 || (n == 1 && t.mod.MemoryIndex != nil) {
		return t.errf(PhaseValidate, KindDuplicateMemory, "module declares more than one memory")
	}
	return nil
}

func (t *Translator) OnMemory(index uint32, memType MemoryType) error {
	if t.mod.MemoryIndex != nil {
		return t.errf(PhaseValidate, KindDuplicateMemory, "module declares more than one memory")
	}
	envIdx := uint32(len(t.env.Memories))
	t.env.Memories = append(t.env.Memories, NewMemory(memType))
	t.im.appendMemory(envIdx, false)
	t.mod.MemoryIndex = &envIdx
	return nil
}

func (t *Translator) OnGlobalCount(n uint32) error {
	t.mod.GlobalsIndexStart = uint32(len(t.env.Globals))
	for i := uint32(0); i < n; i++ {
		envIdx := uint32(len(t.env.Globals))
		t.env.Globals = append(t.env.Globals, nil)
		t.im.appendGlobal(envIdx, false)
	}
	t.mod.GlobalsCount = n
	return nil
}

func (t *Translator) BeginGlobal(index uint32, globalType GlobalType) error {
	t.pendingGlobalType = globalType
	t.pendingGlobalIndex = index
	t.init = initValue{}
	return nil
}

func (t *Translator) OnInitExprI32Const(v int32) error {
	t.init = initValue{set: true, typ: I32, value: i32Value(v)}
	return nil
}

func (t *Translator) OnInitExprI64Const(v int64) error {
	t.init = initValue{set: true, typ: I64, value: i64Value(v)}
	return nil
}

func (t *Translator) OnInitExprF32Const(v float32) error {
	t.init = initValue{set: true, typ: F32, value: f32Value(v)}
	return nil
}

func (t *Translator) OnInitExprF64Const(v float64) error {
	t.init = initValue{set: true, typ: F64, value: f64Value(v)}
	return nil
}

func (t *Translator) OnInitExprGetGlobal(globalIndex uint32) error {
	if globalIndex >= t.im.numGlobalImports {
		return t.errf(PhaseValidate, KindInitNonImportedGlobal, "init expression references non-imported global %d", globalIndex)
	}
	envIdx, ok := t.im.globalToEnv(globalIndex)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidGlobalIndex, "invalid global index %d in init expression", globalIndex)
	}
	g := t.env.Globals[envIdx]
	if g.Type.Mutable {
		return t.errf(PhaseValidate, KindInitMutableGlobal, "init expression references mutable global %d", globalIndex)
	}
	t.init = initValue{set: true, typ: g.Type.Value, value: g.Value}
	return nil
}

func (t *Translator) EndGlobalInitExpr(index uint32) error {
	if !t.init.set || t.init.typ != t.pendingGlobalType.Value {
		return t.errf(PhaseValidate, KindInitTypeMismatch, "global %d: initializer type mismatch", index)
	}
	envIdx, _ := t.im.globalToEnv(index)
	t.env.Globals[envIdx] = &Global{Type: t.pendingGlobalType, Value: t.init.value}
	return nil
}

func (t *Translator) OnExportCount(n uint32) error { return nil }

func (t *Translator) OnExport(index uint32, kind ExternalKind, itemIndex uint32, name string) error {
	var envIdx uint32
	switch kind {
	case ExternalFunc:
		idx, ok := t.im.funcToEnv(itemIndex)
		if !ok {
			return t.errf(PhaseValidate, KindInvalidFuncIndex, "export %q: invalid func index %d", name, itemIndex)
		}
		envIdx = idx
	case ExternalTable:
		if t.mod.TableIndex == nil {
			return t.errf(PhaseValidate, KindMissingTable, "export %q: module has no table", name)
		}
		envIdx = *t.mod.TableIndex
	case ExternalMemory:
		if t.mod.MemoryIndex == nil {
			return t.errf(PhaseValidate, KindMissingMemory, "export %q: module has no memory", name)
		}
		envIdx = *t.mod.MemoryIndex
	case ExternalGlobal:
		idx, ok := t.im.globalToEnv(itemIndex)
		if !ok {
			return t.errf(PhaseValidate, KindInvalidGlobalIndex, "export %q: invalid global index %d", name, itemIndex)
		}
		if t.env.Globals[idx].Type.Mutable {
			return t.errf(PhaseValidate, KindMutableGlobalExport, "export %q: mutable globals cannot be exported", name)
		}
		envIdx = idx
	default:
		return t.errf(PhaseValidate, KindMalformedModule, "export %q: unknown kind", name)
	}
	if _, dup := t.mod.FindExport(name); dup {
		return t.errf(PhaseValidate, KindDuplicateExport, "duplicate export %q", name)
	}
	t.mod.Exports = append(t.mod.Exports, ExportEntry{Name: name, Kind: kind, Index: envIdx})
	return nil
}

func (t *Translator) OnStartFunction(funcIndex uint32) error {
	envIdx, ok := t.im.funcToEnv(funcIndex)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidFuncIndex, "start function: invalid func index %d", funcIndex)
	}
	sig := t.env.Signatures[t.env.Funcs[envIdx].SigIndex]
	if len(sig.ParamTypes) != 0 || len(sig.ResultTypes) != 0 {
		return t.errf(PhaseValidate, KindStartFunctionSignatureBad, "start function must take no params and return no results")
	}
	t.mod.StartFuncIndex = envIdx
	t.mod.HasStart = true
	return nil
}

// --- Element & Data segments (§4.4) ---

func (t *Translator) OnElemSegmentCount(n uint32) error { return nil }

func (t *Translator) BeginElemSegment(index uint32, tableIndex uint32) error {
	envIdx, ok := t.im.tableToEnv(tableIndex)
	if !ok || t.mod.TableIndex == nil {
		return t.errf(PhaseValidate, KindMissingTable, "element segment %d: module has no table", index)
	}
	t.pendingElemEnvTable = envIdx
	t.init = initValue{}
	return nil
}

func (t *Translator) EndElemSegmentInitExpr(index uint32) error {
	if !t.init.set || t.init.typ != I32 {
		return t.errf(PhaseValidate, KindInitTypeMismatch, "element segment %d: offset must be i32", index)
	}
	t.pendingElemOffset = uint32(t.init.value.i32())
	return nil
}

func (t *Translator) OnElemSegmentFunctionIndex(index uint32, funcIndex uint32) error {
	table := t.env.Tables[t.pendingElemEnvTable]
	if t.pendingElemOffset >= uint32(table.Size()) {
		return t.errf(PhaseValidate, KindElementOutOfBounds, "element segment %d: offset %d out of bounds (table size %d)", index, t.pendingElemOffset, table.Size())
	}
	envFuncIdx, ok := t.im.funcToEnv(funcIndex)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidFuncIndex, "element segment %d: invalid func index %d", index, funcIndex)
	}
	t.elemInfos = append(t.elemInfos, elemSegmentInfo{table: table, dest: t.pendingElemOffset, funcIndex: int32(envFuncIdx)})
	t.pendingElemOffset++
	return nil
}

func (t *Translator) EndElemSegment(index uint32) error { return nil }

func (t *Translator) OnDataSegmentCount(n uint32) error { return nil }

func (t *Translator) BeginDataSegment(index uint32, memoryIndex uint32) error {
	envIdx, ok := t.im.memoryToEnv(memoryIndex)
	if !ok || t.mod.MemoryIndex == nil {
		return t.errf(PhaseValidate, KindMissingMemory, "data segment %d: module has no memory", index)
	}
	t.pendingDataEnvMem = envIdx
	t.init = initValue{}
	return nil
}

func (t *Translator) EndDataSegmentInitExpr(index uint32) error {
	if !t.init.set || t.init.typ != I32 {
		return t.errf(PhaseValidate, KindInitTypeMismatch, "data segment %d: offset must be i32", index)
	}
	t.pendingDataOffset = uint32(t.init.value.i32())
	return nil
}

func (t *Translator) OnDataSegmentData(index uint32, src []byte) error {
	mem := t.env.Memories[t.pendingDataEnvMem]
	size := uint32(len(src))
	address := t.pendingDataOffset
	endAddress := uint64(address) + uint64(size)
	if endAddress > mem.byteSize() {
		return t.errf(PhaseValidate, KindDataOutOfBounds, "data segment %d: range [%d, %d) out of bounds (memory size %d)", index, address, endAddress, mem.byteSize())
	}
	if size > 0 {
		cp := append([]byte(nil), src...)
		t.dataInfos = append(t.dataInfos, dataSegmentInfo{mem: mem, dest: address, data: cp})
	}
	return nil
}

func (t *Translator) EndDataSegment(index uint32) error { return nil }

// --- Function bodies: prologue shared with the emitter (§4.4) ---

func (t *Translator) BeginFunctionBody(index uint32) error {
	definedIdx, ok := t.im.funcModuleIndexToDefined(index)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidFuncIndex, "code section entry %d does not name a defined function", index)
	}
	envIdx, ok := t.im.funcToEnv(index)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidFuncIndex, "function index %d out of range", index)
	}
	fn := t.env.Funcs[envIdx]
	fn.Offset = uint32(len(t.env.Istream))
	for _, off := range t.ffix.take(definedIdx) {
		t.emitDataAt(off, fn.Offset)
	}

	sig := t.env.Signatures[fn.SigIndex]
	fb := &functionBuilder{
		definedIndex:       definedIdx,
		envFuncIndex:       envIdx,
		sigIndex:           fn.SigIndex,
		paramAndLocalTypes: append([]ValueType(nil), sig.ParamTypes...),
		labels:             newLabelStack(),
		tc:                 newTypeChecker(),
	}
	fb.tc.pushFrame(labelFunc, nil, sig.ResultTypes)
	fb.labels.push(label{kind: labelFunc, target: kInvalidIstreamOffset, fixup: kInvalidIstreamOffset, height: 0, resultTypes: sig.ResultTypes})
	t.fb = fb
	return nil
}

func (t *Translator) OnLocalDeclCount(count uint32) error {
	t.fb.localDeclCount = count
	if count == 0 {
		fn := t.env.Funcs[t.fb.envFuncIndex]
		fn.ParamAndLocalCount = t.fb.paramAndLocalCount()
		t.emitOpcode(iOpAlloca)
		t.emitU32(0)
	}
	return nil
}

func (t *Translator) OnLocalDecl(declIndex uint32, count uint32, typ ValueType) error {
	if t.fb.paramAndLocalCount()+count > t.cfg.MaxLocalIndex {
		return t.errf(PhaseValidate, KindInvalidLocalIndex, "function declares too many locals")
	}
	for i := uint32(0); i < count; i++ {
		t.fb.paramAndLocalTypes = append(t.fb.paramAndLocalTypes, typ)
	}
	t.fb.localsWritten += count
	t.fb.localDeclsSeen++
	if t.fb.localDeclsSeen == t.fb.localDeclCount {
		fn := t.env.Funcs[t.fb.envFuncIndex]
		fn.ParamAndLocalCount = t.fb.paramAndLocalCount()
		fn.LocalTypes = append([]ValueType(nil), t.fb.paramAndLocalTypes[len(t.env.Signatures[fn.SigIndex].ParamTypes):]...)
		t.emitOpcode(iOpAlloca)
		t.emitU32(t.fb.localsWritten)
	}
	return nil
}

func (t *Translator) EndFunctionBody(index uint32) error {
	t.fixupTopLabel()
	drop, keep := t.returnDropKeep()
	t.emitDropKeep(drop, keep)
	t.emitOpcode(opReturn)
	t.fb.labels.pop()
	if t.fb.labels.len() != 0 {
		return t.errf(PhaseValidate, KindMalformedModule, "function %d: unbalanced labels at end", index)
	}
	t.fb = nil
	return nil
}

func (t *Translator) EndModule() error {
	for _, info := range t.elemInfos {
		if err := info.table.Set(int32(info.dest), info.funcIndex); err != nil {
			return t.fail(wrapErr(PhaseCommit, KindElementOutOfBounds, 0, err, "committing element segment"))
		}
	}
	for _, info := range t.dataInfos {
		if err := info.mem.InitSegment(info.dest, 0, uint32(len(info.data)), info.data); err != nil {
			return t.fail(wrapErr(PhaseCommit, KindDataOutOfBounds, 0, err, "committing data segment"))
		}
	}
	t.mod.IstreamEnd = uint32(len(t.env.Istream))
	logger.Debug(fmt.Sprintf("committed module %q: istream [%d, %d)", t.mod.Name, t.mod.IstreamStart, t.mod.IstreamEnd))
	return nil
}

func (t *Translator) OnError(sourceOffset uint32, message string) bool {
	t.fail(newErr(PhaseDecode, KindMalformedModule, sourceOffset, "%s", message))
	return false
}
