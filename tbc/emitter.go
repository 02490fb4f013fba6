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

import "encoding/binary"

// --- Emission primitives ---

func (t *Translator) emitByte(b byte) {
	t.env.Istream = append(t.env.Istream, b)
}

func (t *Translator) emitOpcode(op wasmOp) {
	t.emitByte(byte(op))
}

func (t *Translator) emitU32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	t.env.Istream = append(t.env.Istream, buf[:]...)
}

func (t *Translator) emitU64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	t.env.Istream = append(t.env.Istream, buf[:]...)
}

// emitDataAt overwrites the 4-byte placeholder at offset with v, used by the
// fixup engine once a branch or call target becomes known.
func (t *Translator) emitDataAt(offset, v uint32) {
	binary.LittleEndian.PutUint32(t.env.Istream[offset:offset+4], v)
}

func (t *Translator) istreamOffset() uint32 { return uint32(len(t.env.Istream)) }

// emitDropKeep lowers a stack-height adjustment to DropKeep, or a cheaper
// equivalent: nothing at all when there is nothing to drop (the common case
// at the end of a block whose result sits directly atop the values below
// it), or a plain Drop when discarding exactly one value with nothing kept.
func (t *Translator) emitDropKeep(drop uint32, keep uint32) {
	switch {
	case drop == 0:
		return
	case drop == 1 && keep == 0:
		t.emitOpcode(opDrop)
	default:
		t.emitOpcode(iOpDropKeep)
		t.emitU32(drop)
		t.emitByte(byte(keep))
	}
}

// dropKeepFor computes the drop/keep pair unwinding the operand stack from
// its current height down to a label's entry height, keeping the label's
// result arity. keep is always 0 or 1 under the WebAssembly MVP's single
// result value per block/function.
func (t *Translator) dropKeepFor(targetHeight uint32, resultTypes []ValueType) (uint32, uint32) {
	keep := uint32(len(resultTypes))
	current := t.fb.tc.height()
	if current < targetHeight+keep {
		return 0, keep
	}
	return current - targetHeight - keep, keep
}

// returnDropKeep computes the drop/keep pair for an implicit or explicit
// function return: unwind to height 0, keeping the function's result arity.
func (t *Translator) returnDropKeep() (uint32, uint32) {
	fnLabel, _ := t.fb.labels.at(uint32(t.fb.labels.len() - 1))
	return t.dropKeepFor(fnLabel.height, fnLabel.resultTypes)
}

// fixupTopLabel patches every pending forward-branch placeholder targeting
// the innermost label with its now-known istream offset (the current
// position), used at OnEndExpr and at the synthetic end-of-function.
func (t *Translator) fixupTopLabel() {
	l := t.fb.labels.top()
	here := t.istreamOffset()
	for _, off := range l.pendingFixups {
		t.emitDataAt(off, here)
	}
	l.pendingFixups = nil
	if l.target == kInvalidIstreamOffset {
		l.target = here
	}
}

// translatedLocalIndex maps a WebAssembly local index directly: this
// translator keeps params and locals in one contiguous frame slot layout
// identical to their declaration order, so no further remapping is needed
// beyond bounds-checking.
func (t *Translator) translatedLocalIndex(localIndex uint32) (uint32, error) {
	if localIndex >= t.fb.paramAndLocalCount() {
		return 0, newErr(PhaseValidate, KindInvalidLocalIndex, 0, "local index %d out of range", localIndex)
	}
	return localIndex, nil
}

func (t *Translator) localType(localIndex uint32) ValueType {
	return t.fb.paramAndLocalTypes[localIndex]
}

// --- Expression translation (§4.2, §4.4) ---

func (t *Translator) OnUnreachableExpr() error {
	t.emitOpcode(opUnreachable)
	t.fb.tc.markUnreachable()
	return nil
}

// OnNopExpr emits nothing: nop carries no runtime effect, so lowering it to
// bytecode would only cost the interpreter a dispatch it can skip entirely.
func (t *Translator) OnNopExpr() error {
	return nil
}

func valueTypesEqual(a, b []ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i, t := range a {
		if t != b[i] {
			return false
		}
	}
	return true
}

func (t *Translator) blockSigTypes(sig BlockSignature) (params, results []ValueType, err error) {
	if sig.TypeIndex >= 0 {
		envIdx, ok := t.im.sigToEnv(uint32(sig.TypeIndex))
		if !ok {
			return nil, nil, newErr(PhaseValidate, KindInvalidBlockSignature, 0, "invalid block type index %d", sig.TypeIndex)
		}
		s := t.env.Signatures[envIdx]
		return s.ParamTypes, s.ResultTypes, nil
	}
	return sig.ParamTypes, sig.ResultTypes, nil
}

// checkLabelDepth rejects nesting one level past cfg.MaxLabelDepth, before
// the new label is pushed, so the limit counts the depth a branch could
// actually target.
func (t *Translator) checkLabelDepth() error {
	if uint32(t.fb.labels.len()) >= t.cfg.MaxLabelDepth {
		return t.errf(PhaseValidate, KindResourceLimitExceeded, "block/loop/if nesting exceeds limit of %d", t.cfg.MaxLabelDepth)
	}
	return nil
}

func (t *Translator) OnBlockExpr(sig BlockSignature) error {
	if err := t.checkLabelDepth(); err != nil {
		return err
	}
	params, results, err := t.blockSigTypes(sig)
	if err != nil {
		return t.fail(err.(*Error))
	}
	if err := t.fb.tc.popTypes(params); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	height := t.fb.tc.height()
	t.fb.tc.pushFrame(labelBlock, params, results)
	t.fb.labels.push(label{kind: labelBlock, target: kInvalidIstreamOffset, fixup: kInvalidIstreamOffset, height: height, resultTypes: results})
	return nil
}

func (t *Translator) OnLoopExpr(sig BlockSignature) error {
	if err := t.checkLabelDepth(); err != nil {
		return err
	}
	params, results, err := t.blockSigTypes(sig)
	if err != nil {
		return t.fail(err.(*Error))
	}
	if err := t.fb.tc.popTypes(params); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	height := t.fb.tc.height()
	t.fb.tc.pushFrame(labelLoop, params, results)
	// A loop's branch target is its own first instruction, known
	// immediately, unlike block/if which resolve only at End.
	t.fb.labels.push(label{kind: labelLoop, target: t.istreamOffset(), fixup: kInvalidIstreamOffset, height: height, resultTypes: params})
	return nil
}

func (t *Translator) OnIfExpr(sig BlockSignature) error {
	if err := t.checkLabelDepth(); err != nil {
		return err
	}
	params, results, err := t.blockSigTypes(sig)
	if err != nil {
		return t.fail(err.(*Error))
	}
	if err := t.fb.tc.pop(I32); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	if err := t.fb.tc.popTypes(params); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	height := t.fb.tc.height()
	t.emitOpcode(iOpBrUnless)
	fixupOffset := t.istreamOffset()
	t.emitU32(kInvalidIstreamOffset) // patched at Else or End
	t.fb.tc.pushFrame(labelIf, params, results)
	t.fb.labels.push(label{kind: labelIf, target: kInvalidIstreamOffset, fixup: fixupOffset, height: height, resultTypes: results})
	return nil
}

func (t *Translator) OnElseExpr() error {
	if t.fb.labels.top().kind != labelIf {
		return t.errf(PhaseValidate, KindMalformedModule, "else without matching if")
	}
	ifLabel := t.fb.labels.pop()
	ifFrame, err := t.fb.tc.popFrame()
	if err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	t.fb.tc.pushTypes(ifFrame.startTypes)

	// The if-branch falls through to here; it must jump past the
	// else-branch, so emit its own forward branch before patching the
	// original false-jump to land exactly here.
	t.emitOpcode(iOpBr)
	endFixup := t.istreamOffset()
	t.emitU32(kInvalidIstreamOffset)

	t.emitDataAt(ifLabel.fixup, t.istreamOffset())

	t.fb.tc.pushFrame(labelElse, ifFrame.startTypes, ifFrame.endTypes)
	t.fb.labels.push(label{kind: labelElse, target: kInvalidIstreamOffset, fixup: endFixup, height: ifLabel.height, resultTypes: ifFrame.endTypes, pendingFixups: ifLabel.pendingFixups})
	return nil
}

func (t *Translator) OnEndExpr() error {
	top := t.fb.labels.top()
	frame, err := t.fb.tc.popFrame()
	if err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	switch top.kind {
	case labelIf:
		// No else: the false-branch jump lands directly here, after the
		// (now-absent) else body, with the if's own results never pushed
		// on the taken-false path — valid only when params == results,
		// since the false path must leave the stack exactly as the true
		// path's declared results would.
		if !valueTypesEqual(frame.startTypes, frame.endTypes) {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "if without else requires identical param and result types, got %v -> %v", frame.startTypes, frame.endTypes)
		}
		t.emitDataAt(top.fixup, t.istreamOffset())
	case labelElse:
		t.emitDataAt(top.fixup, t.istreamOffset())
	}
	t.fixupTopLabel()
	t.fb.labels.pop()
	t.fb.tc.pushTypes(frame.endTypes)
	return nil
}

func (t *Translator) branchDropKeep(depth uint32) (uint32, uint32, error) {
	l, ok := t.fb.labels.at(depth)
	if !ok {
		return 0, 0, newErr(PhaseValidate, KindInvalidBranchDepth, 0, "invalid branch depth %d", depth)
	}
	resultTypes := l.resultTypes
	drop, keep := t.dropKeepFor(l.height, resultTypes)
	return drop, keep, nil
}

// emitBranchTarget emits the label at depth's absolute target if already
// known (a backward branch to an enclosing loop), or a 4-byte placeholder
// queued as a pending fixup otherwise (a forward branch to a block/if/
// function end not yet translated).
func (t *Translator) emitBranchTarget(depth uint32) {
	l, _ := t.fb.labels.at(depth)
	if l.target != kInvalidIstreamOffset {
		t.emitU32(l.target)
		return
	}
	fixupOff := t.istreamOffset()
	t.emitU32(kInvalidIstreamOffset)
	l.pendingFixups = append(l.pendingFixups, fixupOff)
}

// emitBranchTo emits a DropKeep (if needed) followed by an unconditional
// branch to the label at depth. Used only where the branch is guaranteed to
// be taken (plain br); a conditional branch must not run DropKeep until the
// condition itself has been popped off the operand stack, since DropKeep's
// drop/keep counts are computed against the stack height with the
// condition already gone (see OnBrIfExpr).
func (t *Translator) emitBranchTo(depth uint32, op wasmOp) error {
	if _, err := t.fb.tc.checkBranch(depth); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	drop, keep, err := t.branchDropKeep(depth)
	if err != nil {
		return t.fail(err.(*Error))
	}
	t.emitDropKeep(drop, keep)
	t.emitOpcode(op)
	t.emitBranchTarget(depth)
	return nil
}

func (t *Translator) OnBrExpr(depth uint32) error {
	if err := t.emitBranchTo(depth, iOpBr); err != nil {
		return err
	}
	t.fb.tc.markUnreachable()
	return nil
}

// OnBrIfExpr lowers br_if to BrUnless guarding a DropKeep+Br: BrUnless pops
// the condition and, when it is zero, jumps straight past the taken-branch
// code to the fall-through, so DropKeep only ever runs on the path that
// actually branches and only ever sees the operand stack with the
// condition already gone.
func (t *Translator) OnBrIfExpr(depth uint32) error {
	if err := t.fb.tc.pop(I32); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	if _, err := t.fb.tc.checkBranch(depth); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}

	t.emitOpcode(iOpBrUnless)
	skipFixup := t.istreamOffset()
	t.emitU32(kInvalidIstreamOffset)

	drop, keep, err := t.branchDropKeep(depth)
	if err != nil {
		return t.fail(err.(*Error))
	}
	t.emitDropKeep(drop, keep)
	t.emitOpcode(iOpBr)
	t.emitBranchTarget(depth)

	t.emitDataAt(skipFixup, t.istreamOffset())
	return nil
}

// emitBrTableEntry writes one TABLE_ENTRY_SIZE-byte br_table jump-table
// entry for depth: a 4-byte branch target (resolved immediately for a
// backward branch to an enclosing loop, or queued as a fixup the same way
// emitBranchTo does for a forward branch), followed by the depth's
// 4-byte drop count and 1-byte keep count (§4.4 "Br-table entry").
func (t *Translator) emitBrTableEntry(depth uint32) error {
	l, ok := t.fb.labels.at(depth)
	if !ok {
		return newErr(PhaseValidate, KindInvalidBranchDepth, 0, "invalid br_table depth %d", depth)
	}
	if l.target != kInvalidIstreamOffset {
		t.emitU32(l.target)
	} else {
		off := t.istreamOffset()
		t.emitU32(kInvalidIstreamOffset)
		l.pendingFixups = append(l.pendingFixups, off)
	}
	drop, keep, err := t.branchDropKeep(depth)
	if err != nil {
		return err
	}
	t.emitU32(drop)
	t.emitByte(byte(keep))
	return nil
}

// OnBrTableExpr lowers a br_table into BrTable plus an out-of-line jump
// table: BrTable carries the target count and the byte offset of the
// table's payload; the payload itself is prefixed with a Data marker and
// its length so a disassembler can skip over it as opaque, then holds one
// emitBrTableEntry per target with the default target last (§4.4, §9 "the
// Data marker").
func (t *Translator) OnBrTableExpr(targets []uint32, defaultTarget uint32) error {
	if err := t.fb.tc.pop(I32); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	for _, depth := range targets {
		if _, err := t.fb.tc.checkBranch(depth); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
	}
	if _, err := t.fb.tc.checkBranch(defaultTarget); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}

	t.emitOpcode(iOpBrTable)
	t.emitU32(uint32(len(targets)))
	tableOffsetFixup := t.istreamOffset()
	t.emitU32(kInvalidIstreamOffset)

	t.emitOpcode(iOpData)
	t.emitU32((uint32(len(targets)) + 1) * tableEntrySize)
	t.emitDataAt(tableOffsetFixup, t.istreamOffset())

	for _, depth := range targets {
		if err := t.emitBrTableEntry(depth); err != nil {
			return t.fail(err.(*Error))
		}
	}
	if err := t.emitBrTableEntry(defaultTarget); err != nil {
		return t.fail(err.(*Error))
	}
	t.fb.tc.markUnreachable()
	return nil
}

func (t *Translator) OnReturnExpr() error {
	drop, keep := t.returnDropKeep()
	t.emitDropKeep(drop, keep)
	t.emitOpcode(opReturn)
	t.fb.tc.markUnreachable()
	return nil
}

func (t *Translator) OnCallExpr(funcIndex uint32) error {
	envIdx, ok := t.im.funcToEnv(funcIndex)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidFuncIndex, "call: invalid func index %d", funcIndex)
	}
	fn := t.env.Funcs[envIdx]
	sig := t.env.Signatures[fn.SigIndex]
	if err := t.fb.tc.popTypes(sig.ParamTypes); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	if fn.IsHost {
		t.emitOpcode(iOpCallHost)
		t.emitU32(envIdx)
	} else {
		t.emitOpcode(opCall)
		if fn.Offset != kInvalidIstreamOffset {
			t.emitU32(fn.Offset)
		} else {
			definedIdx, _ := t.im.funcModuleIndexToDefined(funcIndex)
			off := t.istreamOffset()
			t.emitU32(kInvalidIstreamOffset)
			t.ffix.add(definedIdx, off)
		}
	}
	t.fb.tc.pushTypes(sig.ResultTypes)
	return nil
}

func (t *Translator) OnCallIndirectExpr(sigIndex uint32, tableIndex uint32) error {
	if t.mod.TableIndex == nil {
		return t.errf(PhaseValidate, KindMissingTable, "call_indirect: module has no table")
	}
	envTableIdx, ok := t.im.tableToEnv(tableIndex)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidTableIndex, "call_indirect: invalid table index %d", tableIndex)
	}
	envSigIdx, ok := t.im.sigToEnv(sigIndex)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidSigIndex, "call_indirect: invalid sig index %d", sigIndex)
	}
	if err := t.fb.tc.pop(I32); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	sig := t.env.Signatures[envSigIdx]
	if err := t.fb.tc.popTypes(sig.ParamTypes); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	t.emitOpcode(opCallIndirect)
	t.emitU32(envTableIdx)
	t.emitU32(envSigIdx)
	t.fb.tc.pushTypes(sig.ResultTypes)
	return nil
}

func (t *Translator) OnDropExpr() error {
	if _, _, err := t.fb.tc.popAny(); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	t.emitOpcode(opDrop)
	return nil
}

func (t *Translator) OnSelectExpr() error {
	if err := t.fb.tc.pop(I32); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	b, ok, err := t.fb.tc.popAny()
	if err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	if ok {
		if err := t.fb.tc.pop(b); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(b)
	}
	t.emitOpcode(opSelect)
	return nil
}

func (t *Translator) OnGetLocalExpr(localIndex uint32) error {
	idx, err := t.translatedLocalIndex(localIndex)
	if err != nil {
		return t.fail(err.(*Error))
	}
	t.fb.tc.push(t.localType(localIndex))
	t.emitOpcode(opLocalGet)
	t.emitU32(idx)
	return nil
}

func (t *Translator) OnSetLocalExpr(localIndex uint32) error {
	idx, err := t.translatedLocalIndex(localIndex)
	if err != nil {
		return t.fail(err.(*Error))
	}
	if err := t.fb.tc.pop(t.localType(localIndex)); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	t.emitOpcode(opLocalSet)
	t.emitU32(idx)
	return nil
}

func (t *Translator) OnTeeLocalExpr(localIndex uint32) error {
	idx, err := t.translatedLocalIndex(localIndex)
	if err != nil {
		return t.fail(err.(*Error))
	}
	typ := t.localType(localIndex)
	if err := t.fb.tc.pop(typ); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	t.fb.tc.push(typ)
	t.emitOpcode(opLocalTee)
	t.emitU32(idx)
	return nil
}

func (t *Translator) OnGetGlobalExpr(globalIndex uint32) error {
	envIdx, ok := t.im.globalToEnv(globalIndex)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidGlobalIndex, "global.get: invalid global index %d", globalIndex)
	}
	t.fb.tc.push(t.env.Globals[envIdx].Type.Value)
	t.emitOpcode(opGlobalGet)
	t.emitU32(envIdx)
	return nil
}

func (t *Translator) OnSetGlobalExpr(globalIndex uint32) error {
	envIdx, ok := t.im.globalToEnv(globalIndex)
	if !ok {
		return t.errf(PhaseValidate, KindInvalidGlobalIndex, "global.set: invalid global index %d", globalIndex)
	}
	g := t.env.Globals[envIdx]
	if !g.Type.Mutable {
		return t.errf(PhaseValidate, KindImmutableGlobalWrite, "global.set: global %d is immutable", globalIndex)
	}
	if err := t.fb.tc.pop(g.Type.Value); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	t.emitOpcode(opGlobalSet)
	t.emitU32(envIdx)
	return nil
}

func (t *Translator) OnConstI32Expr(v int32) error {
	t.fb.tc.push(I32)
	t.emitOpcode(opI32Const)
	t.emitU32(uint32(v))
	return nil
}

func (t *Translator) OnConstI64Expr(v int64) error {
	t.fb.tc.push(I64)
	t.emitOpcode(opI64Const)
	t.emitU64(uint64(v))
	return nil
}

func (t *Translator) OnConstF32Expr(v float32) error {
	t.fb.tc.push(F32)
	t.emitOpcode(opF32Const)
	t.emitU32(uint32(f32Value(v)))
	return nil
}

func (t *Translator) OnConstF64Expr(v float64) error {
	t.fb.tc.push(F64)
	t.emitOpcode(opF64Const)
	t.emitU64(uint64(f64Value(v)))
	return nil
}

// unaryOpType and binaryOpType classify numeric operators' operand/result
// types; every unary op here takes and returns the same type, and every
// binary op here takes two of the same type and returns one (comparisons
// return i32, the rest return their operand type).
func unaryOpType(op wasmOp) ValueType {
	switch {
	case op >= opI32Clz && op <= opI32Popcnt, op == opI32Eqz:
		return I32
	case op >= opI64Clz && op <= opI64Popcnt, op == opI64Eqz:
		return I64
	case op >= opF32Abs && op <= opF32Sqrt:
		return F32
	case op >= opF64Abs && op <= opF64Sqrt:
		return F64
	default:
		return I32
	}
}

func (t *Translator) OnUnaryExpr(op wasmOp) error {
	switch op {
	case opI32Eqz:
		if err := t.fb.tc.pop(I32); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I32)
	case opI64Eqz:
		if err := t.fb.tc.pop(I64); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I32)
	case opI32WrapI64:
		if err := t.fb.tc.pop(I64); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I32)
	case opI64ExtendI32S, opI64ExtendI32U:
		if err := t.fb.tc.pop(I32); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I64)
	case opI32TruncF32S, opI32TruncF32U:
		if err := t.fb.tc.pop(F32); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I32)
	case opI32TruncF64S, opI32TruncF64U:
		if err := t.fb.tc.pop(F64); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I32)
	case opI64TruncF32S, opI64TruncF32U:
		if err := t.fb.tc.pop(F32); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I64)
	case opI64TruncF64S, opI64TruncF64U:
		if err := t.fb.tc.pop(F64); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I64)
	case opF32ConvertI32S, opF32ConvertI32U:
		if err := t.fb.tc.pop(I32); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(F32)
	case opF32ConvertI64S, opF32ConvertI64U:
		if err := t.fb.tc.pop(I64); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(F32)
	case opF32DemoteF64:
		if err := t.fb.tc.pop(F64); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(F32)
	case opF64ConvertI32S, opF64ConvertI32U:
		if err := t.fb.tc.pop(I32); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(F64)
	case opF64ConvertI64S, opF64ConvertI64U:
		if err := t.fb.tc.pop(I64); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(F64)
	case opF64PromoteF32:
		if err := t.fb.tc.pop(F32); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(F64)
	case opI32ReinterpretF32:
		if err := t.fb.tc.pop(F32); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I32)
	case opF32ReinterpretI32:
		if err := t.fb.tc.pop(I32); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(F32)
	case opI64ReinterpretF64:
		if err := t.fb.tc.pop(F64); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I64)
	case opF64ReinterpretI64:
		if err := t.fb.tc.pop(I64); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(F64)
	case opI32Extend8S, opI32Extend16S:
		if err := t.fb.tc.pop(I32); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I32)
	case opI64Extend8S, opI64Extend16S, opI64Extend32S:
		if err := t.fb.tc.pop(I64); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(I64)
	default:
		ty := unaryOpType(op)
		if err := t.fb.tc.pop(ty); err != nil {
			return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
		}
		t.fb.tc.push(ty)
	}
	t.emitOpcode(op)
	return nil
}

func isComparisonOp(op wasmOp) bool {
	switch {
	case op >= opI32Eq && op <= opI32GeU:
		return true
	case op >= opI64Eq && op <= opI64GeU:
		return true
	case op >= opF32Eq && op <= opF32Ge:
		return true
	case op >= opF64Eq && op <= opF64Ge:
		return true
	}
	return false
}

func binaryOperandType(op wasmOp) ValueType {
	switch {
	case op >= opI32Eq && op <= opI32GeU, op >= opI32Add && op <= opI32Rotr:
		return I32
	case op >= opI64Eq && op <= opI64GeU, op >= opI64Add && op <= opI64Rotr:
		return I64
	case op >= opF32Eq && op <= opF32Ge, op >= opF32Add && op <= opF32Copysign:
		return F32
	case op >= opF64Eq && op <= opF64Ge, op >= opF64Add && op <= opF64Copysign:
		return F64
	}
	return I32
}

func (t *Translator) OnBinaryExpr(op wasmOp) error {
	ty := binaryOperandType(op)
	if err := t.fb.tc.pop(ty); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	if err := t.fb.tc.pop(ty); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	if isComparisonOp(op) {
		t.fb.tc.push(I32)
	} else {
		t.fb.tc.push(ty)
	}
	t.emitOpcode(op)
	return nil
}

// naturalAlignmentLog2 returns the largest alignment a load/store of op's
// access width may declare.
func naturalAlignmentLog2(op wasmOp) uint32 {
	switch op {
	case opI32Load, opI64Load32S, opI64Load32U, opI32Store, opI64Store32, opF32Load, opF32Store:
		return 2
	case opI64Load, opI64Store, opF64Load, opF64Store:
		return 3
	case opI32Load16S, opI32Load16U, opI64Load16S, opI64Load16U, opI32Store16, opI64Store16:
		return 1
	default: // 8-bit loads/stores
		return 0
	}
}

func loadResultType(op wasmOp) ValueType {
	switch op {
	case opI64Load, opI64Load8S, opI64Load8U, opI64Load16S, opI64Load16U, opI64Load32S, opI64Load32U:
		return I64
	case opF32Load:
		return F32
	case opF64Load:
		return F64
	default:
		return I32
	}
}

func storeValueType(op wasmOp) ValueType {
	switch op {
	case opI64Store, opI64Store8, opI64Store16, opI64Store32:
		return I64
	case opF32Store:
		return F32
	case opF64Store:
		return F64
	default:
		return I32
	}
}

func (t *Translator) checkMemoryPresent() error {
	if t.mod.MemoryIndex == nil {
		return t.errf(PhaseValidate, KindMissingMemory, "instruction requires a memory, but module has none")
	}
	return nil
}

func (t *Translator) OnLoadExpr(op wasmOp, alignmentLog2 uint32, offset uint32) error {
	if err := t.checkMemoryPresent(); err != nil {
		return err
	}
	if alignmentLog2 > naturalAlignmentLog2(op) {
		return t.errf(PhaseValidate, KindAlignmentTooLarge, "alignment 2^%d exceeds natural alignment for this access", alignmentLog2)
	}
	if err := t.fb.tc.pop(I32); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	t.fb.tc.push(loadResultType(op))
	t.emitOpcode(op)
	t.emitU32(*t.mod.MemoryIndex)
	t.emitU32(offset)
	return nil
}

func (t *Translator) OnStoreExpr(op wasmOp, alignmentLog2 uint32, offset uint32) error {
	if err := t.checkMemoryPresent(); err != nil {
		return err
	}
	if alignmentLog2 > naturalAlignmentLog2(op) {
		return t.errf(PhaseValidate, KindAlignmentTooLarge, "alignment 2^%d exceeds natural alignment for this access", alignmentLog2)
	}
	if err := t.fb.tc.pop(storeValueType(op)); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	if err := t.fb.tc.pop(I32); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	t.emitOpcode(op)
	t.emitU32(*t.mod.MemoryIndex)
	t.emitU32(offset)
	return nil
}

func (t *Translator) OnCurrentMemoryExpr() error {
	if err := t.checkMemoryPresent(); err != nil {
		return err
	}
	t.fb.tc.push(I32)
	t.emitOpcode(opMemorySize)
	t.emitU32(*t.mod.MemoryIndex)
	return nil
}

func (t *Translator) OnGrowMemoryExpr() error {
	if err := t.checkMemoryPresent(); err != nil {
		return err
	}
	if err := t.fb.tc.pop(I32); err != nil {
		return t.errf(PhaseTypecheck, KindTypeMismatch, "%s", err)
	}
	t.fb.tc.push(I32)
	t.emitOpcode(opMemoryGrow)
	t.emitU32(*t.mod.MemoryIndex)
	return nil
}
