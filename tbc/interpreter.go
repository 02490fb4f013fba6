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
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	errUnreachableExecuted      = errors.New("unreachable instruction executed")
	errCallStackExhausted       = errors.New("call stack exhausted")
	errIndirectCallTypeMismatch = errors.New("indirect call signature mismatch")
	errUninitializedElement     = errors.New("call_indirect through uninitialized table element")
	errNotAFunction             = errors.New("export is not a function")
)

// maxCallDepth bounds the interpreter's own call stack, independent of any
// host-side goroutine stack, mirroring the translator's resource limits
// (§ Config) for the execution side.
const maxCallDepth = 1000

// callFrame is the interpreter's record of one active defined-function
// invocation: where to resume the caller, the caller's frame base to
// restore on return, and which function this frame belongs to (needed
// only to look up its result arity when it returns).
type callFrame struct {
	returnPC        uint32
	callerFrameBase int
	envFuncIndex    uint32
}

// Interpreter executes one Environment's istream. It is intentionally
// thin: every branch and call target was already resolved at translation
// time, so the dispatch loop never re-derives control flow, only replays
// it (§4 "a simple interpreter can execute without re-walking the
// WebAssembly instruction tree").
type Interpreter struct {
	env   *Environment
	stack *operandStack

	frames    []callFrame
	frameBase int
	pc        uint32

	// funcByOffset maps a defined function's istream entry offset back to
	// its env-global index, so Call (which only carries a target offset,
	// matching the istream encoding in opcodes.go) can still recover the
	// callee's signature to size its new frame.
	funcByOffset map[uint32]uint32
}

// NewInterpreter returns an Interpreter ready to invoke exported functions
// of modules translated into env.
func NewInterpreter(env *Environment) *Interpreter {
	in := &Interpreter{
		env:          env,
		stack:        newOperandStack(),
		funcByOffset: make(map[uint32]uint32),
	}
	for i, fn := range env.Funcs {
		if !fn.IsHost {
			in.funcByOffset[fn.Offset] = uint32(i)
		}
	}
	return in
}

func (in *Interpreter) fetchByte() byte {
	b := in.env.Istream[in.pc]
	in.pc++
	return b
}

func (in *Interpreter) fetchU32() uint32 {
	v := binary.LittleEndian.Uint32(in.env.Istream[in.pc : in.pc+4])
	in.pc += 4
	return v
}

func (in *Interpreter) fetchU64() uint64 {
	v := binary.LittleEndian.Uint64(in.env.Istream[in.pc : in.pc+8])
	in.pc += 8
	return v
}

// RunStart executes mod's start function, if it declares one.
func (in *Interpreter) RunStart(mod *Module) error {
	if !mod.HasStart {
		return nil
	}
	_, err := in.invokeEnvFunc(mod.StartFuncIndex, nil)
	return err
}

// Invoke calls mod's export named name with args, converting between Go
// values and runtime bit patterns according to the function's signature.
func (in *Interpreter) Invoke(mod *Module, name string, args []any) ([]any, error) {
	export, ok := mod.FindExport(name)
	if !ok {
		return nil, fmt.Errorf("no export named %q", name)
	}
	if export.Kind != ExternalFunc {
		return nil, errNotAFunction
	}
	return in.invokeEnvFunc(export.Index, args)
}

func (in *Interpreter) invokeEnvFunc(envFuncIndex uint32, args []any) ([]any, error) {
	fn := in.env.Funcs[envFuncIndex]
	sig := in.env.Signatures[fn.SigIndex]
	if len(args) != len(sig.ParamTypes) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(sig.ParamTypes), len(args))
	}
	if fn.IsHost {
		return fn.HostCallback(args)
	}

	base := in.frameBase
	baseline := len(in.frames)
	for i, a := range args {
		v, err := anyToValue(a, sig.ParamTypes[i])
		if err != nil {
			return nil, err
		}
		in.stack.push(v)
	}
	in.frameBase = in.stack.size() - len(args)
	in.frames = append(in.frames, callFrame{callerFrameBase: base, envFuncIndex: envFuncIndex})
	in.pc = fn.Offset

	if err := in.run(baseline); err != nil {
		return nil, err
	}

	results := make([]any, len(sig.ResultTypes))
	n := in.stack.size()
	for i, t := range sig.ResultTypes {
		results[i] = toAny(in.stack.at(n-len(sig.ResultTypes)+i), t)
	}
	in.stack.truncate(n - len(sig.ResultTypes))
	return results, nil
}

// run dispatches istream instructions until the call stack unwinds back
// to baseline frames (i.e. the invocation that pushed the current
// outermost frame has returned).
func (in *Interpreter) run(baseline int) error {
	for {
		op := wasmOp(in.fetchByte())
		switch {
		case op == opUnreachable:
			return errUnreachableExecuted
		case op == opNop:
		case op == iOpBr:
			in.pc = in.fetchU32()
		case op == iOpBrUnless:
			target := in.fetchU32()
			if in.stack.pop().i32() == 0 {
				in.pc = target
			}
		case op == iOpBrTable:
			in.execBrTable()
		case op == iOpDropKeep:
			drop := in.fetchU32()
			keep := uint32(in.fetchByte())
			in.stack.dropKeep(drop, keep)
		case op == iOpData:
			in.pc += in.fetchU32()
		case op == iOpAlloca:
			n := in.fetchU32()
			for i := uint32(0); i < n; i++ {
				in.stack.push(0)
			}
		case op == opReturn:
			if err := in.execReturn(); err != nil {
				return err
			}
			if len(in.frames) == baseline {
				return nil
			}
		case op == opCall:
			if err := in.execCall(in.fetchU32()); err != nil {
				return err
			}
		case op == iOpCallHost:
			if err := in.execCallHost(in.fetchU32()); err != nil {
				return err
			}
		case op == opCallIndirect:
			if err := in.execCallIndirect(in.fetchU32(), in.fetchU32()); err != nil {
				return err
			}
		case op == opDrop:
			in.stack.pop()
		case op == opSelect:
			cond := in.stack.pop().i32()
			b := in.stack.pop()
			a := in.stack.pop()
			if cond != 0 {
				in.stack.push(a)
			} else {
				in.stack.push(b)
			}
		case op == opLocalGet:
			in.stack.push(in.stack.at(in.frameBase + int(in.fetchU32())))
		case op == opLocalSet:
			in.stack.set(in.frameBase+int(in.fetchU32()), in.stack.pop())
		case op == opLocalTee:
			in.stack.set(in.frameBase+int(in.fetchU32()), in.stack.top())
		case op == opGlobalGet:
			in.stack.push(in.env.Globals[in.fetchU32()].Value)
		case op == opGlobalSet:
			in.env.Globals[in.fetchU32()].Value = in.stack.pop()
		case op == opI32Const:
			in.stack.push(runtimeValue(in.fetchU32()))
		case op == opI64Const:
			in.stack.push(runtimeValue(in.fetchU64()))
		case op == opF32Const:
			in.stack.push(runtimeValue(in.fetchU32()))
		case op == opF64Const:
			in.stack.push(runtimeValue(in.fetchU64()))
		case op == opMemorySize:
			mem := in.env.Memories[in.fetchU32()]
			in.stack.push(i32Value(mem.SizePages()))
		case op == opMemoryGrow:
			mem := in.env.Memories[in.fetchU32()]
			n := in.stack.pop().i32()
			in.stack.push(i32Value(mem.Grow(n)))
		case isLoadOp(op):
			if err := in.execLoad(op); err != nil {
				return err
			}
		case isStoreOp(op):
			if err := in.execStore(op); err != nil {
				return err
			}
		case isUnaryNumericOp(op):
			if err := in.execUnary(op); err != nil {
				return err
			}
		case isBinaryNumericOp(op):
			if err := in.execBinary(op); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported istream opcode 0x%x", byte(op))
		}
	}
}

func (in *Interpreter) execBrTable() {
	n := in.fetchU32()
	tableOffset := in.fetchU32()
	scrutinee := in.stack.pop().i32()
	idx := n
	if scrutinee >= 0 && uint32(scrutinee) < n {
		idx = uint32(scrutinee)
	}
	entry := tableOffset + idx*tableEntrySize
	target := binary.LittleEndian.Uint32(in.env.Istream[entry : entry+4])
	drop := binary.LittleEndian.Uint32(in.env.Istream[entry+4 : entry+8])
	keep := in.env.Istream[entry+8]
	in.stack.dropKeep(drop, uint32(keep))
	in.pc = target
}

// execReturn collapses the current frame: the bytecode already emitted a
// DropKeep leaving exactly the function's result values on top of the
// stack, so this only needs to know how many of those there are (from the
// frame's own function) to preserve them across the frame's locals.
func (in *Interpreter) execReturn() error {
	top := in.frames[len(in.frames)-1]
	fn := in.env.Funcs[top.envFuncIndex]
	sig := in.env.Signatures[fn.SigIndex]
	keep := len(sig.ResultTypes)
	results := in.stack.topN(keep)
	in.stack.truncate(in.frameBase)
	for _, r := range results {
		in.stack.push(r)
	}
	in.frames = in.frames[:len(in.frames)-1]
	in.frameBase = top.callerFrameBase
	if len(in.frames) > 0 {
		in.pc = top.returnPC
	}
	return nil
}

func (in *Interpreter) execCall(target uint32) error {
	envIdx, ok := in.funcByOffset[target]
	if !ok {
		return fmt.Errorf("call target %d does not name a function entry", target)
	}
	return in.enterCall(envIdx)
}

func (in *Interpreter) enterCall(envIdx uint32) error {
	if len(in.frames) >= maxCallDepth {
		return errCallStackExhausted
	}
	fn := in.env.Funcs[envIdx]
	sig := in.env.Signatures[fn.SigIndex]
	newBase := in.stack.size() - len(sig.ParamTypes)
	in.frames = append(in.frames, callFrame{returnPC: in.pc, callerFrameBase: in.frameBase, envFuncIndex: envIdx})
	in.frameBase = newBase
	in.pc = fn.Offset
	return nil
}

func (in *Interpreter) execCallHost(envIdx uint32) error {
	fn := in.env.Funcs[envIdx]
	sig := in.env.Signatures[fn.SigIndex]
	return in.callHost(fn, sig)
}

func (in *Interpreter) callHost(fn *Func, sig Signature) error {
	n := in.stack.size()
	argCount := len(sig.ParamTypes)
	args := make([]any, argCount)
	for i, t := range sig.ParamTypes {
		args[i] = toAny(in.stack.at(n-argCount+i), t)
	}
	in.stack.truncate(n - argCount)
	results, err := fn.HostCallback(args)
	if err != nil {
		return err
	}
	if len(results) != len(sig.ResultTypes) {
		return fmt.Errorf("host function %q.%q returned %d values, signature wants %d", fn.ModuleName, fn.FieldName, len(results), len(sig.ResultTypes))
	}
	for i, t := range sig.ResultTypes {
		v, err := anyToValue(results[i], t)
		if err != nil {
			return err
		}
		in.stack.push(v)
	}
	return nil
}

func (in *Interpreter) execCallIndirect(envTableIdx, envSigIdx uint32) error {
	idx := in.stack.pop().i32()
	table := in.env.Tables[envTableIdx]
	funcEnvIdx, err := table.Get(idx)
	if err != nil {
		return err
	}
	if funcEnvIdx == NullReference {
		return errUninitializedElement
	}
	fn := in.env.Funcs[funcEnvIdx]
	want := in.env.Signatures[envSigIdx]
	have := in.env.Signatures[fn.SigIndex]
	if !want.Equal(&have) {
		return errIndirectCallTypeMismatch
	}
	if fn.IsHost {
		return in.callHost(fn, have)
	}
	return in.enterCall(uint32(funcEnvIdx))
}

func (in *Interpreter) execLoad(op wasmOp) error {
	memIdx := in.fetchU32()
	offset := in.fetchU32()
	addr := uint32(in.stack.pop().i32())
	mem := in.env.Memories[memIdx]

	switch op {
	case opI32Load:
		b, err := mem.Load(offset, addr, 4)
		if err != nil {
			return err
		}
		in.stack.push(runtimeValue(binary.LittleEndian.Uint32(b)))
	case opI64Load:
		b, err := mem.Load(offset, addr, 8)
		if err != nil {
			return err
		}
		in.stack.push(runtimeValue(binary.LittleEndian.Uint64(b)))
	case opF32Load:
		b, err := mem.Load(offset, addr, 4)
		if err != nil {
			return err
		}
		in.stack.push(runtimeValue(binary.LittleEndian.Uint32(b)))
	case opF64Load:
		b, err := mem.Load(offset, addr, 8)
		if err != nil {
			return err
		}
		in.stack.push(runtimeValue(binary.LittleEndian.Uint64(b)))
	case opI32Load8S:
		b, err := mem.Load(offset, addr, 1)
		if err != nil {
			return err
		}
		in.stack.push(i32Value(int32(int8(b[0]))))
	case opI32Load8U:
		b, err := mem.Load(offset, addr, 1)
		if err != nil {
			return err
		}
		in.stack.push(i32Value(int32(b[0])))
	case opI32Load16S:
		b, err := mem.Load(offset, addr, 2)
		if err != nil {
			return err
		}
		in.stack.push(i32Value(int32(int16(binary.LittleEndian.Uint16(b)))))
	case opI32Load16U:
		b, err := mem.Load(offset, addr, 2)
		if err != nil {
			return err
		}
		in.stack.push(i32Value(int32(binary.LittleEndian.Uint16(b))))
	case opI64Load8S:
		b, err := mem.Load(offset, addr, 1)
		if err != nil {
			return err
		}
		in.stack.push(i64Value(int64(int8(b[0]))))
	case opI64Load8U:
		b, err := mem.Load(offset, addr, 1)
		if err != nil {
			return err
		}
		in.stack.push(i64Value(int64(b[0])))
	case opI64Load16S:
		b, err := mem.Load(offset, addr, 2)
		if err != nil {
			return err
		}
		in.stack.push(i64Value(int64(int16(binary.LittleEndian.Uint16(b)))))
	case opI64Load16U:
		b, err := mem.Load(offset, addr, 2)
		if err != nil {
			return err
		}
		in.stack.push(i64Value(int64(binary.LittleEndian.Uint16(b))))
	case opI64Load32S:
		b, err := mem.Load(offset, addr, 4)
		if err != nil {
			return err
		}
		in.stack.push(i64Value(int64(int32(binary.LittleEndian.Uint32(b)))))
	case opI64Load32U:
		b, err := mem.Load(offset, addr, 4)
		if err != nil {
			return err
		}
		in.stack.push(i64Value(int64(binary.LittleEndian.Uint32(b))))
	}
	return nil
}

func (in *Interpreter) execStore(op wasmOp) error {
	memIdx := in.fetchU32()
	offset := in.fetchU32()

	var raw [8]byte
	var width int
	value := in.stack.pop()
	switch op {
	case opI32Store, opI32Store8, opI32Store16:
		binary.LittleEndian.PutUint32(raw[:4], uint32(value.i32()))
	case opI64Store, opI64Store8, opI64Store16, opI64Store32:
		binary.LittleEndian.PutUint64(raw[:8], uint64(value.i64()))
	case opF32Store:
		binary.LittleEndian.PutUint32(raw[:4], uint32(value))
	case opF64Store:
		binary.LittleEndian.PutUint64(raw[:8], uint64(value))
	}
	switch op {
	case opI32Store8, opI64Store8:
		width = 1
	case opI32Store16, opI64Store16:
		width = 2
	case opI32Store, opF32Store, opI64Store32:
		width = 4
	case opI64Store, opF64Store:
		width = 8
	}

	addr := uint32(in.stack.pop().i32())
	mem := in.env.Memories[memIdx]
	return mem.Store(offset, addr, raw[:width])
}

func (in *Interpreter) execUnary(op wasmOp) error {
	switch op {
	case opI32Eqz:
		v := in.stack.pop().i32()
		in.stack.push(i32Value(boolToI32(v == 0)))
	case opI64Eqz:
		v := in.stack.pop().i64()
		in.stack.push(i32Value(boolToI32(v == 0)))
	case opI32Clz:
		in.stack.push(i32Value(clz32(in.stack.pop().i32())))
	case opI32Ctz:
		in.stack.push(i32Value(ctz32(in.stack.pop().i32())))
	case opI32Popcnt:
		in.stack.push(i32Value(popcnt32(in.stack.pop().i32())))
	case opI64Clz:
		in.stack.push(i64Value(clz64(in.stack.pop().i64())))
	case opI64Ctz:
		in.stack.push(i64Value(ctz64(in.stack.pop().i64())))
	case opI64Popcnt:
		in.stack.push(i64Value(popcnt64(in.stack.pop().i64())))
	case opF32Abs:
		in.stack.push(f32Value(absF(in.stack.pop().f32())))
	case opF32Neg:
		in.stack.push(f32Value(-in.stack.pop().f32()))
	case opF32Ceil:
		in.stack.push(f32Value(ceilF(in.stack.pop().f32())))
	case opF32Floor:
		in.stack.push(f32Value(floorF(in.stack.pop().f32())))
	case opF32Trunc:
		in.stack.push(f32Value(truncF(in.stack.pop().f32())))
	case opF32Nearest:
		in.stack.push(f32Value(nearestF(in.stack.pop().f32())))
	case opF32Sqrt:
		in.stack.push(f32Value(sqrtF(in.stack.pop().f32())))
	case opF64Abs:
		in.stack.push(f64Value(absF(in.stack.pop().f64())))
	case opF64Neg:
		in.stack.push(f64Value(-in.stack.pop().f64()))
	case opF64Ceil:
		in.stack.push(f64Value(ceilF(in.stack.pop().f64())))
	case opF64Floor:
		in.stack.push(f64Value(floorF(in.stack.pop().f64())))
	case opF64Trunc:
		in.stack.push(f64Value(truncF(in.stack.pop().f64())))
	case opF64Nearest:
		in.stack.push(f64Value(nearestF(in.stack.pop().f64())))
	case opF64Sqrt:
		in.stack.push(f64Value(sqrtF(in.stack.pop().f64())))
	case opI32WrapI64:
		in.stack.push(i32Value(int32(in.stack.pop().i64())))
	case opI32TruncF32S:
		v, err := truncF32SToI32(in.stack.pop().f32())
		if err != nil {
			return err
		}
		in.stack.push(i32Value(v))
	case opI32TruncF32U:
		v, err := truncF32UToI32(in.stack.pop().f32())
		if err != nil {
			return err
		}
		in.stack.push(i32Value(v))
	case opI32TruncF64S:
		v, err := truncF64SToI32(in.stack.pop().f64())
		if err != nil {
			return err
		}
		in.stack.push(i32Value(v))
	case opI32TruncF64U:
		v, err := truncF64UToI32(in.stack.pop().f64())
		if err != nil {
			return err
		}
		in.stack.push(i32Value(v))
	case opI64ExtendI32S:
		in.stack.push(i64Value(int64(in.stack.pop().i32())))
	case opI64ExtendI32U:
		in.stack.push(i64Value(int64(uint32(in.stack.pop().i32()))))
	case opI64TruncF32S:
		v, err := truncF32SToI64(in.stack.pop().f32())
		if err != nil {
			return err
		}
		in.stack.push(i64Value(v))
	case opI64TruncF32U:
		v, err := truncF32UToI64(in.stack.pop().f32())
		if err != nil {
			return err
		}
		in.stack.push(i64Value(v))
	case opI64TruncF64S:
		v, err := truncF64SToI64(in.stack.pop().f64())
		if err != nil {
			return err
		}
		in.stack.push(i64Value(v))
	case opI64TruncF64U:
		v, err := truncF64UToI64(in.stack.pop().f64())
		if err != nil {
			return err
		}
		in.stack.push(i64Value(v))
	case opF32ConvertI32S:
		in.stack.push(f32Value(float32(in.stack.pop().i32())))
	case opF32ConvertI32U:
		in.stack.push(f32Value(float32(uint32(in.stack.pop().i32()))))
	case opF32ConvertI64S:
		in.stack.push(f32Value(float32(in.stack.pop().i64())))
	case opF32ConvertI64U:
		in.stack.push(f32Value(float32(uint64(in.stack.pop().i64()))))
	case opF32DemoteF64:
		in.stack.push(f32Value(float32(in.stack.pop().f64())))
	case opF64ConvertI32S:
		in.stack.push(f64Value(float64(in.stack.pop().i32())))
	case opF64ConvertI32U:
		in.stack.push(f64Value(float64(uint32(in.stack.pop().i32()))))
	case opF64ConvertI64S:
		in.stack.push(f64Value(float64(in.stack.pop().i64())))
	case opF64ConvertI64U:
		in.stack.push(f64Value(float64(uint64(in.stack.pop().i64()))))
	case opF64PromoteF32:
		in.stack.push(f64Value(float64(in.stack.pop().f32())))
	case opI32ReinterpretF32:
		in.stack.push(runtimeValue(uint32(in.stack.pop())))
	case opI64ReinterpretF64:
		in.stack.push(runtimeValue(in.stack.pop()))
	case opF32ReinterpretI32:
		in.stack.push(runtimeValue(uint32(in.stack.pop())))
	case opF64ReinterpretI64:
		in.stack.push(runtimeValue(in.stack.pop()))
	case opI32Extend8S:
		in.stack.push(i32Value(int32(int8(in.stack.pop().i32()))))
	case opI32Extend16S:
		in.stack.push(i32Value(int32(int16(in.stack.pop().i32()))))
	case opI64Extend8S:
		in.stack.push(i64Value(int64(int8(in.stack.pop().i64()))))
	case opI64Extend16S:
		in.stack.push(i64Value(int64(int16(in.stack.pop().i64()))))
	case opI64Extend32S:
		in.stack.push(i64Value(int64(int32(in.stack.pop().i64()))))
	default:
		return fmt.Errorf("unsupported unary opcode 0x%x", byte(op))
	}
	return nil
}

func boolToI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (in *Interpreter) execBinary(op wasmOp) error {
	switch op {
	case opI32Eq:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(boolToI32(a == b)))
	case opI32Ne:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(boolToI32(a != b)))
	case opI32LtS:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(boolToI32(a < b)))
	case opI32LtU:
		b, a := uint32(in.stack.pop().i32()), uint32(in.stack.pop().i32())
		in.stack.push(i32Value(boolToI32(a < b)))
	case opI32GtS:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(boolToI32(a > b)))
	case opI32GtU:
		b, a := uint32(in.stack.pop().i32()), uint32(in.stack.pop().i32())
		in.stack.push(i32Value(boolToI32(a > b)))
	case opI32LeS:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(boolToI32(a <= b)))
	case opI32LeU:
		b, a := uint32(in.stack.pop().i32()), uint32(in.stack.pop().i32())
		in.stack.push(i32Value(boolToI32(a <= b)))
	case opI32GeS:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(boolToI32(a >= b)))
	case opI32GeU:
		b, a := uint32(in.stack.pop().i32()), uint32(in.stack.pop().i32())
		in.stack.push(i32Value(boolToI32(a >= b)))

	case opI64Eq:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i32Value(boolToI32(a == b)))
	case opI64Ne:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i32Value(boolToI32(a != b)))
	case opI64LtS:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i32Value(boolToI32(a < b)))
	case opI64LtU:
		b, a := uint64(in.stack.pop().i64()), uint64(in.stack.pop().i64())
		in.stack.push(i32Value(boolToI32(a < b)))
	case opI64GtS:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i32Value(boolToI32(a > b)))
	case opI64GtU:
		b, a := uint64(in.stack.pop().i64()), uint64(in.stack.pop().i64())
		in.stack.push(i32Value(boolToI32(a > b)))
	case opI64LeS:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i32Value(boolToI32(a <= b)))
	case opI64LeU:
		b, a := uint64(in.stack.pop().i64()), uint64(in.stack.pop().i64())
		in.stack.push(i32Value(boolToI32(a <= b)))
	case opI64GeS:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i32Value(boolToI32(a >= b)))
	case opI64GeU:
		b, a := uint64(in.stack.pop().i64()), uint64(in.stack.pop().i64())
		in.stack.push(i32Value(boolToI32(a >= b)))

	case opF32Eq:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(i32Value(boolToI32(a == b)))
	case opF32Ne:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(i32Value(boolToI32(a != b)))
	case opF32Lt:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(i32Value(boolToI32(a < b)))
	case opF32Gt:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(i32Value(boolToI32(a > b)))
	case opF32Le:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(i32Value(boolToI32(a <= b)))
	case opF32Ge:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(i32Value(boolToI32(a >= b)))

	case opF64Eq:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(i32Value(boolToI32(a == b)))
	case opF64Ne:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(i32Value(boolToI32(a != b)))
	case opF64Lt:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(i32Value(boolToI32(a < b)))
	case opF64Gt:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(i32Value(boolToI32(a > b)))
	case opF64Le:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(i32Value(boolToI32(a <= b)))
	case opF64Ge:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(i32Value(boolToI32(a >= b)))

	case opI32Add:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(addI(a, b)))
	case opI32Sub:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(subI(a, b)))
	case opI32Mul:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(mulI(a, b)))
	case opI32DivS:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		v, err := divS32(a, b)
		if err != nil {
			return err
		}
		in.stack.push(i32Value(v))
	case opI32DivU:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		v, err := divU32(a, b)
		if err != nil {
			return err
		}
		in.stack.push(i32Value(v))
	case opI32RemS:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		v, err := remS32(a, b)
		if err != nil {
			return err
		}
		in.stack.push(i32Value(v))
	case opI32RemU:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		v, err := remU32(a, b)
		if err != nil {
			return err
		}
		in.stack.push(i32Value(v))
	case opI32And:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(andI(a, b)))
	case opI32Or:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(orI(a, b)))
	case opI32Xor:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(xorI(a, b)))
	case opI32Shl:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(shl32(a, b)))
	case opI32ShrS:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(shrS32(a, b)))
	case opI32ShrU:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(shrU32(a, b)))
	case opI32Rotl:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(rotl32(a, b)))
	case opI32Rotr:
		b, a := in.stack.pop().i32(), in.stack.pop().i32()
		in.stack.push(i32Value(rotr32(a, b)))

	case opI64Add:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(addI(a, b)))
	case opI64Sub:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(subI(a, b)))
	case opI64Mul:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(mulI(a, b)))
	case opI64DivS:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		v, err := divS64(a, b)
		if err != nil {
			return err
		}
		in.stack.push(i64Value(v))
	case opI64DivU:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		v, err := divU64(a, b)
		if err != nil {
			return err
		}
		in.stack.push(i64Value(v))
	case opI64RemS:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		v, err := remS64(a, b)
		if err != nil {
			return err
		}
		in.stack.push(i64Value(v))
	case opI64RemU:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		v, err := remU64(a, b)
		if err != nil {
			return err
		}
		in.stack.push(i64Value(v))
	case opI64And:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(andI(a, b)))
	case opI64Or:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(orI(a, b)))
	case opI64Xor:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(xorI(a, b)))
	case opI64Shl:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(shl64(a, b)))
	case opI64ShrS:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(shrS64(a, b)))
	case opI64ShrU:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(shrU64(a, b)))
	case opI64Rotl:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(rotl64(a, b)))
	case opI64Rotr:
		b, a := in.stack.pop().i64(), in.stack.pop().i64()
		in.stack.push(i64Value(rotr64(a, b)))

	case opF32Add:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(f32Value(addF(a, b)))
	case opF32Sub:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(f32Value(subF(a, b)))
	case opF32Mul:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(f32Value(mulF(a, b)))
	case opF32Div:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(f32Value(divF(a, b)))
	case opF32Min:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(f32Value(minF(a, b)))
	case opF32Max:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(f32Value(maxF(a, b)))
	case opF32Copysign:
		b, a := in.stack.pop().f32(), in.stack.pop().f32()
		in.stack.push(f32Value(copysignF(a, b)))

	case opF64Add:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(f64Value(addF(a, b)))
	case opF64Sub:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(f64Value(subF(a, b)))
	case opF64Mul:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(f64Value(mulF(a, b)))
	case opF64Div:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(f64Value(divF(a, b)))
	case opF64Min:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(f64Value(minF(a, b)))
	case opF64Max:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(f64Value(maxF(a, b)))
	case opF64Copysign:
		b, a := in.stack.pop().f64(), in.stack.pop().f64()
		in.stack.push(f64Value(copysignF(a, b)))

	default:
		return fmt.Errorf("unsupported binary opcode 0x%x", byte(op))
	}
	return nil
}

// toAny converts a runtime bit pattern into the Go value a host callback
// or an Invoke caller expects for value type t.
func toAny(v runtimeValue, t ValueType) any {
	switch t {
	case I32:
		return v.i32()
	case I64:
		return v.i64()
	case F32:
		return v.f32()
	case F64:
		return v.f64()
	default:
		return nil
	}
}

// anyToValue converts a Go value supplied by an Invoke caller or returned
// by a host callback into the runtime bit pattern value type t expects.
func anyToValue(v any, t ValueType) (runtimeValue, error) {
	switch t {
	case I32:
		i, ok := v.(int32)
		if !ok {
			return 0, fmt.Errorf("expected int32 for i32, got %T", v)
		}
		return i32Value(i), nil
	case I64:
		i, ok := v.(int64)
		if !ok {
			return 0, fmt.Errorf("expected int64 for i64, got %T", v)
		}
		return i64Value(i), nil
	case F32:
		f, ok := v.(float32)
		if !ok {
			return 0, fmt.Errorf("expected float32 for f32, got %T", v)
		}
		return f32Value(f), nil
	case F64:
		f, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("expected float64 for f64, got %T", v)
		}
		return f64Value(f), nil
	default:
		return 0, fmt.Errorf("unknown value type %v", t)
	}
}
