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
	"fmt"
	"strings"
)

func readU32At(data []byte, off uint32) uint32 {
	return binary.LittleEndian.Uint32(data[off : off+4])
}

func readU64At(data []byte, off uint32) uint64 {
	return binary.LittleEndian.Uint64(data[off : off+8])
}

// Disassemble renders mod's istream as a readable instruction listing, one
// line per instruction, with offsets relative to the istream's start so
// two dumps of the same module are comparable regardless of what else
// shares the Environment.
func Disassemble(env *Environment, mod *Module) string {
	var b strings.Builder
	pc := mod.IstreamStart
	for pc < mod.IstreamEnd {
		rel := pc - mod.IstreamStart
		op := wasmOp(env.Istream[pc])
		pc++
		fmt.Fprintf(&b, "%6d: %s", rel, op)

		switch {
		case op == iOpBr, op == iOpBrUnless, op == opCall:
			target := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " -> %d", target-mod.IstreamStart)
		case op == iOpBrTable:
			n := readU32At(env.Istream, pc)
			pc += 4
			tableOffset := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " targets=%d table=%d", n, tableOffset-mod.IstreamStart)
		case op == iOpCallHost:
			idx := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " host#%d", idx)
		case op == opCallIndirect:
			tableIdx := readU32At(env.Istream, pc)
			pc += 4
			sigIdx := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " table#%d sig#%d", tableIdx, sigIdx)
		case op == iOpDropKeep:
			drop := readU32At(env.Istream, pc)
			pc += 4
			keep := env.Istream[pc]
			pc++
			fmt.Fprintf(&b, " drop=%d keep=%d", drop, keep)
		case op == iOpData:
			length := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " len=%d", length)
			pc += length
		case op == iOpAlloca:
			n := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " locals=%d", n)
		case op == opLocalGet, op == opLocalSet, op == opLocalTee, op == opGlobalGet, op == opGlobalSet:
			idx := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " $%d", idx)
		case op == opI32Const:
			v := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " %d", int32(v))
		case op == opF32Const:
			v := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " 0x%08x", v)
		case op == opI64Const:
			v := readU64At(env.Istream, pc)
			pc += 8
			fmt.Fprintf(&b, " %d", int64(v))
		case op == opF64Const:
			v := readU64At(env.Istream, pc)
			pc += 8
			fmt.Fprintf(&b, " 0x%016x", v)
		case op == opMemorySize, op == opMemoryGrow:
			idx := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " $%d", idx)
		case isLoadOp(op), isStoreOp(op):
			memIdx := readU32At(env.Istream, pc)
			pc += 4
			offset := readU32At(env.Istream, pc)
			pc += 4
			fmt.Fprintf(&b, " $%d offset=%d", memIdx, offset)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
