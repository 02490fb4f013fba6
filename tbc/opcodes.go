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

// wasmOp is a WebAssembly MVP opcode byte, as it appears in a function
// body's instruction stream before translation.
type wasmOp byte

const (
	opUnreachable  wasmOp = 0x00
	opNop          wasmOp = 0x01
	opBlock        wasmOp = 0x02
	opLoop         wasmOp = 0x03
	opIf           wasmOp = 0x04
	opElse         wasmOp = 0x05
	opEnd          wasmOp = 0x0B
	opBr           wasmOp = 0x0C
	opBrIf         wasmOp = 0x0D
	opBrTable      wasmOp = 0x0E
	opReturn       wasmOp = 0x0F
	opCall         wasmOp = 0x10
	opCallIndirect wasmOp = 0x11

	opDrop   wasmOp = 0x1A
	opSelect wasmOp = 0x1B

	opLocalGet  wasmOp = 0x20
	opLocalSet  wasmOp = 0x21
	opLocalTee  wasmOp = 0x22
	opGlobalGet wasmOp = 0x23
	opGlobalSet wasmOp = 0x24

	opI32Load    wasmOp = 0x28
	opI64Load    wasmOp = 0x29
	opF32Load    wasmOp = 0x2A
	opF64Load    wasmOp = 0x2B
	opI32Load8S  wasmOp = 0x2C
	opI32Load8U  wasmOp = 0x2D
	opI32Load16S wasmOp = 0x2E
	opI32Load16U wasmOp = 0x2F
	opI64Load8S  wasmOp = 0x30
	opI64Load8U  wasmOp = 0x31
	opI64Load16S wasmOp = 0x32
	opI64Load16U wasmOp = 0x33
	opI64Load32S wasmOp = 0x34
	opI64Load32U wasmOp = 0x35
	opI32Store   wasmOp = 0x36
	opI64Store   wasmOp = 0x37
	opF32Store   wasmOp = 0x38
	opF64Store   wasmOp = 0x39
	opI32Store8  wasmOp = 0x3A
	opI32Store16 wasmOp = 0x3B
	opI64Store8  wasmOp = 0x3C
	opI64Store16 wasmOp = 0x3D
	opI64Store32 wasmOp = 0x3E

	opMemorySize wasmOp = 0x3F
	opMemoryGrow wasmOp = 0x40

	opI32Const wasmOp = 0x41
	opI64Const wasmOp = 0x42
	opF32Const wasmOp = 0x43
	opF64Const wasmOp = 0x44

	opI32Eqz wasmOp = 0x45
	opI32Eq  wasmOp = 0x46
	opI32Ne  wasmOp = 0x47
	opI32LtS wasmOp = 0x48
	opI32LtU wasmOp = 0x49
	opI32GtS wasmOp = 0x4A
	opI32GtU wasmOp = 0x4B
	opI32LeS wasmOp = 0x4C
	opI32LeU wasmOp = 0x4D
	opI32GeS wasmOp = 0x4E
	opI32GeU wasmOp = 0x4F

	opI64Eqz wasmOp = 0x50
	opI64Eq  wasmOp = 0x51
	opI64Ne  wasmOp = 0x52
	opI64LtS wasmOp = 0x53
	opI64LtU wasmOp = 0x54
	opI64GtS wasmOp = 0x55
	opI64GtU wasmOp = 0x56
	opI64LeS wasmOp = 0x57
	opI64LeU wasmOp = 0x58
	opI64GeS wasmOp = 0x59
	opI64GeU wasmOp = 0x5A

	opF32Eq wasmOp = 0x5B
	opF32Ne wasmOp = 0x5C
	opF32Lt wasmOp = 0x5D
	opF32Gt wasmOp = 0x5E
	opF32Le wasmOp = 0x5F
	opF32Ge wasmOp = 0x60

	opF64Eq wasmOp = 0x61
	opF64Ne wasmOp = 0x62
	opF64Lt wasmOp = 0x63
	opF64Gt wasmOp = 0x64
	opF64Le wasmOp = 0x65
	opF64Ge wasmOp = 0x66

	opI32Clz    wasmOp = 0x67
	opI32Ctz    wasmOp = 0x68
	opI32Popcnt wasmOp = 0x69
	opI32Add    wasmOp = 0x6A
	opI32Sub    wasmOp = 0x6B
	opI32Mul    wasmOp = 0x6C
	opI32DivS   wasmOp = 0x6D
	opI32DivU   wasmOp = 0x6E
	opI32RemS   wasmOp = 0x6F
	opI32RemU   wasmOp = 0x70
	opI32And    wasmOp = 0x71
	opI32Or     wasmOp = 0x72
	opI32Xor    wasmOp = 0x73
	opI32Shl    wasmOp = 0x74
	opI32ShrS   wasmOp = 0x75
	opI32ShrU   wasmOp = 0x76
	opI32Rotl   wasmOp = 0x77
	opI32Rotr   wasmOp = 0x78

	opI64Clz    wasmOp = 0x79
	opI64Ctz    wasmOp = 0x7A
	opI64Popcnt wasmOp = 0x7B
	opI64Add    wasmOp = 0x7C
	opI64Sub    wasmOp = 0x7D
	opI64Mul    wasmOp = 0x7E
	opI64DivS   wasmOp = 0x7F
	opI64DivU   wasmOp = 0x80
	opI64RemS   wasmOp = 0x81
	opI64RemU   wasmOp = 0x82
	opI64And    wasmOp = 0x83
	opI64Or     wasmOp = 0x84
	opI64Xor    wasmOp = 0x85
	opI64Shl    wasmOp = 0x86
	opI64ShrS   wasmOp = 0x87
	opI64ShrU   wasmOp = 0x88
	opI64Rotl   wasmOp = 0x89
	opI64Rotr   wasmOp = 0x8A

	opF32Abs      wasmOp = 0x8B
	opF32Neg      wasmOp = 0x8C
	opF32Ceil     wasmOp = 0x8D
	opF32Floor    wasmOp = 0x8E
	opF32Trunc    wasmOp = 0x8F
	opF32Nearest  wasmOp = 0x90
	opF32Sqrt     wasmOp = 0x91
	opF32Add      wasmOp = 0x92
	opF32Sub      wasmOp = 0x93
	opF32Mul      wasmOp = 0x94
	opF32Div      wasmOp = 0x95
	opF32Min      wasmOp = 0x96
	opF32Max      wasmOp = 0x97
	opF32Copysign wasmOp = 0x98

	opF64Abs      wasmOp = 0x99
	opF64Neg      wasmOp = 0x9A
	opF64Ceil     wasmOp = 0x9B
	opF64Floor    wasmOp = 0x9C
	opF64Trunc    wasmOp = 0x9D
	opF64Nearest  wasmOp = 0x9E
	opF64Sqrt     wasmOp = 0x9F
	opF64Add      wasmOp = 0xA0
	opF64Sub      wasmOp = 0xA1
	opF64Mul      wasmOp = 0xA2
	opF64Div      wasmOp = 0xA3
	opF64Min      wasmOp = 0xA4
	opF64Max      wasmOp = 0xA5
	opF64Copysign wasmOp = 0xA6

	opI32WrapI64        wasmOp = 0xA7
	opI32TruncF32S      wasmOp = 0xA8
	opI32TruncF32U      wasmOp = 0xA9
	opI32TruncF64S      wasmOp = 0xAA
	opI32TruncF64U      wasmOp = 0xAB
	opI64ExtendI32S     wasmOp = 0xAC
	opI64ExtendI32U     wasmOp = 0xAD
	opI64TruncF32S      wasmOp = 0xAE
	opI64TruncF32U      wasmOp = 0xAF
	opI64TruncF64S      wasmOp = 0xB0
	opI64TruncF64U      wasmOp = 0xB1
	opF32ConvertI32S    wasmOp = 0xB2
	opF32ConvertI32U    wasmOp = 0xB3
	opF32ConvertI64S    wasmOp = 0xB4
	opF32ConvertI64U    wasmOp = 0xB5
	opF32DemoteF64      wasmOp = 0xB6
	opF64ConvertI32S    wasmOp = 0xB7
	opF64ConvertI32U    wasmOp = 0xB8
	opF64ConvertI64S    wasmOp = 0xB9
	opF64ConvertI64U    wasmOp = 0xBA
	opF64PromoteF32     wasmOp = 0xBB
	opI32ReinterpretF32 wasmOp = 0xBC
	opI64ReinterpretF64 wasmOp = 0xBD
	opF32ReinterpretI32 wasmOp = 0xBE
	opF64ReinterpretI64 wasmOp = 0xBF

	opI32Extend8S  wasmOp = 0xC0
	opI32Extend16S wasmOp = 0xC1
	opI64Extend8S  wasmOp = 0xC2
	opI64Extend16S wasmOp = 0xC3
	opI64Extend32S wasmOp = 0xC4
)

// istream opcodes. Numeric, local/global access, call/call_indirect,
// return, drop, select, unreachable, and memory opcodes reuse their wasmOp
// byte value directly: the istream is never re-decoded as WebAssembly, so
// the byte is just a dispatch tag, and reusing it keeps the two
// enumerations visually aligned. What changes translating into the
// istream is never the tag, only the immediates that follow it: a fixed
// little-endian width instead of LEB128, and translation-time-resolved
// values (absolute istream offsets, env-global indices, translated local
// indices) instead of source-module-local ones. Branches, stack
// adjustment, local reservation, br_table data and host calls need
// genuinely new encodings with no source-opcode equivalent, so those get distinct
// istream-only opcodes above the MVP's highest source opcode byte (0xC4):
//
//	Call            reuses opCall;          +4-byte istream entry offset
//	CallIndirect    reuses opCallIndirect;   +4-byte table index (env-global), +4-byte sig index (env-global)
//	Return          reuses opReturn;         no immediate
//	Drop            reuses opDrop;           no immediate
//	Select          reuses opSelect;         no immediate
//	Unreachable     reuses opUnreachable;    no immediate
//	GetLocal/SetLocal/TeeLocal  reuse opLocalGet/Set/Tee; +4-byte translated local index
//	GetGlobal/SetGlobal         reuse opGlobalGet/Set;    +4-byte env-global global index
//	I32Const/F32Const           reuse opI32Const/opF32Const; +4-byte bit pattern
//	I64Const/F64Const           reuse opI64Const/opF64Const; +8-byte bit pattern
//	loads/stores                reuse their wasmOp byte;  +4-byte memory index (env-global), +4-byte static offset
//	CurrentMemory/GrowMemory    reuse opMemorySize/opMemoryGrow; +4-byte memory index (env-global)
const (
	iOpBr       wasmOp = 0xD0 // + 4-byte absolute istream target offset
	iOpBrUnless wasmOp = 0xD1 // pops i32; + 4-byte absolute istream target offset taken when the popped value is zero
	iOpBrTable  wasmOp = 0xD2 // + 4-byte target count, + 4-byte offset of the Data-marked jump table payload
	iOpCallHost wasmOp = 0xD3 // + 4-byte env-global host function index
	iOpDropKeep wasmOp = 0xD4 // + 4-byte drop count, 1-byte keep count
	iOpData     wasmOp = 0xD5 // + 4-byte opaque payload length; marks a br_table jump table so disassemblers can skip it
	iOpAlloca   wasmOp = 0xD6 // + 4-byte local count; reserves the current function's local slots on entry
)

// tableEntrySize is the byte width of one br_table jump-table entry: a
// 4-byte target offset, a 4-byte drop count, and a 1-byte keep count.
const tableEntrySize = 4 + 4 + 1

var opcodeNames = map[wasmOp]string{
	opUnreachable: "unreachable", opNop: "nop", opReturn: "return",
	opCall: "call", opCallIndirect: "call_indirect",
	opDrop: "drop", opSelect: "select",
	opLocalGet: "local.get", opLocalSet: "local.set", opLocalTee: "local.tee",
	opGlobalGet: "global.get", opGlobalSet: "global.set",

	opI32Load: "i32.load", opI64Load: "i64.load", opF32Load: "f32.load", opF64Load: "f64.load",
	opI32Load8S: "i32.load8_s", opI32Load8U: "i32.load8_u", opI32Load16S: "i32.load16_s", opI32Load16U: "i32.load16_u",
	opI64Load8S: "i64.load8_s", opI64Load8U: "i64.load8_u", opI64Load16S: "i64.load16_s", opI64Load16U: "i64.load16_u",
	opI64Load32S: "i64.load32_s", opI64Load32U: "i64.load32_u",
	opI32Store: "i32.store", opI64Store: "i64.store", opF32Store: "f32.store", opF64Store: "f64.store",
	opI32Store8: "i32.store8", opI32Store16: "i32.store16",
	opI64Store8: "i64.store8", opI64Store16: "i64.store16", opI64Store32: "i64.store32",

	opMemorySize: "memory.size", opMemoryGrow: "memory.grow",

	opI32Const: "i32.const", opI64Const: "i64.const", opF32Const: "f32.const", opF64Const: "f64.const",

	opI32Eqz: "i32.eqz", opI32Eq: "i32.eq", opI32Ne: "i32.ne",
	opI32LtS: "i32.lt_s", opI32LtU: "i32.lt_u", opI32GtS: "i32.gt_s", opI32GtU: "i32.gt_u",
	opI32LeS: "i32.le_s", opI32LeU: "i32.le_u", opI32GeS: "i32.ge_s", opI32GeU: "i32.ge_u",

	opI64Eqz: "i64.eqz", opI64Eq: "i64.eq", opI64Ne: "i64.ne",
	opI64LtS: "i64.lt_s", opI64LtU: "i64.lt_u", opI64GtS: "i64.gt_s", opI64GtU: "i64.gt_u",
	opI64LeS: "i64.le_s", opI64LeU: "i64.le_u", opI64GeS: "i64.ge_s", opI64GeU: "i64.ge_u",

	opF32Eq: "f32.eq", opF32Ne: "f32.ne", opF32Lt: "f32.lt", opF32Gt: "f32.gt", opF32Le: "f32.le", opF32Ge: "f32.ge",
	opF64Eq: "f64.eq", opF64Ne: "f64.ne", opF64Lt: "f64.lt", opF64Gt: "f64.gt", opF64Le: "f64.le", opF64Ge: "f64.ge",

	opI32Clz: "i32.clz", opI32Ctz: "i32.ctz", opI32Popcnt: "i32.popcnt",
	opI32Add: "i32.add", opI32Sub: "i32.sub", opI32Mul: "i32.mul",
	opI32DivS: "i32.div_s", opI32DivU: "i32.div_u", opI32RemS: "i32.rem_s", opI32RemU: "i32.rem_u",
	opI32And: "i32.and", opI32Or: "i32.or", opI32Xor: "i32.xor",
	opI32Shl: "i32.shl", opI32ShrS: "i32.shr_s", opI32ShrU: "i32.shr_u",
	opI32Rotl: "i32.rotl", opI32Rotr: "i32.rotr",

	opI64Clz: "i64.clz", opI64Ctz: "i64.ctz", opI64Popcnt: "i64.popcnt",
	opI64Add: "i64.add", opI64Sub: "i64.sub", opI64Mul: "i64.mul",
	opI64DivS: "i64.div_s", opI64DivU: "i64.div_u", opI64RemS: "i64.rem_s", opI64RemU: "i64.rem_u",
	opI64And: "i64.and", opI64Or: "i64.or", opI64Xor: "i64.xor",
	opI64Shl: "i64.shl", opI64ShrS: "i64.shr_s", opI64ShrU: "i64.shr_u",
	opI64Rotl: "i64.rotl", opI64Rotr: "i64.rotr",

	opF32Abs: "f32.abs", opF32Neg: "f32.neg", opF32Ceil: "f32.ceil", opF32Floor: "f32.floor",
	opF32Trunc: "f32.trunc", opF32Nearest: "f32.nearest", opF32Sqrt: "f32.sqrt",
	opF32Add: "f32.add", opF32Sub: "f32.sub", opF32Mul: "f32.mul", opF32Div: "f32.div",
	opF32Min: "f32.min", opF32Max: "f32.max", opF32Copysign: "f32.copysign",

	opF64Abs: "f64.abs", opF64Neg: "f64.neg", opF64Ceil: "f64.ceil", opF64Floor: "f64.floor",
	opF64Trunc: "f64.trunc", opF64Nearest: "f64.nearest", opF64Sqrt: "f64.sqrt",
	opF64Add: "f64.add", opF64Sub: "f64.sub", opF64Mul: "f64.mul", opF64Div: "f64.div",
	opF64Min: "f64.min", opF64Max: "f64.max", opF64Copysign: "f64.copysign",

	opI32WrapI64: "i32.wrap_i64",
	opI32TruncF32S: "i32.trunc_f32_s", opI32TruncF32U: "i32.trunc_f32_u",
	opI32TruncF64S: "i32.trunc_f64_s", opI32TruncF64U: "i32.trunc_f64_u",
	opI64ExtendI32S: "i64.extend_i32_s", opI64ExtendI32U: "i64.extend_i32_u",
	opI64TruncF32S: "i64.trunc_f32_s", opI64TruncF32U: "i64.trunc_f32_u",
	opI64TruncF64S: "i64.trunc_f64_s", opI64TruncF64U: "i64.trunc_f64_u",
	opF32ConvertI32S: "f32.convert_i32_s", opF32ConvertI32U: "f32.convert_i32_u",
	opF32ConvertI64S: "f32.convert_i64_s", opF32ConvertI64U: "f32.convert_i64_u",
	opF32DemoteF64: "f32.demote_f64",
	opF64ConvertI32S: "f64.convert_i32_s", opF64ConvertI32U: "f64.convert_i32_u",
	opF64ConvertI64S: "f64.convert_i64_s", opF64ConvertI64U: "f64.convert_i64_u",
	opF64PromoteF32: "f64.promote_f32",
	opI32ReinterpretF32: "i32.reinterpret_f32", opI64ReinterpretF64: "i64.reinterpret_f64",
	opF32ReinterpretI32: "f32.reinterpret_i32", opF64ReinterpretI64: "f64.reinterpret_i64",

	opI32Extend8S: "i32.extend8_s", opI32Extend16S: "i32.extend16_s",
	opI64Extend8S: "i64.extend8_s", opI64Extend16S: "i64.extend16_s", opI64Extend32S: "i64.extend32_s",

	iOpBr: "br", iOpBrUnless: "br_unless", iOpBrTable: "br_table",
	iOpCallHost: "call_host", iOpDropKeep: "drop_keep", iOpData: "data", iOpAlloca: "alloca",
}

func (op wasmOp) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "unknown"
}
