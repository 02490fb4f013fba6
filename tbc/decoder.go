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
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	wasmMagic            = "\x00asm"
	supportedWasmVersion = 1
)

// sectionID identifies one of a WebAssembly module's top-level sections.
type sectionID byte

const (
	sectionCustom sectionID = iota
	sectionType
	sectionImport
	sectionFunction
	sectionTable
	sectionMemory
	sectionGlobal
	sectionExport
	sectionStart
	sectionElement
	sectionCode
	sectionData
	sectionDataCount
)

// Decoder tokenizes a WebAssembly binary module and drives a Sink through
// its structural events in document order. It never builds an in-memory
// module tree: every section is decoded and dispatched as it is read,
// matching the Translator's own single-pass design (§4).
type Decoder struct {
	r      *bufio.Reader
	offset uint32

	numFuncImports   uint32
	numTableImports  uint32
	numMemoryImports uint32
	numGlobalImports uint32
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return 0, err
	}
	d.offset++
	return b, nil
}

func (d *Decoder) readFull(buf []byte) error {
	n, err := io.ReadFull(d.r, buf)
	d.offset += uint32(n)
	return err
}

func (d *Decoder) skip(n uint32) error {
	copied, err := io.CopyN(io.Discard, d.r, int64(n))
	d.offset += uint32(copied)
	return err
}

func (d *Decoder) readU32() (uint32, error) {
	v, _, err := readULEB128(d.readByte, 5)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, errIntegerTooLarge
	}
	return uint32(v), nil
}

func (d *Decoder) readU64() (uint64, error) {
	v, _, err := readULEB128(d.readByte, 10)
	return v, err
}

func (d *Decoder) readS32() (int32, error) {
	v, _, err := readSLEB128(d.readByte, 5)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func (d *Decoder) readS64() (int64, error) {
	v, _, err := readSLEB128(d.readByte, 10)
	return v, err
}

func (d *Decoder) readF32() (float32, error) {
	var buf [4]byte
	if err := d.readFull(buf[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}

func (d *Decoder) readF64() (float64, error) {
	var buf [8]byte
	if err := d.readFull(buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

func (d *Decoder) readString() (string, error) {
	n, err := d.readU32()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if err := d.readFull(buf); err != nil {
		return "", fmt.Errorf("reading string bytes: %w", err)
	}
	return string(buf), nil
}

func (d *Decoder) readBytesVector() ([]byte, error) {
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if err := d.readFull(buf); err != nil {
		return nil, fmt.Errorf("reading byte vector: %w", err)
	}
	return buf, nil
}

func (d *Decoder) readValueType() (ValueType, error) {
	b, err := d.readByte()
	if err != nil {
		return 0, err
	}
	switch ValueType(b) {
	case I32, I64, F32, F64:
		return ValueType(b), nil
	default:
		return 0, fmt.Errorf("invalid value type byte 0x%x", b)
	}
}

func (d *Decoder) readLimits() (Limits, error) {
	flag, err := d.readByte()
	if err != nil {
		return Limits{}, err
	}
	min, err := d.readU32()
	if err != nil {
		return Limits{}, err
	}
	switch flag {
	case 0:
		return Limits{Min: min}, nil
	case 1:
		max, err := d.readU32()
		if err != nil {
			return Limits{}, err
		}
		return Limits{Min: min, Max: &max}, nil
	default:
		return Limits{}, fmt.Errorf("invalid limits flag 0x%x", flag)
	}
}

func (d *Decoder) readGlobalType() (GlobalType, error) {
	val, err := d.readValueType()
	if err != nil {
		return GlobalType{}, err
	}
	mutByte, err := d.readByte()
	if err != nil {
		return GlobalType{}, err
	}
	if mutByte > 1 {
		return GlobalType{}, fmt.Errorf("invalid global mutability byte 0x%x", mutByte)
	}
	return GlobalType{Value: val, Mutable: mutByte == 1}, nil
}

// Decode reads a complete module from the Decoder's underlying reader,
// driving sink through every structural and instruction-level event, and
// finally invokes EndModule. Any read, encoding, or Sink error aborts
// decoding immediately.
func (d *Decoder) Decode(sink Sink) error {
	if err := d.decodeHeader(); err != nil {
		sink.OnError(d.offset, err.Error())
		return err
	}
	for {
		idByte, err := d.readByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			sink.OnError(d.offset, err.Error())
			return err
		}
		size, err := d.readU32()
		if err != nil {
			sink.OnError(d.offset, err.Error())
			return err
		}
		if err := d.decodeSection(sectionID(idByte), size, sink); err != nil {
			sink.OnError(d.offset, err.Error())
			return err
		}
	}
	return sink.EndModule()
}

func (d *Decoder) decodeHeader() error {
	var header [8]byte
	if err := d.readFull(header[:]); err != nil {
		return fmt.Errorf("module too short for a header: %w", err)
	}
	if !bytes.Equal(header[:4], []byte(wasmMagic)) {
		return fmt.Errorf("missing WebAssembly magic number")
	}
	if binary.LittleEndian.Uint32(header[4:8]) != supportedWasmVersion {
		return fmt.Errorf("unsupported WebAssembly version")
	}
	return nil
}

func (d *Decoder) decodeSection(id sectionID, size uint32, sink Sink) error {
	switch id {
	case sectionCustom:
		return d.skip(size)
	case sectionType:
		return d.decodeTypeSection(sink)
	case sectionImport:
		return d.decodeImportSection(sink)
	case sectionFunction:
		return d.decodeFunctionSection(sink)
	case sectionTable:
		return d.decodeTableSection(sink)
	case sectionMemory:
		return d.decodeMemorySection(sink)
	case sectionGlobal:
		return d.decodeGlobalSection(sink)
	case sectionExport:
		return d.decodeExportSection(sink)
	case sectionStart:
		funcIndex, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnStartFunction(funcIndex)
	case sectionElement:
		return d.decodeElementSection(sink)
	case sectionCode:
		return d.decodeCodeSection(sink)
	case sectionData:
		return d.decodeDataSection(sink)
	case sectionDataCount:
		_, err := d.readU32()
		return err
	default:
		return d.skip(size)
	}
}

func (d *Decoder) decodeTypeSection(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	if err := sink.OnTypeCount(n); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		prefix, err := d.readByte()
		if err != nil {
			return err
		}
		if prefix != 0x60 {
			return fmt.Errorf("invalid function type prefix 0x%x", prefix)
		}
		params, err := d.decodeValueTypeVector()
		if err != nil {
			return err
		}
		results, err := d.decodeValueTypeVector()
		if err != nil {
			return err
		}
		if err := sink.OnType(i, Signature{ParamTypes: params, ResultTypes: results}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeValueTypeVector() ([]ValueType, error) {
	n, err := d.readU32()
	if err != nil {
		return nil, err
	}
	types := make([]ValueType, n)
	for i := range types {
		types[i], err = d.readValueType()
		if err != nil {
			return nil, err
		}
	}
	return types, nil
}

func (d *Decoder) decodeImportSection(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	if err := sink.OnImportCount(n); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		moduleName, err := d.readString()
		if err != nil {
			return err
		}
		fieldName, err := d.readString()
		if err != nil {
			return err
		}
		if err := sink.OnImport(i, moduleName, fieldName); err != nil {
			return err
		}
		kind, err := d.readByte()
		if err != nil {
			return err
		}
		switch kind {
		case byte(ExternalFunc):
			sigIndex, err := d.readU32()
			if err != nil {
				return err
			}
			if err := sink.OnImportFunc(i, sigIndex); err != nil {
				return err
			}
			d.numFuncImports++
		case byte(ExternalTable):
			refType, err := d.readByte()
			if err != nil {
				return err
			}
			_ = refType // MVP supports only funcref tables.
			limits, err := d.readLimits()
			if err != nil {
				return err
			}
			if err := sink.OnImportTable(i, TableType{Limits: limits}); err != nil {
				return err
			}
			d.numTableImports++
		case byte(ExternalMemory):
			limits, err := d.readLimits()
			if err != nil {
				return err
			}
			if err := sink.OnImportMemory(i, MemoryType{Limits: limits}); err != nil {
				return err
			}
			d.numMemoryImports++
		case byte(ExternalGlobal):
			globalType, err := d.readGlobalType()
			if err != nil {
				return err
			}
			if err := sink.OnImportGlobal(i, globalType); err != nil {
				return err
			}
			d.numGlobalImports++
		default:
			return fmt.Errorf("invalid import kind 0x%x", kind)
		}
	}
	return nil
}

func (d *Decoder) decodeFunctionSection(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	if err := sink.OnFunctionCount(n); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		sigIndex, err := d.readU32()
		if err != nil {
			return err
		}
		if err := sink.OnFunction(d.numFuncImports+i, sigIndex); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeTableSection(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	if err := sink.OnTableCount(n); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		refType, err := d.readByte()
		if err != nil {
			return err
		}
		_ = refType
		limits, err := d.readLimits()
		if err != nil {
			return err
		}
		if err := sink.OnTable(d.numTableImports+i, TableType{Limits: limits}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeMemorySection(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	if err := sink.OnMemoryCount(n); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		limits, err := d.readLimits()
		if err != nil {
			return err
		}
		if err := sink.OnMemory(d.numMemoryImports+i, MemoryType{Limits: limits}); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeGlobalSection(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	if err := sink.OnGlobalCount(n); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		globalType, err := d.readGlobalType()
		if err != nil {
			return err
		}
		index := d.numGlobalImports + i
		if err := sink.BeginGlobal(index, globalType); err != nil {
			return err
		}
		if err := d.decodeInitExpr(sink); err != nil {
			return err
		}
		if err := sink.EndGlobalInitExpr(index); err != nil {
			return err
		}
	}
	return nil
}

// decodeInitExpr decodes a single constant-producing instruction followed
// by End, feeding the matching OnInitExpr* callback (§3).
func (d *Decoder) decodeInitExpr(sink Sink) error {
	op, err := d.readByte()
	if err != nil {
		return err
	}
	switch wasmOp(op) {
	case opI32Const:
		v, err := d.readS32()
		if err != nil {
			return err
		}
		if err := sink.OnInitExprI32Const(v); err != nil {
			return err
		}
	case opI64Const:
		v, err := d.readS64()
		if err != nil {
			return err
		}
		if err := sink.OnInitExprI64Const(v); err != nil {
			return err
		}
	case opF32Const:
		v, err := d.readF32()
		if err != nil {
			return err
		}
		if err := sink.OnInitExprF32Const(v); err != nil {
			return err
		}
	case opF64Const:
		v, err := d.readF64()
		if err != nil {
			return err
		}
		if err := sink.OnInitExprF64Const(v); err != nil {
			return err
		}
	case opGlobalGet:
		globalIndex, err := d.readU32()
		if err != nil {
			return err
		}
		if err := sink.OnInitExprGetGlobal(globalIndex); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported init expression opcode 0x%x", op)
	}
	end, err := d.readByte()
	if err != nil {
		return err
	}
	if wasmOp(end) != opEnd {
		return fmt.Errorf("init expression must be a single instruction followed by end")
	}
	return nil
}

func (d *Decoder) decodeExportSection(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	if err := sink.OnExportCount(n); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		name, err := d.readString()
		if err != nil {
			return err
		}
		kindByte, err := d.readByte()
		if err != nil {
			return err
		}
		itemIndex, err := d.readU32()
		if err != nil {
			return err
		}
		if err := sink.OnExport(i, ExternalKind(kindByte), itemIndex, name); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeElementSection(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	if err := sink.OnElemSegmentCount(n); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		flags, err := d.readU32()
		if err != nil {
			return err
		}
		var tableIndex uint32
		switch flags {
		case 0:
			tableIndex = 0
		case 2:
			tableIndex, err = d.readU32()
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported element segment flags %d", flags)
		}
		if err := sink.BeginElemSegment(i, tableIndex); err != nil {
			return err
		}
		if err := d.decodeInitExpr(sink); err != nil {
			return err
		}
		if err := sink.EndElemSegmentInitExpr(i); err != nil {
			return err
		}
		if flags == 2 {
			elemKind, err := d.readByte()
			if err != nil {
				return err
			}
			if elemKind != 0x00 {
				return fmt.Errorf("unsupported element kind 0x%x", elemKind)
			}
		}
		count, err := d.readU32()
		if err != nil {
			return err
		}
		for j := uint32(0); j < count; j++ {
			funcIndex, err := d.readU32()
			if err != nil {
				return err
			}
			if err := sink.OnElemSegmentFunctionIndex(i, funcIndex); err != nil {
				return err
			}
		}
		if err := sink.EndElemSegment(i); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeDataSection(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	if err := sink.OnDataSegmentCount(n); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		flags, err := d.readU32()
		if err != nil {
			return err
		}
		var memIndex uint32
		switch flags {
		case 0:
			memIndex = 0
		case 2:
			memIndex, err = d.readU32()
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported data segment flags %d", flags)
		}
		if err := sink.BeginDataSegment(i, memIndex); err != nil {
			return err
		}
		if err := d.decodeInitExpr(sink); err != nil {
			return err
		}
		if err := sink.EndDataSegmentInitExpr(i); err != nil {
			return err
		}
		content, err := d.readBytesVector()
		if err != nil {
			return err
		}
		if err := sink.OnDataSegmentData(i, content); err != nil {
			return err
		}
		if err := sink.EndDataSegment(i); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeCodeSection(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		bodySize, err := d.readU32()
		if err != nil {
			return err
		}
		originalReader := d.r
		d.r = bufio.NewReader(io.LimitReader(originalReader, int64(bodySize)))

		index := d.numFuncImports + i
		if err := d.decodeFunctionBody(index, sink); err != nil {
			d.r = originalReader
			return err
		}
		d.r = originalReader
	}
	return nil
}

func (d *Decoder) decodeFunctionBody(index uint32, sink Sink) error {
	if err := sink.BeginFunctionBody(index); err != nil {
		return err
	}
	declCount, err := d.readU32()
	if err != nil {
		return err
	}
	if err := sink.OnLocalDeclCount(declCount); err != nil {
		return err
	}
	for j := uint32(0); j < declCount; j++ {
		count, err := d.readU32()
		if err != nil {
			return err
		}
		typ, err := d.readValueType()
		if err != nil {
			return err
		}
		if err := sink.OnLocalDecl(j, count, typ); err != nil {
			return err
		}
	}
	if err := d.decodeInstructions(sink); err != nil {
		return err
	}
	return sink.EndFunctionBody(index)
}

// decodeBlockType decodes a WebAssembly block type: the empty type
// (0x40), a single-value-type shorthand, or a signed LEB128 type index
// (§2 "blocktype").
func (d *Decoder) decodeBlockType() (BlockSignature, error) {
	v, _, err := readSLEB128(d.readByte, 5)
	if err != nil {
		return BlockSignature{}, err
	}
	switch v {
	case -64: // 0x40
		return BlockSignature{TypeIndex: -1}, nil
	case -1:
		return BlockSignature{TypeIndex: -1, ResultTypes: []ValueType{I32}}, nil
	case -2:
		return BlockSignature{TypeIndex: -1, ResultTypes: []ValueType{I64}}, nil
	case -3:
		return BlockSignature{TypeIndex: -1, ResultTypes: []ValueType{F32}}, nil
	case -4:
		return BlockSignature{TypeIndex: -1, ResultTypes: []ValueType{F64}}, nil
	default:
		if v < 0 {
			return BlockSignature{}, fmt.Errorf("invalid block type %d", v)
		}
		return BlockSignature{TypeIndex: int32(v)}, nil
	}
}

func isUnaryNumericOp(op wasmOp) bool {
	switch {
	case op == opI32Eqz, op == opI64Eqz:
		return true
	case op >= opI32Clz && op <= opI32Popcnt:
		return true
	case op >= opI64Clz && op <= opI64Popcnt:
		return true
	case op >= opF32Abs && op <= opF32Sqrt:
		return true
	case op >= opF64Abs && op <= opF64Sqrt:
		return true
	case op >= opI32WrapI64 && op <= opF64ReinterpretI64:
		return true
	case op >= opI32Extend8S && op <= opI64Extend32S:
		return true
	}
	return false
}

func isBinaryNumericOp(op wasmOp) bool {
	switch {
	case op >= opI32Eq && op <= opI32GeU:
		return true
	case op >= opI64Eq && op <= opI64GeU:
		return true
	case op >= opF32Eq && op <= opF32Ge:
		return true
	case op >= opF64Eq && op <= opF64Ge:
		return true
	case op >= opI32Add && op <= opI32Rotr:
		return true
	case op >= opI64Add && op <= opI64Rotr:
		return true
	case op >= opF32Add && op <= opF32Copysign:
		return true
	case op >= opF64Add && op <= opF64Copysign:
		return true
	}
	return false
}

func isLoadOp(op wasmOp) bool  { return op >= opI32Load && op <= opI64Load32U }
func isStoreOp(op wasmOp) bool { return op >= opI32Store && op <= opI64Store32 }

// decodeInstructions decodes a function body's instruction stream,
// dispatching one Sink call per instruction until it reaches the End that
// terminates the function itself (as opposed to a nested block/loop/if).
func (d *Decoder) decodeInstructions(sink Sink) error {
	depth := 0
	for {
		opByte, err := d.readByte()
		if err != nil {
			return err
		}
		op := wasmOp(opByte)

		switch {
		case op == opEnd:
			if depth == 0 {
				return nil
			}
			depth--
			if err := sink.OnEndExpr(); err != nil {
				return err
			}
			continue
		case op == opElse:
			if err := sink.OnElseExpr(); err != nil {
				return err
			}
			continue
		case op == opBlock, op == opLoop, op == opIf:
			sig, err := d.decodeBlockType()
			if err != nil {
				return err
			}
			depth++
			switch op {
			case opBlock:
				err = sink.OnBlockExpr(sig)
			case opLoop:
				err = sink.OnLoopExpr(sig)
			case opIf:
				err = sink.OnIfExpr(sig)
			}
			if err != nil {
				return err
			}
			continue
		}

		if err := d.decodeLeafInstruction(op, sink); err != nil {
			return err
		}
	}
}

func (d *Decoder) decodeLeafInstruction(op wasmOp, sink Sink) error {
	switch {
	case op == opUnreachable:
		return sink.OnUnreachableExpr()
	case op == opNop:
		return sink.OnNopExpr()
	case op == opBr:
		depth, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnBrExpr(depth)
	case op == opBrIf:
		depth, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnBrIfExpr(depth)
	case op == opBrTable:
		return d.decodeBrTable(sink)
	case op == opReturn:
		return sink.OnReturnExpr()
	case op == opCall:
		funcIndex, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnCallExpr(funcIndex)
	case op == opCallIndirect:
		sigIndex, err := d.readU32()
		if err != nil {
			return err
		}
		tableIndex, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnCallIndirectExpr(sigIndex, tableIndex)
	case op == opDrop:
		return sink.OnDropExpr()
	case op == opSelect:
		return sink.OnSelectExpr()
	case op == opLocalGet:
		idx, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnGetLocalExpr(idx)
	case op == opLocalSet:
		idx, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnSetLocalExpr(idx)
	case op == opLocalTee:
		idx, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnTeeLocalExpr(idx)
	case op == opGlobalGet:
		idx, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnGetGlobalExpr(idx)
	case op == opGlobalSet:
		idx, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnSetGlobalExpr(idx)
	case op == opI32Const:
		v, err := d.readS32()
		if err != nil {
			return err
		}
		return sink.OnConstI32Expr(v)
	case op == opI64Const:
		v, err := d.readS64()
		if err != nil {
			return err
		}
		return sink.OnConstI64Expr(v)
	case op == opF32Const:
		v, err := d.readF32()
		if err != nil {
			return err
		}
		return sink.OnConstF32Expr(v)
	case op == opF64Const:
		v, err := d.readF64()
		if err != nil {
			return err
		}
		return sink.OnConstF64Expr(v)
	case op == opMemorySize:
		if _, err := d.readByte(); err != nil { // reserved
			return err
		}
		return sink.OnCurrentMemoryExpr()
	case op == opMemoryGrow:
		if _, err := d.readByte(); err != nil { // reserved
			return err
		}
		return sink.OnGrowMemoryExpr()
	case isLoadOp(op):
		align, err := d.readU32()
		if err != nil {
			return err
		}
		offset, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnLoadExpr(op, align, offset)
	case isStoreOp(op):
		align, err := d.readU32()
		if err != nil {
			return err
		}
		offset, err := d.readU32()
		if err != nil {
			return err
		}
		return sink.OnStoreExpr(op, align, offset)
	case isUnaryNumericOp(op):
		return sink.OnUnaryExpr(op)
	case isBinaryNumericOp(op):
		return sink.OnBinaryExpr(op)
	default:
		return fmt.Errorf("unsupported opcode 0x%x", byte(op))
	}
}

func (d *Decoder) decodeBrTable(sink Sink) error {
	n, err := d.readU32()
	if err != nil {
		return err
	}
	targets := make([]uint32, n)
	for i := range targets {
		targets[i], err = d.readU32()
		if err != nil {
			return err
		}
	}
	defaultTarget, err := d.readU32()
	if err != nil {
		return err
	}
	return sink.OnBrTableExpr(targets, defaultTarget)
}
