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

// Package tbc translates validated WebAssembly binary modules into a flat,
// threaded bytecode stream that a simple interpreter can execute without
// re-walking the WebAssembly instruction tree at run time.
package tbc

import "math"

// ValueType classifies the values WebAssembly code computes with.
type ValueType uint8

const (
	I32 ValueType = 0x7f
	I64 ValueType = 0x7e
	F32 ValueType = 0x7d
	F64 ValueType = 0x7c
)

func (t ValueType) String() string {
	switch t {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "invalid"
	}
}

// Limits bound the size of a table or memory.
type Limits struct {
	Min uint32
	Max *uint32 // nil means unbounded
}

// HasMax reports whether the limits carry an explicit maximum.
func (l Limits) HasMax() bool { return l.Max != nil }

// MemoryType is the declared type of a linear memory, in page units.
type MemoryType struct {
	Limits Limits
}

// TableType is the declared type of a table of function references.
type TableType struct {
	Limits Limits
}

// GlobalType is the declared type of a module-level global variable.
type GlobalType struct {
	Value   ValueType
	Mutable bool
}

// Signature classifies the parameters and results of a function, matching
// one entry of the module's type section.
type Signature struct {
	ParamTypes  []ValueType
	ResultTypes []ValueType
}

// Equal reports whether two signatures accept and produce the same types.
func (s *Signature) Equal(other *Signature) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return slicesEqualVT(s.ParamTypes, other.ParamTypes) &&
		slicesEqualVT(s.ResultTypes, other.ResultTypes)
}

func slicesEqualVT(a, b []ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// BlockSignature classifies the type of a block/loop/if construct. A
// WebAssembly block type is either empty, a single value type, or an index
// into the module's type section (multi-value blocks); TypeIndex is -1 for
// the first two cases.
type BlockSignature struct {
	ParamTypes  []ValueType
	ResultTypes []ValueType
	TypeIndex   int32
}

// ExternalKind classifies the kind of entity an Import or Export refers to.
type ExternalKind uint8

const (
	ExternalFunc ExternalKind = iota
	ExternalTable
	ExternalMemory
	ExternalGlobal
)

func (k ExternalKind) String() string {
	switch k {
	case ExternalFunc:
		return "func"
	case ExternalTable:
		return "table"
	case ExternalMemory:
		return "memory"
	case ExternalGlobal:
		return "global"
	default:
		return "invalid"
	}
}

// NullReference is the sentinel value used for a null funcref/externref.
const NullReference int32 = -1

// kInvalidIstreamOffset marks a Label target or a call's function offset as
// not yet resolved by the fixup engine.
const kInvalidIstreamOffset uint32 = math.MaxUint32
