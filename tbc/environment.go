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

// HostFunctionCallback is the Go function a host module registers to back
// an imported function. It receives the popped argument values in
// declaration order and returns the result values in declaration order.
type HostFunctionCallback func(args []any) ([]any, error)

// Func is the env-global runtime representation of a function, whether
// defined in a translated module or supplied by a host module. Unlike a
// tree-walking interpreter's separate WasmFunction/HostFunction types, a
// single tagged struct is enough here because the istream dispatch loop
// only ever needs one of two things to call it: an istream offset, or a
// host callback.
type Func struct {
	SigIndex uint32 // env-global signature index

	IsHost bool

	// Defined function fields.
	Offset             uint32 // istream byte offset of the function body
	ParamAndLocalCount uint32
	LocalTypes         []ValueType // just the declared locals, not params

	// Host function fields.
	HostCallback HostFunctionCallback
	ModuleName   string
	FieldName    string
}

// Global is the env-global runtime representation of a global variable.
type Global struct {
	Type  GlobalType
	Value runtimeValue
}

// ExportEntry is a single export resolved to an env-global index.
type ExportEntry struct {
	Name  string
	Kind  ExternalKind
	Index uint32 // env-global index of the kind-appropriate vector
}

// Module is the result of successfully translating one WebAssembly binary.
// It does not own any state itself; it records which ranges of the
// Environment's flat vectors belong to it, mirroring wabt's interpreter
// Module, which is a thin view over the shared Environment.
type Module struct {
	Name string

	// IsHost marks a module installed via RegisterHostModule rather than
	// translated from a WebAssembly binary; OnImport resolves against
	// IsHost to decide whether to delegate to a HostImportDelegate or to
	// look the field up in Exports.
	IsHost bool

	// Defined-only ranges (a module's own declarations, excluding what it
	// imports), as [start, start+count) slices into the Environment.
	FuncsIndexStart    uint32
	FuncsCount         uint32
	GlobalsIndexStart  uint32
	GlobalsCount       uint32

	// A module declares or imports at most one table and one memory
	// (§3 invariant); nil means it has neither.
	TableIndex  *uint32 // env-global
	MemoryIndex *uint32 // env-global

	Exports []ExportEntry

	IstreamStart uint32
	IstreamEnd   uint32

	StartFuncIndex uint32 // env-global
	HasStart       bool
}

// environmentMark is a snapshot of an Environment's append-only state,
// taken before translating a module so it can be rolled back atomically if
// translation fails partway through.
type environmentMark struct {
	signatures int
	funcs      int
	tables     int
	memories   int
	globals    int
	modules    int
	istream    int
}

// Environment is the single shared runtime all translated modules and host
// modules are appended into, matching wabt's interpreter::Environment: one
// flat signature/function/table/memory/global vector and one shared
// istream buffer, rather than a separate store per module instance.
type Environment struct {
	Signatures []Signature
	Funcs      []*Func
	Tables     []*Table
	Memories   []*Memory
	Globals    []*Global
	Modules    []*Module

	Istream []byte

	hostDelegates map[string]HostImportDelegate
}

// NewEnvironment returns an empty Environment ready to accept host modules
// and translated WebAssembly modules.
func NewEnvironment() *Environment {
	return &Environment{hostDelegates: make(map[string]HostImportDelegate)}
}

// RegisterHostImportDelegate installs delegate as the lazy import-time
// resolver for moduleName, creating the host Module entry if one does not
// already exist (e.g. from a prior RegisterHostModule call). Fields the
// delegate's module already exports statically are resolved directly
// against Exports; the delegate is only consulted for fields not found
// there, matching §6's host import delegate interface.
func (e *Environment) RegisterHostImportDelegate(moduleName string, delegate HostImportDelegate) {
	mod, ok := e.FindModule(moduleName)
	if !ok {
		mod = &Module{Name: moduleName, IsHost: true}
		e.Modules = append(e.Modules, mod)
	} else {
		mod.IsHost = true
	}
	e.hostDelegates[moduleName] = delegate
}

func (e *Environment) mark() environmentMark {
	return environmentMark{
		signatures: len(e.Signatures),
		funcs:      len(e.Funcs),
		tables:     len(e.Tables),
		memories:   len(e.Memories),
		globals:    len(e.Globals),
		modules:    len(e.Modules),
		istream:    len(e.Istream),
	}
}

// resetToMark discards every entry appended since mark was taken. This is
// the only way a partially translated module's state disappears: it is
// never mutated or filtered out of the middle of a slice, only truncated
// from the end, since marks are always taken immediately before
// translating a new module (append-only until committed).
func (e *Environment) resetToMark(m environmentMark) {
	e.Signatures = e.Signatures[:m.signatures]
	e.Funcs = e.Funcs[:m.funcs]
	e.Tables = e.Tables[:m.tables]
	e.Memories = e.Memories[:m.memories]
	e.Globals = e.Globals[:m.globals]
	e.Modules = e.Modules[:m.modules]
	e.Istream = e.Istream[:m.istream]
}

// HostFuncSpec describes a function a host module exposes for import: its
// field name, signature, and callback.
type HostFuncSpec struct {
	Field     string
	Signature Signature
	Callback  HostFunctionCallback
}

// HostGlobalSpec describes a global a host module exposes for import.
type HostGlobalSpec struct {
	Field string
	Type  GlobalType
	Value runtimeValue
}

// RegisterHostModule installs fns and globals as importable under
// moduleName, returning the Module view recorded for it.
func (e *Environment) RegisterHostModule(moduleName string, fns []HostFuncSpec, globals []HostGlobalSpec) *Module {
	mod := &Module{
		Name:              moduleName,
		IsHost:            true,
		FuncsIndexStart:   uint32(len(e.Funcs)),
		GlobalsIndexStart: uint32(len(e.Globals)),
	}
	for _, f := range fns {
		sigIdx := e.internSignature(f.Signature)
		e.Funcs = append(e.Funcs, &Func{
			SigIndex:     sigIdx,
			IsHost:       true,
			HostCallback: f.Callback,
			ModuleName:   moduleName,
			FieldName:    f.Field,
		})
		mod.Exports = append(mod.Exports, ExportEntry{
			Name: f.Field, Kind: ExternalFunc, Index: uint32(len(e.Funcs) - 1),
		})
	}
	mod.FuncsCount = uint32(len(e.Funcs)) - mod.FuncsIndexStart
	for _, g := range globals {
		e.Globals = append(e.Globals, &Global{Type: g.Type, Value: g.Value})
		mod.Exports = append(mod.Exports, ExportEntry{
			Name: g.Field, Kind: ExternalGlobal, Index: uint32(len(e.Globals) - 1),
		})
	}
	mod.GlobalsCount = uint32(len(e.Globals)) - mod.GlobalsIndexStart
	e.Modules = append(e.Modules, mod)
	return mod
}

func (e *Environment) internSignature(sig Signature) uint32 {
	for i, existing := range e.Signatures {
		if existing.Equal(&sig) {
			return uint32(i)
		}
	}
	e.Signatures = append(e.Signatures, sig)
	return uint32(len(e.Signatures) - 1)
}

// FindExport looks up name within mod's exports.
func (m *Module) FindExport(name string) (ExportEntry, bool) {
	for _, ex := range m.Exports {
		if ex.Name == name {
			return ex, true
		}
	}
	return ExportEntry{}, false
}

// FindModule looks up a registered or translated module by name.
func (e *Environment) FindModule(name string) (*Module, bool) {
	for _, m := range e.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// limitsCompatible reports whether actual, the limits an already-existing
// table/memory carries, satisfy declared, the limits a module's import
// statement requires: actual must guarantee at least as much minimum size
// and, if declared bounds the maximum, actual must too and no more
// loosely.
func limitsCompatible(declared, actual Limits) bool {
	if actual.Min < declared.Min {
		return false
	}
	if declared.HasMax() {
		if !actual.HasMax() || *actual.Max > *declared.Max {
			return false
		}
	}
	return true
}
