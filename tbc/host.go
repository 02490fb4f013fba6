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

import "fmt"

// FuncResolver looks up the callback backing an imported function by its
// field name, for host modules that only ever export functions.
type FuncResolver func(fieldName string) (HostFunctionCallback, bool)

// FuncImportDelegate is a HostImportDelegate for host modules that export
// only functions: table, memory, and global imports against it always
// fail, so a module importing one of those from a func-only host gets a
// clear error instead of a nil-callback panic at call time.
type FuncImportDelegate struct {
	Resolve FuncResolver
}

func (d FuncImportDelegate) ImportFunc(moduleName, fieldName string, sigIndex uint32, fn *Func) error {
	cb, ok := d.Resolve(fieldName)
	if !ok {
		return fmt.Errorf("host module %q has no function %q", moduleName, fieldName)
	}
	fn.HostCallback = cb
	fn.ModuleName = moduleName
	fn.FieldName = fieldName
	return nil
}

func (d FuncImportDelegate) ImportTable(moduleName, fieldName string, _ TableType, _ *Table) error {
	return fmt.Errorf("host module %q does not export a table %q", moduleName, fieldName)
}

func (d FuncImportDelegate) ImportMemory(moduleName, fieldName string, _ MemoryType, _ *Memory) error {
	return fmt.Errorf("host module %q does not export a memory %q", moduleName, fieldName)
}

func (d FuncImportDelegate) ImportGlobal(moduleName, fieldName string, _ GlobalType, _ *Global) error {
	return fmt.Errorf("host module %q does not export a global %q", moduleName, fieldName)
}
