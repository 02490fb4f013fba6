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

// indexMapper translates between the three index spaces a module's binary
// encoding and the shared Environment disagree on:
//
//   - module-local: the index space the binary itself uses (imports first,
//     then the module's own definitions, in declaration order).
//   - defined-only: a module-local index with the import count subtracted,
//     used to address a module's own per-kind slices (e.g. which function
//     body a Code section entry belongs to).
//   - env-global: the absolute position within the Environment's flat
//     vectors, which is what istream Call/CallHost/global.get/global.set
//     immediates are encoded in.
//
// Each mapping vector is built up one append per Begin*/On*Import call, in
// declaration order, so module-local index i always reads mapping[i].
type indexMapper struct {
	sigIndexMapping    []uint32
	funcIndexMapping   []uint32
	tableIndexMapping  []uint32
	memoryIndexMapping []uint32
	globalIndexMapping []uint32

	numFuncImports   uint32
	numTableImports  uint32
	numMemoryImports uint32
	numGlobalImports uint32
}

func (m *indexMapper) appendSig(envIndex uint32) {
	m.sigIndexMapping = append(m.sigIndexMapping, envIndex)
}

func (m *indexMapper) appendFunc(envIndex uint32, isImport bool) {
	m.funcIndexMapping = append(m.funcIndexMapping, envIndex)
	if isImport {
		m.numFuncImports++
	}
}

func (m *indexMapper) appendTable(envIndex uint32, isImport bool) {
	m.tableIndexMapping = append(m.tableIndexMapping, envIndex)
	if isImport {
		m.numTableImports++
	}
}

func (m *indexMapper) appendMemory(envIndex uint32, isImport bool) {
	m.memoryIndexMapping = append(m.memoryIndexMapping, envIndex)
	if isImport {
		m.numMemoryImports++
	}
}

func (m *indexMapper) appendGlobal(envIndex uint32, isImport bool) {
	m.globalIndexMapping = append(m.globalIndexMapping, envIndex)
	if isImport {
		m.numGlobalImports++
	}
}

func (m *indexMapper) sigToEnv(moduleIndex uint32) (uint32, bool) {
	if int(moduleIndex) >= len(m.sigIndexMapping) {
		return 0, false
	}
	return m.sigIndexMapping[moduleIndex], true
}

func (m *indexMapper) funcToEnv(moduleIndex uint32) (uint32, bool) {
	if int(moduleIndex) >= len(m.funcIndexMapping) {
		return 0, false
	}
	return m.funcIndexMapping[moduleIndex], true
}

func (m *indexMapper) tableToEnv(moduleIndex uint32) (uint32, bool) {
	if int(moduleIndex) >= len(m.tableIndexMapping) {
		return 0, false
	}
	return m.tableIndexMapping[moduleIndex], true
}

func (m *indexMapper) memoryToEnv(moduleIndex uint32) (uint32, bool) {
	if int(moduleIndex) >= len(m.memoryIndexMapping) {
		return 0, false
	}
	return m.memoryIndexMapping[moduleIndex], true
}

func (m *indexMapper) globalToEnv(moduleIndex uint32) (uint32, bool) {
	if int(moduleIndex) >= len(m.globalIndexMapping) {
		return 0, false
	}
	return m.globalIndexMapping[moduleIndex], true
}

// funcModuleIndexToDefined converts a module-local function index into a
// defined-only index (the index into the Code section / the module's own
// Funcs range), or false if moduleIndex names an imported function.
func (m *indexMapper) funcModuleIndexToDefined(moduleIndex uint32) (uint32, bool) {
	if moduleIndex < m.numFuncImports {
		return 0, false
	}
	return moduleIndex - m.numFuncImports, true
}
