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

import "errors"

const (
	pageSize = 65536
	maxPages = uint32(1 << 16)
)

var errMemoryOutOfBounds = errors.New("out of bounds memory access")

// Memory is the runtime representation of a linear memory, shared across
// all modules in an Environment the way wabt's interpreter keeps a single
// flat vector of memories rather than one per module instance.
type Memory struct {
	Type MemoryType
	data []byte
}

// NewMemory allocates a Memory sized to its type's minimum, zero-filled.
func NewMemory(t MemoryType) *Memory {
	return &Memory{Type: t, data: make([]byte, uint64(t.Limits.Min)*pageSize)}
}

// Grow extends the memory by n pages, returning the previous size in pages
// or -1 if growth would exceed the declared (or implicit) maximum.
func (m *Memory) Grow(n int32) int32 {
	if n < 0 {
		return -1
	}
	current := m.SizePages()
	max := maxPages
	if m.Type.Limits.Max != nil {
		max = *m.Type.Limits.Max
	}
	if uint64(current)+uint64(n) > uint64(max) {
		return -1
	}
	m.data = append(m.data, make([]byte, uint64(n)*pageSize)...)
	return current
}

// SizePages returns the current size in 64KiB pages.
func (m *Memory) SizePages() int32 { return int32(len(m.data) / pageSize) }

func (m *Memory) byteSize() uint64 { return uint64(len(m.data)) }

// Load copies length bytes starting at offset+index. offset is the
// instruction's static alignment immediate's companion offset immediate;
// index is the dynamic i32 address popped off the operand stack.
func (m *Memory) Load(offset, index uint32, length uint32) ([]byte, error) {
	start := uint64(index) + uint64(offset)
	end := start + uint64(length)
	if end > m.byteSize() {
		return nil, errMemoryOutOfBounds
	}
	return m.data[start:end], nil
}

// Store writes values at offset+index.
func (m *Memory) Store(offset, index uint32, values []byte) error {
	start := uint64(index) + uint64(offset)
	if start+uint64(len(values)) > m.byteSize() {
		return errMemoryOutOfBounds
	}
	copy(m.data[start:], values)
	return nil
}

// InitSegment copies n bytes from a data segment's content into memory,
// as performed once at module-commit time for active segments.
func (m *Memory) InitSegment(destOffset, srcOffset, n uint32, content []byte) error {
	if uint64(srcOffset)+uint64(n) > uint64(len(content)) ||
		uint64(destOffset)+uint64(n) > m.byteSize() {
		return errMemoryOutOfBounds
	}
	copy(m.data[destOffset:destOffset+n], content[srcOffset:srcOffset+n])
	return nil
}
