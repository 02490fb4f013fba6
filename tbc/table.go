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

var errTableOutOfBounds = errors.New("out of bounds table access")

// Table holds function indices (env-global, post index-mapping) reachable
// via call_indirect.
type Table struct {
	Type     TableType
	elements []int32
}

// NewTable allocates a Table filled with NullReference up to its min size.
func NewTable(t TableType) *Table {
	elems := make([]int32, t.Limits.Min)
	for i := range elems {
		elems[i] = NullReference
	}
	return &Table{Type: t, elements: elems}
}

func (t *Table) Size() int32 { return int32(len(t.elements)) }

func (t *Table) Get(index int32) (int32, error) {
	if index < 0 || index >= t.Size() {
		return 0, errTableOutOfBounds
	}
	return t.elements[index], nil
}

func (t *Table) Set(index, value int32) error {
	if index < 0 || index >= t.Size() {
		return errTableOutOfBounds
	}
	t.elements[index] = value
	return nil
}

// InitSegment writes an element segment's (already index-mapped) function
// indices into the table starting at destOffset, once at commit time.
func (t *Table) InitSegment(destOffset uint32, funcIndexes []int32) error {
	end := uint64(destOffset) + uint64(len(funcIndexes))
	if end > uint64(t.Size()) {
		return errTableOutOfBounds
	}
	copy(t.elements[destOffset:], funcIndexes)
	return nil
}
