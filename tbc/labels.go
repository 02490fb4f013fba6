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

// labelKind classifies why a label was pushed, since loop labels resolve
// their branch target immediately while block/if labels resolve it only at
// the matching End.
type labelKind int

const (
	labelFunc labelKind = iota
	labelBlock
	labelLoop
	labelIf
	labelElse
)

// label is one entry of the active block/loop/if/else/function nest. It
// tracks everything a forward or backward branch to this label needs: the
// istream offset to jump to (once known), the operand stack height at
// entry (to compute drop counts), and the label's result arity (to compute
// keep counts).
type label struct {
	kind labelKind

	// target is the absolute istream offset execution continues at when a
	// branch to this label resolves. For a loop it is known immediately
	// (the loop's first instruction); for a block/if it is not known until
	// the matching End, so it starts as kInvalidIstreamOffset.
	target uint32

	// fixup is used by If and Else. For If it is the istream offset of the
	// forward branch emitted for a false condition, patched to the Else (or
	// End, if there is no Else) offset once known. For Else it is the
	// offset of the branch that skips the else arm at the end of the then
	// arm, patched at End.
	fixup uint32

	// height is the operand stack depth when the label was entered, i.e.
	// the depth branches to this label must unwind back down to (after
	// accounting for the values the label's signature keeps).
	height uint32

	resultTypes []ValueType

	// pendingFixups holds the istream offsets of 4-byte branch-target
	// placeholders emitted before this label's target offset was known.
	// Patched at End for block/if/else. A loop's target is known when it is
	// entered, so branches to a loop never add entries here.
	pendingFixups []uint32
}

// labelStack is the active nest of control-flow labels for the function
// currently being translated, one entry per block/loop/if/else plus a
// permanent bottom entry representing the function body itself.
type labelStack struct {
	labels []label
}

func newLabelStack() *labelStack {
	return &labelStack{}
}

func (s *labelStack) push(l label) {
	s.labels = append(s.labels, l)
}

func (s *labelStack) pop() label {
	n := len(s.labels) - 1
	l := s.labels[n]
	s.labels = s.labels[:n]
	return l
}

// top returns the innermost label (depth 0).
func (s *labelStack) top() *label {
	return &s.labels[len(s.labels)-1]
}

// at returns the label at the given branch depth (0 = innermost).
func (s *labelStack) at(depth uint32) (*label, bool) {
	idx := len(s.labels) - 1 - int(depth)
	if idx < 0 {
		return nil, false
	}
	return &s.labels[idx], true
}

func (s *labelStack) len() int { return len(s.labels) }

// funcFixups holds, for each defined-function index called before that
// function's body has been translated (a forward call), the istream
// offsets of the 4-byte placeholders needing the function's istream entry
// offset once it is translated. Unlike labelStack, this persists across an
// entire module's translation rather than a single function body, since a
// call in function 0 may target function 5 which hasn't been compiled yet.
type funcFixups struct {
	byDefinedIndex map[uint32][]uint32
}

func newFuncFixups() *funcFixups {
	return &funcFixups{byDefinedIndex: make(map[uint32][]uint32)}
}

// add records that the 4-byte placeholder at offset needs to be patched
// once definedFuncIndex's body has a known istream offset.
func (f *funcFixups) add(definedFuncIndex uint32, offset uint32) {
	f.byDefinedIndex[definedFuncIndex] = append(f.byDefinedIndex[definedFuncIndex], offset)
}

// take removes and returns the fixups queued for a just-compiled defined
// function.
func (f *funcFixups) take(definedFuncIndex uint32) []uint32 {
	offs := f.byDefinedIndex[definedFuncIndex]
	delete(f.byDefinedIndex, definedFuncIndex)
	return offs
}
