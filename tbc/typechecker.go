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

// typeFrame is one entry of the type checker's control-frame stack, one per
// active block/loop/if/else/function. It mirrors labelStack's label but
// carries value types instead of istream offsets, since the two stacks
// serve different purposes: labelStack resolves branch targets, typeFrame
// validates the WebAssembly stack-polymorphic type system.
type typeFrame struct {
	startTypes  []ValueType
	endTypes    []ValueType
	height      uint32 // typeStack height when this frame was entered
	unreachable bool
	kind        labelKind
}

// typeChecker runs WebAssembly's operand-stack type system: an operand
// stack of ValueType plus a control-frame stack, with one wrinkle that
// trips up naive re-implementations — once a frame becomes "unreachable"
// (after an unconditional branch, return, or unreachable instruction), the
// operand stack is polymorphic: any pop succeeds by conjuring the expected
// type, and any height below the frame's own is considered valid, because
// the validator can no longer prove what the stack actually looks like at
// that program point and the code can never run anyway.
type typeChecker struct {
	typeStack []ValueType
	frames    []typeFrame
}

func newTypeChecker() *typeChecker {
	return &typeChecker{}
}

func (tc *typeChecker) pushFrame(kind labelKind, start, end []ValueType) {
	tc.typeStack = append(tc.typeStack, start...)
	tc.frames = append(tc.frames, typeFrame{
		startTypes: start,
		endTypes:   end,
		height:     uint32(len(tc.typeStack)) - uint32(len(start)),
		kind:       kind,
	})
}

func (tc *typeChecker) topFrame() *typeFrame {
	return &tc.frames[len(tc.frames)-1]
}

func (tc *typeChecker) frameAt(depth uint32) (*typeFrame, bool) {
	idx := len(tc.frames) - 1 - int(depth)
	if idx < 0 {
		return nil, false
	}
	return &tc.frames[idx], true
}

func (tc *typeChecker) markUnreachable() {
	f := tc.topFrame()
	f.unreachable = true
	tc.typeStack = tc.typeStack[:f.height]
}

// push records that a value of type t is now on top of the operand stack.
func (tc *typeChecker) push(t ValueType) {
	tc.typeStack = append(tc.typeStack, t)
}

// pop requires and removes a value of type t from the top of the operand
// stack, tolerating the frame's polymorphic stack once unreachable.
func (tc *typeChecker) pop(t ValueType) error {
	f := tc.topFrame()
	if uint32(len(tc.typeStack)) == f.height {
		if f.unreachable {
			return nil
		}
		return fmt.Errorf("type mismatch: expected %s, stack empty", t)
	}
	got := tc.typeStack[len(tc.typeStack)-1]
	tc.typeStack = tc.typeStack[:len(tc.typeStack)-1]
	if got != t {
		return fmt.Errorf("type mismatch: expected %s, got %s", t, got)
	}
	return nil
}

// popAny pops and returns whatever type is on top, regardless of what it
// is (used for e.g. drop). Returns ok=false when the stack is already at
// the frame floor: with a nil error in an unreachable frame (the popped
// type is unknown), and with an error in a reachable one.
func (tc *typeChecker) popAny() (ValueType, bool, error) {
	f := tc.topFrame()
	if uint32(len(tc.typeStack)) == f.height {
		if f.unreachable {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("type mismatch: stack empty")
	}
	got := tc.typeStack[len(tc.typeStack)-1]
	tc.typeStack = tc.typeStack[:len(tc.typeStack)-1]
	return got, true, nil
}

// popTypes pops a sequence of types in reverse declaration order (last
// declared type is on top of the stack).
func (tc *typeChecker) popTypes(types []ValueType) error {
	for i := len(types) - 1; i >= 0; i-- {
		if err := tc.pop(types[i]); err != nil {
			return err
		}
	}
	return nil
}

func (tc *typeChecker) pushTypes(types []ValueType) {
	for _, t := range types {
		tc.push(t)
	}
}

// popFrame validates that the frame's endTypes are satisfied (or the frame
// is unreachable) and pops the frame, truncating the type stack to the
// frame's entry height. It pushes nothing; the caller pushes whatever types
// the enclosing frame sees next.
func (tc *typeChecker) popFrame() (typeFrame, error) {
	f := *tc.topFrame()
	if err := tc.popTypes(f.endTypes); err != nil {
		return typeFrame{}, err
	}
	if uint32(len(tc.typeStack)) != f.height && !f.unreachable {
		return typeFrame{}, fmt.Errorf("type mismatch: extra values left on stack at end of block")
	}
	tc.typeStack = tc.typeStack[:f.height]
	tc.frames = tc.frames[:len(tc.frames)-1]
	return f, nil
}

// checkBranch validates that the operand stack currently satisfies the
// branch-target frame's expected arity: a loop's start types (branching
// backward re-enters expecting its params) or a block/if/function's end
// types (branching forward exits with its results).
func (tc *typeChecker) checkBranch(depth uint32) ([]ValueType, error) {
	f, ok := tc.frameAt(depth)
	if !ok {
		return nil, fmt.Errorf("invalid branch depth %d", depth)
	}
	arity := f.endTypes
	if f.kind == labelLoop {
		arity = f.startTypes
	}
	saved := append([]ValueType(nil), tc.typeStack...)
	err := tc.popTypes(arity)
	tc.typeStack = saved
	if err != nil {
		return nil, err
	}
	return arity, nil
}

func (tc *typeChecker) height() uint32 { return uint32(len(tc.typeStack)) }

func (tc *typeChecker) unreachableTop() bool { return tc.topFrame().unreachable }
