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

import "testing"

func TestInterpreterBrTable(t *testing.T) {
	wat := `(module
  (func (export "classify") (param i32) (result i32)
    (block $default
      (block $two
        (block $one
          (block $zero
            local.get 0
            br_table $zero $one $two $default)
          (return (i32.const 100)))
        (return (i32.const 101)))
      (return (i32.const 102)))
    (i32.const 103)))`
	env, mod := translateWat(t, "classify", wat)

	in := NewInterpreter(env)
	for _, tc := range []struct{ in, want int32 }{
		{0, 100},
		{1, 101},
		{2, 102},
		{99, 103},
	} {
		results, err := in.Invoke(mod, "classify", []any{tc.in})
		if err != nil {
			t.Fatalf("classify(%d) failed: %v", tc.in, err)
		}
		if results[0].(int32) != tc.want {
			t.Errorf("classify(%d) = %v, want %d", tc.in, results[0], tc.want)
		}
	}
}

func TestInterpreterSelect(t *testing.T) {
	wat := `(module
  (func (export "pick") (param i32 i32 i32) (result i32)
    local.get 0
    local.get 1
    local.get 2
    select))`
	env, mod := translateWat(t, "pick", wat)

	in := NewInterpreter(env)
	results, err := in.Invoke(mod, "pick", []any{int32(11), int32(22), int32(1)})
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if results[0].(int32) != 11 {
		t.Errorf("pick(11, 22, 1) = %v, want [11]", results)
	}

	results, err = in.Invoke(mod, "pick", []any{int32(11), int32(22), int32(0)})
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if results[0].(int32) != 22 {
		t.Errorf("pick(11, 22, 0) = %v, want [22]", results)
	}
}

func TestInterpreterCallIndirect(t *testing.T) {
	wat := `(module
  (type $binop (func (param i32 i32) (result i32)))
  (func $add (param i32 i32) (result i32)
    local.get 0
    local.get 1
    i32.add)
  (func $mul (param i32 i32) (result i32)
    local.get 0
    local.get 1
    i32.mul)
  (table funcref (elem $add $mul))
  (func (export "apply") (param i32 i32 i32) (result i32)
    local.get 0
    local.get 1
    local.get 2
    call_indirect (type $binop)))`
	env, mod := translateWat(t, "apply", wat)

	in := NewInterpreter(env)
	results, err := in.Invoke(mod, "apply", []any{int32(3), int32(4), int32(0)})
	if err != nil {
		t.Fatalf("apply via slot 0 failed: %v", err)
	}
	if results[0].(int32) != 7 {
		t.Errorf("apply(3, 4, 0) = %v, want [7]", results)
	}

	results, err = in.Invoke(mod, "apply", []any{int32(3), int32(4), int32(1)})
	if err != nil {
		t.Fatalf("apply via slot 1 failed: %v", err)
	}
	if results[0].(int32) != 12 {
		t.Errorf("apply(3, 4, 1) = %v, want [12]", results)
	}
}

func TestInterpreterCallIndirectSignatureMismatch(t *testing.T) {
	wat := `(module
  (type $unop (func (param i32) (result i32)))
  (type $binop (func (param i32 i32) (result i32)))
  (func $add (param i32 i32) (result i32)
    local.get 0
    local.get 1
    i32.add)
  (table funcref (elem $add))
  (func (export "bad") (result i32)
    i32.const 5
    i32.const 0
    call_indirect (type $unop)))`
	env, mod := translateWat(t, "bad", wat)

	in := NewInterpreter(env)
	if _, err := in.Invoke(mod, "bad", nil); err == nil {
		t.Fatalf("expected call_indirect through a mismatched signature to fail")
	}
}

func TestInterpreterMemoryGrow(t *testing.T) {
	wat := `(module
  (memory 1 4)
  (func (export "grow") (param i32) (result i32)
    local.get 0
    memory.grow)
  (func (export "size") (result i32)
    memory.size))`
	env, mod := translateWat(t, "grow", wat)

	in := NewInterpreter(env)
	results, err := in.Invoke(mod, "grow", []any{int32(2)})
	if err != nil {
		t.Fatalf("grow failed: %v", err)
	}
	if results[0].(int32) != 1 {
		t.Errorf("grow(2) = %v, want [1] (previous size in pages)", results)
	}
	results, err = in.Invoke(mod, "size", nil)
	if err != nil {
		t.Fatalf("size failed: %v", err)
	}
	if results[0].(int32) != 3 {
		t.Errorf("size() = %v, want [3]", results)
	}
}

func TestInterpreterUnreachableTraps(t *testing.T) {
	wat := `(module
  (func (export "boom")
    unreachable))`
	env, mod := translateWat(t, "boom", wat)

	in := NewInterpreter(env)
	if _, err := in.Invoke(mod, "boom", nil); err != errUnreachableExecuted {
		t.Errorf("boom() error = %v, want errUnreachableExecuted", err)
	}
}
