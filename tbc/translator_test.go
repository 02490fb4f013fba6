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
	"bytes"
	"testing"

	"github.com/ziggy42/tbc/wabt"
)

// translateWat compiles wat with wat2wasm and translates the result into a
// fresh Environment, failing the test on any error.
func translateWat(t *testing.T, name, wat string) (*Environment, *Module) {
	t.Helper()
	wasm, err := wabt.Wat2Wasm(wat)
	if err != nil {
		t.Fatalf("wat2wasm failed: %v", err)
	}
	env := NewEnvironment()
	mod, err := Translate(bytes.NewReader(wasm), env, name, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("translating module failed: %v", err)
	}
	return env, mod
}

func TestTranslateEmptyModule(t *testing.T) {
	env, mod := translateWat(t, "empty", "(module)")
	if mod.IstreamEnd < mod.IstreamStart {
		t.Errorf("IstreamEnd %d < IstreamStart %d", mod.IstreamEnd, mod.IstreamStart)
	}
	if len(env.Funcs) != 0 {
		t.Errorf("expected no functions, got %d", len(env.Funcs))
	}
}

func TestTranslateExportedFunction(t *testing.T) {
	wat := `(module
  (func (export "sum") (param i32 i32) (result i32)
    local.get 0
    local.get 1
    i32.add))`
	env, mod := translateWat(t, "sum", wat)

	export, ok := mod.FindExport("sum")
	if !ok {
		t.Fatalf("export %q not found", "sum")
	}
	if export.Kind != ExternalFunc {
		t.Fatalf("expected function export, got %v", export.Kind)
	}

	in := NewInterpreter(env)
	results, err := in.Invoke(mod, "sum", []any{int32(2), int32(3)})
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if len(results) != 1 || results[0].(int32) != 5 {
		t.Errorf("sum(2, 3) = %v, want [5]", results)
	}
}

func TestTranslateLocalIndexLimitRejected(t *testing.T) {
	wat := `(module
  (func (export "bad") (param i32) (local i32 i32)
    local.get 2
    drop))`
	wasm, err := wabt.Wat2Wasm(wat)
	if err != nil {
		t.Fatalf("wat2wasm failed: %v", err)
	}
	env := NewEnvironment()
	cfg := Config{MaxLocalIndex: 2, MaxLabelDepth: 1000, EnforceHostGlobalTypes: true}
	if _, err := Translate(bytes.NewReader(wasm), env, "bad", cfg, nil); err == nil {
		t.Fatalf("expected translation exceeding MaxLocalIndex to fail")
	}
	if len(env.Modules) != 0 {
		t.Errorf("expected failed translation to roll back the Environment, got %d modules", len(env.Modules))
	}
}

func TestTranslateBranchesAndLoops(t *testing.T) {
	wat := `(module
  (func (export "countdown") (param i32) (result i32)
    (local i32)
    local.get 0
    local.set 1
    (block
      (loop
        local.get 1
        i32.eqz
        br_if 1
        local.get 1
        i32.const 1
        i32.sub
        local.set 1
        br 0))
    local.get 1))`
	env, mod := translateWat(t, "countdown", wat)

	in := NewInterpreter(env)
	results, err := in.Invoke(mod, "countdown", []any{int32(10)})
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if len(results) != 1 || results[0].(int32) != 0 {
		t.Errorf("countdown(10) = %v, want [0]", results)
	}
}

func TestTranslateIfElse(t *testing.T) {
	wat := `(module
  (func (export "abs") (param i32) (result i32)
    local.get 0
    i32.const 0
    i32.lt_s
    (if (result i32)
      (then
        i32.const 0
        local.get 0
        i32.sub)
      (else
        local.get 0))))`
	env, mod := translateWat(t, "abs", wat)

	in := NewInterpreter(env)
	for _, tc := range []struct{ in, want int32 }{
		{-7, 7},
		{7, 7},
		{0, 0},
	} {
		results, err := in.Invoke(mod, "abs", []any{tc.in})
		if err != nil {
			t.Fatalf("invoke(%d) failed: %v", tc.in, err)
		}
		if results[0].(int32) != tc.want {
			t.Errorf("abs(%d) = %v, want %d", tc.in, results[0], tc.want)
		}
	}
}

func TestTranslateRecursiveCall(t *testing.T) {
	wat := `(module
  (func $fact (export "fact") (param i32) (result i32)
    local.get 0
    i32.const 1
    i32.le_s
    (if (result i32)
      (then
        i32.const 1)
      (else
        local.get 0
        local.get 0
        i32.const 1
        i32.sub
        call $fact
        i32.mul))))`
	env, mod := translateWat(t, "fact", wat)

	in := NewInterpreter(env)
	results, err := in.Invoke(mod, "fact", []any{int32(5)})
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if results[0].(int32) != 120 {
		t.Errorf("fact(5) = %v, want [120]", results)
	}
}

func TestTranslateGlobalsAndStart(t *testing.T) {
	wat := `(module
  (global $g (mut i32) (i32.const 0))
  (func $init
    i32.const 42
    global.set $g)
  (start $init)
  (func (export "get") (result i32)
    global.get $g))`
	env, mod := translateWat(t, "globals", wat)

	in := NewInterpreter(env)
	if err := in.RunStart(mod); err != nil {
		t.Fatalf("RunStart failed: %v", err)
	}
	results, err := in.Invoke(mod, "get", nil)
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if results[0].(int32) != 42 {
		t.Errorf("get() = %v, want [42]", results)
	}
}

func TestTranslateMemoryLoadStore(t *testing.T) {
	wat := `(module
  (memory 1)
  (func (export "poke") (param i32 i32)
    local.get 0
    local.get 1
    i32.store)
  (func (export "peek") (param i32) (result i32)
    local.get 0
    i32.load))`
	env, mod := translateWat(t, "mem", wat)

	in := NewInterpreter(env)
	if _, err := in.Invoke(mod, "poke", []any{int32(8), int32(99)}); err != nil {
		t.Fatalf("poke failed: %v", err)
	}
	results, err := in.Invoke(mod, "peek", []any{int32(8)})
	if err != nil {
		t.Fatalf("peek failed: %v", err)
	}
	if results[0].(int32) != 99 {
		t.Errorf("peek(8) = %v, want [99]", results)
	}
}

func TestTranslateHostImportCall(t *testing.T) {
	wat := `(module
  (import "env" "double" (func $double (param i32) (result i32)))
  (func (export "quad") (param i32) (result i32)
    local.get 0
    call $double
    call $double))`

	env := NewEnvironment()
	env.RegisterHostImportDelegate("env", &FuncImportDelegate{
		Resolve: func(field string) (HostFunctionCallback, bool) {
			if field != "double" {
				return nil, false
			}
			return func(args []any) ([]any, error) {
				return []any{args[0].(int32) * 2}, nil
			}, true
		},
	})

	wasm, err := wabt.Wat2Wasm(wat)
	if err != nil {
		t.Fatalf("wat2wasm failed: %v", err)
	}
	mod, err := Translate(bytes.NewReader(wasm), env, "quad", DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("translating module failed: %v", err)
	}

	in := NewInterpreter(env)
	results, err := in.Invoke(mod, "quad", []any{int32(5)})
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if results[0].(int32) != 20 {
		t.Errorf("quad(5) = %v, want [20]", results)
	}
}

// TestTranslateBrIfDropsOperandsUnderIt exercises a br_if that must run
// DropKeep on its taken path: the values below the branch's kept result must
// still be there once the branch's condition is popped, not shifted by it.
func TestTranslateBrIfDropsOperandsUnderIt(t *testing.T) {
	wat := `(module
  (func (export "pick") (result i32)
    (block $b (result i32)
      i32.const 10
      i32.const 20
      i32.const 1
      br_if $b
      drop
      drop
      i32.const 30)))`
	env, mod := translateWat(t, "pick", wat)

	in := NewInterpreter(env)
	results, err := in.Invoke(mod, "pick", nil)
	if err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if results[0].(int32) != 20 {
		t.Errorf("pick() = %v, want [20]", results)
	}
}
