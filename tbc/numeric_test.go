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
	"math"
	"testing"
)

func TestDivS32Overflow(t *testing.T) {
	if _, err := divS32(math.MinInt32, -1); err != errIntegerDivideOverflow {
		t.Errorf("divS32(MinInt32, -1) error = %v, want errIntegerDivideOverflow", err)
	}
}

func TestDivS32DivideByZero(t *testing.T) {
	if _, err := divS32(1, 0); err != errIntegerDivideByZero {
		t.Errorf("divS32(1, 0) error = %v, want errIntegerDivideByZero", err)
	}
}

func TestDivU32TreatsOperandsAsUnsigned(t *testing.T) {
	got, err := divU32(-1, 2) // 0xffffffff / 2
	if err != nil {
		t.Fatalf("divU32 failed: %v", err)
	}
	if want := int32(uint32(0x7fffffff)); got != want {
		t.Errorf("divU32(-1, 2) = %d, want %d", got, want)
	}
}

func TestRemS32KeepsSignOfDividend(t *testing.T) {
	got, err := remS32(-7, 2)
	if err != nil {
		t.Fatalf("remS32 failed: %v", err)
	}
	if got != -1 {
		t.Errorf("remS32(-7, 2) = %d, want -1", got)
	}
}

func TestShiftsMaskByWidth(t *testing.T) {
	if got := shl32(1, 32); got != 1 {
		t.Errorf("shl32(1, 32) = %d, want 1 (shift amount mod 32)", got)
	}
	if got := shrU64(-1, 64); got != -1 {
		t.Errorf("shrU64(-1, 64) = %d, want -1 (shift amount mod 64)", got)
	}
}

func TestRotatesAreInverses(t *testing.T) {
	v := int32(0x12345678)
	if got := rotr32(rotl32(v, 9), 9); got != v {
		t.Errorf("rotr32(rotl32(v, 9), 9) = %#x, want %#x", got, v)
	}
}

func TestClzCtzPopcnt32(t *testing.T) {
	if got := clz32(1); got != 31 {
		t.Errorf("clz32(1) = %d, want 31", got)
	}
	if got := ctz32(8); got != 3 {
		t.Errorf("ctz32(8) = %d, want 3", got)
	}
	if got := popcnt32(0x0f); got != 4 {
		t.Errorf("popcnt32(0x0f) = %d, want 4", got)
	}
}

func TestTruncF64SToI32Overflow(t *testing.T) {
	if _, err := truncF64SToI32(1e10); err != errIntegerOverflow {
		t.Errorf("truncF64SToI32(1e10) error = %v, want errIntegerOverflow", err)
	}
}

func TestTruncF64SToI32NaN(t *testing.T) {
	if _, err := truncF64SToI32(math.NaN()); err != errInvalidConversionToInteger {
		t.Errorf("truncF64SToI32(NaN) error = %v, want errInvalidConversionToInteger", err)
	}
}

func TestTruncF64UToI32RejectsNegative(t *testing.T) {
	if _, err := truncF64UToI32(-1); err != errIntegerOverflow {
		t.Errorf("truncF64UToI32(-1) error = %v, want errIntegerOverflow", err)
	}
}

func TestTruncF32SToI64(t *testing.T) {
	got, err := truncF32SToI64(-123.75)
	if err != nil {
		t.Fatalf("truncF32SToI64 failed: %v", err)
	}
	if got != -123 {
		t.Errorf("truncF32SToI64(-123.75) = %d, want -123", got)
	}
}

func TestNearestFRoundsToEven(t *testing.T) {
	if got := nearestF(float64(2.5)); got != 2 {
		t.Errorf("nearestF(2.5) = %v, want 2", got)
	}
	if got := nearestF(float64(3.5)); got != 4 {
		t.Errorf("nearestF(3.5) = %v, want 4", got)
	}
}

func TestCopysignF(t *testing.T) {
	if got := copysignF(float32(3), float32(-1)); got != -3 {
		t.Errorf("copysignF(3, -1) = %v, want -3", got)
	}
}
