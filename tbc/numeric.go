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
	"errors"
	"math"
	"math/bits"
)

var (
	errIntegerDivideByZero        = errors.New("integer divide by zero")
	errIntegerDivideOverflow      = errors.New("integer divide overflow")
	errInvalidConversionToInteger = errors.New("invalid conversion to integer")
	errIntegerOverflow            = errors.New("integer overflow")
)

const (
	maxInt32Plus1  = 2147483648.0
	maxUint32Plus1 = 4294967296.0
	maxInt64Plus1  = 9223372036854775808.0
	maxUint64Plus1 = 18446744073709551616.0
)

type wasmInt interface{ int32 | int64 }
type wasmFloat interface{ float32 | float64 }

func addI[T wasmInt](a, b T) T { return a + b }
func subI[T wasmInt](a, b T) T { return a - b }
func mulI[T wasmInt](a, b T) T { return a * b }

func divS32(a, b int32) (int32, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	if a == math.MinInt32 && b == -1 {
		return 0, errIntegerDivideOverflow
	}
	return a / b, nil
}

func divS64(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	if a == math.MinInt64 && b == -1 {
		return 0, errIntegerDivideOverflow
	}
	return a / b, nil
}

func divU32(a, b int32) (int32, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	return int32(uint32(a) / uint32(b)), nil
}

func divU64(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	return int64(uint64(a) / uint64(b)), nil
}

func remS32(a, b int32) (int32, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	return a % b, nil
}

func remS64(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	return a % b, nil
}

func remU32(a, b int32) (int32, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	return int32(uint32(a) % uint32(b)), nil
}

func remU64(a, b int64) (int64, error) {
	if b == 0 {
		return 0, errIntegerDivideByZero
	}
	return int64(uint64(a) % uint64(b)), nil
}

func andI[T wasmInt](a, b T) T { return a & b }
func orI[T wasmInt](a, b T) T  { return a | b }
func xorI[T wasmInt](a, b T) T { return a ^ b }

func shl32(a, b int32) int32   { return a << (uint32(b) % 32) }
func shrS32(a, b int32) int32  { return a >> (uint32(b) % 32) }
func shrU32(a, b int32) int32  { return int32(uint32(a) >> (uint32(b) % 32)) }
func shl64(a, b int64) int64   { return a << (uint64(b) % 64) }
func shrS64(a, b int64) int64  { return a >> (uint64(b) % 64) }
func shrU64(a, b int64) int64  { return int64(uint64(a) >> (uint64(b) % 64)) }

func rotl32(a, b int32) int32 { return int32(bits.RotateLeft32(uint32(a), int(b))) }
func rotr32(a, b int32) int32 { return int32(bits.RotateLeft32(uint32(a), -int(b))) }
func rotl64(a, b int64) int64 { return int64(bits.RotateLeft64(uint64(a), int(b))) }
func rotr64(a, b int64) int64 { return int64(bits.RotateLeft64(uint64(a), -int(b))) }

func clz32(a int32) int32    { return int32(bits.LeadingZeros32(uint32(a))) }
func clz64(a int64) int64    { return int64(bits.LeadingZeros64(uint64(a))) }
func ctz32(a int32) int32    { return int32(bits.TrailingZeros32(uint32(a))) }
func ctz64(a int64) int64    { return int64(bits.TrailingZeros64(uint64(a))) }
func popcnt32(a int32) int32 { return int32(bits.OnesCount32(uint32(a))) }
func popcnt64(a int64) int64 { return int64(bits.OnesCount64(uint64(a))) }

func addF[T wasmFloat](a, b T) T { return a + b }
func subF[T wasmFloat](a, b T) T { return a - b }
func mulF[T wasmFloat](a, b T) T { return a * b }
func divF[T wasmFloat](a, b T) T { return a / b }

func absF[T wasmFloat](a T) T      { return T(math.Abs(float64(a))) }
func ceilF[T wasmFloat](a T) T     { return T(math.Ceil(float64(a))) }
func floorF[T wasmFloat](a T) T    { return T(math.Floor(float64(a))) }
func truncF[T wasmFloat](a T) T    { return T(math.Trunc(float64(a))) }
func sqrtF[T wasmFloat](a T) T     { return T(math.Sqrt(float64(a))) }
func minF[T wasmFloat](a, b T) T   { return min(a, b) }
func maxF[T wasmFloat](a, b T) T   { return max(a, b) }
func copysignF[T wasmFloat](a, b T) T {
	return T(math.Copysign(float64(a), float64(b)))
}

func nearestF[T wasmFloat](a T) T {
	f64 := float64(a)
	return T(math.Copysign(math.RoundToEven(f64), f64))
}

func truncF32SToI32(a float32) (int32, error) {
	if math.IsNaN(float64(a)) {
		return 0, errInvalidConversionToInteger
	}
	truncated := math.Trunc(float64(a))
	if truncated < math.MinInt32 || truncated >= maxInt32Plus1 {
		return 0, errIntegerOverflow
	}
	return int32(truncated), nil
}

func truncF32UToI32(a float32) (int32, error) {
	if math.IsNaN(float64(a)) {
		return 0, errInvalidConversionToInteger
	}
	truncated := math.Trunc(float64(a))
	if truncated < 0 || truncated >= maxUint32Plus1 {
		return 0, errIntegerOverflow
	}
	return int32(uint32(truncated)), nil
}

func truncF64SToI32(a float64) (int32, error) {
	if math.IsNaN(a) {
		return 0, errInvalidConversionToInteger
	}
	truncated := math.Trunc(a)
	if truncated < math.MinInt32 || truncated >= maxInt32Plus1 {
		return 0, errIntegerOverflow
	}
	return int32(truncated), nil
}

func truncF64UToI32(a float64) (int32, error) {
	if math.IsNaN(a) {
		return 0, errInvalidConversionToInteger
	}
	truncated := math.Trunc(a)
	if truncated < 0 || truncated >= maxUint32Plus1 {
		return 0, errIntegerOverflow
	}
	return int32(uint32(truncated)), nil
}

func truncF32SToI64(a float32) (int64, error) {
	if math.IsNaN(float64(a)) {
		return 0, errInvalidConversionToInteger
	}
	truncated := math.Trunc(float64(a))
	if truncated < math.MinInt64 || truncated >= maxInt64Plus1 {
		return 0, errIntegerOverflow
	}
	return int64(truncated), nil
}

func truncF32UToI64(a float32) (int64, error) {
	if math.IsNaN(float64(a)) {
		return 0, errInvalidConversionToInteger
	}
	truncated := math.Trunc(float64(a))
	if truncated < 0 || truncated >= maxUint64Plus1 {
		return 0, errIntegerOverflow
	}
	return int64(uint64(truncated)), nil
}

func truncF64SToI64(a float64) (int64, error) {
	if math.IsNaN(a) {
		return 0, errInvalidConversionToInteger
	}
	truncated := math.Trunc(a)
	if truncated < math.MinInt64 || truncated >= maxInt64Plus1 {
		return 0, errIntegerOverflow
	}
	return int64(truncated), nil
}

func truncF64UToI64(a float64) (int64, error) {
	if math.IsNaN(a) {
		return 0, errInvalidConversionToInteger
	}
	truncated := math.Trunc(a)
	if truncated < 0 || truncated >= maxUint64Plus1 {
		return 0, errIntegerOverflow
	}
	return int64(uint64(truncated)), nil
}
