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

// Config controls resource limits applied while translating a module.
type Config struct {
	// MaxLocalIndex bounds how many combined params+locals a single
	// function may declare, guarding against pathologically large
	// functions consuming unbounded translator memory. Default: 50000.
	MaxLocalIndex uint32

	// MaxLabelDepth bounds how deeply block/loop/if constructs may nest
	// within a single function body. Default: 1000.
	MaxLabelDepth uint32

	// EnforceHostGlobalTypes, when true, rejects a host-imported global
	// whose delegate-populated type or mutability disagrees with the
	// import's declared GlobalType. wabt's own reader leaves this
	// unchecked; this module defaults to the stricter behavior.
	EnforceHostGlobalTypes bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxLocalIndex:          50000,
		MaxLabelDepth:          1000,
		EnforceHostGlobalTypes: true,
	}
}
