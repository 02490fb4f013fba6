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
)

func TestDecodeRejectsBadMagic(t *testing.T) {
	env := NewEnvironment()
	_, err := Translate(bytes.NewReader([]byte("not wasm")), env, "bad", DefaultConfig(), nil)
	if err == nil {
		t.Fatalf("expected a missing-magic module to fail decoding")
	}
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	header := []byte{0x00, 0x61, 0x73, 0x6d, 0x02, 0x00, 0x00, 0x00}
	env := NewEnvironment()
	_, err := Translate(bytes.NewReader(header), env, "bad", DefaultConfig(), nil)
	if err == nil {
		t.Fatalf("expected an unsupported-version module to fail decoding")
	}
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	header := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00}
	env := NewEnvironment()
	_, err := Translate(bytes.NewReader(header), env, "bad", DefaultConfig(), nil)
	if err == nil {
		t.Fatalf("expected a truncated header to fail decoding")
	}
}
