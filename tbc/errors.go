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

// Phase identifies which stage of translation produced an Error.
type Phase string

const (
	PhaseDecode    Phase = "decode"
	PhaseValidate  Phase = "validate"
	PhaseTypecheck Phase = "typecheck"
	PhaseCommit    Phase = "commit"
)

// Kind enumerates the distinct error conditions a translation can raise.
type Kind string

const (
	KindUnknownImportModule       Kind = "unknown_import_module"
	KindUnknownImportField        Kind = "unknown_import_field"
	KindImportKindMismatch        Kind = "import_kind_mismatch"
	KindImportLimitsTooLoose      Kind = "import_limits_too_loose"
	KindDuplicateExport           Kind = "duplicate_export"
	KindMutableGlobalExport       Kind = "mutable_global_export"
	KindImmutableGlobalWrite      Kind = "immutable_global_write"
	KindInitTypeMismatch          Kind = "init_type_mismatch"
	KindInitNonImportedGlobal     Kind = "init_references_non_imported_global"
	KindInitMutableGlobal         Kind = "init_references_mutable_global"
	KindDuplicateTable            Kind = "duplicate_table"
	KindDuplicateMemory           Kind = "duplicate_memory"
	KindMissingMemory             Kind = "missing_memory"
	KindMissingTable              Kind = "missing_table"
	KindAlignmentTooLarge         Kind = "alignment_too_large"
	KindInvalidLocalIndex         Kind = "invalid_local_index"
	KindInvalidGlobalIndex        Kind = "invalid_global_index"
	KindInvalidFuncIndex          Kind = "invalid_func_index"
	KindInvalidSigIndex           Kind = "invalid_sig_index"
	KindInvalidTableIndex         Kind = "invalid_table_index"
	KindElementOutOfBounds        Kind = "element_out_of_bounds"
	KindDataOutOfBounds           Kind = "data_out_of_bounds"
	KindStartFunctionSignatureBad Kind = "start_function_signature_bad"
	KindTypeMismatch              Kind = "type_mismatch"
	KindStackUnderflow            Kind = "stack_underflow"
	KindInvalidBlockSignature     Kind = "invalid_block_signature"
	KindInvalidBranchDepth        Kind = "invalid_branch_depth"
	KindUnreachableBlockEnd       Kind = "unreachable_block_end"
	KindMalformedModule           Kind = "malformed_module"
	KindResourceLimitExceeded     Kind = "resource_limit_exceeded"
)

// Error is the structured error type every translator failure returns. The
// Decoder's own read and encoding failures (a truncated module, a bad
// header, malformed LEB128) are plain errors, and Translate returns them
// unchanged. Phase and Kind together identify the condition independent of
// the human-readable Message, so callers can match on them with errors.Is.
type Error struct {
	Phase   Phase
	Kind    Kind
	Offset  uint32
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s at offset %d", e.Phase, e.Kind, e.Offset)
	}
	return fmt.Sprintf("%s: %s at offset %d: %s", e.Phase, e.Kind, e.Offset, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Phase and Kind,
// ignoring Offset/Message/Cause; an empty Phase or Kind in target matches
// any value. This lets callers build sentinel-style
// comparisons (e.g. &Error{Phase: PhaseCommit, Kind: KindMissingMemory})
// without needing the exact offset or message text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return true
}

func newErr(phase Phase, kind Kind, offset uint32, format string, args ...any) *Error {
	return &Error{Phase: phase, Kind: kind, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func wrapErr(phase Phase, kind Kind, offset uint32, cause error, format string, args ...any) *Error {
	return &Error{Phase: phase, Kind: kind, Offset: offset, Message: fmt.Sprintf(format, args...), Cause: cause}
}
