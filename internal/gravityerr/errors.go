// Package gravityerr defines the error kinds Gravity reports to the caller.
//
// Each sentinel corresponds to one of the failure modes enumerated in the
// generator's error-handling design: a single kind is attached to the
// deepest error via fmt.Errorf("...: %w", ...) so that callers can recover
// it with errors.Is, while the wrapped message carries the offending
// identifier for diagnosis.
package gravityerr

import "errors"

var (
	// ErrCliUsage indicates the command line was malformed.
	ErrCliUsage = errors.New("usage error")

	// ErrIo indicates a failure reading the input module or writing the
	// generated output.
	ErrIo = errors.New("io error")

	// ErrInvalidWasm indicates the input bytes are not a well-formed Core
	// Wasm module.
	ErrInvalidWasm = errors.New("invalid wasm module")

	// ErrMissingWitSection indicates the module carries no WIT custom
	// section.
	ErrMissingWitSection = errors.New("missing wit custom section")

	// ErrWorldNotFound indicates the requested world name does not exist
	// in the module's WIT metadata.
	ErrWorldNotFound = errors.New("world not found")

	// ErrUnsupportedType indicates a WIT construct outside the supported
	// type set (tuples, resources, streams, futures at the function
	// boundary, non-string option/result payloads).
	ErrUnsupportedType = errors.New("unsupported wit type")

	// ErrOptimizationFailure indicates the module size-reduction pass
	// failed.
	ErrOptimizationFailure = errors.New("optimization failed")

	// ErrInternal indicates a violated invariant in the generator itself:
	// an instruction consumed more operands than were on the stack, or the
	// stack was non-empty when a function's trace terminated.
	ErrInternal = errors.New("internal error")
)
