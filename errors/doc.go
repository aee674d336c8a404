// Package errors provides structured error types for the wasmtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). These cover the recoverable class of failures only:
// bad tooling input, unsupported targets, out-of-range diagnostic reads.
// Violated stack-walking invariants are never represented as errors; those
// panic, because they signal stack corruption or a code-generation defect
// with no safe way to continue.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseFixture, errors.KindInvalidInput).
//		Detail("region %d has negative frame count %d", i, n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidInput(errors.PhaseTool, "shape must name at least one region")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
