// Package errors provides structured error types for the wasm-array library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: element path, Go/WIT type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseWrap, errors.KindSizeMismatch).
//		GoType("uint64").
//		WitType("u32").
//		Detail("array elements are not the correct size").
//		Build()
//
// Contract violations are not returned; they are raised with Fatal (or
// Builder.Panic) and can be recognized after recover with FromPanic:
//
//	defer func() {
//		if e, ok := errors.FromPanic(recover()); ok {
//			log.Print(e.Kind)
//		}
//	}()
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
