// Package errors provides structured error types for the gargoyle bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending class name, member path, offending value
// (a signature fragment, a status code) and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExtract, errors.KindSignature).
//		Class("com.x.Outer").
//		Path("methods", "run").
//		Detail("cannot decode %q", sig).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ClassNotFound("com.x.Missing", nil)
//	err := errors.Signature("(I", "(I", "missing ')'")
//
// Kind-only sentinels make taxonomy checks independent of where the error
// was raised:
//
//	if errors.Is(err, gerrors.ErrRestartForbidden) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
