// Package jvm declares the API of the embedded class-based runtime as the
// bridge consumes it.
//
// The runtime is an external collaborator. It is reached through three
// interfaces:
//
//	Launcher   creates the runtime once per process (start options in, VM out)
//	Env        the call-context API: class lookup, object creation, method
//	           invocation, reference management, pending exceptions
//	Inspector  the introspection API: modifiers, interfaces, declared members
//	           and their names and signatures, reporting named error codes
//
// # References
//
// Every Ref returned by Env or Inspector is a local reference: it is valid on
// the calling context until DeleteLocalRef, and must not be stored past the
// operation that produced it. NewGlobalRef promotes a reference to a durable
// one that survives until DeleteGlobalRef. The zero Ref is the null reference.
//
// # Exceptions
//
// Env reports failures in-band: the call returns a zero value and leaves an
// exception pending. Callers must check ExceptionOccurred after every call
// that can raise and clear it before making further calls.
//
// Inspector reports failures by returning a non-zero ErrorCode and never
// raises exceptions.
package jvm
