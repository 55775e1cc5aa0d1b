package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSignature Phase = "signature" // type descriptor decoding
	PhaseLookup    Phase = "lookup"    // class resolution
	PhaseExtract   Phase = "extract"   // metadata extraction
	PhaseBridge    Phase = "bridge"    // foreign object operations
	PhaseControl   Phase = "control"   // runtime start/stop
	PhaseHost      Phase = "host"      // host value marshalling
	PhaseLoad      Phase = "load"      // class file loading
	PhaseParse     Phase = "parse"     // class file parsing
	PhaseConfig    Phase = "config"    // option loading and validation
)

// Kind categorizes the error
type Kind string

const (
	KindSignature        Kind = "signature"
	KindClassNotFound    Kind = "class_not_found"
	KindNotRunning       Kind = "not_running"
	KindAlreadyRunning   Kind = "already_running"
	KindRestartForbidden Kind = "restart_forbidden"
	KindIntrospection    Kind = "introspection"
	KindRuntimeException Kind = "runtime_exception"
	KindStartFailed      Kind = "start_failed"
	KindWrongType        Kind = "wrong_type"
	KindInvalidInput     Kind = "invalid_input"
	KindInvalidData      Kind = "invalid_data"
	KindReleased         Kind = "released"
	KindUnsupported      Kind = "unsupported"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Class  string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Class != "" {
		b.WriteString(": class ")
		b.WriteString(e.Class)
	}

	if e.Detail != "" {
		if e.Class != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone, which is how the sentinels below are compared.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Sentinels for errors.Is comparisons across phases.
var (
	ErrSignature        = &Error{Kind: KindSignature}
	ErrClassNotFound    = &Error{Kind: KindClassNotFound}
	ErrNotRunning       = &Error{Kind: KindNotRunning}
	ErrAlreadyRunning   = &Error{Kind: KindAlreadyRunning}
	ErrRestartForbidden = &Error{Kind: KindRestartForbidden}
	ErrIntrospection    = &Error{Kind: KindIntrospection}
	ErrRuntimeException = &Error{Kind: KindRuntimeException}
	ErrWrongType        = &Error{Kind: KindWrongType}
	ErrReleased         = &Error{Kind: KindReleased}
)

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the member path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Class sets the offending class name
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Signature creates a malformed type descriptor error. fragment is the
// offending substring of sig.
func Signature(sig, fragment, reason string) *Error {
	return &Error{
		Phase:  PhaseSignature,
		Kind:   KindSignature,
		Value:  fragment,
		Detail: fmt.Sprintf("%s in %q at %q", reason, sig, fragment),
	}
}

// ClassNotFound creates a class lookup failure
func ClassNotFound(name string, cause error) *Error {
	return &Error{
		Phase: PhaseLookup,
		Kind:  KindClassNotFound,
		Class: name,
		Cause: cause,
	}
}

// NotRunning creates the error returned when the runtime is not running
func NotRunning(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotRunning,
		Detail: "runtime not running",
	}
}

// AlreadyRunning creates the error returned by a second start
func AlreadyRunning() *Error {
	return &Error{
		Phase:  PhaseControl,
		Kind:   KindAlreadyRunning,
		Detail: "runtime already running",
	}
}

// RestartForbidden creates the error returned by start after stop
func RestartForbidden() *Error {
	return &Error{
		Phase:  PhaseControl,
		Kind:   KindRestartForbidden,
		Detail: "runtime may not be restarted in this process",
	}
}

// StartFailed wraps a launcher failure; code is the runtime's own status code
func StartFailed(code int, cause error) *Error {
	return &Error{
		Phase:  PhaseControl,
		Kind:   KindStartFailed,
		Value:  code,
		Detail: fmt.Sprintf("runtime creation failed (%d)", code),
		Cause:  cause,
	}
}

// Introspection wraps a named error code returned by the introspection API
func Introspection(class string, op string, code fmt.Stringer) *Error {
	return &Error{
		Phase:  PhaseExtract,
		Kind:   KindIntrospection,
		Class:  class,
		Value:  code,
		Detail: fmt.Sprintf("%s: %s", op, code),
	}
}

// WrongType creates a host argument type error
func WrongType(expected string, got any) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindWrongType,
		Value:  got,
		Detail: fmt.Sprintf("expected %s", expected),
	}
}

// Released creates the error returned when a released handle is used
func Released(class string) *Error {
	return &Error{
		Phase:  PhaseBridge,
		Kind:   KindReleased,
		Class:  class,
		Detail: "handle already released",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a class loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
