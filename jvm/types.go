package jvm

import "context"

// Ref is an opaque reference to a runtime object. Zero is null.
type Ref uintptr

// MethodID identifies a method of a loaded class.
type MethodID uintptr

// FieldID identifies a field of a loaded class.
type FieldID uintptr

// Well-known internal class names.
const (
	ClassObject    = "java/lang/Object"
	ClassString    = "java/lang/String"
	ClassClass     = "java/lang/Class"
	ClassThrowable = "java/lang/Throwable"
)

// Constructor and toString member names and signatures.
const (
	ConstructorName = "<init>"
	ConstructorSig  = "()V"
	ToStringName    = "toString"
	ToStringSig     = "()Ljava/lang/String;"
)

// Status codes returned by Launcher.Launch, VM.Destroy and
// Env.EnsureLocalCapacity.
const (
	OK          = 0
	ErrUnknown  = -1
	ErrDetached = -2
	ErrVersion  = -3
	ErrNoMem    = -4
	ErrExist    = -5
	ErrInval    = -6
)

// Env is the call-context API bound to the thread that created the runtime.
type Env interface {
	// GetVersion returns the encoded interface version, e.g. 0x00010008.
	GetVersion() int32

	// FindClass loads a class by internal name. On failure it returns 0
	// with an exception pending.
	FindClass(name string) Ref
	GetSuperclass(class Ref) Ref
	GetObjectClass(obj Ref) Ref
	IsSameObject(a, b Ref) bool

	NewGlobalRef(ref Ref) Ref
	DeleteGlobalRef(ref Ref)
	DeleteLocalRef(ref Ref)
	EnsureLocalCapacity(capacity int32) int32

	GetMethodID(class Ref, name, sig string) MethodID
	NewObject(class Ref, ctor MethodID) Ref
	// CallObjectMethod invokes a no-argument method returning a reference.
	CallObjectMethod(obj Ref, method MethodID) Ref

	NewStringUTF(s string) Ref
	GetStringUTFChars(str Ref) (string, bool)

	ExceptionOccurred() Ref
	ExceptionCheck() bool
	ExceptionDescribe()
	ExceptionClear()
}

// Inspector is the introspection API. Slices of Refs it returns hold local
// references owned by the caller.
type Inspector interface {
	GetClassSignature(class Ref) (string, ErrorCode)
	GetClassModifiers(class Ref) (int32, ErrorCode)
	GetImplementedInterfaces(class Ref) ([]Ref, ErrorCode)
	GetClassMethods(class Ref) ([]MethodID, ErrorCode)
	GetClassFields(class Ref) ([]FieldID, ErrorCode)

	GetMethodName(method MethodID) (name, sig string, code ErrorCode)
	GetMethodModifiers(method MethodID) (int32, ErrorCode)
	GetFieldName(class Ref, field FieldID) (name, sig string, code ErrorCode)
	GetFieldModifiers(class Ref, field FieldID) (int32, ErrorCode)
}

// VM is a created runtime.
type VM interface {
	Env() Env
	Inspector() Inspector
	// Destroy tears the runtime down. A runtime cannot be created again in
	// the same process afterwards.
	Destroy() int
}

// Launcher creates a runtime. The returned code is OK on success or one
// of the negative status codes.
type Launcher interface {
	Launch(ctx context.Context, args InitArgs) (VM, int, error)
}

// InitArgs are the creation arguments handed to a Launcher.
type InitArgs struct {
	Options            []string
	Version            int32
	IgnoreUnrecognized bool
}
