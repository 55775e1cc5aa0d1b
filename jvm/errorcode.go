package jvm

import "strconv"

// ErrorCode is an introspection API result code. Zero means success.
type ErrorCode int

const (
	ErrNone             ErrorCode = 0
	ErrInvalidObject    ErrorCode = 20
	ErrInvalidClass     ErrorCode = 21
	ErrClassNotPrepared ErrorCode = 22
	ErrInvalidMethodID  ErrorCode = 23
	ErrInvalidFieldID   ErrorCode = 25
	ErrNullPointer      ErrorCode = 100
	ErrOutOfMemory      ErrorCode = 110
	ErrIllegalArgument  ErrorCode = 103
	ErrWrongPhase       ErrorCode = 112
	ErrInternal         ErrorCode = 113
)

var errorCodeNames = map[ErrorCode]string{
	ErrNone:             "JVMTI_ERROR_NONE",
	ErrInvalidObject:    "JVMTI_ERROR_INVALID_OBJECT",
	ErrInvalidClass:     "JVMTI_ERROR_INVALID_CLASS",
	ErrClassNotPrepared: "JVMTI_ERROR_CLASS_NOT_PREPARED",
	ErrInvalidMethodID:  "JVMTI_ERROR_INVALID_METHODID",
	ErrInvalidFieldID:   "JVMTI_ERROR_INVALID_FIELDID",
	ErrNullPointer:      "JVMTI_ERROR_NULL_POINTER",
	ErrOutOfMemory:      "JVMTI_ERROR_OUT_OF_MEMORY",
	ErrIllegalArgument:  "JVMTI_ERROR_ILLEGAL_ARGUMENT",
	ErrWrongPhase:       "JVMTI_ERROR_WRONG_PHASE",
	ErrInternal:         "JVMTI_ERROR_INTERNAL",
}

// String returns the code's symbolic name.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "JVMTI_ERROR(" + strconv.Itoa(int(c)) + ")"
}
