package bridge

import (
	"go.uber.org/zap"

	"github.com/wippyai/gargoyle/control"
	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
)

// RuntimeException is a runtime-side exception surfaced as a Go error. It
// owns a handle to the throwable.
type RuntimeException struct {
	Throwable *Object
	// Message is the throwable's toString.
	Message string
	err     *errors.Error
}

func newRuntimeException(t *Object, msg string) *RuntimeException {
	return &RuntimeException{
		Throwable: t,
		Message:   msg,
		err: &errors.Error{
			Phase:  errors.PhaseBridge,
			Kind:   errors.KindRuntimeException,
			Class:  t.ClassName(),
			Detail: msg,
		},
	}
}

func (e *RuntimeException) Error() string {
	return e.err.Error()
}

// Unwrap exposes the structured error so errors.Is matches
// errors.ErrRuntimeException.
func (e *RuntimeException) Unwrap() error {
	return e.err
}

// Release releases the throwable handle.
func (e *RuntimeException) Release() {
	e.Throwable.Release()
}

// Check translates a pending runtime exception into an error. It must be
// called right after every runtime call that can raise. The exception is
// described to the runtime's error stream, logged, cleared and wrapped.
func Check(s *control.Session) error {
	env, err := s.Env()
	if err != nil {
		return err
	}
	exc := env.ExceptionOccurred()
	if exc == 0 {
		return nil
	}
	defer env.DeleteLocalRef(exc)

	env.ExceptionDescribe()
	env.ExceptionClear()

	msg := displayRaw(env, exc)
	t, err := wrapThrowable(s, env, exc)
	if err != nil {
		return err
	}

	s.Logger().Debug("runtime exception cleared",
		zap.String("class", t.ClassName()),
		zap.String("message", msg))
	return newRuntimeException(t, msg)
}

// Discard clears a pending exception without promoting it and returns its
// display string. It reports false when nothing was pending.
func Discard(s *control.Session) (string, bool) {
	env, err := s.Env()
	if err != nil {
		return "", false
	}
	exc := env.ExceptionOccurred()
	if exc == 0 {
		return "", false
	}
	defer env.DeleteLocalRef(exc)
	env.ExceptionClear()

	t, err := Transient(s, exc)
	if err != nil {
		return displayRaw(env, exc), true
	}
	defer t.Release()

	msg := displayRaw(env, exc)
	s.Logger().Debug("runtime exception discarded",
		zap.String("class", t.ClassName()),
		zap.String("message", msg))
	return msg, true
}

// wrapThrowable promotes a throwable. A failure here clears whatever is
// pending instead of recursing into Check.
func wrapThrowable(s *control.Session, env jvm.Env, exc jvm.Ref) (*Object, error) {
	class := env.GetObjectClass(exc)
	if class == 0 {
		env.ExceptionClear()
		return nil, errors.New(errors.PhaseBridge, errors.KindRuntimeException).
			Detail("exception object has no class").
			Build()
	}
	defer env.DeleteLocalRef(class)

	name, err := classRefName(s, class)
	if err != nil {
		return nil, err
	}
	global := env.NewGlobalRef(exc)
	if global == 0 {
		env.ExceptionClear()
		return nil, errors.New(errors.PhaseBridge, errors.KindRuntimeException).
			Class(name).
			Detail("exception object could not be retained").
			Build()
	}

	return newObject(s, name, global), nil
}

// displayRaw calls toString on ref, clearing anything it raises. It never
// fails; an empty result means toString was unavailable.
func displayRaw(env jvm.Env, ref jvm.Ref) string {
	objClass := env.FindClass(jvm.ClassObject)
	if objClass == 0 {
		env.ExceptionClear()
		return ""
	}
	defer env.DeleteLocalRef(objClass)

	mid := env.GetMethodID(objClass, jvm.ToStringName, jvm.ToStringSig)
	if mid == 0 {
		env.ExceptionClear()
		return ""
	}
	str := env.CallObjectMethod(ref, mid)
	if str == 0 {
		env.ExceptionClear()
		return ""
	}
	defer env.DeleteLocalRef(str)

	text, ok := env.GetStringUTFChars(str)
	if !ok {
		env.ExceptionClear()
		return ""
	}
	return text
}
