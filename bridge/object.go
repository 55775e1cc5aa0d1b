package bridge

import (
	"runtime"
	"sync/atomic"

	"github.com/wippyai/gargoyle/control"
	"github.com/wippyai/gargoyle/errors"
	"github.com/wippyai/gargoyle/jvm"
	"github.com/wippyai/gargoyle/signature"
)

// Object is a handle to a runtime object: a global reference plus the
// canonical name of the object's class.
type Object struct {
	session   *control.Session
	state     *handleState
	class     string
	ref       jvm.Ref
	cleanup   runtime.Cleanup
	transient bool
}

// handleState lives outside Object so the cleanup can reach it without
// keeping the Object alive.
type handleState struct {
	released atomic.Bool
}

type releaseTicket struct {
	session *control.Session
	state   *handleState
	ref     jvm.Ref
}

func queueRelease(t releaseTicket) {
	if t.state.released.CompareAndSwap(false, true) {
		t.session.EnqueueRelease(t.ref)
	}
}

// enter returns the call-context API and performs queued releases.
func enter(s *control.Session) (jvm.Env, error) {
	env, err := s.Env()
	if err != nil {
		return nil, err
	}
	s.Drain()
	return env, nil
}

// Wrap promotes ref to a global reference and returns a handle owning it.
// knownClass may be 0, in which case the object's class is looked up. The
// caller keeps ownership of ref and knownClass. Wrapping the same object
// twice yields two independent handles.
func Wrap(s *control.Session, ref jvm.Ref, knownClass jvm.Ref) (*Object, error) {
	env, err := enter(s)
	if err != nil {
		return nil, err
	}
	return wrap(s, env, ref, knownClass)
}

func wrap(s *control.Session, env jvm.Env, ref jvm.Ref, knownClass jvm.Ref) (*Object, error) {
	if ref == 0 {
		return nil, errors.InvalidInput(errors.PhaseBridge, "cannot wrap a null reference")
	}

	name, err := objectClassName(s, env, ref, knownClass)
	if err != nil {
		return nil, err
	}

	global := env.NewGlobalRef(ref)
	if global == 0 {
		if err := Check(s); err != nil {
			return nil, err
		}
		return nil, errors.New(errors.PhaseBridge, errors.KindInvalidData).
			Class(name).
			Detail("global reference not created").
			Build()
	}

	return newObject(s, name, global), nil
}

// newObject takes ownership of a global reference.
func newObject(s *control.Session, name string, global jvm.Ref) *Object {
	state := &handleState{}
	o := &Object{
		session: s,
		state:   state,
		class:   name,
		ref:     global,
	}
	o.cleanup = runtime.AddCleanup(o, queueRelease, releaseTicket{session: s, state: state, ref: global})
	return o
}

// Transient wraps ref without promoting it. The handle is only valid until
// the caller deletes ref, and Release is a no-op.
func Transient(s *control.Session, ref jvm.Ref) (*Object, error) {
	env, err := enter(s)
	if err != nil {
		return nil, err
	}
	if ref == 0 {
		return nil, errors.InvalidInput(errors.PhaseBridge, "cannot wrap a null reference")
	}
	name, err := objectClassName(s, env, ref, 0)
	if err != nil {
		return nil, err
	}
	return &Object{
		session:   s,
		state:     &handleState{},
		class:     name,
		ref:       ref,
		transient: true,
	}, nil
}

func objectClassName(s *control.Session, env jvm.Env, ref jvm.Ref, knownClass jvm.Ref) (string, error) {
	class := knownClass
	if class == 0 {
		class = env.GetObjectClass(ref)
		if err := Check(s); err != nil {
			return "", err
		}
		if class == 0 {
			return "", errors.InvalidInput(errors.PhaseBridge, "object has no class")
		}
		defer env.DeleteLocalRef(class)
	}
	return classRefName(s, class)
}

// classRefName reads the canonical name of the class a reference denotes.
func classRefName(s *control.Session, class jvm.Ref) (string, error) {
	insp, err := s.Inspector()
	if err != nil {
		return "", err
	}
	sig, code := insp.GetClassSignature(class)
	if code != jvm.ErrNone {
		e := errors.Introspection("", "GetClassSignature", code)
		e.Phase = errors.PhaseBridge
		return "", e
	}
	t, err := signature.DecodeField(sig)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// Unwrap returns the global reference held by o. It fails once o is
// released or its runtime has stopped.
func Unwrap(o *Object) (jvm.Ref, error) {
	if o == nil {
		return 0, errors.WrongType("runtime object", nil)
	}
	if o.state.released.Load() {
		return 0, errors.Released(o.class)
	}
	if !o.session.Valid() {
		return 0, errors.NotRunning(errors.PhaseBridge)
	}
	return o.ref, nil
}

// ClassOf returns the canonical name of o's class.
func ClassOf(o *Object) string {
	return o.class
}

// ClassName is ClassOf as a method.
func (o *Object) ClassName() string {
	return o.class
}

// Transient reports whether o was created without promotion.
func (o *Object) Transient() bool {
	return o.transient
}

// Released reports whether o has been released.
func (o *Object) Released() bool {
	return o.state.released.Load()
}

// Release deletes the global reference. Later calls do nothing. After the
// runtime stops there is nothing left to delete.
func (o *Object) Release() {
	if o == nil || !o.state.released.CompareAndSwap(false, true) {
		return
	}
	if o.transient {
		return
	}
	o.cleanup.Stop()
	env, err := o.session.Env()
	if err != nil {
		return
	}
	env.DeleteGlobalRef(o.ref)
}

// String implements fmt.Stringer.
func (o *Object) String() string {
	return "#<runtime object " + o.class + ">"
}
